package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sabstore/backend/internal/domain/payment"
	"github.com/sabstore/backend/internal/domain/shared"
	"github.com/sabstore/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTransactionTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&payment.Transaction{})
	require.NoError(t, err)

	return db
}

func newTestTransaction(reference, status string) *payment.Transaction {
	return &payment.Transaction{
		BaseEntity:    shared.NewBaseEntity(),
		Reference:     reference,
		OrderID:       uuid.New(),
		Amount:        valueobject.NewMoneyNGNFromFloat(101.75),
		Currency:      "NGN",
		Status:        status,
		Channel:       "card",
		CustomerEmail: "ada@example.com",
	}
}

func TestGormTransactionRepository_Upsert_InsertsThenUpdates(t *testing.T) {
	db := setupTransactionTestDB(t)
	repo := NewGormTransactionRepository(db)
	ctx := context.Background()

	tx := newTestTransaction("PSK_ref_123", "pending")
	require.NoError(t, repo.Upsert(ctx, tx))

	// Replayed verification reports the settled state for the same reference.
	now := time.Now()
	settled := newTestTransaction("PSK_ref_123", "success")
	settled.OrderID = tx.OrderID
	settled.GatewayResponse = "Approved"
	settled.PaidAt = &now
	require.NoError(t, repo.Upsert(ctx, settled))

	var count int64
	require.NoError(t, db.Model(&payment.Transaction{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	found, err := repo.FindByReference(ctx, "PSK_ref_123")
	require.NoError(t, err)
	assert.Equal(t, "success", found.Status)
	assert.Equal(t, "Approved", found.GatewayResponse)
	assert.NotNil(t, found.PaidAt)
}

func TestGormTransactionRepository_FindByReference_Unknown(t *testing.T) {
	db := setupTransactionTestDB(t)
	repo := NewGormTransactionRepository(db)

	_, err := repo.FindByReference(context.Background(), "PSK_nope")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormTransactionRepository_FindByUser(t *testing.T) {
	db := setupTransactionTestDB(t)
	repo := NewGormTransactionRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	for i, ref := range []string{"PSK_a", "PSK_b"} {
		tx := newTestTransaction(ref, "success")
		tx.UserID = &userID
		tx.CreatedAt = time.Now().Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.Upsert(ctx, tx))
	}
	require.NoError(t, repo.Upsert(ctx, newTestTransaction("PSK_c", "success")))

	transactions, total, err := repo.FindByUser(ctx, userID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, transactions, 2)
}
