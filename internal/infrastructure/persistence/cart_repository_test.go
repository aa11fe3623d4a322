package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sabstore/backend/internal/domain/cart"
	"github.com/sabstore/backend/internal/domain/shared"
	"github.com/sabstore/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&cart.Cart{}, &cart.CartItem{})
	require.NoError(t, err)

	return db
}

func TestGormCartRepository_SaveAndFindByOwner(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewGormCartRepository(db)
	ctx := context.Background()

	owner := cart.SessionOwner("guest-session-1")
	c := cart.NewCart(owner)
	require.NoError(t, c.AddItem(uuid.New(), 2, valueobject.NewMoneyNGNFromFloat(50), nil, nil))
	require.NoError(t, repo.Save(ctx, c))

	found, err := repo.FindByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, c.ID, found.ID)
	require.Len(t, found.Items, 1)
	assert.Equal(t, 2, found.Items[0].Quantity)
	assert.True(t, found.Total.Amount().Equal(c.Total.Amount()))
}

func TestGormCartRepository_FindByOwner_Unknown(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewGormCartRepository(db)

	_, err := repo.FindByOwner(context.Background(), cart.SessionOwner("nope"))
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormCartRepository_SavePersistsLineChanges(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewGormCartRepository(db)
	ctx := context.Background()

	owner := cart.SessionOwner("guest-session-1")
	c := cart.NewCart(owner)
	require.NoError(t, c.AddItem(uuid.New(), 1, valueobject.NewMoneyNGNFromFloat(25), nil, nil))
	require.NoError(t, repo.Save(ctx, c))

	require.NoError(t, c.UpdateItemQuantity(c.Items[0].ID, 4))
	require.NoError(t, repo.Save(ctx, c))

	found, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, 4, found.Items[0].Quantity)
}

func TestGormCartRepository_DeleteItems(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewGormCartRepository(db)
	ctx := context.Background()

	c := cart.NewCart(cart.SessionOwner("guest-session-1"))
	require.NoError(t, c.AddItem(uuid.New(), 2, valueobject.NewMoneyNGNFromFloat(50), nil, nil))
	require.NoError(t, c.AddItem(uuid.New(), 1, valueobject.NewMoneyNGNFromFloat(30), nil, nil))
	require.NoError(t, repo.Save(ctx, c))

	require.NoError(t, repo.DeleteItems(ctx, c.ID))

	var count int64
	require.NoError(t, db.Model(&cart.CartItem{}).Where("cart_id = ?", c.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGormCartRepository_Delete(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewGormCartRepository(db)
	ctx := context.Background()

	c := cart.NewCart(cart.SessionOwner("guest-session-1"))
	require.NoError(t, c.AddItem(uuid.New(), 2, valueobject.NewMoneyNGNFromFloat(50), nil, nil))
	require.NoError(t, repo.Save(ctx, c))

	require.NoError(t, repo.Delete(ctx, c.ID))

	_, err := repo.FindByID(ctx, c.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
