package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sabstore/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddItemMergesMatchingLines(t *testing.T) {
	c := NewCart(SessionOwner("sess-1"))
	productID := uuid.New()
	price := valueobject.NewMoneyNGNFromFloat(25)

	require.NoError(t, c.AddItem(productID, 2, price, nil, nil))
	require.NoError(t, c.AddItem(productID, 3, price, nil, nil))

	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.Equal(t, "125.00", c.Total.StringFixed(2))
}

func TestCart_AddItemDistinguishesColorAndCustomization(t *testing.T) {
	c := NewCart(SessionOwner("sess-1"))
	productID := uuid.New()
	price := valueobject.NewMoneyNGNFromFloat(10)
	red := "red"
	customization := uuid.New()

	require.NoError(t, c.AddItem(productID, 1, price, nil, nil))
	require.NoError(t, c.AddItem(productID, 1, price, &red, nil))
	require.NoError(t, c.AddItem(productID, 1, price, &red, &customization))

	assert.Len(t, c.Items, 3)
	assert.Equal(t, "30.00", c.Total.StringFixed(2))
}

func TestCart_UpdateItemQuantity(t *testing.T) {
	c := NewCart(UserOwner(uuid.New()))
	productID := uuid.New()
	require.NoError(t, c.AddItem(productID, 1, valueobject.NewMoneyNGNFromFloat(40), nil, nil))

	itemID := c.Items[0].ID
	require.NoError(t, c.UpdateItemQuantity(itemID, 4))
	assert.Equal(t, "160.00", c.Total.StringFixed(2))

	err := c.UpdateItemQuantity(itemID, 0)
	assert.Error(t, err)

	err = c.UpdateItemQuantity(uuid.New(), 2)
	assert.Error(t, err)
}

func TestCart_RemoveItemRecomputesTotal(t *testing.T) {
	c := NewCart(UserOwner(uuid.New()))
	require.NoError(t, c.AddItem(uuid.New(), 1, valueobject.NewMoneyNGNFromFloat(15), nil, nil))
	require.NoError(t, c.AddItem(uuid.New(), 2, valueobject.NewMoneyNGNFromFloat(5), nil, nil))

	require.NoError(t, c.RemoveItem(c.Items[0].ID))
	assert.Len(t, c.Items, 1)
	assert.Equal(t, "10.00", c.Total.StringFixed(2))
}

func TestCart_AbsorbLines(t *testing.T) {
	userCart := NewCart(UserOwner(uuid.New()))
	guestCart := NewCart(SessionOwner("sess-9"))
	sharedProduct := uuid.New()
	price := valueobject.NewMoneyNGNFromFloat(20)

	require.NoError(t, userCart.AddItem(sharedProduct, 1, price, nil, nil))
	require.NoError(t, guestCart.AddItem(sharedProduct, 2, price, nil, nil))
	require.NoError(t, guestCart.AddItem(uuid.New(), 1, valueobject.NewMoneyNGNFromFloat(7), nil, nil))

	userCart.AbsorbLines(guestCart)

	require.Len(t, userCart.Items, 2)
	assert.Equal(t, 3, userCart.Items[0].Quantity)
	assert.Equal(t, "67.00", userCart.Total.StringFixed(2))
	assert.True(t, guestCart.IsEmpty())
	assert.True(t, guestCart.Total.IsZero())
}
