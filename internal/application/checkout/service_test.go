package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sabstore/backend/internal/application/pricing"
	"github.com/sabstore/backend/internal/application/scope"
	"github.com/sabstore/backend/internal/domain/cart"
	"github.com/sabstore/backend/internal/domain/catalog"
	"github.com/sabstore/backend/internal/domain/coupon"
	"github.com/sabstore/backend/internal/domain/order"
	"github.com/sabstore/backend/internal/domain/shared"
	"github.com/sabstore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCartRepository is a mock implementation of cart.Repository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) FindByOwner(ctx context.Context, owner cart.OwnerKey) (*cart.Cart, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteItems(ctx context.Context, cartID uuid.UUID) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of order.Repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByReference(ctx context.Context, reference string) (*order.Order, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOwner(ctx context.Context, userID *uuid.UUID, sessionID *string, filter shared.Filter) ([]order.Order, int64, error) {
	args := m.Called(ctx, userID, sessionID, filter)
	return args.Get(0).([]order.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]order.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) ExistsByReference(ctx context.Context, reference string) (bool, error) {
	args := m.Called(ctx, reference)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) MarkPaid(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateFulfillment(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

// MockCouponRepository is a mock implementation of coupon.Repository
type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) FindByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coupon.Coupon), args.Error(1)
}

func (m *MockCouponRepository) IncrementUsage(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockCouponRepository) Save(ctx context.Context, c *coupon.Coupon) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByEposnowID(ctx context.Context, eposnowProductID string) (*catalog.Product, error) {
	args := m.Called(ctx, eposnowProductID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type checkoutFixture struct {
	carts    *MockCartRepository
	orders   *MockOrderRepository
	coupons  *MockCouponRepository
	products *MockProductRepository
	svc      *Service
}

func newFixture(taxRate decimal.Decimal) *checkoutFixture {
	f := &checkoutFixture{
		carts:    new(MockCartRepository),
		orders:   new(MockOrderRepository),
		coupons:  new(MockCouponRepository),
		products: new(MockProductRepository),
	}
	txScope := &scope.NoOpTransactionScope{
		CartRepo:    f.carts,
		OrderRepo:   f.orders,
		CouponRepo:  f.coupons,
		ProductRepo: f.products,
	}
	pricer := pricing.NewService(f.coupons, nil)
	f.svc = NewService(txScope, pricer, taxRate, nil)
	return f
}

func cartWithOneLine(owner cart.OwnerKey, productID uuid.UUID, qty int, unitPrice float64) *cart.Cart {
	c := cart.NewCart(owner)
	_ = c.AddItem(productID, qty, valueobject.NewMoneyNGNFromFloat(unitPrice), nil, nil)
	return c
}

func TestCheckout_PlacesPendingOrder(t *testing.T) {
	f := newFixture(decimal.NewFromFloat(7.5))
	owner := cart.UserOwner(uuid.New())
	productID := uuid.New()
	c := cartWithOneLine(owner, productID, 4, 25) // subtotal 100

	f.carts.On("FindByOwner", mock.Anything, owner).Return(c, nil)
	f.coupons.On("FindByCode", mock.Anything, "WELCOME10").Return(&coupon.Coupon{
		Code:     "WELCOME10",
		Type:     coupon.TypePercent,
		Value:    decimal.NewFromInt(10),
		IsActive: true,
	}, nil)
	f.orders.On("ExistsByReference", mock.Anything, mock.Anything).Return(false, nil)
	f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{
		{BaseAggregateRoot: shared.BaseAggregateRoot{BaseEntity: shared.BaseEntity{ID: productID}}, Name: "Ankara Tote"},
	}, nil)
	f.orders.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.coupons.On("IncrementUsage", mock.Anything, "WELCOME10").Return(nil)
	f.carts.On("DeleteItems", mock.Anything, c.ID).Return(nil)
	f.carts.On("Save", mock.Anything, c).Return(nil)

	placed, err := f.svc.Checkout(context.Background(), Input{
		Owner:           owner,
		ShippingAddress: "12 Marina Rd, Lagos",
		PaymentMethod:   "paystack",
		CouponCode:      "WELCOME10",
		DeliveryFee:     valueobject.NewMoneyNGNFromFloat(5),
	})
	require.NoError(t, err)

	assert.Regexp(t, `^SAB-[A-Z0-9]{10}$`, placed.OrderReference)
	assert.Equal(t, order.StatusPending, placed.Status)
	assert.Equal(t, order.FulfillmentOrderPlaced, placed.OrderStatus)
	assert.Equal(t, "100.00", placed.Subtotal.StringFixed(2))
	assert.Equal(t, "10.00", placed.DiscountAmount.StringFixed(2))
	assert.Equal(t, "6.75", placed.TaxAmount.StringFixed(2))
	assert.Equal(t, "101.75", placed.Total.StringFixed(2))
	require.Len(t, placed.Items, 1)
	assert.Equal(t, "Ankara Tote", placed.Items[0].ProductName)
	assert.Equal(t, 4, placed.Items[0].Quantity)

	assert.True(t, c.IsEmpty(), "cart must be cleared after checkout")
	f.coupons.AssertNumberOfCalls(t, "IncrementUsage", 1)
	f.carts.AssertExpectations(t)
	f.orders.AssertExpectations(t)
}

func TestCheckout_RequestTaxRateOverridesStoreRate(t *testing.T) {
	f := newFixture(decimal.NewFromFloat(7.5))
	owner := cart.UserOwner(uuid.New())
	productID := uuid.New()
	c := cartWithOneLine(owner, productID, 4, 25) // subtotal 100

	f.carts.On("FindByOwner", mock.Anything, owner).Return(c, nil)
	f.orders.On("ExistsByReference", mock.Anything, mock.Anything).Return(false, nil)
	f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{}, nil)
	f.orders.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.carts.On("DeleteItems", mock.Anything, c.ID).Return(nil)
	f.carts.On("Save", mock.Anything, c).Return(nil)

	requested := decimal.NewFromInt(10)
	placed, err := f.svc.Checkout(context.Background(), Input{
		Owner:       owner,
		DeliveryFee: valueobject.ZeroNGN(),
		TaxRate:     &requested,
	})
	require.NoError(t, err)

	assert.True(t, placed.TaxRate.Equal(requested))
	assert.Equal(t, "10.00", placed.TaxAmount.StringFixed(2))
	assert.Equal(t, "110.00", placed.Total.StringFixed(2))
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newFixture(decimal.Zero)
	owner := cart.SessionOwner("sess-1")

	f.carts.On("FindByOwner", mock.Anything, owner).Return(cart.NewCart(owner), nil)

	_, err := f.svc.Checkout(context.Background(), Input{Owner: owner})
	assert.ErrorIs(t, err, shared.ErrEmptyCart)
	f.orders.AssertNotCalled(t, "Save")
}

func TestCheckout_MissingCart(t *testing.T) {
	f := newFixture(decimal.Zero)
	owner := cart.SessionOwner("sess-2")

	f.carts.On("FindByOwner", mock.Anything, owner).Return(nil, shared.ErrNotFound)

	_, err := f.svc.Checkout(context.Background(), Input{Owner: owner})
	assert.ErrorIs(t, err, shared.ErrEmptyCart)
}

func TestCheckout_ReferenceCollisionRetries(t *testing.T) {
	f := newFixture(decimal.Zero)
	owner := cart.UserOwner(uuid.New())
	productID := uuid.New()
	c := cartWithOneLine(owner, productID, 1, 10)

	f.carts.On("FindByOwner", mock.Anything, owner).Return(c, nil)
	f.orders.On("ExistsByReference", mock.Anything, mock.Anything).Return(true, nil).Once()
	f.orders.On("ExistsByReference", mock.Anything, mock.Anything).Return(false, nil).Once()
	f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{}, nil)
	f.orders.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.carts.On("DeleteItems", mock.Anything, c.ID).Return(nil)
	f.carts.On("Save", mock.Anything, c).Return(nil)

	placed, err := f.svc.Checkout(context.Background(), Input{
		Owner:       owner,
		DeliveryFee: valueobject.ZeroNGN(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, placed.OrderReference)
	f.orders.AssertNumberOfCalls(t, "ExistsByReference", 2)
}

func TestCheckout_CouponCapRaceRollsBack(t *testing.T) {
	f := newFixture(decimal.Zero)
	owner := cart.UserOwner(uuid.New())
	productID := uuid.New()
	c := cartWithOneLine(owner, productID, 1, 50)

	f.carts.On("FindByOwner", mock.Anything, owner).Return(c, nil)
	f.coupons.On("FindByCode", mock.Anything, "RACE").Return(&coupon.Coupon{
		Code:     "RACE",
		Type:     coupon.TypePercent,
		Value:    decimal.NewFromInt(5),
		IsActive: true,
	}, nil)
	f.orders.On("ExistsByReference", mock.Anything, mock.Anything).Return(false, nil)
	f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{}, nil)
	f.orders.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.coupons.On("IncrementUsage", mock.Anything, "RACE").Return(shared.ErrCouponExhausted)

	_, err := f.svc.Checkout(context.Background(), Input{
		Owner:       owner,
		CouponCode:  "RACE",
		DeliveryFee: valueobject.ZeroNGN(),
	})
	assert.ErrorIs(t, err, shared.ErrCouponExhausted)
	f.carts.AssertNotCalled(t, "DeleteItems")
}
