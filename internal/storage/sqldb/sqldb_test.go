package sqldb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restaurante/backend/internal/models"
	"github.com/restaurante/backend/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")
	t.Cleanup(func() { store.Close() })
	return store
}

// seedOrder creates the address, client, dish and order an item needs.
func seedOrder(t *testing.T, store *Store, ctx context.Context) {
	t.Helper()
	require.NoError(t, store.CreateAddress(ctx, &models.Address{
		ID: "e1", Street: "Rua A", Number: "10", Neighborhood: "Centro",
		City: "Recife", State: "PE", ZipCode: "50000-000",
	}))
	require.NoError(t, store.CreateClient(ctx, &models.Client{
		ID: "c1", Name: "Ana", Phone: "81999990000", CPF: "52998224725", AddressID: "e1",
	}))
	require.NoError(t, store.CreateDish(ctx, &models.Dish{
		ID: "p1", Name: "Feijoada", PriceCents: 4590, Category: models.CategoryMain,
	}))
	require.NoError(t, store.CreateOrder(ctx, &models.Order{
		ID: "o1", ClientID: "c1", PlacedAt: "2024-05-01T12:00:00Z", Status: models.OrderPreparing,
	}))
}

func TestMigrate(t *testing.T) {
	store := newTestStore(t)

	// A second run finds nothing to do.
	require.NoError(t, store.Migrate())

	version, dirty, err := store.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
}

func TestCustomers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("list is empty, not nil", func(t *testing.T) {
		addrs, err := store.ListAddresses(ctx)
		require.NoError(t, err)
		assert.NotNil(t, addrs)
		assert.Empty(t, addrs)
	})

	addr := &models.Address{
		ID: "e1", Street: "Rua das Flores", Number: "123", Neighborhood: "Boa Vista",
		City: "Recife", State: "PE", ZipCode: "50050-000",
	}
	require.NoError(t, store.CreateAddress(ctx, addr))

	t.Run("get returns the stored address", func(t *testing.T) {
		got, err := store.GetAddress(ctx, "e1")
		require.NoError(t, err)
		assert.Equal(t, addr, got)
	})

	t.Run("duplicate key", func(t *testing.T) {
		err := store.CreateAddress(ctx, addr)
		assert.ErrorIs(t, err, storage.ErrDuplicate)
	})

	t.Run("client with unknown address", func(t *testing.T) {
		err := store.CreateClient(ctx, &models.Client{
			ID: "c9", Name: "Bia", Phone: "8133334444", CPF: "11144477735", AddressID: "nope",
		})
		assert.ErrorIs(t, err, storage.ErrReference)
	})

	client := &models.Client{ID: "c1", Name: "Ana", Phone: "81999990000", CPF: "52998224725", AddressID: "e1"}
	require.NoError(t, store.CreateClient(ctx, client))

	t.Run("cpf is unique", func(t *testing.T) {
		dup := *client
		dup.ID = "c2"
		err := store.CreateClient(ctx, &dup)
		assert.ErrorIs(t, err, storage.ErrDuplicate)
	})

	t.Run("address in use cannot be deleted", func(t *testing.T) {
		err := store.DeleteAddress(ctx, "e1")
		assert.ErrorIs(t, err, storage.ErrReference)
	})

	t.Run("update rewrites all columns", func(t *testing.T) {
		client.Name = "Ana Maria"
		client.Phone = "8130001111"
		require.NoError(t, store.UpdateClient(ctx, client))

		got, err := store.GetClient(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, "Ana Maria", got.Name)
		assert.Equal(t, "8130001111", got.Phone)
	})

	t.Run("missing rows", func(t *testing.T) {
		_, err := store.GetClient(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)

		err = store.UpdateAddress(ctx, &models.Address{ID: "missing"})
		assert.ErrorIs(t, err, storage.ErrNotFound)

		err = store.DeleteClient(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("delete client then address", func(t *testing.T) {
		require.NoError(t, store.DeleteClient(ctx, "c1"))
		require.NoError(t, store.DeleteAddress(ctx, "e1"))

		addrs, err := store.ListAddresses(ctx)
		require.NoError(t, err)
		assert.Empty(t, addrs)
	})
}

func TestCatalogAndStock(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateIngredient(ctx, &models.Ingredient{ID: "i1", Name: "Feijão", Unit: models.UnitKilogram}))
	require.NoError(t, store.CreateIngredient(ctx, &models.Ingredient{ID: "i2", Name: "Arroz", Unit: models.UnitKilogram}))
	require.NoError(t, store.CreateDish(ctx, &models.Dish{ID: "p1", Name: "Feijoada", PriceCents: 4590, Category: models.CategoryMain}))

	t.Run("recipe keyed by dish and ingredient", func(t *testing.T) {
		di := &models.DishIngredient{DishID: "p1", IngredientID: "i1", QuantityUsed: decimal.RequireFromString("0.5")}
		require.NoError(t, store.CreateDishIngredient(ctx, di))
		require.NoError(t, store.CreateDishIngredient(ctx, &models.DishIngredient{
			DishID: "p1", IngredientID: "i2", QuantityUsed: decimal.RequireFromString("0.25"),
		}))

		err := store.CreateDishIngredient(ctx, di)
		assert.ErrorIs(t, err, storage.ErrDuplicate)

		di.QuantityUsed = decimal.RequireFromString("0.75")
		require.NoError(t, store.UpdateDishIngredient(ctx, di))

		got, err := store.GetDishIngredient(ctx, "p1", "i1")
		require.NoError(t, err)
		assert.True(t, got.QuantityUsed.Equal(decimal.RequireFromString("0.75")), "got %s", got.QuantityUsed)

		recipe, err := store.ListIngredientsOfDish(ctx, "p1")
		require.NoError(t, err)
		assert.Len(t, recipe, 2)
	})

	t.Run("ingredient in a recipe cannot be deleted", func(t *testing.T) {
		err := store.DeleteIngredient(ctx, "i2")
		assert.ErrorIs(t, err, storage.ErrReference)
	})

	t.Run("deleting a dish drops its recipe", func(t *testing.T) {
		require.NoError(t, store.DeleteDish(ctx, "p1"))

		all, err := store.ListDishIngredients(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("low stock", func(t *testing.T) {
		require.NoError(t, store.CreateStock(ctx, &models.Stock{
			ID: "s1", IngredientID: "i1", Quantity: decimal.NewFromInt(10),
			MinimumLevel: decimal.NewFromInt(2), UpdatedOn: "2024-05-01",
		}))
		require.NoError(t, store.CreateStock(ctx, &models.Stock{
			ID: "s2", IngredientID: "i2", Quantity: decimal.RequireFromString("1.5"),
			MinimumLevel: decimal.NewFromInt(3), UpdatedOn: "2024-05-01",
		}))

		low, err := store.ListLowStock(ctx)
		require.NoError(t, err)
		require.Len(t, low, 1)
		assert.Equal(t, "s2", low[0].ID)
		assert.Equal(t, "Arroz", low[0].IngredientName)
		assert.Equal(t, models.UnitKilogram, low[0].Unit)
		assert.True(t, low[0].Quantity.Equal(decimal.RequireFromString("1.5")))
	})

	t.Run("stock update keeps the ingredient", func(t *testing.T) {
		require.NoError(t, store.UpdateStock(ctx, &models.Stock{
			ID: "s1", IngredientID: "i2", Quantity: decimal.NewFromInt(1),
			MinimumLevel: decimal.NewFromInt(2), UpdatedOn: "2024-05-02",
		}))

		got, err := store.GetStock(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "i1", got.IngredientID)
		assert.Equal(t, "2024-05-02", got.UpdatedOn)
		assert.True(t, got.IsLow())
	})
}

func TestOrderTotals(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedOrder(t, store, ctx)

	total := func() int64 {
		t.Helper()
		o, err := store.GetOrder(ctx, "o1")
		require.NoError(t, err)
		return o.TotalCents
	}

	require.NoError(t, store.CreateOrderItem(ctx, &models.OrderItem{
		ID: "it1", OrderID: "o1", DishID: "p1", Quantity: 2, SubtotalCents: 9180,
	}))
	require.NoError(t, store.CreateOrderItem(ctx, &models.OrderItem{
		ID: "it2", OrderID: "o1", DishID: "p1", Quantity: 1, SubtotalCents: 4590,
	}))
	assert.Equal(t, int64(13770), total())

	require.NoError(t, store.UpdateOrderItem(ctx, &models.OrderItem{ID: "it2", Quantity: 3, SubtotalCents: 13770}))
	assert.Equal(t, int64(22950), total())

	item, err := store.GetOrderItem(ctx, "it2")
	require.NoError(t, err)
	assert.Equal(t, "o1", item.OrderID)

	require.NoError(t, store.DeleteOrderItem(ctx, "it1"))
	assert.Equal(t, int64(13770), total())

	t.Run("item of unknown order rolls back", func(t *testing.T) {
		err := store.CreateOrderItem(ctx, &models.OrderItem{
			ID: "it9", OrderID: "nope", DishID: "p1", Quantity: 1, SubtotalCents: 100,
		})
		assert.ErrorIs(t, err, storage.ErrReference)

		_, err = store.GetOrderItem(ctx, "it9")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("missing item", func(t *testing.T) {
		assert.ErrorIs(t, store.DeleteOrderItem(ctx, "nope"), storage.ErrNotFound)
		assert.ErrorIs(t, store.UpdateOrderItem(ctx, &models.OrderItem{ID: "nope", Quantity: 1}), storage.ErrNotFound)
	})

	t.Run("order update writes status and total only", func(t *testing.T) {
		require.NoError(t, store.UpdateOrder(ctx, &models.Order{
			ID: "o1", ClientID: "other", PlacedAt: "1999-01-01", Status: models.OrderReady, TotalCents: 13770,
		}))
		o, err := store.GetOrder(ctx, "o1")
		require.NoError(t, err)
		assert.Equal(t, models.OrderReady, o.Status)
		assert.Equal(t, "c1", o.ClientID)
		assert.Equal(t, "2024-05-01T12:00:00Z", o.PlacedAt)
	})

	t.Run("deleting an order drops its items", func(t *testing.T) {
		require.NoError(t, store.DeleteOrder(ctx, "o1"))
		items, err := store.ListOrderItems(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestPayments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedOrder(t, store, ctx)

	require.NoError(t, store.CreatePayment(ctx, &models.Payment{
		ID: "pg1", OrderID: "o1", Method: models.MethodCash, AmountCents: 4590, Status: models.PaymentPending,
	}))
	require.NoError(t, store.CreateCashPayment(ctx, &models.CashPayment{PaymentID: "pg1", ChangeCents: 410}))

	t.Run("sub-row needs a payment", func(t *testing.T) {
		err := store.CreatePixPayment(ctx, &models.PixPayment{PaymentID: "nope", Key: "a@b.c"})
		assert.ErrorIs(t, err, storage.ErrReference)
	})

	t.Run("payments of an order", func(t *testing.T) {
		payments, err := store.ListPaymentsOfOrder(ctx, "o1")
		require.NoError(t, err)
		require.Len(t, payments, 1)
		assert.Equal(t, int64(4590), payments[0].AmountCents)
	})

	t.Run("order with payments cannot be deleted", func(t *testing.T) {
		assert.ErrorIs(t, store.DeleteOrder(ctx, "o1"), storage.ErrReference)
	})

	t.Run("update writes status and amount only", func(t *testing.T) {
		require.NoError(t, store.UpdatePayment(ctx, &models.Payment{
			ID: "pg1", OrderID: "x", Method: models.MethodPix, AmountCents: 5000, Status: models.PaymentPaid,
		}))
		got, err := store.GetPayment(ctx, "pg1")
		require.NoError(t, err)
		assert.Equal(t, models.MethodCash, got.Method)
		assert.Equal(t, "o1", got.OrderID)
		assert.Equal(t, int64(5000), got.AmountCents)
		assert.Equal(t, models.PaymentPaid, got.Status)
	})

	t.Run("deleting a payment drops its cash row", func(t *testing.T) {
		require.NoError(t, store.DeletePayment(ctx, "pg1"))
		_, err := store.GetCashPayment(ctx, "pg1")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("admin@restaurante.local", "Admin", "hash")
	require.NoError(t, store.CreateUser(ctx, user))

	got, err := store.GetUserByEmail(ctx, "admin@restaurante.local")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	byID, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)

	_, err = store.GetUserByEmail(ctx, "nobody@restaurante.local")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	dup := models.NewUser("admin@restaurante.local", "Other", "x")
	assert.ErrorIs(t, store.CreateUser(ctx, dup), storage.ErrDuplicate)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("mysql", "whatever")
	assert.Error(t, err)
}

func TestSQLiteDSN(t *testing.T) {
	const pragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	tests := []struct {
		dsn  string
		want string
	}{
		{"data/restaurante.db", "file:data/restaurante.db?" + pragmas},
		{"file:data/restaurante.db", "file:data/restaurante.db?" + pragmas},
		{"file:data/restaurante.db?mode=rwc", "file:data/restaurante.db?mode=rwc&" + pragmas},
		{"file:x.db?_pragma=foreign_keys(0)", "file:x.db?_pragma=foreign_keys(0)&_pragma=busy_timeout(5000)"},
		{"file:x.db?_pragma=busy_timeout(100)&_pragma=foreign_keys(1)", "file:x.db?_pragma=busy_timeout(100)&_pragma=foreign_keys(1)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sqliteDSN(tt.dsn), "sqliteDSN(%q)", tt.dsn)
	}
	assert.Equal(t, "data/restaurante.db", sqliteFile("file:data/restaurante.db?mode=rwc"))
}

func TestFileURIEnforcesForeignKeys(t *testing.T) {
	ctx := t.Context()
	store, err := New(DriverSQLite, "file:"+filepath.Join(t.TempDir(), "nested", "uri.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	err = store.CreateClient(ctx, &models.Client{
		ID: "c1", Name: "Ana", Phone: "81999990000", CPF: "52998224725", AddressID: "missing",
	})
	assert.ErrorIs(t, err, storage.ErrReference)
}
