package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Enclair743/Kasir123/ledger"
	"github.com/Enclair743/Kasir123/models"
	"github.com/Enclair743/Kasir123/storage"
)

func newTestStore(t *testing.T) (*Store, *ledger.RemovalLedger) {
	t.Helper()

	backend := storage.NewMemory()
	removals, err := ledger.NewRemovalLedger(backend.Removals)
	require.NoError(t, err)
	store, err := NewStore(backend.Products, removals)
	require.NoError(t, err)
	return store, removals
}

func TestAddProduct(t *testing.T) {
	store, _ := newTestStore(t)

	p, err := store.AddProduct("Pen", "Stationery", 10, 2000, 1200)
	require.NoError(t, err)
	require.Equal(t, 10, p.Stock)

	found, err := store.Find(models.ProductKey{Name: "Pen", Category: "Stationery"})
	require.NoError(t, err)
	require.Equal(t, p, found)
}

func TestAddProductValidation(t *testing.T) {
	store, _ := newTestStore(t)

	cases := []struct {
		name, category string
		stock          int
		unitPrice      float64
		costPrice      float64
	}{
		{"", "Stationery", 10, 2000, 1200},
		{"Pen", "", 10, 2000, 1200},
		{"   ", "Stationery", 10, 2000, 1200},
		{"Pen", "Stationery", -1, 2000, 1200},
		{"Pen", "Stationery", 10, 0, 1200},
		{"Pen", "Stationery", 10, -5, 1200},
		{"Pen", "Stationery", 10, 2000, -1},
	}
	for _, tc := range cases {
		_, err := store.AddProduct(tc.name, tc.category, tc.stock, tc.unitPrice, tc.costPrice)
		require.ErrorIs(t, err, models.ErrValidation)
	}
}

func TestAddProductDuplicateKey(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.AddProduct("Pen", "Stationery", 10, 2000, 1200)
	require.NoError(t, err)

	_, err = store.AddProduct("Pen", "Stationery", 5, 3000, 1500)
	require.ErrorIs(t, err, models.ErrDuplicate)

	// Same name under a different category is a different product.
	_, err = store.AddProduct("Pen", "Gift Set", 5, 3000, 1500)
	require.NoError(t, err)
}

func TestAdjustStock(t *testing.T) {
	store, _ := newTestStore(t)
	key := models.ProductKey{Name: "Pen", Category: "Stationery"}

	_, err := store.AddProduct("Pen", "Stationery", 10, 2000, 1200)
	require.NoError(t, err)

	p, err := store.AdjustStock(key, 5)
	require.NoError(t, err)
	require.Equal(t, 15, p.Stock)

	p, err = store.AdjustStock(key, -15)
	require.NoError(t, err)
	require.Equal(t, 0, p.Stock)

	_, err = store.AdjustStock(key, -1)
	require.ErrorIs(t, err, models.ErrInvalidQuantity)

	_, err = store.AdjustStock(models.ProductKey{Name: "Ghost", Category: "None"}, 1)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestRemoveStockPartial(t *testing.T) {
	store, removals := newTestStore(t)
	key := models.ProductKey{Name: "Pen", Category: "Stationery"}

	_, err := store.AddProduct("Pen", "Stationery", 10, 2000, 1200)
	require.NoError(t, err)

	record, err := store.RemoveStock(key, 4, "water damage", "admin")
	require.NoError(t, err)
	require.Equal(t, 4, record.QuantityRemoved)
	require.Equal(t, 10, record.Stock) // snapshot before the removal
	require.Equal(t, "water damage", record.Reason)
	require.Equal(t, "admin", record.RemovedBy)
	require.NotEmpty(t, record.ID)

	p, err := store.Find(key)
	require.NoError(t, err)
	require.Equal(t, 6, p.Stock)
	require.Equal(t, 1, removals.Len())
}

func TestRemoveStockFullDeletesProduct(t *testing.T) {
	store, removals := newTestStore(t)
	key := models.ProductKey{Name: "Pen", Category: "Stationery"}

	_, err := store.AddProduct("Pen", "Stationery", 10, 2000, 1200)
	require.NoError(t, err)

	_, err = store.RemoveStock(key, 10, "expired", "admin")
	require.NoError(t, err)

	_, err = store.Find(key)
	require.ErrorIs(t, err, models.ErrNotFound)
	require.Equal(t, 1, removals.Len())
}

func TestRemoveStockEmptyReason(t *testing.T) {
	store, removals := newTestStore(t)
	key := models.ProductKey{Name: "Pen", Category: "Stationery"}

	_, err := store.AddProduct("Pen", "Stationery", 10, 2000, 1200)
	require.NoError(t, err)

	_, err = store.RemoveStock(key, 4, "   ", "admin")
	require.ErrorIs(t, err, models.ErrValidation)

	// No stock change, no record appended.
	p, err := store.Find(key)
	require.NoError(t, err)
	require.Equal(t, 10, p.Stock)
	require.Equal(t, 0, removals.Len())
}

func TestRemoveStockQuantityBounds(t *testing.T) {
	store, _ := newTestStore(t)
	key := models.ProductKey{Name: "Pen", Category: "Stationery"}

	_, err := store.AddProduct("Pen", "Stationery", 10, 2000, 1200)
	require.NoError(t, err)

	for _, qty := range []int{0, -1, 11} {
		_, err := store.RemoveStock(key, qty, "oops", "admin")
		require.ErrorIs(t, err, models.ErrInvalidQuantity)
	}

	_, err = store.RemoveStock(models.ProductKey{Name: "Ghost", Category: "None"}, 1, "gone", "admin")
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestListByCategoryAndCategories(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.AddProduct("Pen", "Stationery", 10, 2000, 1200)
	require.NoError(t, err)
	_, err = store.AddProduct("Book", "Stationery", 5, 8000, 5000)
	require.NoError(t, err)
	_, err = store.AddProduct("Teh Botol", "Minuman", 24, 4000, 2500)
	require.NoError(t, err)

	require.Equal(t, []string{"Minuman", "Stationery"}, store.Categories())

	stationery := store.ListByCategory("Stationery")
	require.Len(t, stationery, 2)
	require.Equal(t, "Book", stationery[0].Name)
	require.Equal(t, "Pen", stationery[1].Name)

	require.Empty(t, store.ListByCategory("Elektronik"))
}

func TestCommitSaleDecrementsAllOrNothing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.AddProduct("Pen", "Stationery", 10, 2000, 1200)
	require.NoError(t, err)
	_, err = store.AddProduct("Book", "Stationery", 2, 8000, 5000)
	require.NoError(t, err)

	lines := []models.CartLine{
		{Name: "Pen", Category: "Stationery", Quantity: 4},
		{Name: "Book", Category: "Stationery", Quantity: 3}, // over stock
	}
	err = store.CommitSale(lines)
	require.ErrorIs(t, err, models.ErrInsufficientStock)

	// Nothing was decremented, not even the valid line.
	p, err := store.Find(models.ProductKey{Name: "Pen", Category: "Stationery"})
	require.NoError(t, err)
	require.Equal(t, 10, p.Stock)

	lines[1].Quantity = 2
	require.NoError(t, store.CommitSale(lines))

	p, err = store.Find(models.ProductKey{Name: "Pen", Category: "Stationery"})
	require.NoError(t, err)
	require.Equal(t, 6, p.Stock)
	p, err = store.Find(models.ProductKey{Name: "Book", Category: "Stationery"})
	require.NoError(t, err)
	require.Equal(t, 0, p.Stock)
}

func TestCommitSaleMissingProduct(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.CommitSale([]models.CartLine{{Name: "Ghost", Category: "None", Quantity: 1}})
	require.ErrorIs(t, err, models.ErrNotFound)
}

// failingProductStore lets tests flip persistence failures on and off.
type failingProductStore struct {
	inner storage.ProductStore
	fail  bool
}

func (f *failingProductStore) Load() ([]models.Product, error) {
	return f.inner.Load()
}

func (f *failingProductStore) Replace(products []models.Product) error {
	if f.fail {
		return models.WrapPersistence(errors.New("disk full"))
	}
	return f.inner.Replace(products)
}

func TestPersistenceFailureRevertsMutation(t *testing.T) {
	backend := storage.NewMemory()
	failing := &failingProductStore{inner: backend.Products}
	removals, err := ledger.NewRemovalLedger(backend.Removals)
	require.NoError(t, err)
	store, err := NewStore(failing, removals)
	require.NoError(t, err)

	key := models.ProductKey{Name: "Pen", Category: "Stationery"}
	_, err = store.AddProduct("Pen", "Stationery", 10, 2000, 1200)
	require.NoError(t, err)

	failing.fail = true

	_, err = store.AddProduct("Book", "Stationery", 5, 8000, 5000)
	require.ErrorIs(t, err, models.ErrPersistence)
	_, err = store.AdjustStock(key, 5)
	require.ErrorIs(t, err, models.ErrPersistence)
	_, err = store.RemoveStock(key, 4, "damaged", "admin")
	require.ErrorIs(t, err, models.ErrPersistence)
	err = store.CommitSale([]models.CartLine{{Name: "Pen", Category: "Stationery", Quantity: 2}})
	require.ErrorIs(t, err, models.ErrPersistence)

	// The in-memory catalog still matches the last durable state.
	failing.fail = false
	p, err := store.Find(key)
	require.NoError(t, err)
	require.Equal(t, 10, p.Stock)
	_, err = store.Find(models.ProductKey{Name: "Book", Category: "Stationery"})
	require.ErrorIs(t, err, models.ErrNotFound)
	require.Equal(t, 0, removals.Len())
}

// failingRemovalLog rejects every append.
type failingRemovalLog struct{}

func (f *failingRemovalLog) Load() ([]models.RemovalRecord, error) {
	return nil, nil
}

func (f *failingRemovalLog) Append(models.RemovalRecord) error {
	return models.WrapPersistence(errors.New("disk full"))
}

func TestRemovalLedgerFailureRestoresStock(t *testing.T) {
	backend := storage.NewMemory()
	removals, err := ledger.NewRemovalLedger(&failingRemovalLog{})
	require.NoError(t, err)
	store, err := NewStore(backend.Products, removals)
	require.NoError(t, err)

	key := models.ProductKey{Name: "Pen", Category: "Stationery"}
	_, err = store.AddProduct("Pen", "Stationery", 10, 2000, 1200)
	require.NoError(t, err)

	_, err = store.RemoveStock(key, 4, "damaged", "admin")
	require.ErrorIs(t, err, models.ErrPersistence)

	p, err := store.Find(key)
	require.NoError(t, err)
	require.Equal(t, 10, p.Stock)
	require.Equal(t, 0, removals.Len())
}

func TestNewStoreLoadsExistingCatalog(t *testing.T) {
	backend := storage.NewMemory()
	require.NoError(t, backend.Products.Replace([]models.Product{
		{Name: "Pen", Category: "Stationery", Stock: 10, UnitPrice: 2000, CostPrice: 1200},
	}))

	removals, err := ledger.NewRemovalLedger(backend.Removals)
	require.NoError(t, err)
	store, err := NewStore(backend.Products, removals)
	require.NoError(t, err)

	p, err := store.Find(models.ProductKey{Name: "Pen", Category: "Stationery"})
	require.NoError(t, err)
	require.Equal(t, 10, p.Stock)
}
