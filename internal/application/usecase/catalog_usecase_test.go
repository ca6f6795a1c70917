package usecase_test

import (
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-admin/internal/application/dto"
	"github.com/jhoicas/inventario-admin/internal/application/usecase"
	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/repository"
	"github.com/jhoicas/inventario-admin/internal/infrastructure/memory"
)

type catalog struct {
	store      *memory.Store
	products   *usecase.ProductUseCase
	categories *usecase.CategoryUseCase
	suppliers  *usecase.SupplierUseCase
}

func newCatalog(t *testing.T) *catalog {
	t.Helper()
	store := memory.NewStore()
	return &catalog{
		store:      store,
		products:   usecase.NewProductUseCase(store, store.Products(), store.Stocks(), store.Categories(), store.Suppliers(), 10),
		categories: usecase.NewCategoryUseCase(store.Categories()),
		suppliers:  usecase.NewSupplierUseCase(store.Suppliers()),
	}
}

func (c *catalog) seedRefs(t *testing.T) (categoryID, supplierID string) {
	t.Helper()
	cat, err := c.categories.Create(background, dto.CategoryRequest{Name: "Electrónica"})
	require.NoError(t, err)
	sup, err := c.suppliers.Create(background, dto.SupplierRequest{Name: "Acme", Email: "ventas@acme.com"})
	require.NoError(t, err)
	return cat.ID, sup.ID
}

func TestProductCreate_CreaStockEnLaMismaTransaccion(t *testing.T) {
	c := newCatalog(t)
	catID, supID := c.seedRefs(t)

	p, err := c.products.Create(background, dto.CreateProductRequest{
		Name: "Mouse", Price: decimal.RequireFromString("45000"), CategoryID: catID, SupplierID: supID, InitialQuantity: 3,
	})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^PRD-\d+$`), p.SKU)
	require.NotNil(t, p.Quantity)
	assert.Equal(t, int64(3), *p.Quantity)
	assert.Equal(t, int64(10), *p.MinimumStock)

	s, err := c.store.Stocks().GetByProductID(background, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), s.Quantity)
	assert.NotNil(t, s.LastRestockAt)
}

func TestProductCreate_SKUDuplicadoNoDejaRastro(t *testing.T) {
	c := newCatalog(t)
	catID, supID := c.seedRefs(t)
	req := dto.CreateProductRequest{SKU: "SKU-1", Name: "Teclado", Price: decimal.NewFromInt(1), CategoryID: catID, SupplierID: supID}

	_, err := c.products.Create(background, req)
	require.NoError(t, err)
	_, err = c.products.Create(background, req)
	assert.ErrorIs(t, err, domain.ErrConflict)

	n, err := c.store.Stocks().Count(background, repository.StockFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestProductCreate_Validaciones(t *testing.T) {
	c := newCatalog(t)
	catID, supID := c.seedRefs(t)

	_, err := c.products.Create(background, dto.CreateProductRequest{Name: "X", Price: decimal.NewFromInt(-1), CategoryID: catID, SupplierID: supID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = c.products.Create(background, dto.CreateProductRequest{Name: "X", CategoryID: "nope", SupplierID: supID})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	neg := int64(-1)
	_, err = c.products.Create(background, dto.CreateProductRequest{Name: "X", CategoryID: catID, SupplierID: supID, MinimumStock: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUpdateDeleteYList(t *testing.T) {
	c := newCatalog(t)
	catID, supID := c.seedRefs(t)
	p, err := c.products.Create(background, dto.CreateProductRequest{Name: "Monitor", CategoryID: catID, SupplierID: supID})
	require.NoError(t, err)
	_, err = c.products.Create(background, dto.CreateProductRequest{SKU: "CAB-1", Name: "Cable", CategoryID: catID, SupplierID: supID})
	require.NoError(t, err)

	name := "Monitor 27"
	price := decimal.RequireFromString("899000.99")
	got, err := c.products.Update(background, p.ID, dto.UpdateProductRequest{Name: &name, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "Monitor 27", got.Name)
	assert.True(t, got.Price.Equal(price))

	list, err := c.products.List(background, dto.ProductListQuery{Name: "monit"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ID)

	require.NoError(t, c.products.Delete(background, p.ID))
	_, err = c.store.Stocks().GetByProductID(background, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, c.products.Delete(background, p.ID), domain.ErrNotFound)
}

func TestCategory_UnicaYReferenciada(t *testing.T) {
	c := newCatalog(t)
	catID, supID := c.seedRefs(t)

	_, err := c.categories.Create(background, dto.CategoryRequest{Name: "electrónica"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = c.products.Create(background, dto.CreateProductRequest{Name: "Mouse", CategoryID: catID, SupplierID: supID})
	require.NoError(t, err)
	assert.ErrorIs(t, c.categories.Delete(background, catID), domain.ErrConflict)
	assert.ErrorIs(t, c.suppliers.Delete(background, supID), domain.ErrConflict)

	otra, err := c.categories.Create(background, dto.CategoryRequest{Name: "Oficina"})
	require.NoError(t, err)
	_, err = c.categories.Update(background, otra.ID, dto.CategoryRequest{Name: "Electrónica"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	require.NoError(t, c.categories.Delete(background, otra.ID))
}

func TestSupplier_EmailUnicoYFiltro(t *testing.T) {
	c := newCatalog(t)
	c.seedRefs(t)

	_, err := c.suppliers.Create(background, dto.SupplierRequest{Name: "Otro", Email: "VENTAS@acme.com"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = c.suppliers.Create(background, dto.SupplierRequest{Name: "Distribuidora Andina", Email: "info@andina.co"})
	require.NoError(t, err)

	list, err := c.suppliers.List(background, "andina")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "info@andina.co", list[0].Email)
}
