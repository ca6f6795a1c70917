package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-admin/internal/application/dto"
	"github.com/jhoicas/inventario-admin/internal/application/inventory"
	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
	"github.com/jhoicas/inventario-admin/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. La existencia se maneja vía el ledger de stock.
type ProductUseCase struct {
	tx             inventory.TxRunner
	repo           repository.ProductRepository
	stocks         repository.StockRepository
	categories     repository.CategoryRepository
	suppliers      repository.SupplierRepository
	defaultMinimum int64
}

// NewProductUseCase construye el caso de uso. defaultMinimum < 0 usa entity.DefaultMinimumStock.
func NewProductUseCase(
	tx inventory.TxRunner,
	repo repository.ProductRepository,
	stocks repository.StockRepository,
	categories repository.CategoryRepository,
	suppliers repository.SupplierRepository,
	defaultMinimum int64,
) *ProductUseCase {
	if defaultMinimum < 0 {
		defaultMinimum = entity.DefaultMinimumStock
	}
	return &ProductUseCase{
		tx:             tx,
		repo:           repo,
		stocks:         stocks,
		categories:     categories,
		suppliers:      suppliers,
		defaultMinimum: defaultMinimum,
	}
}

// Create crea el producto y su registro de stock en una sola transacción.
// SKU vacío se genera como PRD-<unix millis>.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Price.LessThan(decimal.Zero) || in.InitialQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	minimum := uc.defaultMinimum
	if in.MinimumStock != nil {
		if *in.MinimumStock < 0 {
			return nil, domain.ErrInvalidInput
		}
		minimum = *in.MinimumStock
	}
	if err := uc.checkRefs(ctx, in.CategoryID, in.SupplierID); err != nil {
		return nil, err
	}
	now := time.Now()
	sku := strings.TrimSpace(in.SKU)
	if sku == "" {
		sku = fmt.Sprintf("PRD-%d", now.UnixMilli())
	}
	product := &entity.Product{
		ID:          uuid.New().String(),
		SKU:         sku,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		SupplierID:  in.SupplierID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	stock := &entity.Stock{
		ID:           uuid.New().String(),
		ProductID:    product.ID,
		Quantity:     in.InitialQuantity,
		MinimumStock: minimum,
		UpdatedAt:    now,
	}
	if in.InitialQuantity > 0 {
		stock.LastRestockAt = &now
	}
	err := uc.tx.Run(ctx, func(stockRepo repository.StockRepository, productRepo repository.ProductRepository) error {
		exists, err := productRepo.ExistsBySKU(ctx, sku)
		if err != nil {
			return err
		}
		if exists {
			return domain.NewConflict("sku")
		}
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		return stockRepo.Create(ctx, stock)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product, stock), nil
}

// GetByID obtiene un producto con su existencia actual.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	stock, err := uc.stocks.GetByProductID(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return toProductResponse(product, stock), nil
}

// List lista productos con filtros opcionales.
func (uc *ProductUseCase) List(ctx context.Context, q dto.ProductListQuery) ([]dto.ProductResponse, error) {
	products, err := uc.repo.List(ctx, repository.ProductFilter{
		Name:       q.Name,
		CategoryID: q.CategoryID,
		SupplierID: q.SupplierID,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *toProductResponse(p, nil))
	}
	return out, nil
}

// Update actualiza un producto. No modifica la existencia.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		if in.Price.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.CategoryID != nil {
		product.CategoryID = *in.CategoryID
	}
	if in.SupplierID != nil {
		product.SupplierID = *in.SupplierID
	}
	if err := uc.checkRefs(ctx, product.CategoryID, product.SupplierID); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product, nil), nil
}

// Delete elimina el producto y su registro de stock en la misma transacción.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.tx.Run(ctx, func(stockRepo repository.StockRepository, productRepo repository.ProductRepository) error {
		if _, err := productRepo.GetByID(ctx, id); err != nil {
			return err
		}
		if err := stockRepo.DeleteByProductID(ctx, id); err != nil {
			return err
		}
		return productRepo.Delete(ctx, id)
	})
}

func (uc *ProductUseCase) checkRefs(ctx context.Context, categoryID, supplierID string) error {
	if categoryID == "" || supplierID == "" {
		return domain.ErrInvalidInput
	}
	if _, err := uc.categories.GetByID(ctx, categoryID); err != nil {
		return err
	}
	_, err := uc.suppliers.GetByID(ctx, supplierID)
	return err
}

func toProductResponse(p *entity.Product, s *entity.Stock) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CategoryID:  p.CategoryID,
		SupplierID:  p.SupplierID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if s != nil {
		qty, minimum := s.Quantity, s.MinimumStock
		resp.Quantity = &qty
		resp.MinimumStock = &minimum
	}
	return resp
}
