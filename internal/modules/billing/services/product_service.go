package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/voicebill/voice-billing-be/internal/modules/billing/models"
	"github.com/voicebill/voice-billing-be/internal/modules/billing/repositories"
)

type ProductService struct {
	productRepo repositories.ProductRepo
}

func NewProductService(productRepo repositories.ProductRepo) *ProductService {
	return &ProductService{
		productRepo: productRepo,
	}
}

// CreateProduct creates a product, or updates price and GST when a product
// with the same name already exists (upsert-by-name, matching how
// shopkeepers re-dictate prices).
func (s *ProductService) CreateProduct(req *models.CreateProductRequest) (*models.Product, error) {
	if req.Name == "" {
		return nil, errors.New("product name is required")
	}
	if req.Price < 0 {
		return nil, errors.New("price cannot be negative")
	}
	if req.GSTPercent != nil && (*req.GSTPercent < 0 || *req.GSTPercent > 100) {
		return nil, errors.New("gst_percent must be between 0 and 100")
	}

	existing, err := s.productRepo.GetByName(req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		existing.Price = req.Price
		if req.GSTPercent != nil {
			existing.GSTPercent = *req.GSTPercent
			existing.GSTLocked = true
		}
		if err := s.productRepo.Update(existing); err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
		return existing, nil
	}

	product := &models.Product{
		Name:  req.Name,
		Price: req.Price,
	}
	if req.GSTPercent != nil {
		product.GSTPercent = *req.GSTPercent
		product.GSTLocked = true
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, err
	}
	return product, nil
}

// ListProducts returns the full catalog, newest first
func (s *ProductService) ListProducts() ([]models.Product, error) {
	return s.productRepo.List()
}

// UpdateProduct applies a partial update
func (s *ProductService) UpdateProduct(id uint, req *models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, errors.New("product name cannot be empty")
		}
		product.Name = *req.Name
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, errors.New("price cannot be negative")
		}
		product.Price = *req.Price
	}
	if req.GSTPercent != nil {
		if *req.GSTPercent < 0 || *req.GSTPercent > 100 {
			return nil, errors.New("gst_percent must be between 0 and 100")
		}
		product.GSTPercent = *req.GSTPercent
		product.GSTLocked = true
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// DeleteProduct soft-deletes a product. In-flight bills are unaffected
// because the pipeline works on snapshots.
func (s *ProductService) DeleteProduct(id uint) error {
	if _, err := s.productRepo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("product not found")
		}
		return err
	}
	return s.productRepo.Delete(id)
}

// SetGlobalGST applies the given GST percent to every product without a
// per-product override. Returns how many products changed.
func (s *ProductService) SetGlobalGST(gstPercent float64) (int64, error) {
	if gstPercent < 0 || gstPercent > 100 {
		return 0, errors.New("gst_percent must be between 0 and 100")
	}
	return s.productRepo.SetGlobalGST(gstPercent)
}
