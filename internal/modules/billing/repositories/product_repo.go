package repositories

import (
	"strings"

	"gorm.io/gorm"

	"github.com/voicebill/voice-billing-be/internal/modules/billing/models"
)

type ProductRepo interface {
	Create(product *models.Product) error
	GetByID(id uint) (*models.Product, error)
	GetByName(name string) (*models.Product, error)
	List() ([]models.Product, error)
	ListForSnapshot() ([]models.Product, error)
	Update(product *models.Product) error
	Delete(id uint) error // Soft delete
	SetGlobalGST(gstPercent float64) (int64, error)
	Count() (int64, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepo {
	return &productRepo{db: db}
}

func (r *productRepo) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) GetByName(name string) (*models.Product, error) {
	var product models.Product
	err := r.db.Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns products newest first, for the admin listing
func (r *productRepo) List() ([]models.Product, error) {
	var products []models.Product
	err := r.db.Order("id DESC").Find(&products).Error
	return products, err
}

// ListForSnapshot returns products id ascending, the order the resolver
// relies on for deterministic tie-breaks
func (r *productRepo) ListForSnapshot() ([]models.Product, error) {
	var products []models.Product
	err := r.db.Order("id ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, "id = ?", id).Error
}

// SetGlobalGST updates every product that has no per-product override
func (r *productRepo) SetGlobalGST(gstPercent float64) (int64, error) {
	result := r.db.Model(&models.Product{}).
		Where("gst_locked = ?", false).
		UpdateColumn("gst_percent", gstPercent)
	return result.RowsAffected, result.Error
}

func (r *productRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Product{}).Count(&count).Error
	return count, err
}
