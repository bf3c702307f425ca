package repositories

import (
	"gorm.io/gorm"

	"github.com/voicebill/voice-billing-be/internal/modules/billing/models"
)

type TemplateRepo interface {
	Create(template *models.Template) error
	GetByID(id uint) (*models.Template, error)
	List() ([]models.Template, error)
	Delete(id uint) error
	Count() (int64, error)
}

type templateRepo struct {
	db *gorm.DB
}

func NewTemplateRepo(db *gorm.DB) TemplateRepo {
	return &templateRepo{db: db}
}

func (r *templateRepo) Create(template *models.Template) error {
	return r.db.Create(template).Error
}

func (r *templateRepo) GetByID(id uint) (*models.Template, error) {
	var template models.Template
	err := r.db.First(&template, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *templateRepo) List() ([]models.Template, error) {
	var templates []models.Template
	err := r.db.Order("id DESC").Find(&templates).Error
	return templates, err
}

func (r *templateRepo) Delete(id uint) error {
	return r.db.Delete(&models.Template{}, "id = ?", id).Error
}

func (r *templateRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Template{}).Count(&count).Error
	return count, err
}
