package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/voicebill/voice-billing-be/internal/modules/billing/models"
)

type BillRepo interface {
	Create(bill *models.BillRecord) error
	CountSince(since time.Time) (int64, error)
	ListOlderThan(cutoff time.Time) ([]models.BillRecord, error)
	Delete(bill *models.BillRecord) error
}

type billRepo struct {
	db *gorm.DB
}

func NewBillRepo(db *gorm.DB) BillRepo {
	return &billRepo{db: db}
}

func (r *billRepo) Create(bill *models.BillRecord) error {
	return r.db.Create(bill).Error
}

func (r *billRepo) CountSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.BillRecord{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

func (r *billRepo) ListOlderThan(cutoff time.Time) ([]models.BillRecord, error) {
	var bills []models.BillRecord
	err := r.db.Where("created_at < ?", cutoff).Find(&bills).Error
	return bills, err
}

func (r *billRepo) Delete(bill *models.BillRecord) error {
	return r.db.Delete(bill).Error
}
