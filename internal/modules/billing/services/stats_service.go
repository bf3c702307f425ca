package services

import (
	"time"

	"github.com/voicebill/voice-billing-be/internal/modules/billing/models"
	"github.com/voicebill/voice-billing-be/internal/modules/billing/repositories"
)

// StatsService aggregates the admin dashboard counters
type StatsService struct {
	productRepo  repositories.ProductRepo
	templateRepo repositories.TemplateRepo
	billRepo     repositories.BillRepo
}

func NewStatsService(productRepo repositories.ProductRepo, templateRepo repositories.TemplateRepo, billRepo repositories.BillRepo) *StatsService {
	return &StatsService{
		productRepo:  productRepo,
		templateRepo: templateRepo,
		billRepo:     billRepo,
	}
}

// GetStats returns catalog, template and recent-bill counts
func (s *StatsService) GetStats() (*models.Stats, error) {
	products, err := s.productRepo.Count()
	if err != nil {
		return nil, err
	}
	templates, err := s.templateRepo.Count()
	if err != nil {
		return nil, err
	}
	bills, err := s.billRepo.CountSince(time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	return &models.Stats{
		TotalProducts:  products,
		TotalTemplates: templates,
		RecentBills:    bills,
	}, nil
}
