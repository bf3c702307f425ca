package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/voicebill/voice-billing-be/internal/core/upload"
	"github.com/voicebill/voice-billing-be/internal/modules/billing/repositories"
	"github.com/voicebill/voice-billing-be/internal/shared/utils"
)

// CleanupService purges bill records and their documents past the
// retention window
type CleanupService struct {
	billRepo      repositories.BillRepo
	files         *upload.Service
	retentionDays int
	cron          *cron.Cron
}

func NewCleanupService(billRepo repositories.BillRepo, files *upload.Service, retentionDays int) *CleanupService {
	return &CleanupService{
		billRepo:      billRepo,
		files:         files,
		retentionDays: retentionDays,
		cron:          cron.New(),
	}
}

// Start schedules the daily purge. Retention of zero or less disables it.
func (s *CleanupService) Start() error {
	if s.retentionDays <= 0 {
		log.Println("🧹 Bill cleanup disabled (retention not set)")
		return nil
	}

	_, err := s.cron.AddFunc("0 3 * * *", func() {
		if err := s.PurgeExpired(context.Background()); err != nil {
			utils.LogError("bill cleanup run failed", err, nil)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("🧹 Bill cleanup scheduled daily (retention: %d days)", s.retentionDays)
	return nil
}

// Stop halts the scheduler and waits for a running purge to finish
func (s *CleanupService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// PurgeExpired deletes bills older than the retention window along with
// their stored documents
func (s *CleanupService) PurgeExpired(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	expired, err := s.billRepo.ListOlderThan(cutoff)
	if err != nil {
		return err
	}
	if len(expired) == 0 {
		return nil
	}

	purged := 0
	for _, bill := range expired {
		if bill.FilePath != "" {
			if err := s.files.Delete(ctx, bill.FilePath); err != nil {
				utils.LogWarn("failed to delete expired bill document", map[string]interface{}{
					"bill_id": bill.ID.String(),
					"path":    bill.FilePath,
					"error":   err.Error(),
				})
			}
		}
		if err := s.billRepo.Delete(&bill); err != nil {
			utils.LogWarn("failed to delete expired bill record", map[string]interface{}{
				"bill_id": bill.ID.String(),
				"error":   err.Error(),
			})
			continue
		}
		purged++
	}

	utils.LogInfo("bill cleanup completed", map[string]interface{}{
		"purged":    purged,
		"retention": s.retentionDays,
	})
	return nil
}
