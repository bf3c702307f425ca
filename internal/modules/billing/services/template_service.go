package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"github.com/voicebill/voice-billing-be/internal/core/upload"
	"github.com/voicebill/voice-billing-be/internal/modules/billing/models"
	"github.com/voicebill/voice-billing-be/internal/modules/billing/repositories"
	"github.com/voicebill/voice-billing-be/internal/shared/utils"
)

const templateFolder = "templates"

var templateContentTypes = []string{
	"application/pdf", "image/jpeg", "image/jpg", "image/png",
}

var templateExtensions = map[string]bool{
	"pdf": true, "jpg": true, "jpeg": true, "png": true,
}

type TemplateService struct {
	templateRepo repositories.TemplateRepo
	files        *upload.Service
}

func NewTemplateService(templateRepo repositories.TemplateRepo, files *upload.Service) *TemplateService {
	return &TemplateService{
		templateRepo: templateRepo,
		files:        files,
	}
}

// UploadTemplate stores the layout file and records it in the template
// store. Only PDF/JPG/PNG layouts are accepted.
func (s *TemplateService) UploadTemplate(ctx context.Context, name string, fileHeader *multipart.FileHeader) (*models.Template, error) {
	if name == "" {
		return nil, errors.New("template name is required")
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileHeader.Filename), "."))
	if !templateExtensions[ext] {
		return nil, fmt.Errorf("only PDF/JPG/PNG allowed, got %q", ext)
	}

	stored, err := s.files.SaveMultipart(ctx, fileHeader, templateFolder, templateContentTypes, 10*1024*1024)
	if err != nil {
		return nil, fmt.Errorf("failed to store template file: %w", err)
	}

	template := &models.Template{
		Name:     name,
		FileName: stored.FileName,
		FileType: ext,
		FilePath: stored.Path,
	}
	if err := s.templateRepo.Create(template); err != nil {
		// Don't leave an orphaned file behind
		if delErr := s.files.Delete(ctx, stored.Path); delErr != nil {
			utils.LogWarn("failed to remove orphaned template file", map[string]interface{}{
				"path": stored.Path, "error": delErr.Error(),
			})
		}
		return nil, fmt.Errorf("failed to record template: %w", err)
	}

	return template, nil
}

// ListTemplates returns all templates, newest first
func (s *TemplateService) ListTemplates() ([]models.Template, error) {
	return s.templateRepo.List()
}

// DeleteTemplate removes the template record and its stored file
func (s *TemplateService) DeleteTemplate(ctx context.Context, id uint) error {
	template, err := s.templateRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("template not found")
		}
		return err
	}

	if err := s.files.Delete(ctx, template.FilePath); err != nil {
		utils.LogWarn("failed to delete template file", map[string]interface{}{
			"path": template.FilePath, "error": err.Error(),
		})
	}

	return s.templateRepo.Delete(id)
}
