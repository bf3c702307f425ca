package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/voicebill/voice-billing-be/internal/core/pipeline"
	"github.com/voicebill/voice-billing-be/internal/core/render"
	"github.com/voicebill/voice-billing-be/internal/core/resolve"
	"github.com/voicebill/voice-billing-be/internal/core/upload"
	"github.com/voicebill/voice-billing-be/internal/modules/billing/models"
	"github.com/voicebill/voice-billing-be/internal/modules/billing/repositories"
	"github.com/voicebill/voice-billing-be/internal/shared/utils"
)

const billFolder = "bills"

// VoiceService runs the voice-to-bill pipeline and persists the outcome
type VoiceService struct {
	pipeline *pipeline.Pipeline
	billRepo repositories.BillRepo
	files    *upload.Service
}

func NewVoiceService(p *pipeline.Pipeline, billRepo repositories.BillRepo, files *upload.Service) *VoiceService {
	return &VoiceService{
		pipeline: p,
		billRepo: billRepo,
		files:    files,
	}
}

// Process runs one voice request through the pipeline. A completed bill is
// recorded in the bills table; a record-keeping failure is logged but never
// fails a request whose document already exists.
func (s *VoiceService) Process(ctx context.Context, req pipeline.Request) (*pipeline.Response, *pipeline.StageError) {
	resp, serr := s.pipeline.Run(ctx, req)
	if serr != nil {
		utils.LogWarn("voice pipeline failed", map[string]interface{}{
			"stage": string(serr.Stage),
			"kind":  string(serr.Kind),
			"error": serr.Message,
		})
		return nil, serr
	}

	if err := s.recordBill(resp); err != nil {
		utils.LogWarn("failed to record bill", map[string]interface{}{
			"bill_ref": resp.BillRef,
			"error":    err.Error(),
		})
	}

	return resp, nil
}

func (s *VoiceService) recordBill(resp *pipeline.Response) error {
	lineItems, err := json.Marshal(resp.Bill.Items)
	if err != nil {
		return err
	}
	diagnostics, err := json.Marshal(resp.Diagnostics)
	if err != nil {
		return err
	}

	billRef, err := uuid.Parse(resp.BillRef)
	if err != nil {
		return err
	}

	record := &models.BillRecord{
		ID:              billRef,
		CustomerName:    resp.Bill.CustomerName,
		CustomerPhone:   resp.Bill.CustomerPhone,
		CustomerAddress: resp.Bill.CustomerAddress,
		Subtotal:        resp.Bill.Subtotal.Round(2).InexactFloat64(),
		TotalGST:        resp.Bill.TotalGST.Round(2).InexactFloat64(),
		TotalAmount:     resp.Bill.TotalAmount.Round(2).InexactFloat64(),
		FilePath:        resp.BillPath,
		LineItems:       datatypes.JSON(lineItems),
		Diagnostics:     datatypes.JSON(diagnostics),
	}
	return s.billRepo.Create(record)
}

// catalogSnapshotStore adapts the product repository to the pipeline's
// snapshot contract: one immutable copy per run, ordered by id.
type catalogSnapshotStore struct {
	productRepo repositories.ProductRepo
}

func NewCatalogStore(productRepo repositories.ProductRepo) pipeline.CatalogStore {
	return &catalogSnapshotStore{productRepo: productRepo}
}

func (c *catalogSnapshotStore) Snapshot(ctx context.Context) ([]resolve.Product, error) {
	products, err := c.productRepo.ListForSnapshot()
	if err != nil {
		return nil, err
	}
	snapshot := make([]resolve.Product, 0, len(products))
	for _, p := range products {
		snapshot = append(snapshot, p.Snapshot())
	}
	return snapshot, nil
}

// templateStore adapts the template repository plus file storage to the
// renderer's lookup contract
type templateStore struct {
	templateRepo repositories.TemplateRepo
	files        *upload.Service
}

func NewTemplateStore(templateRepo repositories.TemplateRepo, files *upload.Service) pipeline.TemplateStore {
	return &templateStore{templateRepo: templateRepo, files: files}
}

func (t *templateStore) GetTemplate(ctx context.Context, id uint) (*render.Template, error) {
	template, err := t.templateRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, render.ErrTemplateNotFound
		}
		return nil, err
	}

	localPath, ok := t.files.LocalPath(template.FilePath)
	if !ok {
		// Remote storage backends expose no filesystem path; the renderer
		// reads layouts from disk, so cache the file locally once.
		localPath, err = t.cacheTemplate(ctx, template)
		if err != nil {
			return nil, err
		}
	}
	return template.Layout(localPath), nil
}

// cacheTemplate downloads a remotely stored template into a local cache
// directory. Templates are immutable after upload, so an existing cached
// copy is reused as-is.
func (t *templateStore) cacheTemplate(ctx context.Context, template *models.Template) (string, error) {
	cacheDir := filepath.Join(os.TempDir(), "voicebill-templates")
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create template cache: %w", err)
	}

	cachePath := filepath.Join(cacheDir, fmt.Sprintf("%d_%s", template.ID, template.FileName))
	if _, err := os.Stat(cachePath); err == nil {
		return cachePath, nil
	}

	src, err := t.files.Open(ctx, template.FilePath)
	if err != nil {
		return "", fmt.Errorf("failed to fetch template file: %w", err)
	}
	defer src.Close()

	out, err := os.Create(cachePath)
	if err != nil {
		return "", fmt.Errorf("failed to create cache file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		os.Remove(cachePath)
		return "", fmt.Errorf("failed to cache template file: %w", err)
	}
	return cachePath, nil
}

// documentStore persists rendered bills through the storage provider
type documentStore struct {
	files *upload.Service
}

func NewDocumentStore(files *upload.Service) pipeline.DocumentStore {
	return &documentStore{files: files}
}

func (d *documentStore) SaveDocument(ctx context.Context, filename string, data []byte) (string, error) {
	stored, err := d.files.Save(ctx, billFolder, filename, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	return stored.Path, nil
}
