package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/voicebill/voice-billing-be/internal/core/billing"
	"github.com/voicebill/voice-billing-be/internal/core/extract"
	"github.com/voicebill/voice-billing-be/internal/core/render"
	"github.com/voicebill/voice-billing-be/internal/core/resolve"
	"github.com/voicebill/voice-billing-be/internal/core/transcribe"
	"github.com/voicebill/voice-billing-be/internal/shared/utils"
)

// Stage identifies where a voice-processing request currently is. The
// pipeline is a single linear forward pass; Failed is reachable from any
// stage and nothing retries automatically.
type Stage string

const (
	StageReceived     Stage = "received"
	StageTranscribing Stage = "transcribing"
	StageExtracting   Stage = "extracting"
	StageResolving    Stage = "resolving"
	StageCalculating  Stage = "calculating"
	StageRendering    Stage = "rendering"
	StageCompleted    Stage = "completed"
)

type ErrorKind string

const (
	KindTranscription    ErrorKind = "transcription_error"
	KindTemplateNotFound ErrorKind = "template_not_found"
	KindRender           ErrorKind = "render_error"
	KindTimeout          ErrorKind = "timeout"
	KindCanceled         ErrorKind = "canceled"
	KindInternal         ErrorKind = "internal_error"
)

// StageError is a fatal pipeline failure, carrying the stage it happened in
type StageError struct {
	Stage   Stage
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline failed at %s (%s): %s", e.Stage, e.Kind, e.Message)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// CatalogStore provides an immutable product snapshot for one pipeline run
type CatalogStore interface {
	Snapshot(ctx context.Context) ([]resolve.Product, error)
}

// TemplateStore resolves a template id to its stored layout. Must return
// render.ErrTemplateNotFound for unknown ids.
type TemplateStore interface {
	GetTemplate(ctx context.Context, id uint) (*render.Template, error)
}

// DocumentStore persists the rendered bill and returns its storage path
type DocumentStore interface {
	SaveDocument(ctx context.Context, filename string, data []byte) (string, error)
}

// Transcriber converts the audio clip into text
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename, language string) (*transcribe.Result, error)
}

// Renderer produces the bill document bytes
type Renderer interface {
	Render(bill *billing.Bill, tmpl *render.Template, billRef string) ([]byte, error)
}

// Request is one voice-processing invocation
type Request struct {
	Audio      []byte
	Filename   string
	TemplateID uint
	Language   string
}

// Diagnostics accumulates the non-fatal issues of one run
type Diagnostics struct {
	UnresolvedItems []resolve.Diagnostic `json:"unresolved_items"`
	DroppedClauses  []string             `json:"dropped_clauses"`
}

// Response is the outcome of a completed run
type Response struct {
	BillRef     string
	Bill        *billing.Bill
	BillPath    string
	Transcript  string
	Confidence  float64
	Diagnostics Diagnostics
}

// Pipeline wires the five stages together. It holds no mutable state;
// every Run is an independent invocation over snapshots, so concurrent
// requests need no locking.
type Pipeline struct {
	transcriber Transcriber
	extractor   extract.Extractor
	resolver    *resolve.Resolver
	renderer    Renderer
	catalog     CatalogStore
	templates   TemplateStore
	documents   DocumentStore
	timeout     time.Duration
}

func New(
	transcriber Transcriber,
	extractor extract.Extractor,
	resolver *resolve.Resolver,
	renderer Renderer,
	catalog CatalogStore,
	templates TemplateStore,
	documents DocumentStore,
	timeout time.Duration,
) *Pipeline {
	return &Pipeline{
		transcriber: transcriber,
		extractor:   extractor,
		resolver:    resolver,
		renderer:    renderer,
		catalog:     catalog,
		templates:   templates,
		documents:   documents,
		timeout:     timeout,
	}
}

// Run executes the linear forward pass. Fatal errors abort at the failing
// stage; per-item issues accumulate in Diagnostics and never abort the
// request. On deadline or caller abort the run stops before the next stage
// starts and no partial bill is persisted.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Response, *StageError) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	billRef := uuid.New().String()
	stage := StageReceived

	utils.LogInfo("voice pipeline started", map[string]interface{}{
		"bill_ref":    billRef,
		"template_id": req.TemplateID,
		"audio_bytes": len(req.Audio),
	})

	// Transcribing
	stage = StageTranscribing
	if serr := ctxError(ctx, stage); serr != nil {
		return nil, serr
	}
	transcript, err := p.transcriber.Transcribe(ctx, req.Audio, req.Filename, req.Language)
	if err != nil {
		if serr := ctxError(ctx, stage); serr != nil {
			return nil, serr
		}
		return nil, &StageError{Stage: stage, Kind: KindTranscription, Message: err.Error(), Err: err}
	}

	// Extracting
	stage = StageExtracting
	if serr := ctxError(ctx, stage); serr != nil {
		return nil, serr
	}
	extracted, err := p.extractor.Extract(ctx, transcript.Text)
	if err != nil {
		return nil, &StageError{Stage: stage, Kind: KindInternal, Message: err.Error(), Err: err}
	}

	// Resolving: catalog is snapshotted once, copy-on-read, so catalog
	// edits during the run cannot affect this bill
	stage = StageResolving
	if serr := ctxError(ctx, stage); serr != nil {
		return nil, serr
	}
	catalog, err := p.catalog.Snapshot(ctx)
	if err != nil {
		return nil, &StageError{Stage: stage, Kind: KindInternal, Message: "catalog snapshot failed", Err: err}
	}
	resolved, resolveDiags := p.resolver.Resolve(extracted.Items, catalog)

	// Calculating
	stage = StageCalculating
	if serr := ctxError(ctx, stage); serr != nil {
		return nil, serr
	}
	bill := billing.Calculate(extracted.Customer, resolved)

	// Rendering
	stage = StageRendering
	if serr := ctxError(ctx, stage); serr != nil {
		return nil, serr
	}
	tmpl, err := p.templates.GetTemplate(ctx, req.TemplateID)
	if err != nil {
		if errors.Is(err, render.ErrTemplateNotFound) {
			return nil, &StageError{Stage: stage, Kind: KindTemplateNotFound, Message: fmt.Sprintf("template %d not found", req.TemplateID), Err: err}
		}
		return nil, &StageError{Stage: stage, Kind: KindInternal, Message: "template lookup failed", Err: err}
	}

	document, err := p.renderer.Render(bill, tmpl, billRef)
	if err != nil {
		return nil, &StageError{Stage: stage, Kind: KindRender, Message: err.Error(), Err: err}
	}

	filename := fmt.Sprintf("bill_%s_%s.pdf", time.Now().Format("20060102_150405"), billRef[:8])
	billPath, err := p.documents.SaveDocument(ctx, filename, document)
	if err != nil {
		return nil, &StageError{Stage: stage, Kind: KindRender, Message: "failed to persist bill document", Err: err}
	}

	stage = StageCompleted
	utils.LogInfo("voice pipeline completed", map[string]interface{}{
		"bill_ref":   billRef,
		"bill_path":  billPath,
		"items":      len(bill.Items),
		"unresolved": len(resolveDiags),
		"dropped":    len(extracted.DroppedClauses),
	})

	return &Response{
		BillRef:    billRef,
		Bill:       bill,
		BillPath:   billPath,
		Transcript: transcript.Text,
		Confidence: transcript.Confidence,
		Diagnostics: Diagnostics{
			UnresolvedItems: resolveDiags,
			DroppedClauses:  extracted.DroppedClauses,
		},
	}, nil
}

// ctxError maps context expiry onto the pipeline error taxonomy so later
// stages never start after the caller gave up.
func ctxError(ctx context.Context, stage Stage) *StageError {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return &StageError{Stage: stage, Kind: KindTimeout, Message: "processing deadline exceeded", Err: ctx.Err()}
	case context.Canceled:
		return &StageError{Stage: stage, Kind: KindCanceled, Message: "request canceled by caller", Err: ctx.Err()}
	}
	return nil
}
