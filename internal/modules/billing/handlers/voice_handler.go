package handlers

import (
	"io"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/voicebill/voice-billing-be/internal/core/billing"
	"github.com/voicebill/voice-billing-be/internal/core/pipeline"
	"github.com/voicebill/voice-billing-be/internal/core/upload"
	"github.com/voicebill/voice-billing-be/internal/modules/billing/services"
)

type VoiceHandler struct {
	voiceService *services.VoiceService
	files        *upload.Service
	maxAudio     int64
}

func NewVoiceHandler(voiceService *services.VoiceService, files *upload.Service, maxAudio int64) *VoiceHandler {
	return &VoiceHandler{
		voiceService: voiceService,
		files:        files,
		maxAudio:     maxAudio,
	}
}

// billLineView is the wire shape of one bill line: decimals rounded to two
// places at presentation only
type billLineView struct {
	ProductID   uint    `json:"product_id"`
	Name        string  `json:"name"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit,omitempty"`
	UnitPrice   float64 `json:"unit_price"`
	GSTPercent  float64 `json:"gst_percent"`
	LineBase    float64 `json:"line_base"`
	GSTAmount   float64 `json:"gst_amount"`
	LineTotal   float64 `json:"line_total"`
}

type billView struct {
	CustomerName    string         `json:"customer_name"`
	CustomerPhone   string         `json:"customer_phone"`
	CustomerAddress string         `json:"customer_address"`
	Items           []billLineView `json:"items"`
	Subtotal        float64        `json:"subtotal"`
	TotalGST        float64        `json:"total_gst"`
	TotalAmount     float64        `json:"total_amount"`
}

func toBillView(bill *billing.Bill) billView {
	view := billView{
		CustomerName:    bill.CustomerName,
		CustomerPhone:   bill.CustomerPhone,
		CustomerAddress: bill.CustomerAddress,
		Items:           make([]billLineView, 0, len(bill.Items)),
		Subtotal:        bill.Subtotal.Round(2).InexactFloat64(),
		TotalGST:        bill.TotalGST.Round(2).InexactFloat64(),
		TotalAmount:     bill.TotalAmount.Round(2).InexactFloat64(),
	}
	for _, item := range bill.Items {
		view.Items = append(view.Items, billLineView{
			ProductID:  item.ProductID,
			Name:       item.ProductName,
			Quantity:   item.Quantity.InexactFloat64(),
			Unit:       item.Unit,
			UnitPrice:  item.UnitPrice.Round(2).InexactFloat64(),
			GSTPercent: item.GSTPercent.InexactFloat64(),
			LineBase:   item.LineBase.Round(2).InexactFloat64(),
			GSTAmount:  item.GSTAmount.Round(2).InexactFloat64(),
			LineTotal:  item.LineTotal.Round(2).InexactFloat64(),
		})
	}
	return view
}

// ProcessVoice godoc
// @Summary Process a voice recording into a bill
// @Description Transcribe the audio, extract items, resolve them against the catalog and render a PDF bill
// @Tags Voice
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Audio recording (wav, mp3, m4a, ogg, webm, flac)"
// @Param template_id formData int true "Bill template ID"
// @Param language formData string false "Language hint (e.g. en, hi)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Failure 504 {object} map[string]interface{}
// @Router /process-voice [post]
func (h *VoiceHandler) ProcessVoice(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Audio file is required",
		})
	}
	if h.maxAudio > 0 && fileHeader.Size > h.maxAudio {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Audio file too large",
		})
	}

	templateID, err := strconv.ParseUint(c.FormValue("template_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Valid template_id is required",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read audio file",
		})
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read audio file",
		})
	}

	resp, serr := h.voiceService.Process(c.Context(), pipeline.Request{
		Audio:      audio,
		Filename:   fileHeader.Filename,
		TemplateID: uint(templateID),
		Language:   c.FormValue("language"),
	})
	if serr != nil {
		return c.Status(statusForKind(serr.Kind)).JSON(fiber.Map{
			"error_kind": string(serr.Kind),
			"stage":      string(serr.Stage),
			"message":    serr.Message,
		})
	}

	return c.JSON(fiber.Map{
		"bill_ref":     resp.BillRef,
		"bill_data":    toBillView(resp.Bill),
		"bill_path":    resp.BillPath,
		"download_url": "/download-bill/" + path.Base(resp.BillPath),
		"transcript":   resp.Transcript,
		"confidence":   resp.Confidence,
		"diagnostics":  resp.Diagnostics,
	})
}

// DownloadBill godoc
// @Summary Download a generated bill
// @Description Serve the rendered bill PDF by filename
// @Tags Voice
// @Produce application/pdf
// @Param filename path string true "Bill filename"
// @Success 200 {file} file
// @Failure 404 {object} map[string]interface{}
// @Router /download-bill/{filename} [get]
func (h *VoiceHandler) DownloadBill(c *fiber.Ctx) error {
	filename := c.Params("filename")
	if filename == "" || strings.ContainsAny(filename, "/\\") || strings.Contains(filename, "..") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid filename",
		})
	}

	storagePath := path.Join("bills", filename)
	if localPath, ok := h.files.LocalPath(storagePath); ok {
		if _, err := os.Stat(localPath); err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Bill not found",
			})
		}
		return c.SendFile(localPath)
	}

	// Remote backends serve through their own URL
	url := h.files.URL(storagePath)
	if url == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Bill not found",
		})
	}
	return c.Redirect(url, fiber.StatusFound)
}

// statusForKind maps pipeline failures onto HTTP statuses
func statusForKind(kind pipeline.ErrorKind) int {
	switch kind {
	case pipeline.KindTranscription:
		return fiber.StatusBadRequest
	case pipeline.KindTemplateNotFound:
		return fiber.StatusNotFound
	case pipeline.KindTimeout:
		return fiber.StatusGatewayTimeout
	case pipeline.KindCanceled:
		return fiber.StatusRequestTimeout
	default:
		return fiber.StatusInternalServerError
	}
}
