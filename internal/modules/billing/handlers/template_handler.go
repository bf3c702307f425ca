package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/voicebill/voice-billing-be/internal/modules/billing/services"
)

type TemplateHandler struct {
	templateService *services.TemplateService
}

func NewTemplateHandler(templateService *services.TemplateService) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
	}
}

// UploadTemplate godoc
// @Summary Upload a bill template
// @Description Upload a PDF/JPG/PNG layout used as the bill background
// @Tags Templates
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Template name"
// @Param file formData file true "Template file (pdf, jpg, jpeg, png)"
// @Success 201 {object} models.Template
// @Failure 400 {object} map[string]interface{}
// @Router /upload-template [post]
func (h *TemplateHandler) UploadTemplate(c *fiber.Ctx) error {
	name := c.FormValue("name")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Template file is required",
		})
	}

	template, err := h.templateService.UploadTemplate(c.Context(), name, fileHeader)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(template)
}

// ListTemplates godoc
// @Summary List templates
// @Description List all uploaded bill templates
// @Tags Templates
// @Produce json
// @Success 200 {array} models.Template
// @Router /templates [get]
func (h *TemplateHandler) ListTemplates(c *fiber.Ctx) error {
	templates, err := h.templateService.ListTemplates()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(templates)
}

// DeleteTemplate godoc
// @Summary Delete template
// @Description Remove a template and its stored file
// @Tags Templates
// @Produce json
// @Param id path int true "Template ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /templates/{id} [delete]
func (h *TemplateHandler) DeleteTemplate(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid template ID",
		})
	}

	if err := h.templateService.DeleteTemplate(c.Context(), id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Template deleted successfully",
	})
}
