package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/voicebill/voice-billing-be/internal/core/extract"
	"github.com/voicebill/voice-billing-be/internal/core/llm"
	"github.com/voicebill/voice-billing-be/internal/core/pipeline"
	"github.com/voicebill/voice-billing-be/internal/core/render"
	"github.com/voicebill/voice-billing-be/internal/core/resolve"
	"github.com/voicebill/voice-billing-be/internal/core/transcribe"
	"github.com/voicebill/voice-billing-be/internal/core/upload"
	"github.com/voicebill/voice-billing-be/internal/modules/billing/handlers"
	"github.com/voicebill/voice-billing-be/internal/modules/billing/repositories"
	"github.com/voicebill/voice-billing-be/internal/modules/billing/services"
	"github.com/voicebill/voice-billing-be/internal/shared/config"
	"github.com/voicebill/voice-billing-be/internal/shared/database"
	"github.com/voicebill/voice-billing-be/internal/shared/utils"
)

func main() {
	// Load config
	cfg := config.LoadConfig()
	utils.InitLogger()
	log.Printf("🚀 Starting voice-billing-api on port %s", cfg.Port)

	// Init database
	db := database.NewDB(cfg.DatabaseURL)
	defer db.Close()

	// Init repositories (use GORM instance)
	productRepo := repositories.NewProductRepo(db.GORM)
	templateRepo := repositories.NewTemplateRepo(db.GORM)
	billRepo := repositories.NewBillRepo(db.GORM)

	// Init transcription service (multi-provider support)
	var transcribeProvider transcribe.Provider
	switch cfg.TranscribeProvider {
	case "groq":
		transcribeProvider = transcribe.NewGroqProvider(cfg.GroqKey, cfg.WhisperModel)
	default:
		// Default to OpenAI Whisper
		transcribeProvider = transcribe.NewOpenAIProvider(cfg.OpenAIKey, cfg.WhisperModel)
	}
	transcribeService := transcribe.NewService(transcribeProvider, cfg.MaxAudioBytes, cfg.LanguageHint)

	// Init extractor: rule-based by default, LLM with rule fallback when
	// enabled
	var extractor extract.Extractor
	if cfg.LLMExtractor {
		llmService := llm.NewService()
		extractor = extract.NewLLMExtractor(llmService)
		log.Printf("🤖 Using LLM extractor (provider: %s)", llmService.GetProviderName())
	} else {
		extractor = extract.NewRuleExtractor()
	}

	// Init file storage (multi-provider support)
	var storageProvider upload.Provider
	var err error
	switch cfg.StorageProvider {
	case "s3":
		storageProvider, err = upload.NewS3Provider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, cfg.S3Region, cfg.S3Bucket)
	default:
		// Default to local disk
		storageProvider, err = upload.NewLocalProvider(cfg.UploadDir, cfg.BaseURL)
	}
	if err != nil {
		log.Fatalf("Failed to initialize storage provider: %v", err)
	}
	fileService := upload.NewService(storageProvider)

	// Log provider info
	log.Printf("🎙️ Using transcription provider: %s", transcribeService.GetProviderName())
	log.Printf("🧾 Using extractor: %s", extractor.GetExtractorName())
	log.Printf("📦 Using storage provider: %s", fileService.GetProviderName())

	// Init pipeline
	resolver := resolve.NewResolver(cfg.SimilarityThreshold)
	renderer := render.NewPDFRenderer()
	voicePipeline := pipeline.New(
		transcribeService,
		extractor,
		resolver,
		renderer,
		services.NewCatalogStore(productRepo),
		services.NewTemplateStore(templateRepo, fileService),
		services.NewDocumentStore(fileService),
		cfg.PipelineTimeout,
	)

	// Init services
	productService := services.NewProductService(productRepo)
	templateService := services.NewTemplateService(templateRepo, fileService)
	voiceService := services.NewVoiceService(voicePipeline, billRepo, fileService)
	statsService := services.NewStatsService(productRepo, templateRepo, billRepo)

	// Init bill retention cleanup
	cleanupService := services.NewCleanupService(billRepo, fileService, cfg.BillRetentionDays)
	if err := cleanupService.Start(); err != nil {
		log.Fatalf("Failed to start cleanup scheduler: %v", err)
	}
	defer cleanupService.Stop()

	// Init handlers
	productHandler := handlers.NewProductHandler(productService)
	templateHandler := handlers.NewTemplateHandler(templateService)
	voiceHandler := handlers.NewVoiceHandler(voiceService, fileService, cfg.MaxAudioBytes)
	statsHandler := handlers.NewStatsHandler(statsService)
	healthHandler := handlers.NewHealthHandler(transcribeService, fileService)

	// Init Fiber app
	app := fiber.New(fiber.Config{
		AppName:   "Voice Billing API",
		BodyLimit: int(cfg.MaxAudioBytes) + 1024*1024,
	})

	// Middleware
	app.Use(cors.New())

	// Static bill/template files (local storage only)
	if cfg.StorageProvider != "s3" {
		app.Static("/uploads", cfg.UploadDir)
	}

	// Health check
	app.Get("/health", healthHandler.GetHealth)

	// Product routes
	app.Post("/add-product", productHandler.CreateProduct)
	app.Post("/update-global-gst", productHandler.SetGlobalGST)
	app.Get("/products", productHandler.ListProducts)
	app.Get("/products/:id", productHandler.GetProduct)
	app.Put("/products/:id", productHandler.UpdateProduct)
	app.Delete("/products/:id", productHandler.DeleteProduct)

	// Template routes
	app.Post("/upload-template", templateHandler.UploadTemplate)
	app.Get("/templates", templateHandler.ListTemplates)
	app.Delete("/templates/:id", templateHandler.DeleteTemplate)

	// Voice routes
	app.Post("/process-voice", voiceHandler.ProcessVoice)
	app.Get("/download-bill/:filename", voiceHandler.DownloadBill)

	// Stats route
	app.Get("/api/stats", statsHandler.GetStats)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("✅ voice-billing-api running at :%s", port)
	log.Fatal(app.Listen(":" + port))
}
