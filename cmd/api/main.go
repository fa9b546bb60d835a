package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/ats-resume-analyzer/internal/config"
	"alfredoptarigan/ats-resume-analyzer/internal/handlers"
	"alfredoptarigan/ats-resume-analyzer/internal/models"
	"alfredoptarigan/ats-resume-analyzer/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	var ocrEngine services.OCREngine
	if cfg.OCR.Enabled {
		ocrEngine = services.NewTesseractEngine(cfg.Storage.UploadPath, cfg.OCR.DPI)
	} else {
		ocrEngine = services.NewNoopOCREngine()
	}

	extractor := services.NewTextExtractor(ocrEngine, storageService)
	log.Println("✅ Services initialized successfully")

	// Initialize Gemini AI. A missing key is not fatal: /parse-resume and
	// /health stay functional, /analyze reports the configuration error.
	geminiClient, err := services.NewGeminiClient(cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Printf("⚠️  WARNING: Could not initialize Gemini client: %v\n", err)
		log.Println("   Ensure GEMINI_API_KEY is configured")
		geminiClient = nil
	} else {
		log.Println("✅ Gemini AI initialized successfully")
	}

	analyzerService := services.NewAnalyzerService(geminiClient, cfg.Analysis.MaxResumeChars)
	log.Println("✅ Analyzer service initialized")

	// Initialize Handlers
	parseHandler := handlers.NewParseHandler(extractor, cfg.Storage.MaxFileSize)
	analyzeHandler := handlers.NewAnalyzeHandler(analyzerService)
	log.Println("✅ Handlers initialized")

	// Create Fiber app. BodyLimit sits above the resume size cap so the
	// handler's own check answers with 400 instead of Fiber's 413.
	app := fiber.New(fiber.Config{
		AppName:      "Mini ATS Resume Analyzer",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1024*1024,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(models.HealthResponse{
			Status: "healthy",
			Region: cfg.Server.Region,
			Model:  cfg.Gemini.Model,
		})
	})

	// API endpoints
	app.Post("/parse-resume", parseHandler.HandleParseResume)
	app.Post("/analyze", analyzeHandler.HandleAnalyze)

	// Frontend delivery
	app.Static("/static", cfg.Storage.StaticDir)
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendFile(filepath.Join(cfg.Storage.StaticDir, "index.html"))
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
