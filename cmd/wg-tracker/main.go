package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/mgebhard/wg-tracker/internal/household"
	"github.com/mgebhard/wg-tracker/internal/receipt"
	"github.com/mgebhard/wg-tracker/internal/scanning"
)

const version = "1.0.0"

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	// Local .env files are optional
	godotenv.Load()

	fs := ff.NewFlagSet("wg-tracker")
	var (
		port          = fs.IntLong("port", 8080, "HTTP server port")
		dbPath        = fs.StringLong("db", "wg-tracker.db", "Database file path")
		storagePath   = fs.StringLong("storage", "./receipts", "Receipt storage directory path")
		ocrEngine     = fs.StringLong("ocr-engine", "none", "OCR engine: 'gemini', 'ollama', 'tesseract' or 'none'")
		geminiKey     = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel   = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		ollamaURL     = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel   = fs.StringLong("ollama-model", "llava", "Ollama model name (e.g., llava, llava-phi3, bakllava, qwen2-vl)")
		tesseractLang = fs.StringLong("tesseract-lang", "deu", "Tesseract language code")
		personA       = fs.StringLong("person-a", "alex", "First household member ID")
		personB       = fs.StringLong("person-b", "maya", "Second household member ID")
		authUser      = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass      = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		showVersion   = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("WG_TRACKER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Initialize database
	slog.Info("Initializing database...")
	db, err := household.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize the OCR engine. Without one, scanned images are rejected
	// but PDFs with a text layer still work.
	var engine scanning.Engine
	switch *ocrEngine {
	case "gemini":
		apiKey := *geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			slog.Error("Gemini API key is required. Set --gemini-key flag or GEMINI_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing Gemini OCR engine...", "model", *geminiModel)
		engine, err = scanning.NewGemini(apiKey, *geminiModel)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
	case "ollama":
		slog.Info("Initializing Ollama OCR engine...", "url", *ollamaURL, "model", *ollamaModel)
		engine, err = scanning.NewOllama(*ollamaURL, *ollamaModel)
		if err != nil {
			slog.Error("Failed to initialize Ollama", "error", err)
			os.Exit(1)
		}
	case "tesseract":
		slog.Info("Initializing Tesseract OCR engine...", "language", *tesseractLang)
		engine, err = scanning.NewTesseract(*tesseractLang)
		if err != nil {
			slog.Error("Failed to initialize Tesseract", "error", err)
			os.Exit(1)
		}
	case "none":
		slog.Info("Running without an OCR engine; only PDFs with a text layer can be scanned")
	default:
		slog.Error("Invalid OCR engine", "engine", *ocrEngine, "valid", "gemini, ollama, tesseract or none")
		os.Exit(1)
	}

	extractor := scanning.NewExtractor(engine)
	defer extractor.Close()

	// Initialize storage
	slog.Info("Initializing storage...")
	store, err := household.NewLocalStorage(*storagePath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	split := receipt.SplitConfig{PersonA: *personA, PersonB: *personB}
	service := household.NewService(db, extractor, store, split)

	// Seed the two household members
	members := []household.User{
		{ID: *personA, Username: *personA, DisplayName: *personA, Color: "#7c3aed"},
		{ID: *personB, Username: *personB, DisplayName: *personB, Color: "#0d9488"},
	}
	for _, member := range members {
		if err := service.EnsureUser(member); err != nil {
			slog.Error("Failed to seed household member", "member", member.ID, "error", err)
			os.Exit(1)
		}
	}

	hub := household.NewHub()

	basicAuth := household.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	server := household.NewServer(service, hub, basicAuth)

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
