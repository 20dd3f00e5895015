package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config ilovaning konfiguratsiyasi
type Config struct {
	GeminiAPIKey  string
	TelegramToken string
	RunDBPath     string
	OutputDir     string
	MaxParallel   int

	// SystemPrompt bo'sh bo'lmasa AI system instruction o'rniga ishlatiladi
	SystemPrompt string
}

// Load konfiguratsiyani yuklash
func Load() (*Config, error) {
	// .env faylini yuklash (mavjud bo'lsa)
	_ = godotenv.Load()

	config := &Config{
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		RunDBPath:     "data/runs.db",
		OutputDir:     "output",
		MaxParallel:   1, // Default: ketma-ket ishlash
	}

	if dbPath := os.Getenv("RUN_DB_PATH"); dbPath != "" {
		config.RunDBPath = dbPath
	}

	if outDir := os.Getenv("OUTPUT_DIR"); outDir != "" {
		config.OutputDir = outDir
	}

	if rawParallel := os.Getenv("MAX_PARALLEL"); rawParallel != "" {
		if parsed, err := strconv.Atoi(rawParallel); err == nil && parsed > 0 {
			config.MaxParallel = parsed
		} else {
			return nil, fmt.Errorf("MAX_PARALLEL noto'g'ri formatda: %s", rawParallel)
		}
	}

	// Maxsus system prompt fayldan (ixtiyoriy)
	if promptFile := os.Getenv("SYSTEM_PROMPT_FILE"); promptFile != "" {
		data, err := os.ReadFile(promptFile)
		if err != nil {
			return nil, fmt.Errorf("SYSTEM_PROMPT_FILE o'qib bo'lmadi: %w", err)
		}
		config.SystemPrompt = string(data)
	}

	// Validatsiya
	if config.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable bo'sh")
	}

	return config, nil
}
