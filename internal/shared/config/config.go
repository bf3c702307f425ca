package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	Port        string
	Env         string
	BaseURL     string

	// Transcription
	TranscribeProvider string // openai | groq
	OpenAIKey          string
	GroqKey            string
	WhisperModel       string
	LanguageHint       string
	MaxAudioBytes      int64

	// Extraction. The LLM provider and model come from LLM_PROVIDER and
	// LLM_MODEL, read by the llm package itself.
	LLMExtractor bool // use LLM extractor with rule-based fallback

	// Resolution
	SimilarityThreshold float64

	// Pipeline
	PipelineTimeout time.Duration

	// Storage
	StorageProvider   string // local | s3
	UploadDir         string
	S3Region          string
	S3Bucket          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	BillRetentionDays int
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment variables")
	}

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),

		TranscribeProvider: getEnv("TRANSCRIBE_PROVIDER", "openai"),
		OpenAIKey:          os.Getenv("OPENAI_API_KEY"),
		GroqKey:            os.Getenv("GROQ_API_KEY"),
		WhisperModel:       os.Getenv("WHISPER_MODEL"),
		LanguageHint:       getEnv("LANGUAGE_HINT", "en"),
		MaxAudioBytes:      getEnvInt64("MAX_AUDIO_BYTES", 10*1024*1024),

		LLMExtractor: getEnv("LLM_EXTRACTOR", "off") == "on",

		SimilarityThreshold: getEnvFloat("SIMILARITY_THRESHOLD", 0.72),

		PipelineTimeout: time.Duration(getEnvInt64("PIPELINE_TIMEOUT_SECONDS", 60)) * time.Second,

		StorageProvider:   getEnv("STORAGE_PROVIDER", "local"),
		UploadDir:         getEnv("UPLOAD_DIR", "./uploads"),
		S3Region:          os.Getenv("S3_REGION"),
		S3Bucket:          os.Getenv("S3_BUCKET"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		BillRetentionDays: int(getEnvInt64("BILL_RETENTION_DAYS", 90)),
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("⚠️ Invalid %s=%q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("⚠️ Invalid %s=%q, using default %g", key, v, fallback)
		return fallback
	}
	return f
}
