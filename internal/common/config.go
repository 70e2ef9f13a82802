package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	OCR      OCRConfig
	Currency CurrencyConfig
	Sheets   SheetsConfig
	Drive    DriveConfig
	Store    StoreConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr            string
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration
}

// OCRConfig holds text-extraction configuration.
type OCRConfig struct {
	Pdftotext     string
	Pdftoppm      string
	Tesseract     string
	TesseractLang string
	DPI           int
	MaxPages      int
	EnablePDFOCR  bool
	Preprocess    bool
	TessdataDir   string
}

// CurrencyConfig holds exchange-rate configuration.
type CurrencyConfig struct {
	APIURL       string
	FetchTimeout time.Duration
	MaxAge       time.Duration
}

// SheetsConfig holds the spreadsheet destination defaults.
type SheetsConfig struct {
	SpreadsheetID   string
	CredentialsFile string
	TokenFile       string
	WorkbookPath    string // local XLSX destination when no spreadsheet is configured
}

// DriveConfig holds the file-storage destination defaults.
type DriveConfig struct {
	FolderID string
}

// StoreConfig holds the local settings database location.
type StoreConfig struct {
	Path string
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            getEnv("HTTP_ADDR", ":8080"),
			MaxUploadBytes:  getEnvAsInt64("MAX_UPLOAD_BYTES", 20<<20),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		OCR: OCRConfig{
			Pdftotext:     getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:      getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "spa"),
			DPI:           getEnvAsInt("OCR_DPI", 300),
			MaxPages:      getEnvAsInt("OCR_MAX_PAGES", 0),
			EnablePDFOCR:  getEnvAsBool("ENABLE_PDF_OCR", false),
			Preprocess:    getEnvAsBool("OCR_PREPROCESS", true),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
		},
		Currency: CurrencyConfig{
			APIURL:       getEnv("EXCHANGE_RATE_API_URL", "https://api.exchangerate-api.com/v4/latest/EUR"),
			FetchTimeout: getEnvAsDuration("EXCHANGE_RATE_TIMEOUT", 10*time.Second),
			MaxAge:       getEnvAsDuration("EXCHANGE_RATE_MAX_AGE", time.Hour),
		},
		Sheets: SheetsConfig{
			SpreadsheetID:   getEnv("GOOGLE_SHEETS_ID", ""),
			CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),
			TokenFile:       getEnv("GOOGLE_TOKEN_FILE", ""),
			WorkbookPath:    getEnv("WORKBOOK_PATH", ""),
		},
		Drive: DriveConfig{
			FolderID: getEnv("GOOGLE_DRIVE_FOLDER_ID", ""),
		},
		Store: StoreConfig{
			Path: getEnv("SETTINGS_DB_PATH", "facturascan.db"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
