package config

import (
	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field maps 1:1 to an env var; defaults fit single-operator local use.
type Config struct {
	// Server
	Port int    `mapstructure:"PORT"`
	Env  string `mapstructure:"APP_ENV"` // development | production

	// Database
	DatabaseDSN string `mapstructure:"DATABASE_DSN"`

	// Redis (draft-order sessions)
	RedisURL        string `mapstructure:"REDIS_URL"`
	DraftTTLMinutes int    `mapstructure:"DRAFT_TTL_MINUTES"`

	// SMTP
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	MailTo       string `mapstructure:"MAIL_TO"`

	// Business
	Intestazione string `mapstructure:"INTESTAZIONE"` // heading printed on every summary

	// Artifact directories
	PreviewDir   string `mapstructure:"PREVIEW_DIR"`
	ArchivioPDF  string `mapstructure:"ARCHIVIO_PDF_DIR"`
	ArchivioXLSX string `mapstructure:"ARCHIVIO_XLSX_DIR"`
	BackupDir    string `mapstructure:"BACKUP_DIR"`
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Sensible defaults for development
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DATABASE_DSN", "gestionale.db")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("DRAFT_TTL_MINUTES", 30)
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("MAIL_TO", "ordini@example.com")
	viper.SetDefault("INTESTAZIONE", "Agente di Commercio")
	viper.SetDefault("PREVIEW_DIR", "static/previews")
	viper.SetDefault("ARCHIVIO_PDF_DIR", "archivio/pdf")
	viper.SetDefault("ARCHIVIO_XLSX_DIR", "archivio/excel")
	viper.SetDefault("BACKUP_DIR", "backup")

	// Optional .env file for local development — does not fail if missing
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
