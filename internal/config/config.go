package config

import (
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	DBDriver string `envconfig:"DB_DRIVER" default:"sqlite"` // sqlite | pgx
	DBDSN    string `envconfig:"DB_DSN"`

	// Discrete postgres settings, used only when DB_DSN is empty.
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBUser     string `envconfig:"DB_USERNAME"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"qrcatalog"`

	UploadDir     string `envconfig:"UPLOAD_DIR" default:"./uploads"`
	QRDir         string `envconfig:"QR_DIR" default:"./qr-codes"`
	QRBaseURL     string `envconfig:"QR_BASE_URL" default:"http://localhost:4200/main/viewshoe"`
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`
	QRSize        int    `envconfig:"QR_SIZE" default:"256"`

	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"1h"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	BodyLimit      int           `envconfig:"BODY_LIMIT" default:"4194304"`

	TemplateDir string `envconfig:"TEMPLATE_DIR" default:"./web/templates"`
	LogFile     string `envconfig:"LOG_FILE"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	switch cfg.DBDriver {
	case "sqlite":
		if cfg.DBDSN == "" {
			cfg.DBDSN = "qrcatalog.db" // sqlite file in project root
		}
	case "pgx":
		if cfg.DBDSN == "" {
			cfg.DBDSN = postgresDSN(cfg)
		}
	default:
		return Config{}, fmt.Errorf("config: unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.QRSize <= 0 {
		cfg.QRSize = 256
	}

	log.Printf("[config] PORT=%s DB_DRIVER=%s UPLOAD_DIR=%s QR_DIR=%s QR_BASE_URL=%s LOG_FILE=%s",
		cfg.Port, cfg.DBDriver, cfg.UploadDir, cfg.QRDir, cfg.QRBaseURL, cfg.LogFile)
	return cfg, nil
}

func postgresDSN(cfg Config) string {
	u := url.URL{
		Scheme:   "postgres",
		Host:     cfg.DBHost,
		Path:     "/" + cfg.DBName,
		RawQuery: "sslmode=disable",
	}
	if cfg.DBUser != "" {
		u.User = url.UserPassword(cfg.DBUser, cfg.DBPassword)
	}
	return u.String()
}
