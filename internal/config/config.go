package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	JWT       JWTConfig
	Log       LogConfig
	CORS      CORSConfig
	Email     EmailConfig
	S3        S3Config
	Tax       TaxConfig
	Numbering NumberingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret            string        `mapstructure:"secret"`
	AccessTokenExpiry time.Duration `mapstructure:"access_expiry"`
	Issuer            string        `mapstructure:"issuer"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EmailConfig holds invoice email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// S3Config holds receipt storage settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// TaxConfig holds the GST classification settings. The combined rate is a
// configuration constant, not hard-coded per classification.
type TaxConfig struct {
	HomeCountry  string  `mapstructure:"home_country"`
	CombinedRate float64 `mapstructure:"combined_rate"`
}

// NumberingConfig holds the document numbering policy per document type.
// Scope is "fiscal_year" (counter resets each April 1) or "global" (one
// running sequence forever).
type NumberingConfig struct {
	InvoiceTemplate   string `mapstructure:"invoice_template"`
	InvoiceScope      string `mapstructure:"invoice_scope"`
	QuotationTemplate string `mapstructure:"quotation_template"`
	QuotationScope    string `mapstructure:"quotation_scope"`
}

const (
	ScopeFiscalYear = "fiscal_year"
	ScopeGlobal     = "global"
)

// Load reads configuration from environment variables with the FINBOOK_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FINBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "finbook")
	v.SetDefault("db.password", "finbook_secret")
	v.SetDefault("db.name", "finbook_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "12h")
	v.SetDefault("jwt.issuer", "finbook")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-south-1")
	v.SetDefault("email.from_address", "billing@finbook.local")
	v.SetDefault("email.from_name", "Finbook")

	// S3 defaults
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "finbook-receipts")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 10)
	v.SetDefault("s3.presign_expiry", 3600)

	// Tax defaults
	v.SetDefault("tax.home_country", "India")
	v.SetDefault("tax.combined_rate", 18.0)

	// Numbering defaults: invoices reset per fiscal year, quotations keep
	// one running sequence forever.
	v.SetDefault("numbering.invoice_template", "INV-{CC}{FY}-{SEQ:3}")
	v.SetDefault("numbering.invoice_scope", ScopeFiscalYear)
	v.SetDefault("numbering.quotation_template", "QTN-{CC}-{SEQ:3}")
	v.SetDefault("numbering.quotation_scope", ScopeGlobal)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                  "FINBOOK_SERVER_PORT",
		"server.read_timeout":          "FINBOOK_SERVER_READ_TIMEOUT",
		"server.write_timeout":         "FINBOOK_SERVER_WRITE_TIMEOUT",
		"server.environment":           "FINBOOK_SERVER_ENVIRONMENT",
		"db.host":                      "FINBOOK_DB_HOST",
		"db.port":                      "FINBOOK_DB_PORT",
		"db.user":                      "FINBOOK_DB_USER",
		"db.password":                  "FINBOOK_DB_PASSWORD",
		"db.name":                      "FINBOOK_DB_NAME",
		"db.sslmode":                   "FINBOOK_DB_SSLMODE",
		"db.max_open":                  "FINBOOK_DB_MAX_OPEN",
		"db.max_idle":                  "FINBOOK_DB_MAX_IDLE",
		"jwt.secret":                   "FINBOOK_JWT_SECRET",
		"jwt.access_expiry":            "FINBOOK_JWT_ACCESS_EXPIRY",
		"jwt.issuer":                   "FINBOOK_JWT_ISSUER",
		"log.level":                    "FINBOOK_LOG_LEVEL",
		"log.format":                   "FINBOOK_LOG_FORMAT",
		"cors.allowed_origins":         "FINBOOK_CORS_ALLOWED_ORIGINS",
		"email.provider":               "FINBOOK_EMAIL_PROVIDER",
		"email.region":                 "FINBOOK_EMAIL_REGION",
		"email.from_address":           "FINBOOK_EMAIL_FROM_ADDRESS",
		"email.from_name":              "FINBOOK_EMAIL_FROM_NAME",
		"s3.region":                    "FINBOOK_S3_REGION",
		"s3.bucket":                    "FINBOOK_S3_BUCKET",
		"s3.endpoint":                  "FINBOOK_S3_ENDPOINT",
		"s3.access_key":                "FINBOOK_S3_ACCESS_KEY",
		"s3.secret_key":                "FINBOOK_S3_SECRET_KEY",
		"s3.max_file_size_mb":          "FINBOOK_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":            "FINBOOK_S3_PRESIGN_EXPIRY",
		"tax.home_country":             "FINBOOK_TAX_HOME_COUNTRY",
		"tax.combined_rate":            "FINBOOK_TAX_COMBINED_RATE",
		"numbering.invoice_template":   "FINBOOK_NUMBERING_INVOICE_TEMPLATE",
		"numbering.invoice_scope":      "FINBOOK_NUMBERING_INVOICE_SCOPE",
		"numbering.quotation_template": "FINBOOK_NUMBERING_QUOTATION_TEMPLATE",
		"numbering.quotation_scope":    "FINBOOK_NUMBERING_QUOTATION_SCOPE",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if FINBOOK_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("FINBOOK_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:            v.GetString("jwt.secret"),
		AccessTokenExpiry: v.GetDuration("jwt.access_expiry"),
		Issuer:            v.GetString("jwt.issuer"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Tax = TaxConfig{
		HomeCountry:  v.GetString("tax.home_country"),
		CombinedRate: v.GetFloat64("tax.combined_rate"),
	}
	cfg.Numbering = NumberingConfig{
		InvoiceTemplate:   v.GetString("numbering.invoice_template"),
		InvoiceScope:      v.GetString("numbering.invoice_scope"),
		QuotationTemplate: v.GetString("numbering.quotation_template"),
		QuotationScope:    v.GetString("numbering.quotation_scope"),
	}

	return cfg, nil
}
