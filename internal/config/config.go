package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		// SandboxRedirect, when set, reroutes every outgoing message to this
		// address. Dev/staging only.
		SandboxRedirect string `yaml:"sandbox_redirect"`
	} `yaml:"email"`

	Stripe struct {
		SecretKey     string `yaml:"secret_key"`
		WebhookSecret string `yaml:"webhook_secret"`
		SuccessURL    string `yaml:"success_url"`
		CancelURL     string `yaml:"cancel_url"`
		Currency      string `yaml:"currency"`
	} `yaml:"stripe"`

	// Prices are dollars per payment type. Custom payments are priced by the
	// caller and only bounded by a minimum.
	Prices struct {
		Annual    float64 `yaml:"annual"`
		Monthly   float64 `yaml:"monthly"`
		Quarterly float64 `yaml:"quarterly"`
	} `yaml:"prices"`

	Registration struct {
		BaseURL             string `yaml:"base_url"` // public base for invite/checkout links
		AdminEmail          string `yaml:"admin_email"`
		InviteTokenTTLHours int    `yaml:"invite_token_ttl_hours"`
		AccessTokenTTLHours int    `yaml:"access_token_ttl_hours"`
		ResetTokenTTLMins   int    `yaml:"reset_token_ttl_mins"`
	} `yaml:"registration"`

	Geo struct {
		// Zip prefixes inside the club's service area, e.g. ["970", "971"].
		AllowedZipPrefixes []string `yaml:"allowed_zip_prefixes"`
	} `yaml:"geo"`
}

var AppConfig *Config

func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	// Env-var mode (tests, containers without a mounted config file).
	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))

	cfg.Email.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = os.Getenv("SMTP_FROM")
	cfg.Email.SandboxRedirect = os.Getenv("EMAIL_SANDBOX_REDIRECT")

	cfg.Stripe.SecretKey = os.Getenv("STRIPE_SECRET_KEY")
	cfg.Stripe.WebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")
	cfg.Stripe.SuccessURL = os.Getenv("STRIPE_SUCCESS_URL")
	cfg.Stripe.CancelURL = os.Getenv("STRIPE_CANCEL_URL")

	cfg.Registration.BaseURL = os.Getenv("APP_BASE_URL")
	cfg.Registration.AdminEmail = os.Getenv("ADMIN_EMAIL")

	cfg.Prices.Annual, _ = strconv.ParseFloat(os.Getenv("PRICE_ANNUAL"), 64)
	cfg.Prices.Monthly, _ = strconv.ParseFloat(os.Getenv("PRICE_MONTHLY"), 64)
	cfg.Prices.Quarterly, _ = strconv.ParseFloat(os.Getenv("PRICE_QUARTERLY"), 64)

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Stripe.Currency == "" {
		cfg.Stripe.Currency = "usd"
	}
	if cfg.Registration.InviteTokenTTLHours == 0 {
		cfg.Registration.InviteTokenTTLHours = 72
	}
	if cfg.Registration.AccessTokenTTLHours == 0 {
		cfg.Registration.AccessTokenTTLHours = 168
	}
	if cfg.Registration.ResetTokenTTLMins == 0 {
		cfg.Registration.ResetTokenTTLMins = 30
	}
}

// ValidatePrices checks the fixed price table. A zero or negative price means
// the deployment is misconfigured; callers treat this as fatal at startup so
// a bad table can never reach a live checkout.
func (c *Config) ValidatePrices() error {
	prices := map[string]float64{
		"annual":    c.Prices.Annual,
		"monthly":   c.Prices.Monthly,
		"quarterly": c.Prices.Quarterly,
	}
	for name, price := range prices {
		if price <= 0 {
			return fmt.Errorf("price for %q payment type is missing or invalid: %v", name, price)
		}
	}
	return nil
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
