package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Auth
	JWTSecret                  string
	JWTExpiryDuration          time.Duration
	JWTIssuer                  string
	RefreshTokenExpiryDuration time.Duration
	RefreshTokenSecret         string

	// External OAuth Providers
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`

	// Currency / rates
	BaseCurrency          string
	SupportedCurrencies   []string
	ZeroDecimalCurrencies []string
	RateFeedURL           string
	RateFeedTimeout       time.Duration
	RateRefreshInterval   time.Duration
	RateStalenessLimit    time.Duration
	GeoIPURL              string
	GeoIPTimeout          time.Duration
	DefaultCurrency       string // Used when geo-IP detection cannot resolve a country

	// Dual-token classification
	PropxValueThresholdAED int64
	PremiumZones           []string

	// User IDs allowed to approve or reject KYC submissions.
	KYCReviewers []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "nexvestxr-backend")
	viper.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "168h")
	viper.SetDefault("REFRESH_TOKEN_SECRET", "default_insecure_refresh_secret_please_change_this_!@#$")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")

	viper.SetDefault("BASE_CURRENCY", "AED")
	viper.SetDefault("SUPPORTED_CURRENCIES", "AED,USD,EUR,GBP,SGD,INR,SAR,QAR,KWD")
	viper.SetDefault("ZERO_DECIMAL_CURRENCIES", "INR")
	viper.SetDefault("RATE_FEED_URL", "https://api.exchangerate-api.com/v4/latest/AED")
	viper.SetDefault("RATE_FEED_TIMEOUT", "10s")
	viper.SetDefault("RATE_REFRESH_INTERVAL", "15m")
	viper.SetDefault("RATE_STALENESS_LIMIT", "1h")
	viper.SetDefault("GEOIP_URL", "http://ip-api.com/json/")
	viper.SetDefault("GEOIP_TIMEOUT", "5s")
	viper.SetDefault("DEFAULT_CURRENCY", "USD")

	viper.SetDefault("KYC_REVIEWERS", "")

	viper.SetDefault("PROPX_VALUE_THRESHOLD_AED", 5_000_000)
	viper.SetDefault("PREMIUM_ZONES", "Downtown Dubai,Dubai Marina,Business Bay,DIFC,Palm Jumeirah,Jumeirah Lake Towers,Dubai Hills,Saadiyat Island,Al Reem Island")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	cfg.JWTExpiryDuration = parseDurationOr("JWT_EXPIRY_DURATION", time.Hour)
	cfg.RefreshTokenExpiryDuration = parseDurationOr("REFRESH_TOKEN_EXPIRY_DURATION", 7*24*time.Hour)
	cfg.RefreshTokenSecret = viper.GetString("REFRESH_TOKEN_SECRET")

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URL")
	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google sign-in will not function.")
	}

	cfg.BaseCurrency = viper.GetString("BASE_CURRENCY")
	cfg.SupportedCurrencies = splitCSV(viper.GetString("SUPPORTED_CURRENCIES"))
	cfg.ZeroDecimalCurrencies = splitCSV(viper.GetString("ZERO_DECIMAL_CURRENCIES"))
	cfg.RateFeedURL = viper.GetString("RATE_FEED_URL")
	cfg.RateFeedTimeout = parseDurationOr("RATE_FEED_TIMEOUT", 10*time.Second)
	cfg.RateRefreshInterval = parseDurationOr("RATE_REFRESH_INTERVAL", 15*time.Minute)
	cfg.RateStalenessLimit = parseDurationOr("RATE_STALENESS_LIMIT", time.Hour)
	cfg.GeoIPURL = viper.GetString("GEOIP_URL")
	cfg.GeoIPTimeout = parseDurationOr("GEOIP_TIMEOUT", 5*time.Second)
	cfg.DefaultCurrency = viper.GetString("DEFAULT_CURRENCY")

	cfg.KYCReviewers = splitCSV(viper.GetString("KYC_REVIEWERS"))

	cfg.PropxValueThresholdAED = viper.GetInt64("PROPX_VALUE_THRESHOLD_AED")
	cfg.PremiumZones = splitCSV(viper.GetString("PREMIUM_ZONES"))

	return cfg, nil
}

func parseDurationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s (%q). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
