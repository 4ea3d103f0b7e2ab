package api

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"

	ordersapp "github.com/Apurer/go-gin-orders-api/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port        string
	Environment string
	PostgresDSN string

	RazorpayKeyID     string
	RazorpayKeySecret string
	RazorpayBaseURL   string
	Currency          string
	ProviderTimeout   time.Duration
	MinimumAmount     int64
	VerifyIntent      bool

	JWTSecret    string
	JWTLeeway    time.Duration
	ImageBaseURL string

	KeyRatePerMinute int
	KeyRateBurst     int

	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
// Payment and signing secrets are required; the process refuses to start without them.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		Environment:       envDefault("ENVIRONMENT", "local"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		RazorpayKeyID:     strings.TrimSpace(os.Getenv("RAZORPAY_KEY_ID")),
		RazorpayKeySecret: strings.TrimSpace(os.Getenv("RAZORPAY_KEY_SECRET")),
		RazorpayBaseURL:   strings.TrimSpace(os.Getenv("RAZORPAY_BASE_URL")),
		Currency:          strings.ToUpper(strings.TrimSpace(os.Getenv("SUPPORTED_CURRENCY"))),
		ProviderTimeout:   ordersapp.DefaultProviderTimeout,
		MinimumAmount:     ordersapp.DefaultMinimumAmount,
		VerifyIntent:      true,
		JWTSecret:         strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTLeeway:         30 * time.Second,
		ImageBaseURL:      strings.TrimSpace(os.Getenv("IMAGE_BASE_URL")),
		KeyRatePerMinute:  30,
		KeyRateBurst:      5,
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
	}

	var missing []string
	for key, value := range map[string]string{
		"RAZORPAY_KEY_ID":     cfg.RazorpayKeyID,
		"RAZORPAY_KEY_SECRET": cfg.RazorpayKeySecret,
		"SUPPORTED_CURRENCY":  cfg.Currency,
		"JWT_SECRET":          cfg.JWTSecret,
	} {
		if value == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if _, err := ordersdomain.MinorExponent(cfg.Currency); err != nil {
		return Config{}, fmt.Errorf("SUPPORTED_CURRENCY: %w", err)
	}

	var err error
	if cfg.ProviderTimeout, err = envDuration("PAYMENT_PROVIDER_TIMEOUT", cfg.ProviderTimeout); err != nil {
		return Config{}, err
	}
	if cfg.JWTLeeway, err = envDuration("JWT_LEEWAY", cfg.JWTLeeway); err != nil {
		return Config{}, err
	}
	if raw := strings.TrimSpace(os.Getenv("PAYMENT_MIN_AMOUNT")); raw != "" {
		amount, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || amount <= 0 {
			return Config{}, errors.New("PAYMENT_MIN_AMOUNT must be a positive integer of minor units")
		}
		cfg.MinimumAmount = amount
	}
	if raw := strings.TrimSpace(os.Getenv("PAYMENT_VERIFY_INTENT_AMOUNT")); raw != "" {
		cfg.VerifyIntent = isTruthy(raw)
	}
	if cfg.KeyRatePerMinute, err = envPositiveInt("RAZORPAY_KEY_RATE_PER_MINUTE", cfg.KeyRatePerMinute); err != nil {
		return Config{}, err
	}
	if cfg.KeyRateBurst, err = envPositiveInt("RAZORPAY_KEY_RATE_BURST", cfg.KeyRateBurst); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration such as 5s", key)
	}
	return d, nil
}

func envPositiveInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return n, nil
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
