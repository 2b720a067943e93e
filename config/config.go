package config

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Environments recognized by secret resolution.
const (
	EnvTest       = "test"
	EnvBuild      = "build"
	EnvProduction = "production"
)

// Development-only signing secrets. Production must provide JWT_SECRET.
const (
	testSecret  = "mindhaven-test-secret"
	buildSecret = "mindhaven-build-secret"
)

// Config holds the project config values, resolved once at boot.
type Config struct {
	Env             string
	URL             string
	DatabaseName    string
	BaseURL         string
	Port            string
	JWTSecret       string
	SendGridAPIKey  string
	EmailFrom       string
	AllowedOrigins  []string
	StripeSecretKey string
	UploadPreset    string
	UploadSecret    string
}

// New sets up all config related services. The JWT secret is resolved by
// environment here, validated once, so nothing branches per request later.
func New() (*Config, error) {

	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	//setup zap logger and replace default logger
	logger := zap.NewExample()
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	c := &Config{
		Env:             os.Getenv("APP_ENV"),
		URL:             os.Getenv("DB_URI"),
		DatabaseName:    os.Getenv("DB_NAME"),
		BaseURL:         os.Getenv("BASE_URL"),
		Port:            os.Getenv("PORT"),
		SendGridAPIKey:  os.Getenv("SENDGRID_API_KEY"),
		EmailFrom:       os.Getenv("EMAIL_FROM"),
		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		UploadPreset:    os.Getenv("UPLOAD_PRESET"),
		UploadSecret:    os.Getenv("UPLOAD_API_SECRET"),
	}
	if c.Env == "" {
		c.Env = EnvBuild
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.AllowedOrigins = append(c.AllowedOrigins, o)
			}
		}
	}

	secret, err := resolveSecret(c.Env)
	if err != nil {
		return nil, err
	}
	c.JWTSecret = secret

	return c, nil
}

func resolveSecret(env string) (string, error) {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return s, nil
	}
	switch env {
	case EnvTest:
		return testSecret, nil
	case EnvBuild:
		return buildSecret, nil
	default:
		// production never runs on a baked-in secret
		return "", fmt.Errorf("SecretNotFound: JWT_SECRET must be set in %s", env)
	}
}

// ErrorStatus is a useful function that will log, write http headers and body
// for a given message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)
	w.WriteHeader(httpStatusCode)
	w.Write([]byte(fmt.Sprintf(`{"response": "%s, %v"}`, message, err)))
}
