package config

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/BrenoBalsini/ultimate-praia-sub000/models"
)

// Config holds the project config values
type Config struct {
	URL          string
	DatabaseName string
	BaseURL      string
	Port         string
	Env          string

	// SessionSecret signs the session cookie issued after login
	SessionSecret string
	// IDPSigningKey verifies the ID tokens issued by the identity provider
	IDPSigningKey string
	// AllowedEmails restricts who may sign in. Empty means any verified identity.
	AllowedEmails []string
	CORSOrigin    string

	CatalogPath string

	SendGridAPIKey string
	DigestFrom     string
	DigestTo       []string
	DigestSchedule string
	SweepSchedule  string
}

// New sets up all config related services
func New() *Config {
	env := getEnv("ENV", "development")

	//setup zap logger and replace default logger
	logger, err := setLogger(env)
	if err != nil {
		logger = zap.NewExample()
	}
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	return &Config{
		URL:            getEnv("DB_URI", "mongodb://127.0.0.1:27017"),
		DatabaseName:   getEnv("DB_NAME", "ultimate-praia"),
		BaseURL:        os.Getenv("BASE_URL"),
		Port:           getEnv("PORT", "8080"),
		Env:            env,
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		IDPSigningKey:  os.Getenv("IDP_SIGNING_KEY"),
		AllowedEmails:  splitList(os.Getenv("ALLOWED_EMAILS")),
		CORSOrigin:     getEnv("CORS_ORIGIN", "*"),
		CatalogPath:    os.Getenv("CATALOG_PATH"),
		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		DigestFrom:     getEnv("DIGEST_FROM", "no-reply@ultimatepraia.app"),
		DigestTo:       splitList(os.Getenv("DIGEST_TO")),
		DigestSchedule: getEnv("DIGEST_SCHEDULE", "0 7 * * *"),
		SweepSchedule:  getEnv("SWEEP_SCHEDULE", "@hourly"),
	}
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	errText := ""
	if err != nil {
		errText = err.Error()
	}
	zap.S().Errorw(message, "status", httpStatusCode, "error", errText)

	b, _ := json.Marshal(models.ErrorMessageResponse{
		Response: models.MessageError{Message: message, Error: errText},
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	_, _ = w.Write(b)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitList turns a comma separated env value into a trimmed slice
func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
