package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"resume-scorer/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	PublicBaseURL   string
	DatabaseURL     string
	AutoMigrate     bool

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string
	MinioEndpoint   string
	MinioAccessKey  string
	MinioSecretKey  string
	MinioBucket     string
	MinioUseSSL     bool
	DownloadURLTTL  time.Duration

	Extractor           string
	ScoringContent      string
	ScoringContentFixed float64
	ScoringSeed         int64
	ScoringFeedback     string

	EventsBackend      string
	EventsSQSQueueURL  string
	EventsAMQPURL      string
	EventsAMQPExchange string

	JWTSecret          string
	SessionTTL         time.Duration
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	UIRedirectURL      string

	LogLevel  string
	LogFormat string

	RateLimitRate  float64
	RateLimitBurst int
	UploadRate     float64
	UploadBurst    int
}

// Load reads configuration from .env files, the environment and an optional
// CONFIG_FILE, in increasing order of precedence for the environment.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	_ = godotenv.Load(".env")
	_ = godotenv.Load("cmd/.env")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			telemetry.Warn("config.file_unreadable", map[string]any{"path": path, "error": err})
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "dev")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:5173")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	v.SetDefault("AUTO_MIGRATE", false)
	v.SetDefault("OBJECT_STORE", "local")
	v.SetDefault("LOCAL_STORE_DIR", "./data")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("DOWNLOAD_URL_TTL", "168h")
	v.SetDefault("EXTRACTOR", "sample")
	v.SetDefault("SCORING_CONTENT", "random")
	v.SetDefault("SCORING_CONTENT_FIXED", 25.0)
	v.SetDefault("SCORING_SEED", 0)
	v.SetDefault("SCORING_FEEDBACK", "static")
	v.SetDefault("EVENTS_BACKEND", "none")
	v.SetDefault("EVENTS_AMQP_EXCHANGE", "resume.analyses")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("RATE_LIMIT_RATE", 5.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_UPLOAD_RATE", 0.2)
	v.SetDefault("RATE_LIMIT_UPLOAD_BURST", 5)
}

func fromViper(v *viper.Viper) Config {
	env := normalizeEnv(v.GetString("ENV"))
	dbURL := strings.TrimSpace(v.GetString("DATABASE_URL"))
	if env == "production" && dbURL == "" {
		telemetry.Warn("config.database_url_missing", map[string]any{"env": env})
	}

	return Config{
		Port:            v.GetString("PORT"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		PublicBaseURL:   strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/"),
		DatabaseURL:     dbURL,
		AutoMigrate:     v.GetBool("AUTO_MIGRATE"),

		ObjectStoreType: normalizeStoreType(v.GetString("OBJECT_STORE")),
		LocalStoreDir:   v.GetString("LOCAL_STORE_DIR"),
		AWSRegion:       v.GetString("AWS_REGION"),
		S3Bucket:        v.GetString("S3_BUCKET"),
		S3Prefix:        v.GetString("S3_PREFIX"),
		SSEKMSKeyID:     v.GetString("SSE_KMS_KEY_ID"),
		MinioEndpoint:   v.GetString("MINIO_ENDPOINT"),
		MinioAccessKey:  v.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey:  v.GetString("MINIO_SECRET_KEY"),
		MinioBucket:     v.GetString("MINIO_BUCKET"),
		MinioUseSSL:     v.GetBool("MINIO_USE_SSL"),
		DownloadURLTTL:  v.GetDuration("DOWNLOAD_URL_TTL"),

		Extractor:           normalizeChoice(v.GetString("EXTRACTOR"), "sample", "document"),
		ScoringContent:      normalizeChoice(v.GetString("SCORING_CONTENT"), "random", "fixed"),
		ScoringContentFixed: v.GetFloat64("SCORING_CONTENT_FIXED"),
		ScoringSeed:         v.GetInt64("SCORING_SEED"),
		ScoringFeedback:     normalizeChoice(v.GetString("SCORING_FEEDBACK"), "static", "adaptive"),

		EventsBackend:      normalizeChoice(v.GetString("EVENTS_BACKEND"), "none", "sqs", "amqp"),
		EventsSQSQueueURL:  v.GetString("EVENTS_SQS_QUEUE_URL"),
		EventsAMQPURL:      v.GetString("EVENTS_AMQP_URL"),
		EventsAMQPExchange: v.GetString("EVENTS_AMQP_EXCHANGE"),

		JWTSecret:          v.GetString("JWT_SECRET"),
		SessionTTL:         v.GetDuration("SESSION_TTL"),
		GoogleClientID:     v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  v.GetString("GOOGLE_REDIRECT_URL"),
		UIRedirectURL:      v.GetString("UI_REDIRECT_URL"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),

		RateLimitRate:  v.GetFloat64("RATE_LIMIT_RATE"),
		RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),
		UploadRate:     v.GetFloat64("RATE_LIMIT_UPLOAD_RATE"),
		UploadBurst:    v.GetInt("RATE_LIMIT_UPLOAD_BURST"),
	}
}

// IsDevLike reports whether env tolerates in-memory fallbacks.
func IsDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "test":
		return "test"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "minio":
		return "minio"
	default:
		return "local"
	}
}

// normalizeChoice returns raw when it is one of allowed, else allowed[0].
func normalizeChoice(raw string, allowed ...string) string {
	clean := strings.ToLower(strings.TrimSpace(raw))
	for _, a := range allowed {
		if clean == a {
			return a
		}
	}
	return allowed[0]
}
