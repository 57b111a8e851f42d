package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

type Kafka struct {
	Host  string
	Port  string
	Topic string
	Group string
}

type Token struct {
	Secret   string
	Audience string
	Issuer   string
	TTL      time.Duration
}

type Media struct {
	Bucket string
}

type VideoParser struct {
	Binary  string
	Timeout time.Duration
}

type RateLimit struct {
	RPS   float64
	Burst int
}

// Config is the process configuration, read once at startup and threaded
// through fx. Nothing reads the environment after Load returns.
type Config struct {
	Debug       bool
	HTTPHost    string
	HTTPPort    string
	Postgres    Postgres
	Kafka       Kafka
	Token       Token
	Media       Media
	VideoParser VideoParser
	RateLimit   RateLimit
}

func Load() *Config {
	debug := os.Getenv("DEBUG") == "1"
	if debug {
		godotenv.Load()
	}

	return &Config{
		Debug:    debug,
		HTTPHost: getenv("HTTP_HOST", "0.0.0.0"),
		HTTPPort: getenv("HTTP_PORT", "8080"),
		Postgres: Postgres{
			Host:     getenv("POSTGRES_HOST", "127.0.0.1"),
			Port:     getenv("POSTGRES_PORT", "5432"),
			User:     getenv("POSTGRES_USER", "postgres"),
			Password: getenv("POSTGRES_PASSWORD", "postgres"),
			Database: getenv("POSTGRES_DB", "pulsefeed"),
		},
		Kafka: Kafka{
			Host:  getenv("KAFKA_HOST", "127.0.0.1"),
			Port:  getenv("KAFKA_PORT", "9092"),
			Topic: getenv("KAFKA_TOPIC", "feed"),
			Group: getenv("KAFKA_GROUP", "feed"),
		},
		Token: Token{
			Secret:   getenv("JWT_SECRET", "123456"),
			Audience: getenv("JWT_AUDIENCE", "pulsefeed-clients"),
			Issuer:   getenv("JWT_ISSUER", "pulsefeed"),
			TTL:      getenvDuration("JWT_TTL", time.Hour),
		},
		Media: Media{
			Bucket: getenv("S3_BUCKET", "pulsefeed-media"),
		},
		VideoParser: VideoParser{
			Binary:  getenv("YTDLP_BINARY", "yt-dlp"),
			Timeout: getenvDuration("YTDLP_TIMEOUT", 60*time.Second),
		},
		RateLimit: RateLimit{
			RPS:   getenvFloat("RATE_LIMIT_RPS", 5),
			Burst: getenvInt("RATE_LIMIT_BURST", 600),
		},
	}
}

func getenv(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
