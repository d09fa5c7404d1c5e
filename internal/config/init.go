package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	BackendDatabase = "database"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
)

// Settings تنظیمات برنامه که از .env یا متغیرهای محیطی خوانده می‌شود
type Settings struct {
	Env                 string
	Port                string
	StoreBackend        string // database | memory
	RelationshipBackend string // database | redis
	DBDSN               string
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	JWTSecret           string
	NatsURL             string // خالی یعنی انتشار رویداد غیرفعال
	PostsLimit          int
	ReconcileInterval   time.Duration
	ReconcileBatchSize  int
	RequestTimeout      time.Duration
}

func Init() Settings {
	// بارگذاری .env
	if err := godotenv.Load(); err != nil {
		Logger.Info("No .env file found, using system environment variables")
	}

	s := Load()

	if s.StoreBackend == BackendDatabase && s.DBDSN == "" {
		Logger.Fatal("DB_DSN is not set")
	}
	if s.RelationshipBackend == BackendRedis && s.RedisAddr == "" {
		Logger.Fatal("REDIS_ADDR is not set")
	}
	if s.JWTSecret == "" {
		Logger.Fatal("JWT_SECRET is not set")
	}

	Logger.Info("Settings loaded",
		zap.String("env", s.Env),
		zap.String("store", s.StoreBackend),
		zap.String("relationships", s.RelationshipBackend),
		zap.Bool("events", s.NatsURL != ""))
	return s
}

// Load فقط متغیرها را می‌خواند و مقدار پیش‌فرض می‌گذارد؛ اعتبارسنجی در Init است
func Load() Settings {
	s := Settings{
		Env:                 getEnv("APP_ENV", "local"),
		Port:                getEnv("APP_PORT", "8080"),
		StoreBackend:        getEnv("STORE_BACKEND", BackendDatabase),
		RelationshipBackend: getEnv("RELATIONSHIP_BACKEND", BackendDatabase),
		DBDSN:               os.Getenv("DB_DSN"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		RedisDB:             getEnvInt("REDIS_DB", 0),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		NatsURL:             os.Getenv("NATS_URL"),
		PostsLimit:          getEnvInt("POSTS_LIMIT", 20),
		ReconcileInterval:   getEnvDuration("RECONCILE_INTERVAL", time.Minute),
		ReconcileBatchSize:  getEnvInt("RECONCILE_BATCH_SIZE", 100),
		RequestTimeout:      getEnvDuration("REQUEST_TIMEOUT", 5*time.Second),
	}
	if s.StoreBackend == BackendMemory {
		s.RelationshipBackend = BackendMemory
	}
	return s
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
