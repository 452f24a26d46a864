package config

import (
	"context"
	"readafrik-checkout/internal/common/enum"
	database "readafrik-checkout/internal/pkg/db"
	"readafrik-checkout/internal/pkg/paystack"
	"readafrik-checkout/internal/pkg/rabbitmq"
	"readafrik-checkout/internal/pkg/redis"
	s3aws "readafrik-checkout/internal/pkg/storage/s3"
	"sync"
)

// Config holds all application configuration loaded from environment variables.
// An empty DB_HOST, REDIS_HOST or RABBIT_HOST disables that dependency.
type Config struct {
	AppEnv             enum.EnvEnum `env:"APP_ENV" envDefault:"development"`
	AppPort            int          `env:"APP_PORT" envDefault:"8080"`
	AppBaseURL         string       `env:"APP_BASE_URL" envDefault:"http://localhost:3000"`
	CorsAllowedOrigins string       `env:"CORS_ALLOWED_ORIGINS" envDefault:""`
	RateLimitRPS       int          `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst     int          `env:"RATE_LIMIT_BURST" envDefault:"20"`

	PaystackSecretKey      string `env:"PAYSTACK_SECRET_KEY" envDefault:""`
	PaystackPublicKey      string `env:"PAYSTACK_PUBLIC_KEY" envDefault:""`
	PaystackBaseURL        string `env:"PAYSTACK_BASE_URL" envDefault:"https://api.paystack.co"`
	PaystackTimeoutSeconds int    `env:"PAYSTACK_TIMEOUT_SECONDS" envDefault:"30"`
	PaymentCurrency        string `env:"PAYMENT_CURRENCY" envDefault:"NGN"`

	AdminEmail           string                `env:"ADMIN_EMAIL" envDefault:""`
	EmailService         enum.EmailServiceEnum `env:"EMAIL_SERVICE" envDefault:"console"`
	EmailFrom            string                `env:"EMAIL_FROM" envDefault:"ReadAfrik <noreply@readafrik.com>"`
	ResendAPIKey         string                `env:"RESEND_API_KEY" envDefault:""`
	SMTPHost             string                `env:"SMTP_HOST" envDefault:""`
	SMTPPort             int                   `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser             string                `env:"SMTP_USER" envDefault:""`
	SMTPPass             string                `env:"SMTP_PASS" envDefault:""`
	SMTPSecure           bool                  `env:"SMTP_SECURE" envDefault:"false"`
	EmailQueueEnabled    bool                  `env:"EMAIL_QUEUE_ENABLED" envDefault:"false"`
	NotifyDedupe         bool                  `env:"NOTIFY_DEDUPE" envDefault:"true"`
	NotifyDedupeTTLHours int                   `env:"NOTIFY_DEDUPE_TTL_HOURS" envDefault:"168"`
	SideEffectTimeoutSec int                   `env:"SIDE_EFFECT_TIMEOUT_SECONDS" envDefault:"30"`

	DBDriver          string `env:"DB_DRIVER" envDefault:"postgres"`
	DBHost            string `env:"DB_HOST" envDefault:"localhost"`
	DBPort            int    `env:"DB_PORT" envDefault:"5432"`
	DBUser            string `env:"DB_USER" envDefault:"postgres"`
	DBPass            string `env:"DB_PASS" envDefault:""`
	DBName            string `env:"DB_NAME" envDefault:"postgres"`
	DBSSLMode         string `env:"DB_SSLMODE" envDefault:"disable"`
	DBCache           bool   `env:"DB_CACHE" envDefault:"false"`
	DBCacheTTLSeconds int    `env:"DB_CACHE_TTL_SECONDS" envDefault:"300"`

	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisUser     string `env:"REDIS_USER" envDefault:""`
	RedisPass     string `env:"REDIS_PASS" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`

	RabbitHost  string `env:"RABBIT_HOST" envDefault:"localhost"`
	RabbitPort  int    `env:"RABBIT_PORT" envDefault:"5672"`
	RabbitUser  string `env:"RABBIT_USER" envDefault:"guest"`
	RabbitPass  string `env:"RABBIT_PASS" envDefault:"guest"`
	RabbitVHost string `env:"RABBIT_VHOST" envDefault:""`

	JWTSecret      string `env:"JWT_SECRET" envDefault:""`
	JWTExpiryHours int    `env:"JWT_EXPIRY_HOURS" envDefault:"24"`

	AWSRegion          string `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" envDefault:""`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" envDefault:""`
	AWSEndpoint        string `env:"AWS_ENDPOINT" envDefault:""`
	AWSBucketName      string `env:"AWS_BUCKET_NAME" envDefault:""`
}

// SetupServerDto contains dependencies for server setup. Db, Rds, Rb and S3
// are nil when the matching dependency is disabled.
type SetupServerDto struct {
	Ctx      *context.Context
	Cancel   context.CancelFunc
	Wg       *sync.WaitGroup
	Env      *Config
	Db       *database.Database
	Rds      *redis.Client
	Rb       *rabbitmq.ConnectionManager
	S3       s3aws.Is3
	Paystack *paystack.Client
}
