package config

import (
	"time"

	"brickvault/internal/core/domain"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env      Env
	Minio    MinioConfig
	Upload   UploadConfig
	NATS     NATSConfig
	Database DatabaseConfig
	Server   ServerConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"localhost"`
	Port string `envconfig:"SERVER_PORT" default:"8080"`
}

type MinioConfig struct {
	Endpoint   string `envconfig:"MINIO_ENDPOINT" required:"true"`
	BucketName string `envconfig:"MINIO_BUCKET_NAME" required:"true"`
	AccessKey  string `envconfig:"MINIO_ACCESS_KEY" required:"true"`
	SecretKey  string `envconfig:"MINIO_SECRET_KEY" required:"true"`
	UseSSL     bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

// UploadConfig carries the finalize-side upload limits. Size limits are per
// file type; the lock TTL bounds how long a crashed finalize attempt can
// block a project.
type UploadConfig struct {
	InstructionMaxBytes int64         `envconfig:"UPLOAD_INSTRUCTION_MAX_BYTES" default:"52428800"` // 50MB
	ImageMaxBytes       int64         `envconfig:"UPLOAD_IMAGE_MAX_BYTES" default:"20971520"`       // 20MB
	PartsListMaxBytes   int64         `envconfig:"UPLOAD_PARTS_LIST_MAX_BYTES" default:"10485760"`  // 10MB
	RateLimitPerDay     int           `envconfig:"UPLOAD_RATE_LIMIT_PER_DAY" default:"100"`
	FinalizeLockTTL     time.Duration `envconfig:"UPLOAD_FINALIZE_LOCK_TTL" default:"5m"`
	LockSweepEvery      time.Duration `envconfig:"UPLOAD_LOCK_SWEEP_EVERY" default:"15m"`
}

// FileSizeLimit returns the configured maximum size for a file type.
func (c UploadConfig) FileSizeLimit(fileType domain.FileType) int64 {
	switch fileType {
	case domain.FileTypeInstruction:
		return c.InstructionMaxBytes
	case domain.FileTypePartsList:
		return c.PartsListMaxBytes
	default:
		return c.ImageMaxBytes
	}
}

type NATSConfig struct {
	URL        string `envconfig:"NATS_URL" required:"true"`
	ClientName string `envconfig:"NATS_CLIENT_NAME" default:"brickvault-api"`
	StreamName string `envconfig:"NATS_STREAM_NAME" required:"true"`
	Subject    string `envconfig:"NATS_SUBJECT" required:"true"`
}

type DatabaseConfig struct {
	Host           string        `envconfig:"DB_HOST" required:"true"`
	Port           int           `envconfig:"DB_PORT" default:"5432"`
	User           string        `envconfig:"DB_USER" required:"true"`
	Password       string        `envconfig:"DB_PASSWORD" required:"true"`
	Name           string        `envconfig:"DB_NAME" required:"true"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenCons    int           `envconfig:"DB_MAX_OPEN_CONS" default:"25"`
	MaxIdleCons    int           `envconfig:"DB_MAX_IDLE_CONS" default:"5"`
	ConMaxLifeTime time.Duration `envconfig:"DB_CONMAX_LIFE_TIME" default:"5m"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
