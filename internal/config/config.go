package config

import (
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Host        string `mapstructure:"HOST"`
	Port        string `mapstructure:"PORT"`
	GinMode     string `mapstructure:"GIN_MODE"`
	Environment string `mapstructure:"ENVIRONMENT"`

	// Database
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis (optional; ingestion status tracking degrades to in-memory)
	RedisURL string `mapstructure:"REDIS_URL"`

	// JWT
	JWTSecret            string `mapstructure:"JWT_SECRET"`
	AccessTokenExpireMin int    `mapstructure:"ACCESS_TOKEN_EXPIRE_MINUTES"`

	// OpenAI-compatible APIs
	OpenAIAPIKey        string `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL       string `mapstructure:"OPENAI_BASE_URL"`
	EmbeddingModel      string `mapstructure:"OPENAI_EMBEDDING_MODEL"`
	EmbeddingDimensions int    `mapstructure:"EMBEDDING_DIMENSIONS"`
	ChatModel           string `mapstructure:"CHAT_MODEL"`

	// Vector index
	CollectionName string `mapstructure:"COLLECTION_NAME"`
	ChunkSize      int    `mapstructure:"CHUNK_SIZE"`
	ChunkOverlap   int    `mapstructure:"CHUNK_OVERLAP"`

	// File storage
	StoragePath   string `mapstructure:"STORAGE_PATH"`
	MaxUploadSize int64  `mapstructure:"MAX_UPLOAD_SIZE"`
	S3Bucket      string `mapstructure:"S3_BUCKET_NAME"`
	AWSRegion     string `mapstructure:"AWS_REGION"`
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("HOST", "0.0.0.0")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GIN_MODE", "release")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DATABASE_URL", "postgres://localhost:5432/cleary_chat?sslmode=disable")
	viper.SetDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 60)
	viper.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	viper.SetDefault("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small")
	viper.SetDefault("EMBEDDING_DIMENSIONS", 1536)
	viper.SetDefault("CHAT_MODEL", "gpt-4o")
	viper.SetDefault("COLLECTION_NAME", "documents")
	viper.SetDefault("CHUNK_SIZE", 500)
	viper.SetDefault("CHUNK_OVERLAP", 50)
	viper.SetDefault("STORAGE_PATH", "./storage")
	viper.SetDefault("MAX_UPLOAD_SIZE", 50*1024*1024)
	viper.SetDefault("AWS_REGION", "us-west-2")

	_ = viper.ReadInConfig()

	for _, key := range []string{
		"HOST", "PORT", "GIN_MODE", "ENVIRONMENT", "DATABASE_URL", "REDIS_URL",
		"JWT_SECRET", "ACCESS_TOKEN_EXPIRE_MINUTES",
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_EMBEDDING_MODEL",
		"EMBEDDING_DIMENSIONS", "CHAT_MODEL", "COLLECTION_NAME",
		"CHUNK_SIZE", "CHUNK_OVERLAP",
		"STORAGE_PATH", "MAX_UPLOAD_SIZE", "S3_BUCKET_NAME", "AWS_REGION",
	} {
		if val := os.Getenv(key); val != "" {
			viper.Set(key, val)
		}
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
