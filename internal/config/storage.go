package config

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/printstudio/docengine/internal/types"
)

type StorageConfig struct {
	Backend  types.StorageBackend `mapstructure:"backend" validate:"required,oneof=memory file postgres redis s3 dynamodb"`
	File     FileStorageConfig    `mapstructure:"file"`
	Postgres PostgresConfig       `mapstructure:"postgres"`
	Redis    RedisConfig          `mapstructure:"redis"`
	S3       S3Config             `mapstructure:"s3"`
	DynamoDB DynamoDBConfig       `mapstructure:"dynamodb"`
	// FlushRetryMaxElapsed bounds the async flush retries of one snapshot
	FlushRetryMaxElapsed time.Duration `mapstructure:"flush_retry_max_elapsed"`
}

type FileStorageConfig struct {
	Dir string `mapstructure:"dir"`
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	Table    string
	// MaxOpenConns caps the pool, 0 keeps the driver default
	MaxOpenConns int `mapstructure:"max_open_conns"`
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}

type RedisConfig struct {
	Address   string `mapstructure:"address"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// AWSConfig is shared by the AWS backed stores. Endpoint points the client at
// a local emulator such as localstack and is left empty in production.
type AWSConfig struct {
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"`
}

// Load resolves credentials through the default chain
func (c AWSConfig) Load(ctx context.Context) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if c.Region != "" {
		opts = append(opts, awsconfig.WithRegion(c.Region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, err
	}
	if c.Endpoint != "" {
		cfg.BaseEndpoint = aws.String(c.Endpoint)
	}
	return cfg, nil
}

type S3Config struct {
	AWSConfig `mapstructure:",squash"`
	Bucket    string `mapstructure:"bucket"`
	KeyPrefix string `mapstructure:"key_prefix"`
	// UsePathStyle is required by most S3 emulators
	UsePathStyle bool `mapstructure:"use_path_style"`
}

type DynamoDBConfig struct {
	AWSConfig `mapstructure:",squash"`
	TableName string `mapstructure:"table_name"`
}
