package types

type RunMode string

const (
	// ModeLocal runs the API server with local defaults
	ModeLocal RunMode = "local"
	// ModeAPI is the mode for running just the API server
	ModeAPI RunMode = "api"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// StorageBackend selects the durable key/value store behind the template and branding repositories
type StorageBackend string

const (
	StorageBackendMemory   StorageBackend = "memory"
	StorageBackendFile     StorageBackend = "file"
	StorageBackendPostgres StorageBackend = "postgres"
	StorageBackendRedis    StorageBackend = "redis"
	StorageBackendS3       StorageBackend = "s3"
	StorageBackendDynamoDB StorageBackend = "dynamodb"
)

// ProviderKind selects the document data provider implementation
type ProviderKind string

const (
	ProviderKindSample ProviderKind = "sample"
	ProviderKindHTTP   ProviderKind = "http"
)
