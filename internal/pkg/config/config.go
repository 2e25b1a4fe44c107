package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"loan-approval-metrics/internal/pkg/log_messages"
	"loan-approval-metrics/internal/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds server-level config
type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	LogLevel string `yaml:"level"`
}

type OtelConfig struct {
	ServiceName  string `yaml:"service_name"`
	CollectorURL string `yaml:"collector_url"`
}

// MongoDB connection config
type MongoConfig struct {
	Username              string        `yaml:"username"`
	Password              string        `yaml:"password"`
	URI                   string        `yaml:"uri"`
	DBName                string        `yaml:"db_name"`
	MaxPoolSize           uint64        `yaml:"max_pool_size"`
	MinPoolSize           uint64        `yaml:"min_pool_size"`
	MaxConnIdleMinutes    int           `yaml:"max_conn_idle_minutes"`
	ConnectTimeoutSeconds int           `yaml:"connect_timeout_seconds"`
	MaxConnIdleTime       time.Duration `yaml:"-"`
	ConnectTimeout        time.Duration `yaml:"-"`
}

// Redis connection config
type RedisConfig struct {
	Addr                  string        `yaml:"addr"`
	Password              string        `yaml:"password"`
	DB                    int           `yaml:"db"`
	EnableTLS             bool          `yaml:"enable_tls"`
	CertContent           string        `yaml:"cert_content"`
	ConnectTimeoutSeconds int           `yaml:"connect_timeout_seconds"`
	ConnectTimeout        time.Duration `yaml:"-"`
}

// Kafka connection config
type KafkaConfig struct {
	Server           string `yaml:"server"`
	MetricsTopic     string `yaml:"metrics_topic"`
	SecurityProtocol string `yaml:"security_protocol"`
	SASLMechanism    string `yaml:"sasl_mechanism"`
	SASLUsername     string `yaml:"sasl_username"`
	SASLPassword     string `yaml:"sasl_password"`
	SessionTimeoutMs int    `yaml:"session_timeout_ms"`
	ClientID         string `yaml:"client_id"`
}

type PubSubConfig struct {
	ProjectID         string `yaml:"project_id"`
	NotificationTopic string `yaml:"notification_topic"`
}

type GCSConfig struct {
	BucketName string `yaml:"bucket_name"`
	FolderName string `yaml:"folder_name"`
}

type SFTPConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	User      string `yaml:"user"`
	Password  string `yaml:"password"`
	RemoteDir string `yaml:"remote_dir"`
}

type ReportConfig struct {
	DirectoryPath string `yaml:"directory_path"`
}

type CacheConfig struct {
	AverageTTLSeconds int `yaml:"average_ttl_seconds"`
}

// AverageTTL is how long a computed average stays in Redis.
func (c CacheConfig) AverageTTL() time.Duration {
	return time.Duration(c.AverageTTLSeconds) * time.Second
}

// WorkerPoolConfig sizes the shared pool used for report jobs and partitioned averages.
type WorkerPoolConfig struct {
	Workers           int `yaml:"workers"`
	QueueSize         int `yaml:"queue_size"`
	ParallelThreshold int `yaml:"parallel_threshold"`
	Partitions        int `yaml:"partitions"`
}

// AppConfig is the main config struct that holds all configs
type AppConfig struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LogConfig        `yaml:"logging"`
	Otel       OtelConfig       `yaml:"otel"`
	Mongo      MongoConfig      `yaml:"mongo"`
	Redis      RedisConfig      `yaml:"redis"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	PubSub     PubSubConfig     `yaml:"pubsub"`
	GCS        GCSConfig        `yaml:"gcs"`
	SFTP       SFTPConfig       `yaml:"sftp"`
	Report     ReportConfig     `yaml:"report"`
	Cache      CacheConfig      `yaml:"cache"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// nolint: funlen
func assignDefaultConfigValues(cfg *AppConfig) *AppConfig {

	// server config defaults
	cfg.Server.Port = GetEnvOrDefaultAsInt("SERVER_PORT", defaultInt(cfg.Server.Port, 8080))

	// log config defaults
	cfg.Logging.LogLevel = GetEnvOrDefaultAsString("LOGGING_LEVEL", defaultString(cfg.Logging.LogLevel, "info"))

	// otel config defaults
	cfg.Otel.ServiceName = GetEnvOrDefaultAsString("SERVICE_NAME",
		defaultString(cfg.Otel.ServiceName, "loan-approval-metrics"))
	cfg.Otel.CollectorURL = GetEnvOrDefaultAsString("OTEL_URL", cfg.Otel.CollectorURL)

	// MongoDB config defaults
	cfg.Mongo.URI = GetEnvOrDefaultAsString("MONGO_URI", cfg.Mongo.URI)
	cfg.Mongo.DBName = GetEnvOrDefaultAsString("MONGO_DB_NAME", cfg.Mongo.DBName)
	cfg.Mongo.Username = GetEnvOrDefaultAsString("MONGO_USERNAME", cfg.Mongo.Username)
	cfg.Mongo.Password = GetEnvOrDefaultAsString("MONGO_PASSWORD", cfg.Mongo.Password)
	cfg.Mongo.MaxPoolSize = GetEnvOrDefaultAsUint64("MONGO_MAX_POOL_SIZE", cfg.Mongo.MaxPoolSize)
	cfg.Mongo.MinPoolSize = GetEnvOrDefaultAsUint64("MONGO_MIN_POOL_SIZE", cfg.Mongo.MinPoolSize)
	cfg.Mongo.MaxConnIdleMinutes = GetEnvOrDefaultAsInt("MONGO_MAX_CONN_IDLE_MINUTES",
		defaultInt(cfg.Mongo.MaxConnIdleMinutes, 30))
	cfg.Mongo.ConnectTimeoutSeconds = GetEnvOrDefaultAsInt("MONGO_CONNECT_TIMEOUT_SECONDS",
		defaultInt(cfg.Mongo.ConnectTimeoutSeconds, 10))
	cfg.Mongo.MaxConnIdleTime = time.Duration(cfg.Mongo.MaxConnIdleMinutes) * time.Minute
	cfg.Mongo.ConnectTimeout = time.Duration(cfg.Mongo.ConnectTimeoutSeconds) * time.Second

	// Redis config defaults
	cfg.Redis.Addr = GetEnvOrDefaultAsString("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = GetEnvOrDefaultAsString("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = GetEnvOrDefaultAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.EnableTLS = GetEnvOrDefaultAsBool("REDIS_ENABLE_TLS", cfg.Redis.EnableTLS)
	cfg.Redis.ConnectTimeoutSeconds = GetEnvOrDefaultAsInt("REDIS_CONNECT_TIMEOUT_SECONDS",
		defaultInt(cfg.Redis.ConnectTimeoutSeconds, 10))
	cfg.Redis.ConnectTimeout = time.Duration(cfg.Redis.ConnectTimeoutSeconds) * time.Second
	cfg.Redis.CertContent = GetEnvOrDefaultAsString("REDIS_TLS_CERT", cfg.Redis.CertContent)

	// Kafka config defaults
	cfg.Kafka.Server = GetEnvOrDefaultAsString("KAFKA_SERVER", cfg.Kafka.Server)
	cfg.Kafka.MetricsTopic = GetEnvOrDefaultAsString("KAFKA_METRICS_TOPIC", cfg.Kafka.MetricsTopic)
	cfg.Kafka.SecurityProtocol = GetEnvOrDefaultAsString("KAFKA_SECURITY_PROTOCOL", cfg.Kafka.SecurityProtocol)
	cfg.Kafka.SASLMechanism = GetEnvOrDefaultAsString("KAFKA_SASL_MECHANISM", cfg.Kafka.SASLMechanism)
	cfg.Kafka.SASLUsername = GetEnvOrDefaultAsString("KAFKA_SASL_USERNAME", cfg.Kafka.SASLUsername)
	cfg.Kafka.SASLPassword = GetEnvOrDefaultAsString("KAFKA_SASL_PASSWORD", cfg.Kafka.SASLPassword)
	cfg.Kafka.SessionTimeoutMs = GetEnvOrDefaultAsInt("KAFKA_SESSION_TIMEOUT_MS",
		defaultInt(cfg.Kafka.SessionTimeoutMs, 15000))
	cfg.Kafka.ClientID = GetEnvOrDefaultAsString("KAFKA_CLIENT_ID", cfg.Kafka.ClientID)

	// PubSub config defaults
	cfg.PubSub.ProjectID = GetEnvOrDefaultAsString("PROJECT_ID", cfg.PubSub.ProjectID)
	cfg.PubSub.NotificationTopic = GetEnvOrDefaultAsString("PUBSUB_NOTIFICATION_TOPIC",
		cfg.PubSub.NotificationTopic)

	// GCS config defaults
	cfg.GCS.BucketName = GetEnvOrDefaultAsString("GCS_BUCKET_NAME", cfg.GCS.BucketName)
	cfg.GCS.FolderName = GetEnvOrDefaultAsString("GCS_FOLDER_NAME",
		defaultString(cfg.GCS.FolderName, "approvalTimeReport"))

	// SFTP config defaults
	cfg.SFTP.Enabled = GetEnvOrDefaultAsBool("SFTP_ENABLED", cfg.SFTP.Enabled)
	cfg.SFTP.Host = GetEnvOrDefaultAsString("SFTP_HOST", cfg.SFTP.Host)
	cfg.SFTP.Port = GetEnvOrDefaultAsInt("SFTP_PORT", defaultInt(cfg.SFTP.Port, 22))
	cfg.SFTP.User = GetEnvOrDefaultAsString("SFTP_USER", cfg.SFTP.User)
	cfg.SFTP.Password = GetEnvOrDefaultAsString("SFTP_PASSWORD", cfg.SFTP.Password)
	cfg.SFTP.RemoteDir = GetEnvOrDefaultAsString("SFTP_REMOTE_DIR", defaultString(cfg.SFTP.RemoteDir, "/upload/reports"))

	// Report config defaults
	cfg.Report.DirectoryPath = GetEnvOrDefaultAsString("REPORT_DIRECTORY_PATH",
		defaultString(cfg.Report.DirectoryPath, "/tmp/approvalTimeReport"))

	// Cache config defaults
	cfg.Cache.AverageTTLSeconds = GetEnvOrDefaultAsInt("CACHE_AVERAGE_TTL_SECONDS",
		defaultInt(cfg.Cache.AverageTTLSeconds, 300))

	// Worker pool defaults
	cfg.WorkerPool.Workers = GetEnvOrDefaultAsInt("WORKER_POOL", defaultInt(cfg.WorkerPool.Workers, 5))
	cfg.WorkerPool.QueueSize = GetEnvOrDefaultAsInt("WORKER_QUEUE_SIZE", defaultInt(cfg.WorkerPool.QueueSize, 100))
	cfg.WorkerPool.ParallelThreshold = GetEnvOrDefaultAsInt("PARALLEL_THRESHOLD",
		defaultInt(cfg.WorkerPool.ParallelThreshold, 50000))
	cfg.WorkerPool.Partitions = GetEnvOrDefaultAsInt("PARALLEL_PARTITIONS", defaultInt(cfg.WorkerPool.Partitions, 4))

	return cfg
}

// LoadFromConfigFilePath loads and parses config file into AppConfig
func LoadFromConfigFilePath(configPath string) (*AppConfig, error) {

	// #nosec G304: configPath comes from the deployment environment
	data, err := os.ReadFile(configPath)
	if err != nil {
		logger.Error("Failed to read config file", err, zap.String("path", configPath))
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Error("Failed to unmarshal config", err)
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	defaultCfg := assignDefaultConfigValues(&cfg)

	if err := validateConfig(defaultCfg); err != nil {
		logger.Error("Config validation failed", err)
		return nil, err
	}

	logger.Info(log_messages.ConfigurationLoaded, zap.String("path", configPath))

	return defaultCfg, nil
}

// LoadFromConfig loads the optional .env file and then the config file named by CONFIG_PATH.
func LoadFromConfig() (*AppConfig, error) {
	envFile := GetEnvOrDefaultAsString("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
		logger.Debug(log_messages.EnvFileNotLoaded, zap.String("path", envFile))
	}

	configPath := GetEnvOrDefaultAsString("CONFIG_PATH", "configs/config.yaml")

	cfg, err := LoadFromConfigFilePath(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	return cfg, nil
}

func validateConfig(cfg *AppConfig) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", cfg.Server.Port)
	}
	if err := validateMongoConfig(cfg.Mongo); err != nil {
		return err
	}
	if err := validateKafkaConfig(cfg.Kafka); err != nil {
		return err
	}
	if err := validateSFTPConfig(cfg.SFTP); err != nil {
		return err
	}
	if err := validateWorkerPoolConfig(cfg.WorkerPool); err != nil {
		return err
	}
	if cfg.Cache.AverageTTLSeconds <= 0 {
		return fmt.Errorf("cache.average_ttl_seconds must be positive, got %d", cfg.Cache.AverageTTLSeconds)
	}
	return nil
}

func validateMongoConfig(mongo MongoConfig) error {
	if mongo.URI == "" {
		return fmt.Errorf("mongo.uri is required")
	}
	if mongo.DBName == "" {
		return fmt.Errorf("mongo.db_name is required")
	}
	if mongo.MaxPoolSize == 0 {
		return fmt.Errorf("mongo.max_pool_size must be positive")
	}
	if mongo.MinPoolSize > mongo.MaxPoolSize {
		return fmt.Errorf(
			"mongo.min_pool_size (%d) must not exceed mongo.max_pool_size (%d)",
			mongo.MinPoolSize,
			mongo.MaxPoolSize,
		)
	}
	return nil
}

func validateKafkaConfig(kafka KafkaConfig) error {
	if kafka.SessionTimeoutMs < 6000 || kafka.SessionTimeoutMs > 45000 {
		return fmt.Errorf(
			"kafka.session_timeout_ms must be between 6000 and 45000 ms, got %d",
			kafka.SessionTimeoutMs,
		)
	}
	return nil
}

func validateSFTPConfig(sftp SFTPConfig) error {
	if !sftp.Enabled {
		return nil
	}
	if sftp.Host == "" || sftp.User == "" {
		return fmt.Errorf("sftp.host and sftp.user are required when sftp.enabled is true")
	}
	if sftp.Port < 1 || sftp.Port > 65535 {
		return fmt.Errorf("sftp.port must be between 1 and 65535, got %d", sftp.Port)
	}
	return nil
}

func validateWorkerPoolConfig(pool WorkerPoolConfig) error {
	if pool.Workers < 1 || pool.Workers > 64 {
		return fmt.Errorf("worker_pool.workers must be between 1 and 64, got %d", pool.Workers)
	}
	if pool.QueueSize < 0 {
		return fmt.Errorf("worker_pool.queue_size must not be negative, got %d", pool.QueueSize)
	}
	if pool.Partitions < 1 {
		return fmt.Errorf("worker_pool.partitions must be at least 1, got %d", pool.Partitions)
	}
	return nil
}

// GetEnvOrDefaultAsInt returns the value of the given env variable
// as an int or the default value if not set or invalid.
func GetEnvOrDefaultAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseInt(strings.TrimSpace(valueStr), 10, 64)
	if err != nil {
		return defaultValue
	}
	return int(value)
}

// GetEnvOrDefaultAsUint64 returns the value of the env variable
// as uint64 or the default value if not set or invalid.
func GetEnvOrDefaultAsUint64(key string, defaultValue uint64) uint64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseUint(strings.TrimSpace(valueStr), 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// GetEnvOrDefaultAsBool accepts anything strconv.ParseBool does.
func GetEnvOrDefaultAsBool(key string, defaultValue bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseBool(strings.TrimSpace(valueStr))
	if err != nil {
		return defaultValue
	}
	return value
}

func GetEnvOrDefaultAsString(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		if strings.TrimSpace(val) != "" {
			return val
		}
	}
	return defaultVal
}

func defaultInt(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
