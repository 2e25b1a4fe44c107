package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var baseValidConfig = AppConfig{
	Server:  ServerConfig{Port: 8080},
	Logging: LogConfig{LogLevel: "info"},
	Mongo: MongoConfig{
		URI:                   "mongodb://localhost:27017",
		DBName:                "Loan_Prod",
		MinPoolSize:           5,
		MaxPoolSize:           20,
		MaxConnIdleMinutes:    25,
		ConnectTimeoutSeconds: 10,
	},
	Redis: RedisConfig{
		Addr:                  "localhost:6379",
		Password:              "pass",
		DB:                    1,
		ConnectTimeoutSeconds: 5,
	},
	Kafka: KafkaConfig{
		Server:           "localhost:9092",
		MetricsTopic:     "loan-approval-metrics",
		SecurityProtocol: "PLAINTEXT",
		SessionTimeoutMs: 12000,
		ClientID:         "client",
	},
	PubSub: PubSubConfig{
		ProjectID:         "pid",
		NotificationTopic: "loan-decisions",
	},
	GCS:    GCSConfig{BucketName: "reports"},
	Report: ReportConfig{DirectoryPath: "/tmp/reports"},
	Cache:  CacheConfig{AverageTTLSeconds: 300},
	WorkerPool: WorkerPoolConfig{
		Workers:           4,
		QueueSize:         10,
		ParallelThreshold: 1000,
		Partitions:        4,
	},
}

func writeTempConfig(t *testing.T, cfg AppConfig) string {
	t.Helper()
	data, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	tmp := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(tmp, data, 0o644))
	return tmp
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *AppConfig)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *AppConfig) {}},
		{name: "port zero", mutate: func(c *AppConfig) { c.Server.Port = 0 }, wantErr: true},
		{name: "port too high", mutate: func(c *AppConfig) { c.Server.Port = 70000 }, wantErr: true},
		{name: "missing mongo uri", mutate: func(c *AppConfig) { c.Mongo.URI = "" }, wantErr: true},
		{name: "missing db name", mutate: func(c *AppConfig) { c.Mongo.DBName = "" }, wantErr: true},
		{name: "zero max pool", mutate: func(c *AppConfig) { c.Mongo.MaxPoolSize = 0 }, wantErr: true},
		{name: "min pool above max", mutate: func(c *AppConfig) { c.Mongo.MinPoolSize = 50 }, wantErr: true},
		{name: "kafka session timeout too low", mutate: func(c *AppConfig) { c.Kafka.SessionTimeoutMs = 5000 }, wantErr: true},
		{name: "kafka session timeout too high", mutate: func(c *AppConfig) { c.Kafka.SessionTimeoutMs = 50000 }, wantErr: true},
		{name: "sftp enabled without host", mutate: func(c *AppConfig) {
			c.SFTP = SFTPConfig{Enabled: true, User: "u", Port: 22}
		}, wantErr: true},
		{name: "sftp enabled with bad port", mutate: func(c *AppConfig) {
			c.SFTP = SFTPConfig{Enabled: true, Host: "h", User: "u", Port: 0}
		}, wantErr: true},
		{name: "sftp enabled and complete", mutate: func(c *AppConfig) {
			c.SFTP = SFTPConfig{Enabled: true, Host: "h", User: "u", Port: 22}
		}},
		{name: "no workers", mutate: func(c *AppConfig) { c.WorkerPool.Workers = 0 }, wantErr: true},
		{name: "negative queue", mutate: func(c *AppConfig) { c.WorkerPool.QueueSize = -1 }, wantErr: true},
		{name: "no partitions", mutate: func(c *AppConfig) { c.WorkerPool.Partitions = 0 }, wantErr: true},
		{name: "zero cache ttl", mutate: func(c *AppConfig) { c.Cache.AverageTTLSeconds = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := baseValidConfig
			tt.mutate(&c)
			err := validateConfig(&c)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("INT_KEY", "42")
	assert.Equal(t, 42, GetEnvOrDefaultAsInt("INT_KEY", 5))

	t.Setenv("INT_KEY", "invalid")
	assert.Equal(t, 5, GetEnvOrDefaultAsInt("INT_KEY", 5))

	os.Unsetenv("INT_KEY")
	assert.Equal(t, 5, GetEnvOrDefaultAsInt("INT_KEY", 5))
}

func TestGetEnvAsUint64(t *testing.T) {
	t.Setenv("UINT_KEY", "64")
	assert.Equal(t, uint64(64), GetEnvOrDefaultAsUint64("UINT_KEY", 1))

	t.Setenv("UINT_KEY", "-3")
	assert.Equal(t, uint64(1), GetEnvOrDefaultAsUint64("UINT_KEY", 1))
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("BOOL_KEY", "true")
	assert.True(t, GetEnvOrDefaultAsBool("BOOL_KEY", false))

	t.Setenv("BOOL_KEY", "0")
	assert.False(t, GetEnvOrDefaultAsBool("BOOL_KEY", true))

	t.Setenv("BOOL_KEY", "maybe")
	assert.True(t, GetEnvOrDefaultAsBool("BOOL_KEY", true))
}

func TestGetEnvAsString(t *testing.T) {
	t.Setenv("STR_KEY", "value")
	assert.Equal(t, "value", GetEnvOrDefaultAsString("STR_KEY", "default"))

	t.Setenv("STR_KEY", "   ")
	assert.Equal(t, "default", GetEnvOrDefaultAsString("STR_KEY", "default"))
}

func TestLoadFromConfigFilePath(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		path := writeTempConfig(t, baseValidConfig)
		cfg, err := LoadFromConfigFilePath(path)
		require.NoError(t, err)
		assert.Equal(t, "Loan_Prod", cfg.Mongo.DBName)
		assert.Equal(t, "loan-approval-metrics", cfg.Kafka.MetricsTopic)
		assert.Equal(t, 4, cfg.WorkerPool.Workers)
		assert.Equal(t, 5*time.Minute, cfg.Cache.AverageTTL())
	})

	t.Run("env overrides file", func(t *testing.T) {
		path := writeTempConfig(t, baseValidConfig)
		t.Setenv("SERVER_PORT", "9090")
		t.Setenv("CACHE_AVERAGE_TTL_SECONDS", "60")
		t.Setenv("WORKER_POOL", "8")
		cfg, err := LoadFromConfigFilePath(path)
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, time.Minute, cfg.Cache.AverageTTL())
		assert.Equal(t, 8, cfg.WorkerPool.Workers)
	})

	t.Run("defaults fill empty sections", func(t *testing.T) {
		c := baseValidConfig
		c.WorkerPool = WorkerPoolConfig{}
		c.GCS.FolderName = ""
		path := writeTempConfig(t, c)
		cfg, err := LoadFromConfigFilePath(path)
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.WorkerPool.Workers)
		assert.Equal(t, 4, cfg.WorkerPool.Partitions)
		assert.Equal(t, "approvalTimeReport", cfg.GCS.FolderName)
	})

	t.Run("timeouts come from the file", func(t *testing.T) {
		path := writeTempConfig(t, baseValidConfig)
		cfg, err := LoadFromConfigFilePath(path)
		require.NoError(t, err)
		assert.Equal(t, 25*time.Minute, cfg.Mongo.MaxConnIdleTime)
		assert.Equal(t, 10*time.Second, cfg.Mongo.ConnectTimeout)
		assert.Equal(t, 5*time.Second, cfg.Redis.ConnectTimeout)
	})

	t.Run("timeouts default and env override", func(t *testing.T) {
		c := baseValidConfig
		c.Mongo.MaxConnIdleMinutes = 0
		c.Mongo.ConnectTimeoutSeconds = 0
		path := writeTempConfig(t, c)
		t.Setenv("REDIS_CONNECT_TIMEOUT_SECONDS", "2")
		cfg, err := LoadFromConfigFilePath(path)
		require.NoError(t, err)
		assert.Equal(t, 30*time.Minute, cfg.Mongo.MaxConnIdleTime)
		assert.Equal(t, 10*time.Second, cfg.Mongo.ConnectTimeout)
		assert.Equal(t, 2*time.Second, cfg.Redis.ConnectTimeout)
	})

	t.Run("missing file", func(t *testing.T) {
		cfg, err := LoadFromConfigFilePath(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		tmp := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(tmp, []byte("server: [port"), 0o644))
		cfg, err := LoadFromConfigFilePath(tmp)
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("fails validation", func(t *testing.T) {
		c := baseValidConfig
		c.Mongo.URI = ""
		path := writeTempConfig(t, c)
		_, err := LoadFromConfigFilePath(path)
		assert.Error(t, err)
	})
}

func TestLoadFromConfig(t *testing.T) {
	t.Run("config path and env file from env", func(t *testing.T) {
		path := writeTempConfig(t, baseValidConfig)
		envFile := filepath.Join(t.TempDir(), "test.env")
		require.NoError(t, os.WriteFile(envFile, []byte("MONGO_DB_NAME=Loan_Env\n"), 0o644))
		t.Setenv("CONFIG_PATH", path)
		t.Setenv("ENV_FILE", envFile)
		t.Cleanup(func() { os.Unsetenv("MONGO_DB_NAME") })

		cfg, err := LoadFromConfig()
		require.NoError(t, err)
		assert.Equal(t, "Loan_Env", cfg.Mongo.DBName)
	})

	t.Run("missing env file is ignored", func(t *testing.T) {
		path := writeTempConfig(t, baseValidConfig)
		t.Setenv("CONFIG_PATH", path)
		t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))

		cfg, err := LoadFromConfig()
		require.NoError(t, err)
		assert.Equal(t, "Loan_Prod", cfg.Mongo.DBName)
	})

	t.Run("missing config file", func(t *testing.T) {
		t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))
		t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
		_, err := LoadFromConfig()
		assert.Error(t, err)
	})
}
