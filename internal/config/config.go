package config

import (
	"time"

	"github.com/maxviazov/lexico-users/internal/logger"
)

// Config is the root configuration tree shared by every command.
type Config struct {
	App      AppConfig           `mapstructure:"app"`
	Logger   logger.LoggerConfig `mapstructure:"logger" validate:"-"`
	Store    StoreConfig         `mapstructure:"store"`
	Mongo    MongoConfig         `mapstructure:"mongo"`
	Postgres PostgresConfig      `mapstructure:"postgres"`
	Redis    RedisConfig         `mapstructure:"redis"`
	Server   ServerConfig        `mapstructure:"server"`
	Ingest   IngestConfig        `mapstructure:"ingest"`
	Reader   ReaderConfig        `mapstructure:"reader"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env"`
}

// StoreConfig selects the record store backend.
type StoreConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=mongo postgres memory"`
}

type MongoConfig struct {
	URI                    string        `mapstructure:"uri" validate:"required"`
	Database               string        `mapstructure:"database" validate:"required"`
	Collection             string        `mapstructure:"collection" validate:"required"`
	ConnectTimeout         time.Duration `mapstructure:"connect_timeout"`
	SocketTimeout          time.Duration `mapstructure:"socket_timeout"`
	ServerSelectionTimeout time.Duration `mapstructure:"server_selection_timeout"`
	MaxPoolSize            uint64        `mapstructure:"max_pool_size"`
	MinPoolSize            uint64        `mapstructure:"min_pool_size"`
}

type PostgresConfig struct {
	Host              string `mapstructure:"host"`
	Port              int    `mapstructure:"port"`
	User              string `mapstructure:"user"`
	Password          string `mapstructure:"password"`
	DBName            string `mapstructure:"db"`
	SSLMode           string `mapstructure:"sslmode"`
	MaxConns          int32  `mapstructure:"max_conns"`
	MinConns          int32  `mapstructure:"min_conns"`
	MaxConnLifetime   int    `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   int    `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod int    `mapstructure:"health_check_period"`
}

// RedisConfig controls the optional page cache in front of the store.
type RedisConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Addr      string        `mapstructure:"addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	TTL       time.Duration `mapstructure:"ttl"`
	KeyPrefix string        `mapstructure:"key_prefix"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// IngestConfig drives the seed command. Count is the single named bound for
// generated keys: records 1..Count are submitted.
type IngestConfig struct {
	Endpoint       string        `mapstructure:"endpoint" validate:"required,url"`
	Count          int64         `mapstructure:"count" validate:"min=0"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type ReaderConfig struct {
	Page     int `mapstructure:"page" validate:"min=1"`
	PageSize int `mapstructure:"page_size" validate:"min=1"`
}
