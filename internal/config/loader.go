package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from an optional YAML file, a local .env file and
// APP_* environment variables, in increasing order of precedence.
// An empty path skips the file and relies on defaults and environment.
func Load(path string) (*Config, error) {
	// .env is a convenience for local runs; its absence is normal.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation error: %w", err)
	}
	if c.Store.Driver == "postgres" {
		var missing []string
		if c.Postgres.User == "" {
			missing = append(missing, "postgres.user")
		}
		if c.Postgres.Password == "" {
			missing = append(missing, "postgres.password")
		}
		if c.Postgres.DBName == "" {
			missing = append(missing, "postgres.db")
		}
		if len(missing) > 0 {
			return errors.New("config validation error: missing " + strings.Join(missing, ", "))
		}
	}
	return nil
}

// setDefaults registers every key so AutomaticEnv can override it even when
// the YAML file leaves it out.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "lexico-users")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.env", "dev")

	v.SetDefault("logger.level", "")
	v.SetDefault("logger.format", "")
	v.SetDefault("logger.output_target", "")
	v.SetDefault("logger.time_field", "")
	v.SetDefault("logger.time_format", "")
	v.SetDefault("logger.service_name", "lexico-users")
	v.SetDefault("logger.service_version", "")
	v.SetDefault("logger.env", "")
	v.SetDefault("logger.with_caller", false)
	v.SetDefault("logger.stacktrace", false)
	v.SetDefault("logger.stacktrace_min_level", "")

	v.SetDefault("store.driver", "mongo")

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "lexicodb")
	v.SetDefault("mongo.collection", "users")
	v.SetDefault("mongo.connect_timeout", 30*time.Second)
	v.SetDefault("mongo.socket_timeout", 30*time.Second)
	v.SetDefault("mongo.server_selection_timeout", 30*time.Second)
	v.SetDefault("mongo.max_pool_size", 10)
	v.SetDefault("mongo.min_pool_size", 1)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.db", "")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 1)
	v.SetDefault("postgres.max_conn_lifetime", 3600)
	v.SetDefault("postgres.max_conn_idle_time", 300)
	v.SetDefault("postgres.health_check_period", 30)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 5*time.Minute)
	v.SetDefault("redis.key_prefix", "lexico:")

	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("ingest.endpoint", "http://localhost:8000/api/users")
	v.SetDefault("ingest.count", 100000)
	v.SetDefault("ingest.request_timeout", 10*time.Second)

	v.SetDefault("reader.page", 1)
	v.SetDefault("reader.page_size", 100)
}
