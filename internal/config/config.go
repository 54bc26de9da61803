package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Order    OrderConfig    `yaml:"order"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Tracing  TracingConfig  `yaml:"tracing"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type OrderConfig struct {
	TxTimeout        time.Duration `yaml:"txTimeout"`
	MaxRetryAttempts int           `yaml:"maxRetryAttempts"`
}

type KafkaConfig struct {
	Brokers      []string      `yaml:"brokers"`
	Topic        string        `yaml:"topic"`
	BatchTimeout time.Duration `yaml:"batchTimeout"`
}

type TracingConfig struct {
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"serviceName"`
	Insecure    bool   `yaml:"insecure"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            3306,
			User:            "dentalab",
			Password:        "secret",
			Name:            "dentalab",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Log: LogConfig{Level: "info"},
		Order: OrderConfig{
			TxTimeout:        5 * time.Second,
			MaxRetryAttempts: 3,
		},
		Kafka: KafkaConfig{
			Topic:        "stock.movements",
			BatchTimeout: 10 * time.Millisecond,
		},
		Tracing: TracingConfig{
			ServiceName: "dentalab",
		},
	}
}

// ApplyEnv overrides cfg with any matching environment variables.
func ApplyEnv(cfg *Config) error {
	v := viper.New()
	v.AutomaticEnv()

	if v.IsSet("SERVER_PORT") {
		cfg.Server.Port = v.GetInt("SERVER_PORT")
	}
	if v.IsSet("DB_HOST") {
		cfg.Database.Host = v.GetString("DB_HOST")
	}
	if v.IsSet("DB_PORT") {
		cfg.Database.Port = v.GetInt("DB_PORT")
	}
	if v.IsSet("DB_USER") {
		cfg.Database.User = v.GetString("DB_USER")
	}
	if v.IsSet("DB_PASSWORD") {
		cfg.Database.Password = v.GetString("DB_PASSWORD")
	}
	if v.IsSet("DB_NAME") {
		cfg.Database.Name = v.GetString("DB_NAME")
	}
	if v.IsSet("DB_MAX_OPEN_CONNS") {
		cfg.Database.MaxOpenConns = v.GetInt("DB_MAX_OPEN_CONNS")
	}
	if v.IsSet("DB_MAX_IDLE_CONNS") {
		cfg.Database.MaxIdleConns = v.GetInt("DB_MAX_IDLE_CONNS")
	}
	if v.IsSet("DB_CONN_MAX_LIFETIME") {
		d, err := time.ParseDuration(v.GetString("DB_CONN_MAX_LIFETIME"))
		if err != nil {
			return err
		}
		cfg.Database.ConnMaxLifetime = d
	}
	if v.IsSet("LOG_LEVEL") {
		cfg.Log.Level = v.GetString("LOG_LEVEL")
	}
	if v.IsSet("ORDER_TX_TIMEOUT") {
		d, err := time.ParseDuration(v.GetString("ORDER_TX_TIMEOUT"))
		if err != nil {
			return err
		}
		cfg.Order.TxTimeout = d
	}
	if v.IsSet("ORDER_MAX_RETRY_ATTEMPTS") {
		cfg.Order.MaxRetryAttempts = v.GetInt("ORDER_MAX_RETRY_ATTEMPTS")
	}
	if v.IsSet("KAFKA_BROKERS") {
		cfg.Kafka.Brokers = v.GetStringSlice("KAFKA_BROKERS")
	}
	if v.IsSet("KAFKA_TOPIC") {
		cfg.Kafka.Topic = v.GetString("KAFKA_TOPIC")
	}
	if v.IsSet("OTEL_ENDPOINT") {
		cfg.Tracing.Endpoint = v.GetString("OTEL_ENDPOINT")
	}
	if v.IsSet("OTEL_INSECURE") {
		cfg.Tracing.Insecure = v.GetBool("OTEL_INSECURE")
	}

	return nil
}
