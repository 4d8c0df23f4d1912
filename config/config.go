// Package config loads engine configuration from YAML, with a .env
// file applied to the environment first.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"logging"`
	Server struct {
		GRPCAddr    string `yaml:"grpc_addr"`
		MetricsAddr string `yaml:"metrics_addr"`
	} `yaml:"server"`
	Feed struct {
		// Exactly one source drives the book: a Kafka topic, a
		// websocket URL, or a local file replayed at startup.
		Source string `yaml:"source"` // kafka | ws | file
		WSURL  string `yaml:"ws_url"`
		File   string `yaml:"file"`
	} `yaml:"feed"`
	Kafka struct {
		Brokers       []string `yaml:"brokers"`
		EventsTopic   string   `yaml:"events_topic"`
		SnapshotTopic string   `yaml:"snapshot_topic"`
		GroupID       string   `yaml:"group_id"`
	} `yaml:"kafka"`
	Snapshot struct {
		Dir             string `yaml:"dir"`
		IntervalSeconds int    `yaml:"interval_seconds"`
		Publish         bool   `yaml:"publish"`
	} `yaml:"snapshot"`
}

func defaultConfig() Config {
	var c Config
	c.Logging.Level = "info"
	c.Logging.Pretty = false
	c.Server.GRPCAddr = ":50051"
	c.Server.MetricsAddr = ":9090"
	c.Feed.Source = "kafka"
	c.Kafka.Brokers = []string{"localhost:9092"}
	c.Kafka.EventsTopic = "mbo.events"
	c.Kafka.SnapshotTopic = "mbp.snapshots"
	c.Kafka.GroupID = "rainybook"
	c.Snapshot.Dir = "./snapshots"
	c.Snapshot.IntervalSeconds = 2
	c.Snapshot.Publish = false
	return c
}

// Load reads the YAML file at path on top of the defaults. An empty
// path yields the defaults. A .env file in the working directory is
// loaded into the environment first, if present.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Feed.Source {
	case "kafka":
		if len(c.Kafka.Brokers) == 0 || c.Kafka.EventsTopic == "" {
			return fmt.Errorf("kafka feed requires brokers and events_topic")
		}
	case "ws":
		if c.Feed.WSURL == "" {
			return fmt.Errorf("ws feed requires ws_url")
		}
	case "file":
		if c.Feed.File == "" {
			return fmt.Errorf("file feed requires file")
		}
	default:
		return fmt.Errorf("unknown feed source %q", c.Feed.Source)
	}
	if c.Snapshot.IntervalSeconds <= 0 {
		return fmt.Errorf("snapshot interval must be positive")
	}
	return nil
}
