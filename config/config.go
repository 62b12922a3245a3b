package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "config.yaml"

// Cfg 全局配置，启动时由 Load 填充
var Cfg Config

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	DB          DBConfig          `yaml:"db"`
	JWT         JWTConfig         `yaml:"jwt"`
	Admin       AdminConfig       `yaml:"admin"`
	Telegram    TelegramConfig    `yaml:"telegram"`
	Recommender RecommenderConfig `yaml:"recommender"`
	Model       ModelConfig       `yaml:"model"`
	OSS         OSSConfig         `yaml:"oss"`
	Milvus      MilvusConfig      `yaml:"milvus"`
	MQ          MQConfig          `yaml:"mq"`
	Stats       StatsConfig       `yaml:"stats"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DBConfig struct {
	DSN string `yaml:"dsn"`
}

type JWTConfig struct {
	SecretKey string `yaml:"secret_key"`
}

type AdminConfig struct {
	Username string `yaml:"username"`

	// bcrypt哈希，由 cmd/jwt 工具生成
	PasswordHash string `yaml:"password_hash"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
}

type RecommenderConfig struct {
	WebhookURL     string `yaml:"webhook_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type ModelConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	EmbeddingModel string `yaml:"embedding_model"`
	WhisperModel   string `yaml:"whisper_model"`
}

type OSSConfig struct {
	Region          string `yaml:"region"`
	BucketName      string `yaml:"bucket_name"`
	Host            string `yaml:"host"`
	AccessKeyID     string `yaml:"access_key_id"`
	AccessKeySecret string `yaml:"access_key_secret"`
}

type MilvusConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
}

type MQConfig struct {
	NameServer []string `yaml:"name_server"`
}

type StatsConfig struct {
	UserCap int `yaml:"user_cap"`
}

// Load 读取YAML配置文件，路径可通过 CONFIG_PATH 环境变量覆盖
func Load() error {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %v", path, err)
	}

	if err := yaml.Unmarshal(data, &Cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %v", path, err)
	}

	if Cfg.Server.Port == "" {
		Cfg.Server.Port = "8080"
	}
	if Cfg.Recommender.TimeoutSeconds <= 0 {
		Cfg.Recommender.TimeoutSeconds = 60
	}
	if Cfg.Model.WhisperModel == "" {
		Cfg.Model.WhisperModel = "whisper-1"
	}
	if Cfg.Stats.UserCap <= 0 {
		Cfg.Stats.UserCap = 50
	}

	return nil
}
