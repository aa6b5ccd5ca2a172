package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// 主配置结构 - 简化命名
type Config struct {
	App       App     `yaml:"app"`
	Server    Server  `yaml:"server"`
	Database  DB      `yaml:"database"`
	Cache     Cache   `yaml:"cache"`
	Auth      Auth    `yaml:"auth"`
	RateLimit Limit   `yaml:"rate_limit"`
	Storage   Storage `yaml:"storage"`
	Links     Links   `yaml:"links"`
	Tracing   Tracing `yaml:"tracing"`
	Log       Log     `yaml:"log"`
}

// 应用配置
type App struct {
	Name    string `yaml:"name"`
	Mode    string `yaml:"mode"`
	Version string `yaml:"version"`
}

// 服务器配置
type Server struct {
	Port         int    `yaml:"port"`
	ReadTimeout  int    `yaml:"read_timeout"`
	WriteTimeout int    `yaml:"write_timeout"`
	BaseURL      string `yaml:"base_url"` // 对外短链前缀, 如 https://q.example.com
}

// 数据库配置
type DB struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Charset  string `yaml:"charset"`
}

// 缓存配置（Redis, host 为空则整体关闭）
type Cache struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// 认证配置（服务间调用: api_key 换 JWT）
type Auth struct {
	Secret          string `yaml:"secret"`
	Issuer          string `yaml:"issuer"`
	ExpirationHours int    `yaml:"expiration_hours"`
	APIKeyHash      string `yaml:"api_key_hash"` // bcrypt 哈希, 用 cmd/tools/hashkey 生成
}

// 限流配置
type Limit struct {
	Enabled   bool     `yaml:"enabled"`
	Requests  int64    `yaml:"requests_per_minute"`
	Burst     int64    `yaml:"burst"`
	PerClient bool     `yaml:"per_client"` // 按客户端 IP 固定窗口, 需要 Redis
	SkipPaths []string `yaml:"skip_paths"`
}

// 对象存储配置
type Storage struct {
	Backend   string `yaml:"backend"` // s3 或 local
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`

	// local 后端: 本服务自签自验, 产物放本地目录
	SigningSecret string `yaml:"signing_secret"`
	ArtifactRoot  string `yaml:"artifact_root"`
}

// 短链解析时间参数, 零值取内置默认
type Links struct {
	PresignTTLSeconds    int `yaml:"presign_ttl_seconds"`
	RefreshBufferSeconds int `yaml:"refresh_buffer_seconds"`
	SafetyMarginSeconds  int `yaml:"safety_margin_seconds"`
}

// 链路追踪配置
type Tracing struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"` // OTLP gRPC 收集端, 如 localhost:4317
}

// 日志配置
type Log struct {
	Level      string `yaml:"level"`
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// 加载配置
func Load(path string) (*Config, error) {
	// .env 不存在不算错, 有就先叠加进环境
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// applyEnvOverrides 用环境变量覆盖敏感项, 密钥不进 yaml
func applyEnvOverrides(cfg *Config) {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&cfg.Database.Password, "QUOTELINK_DB_PASSWORD")
	set(&cfg.Cache.Password, "QUOTELINK_REDIS_PASSWORD")
	set(&cfg.Auth.Secret, "QUOTELINK_AUTH_SECRET")
	set(&cfg.Auth.APIKeyHash, "QUOTELINK_API_KEY_HASH")
	set(&cfg.Storage.AccessKey, "QUOTELINK_STORAGE_ACCESS_KEY")
	set(&cfg.Storage.SecretKey, "QUOTELINK_STORAGE_SECRET_KEY")
	set(&cfg.Storage.SigningSecret, "QUOTELINK_SIGNING_SECRET")
}
