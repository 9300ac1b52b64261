package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Server struct {
	Port          int      `yaml:"port"`
	Env           string   `yaml:"env"`
	LogLevel      string   `yaml:"log_level"`
	PageSize      int      `yaml:"page_size"`
	MaxUploadSize int64    `yaml:"max_upload_size"`
	Templates     string   `yaml:"templates"`
	CORSOrigins   []string `yaml:"cors_origins"`

	// TrustedProxies takes the client address from X-Forwarded-For and
	// X-Real-IP. Only enable it behind a proxy that overwrites them.
	TrustedProxies bool `yaml:"trusted_proxies"`
}

type DB struct {
	Driver     string `yaml:"driver"`
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Name       string `yaml:"name"`
	SSLMode    string `yaml:"sslmode"`
	Charset    string `yaml:"charset"`
	Autocommit bool   `yaml:"autocommit"`
	MinConns   int    `yaml:"minsize"`
	MaxConns   int    `yaml:"maxsize"`
}

type Session struct {
	CookieName string        `yaml:"cookie_name"`
	Secret     string        `yaml:"secret"`
	TTL        time.Duration `yaml:"ttl"`
}

type MinIO struct {
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	BucketName string `yaml:"bucket"`
	UseSSL     bool   `yaml:"use_ssl"`
	Region     string `yaml:"region"`
	PublicURL  string `yaml:"public_url"`
}

type Redis struct {
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	RateLimit int           `yaml:"rate_limit"`
	Window    time.Duration `yaml:"window"`
}

type Config struct {
	Server  Server  `yaml:"server"`
	DB      DB      `yaml:"db"`
	Session Session `yaml:"session"`
	MinIO   MinIO   `yaml:"minio"`
	Redis   Redis   `yaml:"redis"`
}

func Default() *Config {
	return &Config{
		Server: Server{
			Port:          9000,
			Env:           "development",
			LogLevel:      "info",
			PageSize:      6,
			MaxUploadSize: 10 << 20,
		},
		DB: DB{
			Driver:     "mysql",
			Host:       "127.0.0.1",
			Port:       3306,
			User:       "www-data",
			Password:   "www-data",
			Name:       "awesome",
			SSLMode:    "disable",
			Charset:    "utf8",
			Autocommit: true,
			MinConns:   1,
			MaxConns:   10,
		},
		Session: Session{
			CookieName: "awesession",
			Secret:     "Awesome",
			TTL:        24 * time.Hour,
		},
		MinIO: MinIO{
			Region: "us-east-1",
		},
		Redis: Redis{
			RateLimit: 10,
			Window:    time.Minute,
		},
	}
}

// LoadConfig layers the YAML file named by CONFIG_FILE (default config.yaml),
// a .env file and the process environment over the defaults.
func LoadConfig() (*Config, error) {
	cfg := Default()

	path := getEnv("CONFIG_FILE", "config.yaml")
	if err := cfg.mergeFile(path); err != nil {
		return nil, err
	}

	// .env is optional
	_ = godotenv.Load()

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnvAsInt("SERVER_PORT", c.Server.Port)
	c.Server.Env = getEnv("APP_ENV", c.Server.Env)
	c.Server.LogLevel = getEnv("LOG_LEVEL", c.Server.LogLevel)
	c.Server.PageSize = getEnvAsInt("PAGE_SIZE", c.Server.PageSize)
	c.Server.MaxUploadSize = int64(getEnvAsInt("MAX_UPLOAD_SIZE", int(c.Server.MaxUploadSize)))
	c.Server.Templates = getEnv("TEMPLATES_DIR", c.Server.Templates)
	c.Server.CORSOrigins = getEnvAsList("CORS_ORIGINS", c.Server.CORSOrigins)
	c.Server.TrustedProxies = getEnvBool("TRUSTED_PROXIES", c.Server.TrustedProxies)

	c.DB.Driver = getEnv("DB_DRIVER", c.DB.Driver)
	c.DB.Host = getEnv("DB_HOST", c.DB.Host)
	c.DB.Port = getEnvAsInt("DB_PORT", c.DB.Port)
	c.DB.User = getEnv("DB_USER", c.DB.User)
	c.DB.Password = getEnv("DB_PASSWORD", c.DB.Password)
	c.DB.Name = getEnv("DB_NAME", c.DB.Name)
	c.DB.SSLMode = getEnv("DB_SSLMODE", c.DB.SSLMode)
	c.DB.Charset = getEnv("DB_CHARSET", c.DB.Charset)
	c.DB.Autocommit = getEnvBool("DB_AUTOCOMMIT", c.DB.Autocommit)
	c.DB.MinConns = getEnvAsInt("DB_MINSIZE", c.DB.MinConns)
	c.DB.MaxConns = getEnvAsInt("DB_MAXSIZE", c.DB.MaxConns)

	c.Session.CookieName = getEnv("SESSION_COOKIE", c.Session.CookieName)
	c.Session.Secret = getEnv("SESSION_SECRET", c.Session.Secret)
	c.Session.TTL = parseDuration(getEnv("SESSION_TTL", ""), c.Session.TTL)

	c.MinIO.Endpoint = getEnv("MINIO_ENDPOINT", c.MinIO.Endpoint)
	c.MinIO.AccessKey = getEnv("MINIO_ACCESS_KEY", c.MinIO.AccessKey)
	c.MinIO.SecretKey = getEnv("MINIO_SECRET_KEY", c.MinIO.SecretKey)
	c.MinIO.BucketName = getEnv("MINIO_BUCKET_NAME", c.MinIO.BucketName)
	c.MinIO.UseSSL = getEnvBool("MINIO_USE_SSL", c.MinIO.UseSSL)
	c.MinIO.Region = getEnv("MINIO_REGION", c.MinIO.Region)
	c.MinIO.PublicURL = getEnv("MINIO_PUBLIC_URL", c.MinIO.PublicURL)

	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvAsInt("REDIS_DB", c.Redis.DB)
	c.Redis.RateLimit = getEnvAsInt("RATE_LIMIT", c.Redis.RateLimit)
	c.Redis.Window = parseDuration(getEnv("RATE_LIMIT_WINDOW", ""), c.Redis.Window)
}

func (c *Config) Validate() error {
	var errs []error
	if c.Session.Secret == "" {
		errs = append(errs, errors.New("session secret is empty"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("session ttl must be positive"))
	}
	if c.DB.MinConns <= 0 || c.DB.MaxConns <= 0 {
		errs = append(errs, errors.New("db pool sizes must be positive"))
	}
	if c.DB.MinConns > c.DB.MaxConns {
		errs = append(errs, fmt.Errorf("db minsize %d exceeds maxsize %d", c.DB.MinConns, c.DB.MaxConns))
	}
	if c.Server.PageSize <= 0 {
		errs = append(errs, errors.New("page size must be positive"))
	}
	return errors.Join(errs...)
}

// RedisEnabled reports whether rate limiting is backed by Redis.
func (c *Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}

// MinIOEnabled reports whether image uploads are configured.
func (c *Config) MinIOEnabled() bool {
	return c.MinIO.Endpoint != "" && c.MinIO.BucketName != ""
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated value, dropping blank items.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return duration
}
