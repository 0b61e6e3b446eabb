package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"amc-backend/internal/models"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		MetricsPort        int      `mapstructure:"metrics_port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
	} `mapstructure:"server"`

	Database struct {
		Host          string `mapstructure:"host"`
		Port          int    `mapstructure:"port"`
		User          string `mapstructure:"user"`
		Password      string `mapstructure:"password"`
		Name          string `mapstructure:"name"`
		MaxConns      int32  `mapstructure:"max_conns"`
		MigrationsDir string `mapstructure:"migrations_dir"`
	} `mapstructure:"database"`

	// Storage selects where the AMC hierarchy lives: "memory" or "postgres".
	Storage struct {
		Driver string `mapstructure:"driver"`
		Seed   bool   `mapstructure:"seed"`
	} `mapstructure:"storage"`

	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	JWT struct {
		Secret          string `mapstructure:"secret"`
		ExpirationHours int    `mapstructure:"expiration_hours"`
		Issuer          string `mapstructure:"issuer"`
	} `mapstructure:"jwt"`

	Admins []models.AdminAccount `mapstructure:"admins"`

	AMC struct {
		DefaultLogo         string `mapstructure:"default_logo"`
		DefaultPassword     string `mapstructure:"default_password"`
		Confirmation        string `mapstructure:"confirmation"` // password, shared_secret, none
		ConfirmBranchDelete bool   `mapstructure:"confirm_branch_delete"`
	} `mapstructure:"amc"`

	Upload struct {
		Backend string        `mapstructure:"backend"` // simulated or s3
		Delay   time.Duration `mapstructure:"delay"`
		Timeout time.Duration `mapstructure:"timeout"`
		S3      struct {
			Endpoint  string `mapstructure:"endpoint"`
			Region    string `mapstructure:"region"`
			Bucket    string `mapstructure:"bucket"`
			AccessKey string `mapstructure:"access_key"`
			SecretKey string `mapstructure:"secret_key"`
			Prefix    string `mapstructure:"prefix"`
		} `mapstructure:"s3"`
	} `mapstructure:"upload"`

	Notify struct {
		Buffer   int `mapstructure:"buffer"`
		FeedSize int `mapstructure:"feed_size"`
	} `mapstructure:"notify"`

	Log struct {
		Level string `mapstructure:"level"`
		JSON  bool   `mapstructure:"json"`
	} `mapstructure:"log"`
}

func Load() *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	cfg, err := LoadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("config unmarshal error: %v", err)
	}
	return cfg
}

// LoadFile reads the given YAML file (optional) on top of the defaults and environment.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)

	// Auto bind environment variables (server.port -> SERVER_PORT)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found at %s, using defaults", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(&cfg)

	if cfg.JWT.Secret == "" || cfg.JWT.Secret == "${JWT_SECRET}" {
		// Tokens do not survive a restart.
		log.Printf("[Config] JWT_SECRET not set, generating an ephemeral signing secret")
		cfg.JWT.Secret = uuid.NewString()
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Set sensible defaults (binary works without config file)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.metrics_port", 9090)
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("server.cors_allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("server.cors_allowed_headers", []string{"Authorization", "Content-Type"})
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "amc_db")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.migrations_dir", "migrations")
	v.SetDefault("storage.driver", "memory")
	v.SetDefault("redis.addr", "")
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("jwt.issuer", "amc-backend")
	v.SetDefault("amc.default_logo", "/placeholder.svg")
	v.SetDefault("amc.default_password", "12345678")
	v.SetDefault("amc.confirmation", "password")
	v.SetDefault("amc.confirm_branch_delete", false)
	v.SetDefault("upload.backend", "simulated")
	v.SetDefault("upload.delay", 1500*time.Millisecond)
	v.SetDefault("upload.timeout", 30*time.Second)
	v.SetDefault("upload.s3.region", "auto")
	v.SetDefault("upload.s3.prefix", "service-sheets")
	v.SetDefault("notify.buffer", 256)
	v.SetDefault("notify.feed_size", 100)
	v.SetDefault("log.level", "info")
}

// applyEnvOverrides keeps the DB_* / JWT_SECRET variables the deployment scripts already export.
func applyEnvOverrides(cfg *Config) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Database.Port = n
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
}

// ConfigureLogging applies the log section to the global logger.
func (c *Config) ConfigureLogging() {
	if lvl, err := log.ParseLevel(c.Log.Level); err == nil {
		log.SetLevel(lvl)
	}
	if c.Log.JSON {
		log.SetFormatter(&log.JSONFormatter{})
	}
}
