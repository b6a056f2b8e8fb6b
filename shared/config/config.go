package config

import (
	"fmt"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	JwtTTL        time.Duration `yaml:"jwt_ttl" validate:"required"`
	SecureCookies bool          `yaml:"secure_cookies"`
	LogLevel      string        `yaml:"log_level"`
	LogJSON       bool          `yaml:"log_json"`

	ApiBaseURL     string   `yaml:"api_base_url"`
	AllowedOrigins []string `yaml:"allowed_origins"`

	PasswordMinLen int `yaml:"password_min_len" validate:"required,min=6"`

	ProfileFetchMaxAttempts int           `yaml:"profile_fetch_max_attempts" validate:"required,min=1"`
	ProfileFetchRetryDelay  time.Duration `yaml:"profile_fetch_retry_delay"`
	SessionIdleTimeout      time.Duration `yaml:"session_idle_timeout"`
	ProfileMaxAge           time.Duration `yaml:"profile_max_age"` // a signed-in page view older than this refetches the profile

	DonorCacheTTL  time.Duration `yaml:"donor_cache_ttl"`
	BanCacheUpdate time.Duration `yaml:"ban_cache_update_interval"` // how often the auth middleware refreshes banned users
}

type Pg struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"required"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname" validate:"required"`
}

type Email struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	SenderName string `yaml:"sender_name"`
}

// Enabled reports whether outgoing mail is configured at all.
func (e Email) Enabled() bool {
	return e.SMTPServer != "" && e.SMTPPort != 0
}

type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Private struct {
	JwtKey string `yaml:"jwt_key" validate:"required"`
	Pg     Pg     `yaml:"pg"`
	Email  Email  `yaml:"email"`
	Redis  Redis  `yaml:"redis"`
}

func (s *Config) JwtKey() string {
	return s.Private.JwtKey
}

func (s *Config) JwtTTL() time.Duration {
	return s.Public.JwtTTL
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file: " + configPath)
	}

	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic(fmt.Sprintf("can't unmarshal config file %s: %v", configPath, err))
	}
}

// applyEnv lets secrets come from the environment (or a .env file) instead of private.yaml.
func applyEnv(private *Private) {
	if v := os.Getenv("JWT_SECRET"); v != "" {
		private.JwtKey = v
	}
	if v := os.Getenv("PG_HOST"); v != "" {
		private.Pg.Host = v
	}
	if v := os.Getenv("PG_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			private.Pg.Port = port
		}
	}
	if v := os.Getenv("PG_PASSWORD"); v != "" {
		private.Pg.Password = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		private.Email.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		private.Redis.Addr = v
	}
}

func setDefaults(public *Public) {
	if public.LogLevel == "" {
		public.LogLevel = "info"
	}
	if public.ProfileFetchRetryDelay == 0 {
		public.ProfileFetchRetryDelay = 500 * time.Millisecond
	}
	if public.ProfileMaxAge == 0 {
		public.ProfileMaxAge = 10 * time.Second
	}
	if public.SessionIdleTimeout == 0 {
		public.SessionIdleTimeout = 30 * time.Minute
	}
	if public.DonorCacheTTL == 0 {
		public.DonorCacheTTL = time.Minute
	}
	if public.BanCacheUpdate == 0 {
		public.BanCacheUpdate = time.Minute
	}
}

// MustLoad reads public.yaml and private.yaml from configFolder and panics on
// anything missing or invalid.
func MustLoad(configFolder string) *Config {
	_ = godotenv.Load() // .env is optional

	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)
	applyEnv(&private)
	setDefaults(&public)

	cfg := &Config{Public: public, Private: private}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		panic(fmt.Sprintf("invalid config: %v", err))
	}
	return cfg
}
