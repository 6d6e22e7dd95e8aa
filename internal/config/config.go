package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"princip-gym/internal/pkg/logger"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode    string
	Port       string
	AppURL     string
	CronSecret string
	Database   DatabaseConfig
	JWT        JWTConfig
	Cookie     CookieConfig
	Redis      RedisConfig
	SMTP       SMTPConfig
	Schedule   ScheduleConfig
	Admin      AdminSeedConfig
	Log        logger.Config
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver     string // mysql | sqlite
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SQLitePath string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	AccessTokenMins  int
	RefreshTokenDays int
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// RedisConfig holds the token denylist store. Empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SMTPConfig holds outgoing mail settings. Empty Host disables mail.
type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// ScheduleConfig holds cron specs for background jobs
type ScheduleConfig struct {
	ExpireSpec   string
	ReminderSpec string
	ReminderDays int
}

// AdminSeedConfig holds the bootstrap admin account
type AdminSeedConfig struct {
	Email    string
	Password string
	Name     string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:    appMode,
		Port:       getEnv("PORT", "3000"),
		AppURL:     strings.TrimRight(getEnv("APP_URL", "http://localhost:3000"), "/"),
		CronSecret: getEnv("CRON_SECRET", ""),
		Database:   loadDatabaseConfig(appMode),
		JWT:        loadJWTConfig(appMode),
		Cookie:     loadCookieConfig(appMode),
		Redis:      loadRedisConfig(),
		SMTP:       loadSMTPConfig(),
		Schedule:   loadScheduleConfig(),
		Admin:      loadAdminSeedConfig(),
		Log:        loadLogConfig(appMode),
	}

	if config.IsProd() && config.CronSecret == "" {
		return nil, fmt.Errorf("CRON_SECRET is required in prod mode")
	}

	AppConfig = config

	log.Printf("Configuration loaded [MODE: %s, DB: %s]", appMode, config.Database.Driver)
	return config, nil
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := modePrefix(mode)

	return DatabaseConfig{
		Driver:     strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		Host:       getEnv(prefix+"DB_HOST", "localhost"),
		Port:       getEnv(prefix+"DB_PORT", "3306"),
		User:       getEnv(prefix+"DB_USER", "root"),
		Password:   getEnv(prefix+"DB_PASS", ""),
		DBName:     getEnv(prefix+"DB_NAME", "princip_gym"),
		SQLitePath: getEnv("SQLITE_PATH", "princip-gym.db"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := modePrefix(mode)

	return JWTConfig{
		Secret:           getEnv(prefix+"JWT_SECRET", "default_secret"),
		RefreshSecret:    getEnv(prefix+"JWT_REFRESH_SECRET", "default_refresh_secret"),
		AccessTokenMins:  getEnvInt("ACCESS_TOKEN_MINUTES", 15),
		RefreshTokenDays: getEnvInt("REFRESH_TOKEN_DAYS", 7),
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	secure, _ := strconv.ParseBool(getEnv(modePrefix(mode)+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}
}

func loadSMTPConfig() SMTPConfig {
	return SMTPConfig{
		Host: getEnv("SMTP_HOST", ""),
		Port: getEnv("SMTP_PORT", "587"),
		User: getEnv("SMTP_USER", ""),
		Pass: getEnv("SMTP_PASS", ""),
		From: getEnv("SMTP_FROM", "Princip Gym <no-reply@principgym.rs>"),
	}
}

func loadScheduleConfig() ScheduleConfig {
	return ScheduleConfig{
		ExpireSpec:   getEnv("EXPIRE_CRON", "@every 1h"),
		ReminderSpec: getEnv("REMINDER_CRON", "0 9 * * *"),
		ReminderDays: getEnvInt("REMINDER_DAYS", 3),
	}
}

func loadAdminSeedConfig() AdminSeedConfig {
	return AdminSeedConfig{
		Email:    strings.ToLower(strings.TrimSpace(getEnv("ADMIN_EMAIL", ""))),
		Password: getEnv("ADMIN_PASSWORD", ""),
		Name:     getEnv("ADMIN_NAME", "Administrator"),
	}
}

func loadLogConfig(mode string) logger.Config {
	level := "info"
	if mode == "dev" {
		level = "debug"
	}
	compress, _ := strconv.ParseBool(getEnv("LOG_COMPRESS", "true"))

	return logger.Config{
		Level:      getEnv("LOG_LEVEL", level),
		Filename:   getEnv("LOG_FILENAME", "logs/princip-gym.log"),
		MaxSize:    getEnvInt("LOG_MAX_SIZE", 50),
		MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		MaxAge:     getEnvInt("LOG_MAX_AGE", 30),
		Compress:   compress,
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return c.AppURL
	}
	return origins
}
