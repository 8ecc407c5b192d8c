// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	configPath = pflag.String("config", ".", "Directory containing config.toml")

	validLogLevels    = []string{"debug", "info", "warn", "error", "fatal"}
	validDBTypes      = []string{"sqlite", "postgres", "mongo"}
	validStorageTypes = []string{"s3", "r2", "minio"}
)

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(*configPath)

	bindEnvs()
	setDefaults()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}

		fmt.Println("[WARNING]: config.toml not found, using defaults and environment variables")
	}

	if v.GetString("jwt.secret") == "" {
		fmt.Println("WARNING: You haven't set a JWT secret, so it has been generated for you. Please set it as an environment variable or in the config.toml file.\nYour random JWT secret:\n\n" + genSecret() + "\n\nPaste it into your config.toml file.")
		os.Exit(0)
	}

	return Validate()
}

func bindEnvs() {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")
	v.BindEnv("app.name", "app_name")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.cors_origins", "host_cors_origins")

	v.BindEnv("host.ssl.enabled", "host_ssl_enabled")
	v.BindEnv("host.ssl.certificate_path", "host_ssl_certificate_path")
	v.BindEnv("host.ssl.certificate_key_path", "host_ssl_certificate_key_path")

	v.BindEnv("client.url", "client_url")

	v.BindEnv("jwt.secret", "jwt_secret")

	v.BindEnv("db.type", "db_type")
	v.BindEnv("db.path", "db_path")
	v.BindEnv("db.dsn", "db_dsn")
	v.BindEnv("db.mongo_uri", "db_mongo_uri")
	v.BindEnv("db.mongo_database", "db_mongo_database")

	v.BindEnv("storage.type", "storage_type")

	v.BindEnv("aws.access_key", "aws_access_key")
	v.BindEnv("aws.secret_access_key", "aws_secret_access_key")
	v.BindEnv("aws.region", "aws_region")
	v.BindEnv("aws.bucket", "aws_bucket")
	v.BindEnv("aws.endpoint", "aws_endpoint")
	v.BindEnv("aws.public_url", "aws_public_url")

	v.BindEnv("cloudflare.account_id", "cloudflare_account_id")
	v.BindEnv("cloudflare.access_key_id", "cloudflare_access_key_id")
	v.BindEnv("cloudflare.secret_access_key", "cloudflare_secret_access_key")
	v.BindEnv("cloudflare.bucket", "cloudflare_bucket")
	v.BindEnv("cloudflare.public_url", "cloudflare_public_url")

	v.BindEnv("cloudflare.turnstile.enabled", "cloudflare_turnstile_enabled")
	v.BindEnv("cloudflare.turnstile.secret_token", "cloudflare_turnstile_secret_token")

	v.BindEnv("minio.endpoint", "minio_endpoint")
	v.BindEnv("minio.access_key", "minio_access_key")
	v.BindEnv("minio.secret_key", "minio_secret_key")
	v.BindEnv("minio.bucket", "minio_bucket")
	v.BindEnv("minio.use_ssl", "minio_use_ssl")
	v.BindEnv("minio.public_url", "minio_public_url")

	v.BindEnv("mail.host", "mail_host")
	v.BindEnv("mail.port", "mail_port")
	v.BindEnv("mail.username", "mail_username")
	v.BindEnv("mail.password", "mail_password")
	v.BindEnv("mail.from", "mail_from")
	v.BindEnv("mail.queue_size", "mail_queue_size")
	v.BindEnv("mail.workers", "mail_workers")

	v.BindEnv("upload.max_size", "upload_max_size")
	v.BindEnv("tokens.cleanup_interval", "tokens_cleanup_interval")
	v.BindEnv("security.rate_limit", "security_rate_limit")
}

func setDefaults() {
	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.name", "Socials")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.cors_origins", []string{"http://localhost:5173"})
	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("client.url", "http://localhost:5173")

	v.SetDefault("db.type", "sqlite")
	v.SetDefault("db.path", "database.db")
	v.SetDefault("db.mongo_database", "socials")

	v.SetDefault("storage.type", "s3")
	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("minio.use_ssl", false)

	v.SetDefault("cloudflare.turnstile.enabled", false)

	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.queue_size", 100)
	v.SetDefault("mail.workers", 2)

	v.SetDefault("upload.max_size", 5)
	v.SetDefault("tokens.cleanup_interval", time.Hour)
	v.SetDefault("security.rate_limit", 5)
}

// Validate checks the loaded values. Sizes given in megabytes are converted
// to bytes on success.
func Validate() error {
	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetBool("host.ssl.enabled") {
		if v.GetString("host.ssl.certificate_path") == "" {
			return errors.New("no ssl certificate path provided")
		}

		if v.GetString("host.ssl.certificate_key_path") == "" {
			return errors.New("no ssl certificate key path provided")
		}
	}

	if v.GetString("client.url") == "" {
		return errors.New("client.url can't be empty")
	}

	if err := validateDB(); err != nil {
		return err
	}

	if err := validateStorage(); err != nil {
		return err
	}

	if v.GetString("mail.host") == "" {
		return errors.New("mail.host can't be empty")
	}

	if v.GetInt("mail.port") <= 0 {
		return errors.New("invalid mail.port provided")
	}

	if v.GetString("mail.from") == "" {
		return errors.New("mail.from can't be empty")
	}

	if v.GetInt("upload.max_size") <= 0 {
		return errors.New("upload.max_size must be bigger than 0")
	}

	if v.GetDuration("tokens.cleanup_interval") <= 0 {
		return errors.New("tokens.cleanup_interval must be bigger than 0")
	}

	if v.GetInt("security.rate_limit") < 0 {
		return errors.New("security.rate_limit can't be negative")
	}

	if !v.GetBool("cloudflare.turnstile.enabled") {
		fmt.Println("[WARNING]: Cloudflare's turnstile is disabled. Some public endpoints won't be guarded against bots")
	} else {
		if v.GetString("cloudflare.turnstile.secret_token") == "" {
			return errors.New("turnstile secret token is missing")
		}
	}

	v.Set("upload.max_size", v.GetInt64("upload.max_size")<<20)
	return nil
}

func validateDB() error {
	t := v.GetString("db.type")
	if !slices.Contains(validDBTypes, t) {
		return errors.New("invalid db type provided")
	}

	switch t {
	case "sqlite":
		if v.GetString("db.path") == "" {
			return errors.New("db.path can't be empty")
		}
	case "postgres":
		if v.GetString("db.dsn") == "" {
			return errors.New("db.dsn can't be empty")
		}
	case "mongo":
		if v.GetString("db.mongo_uri") == "" {
			return errors.New("db.mongo_uri can't be empty")
		}
		if v.GetString("db.mongo_database") == "" {
			return errors.New("db.mongo_database can't be empty")
		}
	}

	return nil
}

func validateStorage() error {
	t := v.GetString("storage.type")
	if !slices.Contains(validStorageTypes, t) {
		return errors.New("invalid storage type provided")
	}

	var required []string
	switch t {
	case "s3":
		required = []string{"aws.access_key", "aws.secret_access_key", "aws.region", "aws.bucket"}
	case "r2":
		required = []string{"cloudflare.account_id", "cloudflare.access_key_id", "cloudflare.secret_access_key", "cloudflare.bucket", "cloudflare.public_url"}
	case "minio":
		required = []string{"minio.endpoint", "minio.access_key", "minio.secret_key", "minio.bucket"}
	}

	for _, key := range required {
		if v.GetString(key) == "" {
			return fmt.Errorf("%s can't be empty", key)
		}
	}

	return nil
}
