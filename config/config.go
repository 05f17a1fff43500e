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

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	validLogLevels    = []string{"debug", "info", "warn", "error", "fatal"}
	validStorageTypes = []string{"inline", "s3"}
	validDBDrivers    = []string{"sqlite", "postgres"}
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
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.domain", "host_domain")
	v.BindEnv("host.ssl.enabled", "host_ssl_enabled")

	v.BindEnv("database.driver", "database_driver")
	v.BindEnv("database.dsn", "database_dsn")

	v.BindEnv("jwt.secret", "jwt_secret")

	v.BindEnv("security.argon_memory", "security_argon_memory")
	v.BindEnv("security.argon_iterations", "security_argon_iterations")
	v.BindEnv("security.argon_parallelism", "security_argon_parallelism")

	v.BindEnv("storage.type", "storage_type")

	v.BindEnv("s3.endpoint", "s3_endpoint")
	v.BindEnv("s3.region", "s3_region")
	v.BindEnv("s3.access_key_id", "s3_access_key_id")
	v.BindEnv("s3.secret_access_key", "s3_secret_access_key")
	v.BindEnv("s3.bucket", "s3_bucket")

	v.BindEnv("quota.base_storage", "quota_base_storage")
	v.BindEnv("quota.checkin_bonus", "quota_checkin_bonus")
	v.BindEnv("quota.miss_penalty", "quota_miss_penalty")

	v.BindEnv("upload.max_size", "upload_max_size")
	v.BindEnv("upload.immediate_count", "upload_immediate_count")
	v.BindEnv("upload.queue_delay", "upload_queue_delay")
	v.BindEnv("upload.file_delay", "upload_file_delay")
	v.BindEnv("upload.allowed_types", "upload_allowed_types")

	v.BindEnv("mail.enabled", "mail_enabled")
	v.BindEnv("mail.host", "mail_host")
	v.BindEnv("mail.port", "mail_port")
	v.BindEnv("mail.username", "mail_username")
	v.BindEnv("mail.password", "mail_password")
	v.BindEnv("mail.from", "mail_from")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.domain", "localhost")
	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "gallery.db")

	v.SetDefault("storage.type", "inline")

	// Argon memory is megabytes
	v.SetDefault("security.argon_memory", 64)
	v.SetDefault("security.argon_iterations", 3)
	v.SetDefault("security.argon_parallelism", 2)

	// All quota knobs are megabytes, converted to bytes below
	v.SetDefault("quota.base_storage", 100)
	v.SetDefault("quota.checkin_bonus", 5)
	v.SetDefault("quota.miss_penalty", 10)

	v.SetDefault("upload.max_size", 50)
	v.SetDefault("upload.immediate_count", 2)
	v.SetDefault("upload.queue_delay", 120)
	v.SetDefault("upload.file_delay", 2)
	v.SetDefault("upload.allowed_types", []string{"image", "video"})

	v.SetDefault("mail.enabled", false)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); ok {
			return errors.New("config.toml file is missing")
		}

		return fmt.Errorf("failed to read config file, %w", err)
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if !slices.Contains(validDBDrivers, v.GetString("database.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("database.dsn") == "" {
		return errors.New("database dsn can't be empty")
	}

	if v.GetString("jwt.secret") == "" {
		fmt.Println("WARNING: You haven't set a JWT secret, so it has been generated for you. Please set it as an environment variable or in the config.toml file.\nYour random JWT secret:\n\n" + genSecret() + "\n\nPaste it into your config.toml file.")
		os.Exit(0)
	}

	if !slices.Contains(validStorageTypes, v.GetString("storage.type")) {
		return errors.New("invalid storage type provided")
	}

	if v.GetString("storage.type") == "s3" {
		if v.GetString("s3.access_key_id") == "" {
			return errors.New("access key id can't be empty")
		}
		if v.GetString("s3.secret_access_key") == "" {
			return errors.New("secret access key can't be empty")
		}
		if v.GetString("s3.bucket") == "" {
			return errors.New("bucket can't be empty")
		}
	}

	if v.GetInt("security.argon_memory") <= 0 || v.GetInt("security.argon_iterations") <= 0 || v.GetInt("security.argon_parallelism") <= 0 {
		return errors.New("argon parameters must be bigger than 0")
	}

	if v.GetInt("quota.base_storage") <= 0 {
		return errors.New("base storage must be bigger than 0")
	}

	if v.GetInt("quota.checkin_bonus") <= 0 {
		return errors.New("check-in bonus must be bigger than 0")
	}

	if v.GetInt("quota.miss_penalty") <= 0 {
		return errors.New("miss penalty must be bigger than 0")
	}

	if v.GetInt("upload.max_size") <= 0 {
		return errors.New("max upload size must be bigger than 0")
	}

	if v.GetInt("upload.immediate_count") < 0 {
		return errors.New("immediate count can't be negative")
	}

	if v.GetInt("upload.queue_delay") < 0 || v.GetInt("upload.file_delay") < 0 {
		return errors.New("upload delays can't be negative")
	}

	if v.GetBool("mail.enabled") {
		if v.GetString("mail.host") == "" {
			return errors.New("mail host can't be empty")
		}
		if v.GetString("mail.from") == "" {
			return errors.New("mail sender address can't be empty")
		}
	}

	v.Set("upload.max_size", v.GetInt64("upload.max_size")<<20)
	v.Set("quota.base_storage", v.GetInt64("quota.base_storage")<<20)
	v.Set("quota.checkin_bonus", v.GetInt64("quota.checkin_bonus")<<20)
	v.Set("quota.miss_penalty", v.GetInt64("quota.miss_penalty")<<20)
	return nil
}
