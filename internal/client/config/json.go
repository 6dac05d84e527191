package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/restorder/internal/flagx"
	"github.com/dmitrijs2005/restorder/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// Intervals use timex.Duration so they can be written as "3s" or as integer
// nanoseconds.
type JsonConfig struct {
	ServerURL           string         `json:"server_url"`
	PushURL             string         `json:"push_url"`
	DatabasePath        string         `json:"database_path"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	LogLevel            string         `json:"log_level"`

	ImageStore  string `json:"image_store"`
	S3Bucket    string `json:"s3_bucket"`
	S3Region    string `json:"s3_region"`
	S3Endpoint  string `json:"s3_endpoint"`
	S3AccessKey string `json:"s3_access_key"`
	S3SecretKey string `json:"s3_secret_key"`
	S3PublicURL string `json:"s3_public_url"`

	Currency      string `json:"currency"`
	AdminPageSize int    `json:"admin_page_size"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Fields missing from the file keep their current value.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ServerURL, jc.ServerURL)
	setString(&cfg.PushURL, jc.PushURL)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	setString(&cfg.LogLevel, jc.LogLevel)

	setString(&cfg.ImageStore, jc.ImageStore)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3Endpoint, jc.S3Endpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	setString(&cfg.S3PublicURL, jc.S3PublicURL)

	setString(&cfg.Currency, jc.Currency)
	if jc.AdminPageSize > 0 {
		cfg.AdminPageSize = jc.AdminPageSize
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
