package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Image store backends selectable through Config.ImageStore.
const (
	ImageStoreAPI = "api"
	ImageStoreS3  = "s3"
)

// Config holds runtime settings for the restorder terminal client.
//
// Fields:
//   - ServerURL: base URL of the ordering REST API.
//   - PushURL: WebSocket endpoint for order updates; derived from ServerURL when empty.
//   - DatabasePath: SQLite file that keeps the session, cart and order snapshots.
//   - RequestTimeout: per-request HTTP timeout.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - LogLevel: debug, info, warn or error.
//   - ImageStore: "api" uploads through the backend, "s3" writes straight to a bucket.
//   - S3*: bucket settings used when ImageStore is "s3".
//   - Currency: ISO code sent with payment orders.
//   - AdminPageSize: page size for the admin order listing.
type Config struct {
	ServerURL           string
	PushURL             string
	DatabasePath        string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	LogLevel            string

	ImageStore  string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string

	Currency      string
	AdminPageSize int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:5000"
	c.PushURL = ""
	c.DatabasePath = defaultDatabasePath()
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.LogLevel = "warn"
	c.ImageStore = ImageStoreAPI
	c.S3Region = "us-east-1"
	c.Currency = "INR"
	c.AdminPageSize = 20
}

// PushEndpoint returns PushURL, or the ServerURL with its scheme switched to
// ws/wss and the path set to /ws.
func (c *Config) PushEndpoint() string {
	if c.PushURL != "" {
		return c.PushURL
	}
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Host == "" {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws"
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

func defaultDatabasePath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return "restorder.db"
	}
	return filepath.Join(dir, "restorder", "restorder.db")
}
