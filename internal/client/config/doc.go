// Package config loads runtime configuration for the restorder terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the REST API
//	-w string   websocket URL for order updates
//	-d string   local SQLite database path
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-l string   log level
//
// # JSON schema
//
//	{
//	  "server_url": "http://localhost:5000",
//	  "push_url": "ws://localhost:5000/ws",
//	  "database_path": "/home/me/.config/restorder/restorder.db",
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s",
//	  "log_level": "info",
//	  "image_store": "s3",
//	  "s3_bucket": "menu-images",
//	  "s3_region": "eu-central-1",
//	  "s3_endpoint": "http://localhost:9000",
//	  "s3_access_key": "minio",
//	  "s3_secret_key": "minio123",
//	  "s3_public_url": "https://cdn.example.com",
//	  "currency": "INR",
//	  "admin_page_size": 20
//	}
//
// S3 credentials are only read from JSON so they stay out of shell history.
package config
