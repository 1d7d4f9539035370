// Package config loads and persists ferry's configuration.
//
// # Sources
//
// Configuration resolves from three layers, later layers winning:
//
//  1. TOML file, ~/.config/ferry/config.toml by default
//  2. FERRY_* environment variables (FERRY_API_KEY, FERRY_BASE_URL,
//     FERRY_DOWNLOAD_DIR, FERRY_POLL_INTERVAL, FERRY_TIMEOUT,
//     FERRY_CHUNK_SIZE)
//  3. command-line flags, applied by the caller on the loaded Config
//
// A missing config file is not an error; Load returns defaults so a fresh
// install can run `ferry login` or lean on FERRY_API_KEY alone. A file that
// exists but fails to parse is an error, since silently ignoring a typo near
// api_key would surface later as a confusing authentication failure.
//
// # File Format
//
//	api_key = "..."
//	base_url = "https://offcloud.com/api"
//	download_dir = "~/Downloads/ferry"
//	poll_interval = 5
//	timeout = 3600
//	chunk_size = 8192
//
// Durations are plain seconds in the file; PollInterval and Timeout expose
// them as time.Duration. Every field is optional. Paths starting with ~
// expand to the home directory and relative paths become absolute at load
// time.
//
// # Write-Back
//
// Save exists for `ferry login`, which exchanges credentials for an API key
// and persists it. The file is written with mode 0600 because it holds that
// key.
package config
