// Package config loads the settings buddyctl needs to reach a Buddy host.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/buddyctl/config.toml (default)
//  3. If the config file doesn't exist, start from hardcoded defaults
//  4. Apply BUDDY_* environment variables on top
//
// An optional env file (KEY=value lines) can be loaded into the process
// environment with LoadEnvFile before calling Load. Variables already set in
// the environment are not overwritten by the file.
//
// # Default Values
//
//   - Config file: ~/.config/buddyctl/config.toml
//   - Port: 59999
//   - Timeout: 5s
//   - Certificate: ~/.config/buddyctl/moondeck_cert.pem
//   - Supported API version: 4
//
// There is no default address. Validate rejects a config without one.
//
// # TOML Format
//
//	address = "192.168.1.20"
//	port = 59999
//	client_id = "5f0c..."
//	timeout = "3s"
//	cert_path = "~/.config/buddyctl/moondeck_cert.pem"
//	api_version = 4
//
// # Environment
//
//   - BUDDY_ADDRESS, BUDDY_PORT, BUDDY_CLIENT_ID, BUDDY_TIMEOUT, BUDDY_CERT_PATH
//
// Empty variables are ignored. Malformed port or timeout values are errors.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than a
// missing file, TOML parse errors and malformed overrides. Missing config
// files are NOT an error. Range checks happen in Validate, so commands that
// only print the effective config can still run with an incomplete one.
package config
