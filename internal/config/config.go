package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/buddyctl/internal/buddy"
)

// Config captures everything buddyctl needs to reach one Buddy host.
type Config struct {
	Address    string        `validate:"required"`
	Port       int           `validate:"min=1,max=65535"`
	ClientID   string
	Timeout    time.Duration `validate:"gt=0"`
	CertPath   string        `validate:"required"`
	APIVersion int           `validate:"min=1"`
}

const (
	defaultConfigPath = "~/.config/buddyctl/config.toml"
	defaultCertPath   = "~/.config/buddyctl/moondeck_cert.pem"
	defaultPort       = 59999
	defaultTimeout    = 5 * time.Second
	defaultAPIVersion = 4
)

// Environment overrides, applied after the file.
const (
	EnvAddress  = "BUDDY_ADDRESS"
	EnvPort     = "BUDDY_PORT"
	EnvClientID = "BUDDY_CLIENT_ID"
	EnvTimeout  = "BUDDY_TIMEOUT"
	EnvCertPath = "BUDDY_CERT_PATH"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load locates and parses the buddyctl config, falling back to defaults when
// missing, then applies BUDDY_* environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:       defaultPort,
		Timeout:    defaultTimeout,
		CertPath:   mustExpand(defaultCertPath),
		APIVersion: defaultAPIVersion,
	}

	raw, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}
	if raw != nil {
		if err := cfg.merge(*raw); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type fileConfig struct {
	Address    string `toml:"address"`
	Port       int    `toml:"port"`
	ClientID   string `toml:"client_id"`
	Timeout    string `toml:"timeout"`
	CertPath   string `toml:"cert_path"`
	APIVersion int    `toml:"api_version"`
}

func readFile(path string) (*fileConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var raw fileConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &raw, nil
}

func (c *Config) merge(raw fileConfig) error {
	c.Address = strings.TrimSpace(raw.Address)
	c.ClientID = strings.TrimSpace(raw.ClientID)
	if raw.Port != 0 {
		c.Port = raw.Port
	}
	if raw.APIVersion != 0 {
		c.APIVersion = raw.APIVersion
	}
	if timeout := strings.TrimSpace(raw.Timeout); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("parse config: timeout: %w", err)
		}
		c.Timeout = d
	}
	if certPath := strings.TrimSpace(raw.CertPath); certPath != "" {
		c.CertPath = mustExpand(certPath)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v, ok := lookupEnv(EnvAddress); ok {
		c.Address = v
	}
	if v, ok := lookupEnv(EnvClientID); ok {
		c.ClientID = v
	}
	if v, ok := lookupEnv(EnvPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPort, err)
		}
		c.Port = port
	}
	if v, ok := lookupEnv(EnvTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	if v, ok := lookupEnv(EnvCertPath); ok {
		c.CertPath = mustExpand(v)
	}
	return nil
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// LoadEnvFile reads KEY=value pairs from path into the process environment.
// Variables already set win over the file.
func LoadEnvFile(path string) error {
	resolved, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if err := godotenv.Load(resolved); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// Validate reports the first missing or out-of-range field.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Buddy returns the connection settings for a buddy scope.
func (c Config) Buddy() buddy.Config {
	return buddy.Config{
		Address:  c.Address,
		Port:     c.Port,
		ClientID: c.ClientID,
		Timeout:  c.Timeout,
	}
}

// DefaultPath returns the config location used when none is given.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath trims path, expands a leading ~ to the home directory and
// returns the absolute result. An empty path is an error.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
