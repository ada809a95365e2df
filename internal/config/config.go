package config

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Config keys.
const (
	KeyBaseURL = "base-url"
	KeyTimeout = "timeout"
)

// Environment variable fallbacks.
const (
	EnvBaseURL = "TWAPI_BASE_URL"
	EnvTimeout = "TWAPI_TIMEOUT"

	// EnvBearerToken is read from the environment only and never persisted.
	EnvBearerToken = "TWAPI_BEARER_TOKEN"
)

// Config errors.
var (
	ErrUnknownKey    = errors.New("unknown config key")
	ErrInvalidKey    = errors.New("invalid config key")
	ErrInvalidValue  = errors.New("invalid config value")
	ErrInvalidSyntax = errors.New("invalid config syntax")
)

// Config holds user configuration loaded from ~/.config/go-twapi/config.
type Config struct {
	BaseURL string
	// Timeout is the HTTP client timeout. Zero means the client default.
	Timeout time.Duration
}

// Keys returns the supported config keys, sorted.
func Keys() []string {
	return []string{KeyBaseURL, KeyTimeout}
}

// dir returns the configuration directory path.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/go-twapi.
func dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "go-twapi"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "go-twapi"), nil
}

// path returns the full path to the config file.
func path() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config"), nil
}

// Load reads the configuration file and environment variables.
// Precedence: config file values, then environment variable fallbacks.
// Returns an empty Config if the file doesn't exist (not an error).
func Load() (Config, error) {
	var cfg Config

	p, err := path()
	if err != nil {
		return cfg, err
	}

	data, err := parseFile(p)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	// Environment variable fallback (only if not set in config).
	get := func(key, env string) string {
		if v := data[key]; v != "" {
			return v
		}
		return os.Getenv(env)
	}

	cfg.BaseURL = get(KeyBaseURL, EnvBaseURL)
	if raw := get(KeyTimeout, EnvTimeout); raw != "" {
		if cfg.Timeout, err = ParseTimeout(raw); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

// parseFile reads a key=value config file.
// Format: one key=value per line, # comments, empty lines ignored.
func parseFile(p string) (map[string]string, error) {
	f, err := os.Open(p) // #nosec G304 -- config path is constructed from home dir
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	data := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse key=value.
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("%w at line %d: %q", ErrInvalidSyntax, lineNum, line)
		}
		data[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return data, nil
}

// Save validates and writes a single key=value to the config file.
// Creates the config directory and file if they don't exist.
// Preserves existing key=value pairs but discards comments.
func Save(key, value string) error {
	if err := Validate(key, value); err != nil {
		return err
	}

	p, err := path()
	if err != nil {
		return err
	}

	// Ensure config directory exists.
	if err := os.MkdirAll(filepath.Dir(p), 0750); err != nil { // #nosec G301 -- user config dir
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	// Read existing config (if any).
	existing, _ := parseFile(p)
	if existing == nil {
		existing = make(map[string]string)
	}
	existing[key] = value

	return writeFile(p, existing)
}

// writeFile writes the config map to a file, keys sorted.
func writeFile(p string, data map[string]string) error {
	// #nosec G302 G304 -- config file with standard permissions, path from home dir
	f, err := os.OpenFile(p, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("cannot write config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, err := fmt.Fprintf(f, "%s=%s\n", key, data[key]); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	return nil
}

// Get reads a single value from the config file.
// Returns empty string if the key doesn't exist.
func Get(key string) (string, error) {
	data, err := List()
	if err != nil {
		return "", err
	}
	return data[key], nil
}

// List returns all config values as a map.
func List() (map[string]string, error) {
	p, err := path()
	if err != nil {
		return nil, err
	}

	data, err := parseFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}

	return data, nil
}

// Validate checks that value is acceptable for key.
func Validate(key, value string) error {
	if key == "" || strings.ContainsAny(key, "=\n\r") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if strings.ContainsAny(value, "\n\r") {
		return fmt.Errorf("%w: value for %s contains a newline", ErrInvalidValue, key)
	}

	switch key {
	case KeyBaseURL:
		return ValidBaseURL(value)
	case KeyTimeout:
		_, err := ParseTimeout(value)
		return err
	default:
		return fmt.Errorf("%w: %q (valid: %s)", ErrUnknownKey, key, strings.Join(Keys(), ", "))
	}
}

// ValidBaseURL checks that u is an absolute http(s) URL.
func ValidBaseURL(u string) error {
	if u == "" {
		return fmt.Errorf("%w: base-url cannot be empty", ErrInvalidValue)
	}
	parsed, err := url.Parse(u)
	if err != nil {
		return fmt.Errorf("%w: base-url: %w", ErrInvalidValue, err)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return fmt.Errorf("%w: base-url must use http or https: %q", ErrInvalidValue, u)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%w: base-url has no host: %q", ErrInvalidValue, u)
	}
	return nil
}

// ParseTimeout parses a positive Go duration such as "30s" or "1m30s".
func ParseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: timeout %q: %w", ErrInvalidValue, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: timeout must be positive: %q", ErrInvalidValue, s)
	}
	return d, nil
}

// Dir returns the configuration directory path (exported for testing).
func Dir() (string, error) {
	return dir()
}

// ParseFile reads a key=value config file (exported for testing).
func ParseFile(p string) (map[string]string, error) {
	return parseFile(p)
}
