package cli

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/alnah/go-twapi/internal/client"
	"github.com/alnah/go-twapi/internal/config"
	"github.com/alnah/go-twapi/internal/interrupt"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have sensible defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
//
// Env must not be nil when passed to command functions. Use DefaultEnv()
// or NewEnv() to create a valid instance.
type Env struct {
	// I/O and environment
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
	Getenv func(string) string
	Now    func() time.Time

	// Factories for domain objects
	ConfigLoader  ConfigLoader
	ClientFactory ClientFactory

	// Interrupts creates the Ctrl+C handler guarding long waits.
	Interrupts InterruptFactory
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// API is the subset of the API client used by commands.
type API interface {
	client.Getter
	VerifyCredentials(ctx context.Context) (client.User, error)
	MediaStatus(ctx context.Context, mediaID string) (client.MediaStatus, error)
	WaitMedia(ctx context.Context, mediaID string, onPoll func(client.MediaStatus)) (client.MediaStatus, error)
}

// ClientFactory creates API clients.
type ClientFactory interface {
	NewClient(token string, cfg config.Config) (API, error)
}

// InterruptFactory creates an interrupt handler whose context is canceled
// on the first Ctrl+C. hint is written to stderr when that happens.
type InterruptFactory func(parent context.Context, stderr io.Writer, hint string) (*interrupt.Handler, context.Context)

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdout = w
	}
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithStdin sets the stdin reader.
func WithStdin(r io.Reader) EnvOption {
	return func(e *Env) {
		e.Stdin = r
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithNow sets the time provider.
func WithNow(fn func() time.Time) EnvOption {
	return func(e *Env) {
		e.Now = fn
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithClientFactory sets the API client factory.
func WithClientFactory(f ClientFactory) EnvOption {
	return func(e *Env) {
		e.ClientFactory = f
	}
}

// WithInterrupts sets the interrupt handler factory.
func WithInterrupts(f InterruptFactory) EnvOption {
	return func(e *Env) {
		e.Interrupts = f
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
		Stdin:         os.Stdin,
		Getenv:        os.Getenv,
		Now:           time.Now,
		ConfigLoader:  &defaultConfigLoader{},
		ClientFactory: &defaultClientFactory{},
		Interrupts:    interrupt.NewHandler,
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load() (config.Config, error) {
	return config.Load()
}

// defaultClientFactory implements ClientFactory using the client package.
type defaultClientFactory struct{}

func (defaultClientFactory) NewClient(token string, cfg config.Config) (API, error) {
	c, err := client.New(token, clientOptions(cfg)...)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// clientOptions translates configuration into client options.
// A configured base URL serves both the REST and media endpoints.
func clientOptions(cfg config.Config) []client.Option {
	var opts []client.Option
	if cfg.BaseURL != "" {
		opts = append(opts, client.WithBaseURL(cfg.BaseURL), client.WithUploadBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, client.WithHTTPTimeout(cfg.Timeout))
	}
	return opts
}

// newAPI loads configuration and creates a client authenticated with the
// bearer token from the environment.
func newAPI(env *Env) (API, error) {
	token := env.Getenv(config.EnvBearerToken)
	if token == "" {
		return nil, ErrTokenMissing
	}

	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		return nil, err
	}

	return env.ClientFactory.NewClient(token, cfg)
}

// parseParams parses repeated key=value flags into query parameters.
func parseParams(raw []string) (url.Values, error) {
	params := url.Values{}
	for _, kv := range raw {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("%q (want key=value): %w", kv, ErrInvalidParam)
		}
		params.Add(k, v)
	}
	return params, nil
}

// Compile-time interface verification.
var (
	_ ConfigLoader  = (*defaultConfigLoader)(nil)
	_ ClientFactory = (*defaultClientFactory)(nil)
	_ API           = (*client.Client)(nil)
)
