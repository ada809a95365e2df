package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-twapi/internal/config"
	"github.com/alnah/go-twapi/internal/interrupt"
)

// ---------------------------------------------------------------------------
// syncBuffer - thread-safe bytes.Buffer for concurrent test output
// ---------------------------------------------------------------------------

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// Compile-time check that syncBuffer implements io.Writer.
var _ io.Writer = (*syncBuffer)(nil)

// ---------------------------------------------------------------------------
// testMocks - convenience struct for grouping all mocks
// ---------------------------------------------------------------------------

type testMocks struct {
	configLoader  *mockConfigLoader
	clientFactory *mockClientFactory
	api           *mockAPI
}

func newTestMocks() *testMocks {
	api := &mockAPI{}
	return &testMocks{
		configLoader:  &mockConfigLoader{},
		clientFactory: &mockClientFactory{API: api},
		api:           api,
	}
}

// ---------------------------------------------------------------------------
// testEnv - creates a fully mocked Env for testing
// ---------------------------------------------------------------------------

// testNow is the fixed clock of test environments: 14m before 1609459200.
var testNow = time.Date(2020, time.December, 31, 23, 46, 0, 0, time.UTC)

// testEnvOptions configures a test environment.
type testEnvOptions struct {
	stdin   io.Reader
	getenv  func(string) string
	signals <-chan os.Signal
	mocks   *testMocks
}

// testEnvOption configures testEnv.
type testEnvOption func(*testEnvOptions)

// testIO captures the output streams of a test environment.
type testIO struct {
	stdout *syncBuffer
	stderr *syncBuffer
}

// testEnv creates a test Env with all dependencies mocked.
// Returns the Env, its captured output and the mocks for assertions.
func testEnv(opts ...testEnvOption) (*Env, testIO, *testMocks) {
	options := &testEnvOptions{
		stdin:  strings.NewReader(""),
		getenv: defaultTestEnv,
		mocks:  newTestMocks(),
	}

	for _, opt := range opts {
		opt(options)
	}

	out := testIO{stdout: &syncBuffer{}, stderr: &syncBuffer{}}
	env := &Env{
		Stdout:        out.stdout,
		Stderr:        out.stderr,
		Stdin:         options.stdin,
		Getenv:        options.getenv,
		Now:           func() time.Time { return testNow },
		ConfigLoader:  options.mocks.configLoader,
		ClientFactory: options.mocks.clientFactory,
		Interrupts: func(parent context.Context, stderr io.Writer, hint string) (*interrupt.Handler, context.Context) {
			// A nil channel never fires, so tests never touch process signals.
			return interrupt.NewHandlerWithOptions(parent, interrupt.Options{
				SigCh:    options.signals,
				Stderr:   stderr,
				Hint:     hint,
				ExitFunc: func(int) {},
			})
		},
	}

	return env, out, options.mocks
}

// withStdin sets the stdin content.
func withStdin(s string) testEnvOption {
	return func(o *testEnvOptions) {
		o.stdin = strings.NewReader(s)
	}
}

// withSignals feeds interrupt handlers from ch instead of the process.
func withSignals(ch <-chan os.Signal) testEnvOption {
	return func(o *testEnvOptions) {
		o.signals = ch
	}
}

// withEnv sets the environment variables.
func withEnv(vars map[string]string) testEnvOption {
	return func(o *testEnvOptions) {
		o.getenv = func(key string) string {
			return vars[key]
		}
	}
}

// defaultTestEnv returns test environment variables with the token set.
func defaultTestEnv(key string) string {
	if key == config.EnvBearerToken {
		return "test-token"
	}
	return ""
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// assertContains fails the test if s does not contain substr.
func assertContains(t *testing.T, s, substr string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("output does not contain %q:\n%s", substr, s)
	}
}

// assertNotContains fails the test if s contains substr.
func assertNotContains(t *testing.T, s, substr string) {
	t.Helper()
	if strings.Contains(s, substr) {
		t.Errorf("output should not contain %q:\n%s", substr, s)
	}
}
