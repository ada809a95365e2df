package cli

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/alnah/go-twapi/internal/config"
)

// ---------------------------------------------------------------------------
// Unit tests for helper functions
// ---------------------------------------------------------------------------

func TestIsValidConfigKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  string
		want bool
	}{
		{config.KeyBaseURL, true},
		{config.KeyTimeout, true},
		{"bearer-token", false},
		{"", false},
		{"BASE-URL", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()

			if got := isValidConfigKey(tt.key); got != tt.want {
				t.Errorf("isValidConfigKey(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestConfigEnvVars_CoverEveryKey(t *testing.T) {
	t.Parallel()

	for _, key := range validConfigKeys {
		if configEnvVars[key] == "" {
			t.Errorf("configEnvVars[%q] is empty", key)
		}
	}
}

// ---------------------------------------------------------------------------
// Tests for runConfigSet
// ---------------------------------------------------------------------------

func TestRunConfigSet_ValidKey(t *testing.T) {
	// Cannot use t.Parallel() with t.Setenv()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	env, out, _ := testEnv()

	if err := RunConfigSet(env, config.KeyTimeout, "45s"); err != nil {
		t.Fatalf("RunConfigSet(%q, %q) unexpected error: %v", config.KeyTimeout, "45s", err)
	}
	assertContains(t, out.stderr.String(), "Set timeout = 45s")

	got, err := config.Get(config.KeyTimeout)
	if err != nil {
		t.Fatalf("config.Get() unexpected error: %v", err)
	}
	if got != "45s" {
		t.Errorf("config.Get(%q) = %q, want %q", config.KeyTimeout, got, "45s")
	}
}

func TestRunConfigSet_InvalidKey(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv()

	err := RunConfigSet(env, "invalid-key", "value")
	if !errors.Is(err, config.ErrUnknownKey) {
		t.Fatalf("RunConfigSet(\"invalid-key\") error = %v, want ErrUnknownKey", err)
	}
	if got := ExitCode(err); got != ExitUsage {
		t.Errorf("ExitCode() = %d, want %d", got, ExitUsage)
	}
}

func TestRunConfigSet_InvalidValue(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	env, out, _ := testEnv()

	tests := []struct {
		key, value string
	}{
		{config.KeyBaseURL, "ftp://example.com"},
		{config.KeyBaseURL, "not a url"},
		{config.KeyTimeout, "soon"},
		{config.KeyTimeout, "-1s"},
	}

	for _, tt := range tests {
		err := RunConfigSet(env, tt.key, tt.value)
		if !errors.Is(err, config.ErrInvalidValue) {
			t.Errorf("RunConfigSet(%q, %q) error = %v, want ErrInvalidValue", tt.key, tt.value, err)
		}
	}
	if out.stderr.String() != "" {
		t.Errorf("stderr = %q, want empty on failure", out.stderr.String())
	}
}

// ---------------------------------------------------------------------------
// Tests for runConfigGet
// ---------------------------------------------------------------------------

func TestRunConfigGet_ValidKey(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := config.Save(config.KeyBaseURL, "http://localhost:8080/1.1"); err != nil {
		t.Fatalf("config.Save() unexpected error: %v", err)
	}

	env, out, _ := testEnv()
	if err := RunConfigGet(env, config.KeyBaseURL); err != nil {
		t.Fatalf("RunConfigGet() unexpected error: %v", err)
	}
	if got := strings.TrimSpace(out.stdout.String()); got != "http://localhost:8080/1.1" {
		t.Errorf("RunConfigGet() output = %q, want %q", got, "http://localhost:8080/1.1")
	}
}

func TestRunConfigGet_InvalidKey(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv()

	if err := RunConfigGet(env, "invalid-key"); !errors.Is(err, config.ErrUnknownKey) {
		t.Errorf("RunConfigGet(\"invalid-key\") error = %v, want ErrUnknownKey", err)
	}
}

func TestRunConfigGet_EnvFallback(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	env, out, _ := testEnv(withEnv(map[string]string{config.EnvTimeout: "10s"}))

	if err := RunConfigGet(env, config.KeyTimeout); err != nil {
		t.Fatalf("RunConfigGet() unexpected error: %v", err)
	}
	if got := strings.TrimSpace(out.stdout.String()); got != "10s" {
		t.Errorf("RunConfigGet() output = %q, want %q", got, "10s")
	}
}

func TestRunConfigGet_Unset(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	env, out, _ := testEnv()

	if err := RunConfigGet(env, config.KeyTimeout); err != nil {
		t.Fatalf("RunConfigGet() unexpected error: %v", err)
	}
	if out.stdout.String() != "" {
		t.Errorf("RunConfigGet() output = %q, want empty", out.stdout.String())
	}
}

// ---------------------------------------------------------------------------
// Tests for runConfigList
// ---------------------------------------------------------------------------

func TestRunConfigList_WithConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := config.Save(config.KeyTimeout, "1m"); err != nil {
		t.Fatalf("config.Save() unexpected error: %v", err)
	}
	if err := config.Save(config.KeyBaseURL, "https://api.example.com/1.1"); err != nil {
		t.Fatalf("config.Save() unexpected error: %v", err)
	}

	env, out, _ := testEnv()
	if err := RunConfigList(env); err != nil {
		t.Fatalf("RunConfigList() unexpected error: %v", err)
	}

	want := "base-url=https://api.example.com/1.1\ntimeout=1m\n"
	if got := out.stdout.String(); got != want {
		t.Errorf("RunConfigList() output = %q, want %q", got, want)
	}
}

func TestRunConfigList_EmptyConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	env, out, _ := testEnv()
	if err := RunConfigList(env); err != nil {
		t.Fatalf("RunConfigList() unexpected error: %v", err)
	}

	output := out.stdout.String()
	assertContains(t, output, "No configuration set.")
	for _, key := range validConfigKeys {
		assertContains(t, output, key)
	}
}

func TestRunConfigList_WithEnvOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	env, out, _ := testEnv(withEnv(map[string]string{config.EnvBaseURL: "http://localhost/1.1"}))
	if err := RunConfigList(env); err != nil {
		t.Fatalf("RunConfigList() unexpected error: %v", err)
	}

	assertContains(t, out.stdout.String(), "base-url=http://localhost/1.1 (from env)")
	assertNotContains(t, out.stdout.String(), "timeout=")
}

// ---------------------------------------------------------------------------
// Tests for ConfigCmd (Cobra integration)
// ---------------------------------------------------------------------------

func TestConfigCmd_HasSubcommands(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv()
	cmd := ConfigCmd(env)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}

	for _, name := range []string{"set", "get", "list"} {
		if !slices.Contains(names, name) {
			t.Errorf("expected subcommand %q, got %v", name, names)
		}
	}
}

func TestConfigCmd_ArgValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"set without args", []string{"set"}},
		{"set with one arg", []string{"set", "timeout"}},
		{"get without args", []string{"get"}},
		{"list with args", []string{"list", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, _ := testEnv()
			cmd := ConfigCmd(env)
			cmd.SetOut(&syncBuffer{})
			cmd.SetErr(&syncBuffer{})
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if err == nil {
				t.Fatalf("Execute(%v) expected error, got nil", tt.args)
			}
			if got := ExitCode(err); got != ExitUsage {
				t.Errorf("ExitCode(%v) = %d, want %d", err, got, ExitUsage)
			}
		})
	}
}
