package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/xonecas/enclose/internal/treesitter"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("ENCLOSE_LOG_LEVEL", "")
	t.Setenv("ENCLOSE_THEME", "")
	t.Setenv("NO_COLOR", "")

	path := writeConfig(t, `
[log]
level = "debug"

[parser]
policy = "innermost"

[output]
theme = "monokai"
tagged = true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel() != zerolog.DebugLevel {
		t.Errorf("log level = %v, want debug", cfg.LogLevel())
	}
	if cfg.Policy() != treesitter.Innermost {
		t.Errorf("policy = %v, want innermost", cfg.Policy())
	}
	if cfg.Parser.MaxFileSize != treesitter.DefaultMaxFileSize {
		t.Errorf("max_file_size = %d, want default", cfg.Parser.MaxFileSize)
	}
	if cfg.Output.Theme != "monokai" || !cfg.Output.Tagged || !cfg.Output.Color {
		t.Errorf("unexpected output config: %+v", cfg.Output)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ENCLOSE_LOG_LEVEL", "warn")
	t.Setenv("ENCLOSE_THEME", "dracula")
	t.Setenv("NO_COLOR", "1")

	cfg, err := Load(writeConfig(t, "[log]\nlevel = \"debug\"\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel() != zerolog.WarnLevel {
		t.Errorf("log level = %v, want warn", cfg.LogLevel())
	}
	if cfg.Output.Theme != "dracula" {
		t.Errorf("theme = %q, want dracula", cfg.Output.Theme)
	}
	if cfg.Output.Color {
		t.Error("NO_COLOR should disable color")
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv("ENCLOSE_LOG_LEVEL", "")
	t.Setenv("ENCLOSE_THEME", "")

	if _, err := Load(""); err == nil {
		t.Error("expected error for empty path")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(writeConfig(t, "[log\n")); err == nil {
		t.Error("expected error for malformed TOML")
	}

	_, err := Load(writeConfig(t, `
[log]
level = "loud"

[parser]
max_file_size = -1
policy = "tightest"

[output]
theme = "no-such-theme"
`))
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"log.level", "parser.max_file_size", "parser.policy", "output.theme"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}
