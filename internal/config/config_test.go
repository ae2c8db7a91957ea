package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/pixel-reveal/internal/progress"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clicker.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := decode(defaultClickerYAML)
	if err != nil {
		t.Fatalf("embedded defaults do not parse: %v", err)
	}
	if cfg != DefaultClickerConfig() {
		t.Errorf("embedded = %+v, expected %+v", cfg, DefaultClickerConfig())
	}
}

func TestDefaultsValidate(t *testing.T) {
	if err := DefaultClickerConfig().Validate(); err != nil {
		t.Errorf("Validate() = %v, expected nil", err)
	}
}

func TestLoadCustomPathPartial(t *testing.T) {
	path := writeConfig(t, "flush:\n  policy: batched\n  every: 25\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Flush.Policy != "batched" || cfg.Flush.Every != 25 {
		t.Errorf("Flush = %+v, expected batched/25", cfg.Flush)
	}
	// Unset keys keep their defaults.
	if cfg.Render != DefaultClickerConfig().Render {
		t.Errorf("Render = %+v, expected defaults", cfg.Render)
	}

	policy, _ := cfg.FlushPolicy()
	if policy != progress.PolicyBatched {
		t.Errorf("FlushPolicy() = %v, expected %v", policy, progress.PolicyBatched)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "flush: [unterminated"},
		{"unknown policy", "flush:\n  policy: sometimes\n"},
		{"zero batch", "flush:\n  every: 0\n"},
		{"bad color", "render:\n  hidden_color: gray\n"},
		{"wide cells", "render:\n  cell_width: 9\n"},
		{"negative toast", "toast:\n  duration_ms: -1\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.body)); err == nil {
				t.Error("Load() should fail")
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing custom path should fail")
	}
}

func TestToastDuration(t *testing.T) {
	cfg := DefaultClickerConfig()
	cfg.Toast.DurationMS = 1500
	if got := cfg.ToastDuration(); got != 1500*time.Millisecond {
		t.Errorf("ToastDuration() = %v, expected 1.5s", got)
	}
}

func TestUserConfigPath(t *testing.T) {
	path := userConfigPath("clicker.yaml")
	if path == "" {
		t.Skip("no home directory")
	}
	if !strings.HasSuffix(path, filepath.Join(".clicker", "configs", "clicker.yaml")) {
		t.Errorf("userConfigPath() = %q", path)
	}
}
