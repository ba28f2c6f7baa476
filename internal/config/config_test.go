package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	verrors "github.com/vango-dev/vcore/internal/errors"
	"github.com/vango-dev/vcore/pkg/engine"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Dev.Port != DefaultPort {
		t.Errorf("Dev.Port = %d, want %d", cfg.Dev.Port, DefaultPort)
	}
	if cfg.Dev.Host != DefaultHost {
		t.Errorf("Dev.Host = %q, want %q", cfg.Dev.Host, DefaultHost)
	}
	if !cfg.Engine.RenderCache || !cfg.Engine.WarnOnRecoveryFailure {
		t.Error("render cache and recovery warnings should default to on")
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q, want %q", cfg.Metrics.Namespace, DefaultNamespace)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := Load(tmpDir); verrors.Code(err) != "E141" {
		t.Errorf("missing config: got %v, want E141", err)
	}

	writeFile(t, tmpDir, ConfigFileName, `
engine:
  production: true
  renderCache: false
render:
  pretty: true
dev:
  port: 8080
  tree: trees/home.yaml
  debounce: 250ms
export:
  bucket: site
  prefix: /preview/
`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if !cfg.Engine.Production {
		t.Error("Engine.Production should be true")
	}
	if cfg.Engine.RenderCache {
		t.Error("Engine.RenderCache should be false")
	}
	if !cfg.Engine.WarnOnRecoveryFailure {
		t.Error("unset WarnOnRecoveryFailure should keep its default")
	}
	if !cfg.Render.Pretty || cfg.Render.Indent != "  " {
		t.Errorf("Render = %+v", cfg.Render)
	}
	if cfg.Dev.Port != 8080 || cfg.Dev.Host != DefaultHost {
		t.Errorf("Dev = %+v", cfg.Dev)
	}
	if got := cfg.DebounceDuration(); got != 250*time.Millisecond {
		t.Errorf("DebounceDuration = %v", got)
	}
	if got, want := cfg.TreePath(), filepath.Join(tmpDir, "trees/home.yaml"); got != want {
		t.Errorf("TreePath = %q, want %q", got, want)
	}
	if cfg.Export.Prefix != "preview" || cfg.Export.Key != DefaultExportKey {
		t.Errorf("Export = %+v", cfg.Export)
	}
	if cfg.Dir() != tmpDir {
		t.Errorf("Dir = %q, want %q", cfg.Dir(), tmpDir)
	}
}

func TestLoadJSON(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, JSONConfigFileName, `{
  "engine": {"warnOnRecoveryFailure": false},
  "metrics": {"enabled": false, "namespace": "ui"}
}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Engine.WarnOnRecoveryFailure {
		t.Error("WarnOnRecoveryFailure should be false")
	}
	if cfg.Metrics.Enabled || cfg.Metrics.Namespace != "ui" {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
}

func TestLoadPrefersYAML(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, JSONConfigFileName, `{"dev": {"port": 1111}}`)
	writeFile(t, tmpDir, ConfigFileName, "dev:\n  port: 2222\n")

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Dev.Port != 2222 {
		t.Errorf("Dev.Port = %d, want 2222", cfg.Dev.Port)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		code    string
	}{
		{"bad yaml", "a.yaml", "dev:\n  port: [1\n", "E121"},
		{"bad json", "b.json", `{"dev": `, "E121"},
		{"bad port", "c.yaml", "dev:\n  port: 70000\n", "E122"},
		{"bad debounce", "d.yaml", "dev:\n  debounce: soon\n", "E122"},
		{"bad indent", "e.yaml", "render:\n  indent: xx\n", "E122"},
		{"bad endpoint", "f.yaml", "export:\n  endpoint: localhost:9000\n", "E122"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tmpDir, tt.file, tt.content)
			_, err := LoadFile(path)
			if got := verrors.Code(err); got != tt.code {
				t.Errorf("code = %q, want %q (err: %v)", got, tt.code, err)
			}
		})
	}

	if _, err := LoadFile(filepath.Join(tmpDir, "missing.yaml")); verrors.Code(err) != "E141" {
		t.Errorf("missing file: got %v", err)
	}
}

func TestParseErrorLocation(t *testing.T) {
	path := writeFile(t, t.TempDir(), "vcore.yaml", "engine:\n  production: true\n dev: [\n")
	_, err := LoadFile(path)

	ve, ok := err.(*verrors.Error)
	if !ok {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	if ve.Location == nil || ve.Location.File != path {
		t.Fatalf("Location = %+v", ve.Location)
	}
	if ve.Location.Line == 0 {
		t.Error("Location.Line should be set from the parser message")
	}
}

func TestEngineOptions(t *testing.T) {
	cfg := New()
	cfg.Engine.Production = true
	cfg.Engine.RenderCache = false
	cfg.Engine.WarnOnRecoveryFailure = false

	var o engine.Options
	for _, opt := range cfg.EngineOptions() {
		opt(&o)
	}
	if !o.Production || !o.DisableRenderCache || o.WarnOnRecoveryFailure {
		t.Errorf("options = %+v", o)
	}
}

func TestRendererConfig(t *testing.T) {
	cfg := New()
	cfg.Render.Pretty = true
	cfg.Render.SanitizeRaw = true

	rc := cfg.RendererConfig()
	if !rc.Pretty || !rc.SanitizeRaw || rc.Indent != "  " {
		t.Errorf("RendererConfig = %+v", rc)
	}
}

func TestDevAddress(t *testing.T) {
	cfg := New()
	cfg.Dev.Host = "0.0.0.0"
	cfg.Dev.Port = 9000

	if got := cfg.DevAddress(); got != "0.0.0.0:9000" {
		t.Errorf("DevAddress = %q", got)
	}
	if got := cfg.DevURL(); got != "http://0.0.0.0:9000" {
		t.Errorf("DevURL = %q", got)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ConfigFileName, "")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot error: %v", err)
	}
	if got != root {
		t.Errorf("FindProjectRoot = %q, want %q", got, root)
	}

	if _, err := FindProjectRoot(t.TempDir()); verrors.Code(err) != "E141" {
		t.Errorf("expected E141, got %v", err)
	}
}

func TestLoadFromWorkingDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ConfigFileName, "dev:\n  port: 4321\n")
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd error: %v", err)
	}
	if err := os.Chdir(root); err != nil {
		t.Fatalf("Chdir error: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadFromWorkingDir()
	if err != nil {
		t.Fatalf("LoadFromWorkingDir error: %v", err)
	}
	if cfg.Dev.Port != 4321 {
		t.Errorf("Dev.Port = %d", cfg.Dev.Port)
	}
}
