package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "depthcap.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func assertEqual(t *testing.T, field, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %q, want %q", field, got, want)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	yaml := `storage:
  backend: s3
  path: my-bucket/captures
  region: us-east-1
  endpoint: https://example.com
  s3_path_style: true

capture:
  mode: continuous
  interval: 100ms
  policy: serialize
  duration: 30s
  frames: 200

source:
  kind: replay
  recording: ./session.rec
  loop: true

adapter:
  type: webhook
  url: https://hooks.example.com/depthcap
  headers:
    Authorization: Bearer token123
  timeout: 10s
  retries: 3

log:
  level: debug
`
	cfg, err := Load(writeTemp(t, yaml))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	assertEqual(t, "storage.backend", cfg.Storage.Backend, "s3")
	assertEqual(t, "storage.path", cfg.Storage.Path, "my-bucket/captures")
	assertEqual(t, "storage.region", cfg.Storage.Region, "us-east-1")
	assertEqual(t, "storage.endpoint", cfg.Storage.Endpoint, "https://example.com")
	if !cfg.Storage.S3PathStyle {
		t.Error("expected storage.s3_path_style=true")
	}

	assertEqual(t, "capture.mode", cfg.Capture.Mode, "continuous")
	assertEqual(t, "capture.policy", cfg.Capture.Policy, "serialize")
	if cfg.Capture.Interval.Duration != 100*time.Millisecond {
		t.Errorf("capture.interval = %v, want 100ms", cfg.Capture.Interval.Duration)
	}
	if cfg.Capture.Duration.Duration != 30*time.Second {
		t.Errorf("capture.duration = %v, want 30s", cfg.Capture.Duration.Duration)
	}
	if cfg.Capture.Frames != 200 {
		t.Errorf("capture.frames = %d, want 200", cfg.Capture.Frames)
	}

	assertEqual(t, "source.kind", cfg.Source.Kind, "replay")
	assertEqual(t, "source.recording", cfg.Source.Recording, "./session.rec")
	if !cfg.Source.Loop {
		t.Error("expected source.loop=true")
	}

	assertEqual(t, "adapter.type", cfg.Adapter.Type, "webhook")
	assertEqual(t, "adapter.headers.Authorization", cfg.Adapter.Headers["Authorization"], "Bearer token123")
	if cfg.Adapter.Timeout.Duration != 10*time.Second {
		t.Errorf("adapter.timeout = %v, want 10s", cfg.Adapter.Timeout.Duration)
	}
	if cfg.Adapter.Retries == nil || *cfg.Adapter.Retries != 3 {
		t.Errorf("adapter.retries = %v, want 3", cfg.Adapter.Retries)
	}
	assertEqual(t, "log.level", cfg.Log.Level, "debug")
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeTemp(t, "# nothing configured\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage.Backend != "" || cfg.Capture.Interval.Duration != 0 {
		t.Errorf("expected zero config, got %+v", cfg)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("DEPTHCAP_BUCKET", "lab-bucket")

	yaml := `storage:
  backend: s3
  path: ${DEPTHCAP_BUCKET}/captures
  region: ${DEPTHCAP_REGION:-eu-west-1}
adapter:
  type: webhook
  url: https://hooks.example.com
  headers:
    Authorization: Bearer ${DEPTHCAP_TOKEN_UNSET_12345}
`
	cfg, err := Load(writeTemp(t, yaml))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertEqual(t, "storage.path", cfg.Storage.Path, "lab-bucket/captures")
	assertEqual(t, "storage.region", cfg.Storage.Region, "eu-west-1")
	if len(cfg.UnsetVars) != 1 || cfg.UnsetVars[0] != "DEPTHCAP_TOKEN_UNSET_12345" {
		t.Errorf("UnsetVars = %v", cfg.UnsetVars)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantMsg string
	}{
		{"unknown key", "capture:\n  fps: 10\n", "fps"},
		{"bad duration", "capture:\n  interval: fast\n", "invalid duration"},
		{"bad policy", "capture:\n  policy: queue\n", "capture.policy"},
		{"bad backend", "storage:\n  backend: gcs\n", "storage.backend"},
		{"replay without recording", "source:\n  kind: replay\n", "source.recording"},
		{"adapter without url", "adapter:\n  type: redis\n", "adapter.url"},
		{"odd padding", "source:\n  row_padding: 6\n", "row_padding"},
		{"negative retries", "adapter:\n  type: webhook\n  url: http://x\n  retries: -1\n", "adapter.retries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTemp(t, tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := Config{
		Storage: StorageConfig{Backend: "ftp"},
		Capture: CaptureConfig{Mode: "burst", Frames: -1},
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"storage.backend", "capture.mode", "capture.frames"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %s", err, want)
		}
	}
}
