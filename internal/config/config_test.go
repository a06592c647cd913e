package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "CORS_ALLOW_ORIGINS", "STORAGE_BACKEND", "LOCAL_STORE_DIR", "IMAGE_RESIZE"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("port: got %q", cfg.Port)
	}
	if cfg.StorageBackend != "local" {
		t.Errorf("backend: got %q", cfg.StorageBackend)
	}
	if !cfg.ImageResize {
		t.Error("expected image resizing on by default")
	}
	if len(cfg.CORSAllowOrigin) != 1 || cfg.CORSAllowOrigin[0] != "http://localhost:5173" {
		t.Errorf("cors: got %v", cfg.CORSAllowOrigin)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORAGE_BACKEND", "SPACES")
	t.Setenv("IMAGE_RESIZE", "false")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example.com, https://b.example.com,")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("port: got %q", cfg.Port)
	}
	if cfg.StorageBackend != "spaces" {
		t.Errorf("backend: got %q, want normalized spaces", cfg.StorageBackend)
	}
	if cfg.ImageResize {
		t.Error("expected image resizing off")
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if len(cfg.CORSAllowOrigin) != len(want) {
		t.Fatalf("cors: got %v", cfg.CORSAllowOrigin)
	}
	for i := range want {
		if cfg.CORSAllowOrigin[i] != want[i] {
			t.Errorf("cors[%d]: got %q, want %q", i, cfg.CORSAllowOrigin[i], want[i])
		}
	}
}

func TestNormalizeBackend(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "spaces", want: "spaces"},
		{in: "DigitalOcean", want: "spaces"},
		{in: "do", want: "spaces"},
		{in: "local", want: "local"},
		{in: "", want: "local"},
		{in: "s3", want: "local"},
	}
	for _, tt := range tests {
		if got := normalizeBackend(tt.in); got != tt.want {
			t.Errorf("normalizeBackend(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
