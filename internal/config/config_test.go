package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"issuereel/internal/config"
)

func clearCredentialEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GITHUB_TOKEN", "OPENAI_API_KEY", "LLM_API_KEY", "TTS_API_KEY",
		"YOUTUBE_CLIENT_ID", "YOUTUBE_CLIENT_SECRET", "YOUTUBE_REFRESH_TOKEN",
		"GITHUB_REPOSITORY", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "NTFY_TOPIC",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaultConfigExpandsPathsAndUsesEnv(t *testing.T) {
	clearCredentialEnv(t)
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())
	t.Setenv("GITHUB_TOKEN", "gh-token")
	t.Setenv("OPENAI_API_KEY", "openai-key")
	t.Setenv("GITHUB_REPOSITORY", "octo/widgets")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantRoot := filepath.Join(tempHome, ".local", "share", "issuereel", "runs")
	if cfg.Paths.WorkRoot != wantRoot {
		t.Fatalf("unexpected work root: got %q want %q", cfg.Paths.WorkRoot, wantRoot)
	}
	if cfg.GitHub.Token != "gh-token" {
		t.Fatalf("expected GitHub token from env, got %q", cfg.GitHub.Token)
	}
	if cfg.GitHub.Owner != "octo" || cfg.GitHub.Repo != "widgets" {
		t.Fatalf("expected repository from GITHUB_REPOSITORY, got %q/%q", cfg.GitHub.Owner, cfg.GitHub.Repo)
	}
	if cfg.LLM.APIKey != "openai-key" || cfg.Speech.APIKey != "openai-key" {
		t.Fatalf("expected OPENAI_API_KEY fallback for llm and speech, got %q and %q", cfg.LLM.APIKey, cfg.Speech.APIKey)
	}
	if cfg.Speech.Voice != "alloy" || cfg.Speech.Model != "tts-1" || cfg.Speech.Speed != 1.0 {
		t.Fatalf("unexpected speech defaults: %+v", cfg.Speech)
	}
	if cfg.Resolution() != "1920x1080" || cfg.Video.FPS != 30 || cfg.Video.Bitrate != "5M" {
		t.Fatalf("unexpected video defaults: %+v", cfg.Video)
	}
	if cfg.Video.MaxDurationSeconds != 600 {
		t.Fatalf("unexpected max duration: %d", cfg.Video.MaxDurationSeconds)
	}
	if cfg.LLM.Model != "gpt-4o-mini" || cfg.LLM.MaxBodyChars != 3000 {
		t.Fatalf("unexpected llm defaults: %+v", cfg.LLM)
	}
	if cfg.YouTube.Privacy != "unlisted" || cfg.YouTube.CategoryID != "28" {
		t.Fatalf("unexpected youtube defaults: %+v", cfg.YouTube)
	}
	if cfg.UploadConfigured() {
		t.Fatal("expected upload to be unconfigured without youtube credentials")
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadSpecificLLMKeyWinsOverOpenAIKey(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	t.Setenv("OPENAI_API_KEY", "shared")
	t.Setenv("LLM_API_KEY", "llm-only")
	t.Setenv("TTS_API_KEY", "tts-only")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LLM.APIKey != "llm-only" {
		t.Fatalf("expected LLM_API_KEY to win, got %q", cfg.LLM.APIKey)
	}
	if cfg.Speech.APIKey != "tts-only" {
		t.Fatalf("expected TTS_API_KEY to win, got %q", cfg.Speech.APIKey)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("YOUTUBE_CLIENT_ID=cid\nYOUTUBE_CLIENT_SECRET=secret\nYOUTUBE_REFRESH_TOKEN=refresh\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("YOUTUBE_CLIENT_ID")
		os.Unsetenv("YOUTUBE_CLIENT_SECRET")
		os.Unsetenv("YOUTUBE_REFRESH_TOKEN")
	})

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cfg.UploadConfigured() {
		t.Fatalf("expected upload credentials from .env, got %+v", cfg.YouTube)
	}
}

func TestLoadRejectsMalformedDotEnv(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("BAD-KEY=1\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	_, _, _, err := config.Load("")
	if err == nil || !strings.Contains(err.Error(), "load .env") {
		t.Fatalf("expected .env parse error, got %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	clearCredentialEnv(t)
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	configPath := filepath.Join(t.TempDir(), "config.toml")
	payload := map[string]any{
		"paths": map[string]any{
			"work_root": "~/videos/work",
		},
		"github": map[string]any{
			"token": "file-token",
			"owner": "acme",
			"repo":  "rockets",
		},
		"video": map[string]any{
			"width":            1280,
			"height":           720,
			"background_color": "000000",
		},
		"youtube": map[string]any{
			"privacy":      "PUBLIC",
			"default_tags": []string{"go", " Go ", "", "video"},
		},
		"logging": map[string]any{
			"format": "JSON",
		},
	}
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected existing config at %q, got %q (exists=%v)", configPath, resolved, exists)
	}
	if cfg.Paths.WorkRoot != filepath.Join(tempHome, "videos", "work") {
		t.Fatalf("unexpected work root: %q", cfg.Paths.WorkRoot)
	}
	if cfg.GitHub.Token != "file-token" || cfg.GitHub.Owner != "acme" {
		t.Fatalf("unexpected github section: %+v", cfg.GitHub)
	}
	if cfg.Resolution() != "1280x720" {
		t.Fatalf("unexpected resolution %q", cfg.Resolution())
	}
	if cfg.Video.BackgroundColor != "#000000" {
		t.Fatalf("expected colour normalized with leading #, got %q", cfg.Video.BackgroundColor)
	}
	if cfg.YouTube.Privacy != "public" {
		t.Fatalf("expected lowercase privacy, got %q", cfg.YouTube.Privacy)
	}
	if got := strings.Join(cfg.YouTube.DefaultTags, ","); got != "go,video" {
		t.Fatalf("unexpected default tags %q", got)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json logging, got %q", cfg.Logging.Format)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"privacy", func(c *config.Config) { c.YouTube.Privacy = "friends" }, "youtube.privacy"},
		{"odd width", func(c *config.Config) { c.Video.Width = 1921 }, "even"},
		{"colour", func(c *config.Config) { c.Video.AccentColor = "blue" }, "video.accent_color"},
		{"speed", func(c *config.Config) { c.Speech.Speed = 9 }, "speech.speed"},
		{"format", func(c *config.Config) { c.Speech.Format = "ogg" }, "speech.format"},
		{"archive", func(c *config.Config) { c.Archive.Enabled = true }, "archive.endpoint"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestRequireCredentials(t *testing.T) {
	cfg := config.Default()
	err := cfg.RequireCredentials(true)
	if err == nil {
		t.Fatal("expected missing credential error")
	}
	for _, want := range []string{"github.token", "llm.api_key", "speech.api_key"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %v", want, err)
		}
	}

	cfg.GitHub.Token = "t"
	cfg.Speech.APIKey = "s"
	if err := cfg.RequireCredentials(false); err != nil {
		t.Fatalf("expected script-file run to skip llm key, got %v", err)
	}
}

func TestSplitRepository(t *testing.T) {
	if owner, repo, ok := config.SplitRepository("a/b"); !ok || owner != "a" || repo != "b" {
		t.Fatalf("unexpected split: %q %q %v", owner, repo, ok)
	}
	for _, bad := range []string{"", "a", "a/", "/b", "a/b/c"} {
		if _, _, ok := config.SplitRepository(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if len(cfg.YouTube.DefaultTags) != 2 {
		t.Fatalf("unexpected sample tags %v", cfg.YouTube.DefaultTags)
	}
}
