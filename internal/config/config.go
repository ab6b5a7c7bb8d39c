package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkRoot string `toml:"work_root"`
	LogDir   string `toml:"log_dir"`
}

// GitHub contains configuration for the issue tracker API.
type GitHub struct {
	Token          string `toml:"token"`
	Owner          string `toml:"owner"`
	Repo           string `toml:"repo"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// LLM contains completion service settings used by script generation.
type LLM struct {
	APIKey         string  `toml:"api_key"`
	BaseURL        string  `toml:"base_url"`
	Model          string  `toml:"model"`
	Temperature    float64 `toml:"temperature"`
	MaxTokens      int     `toml:"max_tokens"`
	MaxBodyChars   int     `toml:"max_body_chars"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// Speech contains text-to-speech settings.
type Speech struct {
	APIKey         string  `toml:"api_key"`
	BaseURL        string  `toml:"base_url"`
	Model          string  `toml:"model"`
	Voice          string  `toml:"voice"`
	Speed          float64 `toml:"speed"`
	Format         string  `toml:"format"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// Video contains rendering and encoding settings.
type Video struct {
	Width              int    `toml:"width"`
	Height             int    `toml:"height"`
	FPS                int    `toml:"fps"`
	Bitrate            string `toml:"bitrate"`
	AudioBitrate       string `toml:"audio_bitrate"`
	MaxDurationSeconds int    `toml:"max_duration_seconds"`
	BackgroundColor    string `toml:"background_color"`
	TextColor          string `toml:"text_color"`
	AccentColor        string `toml:"accent_color"`
	FFmpegBinary       string `toml:"ffmpeg_binary"`
	FFprobeBinary      string `toml:"ffprobe_binary"`
	// SlideRenderer is an optional HTML-to-image command (for example
	// "wkhtmltoimage"). When empty, placeholder slides are drawn in-process.
	SlideRenderer string `toml:"slide_renderer"`
}

// YouTube contains configuration for the video-hosting upload.
type YouTube struct {
	ClientID       string   `toml:"client_id"`
	ClientSecret   string   `toml:"client_secret"`
	RefreshToken   string   `toml:"refresh_token"`
	TokenURL       string   `toml:"token_url"`
	UploadURL      string   `toml:"upload_url"`
	APIBaseURL     string   `toml:"api_base_url"`
	CategoryID     string   `toml:"category_id"`
	Privacy        string   `toml:"privacy"`
	PlaylistID     string   `toml:"playlist_id"`
	DefaultTags    []string `toml:"default_tags"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// Archive contains optional S3-compatible storage for finished runs.
type Archive struct {
	Enabled   bool   `toml:"enabled"`
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Bucket    string `toml:"bucket"`
	Prefix    string `toml:"prefix"`
	UseSSL    bool   `toml:"use_ssl"`
}

// Metrics contains configuration for the Prometheus textfile export.
type Metrics struct {
	TextfilePath string `toml:"textfile_path"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for issuereel.
//
// Configuration sections by subsystem:
//   - Paths: working directory root and log directory
//   - GitHub: issue tracker credentials and default repository
//   - LLM: completion service used for script generation
//   - Speech: text-to-speech service used for narration
//   - Video: slide styling and encoder parameters
//   - YouTube: upload credentials and video defaults
//   - Archive: optional MinIO/S3 copy of finished runs
//   - Metrics: Prometheus textfile output
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	GitHub        GitHub        `toml:"github"`
	LLM           LLM           `toml:"llm"`
	Speech        Speech        `toml:"speech"`
	Video         Video         `toml:"video"`
	YouTube       YouTube       `toml:"youtube"`
	Archive       Archive       `toml:"archive"`
	Metrics       Metrics       `toml:"metrics"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/issuereel/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized. A .env file in the current directory is loaded
// first so credentials can be supplied without exporting them.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	if err := loadDotEnv(); err != nil {
		return nil, "", false, err
	}

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// loadDotEnv reads ./.env without overriding variables already present. A
// missing file is fine; a malformed one is an error.
func loadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	if err := godotenv.Load(".env"); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("issuereel.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the work root and log directory.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkRoot, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable used for composition.
func (c *Config) FFmpegBinary() string {
	if bin := strings.TrimSpace(c.Video.FFmpegBinary); bin != "" {
		return bin
	}
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable name used for media validation.
func (c *Config) FFprobeBinary() string {
	if bin := strings.TrimSpace(c.Video.FFprobeBinary); bin != "" {
		return bin
	}
	return "ffprobe"
}

// UploadConfigured reports whether every credential needed for publishing is present.
func (c *Config) UploadConfigured() bool {
	return strings.TrimSpace(c.YouTube.ClientID) != "" &&
		strings.TrimSpace(c.YouTube.ClientSecret) != "" &&
		strings.TrimSpace(c.YouTube.RefreshToken) != ""
}

// Resolution renders the configured frame size as WIDTHxHEIGHT.
func (c *Config) Resolution() string {
	return fmt.Sprintf("%dx%d", c.Video.Width, c.Video.Height)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// LLMConfig contains the completion settings handed to the LLM client.
type LLMConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// GetLLM returns the completion connection settings.
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		APIKey:         strings.TrimSpace(c.LLM.APIKey),
		BaseURL:        strings.TrimSpace(c.LLM.BaseURL),
		Model:          strings.TrimSpace(c.LLM.Model),
		TimeoutSeconds: c.LLM.TimeoutSeconds,
	}
}
