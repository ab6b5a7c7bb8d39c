package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeGitHub()
	c.normalizeLLM()
	c.normalizeSpeech()
	c.normalizeVideo()
	c.normalizeYouTube()
	c.normalizeArchive()
	if err := c.normalizeMetrics(); err != nil {
		return err
	}
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkRoot) == "" {
		c.Paths.WorkRoot = defaultWorkRoot
	}
	if c.Paths.WorkRoot, err = expandPath(c.Paths.WorkRoot); err != nil {
		return fmt.Errorf("paths.work_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeGitHub() {
	c.GitHub.Token = firstNonEmpty(c.GitHub.Token, envValue("GITHUB_TOKEN"))
	c.GitHub.Owner = strings.TrimSpace(c.GitHub.Owner)
	c.GitHub.Repo = strings.TrimSpace(c.GitHub.Repo)
	if c.GitHub.Owner == "" && c.GitHub.Repo == "" {
		if owner, repo, ok := SplitRepository(envValue("GITHUB_REPOSITORY")); ok {
			c.GitHub.Owner = owner
			c.GitHub.Repo = repo
		}
	}
	c.GitHub.BaseURL = strings.TrimRight(strings.TrimSpace(c.GitHub.BaseURL), "/")
	if c.GitHub.BaseURL == "" {
		c.GitHub.BaseURL = defaultGitHubBaseURL
	}
	if c.GitHub.TimeoutSeconds <= 0 {
		c.GitHub.TimeoutSeconds = defaultGitHubTimeout
	}
}

func (c *Config) normalizeLLM() {
	c.LLM.APIKey = firstNonEmpty(c.LLM.APIKey, envValue("LLM_API_KEY"), envValue("OPENAI_API_KEY"))
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = defaultLLMMaxTokens
	}
	if c.LLM.MaxBodyChars <= 0 {
		c.LLM.MaxBodyChars = defaultLLMMaxBodyChars
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeout
	}
}

func (c *Config) normalizeSpeech() {
	c.Speech.APIKey = firstNonEmpty(c.Speech.APIKey, envValue("TTS_API_KEY"), envValue("OPENAI_API_KEY"))
	c.Speech.BaseURL = strings.TrimSpace(c.Speech.BaseURL)
	if c.Speech.BaseURL == "" {
		c.Speech.BaseURL = defaultSpeechBaseURL
	}
	c.Speech.Model = strings.TrimSpace(c.Speech.Model)
	if c.Speech.Model == "" {
		c.Speech.Model = defaultSpeechModel
	}
	c.Speech.Voice = strings.ToLower(strings.TrimSpace(c.Speech.Voice))
	if c.Speech.Voice == "" {
		c.Speech.Voice = defaultSpeechVoice
	}
	if c.Speech.Speed <= 0 {
		c.Speech.Speed = defaultSpeechSpeed
	}
	c.Speech.Format = strings.ToLower(strings.TrimSpace(c.Speech.Format))
	if c.Speech.Format == "" {
		c.Speech.Format = defaultSpeechFormat
	}
	if c.Speech.TimeoutSeconds <= 0 {
		c.Speech.TimeoutSeconds = defaultSpeechTimeout
	}
}

func (c *Config) normalizeVideo() {
	if c.Video.Width <= 0 {
		c.Video.Width = defaultVideoWidth
	}
	if c.Video.Height <= 0 {
		c.Video.Height = defaultVideoHeight
	}
	if c.Video.FPS <= 0 {
		c.Video.FPS = defaultVideoFPS
	}
	c.Video.Bitrate = strings.TrimSpace(c.Video.Bitrate)
	if c.Video.Bitrate == "" {
		c.Video.Bitrate = defaultVideoBitrate
	}
	c.Video.AudioBitrate = strings.TrimSpace(c.Video.AudioBitrate)
	if c.Video.AudioBitrate == "" {
		c.Video.AudioBitrate = defaultAudioBitrate
	}
	if c.Video.MaxDurationSeconds <= 0 {
		c.Video.MaxDurationSeconds = defaultMaxDurationSeconds
	}
	c.Video.BackgroundColor = normalizeColor(c.Video.BackgroundColor, defaultBackgroundColor)
	c.Video.TextColor = normalizeColor(c.Video.TextColor, defaultTextColor)
	c.Video.AccentColor = normalizeColor(c.Video.AccentColor, defaultAccentColor)
	c.Video.FFmpegBinary = strings.TrimSpace(c.Video.FFmpegBinary)
	c.Video.FFprobeBinary = strings.TrimSpace(c.Video.FFprobeBinary)
	c.Video.SlideRenderer = strings.TrimSpace(c.Video.SlideRenderer)
}

func (c *Config) normalizeYouTube() {
	c.YouTube.ClientID = firstNonEmpty(c.YouTube.ClientID, envValue("YOUTUBE_CLIENT_ID"))
	c.YouTube.ClientSecret = firstNonEmpty(c.YouTube.ClientSecret, envValue("YOUTUBE_CLIENT_SECRET"))
	c.YouTube.RefreshToken = firstNonEmpty(c.YouTube.RefreshToken, envValue("YOUTUBE_REFRESH_TOKEN"))
	c.YouTube.TokenURL = strings.TrimSpace(c.YouTube.TokenURL)
	if c.YouTube.TokenURL == "" {
		c.YouTube.TokenURL = defaultYouTubeTokenURL
	}
	c.YouTube.UploadURL = strings.TrimSpace(c.YouTube.UploadURL)
	if c.YouTube.UploadURL == "" {
		c.YouTube.UploadURL = defaultYouTubeUploadURL
	}
	c.YouTube.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.YouTube.APIBaseURL), "/")
	if c.YouTube.APIBaseURL == "" {
		c.YouTube.APIBaseURL = defaultYouTubeAPIBaseURL
	}
	c.YouTube.CategoryID = strings.TrimSpace(c.YouTube.CategoryID)
	if c.YouTube.CategoryID == "" {
		c.YouTube.CategoryID = defaultYouTubeCategoryID
	}
	c.YouTube.Privacy = strings.ToLower(strings.TrimSpace(c.YouTube.Privacy))
	if c.YouTube.Privacy == "" {
		c.YouTube.Privacy = defaultYouTubePrivacy
	}
	c.YouTube.PlaylistID = strings.TrimSpace(c.YouTube.PlaylistID)
	if c.YouTube.TimeoutSeconds <= 0 {
		c.YouTube.TimeoutSeconds = defaultYouTubeTimeout
	}
	tags := make([]string, 0, len(c.YouTube.DefaultTags))
	seen := make(map[string]struct{}, len(c.YouTube.DefaultTags))
	for _, tag := range c.YouTube.DefaultTags {
		normalized := strings.TrimSpace(tag)
		if normalized == "" {
			continue
		}
		key := strings.ToLower(normalized)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, normalized)
	}
	c.YouTube.DefaultTags = tags
}

func (c *Config) normalizeArchive() {
	c.Archive.Endpoint = strings.TrimSpace(c.Archive.Endpoint)
	c.Archive.AccessKey = firstNonEmpty(c.Archive.AccessKey, envValue("MINIO_ACCESS_KEY"))
	c.Archive.SecretKey = firstNonEmpty(c.Archive.SecretKey, envValue("MINIO_SECRET_KEY"))
	c.Archive.Bucket = strings.TrimSpace(c.Archive.Bucket)
	if c.Archive.Bucket == "" {
		c.Archive.Bucket = defaultArchiveBucket
	}
	c.Archive.Prefix = strings.Trim(strings.TrimSpace(c.Archive.Prefix), "/")
}

func (c *Config) normalizeMetrics() error {
	if strings.TrimSpace(c.Metrics.TextfilePath) == "" {
		c.Metrics.TextfilePath = ""
		return nil
	}
	var err error
	if c.Metrics.TextfilePath, err = expandPath(c.Metrics.TextfilePath); err != nil {
		return fmt.Errorf("metrics.textfile_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = firstNonEmpty(c.Notifications.NtfyTopic, envValue("NTFY_TOPIC"))
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotificationTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// SplitRepository parses an "owner/repo" reference.
func SplitRepository(value string) (string, string, bool) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(value), "/")
	owner = strings.TrimSpace(owner)
	repo = strings.TrimSpace(repo)
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", false
	}
	return owner, repo, true
}

func envValue(key string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func normalizeColor(value, fallback string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return fallback
	}
	if !strings.HasPrefix(value, "#") {
		value = "#" + value
	}
	return value
}
