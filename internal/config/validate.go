package config

import (
	"errors"
	"fmt"
	"strings"
)

var validPrivacy = map[string]struct{}{
	"public":   {},
	"unlisted": {},
	"private":  {},
}

var validSpeechFormats = map[string]struct{}{
	"mp3":  {},
	"opus": {},
	"aac":  {},
	"flac": {},
	"wav":  {},
}

// Validate ensures the configuration is usable. Credentials are not required here;
// commands that need them check with RequireCredentials.
func (c *Config) Validate() error {
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateSpeech(); err != nil {
		return err
	}
	if err := c.validateVideo(); err != nil {
		return err
	}
	if err := c.validateYouTube(); err != nil {
		return err
	}
	if err := c.validateArchive(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLLM() error {
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return errors.New("llm.temperature must be between 0 and 2")
	}
	return nil
}

func (c *Config) validateSpeech() error {
	if c.Speech.Speed < 0.25 || c.Speech.Speed > 4 {
		return errors.New("speech.speed must be between 0.25 and 4.0")
	}
	if _, ok := validSpeechFormats[c.Speech.Format]; !ok {
		return fmt.Errorf("speech.format %q is not supported (mp3, opus, aac, flac, wav)", c.Speech.Format)
	}
	return nil
}

func (c *Config) validateVideo() error {
	if c.Video.Width%2 != 0 || c.Video.Height%2 != 0 {
		return errors.New("video.width and video.height must be even for yuv420p output")
	}
	for key, value := range map[string]string{
		"video.background_color": c.Video.BackgroundColor,
		"video.text_color":       c.Video.TextColor,
		"video.accent_color":     c.Video.AccentColor,
	} {
		if !isHexColor(value) {
			return fmt.Errorf("%s must be a #rrggbb colour, got %q", key, value)
		}
	}
	return nil
}

func (c *Config) validateYouTube() error {
	if _, ok := validPrivacy[c.YouTube.Privacy]; !ok {
		return fmt.Errorf("youtube.privacy must be public, unlisted, or private (got %q)", c.YouTube.Privacy)
	}
	return nil
}

func (c *Config) validateArchive() error {
	if !c.Archive.Enabled {
		return nil
	}
	if c.Archive.Endpoint == "" {
		return errors.New("archive.endpoint must be set when archive.enabled is true")
	}
	if c.Archive.AccessKey == "" || c.Archive.SecretKey == "" {
		return errors.New("archive.access_key and archive.secret_key must be set when archive.enabled is true (or set MINIO_ACCESS_KEY/MINIO_SECRET_KEY)")
	}
	return nil
}

// RequireCredentials reports missing credentials needed by a generate run.
// The completion key is only needed when no script file is supplied.
func (c *Config) RequireCredentials(needLLM bool) error {
	var missing []string
	if strings.TrimSpace(c.GitHub.Token) == "" {
		missing = append(missing, "github.token (GITHUB_TOKEN)")
	}
	if needLLM && strings.TrimSpace(c.LLM.APIKey) == "" {
		missing = append(missing, "llm.api_key (LLM_API_KEY or OPENAI_API_KEY)")
	}
	if strings.TrimSpace(c.Speech.APIKey) == "" {
		missing = append(missing, "speech.api_key (TTS_API_KEY or OPENAI_API_KEY)")
	}
	if len(missing) == 0 {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = "~/.config/issuereel/config.toml"
	}
	return fmt.Errorf("missing credentials: %s. Set the environment variables or edit %s (create with 'issuereel config init')", strings.Join(missing, ", "), defaultPath)
}

func isHexColor(value string) bool {
	if len(value) != 7 || value[0] != '#' {
		return false
	}
	for _, r := range value[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f':
		default:
			return false
		}
	}
	return true
}
