package config

const (
	defaultWorkRoot            = "~/.local/share/issuereel/runs"
	defaultLogDir              = "~/.local/share/issuereel/logs"
	defaultGitHubBaseURL       = "https://api.github.com"
	defaultGitHubTimeout       = 30
	defaultLLMBaseURL          = "https://api.openai.com/v1/chat/completions"
	defaultLLMModel            = "gpt-4o-mini"
	defaultLLMTemperature      = 0.7
	defaultLLMMaxTokens        = 4000
	defaultLLMMaxBodyChars     = 3000
	defaultLLMTimeout          = 60
	defaultSpeechBaseURL       = "https://api.openai.com/v1/audio/speech"
	defaultSpeechModel         = "tts-1"
	defaultSpeechVoice         = "alloy"
	defaultSpeechSpeed         = 1.0
	defaultSpeechFormat        = "mp3"
	defaultSpeechTimeout       = 60
	defaultVideoWidth          = 1920
	defaultVideoHeight         = 1080
	defaultVideoFPS            = 30
	defaultVideoBitrate        = "5M"
	defaultAudioBitrate        = "192k"
	defaultMaxDurationSeconds  = 600
	defaultBackgroundColor     = "#1e1e2e"
	defaultTextColor           = "#cdd6f4"
	defaultAccentColor         = "#89b4fa"
	defaultYouTubeTokenURL     = "https://oauth2.googleapis.com/token"
	defaultYouTubeUploadURL    = "https://www.googleapis.com/upload/youtube/v3/videos"
	defaultYouTubeAPIBaseURL   = "https://www.googleapis.com/youtube/v3"
	defaultYouTubeCategoryID   = "28"
	defaultYouTubePrivacy      = "unlisted"
	defaultYouTubeTimeout      = 600
	defaultArchiveBucket       = "issuereel"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultNotificationTimeout = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkRoot: defaultWorkRoot,
			LogDir:   defaultLogDir,
		},
		GitHub: GitHub{
			BaseURL:        defaultGitHubBaseURL,
			TimeoutSeconds: defaultGitHubTimeout,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Temperature:    defaultLLMTemperature,
			MaxTokens:      defaultLLMMaxTokens,
			MaxBodyChars:   defaultLLMMaxBodyChars,
			TimeoutSeconds: defaultLLMTimeout,
		},
		Speech: Speech{
			BaseURL:        defaultSpeechBaseURL,
			Model:          defaultSpeechModel,
			Voice:          defaultSpeechVoice,
			Speed:          defaultSpeechSpeed,
			Format:         defaultSpeechFormat,
			TimeoutSeconds: defaultSpeechTimeout,
		},
		Video: Video{
			Width:              defaultVideoWidth,
			Height:             defaultVideoHeight,
			FPS:                defaultVideoFPS,
			Bitrate:            defaultVideoBitrate,
			AudioBitrate:       defaultAudioBitrate,
			MaxDurationSeconds: defaultMaxDurationSeconds,
			BackgroundColor:    defaultBackgroundColor,
			TextColor:          defaultTextColor,
			AccentColor:        defaultAccentColor,
		},
		YouTube: YouTube{
			TokenURL:       defaultYouTubeTokenURL,
			UploadURL:      defaultYouTubeUploadURL,
			APIBaseURL:     defaultYouTubeAPIBaseURL,
			CategoryID:     defaultYouTubeCategoryID,
			Privacy:        defaultYouTubePrivacy,
			TimeoutSeconds: defaultYouTubeTimeout,
		},
		Archive: Archive{
			Bucket: defaultArchiveBucket,
			UseSSL: true,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotificationTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
