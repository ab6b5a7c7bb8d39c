package publish

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"issuereel/internal/logging"
	"issuereel/internal/services"
	"issuereel/internal/services/github"
	"issuereel/internal/services/youtube"
)

const (
	watchURLPrefix   = "https://www.youtube.com/watch?v="
	videoContentType = "video/mp4"
)

// Uploader is the video-hosting client.
type Uploader interface {
	RefreshAccessToken(ctx context.Context) (*oauth2.Token, error)
	InitUpload(ctx context.Context, token *oauth2.Token, meta youtube.VideoMetadata, contentLength int64, contentType string) (string, error)
	UploadBytes(ctx context.Context, token *oauth2.Token, sessionURL string, content io.Reader, contentLength int64, contentType string) (youtube.Video, error)
	AddToPlaylist(ctx context.Context, token *oauth2.Token, playlistID, videoID string) error
}

// Commenter posts comments on tracker records.
type Commenter interface {
	CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) (github.Comment, error)
}

// UploadResult identifies the published video.
type UploadResult struct {
	RemoteID   string    `json:"remoteId"`
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Publisher uploads videos and links them back to their records.
type Publisher struct {
	uploader  Uploader
	commenter Commenter
	logger    *slog.Logger
	now       func() time.Time
}

// NewPublisher constructs a publisher.
func NewPublisher(uploader Uploader, commenter Commenter, logger *slog.Logger) *Publisher {
	return &Publisher{
		uploader:  uploader,
		commenter: commenter,
		logger:    logging.NewComponentLogger(logger, "publish"),
		now:       time.Now,
	}
}

// Publish exchanges the refresh token, opens a resumable session and sends the
// file in one PUT. Token failure is ErrAuth; either upload phase failing is
// ErrUpload. A failed playlist insert only warns.
func (p *Publisher) Publish(ctx context.Context, videoPath string, meta Metadata) (UploadResult, error) {
	logger := logging.WithContext(ctx, p.logger)

	token, err := p.uploader.RefreshAccessToken(ctx)
	if err != nil {
		return UploadResult{}, services.Wrap(services.ErrAuth, "publishing", "refresh token", "access token exchange failed", err)
	}

	file, err := os.Open(videoPath)
	if err != nil {
		return UploadResult{}, services.Wrap(services.ErrUpload, "publishing", "open video", videoPath, err)
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return UploadResult{}, services.Wrap(services.ErrUpload, "publishing", "stat video", videoPath, err)
	}

	session, err := p.uploader.InitUpload(ctx, token, youtube.VideoMetadata{
		Title:       meta.Title,
		Description: meta.Description,
		Tags:        meta.Tags,
		CategoryID:  meta.CategoryID,
		Privacy:     meta.Privacy,
	}, info.Size(), videoContentType)
	if err != nil {
		return UploadResult{}, services.Wrap(services.ErrUpload, "publishing", "init session", meta.Title, err)
	}
	logger.Info("upload session opened", logging.Int64("video_bytes", info.Size()))

	video, err := p.uploader.UploadBytes(ctx, token, session, file, info.Size(), videoContentType)
	if err != nil {
		return UploadResult{}, services.Wrap(services.ErrUpload, "publishing", "transfer", videoPath, err)
	}
	title := meta.Title
	if remote := strings.TrimSpace(video.Snippet.Title); remote != "" {
		title = remote
	}
	result := UploadResult{
		RemoteID:   video.ID,
		URL:        watchURLPrefix + video.ID,
		Title:      title,
		UploadedAt: p.now().UTC(),
	}
	logger.Info("video uploaded",
		logging.String("remote_id", result.RemoteID),
		logging.String("url", result.URL),
		logging.String("privacy", meta.Privacy),
	)

	if meta.PlaylistID != "" {
		if err := p.uploader.AddToPlaylist(ctx, token, meta.PlaylistID, video.ID); err != nil {
			logging.WarnWithContext(logger, "playlist insert failed", "publish_playlist_failed",
				logging.String("playlist_id", meta.PlaylistID),
				logging.Error(err),
				logging.String(logging.FieldImpact, "video is published but not in the playlist"),
				logging.String(logging.FieldErrorHint, "add the video to the playlist manually"),
			)
		}
	}
	return result, nil
}

// PostLink comments the video URL on the originating record. Failures are
// wrapped with ErrLinkPost, which callers treat as non-fatal.
func (p *Publisher) PostLink(ctx context.Context, owner, repo string, number int, url string) error {
	body := fmt.Sprintf("🎬 A video walkthrough of this is now available: %s", url)
	if _, err := p.commenter.CreateIssueComment(ctx, owner, repo, number, body); err != nil {
		return services.Wrap(services.ErrLinkPost, "publishing", "post comment", fmt.Sprintf("%s/%s#%d", owner, repo, number), err)
	}
	logging.WithContext(ctx, p.logger).Info("video link posted",
		logging.String("repository", owner+"/"+repo),
		logging.Int("number", number),
	)
	return nil
}
