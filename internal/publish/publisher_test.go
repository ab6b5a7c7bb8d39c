package publish

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"issuereel/internal/services"
	"issuereel/internal/services/github"
	"issuereel/internal/services/youtube"
)

type fakeUploader struct {
	tokenErr    error
	initErr     error
	uploadErr   error
	playlistErr error
	uploaded    []byte
	playlist    string
	remoteTitle string
}

func (f *fakeUploader) RefreshAccessToken(context.Context) (*oauth2.Token, error) {
	if f.tokenErr != nil {
		return nil, f.tokenErr
	}
	return &oauth2.Token{AccessToken: "access"}, nil
}

func (f *fakeUploader) InitUpload(_ context.Context, _ *oauth2.Token, _ youtube.VideoMetadata, _ int64, _ string) (string, error) {
	if f.initErr != nil {
		return "", f.initErr
	}
	return "https://upload.example/session", nil
}

func (f *fakeUploader) UploadBytes(_ context.Context, _ *oauth2.Token, _ string, content io.Reader, _ int64, _ string) (youtube.Video, error) {
	if f.uploadErr != nil {
		return youtube.Video{}, f.uploadErr
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return youtube.Video{}, err
	}
	f.uploaded = data
	video := youtube.Video{ID: "abc123"}
	video.Snippet.Title = f.remoteTitle
	return video, nil
}

func (f *fakeUploader) AddToPlaylist(_ context.Context, _ *oauth2.Token, playlistID, _ string) error {
	f.playlist = playlistID
	return f.playlistErr
}

type fakeCommenter struct {
	err  error
	body string
}

func (f *fakeCommenter) CreateIssueComment(_ context.Context, _, _ string, _ int, body string) (github.Comment, error) {
	f.body = body
	return github.Comment{ID: 1}, f.err
}

func writeVideo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "video.mp4")
	require.NoError(t, os.WriteFile(path, []byte("mp4-bytes"), 0o644))
	return path
}

func TestPublishUploadsAndBuildsURL(t *testing.T) {
	uploader := &fakeUploader{playlistErr: errors.New("forbidden")}
	publisher := NewPublisher(uploader, &fakeCommenter{}, nil)

	result, err := publisher.Publish(context.Background(), writeVideo(t), Metadata{Title: "Demo", PlaylistID: "PL1"})
	require.NoError(t, err)
	require.Equal(t, "abc123", result.RemoteID)
	require.Equal(t, "https://www.youtube.com/watch?v=abc123", result.URL)
	require.Equal(t, "mp4-bytes", string(uploader.uploaded))
	require.Equal(t, "PL1", uploader.playlist)
	require.Equal(t, "Demo", result.Title)
	require.False(t, result.UploadedAt.IsZero())
}

func TestPublishPrefersRemoteTitle(t *testing.T) {
	uploader := &fakeUploader{remoteTitle: "Demo (trimmed by host)"}
	result, err := NewPublisher(uploader, &fakeCommenter{}, nil).Publish(context.Background(), writeVideo(t), Metadata{Title: "Demo"})
	require.NoError(t, err)
	require.Equal(t, "Demo (trimmed by host)", result.Title)
}

func TestPublishErrorKinds(t *testing.T) {
	tests := []struct {
		name     string
		uploader *fakeUploader
		marker   error
	}{
		{"token", &fakeUploader{tokenErr: errors.New("invalid_grant")}, services.ErrAuth},
		{"init", &fakeUploader{initErr: errors.New("quota")}, services.ErrUpload},
		{"transfer", &fakeUploader{uploadErr: errors.New("reset")}, services.ErrUpload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPublisher(tt.uploader, &fakeCommenter{}, nil).Publish(context.Background(), writeVideo(t), Metadata{})
			require.ErrorIs(t, err, tt.marker)
		})
	}
}

func TestPostLink(t *testing.T) {
	commenter := &fakeCommenter{}
	publisher := NewPublisher(&fakeUploader{}, commenter, nil)
	require.NoError(t, publisher.PostLink(context.Background(), "octo", "widgets", 6, "https://www.youtube.com/watch?v=abc123"))
	require.Contains(t, commenter.body, "https://www.youtube.com/watch?v=abc123")

	commenter.err = errors.New("403")
	err := publisher.PostLink(context.Background(), "octo", "widgets", 6, "u")
	require.ErrorIs(t, err, services.ErrLinkPost)
	require.False(t, services.IsFatal(err))
}
