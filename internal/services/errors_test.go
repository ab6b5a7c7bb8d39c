package services_test

import (
	"errors"
	"strings"
	"testing"

	"issuereel/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrComposition, "composing", "ffmpeg", "encode failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrComposition) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "composition error: composing: ffmpeg: encode failed: boom") {
		t.Fatalf("unexpected error string %q", msg)
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := services.Wrap(services.ErrValidation, "", "", "", nil)
	if err.Error() != "validation error: service failure" {
		t.Fatalf("unexpected error string %q", err.Error())
	}
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{services.Wrap(services.ErrRemoteFetch, "extracting", "issue", "", nil), "remote_fetch"},
		{services.Wrap(services.ErrAudioSynthesis, "audio", "section 2", "", nil), "audio_synthesis"},
		{services.Wrap(services.ErrDependencyMissing, "deps", "ffmpeg", "", nil), "dependency_missing"},
		{errors.New("plain"), "unknown"},
	}
	for _, tc := range cases {
		if got := services.KindOf(tc.err); got != tc.want {
			t.Fatalf("KindOf(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
	if got := services.KindOf(nil); got != "" {
		t.Fatalf("expected empty kind for nil, got %q", got)
	}
}

func TestIsFatal(t *testing.T) {
	if services.IsFatal(nil) {
		t.Fatal("nil must not be fatal")
	}
	if services.IsFatal(services.Wrap(services.ErrLinkPost, "publishing", "comment", "", nil)) {
		t.Fatal("link post failure must not be fatal")
	}
	if !services.IsFatal(services.Wrap(services.ErrUpload, "publishing", "put", "", nil)) {
		t.Fatal("upload failure must be fatal")
	}
}
