package narration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"issuereel/internal/script"
	"issuereel/internal/services"
	"issuereel/internal/services/speech"
)

type stubSpeech struct {
	requests []speech.Request
	failAt   int
}

func (s *stubSpeech) Synthesize(_ context.Context, req speech.Request) ([]byte, error) {
	s.requests = append(s.requests, req)
	if s.failAt > 0 && len(s.requests) == s.failAt {
		return nil, &speech.StatusError{StatusCode: 500, Body: "down"}
	}
	return []byte("audio:" + req.Input), nil
}

func TestSynthesizeSkipsBlankNarration(t *testing.T) {
	vs := script.VideoScript{Sections: []script.Section{
		{Narration: "one two three four five"},
		{Narration: "   "},
		{Narration: "six seven"},
	}}
	dir := t.TempDir()
	client := &stubSpeech{}

	result, err := NewService(client, nil).Synthesize(context.Background(), vs, dir, Options{Voice: "alloy", Model: "tts-1", Speed: 1, Format: "mp3"})
	if err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}
	if len(client.requests) != 2 {
		t.Fatalf("expected 2 speech calls, got %d", len(client.requests))
	}
	if len(result.Segments) != 2 || result.Segments[0].SectionIndex != 0 || result.Segments[1].SectionIndex != 2 {
		t.Fatalf("unexpected segments %+v", result.Segments)
	}
	if result.Segments[0].DurationSeconds != 2 || result.Segments[1].DurationSeconds != 1 {
		t.Fatalf("unexpected durations %+v", result.Segments)
	}
	if result.TotalDurationSeconds != 3 {
		t.Fatalf("unexpected total %d", result.TotalDurationSeconds)
	}
	data, err := os.ReadFile(filepath.Join(dir, "section-02.mp3"))
	if err != nil || string(data) != "audio:six seven" {
		t.Fatalf("unexpected audio file %q, %v", data, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "section-01.mp3")); !os.IsNotExist(err) {
		t.Fatal("blank section should not produce a file")
	}
}

func TestSynthesizeAbortsOnFailure(t *testing.T) {
	vs := script.VideoScript{Sections: []script.Section{
		{Narration: "a"}, {Narration: "b"}, {Narration: "c"},
	}}
	client := &stubSpeech{failAt: 2}
	_, err := NewService(client, nil).Synthesize(context.Background(), vs, t.TempDir(), Options{})
	if !errors.Is(err, services.ErrAudioSynthesis) {
		t.Fatalf("expected audio synthesis error, got %v", err)
	}
	if len(client.requests) != 2 {
		t.Fatalf("batch should stop after failure, made %d calls", len(client.requests))
	}
}

func TestEstimateDuration(t *testing.T) {
	tests := []struct {
		text  string
		speed float64
		want  int
	}{
		{"", 1, 0},
		{"one two three four five", 1, 2},
		{"one two three four five six", 1, 3},
		{"one two three four five", 2, 1},
		{"one two three four five", 0, 2},
		{"one two three four five", -1, 2},
	}
	for _, tt := range tests {
		if got := EstimateDuration(tt.text, tt.speed); got != tt.want {
			t.Errorf("EstimateDuration(%q, %v) = %d, want %d", tt.text, tt.speed, got, tt.want)
		}
	}
}
