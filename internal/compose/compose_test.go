package compose

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"issuereel/internal/media/command"
	"issuereel/internal/narration"
	"issuereel/internal/script"
	"issuereel/internal/services"
	"issuereel/internal/slides"
)

type recordingRunner struct {
	calls   [][]string
	failing string
	probe   string
}

func (r *recordingRunner) Run(_ context.Context, name string, args ...string) (command.Result, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	if name == r.failing {
		res := command.Result{ExitCode: 1, Stderr: []byte("Invalid data found")}
		return res, &command.ExitError{Name: name, Result: res}
	}
	if strings.Contains(name, "ffprobe") {
		return command.Result{Stdout: []byte(r.probe)}, nil
	}
	out := args[len(args)-1]
	return command.Result{}, os.WriteFile(out, []byte("mp4"), 0o644)
}

func testOptions() Options {
	return Options{Width: 1920, Height: 1080, FPS: 30, Bitrate: "5M", AudioBitrate: "192k"}
}

func TestPairClipsKeysBySectionIndex(t *testing.T) {
	segments := []narration.Segment{
		{SectionIndex: 0, DurationSeconds: 3},
		{SectionIndex: 2, DurationSeconds: 4},
	}
	slideList := []slides.Slide{
		{SectionIndex: 0, ImagePath: "s0.png"},
		{SectionIndex: 1, ImagePath: "s1.png"},
		{SectionIndex: 2, ImagePath: "s2.png"},
	}
	clips, err := PairClips(segments, slideList)
	if err != nil {
		t.Fatalf("PairClips returned error: %v", err)
	}
	if len(clips) != 2 || clips[1].Slide.ImagePath != "s2.png" {
		t.Fatalf("unexpected pairing %+v", clips)
	}
}

func TestPairClipsMissingSlide(t *testing.T) {
	_, err := PairClips([]narration.Segment{{SectionIndex: 4}}, []slides.Slide{{SectionIndex: 0}})
	if !errors.Is(err, services.ErrComposition) {
		t.Fatalf("expected composition error, got %v", err)
	}
}

func TestBuildArgs(t *testing.T) {
	clips := []Clip{
		{Segment: narration.Segment{DurationSeconds: 2, FilePath: "a0.mp3"}, Slide: slides.Slide{ImagePath: "s0.png"}},
		{Segment: narration.Segment{DurationSeconds: 5, FilePath: "a1.mp3"}, Slide: slides.Slide{ImagePath: "s1.png"}},
	}
	args := BuildArgs(clips, "out.mp4", testOptions())
	joined := strings.Join(args, " ")
	for _, want := range []string{
		"-loop 1 -framerate 30 -t 2 -i s0.png",
		"-loop 1 -framerate 30 -t 5 -i s1.png",
		"-i a0.mp3 -i a1.mp3",
		"-c:v libx264 -pix_fmt yuv420p -b:v 5M -r 30 -c:a aac -b:a 192k -shortest -movflags +faststart out.mp4",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q:\n%s", want, joined)
		}
	}
	graph := args[slices.Index(args, "-filter_complex")+1]
	for _, want := range []string{
		"[0:v]scale=1920:1080:force_original_aspect_ratio=decrease,pad=1920:1080:(ow-iw)/2:(oh-ih)/2,setsar=1,fps=30,trim=end_frame=60[v0];",
		"trim=end_frame=150[v1];",
		"[v0][v1]concat=n=2:v=1:a=0[v];",
		"[2:a][3:a]concat=n=2:v=0:a=1[a]",
	} {
		if !strings.Contains(graph, want) {
			t.Errorf("filter graph missing %q:\n%s", want, graph)
		}
	}
}

func TestComposeSumsSegmentDurations(t *testing.T) {
	runner := &recordingRunner{probe: `{"format":{"duration":"7.0"},"streams":[{"codec_type":"video","width":1920,"height":1080}]}`}
	out := filepath.Join(t.TempDir(), "output", "video.mp4")
	segments := []narration.Segment{
		{SectionIndex: 0, DurationSeconds: 3, FilePath: "a0.mp3"},
		{SectionIndex: 1, DurationSeconds: 4, FilePath: "a1.mp3"},
	}
	slideList := []slides.Slide{{SectionIndex: 0, ImagePath: "s0.png"}, {SectionIndex: 1, ImagePath: "s1.png"}}

	artifact, err := NewComposer(runner, nil).Compose(context.Background(), script.VideoScript{Title: "Demo"}, segments, slideList, out, testOptions())
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}
	if artifact.DurationSeconds != 7 || artifact.Path != out || artifact.SizeBytes != 3 {
		t.Fatalf("unexpected artifact %+v", artifact)
	}
	if len(runner.calls) != 2 || runner.calls[0][0] != "ffmpeg" || runner.calls[1][0] != "ffprobe" {
		t.Fatalf("unexpected calls %v", runner.calls)
	}
}

func TestComposeEncoderFailure(t *testing.T) {
	runner := &recordingRunner{failing: "ffmpeg"}
	segments := []narration.Segment{{SectionIndex: 0, DurationSeconds: 1}}
	slideList := []slides.Slide{{SectionIndex: 0}}
	_, err := NewComposer(runner, nil).Compose(context.Background(), script.VideoScript{}, segments, slideList, filepath.Join(t.TempDir(), "v.mp4"), testOptions())
	if !errors.Is(err, services.ErrComposition) {
		t.Fatalf("expected composition error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Invalid data found") {
		t.Fatalf("error should carry encoder output: %v", err)
	}
}

func TestComposeProbeFailureOnlyWarns(t *testing.T) {
	runner := &recordingRunner{failing: "ffprobe"}
	segments := []narration.Segment{{SectionIndex: 0, DurationSeconds: 1}}
	slideList := []slides.Slide{{SectionIndex: 0}}
	opts := testOptions()
	_, err := NewComposer(runner, nil).Compose(context.Background(), script.VideoScript{}, segments, slideList, filepath.Join(t.TempDir(), "v.mp4"), opts)
	if err != nil {
		t.Fatalf("probe failure should not fail composition: %v", err)
	}
}
