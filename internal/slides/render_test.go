package slides

import (
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"issuereel/internal/media/command"
	"issuereel/internal/script"
	"issuereel/internal/services"
	"issuereel/internal/source"
)

func testFrame() Frame {
	return Frame{Width: 320, Height: 180, Background: "#1e1e2e", Text: "#cdd6f4", Accent: "#89b4fa"}
}

func TestRenderOneSlidePerSection(t *testing.T) {
	vs := script.VideoScript{
		Sections: []script.Section{
			{Type: script.SectionIntro, Heading: "Welcome <script>", Narration: "hi"},
			{Type: script.SectionCode, Heading: "Code", CodeSnippet: "if a < b {}"},
			{Type: script.SectionSummary, Heading: "Wrap", BulletPoints: []string{"done"}},
		},
		Metadata: script.Metadata{SourceKind: source.KindChangeRequest, SourceNumber: 7},
	}
	dir := t.TempDir()
	result, err := NewRenderer(nil, nil).Render(context.Background(), vs, dir, testFrame())
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if len(result.Slides) != len(vs.Sections) {
		t.Fatalf("expected %d slides, got %d", len(vs.Sections), len(result.Slides))
	}

	intro, err := os.ReadFile(filepath.Join(dir, "section-00.html"))
	if err != nil {
		t.Fatalf("read markup: %v", err)
	}
	if strings.Contains(string(intro), "<script>") || !strings.Contains(string(intro), "Pull Request #7") {
		t.Fatalf("intro markup not escaped or missing reference:\n%s", intro)
	}
	code, _ := os.ReadFile(filepath.Join(dir, "section-01.html"))
	if !strings.Contains(string(code), "if a &lt; b {}") {
		t.Fatalf("code snippet missing:\n%s", code)
	}

	file, err := os.Open(result.Slides[2].ImagePath)
	if err != nil {
		t.Fatalf("open png: %v", err)
	}
	defer file.Close()
	cfg, err := png.DecodeConfig(file)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if cfg.Width != 320 || cfg.Height != 180 {
		t.Fatalf("unexpected size %dx%d", cfg.Width, cfg.Height)
	}
}

type failingRunner struct{}

func (failingRunner) Run(context.Context, string, ...string) (command.Result, error) {
	return command.Result{}, errors.New("renderer crashed")
}

func TestRenderRasterizerFailure(t *testing.T) {
	vs := script.VideoScript{Sections: []script.Section{{Heading: "x"}}}
	renderer := NewRenderer(CommandRasterizer{Binary: "wkhtmltoimage", Runner: failingRunner{}}, nil)
	_, err := renderer.Render(context.Background(), vs, t.TempDir(), testFrame())
	if !errors.Is(err, services.ErrSlideRender) {
		t.Fatalf("expected slide render error, got %v", err)
	}
}

func TestPlaceholderRejectsBadColour(t *testing.T) {
	frame := testFrame()
	frame.Accent = "blue"
	err := PlaceholderRasterizer{}.Rasterize(context.Background(), "", filepath.Join(t.TempDir(), "x.png"), frame)
	if err == nil {
		t.Fatal("expected colour error")
	}
}

func TestLayoutName(t *testing.T) {
	cases := map[script.SectionType]string{
		script.SectionIntro:   "intro",
		script.SectionCode:    "code",
		script.SectionSummary: "closing",
		script.SectionOutro:   "closing",
		script.SectionMain:    "content",
	}
	for kind, want := range cases {
		if got := layoutName(kind); got != want {
			t.Errorf("layoutName(%q) = %q, want %q", kind, got, want)
		}
	}
}

func TestBodySlideFallsBackToNarrationExcerpt(t *testing.T) {
	narration := "NARRATION " + strings.Repeat("word ", 80)
	view := slideView{Frame: testFrame(), Heading: "Details"}
	section := script.Section{Type: script.SectionMain, Heading: "Details", Narration: narration}
	view.Excerpt = excerpt(section)

	markup, err := renderMarkup(section, view)
	if err != nil {
		t.Fatalf("renderMarkup returned error: %v", err)
	}
	body := string(markup)
	if !strings.Contains(body, "NARRATION word") {
		t.Fatalf("narration excerpt missing:\n%s", body)
	}
	if got := len([]rune(view.Excerpt)); got != 200 {
		t.Fatalf("expected 200-rune excerpt, got %d", got)
	}

	section.VisualNotes = "diagram of the cache"
	if got := excerpt(section); got != "diagram of the cache" {
		t.Fatalf("expected visual notes to win, got %q", got)
	}
}

func TestClosingAndBodyBulletMarkers(t *testing.T) {
	bullets := []string{"first", "second"}
	closing, err := renderMarkup(script.Section{Type: script.SectionSummary}, slideView{Frame: testFrame(), BulletPoints: bullets})
	if err != nil {
		t.Fatalf("render closing: %v", err)
	}
	body, err := renderMarkup(script.Section{Type: script.SectionMain}, slideView{Frame: testFrame(), BulletPoints: bullets})
	if err != nil {
		t.Fatalf("render body: %v", err)
	}
	if !strings.Contains(string(closing), `class="frame centered closing"`) {
		t.Fatalf("closing layout missing checkmark class:\n%s", closing)
	}
	if !strings.Contains(string(body), `class="frame body"`) {
		t.Fatalf("body layout missing bullet class:\n%s", body)
	}
	if !strings.Contains(string(closing), `.closing li::marker { content: "✓ "; }`) {
		t.Fatalf("checkmark marker rule missing:\n%s", closing)
	}
}
