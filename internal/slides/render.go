package slides

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"issuereel/internal/logging"
	"issuereel/internal/script"
	"issuereel/internal/services"
	"issuereel/internal/textutil"
)

// Slide is the rendered output for one section.
type Slide struct {
	SectionIndex int    `json:"sectionIndex"`
	HTMLPath     string `json:"htmlPath"`
	ImagePath    string `json:"imagePath"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

// Result holds one slide per script section, in section order.
type Result struct {
	Slides []Slide `json:"slides"`
}

// Options carries the frame geometry and palette.
type Options = Frame

// Renderer builds slide markup and rasterizes it.
type Renderer struct {
	rasterizer Rasterizer
	logger     *slog.Logger
}

// NewRenderer constructs a renderer. A nil rasterizer selects the placeholder.
func NewRenderer(rasterizer Rasterizer, logger *slog.Logger) *Renderer {
	if rasterizer == nil {
		rasterizer = PlaceholderRasterizer{}
	}
	return &Renderer{rasterizer: rasterizer, logger: logging.NewComponentLogger(logger, "slides")}
}

type slideView struct {
	Frame
	Reference    string
	Heading      string
	VisualNotes  string
	CodeSnippet  string
	BulletPoints []string
	Excerpt      string
}

const excerptRunes = 200

// excerpt is the body-slide text shown when a section has no bullets.
func excerpt(section script.Section) string {
	if notes := strings.TrimSpace(section.VisualNotes); notes != "" {
		return notes
	}
	return textutil.Truncate(strings.TrimSpace(section.Narration), excerptRunes)
}

// Render writes section-NN.html and section-NN.png for every section,
// including sections without narration.
func (r *Renderer) Render(ctx context.Context, vs script.VideoScript, outputDir string, opts Options) (Result, error) {
	logger := logging.WithContext(ctx, r.logger)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Result{}, services.Wrap(services.ErrSlideRender, "slide_rendering", "create dir", outputDir, err)
	}
	reference := fmt.Sprintf("%s #%d", vs.Metadata.SourceKind.Title(), vs.Metadata.SourceNumber)
	if vs.Metadata.SourceKind == "" {
		reference = vs.Title
	}

	result := Result{Slides: make([]Slide, 0, len(vs.Sections))}
	for index, section := range vs.Sections {
		markup, err := renderMarkup(section, slideView{
			Frame:        opts,
			Reference:    reference,
			Heading:      section.Heading,
			VisualNotes:  section.VisualNotes,
			CodeSnippet:  section.CodeSnippet,
			BulletPoints: section.BulletPoints,
			Excerpt:      excerpt(section),
		})
		if err != nil {
			return Result{}, services.Wrap(services.ErrSlideRender, "slide_rendering", "markup", fmt.Sprintf("section %d", index), err)
		}
		base := fmt.Sprintf("section-%02d", index)
		htmlPath := filepath.Join(outputDir, base+".html")
		pngPath := filepath.Join(outputDir, base+".png")
		if err := os.WriteFile(htmlPath, markup, 0o644); err != nil {
			return Result{}, services.Wrap(services.ErrSlideRender, "slide_rendering", "write markup", htmlPath, err)
		}
		if err := r.rasterizer.Rasterize(ctx, htmlPath, pngPath, opts); err != nil {
			return Result{}, services.Wrap(services.ErrSlideRender, "slide_rendering", "rasterize", fmt.Sprintf("section %d", index), err)
		}
		result.Slides = append(result.Slides, Slide{
			SectionIndex: index,
			HTMLPath:     htmlPath,
			ImagePath:    pngPath,
			Width:        opts.Width,
			Height:       opts.Height,
		})
	}
	logger.Info("slides rendered", logging.Int("slides", len(result.Slides)))
	return result, nil
}

// renderMarkup renders the HTML for one section using its layout.
func renderMarkup(section script.Section, view slideView) ([]byte, error) {
	tmpl, err := layoutFor(layoutName(section.Type))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "page", view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func layoutName(kind script.SectionType) string {
	switch kind {
	case script.SectionIntro:
		return "intro"
	case script.SectionCode:
		return "code"
	case script.SectionSummary, script.SectionOutro:
		return "closing"
	default:
		return "content"
	}
}
