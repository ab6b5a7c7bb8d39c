package slides

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"strconv"
	"strings"

	"issuereel/internal/media/command"
)

// Frame is the target raster geometry and palette.
type Frame struct {
	Width      int
	Height     int
	Background string
	Text       string
	Accent     string
}

// Rasterizer turns slide markup into a PNG of exactly Frame size.
type Rasterizer interface {
	Rasterize(ctx context.Context, htmlPath, pngPath string, frame Frame) error
}

// PlaceholderRasterizer draws a plain card in the configured colours without
// laying out the markup.
type PlaceholderRasterizer struct{}

// Rasterize writes a Width x Height PNG with a background fill, an accent
// header band and a text-coloured rule.
func (PlaceholderRasterizer) Rasterize(_ context.Context, _ string, pngPath string, frame Frame) error {
	if frame.Width <= 0 || frame.Height <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", frame.Width, frame.Height)
	}
	background, err := parseHexColor(frame.Background)
	if err != nil {
		return err
	}
	accent, err := parseHexColor(frame.Accent)
	if err != nil {
		return err
	}
	text, err := parseHexColor(frame.Text)
	if err != nil {
		return err
	}

	canvas := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	band := max(frame.Height/18, 1)
	draw.Draw(canvas, image.Rect(0, 0, frame.Width, band), image.NewUniform(accent), image.Point{}, draw.Src)
	margin := frame.Width / 10
	ruleTop := frame.Height / 2
	draw.Draw(canvas, image.Rect(margin, ruleTop, frame.Width-margin, ruleTop+max(band/4, 1)), image.NewUniform(text), image.Point{}, draw.Src)

	file, err := os.Create(pngPath)
	if err != nil {
		return fmt.Errorf("create slide image: %w", err)
	}
	if err := png.Encode(file, canvas); err != nil {
		file.Close()
		return fmt.Errorf("encode slide image: %w", err)
	}
	return file.Close()
}

// CommandRasterizer runs an external HTML-to-image tool with the
// wkhtmltoimage argument convention.
type CommandRasterizer struct {
	Binary string
	Runner command.Runner
}

// Rasterize renders htmlPath into pngPath through the external tool.
func (r CommandRasterizer) Rasterize(ctx context.Context, htmlPath, pngPath string, frame Frame) error {
	runner := r.Runner
	if runner == nil {
		runner = command.NewExecRunner(nil)
	}
	args := []string{
		"--quiet",
		"--format", "png",
		"--width", strconv.Itoa(frame.Width),
		"--height", strconv.Itoa(frame.Height),
		"--enable-local-file-access",
		htmlPath,
		pngPath,
	}
	if _, err := runner.Run(ctx, r.Binary, args...); err != nil {
		return err
	}
	info, err := os.Stat(pngPath)
	if err != nil {
		return fmt.Errorf("renderer produced no image: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("renderer produced an empty image at %s", pngPath)
	}
	return nil
}

func parseHexColor(value string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", value)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", value, err)
	}
	return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 0xff}, nil
}
