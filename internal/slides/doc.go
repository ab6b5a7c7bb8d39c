// Package slides renders one slide per script section.
//
// Markup comes from html/template layouts chosen by section type (intro, code,
// summary/outro, everything else). A Rasterizer turns the markup into a PNG at
// the configured resolution: PlaceholderRasterizer draws a plain card in
// process, CommandRasterizer shells out to an HTML-to-image tool.
package slides
