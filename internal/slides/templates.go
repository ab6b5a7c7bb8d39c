package slides

import "html/template"

const slideMarkup = `{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<style>
html, body { margin: 0; padding: 0; }
body { width: {{.Width}}px; height: {{.Height}}px; background: {{.Background}}; color: {{.Text}};
  font-family: "Inter", "Helvetica Neue", Arial, sans-serif; overflow: hidden; }
.frame { box-sizing: border-box; width: 100%; height: 100%; padding: 96px 128px; display: flex; flex-direction: column; }
.eyebrow { color: {{.Accent}}; font-size: 32px; letter-spacing: 4px; text-transform: uppercase; }
h1 { font-size: 88px; margin: 24px 0; }
h2 { font-size: 64px; margin: 0 0 40px; border-bottom: 6px solid {{.Accent}}; padding-bottom: 16px; }
ul { font-size: 40px; line-height: 1.5; }
li::marker { color: {{.Accent}}; }
.body li::marker { content: "• "; }
.closing li::marker { content: "✓ "; }
pre { font-family: "JetBrains Mono", Menlo, monospace; font-size: 30px; background: rgba(0,0,0,0.35);
  border-left: 8px solid {{.Accent}}; padding: 32px; white-space: pre-wrap; }
.notes { font-size: 36px; opacity: 0.8; }
.centered { justify-content: center; align-items: center; text-align: center; }
</style>
</head>
<body>{{template "layout" .}}</body>
</html>{{end}}

{{define "intro"}}<div class="frame centered">
<div class="eyebrow">{{.Reference}}</div>
<h1>{{.Heading}}</h1>
{{if .VisualNotes}}<p class="notes">{{.VisualNotes}}</p>{{end}}
</div>{{end}}

{{define "code"}}<div class="frame">
<h2>{{.Heading}}</h2>
{{if .CodeSnippet}}<pre><code>{{.CodeSnippet}}</code></pre>{{end}}
{{if .BulletPoints}}<ul>{{range .BulletPoints}}<li>{{.}}</li>{{end}}</ul>{{end}}
</div>{{end}}

{{define "closing"}}<div class="frame centered closing">
<h2>{{.Heading}}</h2>
{{if .BulletPoints}}<ul>{{range .BulletPoints}}<li>{{.}}</li>{{end}}</ul>{{end}}
<div class="eyebrow">{{.Reference}}</div>
</div>{{end}}

{{define "content"}}<div class="frame body">
<h2>{{.Heading}}</h2>
{{if .BulletPoints}}<ul>{{range .BulletPoints}}<li>{{.}}</li>{{end}}</ul>{{else if .Excerpt}}<p class="notes">{{.Excerpt}}</p>{{end}}
</div>{{end}}`

var pageTemplates = template.Must(template.New("slides").Parse(slideMarkup))

// layoutFor clones the page template and binds "layout" to the named layout.
func layoutFor(name string) (*template.Template, error) {
	page, err := pageTemplates.Clone()
	if err != nil {
		return nil, err
	}
	return page.New("layout").Parse(`{{template "` + name + `" .}}`)
}
