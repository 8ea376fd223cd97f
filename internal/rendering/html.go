package rendering

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/jonathan/cv-builder/internal/fontmetrics"
	"github.com/jonathan/cv-builder/internal/layout"
	"github.com/jonathan/cv-builder/internal/types"
)

var pageTemplate = template.Must(template.New("pages").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
html, body { margin: 0; padding: 0; background: #ffffff; }
.page { position: relative; overflow: hidden; background: #ffffff; }
.page > div, .page > img { position: absolute; }
.line { white-space: pre; }
.marker { border-radius: 50%; }
</style>
</head>
<body>
{{- range .Pages}}
<div class="page" data-page="{{.Number}}" style="{{.Style}}">
{{- range .Items}}
{{- if .Image}}
<img class="{{.Class}}" data-block="{{.Block}}" style="{{.Style}}" src="{{.Image}}" alt="">
{{- else}}
<div class="{{.Class}}" data-block="{{.Block}}" style="{{.Style}}">{{.Text}}</div>
{{- end}}
{{- end}}
</div>
{{- end}}
</body>
</html>
`))

type htmlPage struct {
	Number int
	Style  template.CSS
	Items  []htmlItem
}

type htmlItem struct {
	Class string
	Block int
	Style template.CSS
	Text  string
	Image template.URL
}

// PageHTML renders the layout as absolutely positioned HTML, one fixed-size
// box per page, in points. The Chrome rasterizer screenshots it and it
// doubles as a browser preview matching the PDF geometry.
func PageHTML(doc *layout.Document) (string, error) {
	pages := make([]htmlPage, 0, len(doc.Pages))
	for _, p := range doc.Pages {
		hp := htmlPage{
			Number: p.Number,
			Style:  css("width:%.2fpt;height:%.2fpt", doc.Page.Width, doc.Page.Height),
		}
		for _, b := range p.Blocks {
			items, err := blockItems(b)
			if err != nil {
				return "", &PreviewError{Message: fmt.Sprintf("block %d", b.Index), Cause: err}
			}
			hp.Items = append(hp.Items, items...)
		}
		pages = append(pages, hp)
	}

	var sb strings.Builder
	if err := pageTemplate.Execute(&sb, struct{ Pages []htmlPage }{pages}); err != nil {
		return "", &PreviewError{Message: "failed to execute page template", Cause: err}
	}
	return sb.String(), nil
}

func blockItems(b layout.Block) ([]htmlItem, error) {
	var items []htmlItem
	if r := b.Rule; r != nil {
		items = append(items, htmlItem{
			Class: "rule",
			Block: b.Index,
			Style: css("left:%.2fpt;top:%.2fpt;width:%.2fpt;border-top:%.2fpt solid %s",
				r.X1, r.Y-r.Thickness/2, r.X2-r.X1, r.Thickness, hexColor(r.Color)),
		})
	}
	if m := b.Marker; m != nil {
		items = append(items, htmlItem{
			Class: "marker",
			Block: b.Index,
			Style: css("left:%.2fpt;top:%.2fpt;width:%.2fpt;height:%.2fpt;background:%s",
				m.X-m.Radius, m.Y-m.Radius, 2*m.Radius, 2*m.Radius, hexColor(m.Color)),
		})
	}
	for _, l := range b.Lines {
		items = append(items, htmlItem{
			Class: "line",
			Block: b.Index,
			Text:  l.Text,
			Style: lineCSS(l),
		})
	}
	if box := b.Image; box != nil {
		// Only validated inline images reach the page; nothing is fetched.
		if _, err := types.DecodeImage(box.Source); err != nil {
			return nil, err
		}
		items = append(items, htmlItem{
			Class: "image",
			Block: b.Index,
			Image: template.URL(box.Source),
			Style: css("left:%.2fpt;top:%.2fpt;width:%.2fpt;height:%.2fpt", box.X, box.Y, box.Width, box.Height),
		})
	}
	return items, nil
}

func lineCSS(l layout.Line) template.CSS {
	weight, style := "normal", "normal"
	if l.Style.Bold {
		weight = "bold"
	}
	if l.Style.Italic {
		style = "italic"
	}
	return css("left:%.2fpt;top:%.2fpt;height:%.2fpt;line-height:%.2fpt;font-family:%s;font-size:%.2fpt;font-weight:%s;font-style:%s;color:%s",
		l.X, l.Y, l.Style.Leading(), l.Style.Leading(), cssFamily(l.Style.Font), l.Style.Size, weight, style, hexColor(l.Style.Color))
}

func cssFamily(name string) string {
	switch fontmetrics.Family(name) {
	case "Times":
		return "'Times New Roman',Times,serif"
	case "Courier":
		return "'Courier New',Courier,monospace"
	default:
		return "Helvetica,Arial,sans-serif"
	}
}

func hexColor(c string) string {
	rgba := parseColor(c)
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

// css formats a style attribute from numbers and fixed keywords only.
func css(format string, args ...any) template.CSS {
	return template.CSS(fmt.Sprintf(format, args...)) //nolint:gosec // values are numbers, hex colors and fixed font lists
}
