package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"

	"github.com/pji114/jusik/internal/model"
	"github.com/pji114/jusik/pkg/analyze"
)

//go:embed templates/*.html
var templateFS embed.FS

var md = goldmark.New()

// Renderer turns a Report into an HTML document. Rendering is pure: no
// network, no disk. Scraped text is escaped by html/template; summaries go
// through goldmark, which drops raw HTML, so model output cannot inject
// markup either.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	funcMap := template.FuncMap{
		"markdown": renderMarkdown,
		"money":    func(d decimal.Decimal) string { return d.StringFixed(0) },
		"pct":      func(d decimal.Decimal) string { return d.StringFixed(2) },
		"volume":   analyze.FormatVolume,
	}

	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	pageNames := []string{"report.html", "blog.html"}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		if _, err := clone.ParseFS(templateFS, "templates/"+name); err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = clone
	}

	return &Renderer{pages: pages}, nil
}

type pageData struct {
	Report  model.Report
	Title   string
	Today   string
	Top     model.ReportEntry
	AIUsed  bool
	Falling bool
}

func (r *Renderer) Render(rep model.Report, style string) (string, error) {
	page, ok := styleTemplate(style)
	if !ok {
		return "", fmt.Errorf("unknown report style %q", style)
	}

	if len(rep.Entries) == 0 {
		return "", fmt.Errorf("report has no entries")
	}

	title := "Top Rising Stocks"
	if rep.Direction == model.DirectionFalling {
		title = "Top Falling Stocks"
	}

	aiUsed := false
	for _, e := range rep.Entries {
		if e.Analysis.AIGenerated {
			aiUsed = true
			break
		}
	}

	data := pageData{
		Report:  rep,
		Title:   title,
		Today:   rep.GeneratedAt.Format("January 2, 2006"),
		Top:     rep.Entries[0],
		AIUsed:  aiUsed,
		Falling: rep.Direction == model.DirectionFalling,
	}

	var buf bytes.Buffer
	if err := r.pages[page].ExecuteTemplate(&buf, "base.html", data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", page, err)
	}

	return buf.String(), nil
}

func styleTemplate(style string) (string, bool) {
	switch style {
	case model.StyleStandard:
		return "report.html", true
	case model.StyleBlog:
		return "blog.html", true
	default:
		return "", false
	}
}

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		// Fall back to escaped plain text.
		return template.HTML("<p>" + template.HTMLEscapeString(text) + "</p>")
	}
	return template.HTML(buf.String())
}

// ValidStyle reports whether style names a known rendering variant.
func ValidStyle(style string) bool {
	_, ok := styleTemplate(strings.TrimSpace(style))
	return ok
}
