package printing

import (
	"bytes"
	"context"
	"html/template"
	"time"

	"go.uber.org/zap"

	appmess "github.com/messhall/backend/internal/application/mess"
)

// foodCountTemplate is the HTML layout for the kitchen's daily food
// count report
const foodCountTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Food Count — {{.Day}} {{.DateLabel}}</title>
<style>
  body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 12px; color: #222; }
  h1 { font-size: 18px; margin-bottom: 2px; }
  .subtitle { color: #666; margin-bottom: 16px; }
  .counts { display: flex; gap: 24px; margin-bottom: 20px; }
  .count-box { border: 1px solid #ccc; border-radius: 4px; padding: 10px 18px; text-align: center; }
  .count-box .value { font-size: 22px; font-weight: bold; }
  .count-box .label { font-size: 10px; text-transform: uppercase; color: #666; }
  table { width: 100%; border-collapse: collapse; margin-bottom: 20px; }
  th { text-align: left; border-bottom: 2px solid #333; padding: 4px 6px; font-size: 11px; text-transform: uppercase; }
  td { border-bottom: 1px solid #ddd; padding: 4px 6px; }
  .veg { color: #1a7a2e; }
  .conflict { color: #a12020; }
  .cost { text-align: right; }
  .footer { margin-top: 24px; font-size: 10px; color: #888; }
</style>
</head>
<body>
<h1>Daily Food Count</h1>
<div class="subtitle">{{.Day}}, {{.DateLabel}}</div>

<div class="counts">
  <div class="count-box"><div class="value">{{.TotalPresent}}</div><div class="label">Present</div></div>
  <div class="count-box"><div class="value">{{.VegCount}}</div><div class="label">Veg</div></div>
  <div class="count-box"><div class="value">{{.NonVegCount}}</div><div class="label">Non-Veg</div></div>
  {{if .EstimatedCost}}<div class="count-box"><div class="value">{{.EstimatedCost}}</div><div class="label">Est. Cost</div></div>{{end}}
</div>

<h2>Menu</h2>
{{if .Menu}}
<table>
  <tr><th>Meal</th><th>Item</th><th>Type</th><th class="cost">Cost</th></tr>
  {{range .Menu}}
  <tr>
    <td>{{.Meal}}</td>
    <td>{{.Item}}</td>
    <td{{if eq .FoodType "veg"}} class="veg"{{end}}>{{.FoodType}}</td>
    <td class="cost">{{if .Cost}}{{.Cost}}{{else}}&mdash;{{end}}</td>
  </tr>
  {{end}}
</table>
{{else}}
<p>No menu entries recorded for this day.</p>
{{end}}

{{if .Conflicts}}
<h2 class="conflict">Allergy Conflicts</h2>
<table>
  <tr><th>Student</th><th>Allergies</th><th>Item</th><th>Meal</th></tr>
  {{range .Conflicts}}
  <tr>
    <td>{{.StudentName}}</td>
    <td>{{.Allergies}}</td>
    <td class="conflict">{{.Item}}</td>
    <td>{{.Meal}}</td>
  </tr>
  {{end}}
</table>
{{end}}

<div class="footer">Generated {{.GeneratedAt}}</div>
</body>
</html>`

// foodCountTemplateData is the view model passed to the report template
type foodCountTemplateData struct {
	Day           string
	DateLabel     string
	TotalPresent  int
	VegCount      int
	NonVegCount   int
	EstimatedCost *string
	Menu          []appmess.MenuEntryInfo
	Conflicts     []appmess.AllergyConflictInfo
	GeneratedAt   string
}

// FoodCountPrinter turns a food count report into a printable PDF
type FoodCountPrinter struct {
	renderer PDFRenderer
	tmpl     *template.Template
	logger   *zap.Logger
}

// NewFoodCountPrinter creates a printer backed by the given renderer
func NewFoodCountPrinter(renderer PDFRenderer, logger *zap.Logger) (*FoodCountPrinter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	tmpl, err := template.New("food_count").Parse(foodCountTemplate)
	if err != nil {
		return nil, NewRenderError(ErrCodeTemplateFailed, "failed to parse food count template", err)
	}

	return &FoodCountPrinter{
		renderer: renderer,
		tmpl:     tmpl,
		logger:   logger,
	}, nil
}

// BuildHTML renders the food count report to HTML without producing a PDF
func (p *FoodCountPrinter) BuildHTML(report *appmess.FoodCountResult) (string, error) {
	if report == nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "food count report is nil", nil)
	}

	data := foodCountTemplateData{
		Day:           report.Day,
		DateLabel:     report.Date.Format("2 January 2006"),
		TotalPresent:  report.TotalPresent,
		VegCount:      report.VegCount,
		NonVegCount:   report.NonVegCount,
		EstimatedCost: report.EstimatedCost,
		Menu:          report.Menu,
		Conflicts:     report.Conflicts,
		GeneratedAt:   time.Now().UTC().Format(time.RFC1123),
	}

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "failed to execute food count template", err)
	}
	return buf.String(), nil
}

// RenderFoodCount renders the food count report to a PDF document
func (p *FoodCountPrinter) RenderFoodCount(ctx context.Context, report *appmess.FoodCountResult) (*RenderResult, error) {
	html, err := p.BuildHTML(report)
	if err != nil {
		return nil, err
	}

	result, err := p.renderer.Render(ctx, &RenderRequest{
		HTML:        html,
		PaperSize:   PaperSizeA4,
		Orientation: OrientationPortrait,
		Margins:     DefaultMargins(),
		Title:       "Food Count " + report.Date.Format("2006-01-02"),
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("food count report rendered",
		zap.String("date", report.Date.Format("2006-01-02")),
		zap.Int("pages", result.PageCount),
		zap.Int("bytes", len(result.PDFData)))

	return result, nil
}
