// Package chart renders the cumulative PnL curve of a ledger as a single
// self-contained HTML document.
package chart

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rustyeddy/coinflip/journal"
	"github.com/rustyeddy/coinflip/market"
)

const (
	width   = 900
	height  = 360
	padLeft = 70
	padTop  = 30
	padBot  = 50
	padRite = 30
)

// Series is what gets drawn: one point per trade in ledger order.
type Series struct {
	Title  string
	XLabel string
	YLabel string
	Points []journal.Point
}

// FromLedger builds the cumulative PnL series of l.
func FromLedger(l *journal.Ledger, title string) Series {
	return Series{
		Title:  title,
		XLabel: "Date",
		YLabel: "Cumulative PnL ($)",
		Points: l.Cumulative(),
	}
}

type marker struct {
	X, Y  float64
	Label string
	Value string
}

type tick struct {
	Y     float64
	Label string
}

type page struct {
	Series
	Width, Height int
	PlotW, PlotH  int
	PadLeft       int
	PadTop        int
	Polyline      string
	Markers       []marker
	YTicks        []tick
	ZeroY         float64
	Generated     string
	Final         string
}

// Render writes the chart document for s to w.
func Render(w io.Writer, s Series) error {
	if len(s.Points) == 0 {
		return fmt.Errorf("render %q: no points", s.Title)
	}

	p := layout(s)
	return tmpl.Execute(w, p)
}

// WriteFile renders the ledger to path, rewriting it in full. It does nothing
// and returns false when the ledger has no closed trades to plot.
func WriteFile(path string, l *journal.Ledger, title string) (bool, error) {
	if l == nil || l.Len() == 0 || !l.HasPnL() {
		return false, nil
	}

	var buf bytes.Buffer
	if err := Render(&buf, FromLedger(l, title)); err != nil {
		return false, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return false, err
	}
	return true, nil
}

func layout(s Series) page {
	plotW := width - padLeft - padRite
	plotH := height - padTop - padBot

	lo, hi := 0.0, 0.0
	for _, pt := range s.Points {
		v := pt.Cumulative.InexactFloat64()
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}

	n := len(s.Points)
	xAt := func(i int) float64 {
		if n == 1 {
			return float64(plotW) / 2
		}
		return float64(i) * float64(plotW) / float64(n-1)
	}
	yAt := func(v float64) float64 {
		return float64(plotH) - (v-lo)*float64(plotH)/(hi-lo)
	}

	var line bytes.Buffer
	markers := make([]marker, 0, n)
	for i, pt := range s.Points {
		x, y := xAt(i), yAt(pt.Cumulative.InexactFloat64())
		if i > 0 {
			line.WriteByte(' ')
		}
		fmt.Fprintf(&line, "%.2f,%.2f", x, y)
		markers = append(markers, marker{
			X:     x,
			Y:     y,
			Label: pt.Date.Format(market.DateLayout),
			Value: pt.Cumulative.StringFixed(journal.PnLPlaces),
		})
	}

	const nticks = 5
	ticks := make([]tick, 0, nticks+1)
	for i := 0; i <= nticks; i++ {
		v := lo + (hi-lo)*float64(i)/nticks
		ticks = append(ticks, tick{Y: yAt(v), Label: fmt.Sprintf("%.2f", v)})
	}

	return page{
		Series:    s,
		Width:     width,
		Height:    height,
		PlotW:     plotW,
		PlotH:     plotH,
		PadLeft:   padLeft,
		PadTop:    padTop,
		Polyline:  line.String(),
		Markers:   markers,
		YTicks:    ticks,
		ZeroY:     yAt(0),
		Generated: time.Now().UTC().Format(time.RFC3339),
		Final:     s.Points[n-1].Cumulative.StringFixed(journal.PnLPlaces),
	}
}

var tmpl = template.Must(template.New("chart").Funcs(template.FuncMap{
	"date":  func(t time.Time) string { return t.Format(market.DateLayout) },
	"cents": func(p journal.Point) string { return p.PnL.StringFixed(journal.PnLPlaces) },
	"cum":   func(p journal.Point) string { return p.Cumulative.StringFixed(journal.PnLPlaces) },
}).Parse(pageTemplate))

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; color: #222; background: #fff; margin: 2em; }
h1 { font-size: 1.4em; font-weight: 500; }
svg text { font-size: 11px; fill: #555; }
.grid { stroke: #eee; }
.zero { stroke: #bbb; stroke-dasharray: 4 3; }
.curve { fill: none; stroke: #636efa; stroke-width: 2; }
.pt { fill: #636efa; }
table { border-collapse: collapse; margin-top: 1.5em; font-size: 0.9em; }
td, th { padding: 0.25em 0.9em; border-bottom: 1px solid #eee; text-align: right; }
th { font-weight: 500; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>Cumulative PnL: <strong>{{.Final}}</strong> over {{len .Points}} trades.</p>
<svg xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}">
<g transform="translate({{.PadLeft}},{{.PadTop}})">
{{- range .YTicks}}
<line class="grid" x1="0" x2="{{$.PlotW}}" y1="{{printf "%.2f" .Y}}" y2="{{printf "%.2f" .Y}}"/>
<text x="-8" y="{{printf "%.2f" .Y}}" text-anchor="end" dominant-baseline="middle">{{.Label}}</text>
{{- end}}
<line class="zero" x1="0" x2="{{.PlotW}}" y1="{{printf "%.2f" .ZeroY}}" y2="{{printf "%.2f" .ZeroY}}"/>
<polyline class="curve" points="{{.Polyline}}"/>
{{- range .Markers}}
<circle class="pt" cx="{{printf "%.2f" .X}}" cy="{{printf "%.2f" .Y}}" r="3.5"><title>{{.Label}}: {{.Value}}</title></circle>
{{- end}}
<text x="{{.PlotW}}" y="{{.PlotH}}" dy="35" text-anchor="end">{{.XLabel}}</text>
<text transform="rotate(-90)" x="0" y="-55" text-anchor="end">{{.YLabel}}</text>
</g>
</svg>
<table>
<tr><th>Date</th><th>PnL</th><th>Cumulative</th></tr>
{{- range .Points}}
<tr><td>{{date .Date}}</td><td>{{cents .}}</td><td>{{cum .}}</td></tr>
{{- end}}
</table>
<p><small>Generated {{.Generated}}</small></p>
</body>
</html>
`
