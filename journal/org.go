package journal

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/rustyeddy/coinflip/market"
)

// FormatTradeOrg renders a trade as an Org-mode block with the structured
// facts in a PROPERTIES drawer.
func FormatTradeOrg(t Trade) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("** Trade: %s %s (%s)\n", t.Key(), strings.ToUpper(t.Side.String()), t.Symbol))
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":DATE: %s\n", t.Key()))
	b.WriteString(fmt.Sprintf(":SIDE: %s\n", t.Side))
	b.WriteString(fmt.Sprintf(":SYMBOL: %s\n", t.Symbol))
	b.WriteString(fmt.Sprintf(":STRIKE: %s\n", t.Strike.StringFixed(2)))
	b.WriteString(fmt.Sprintf(":EXPIRY: %s\n", t.Expiry.Format(market.DateLayout)))
	b.WriteString(fmt.Sprintf(":ENTRY_PRICE: %s\n", fixed(t.EntryPrice, "unpriced")))
	if t.Closed() {
		b.WriteString(fmt.Sprintf(":EXIT_PRICE: %s\n", fixed(t.ExitPrice, "unpriced")))
		b.WriteString(fmt.Sprintf(":PNL: %s\n", t.PnL.Decimal.StringFixed(PnLPlaces)))
	} else {
		b.WriteString(":STATUS: open\n")
	}
	b.WriteString(":END:\n")
	return b.String()
}

// fixed formats a premium to cents, or missing when it has no print.
func fixed(p market.Premium, missing string) string {
	if !p.Priced {
		return missing
	}
	return p.Amount.StringFixed(2)
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []Trade) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

var summaryOrgFuncs = template.FuncMap{
	"mul100": func(x float64) float64 { return x * 100.0 },
}

const SummaryOrgTemplate = `* COIN FLIP: {{.Underlying}}
:PROPERTIES:
:FIRST_DATE:  {{if .First.IsZero}}(none){{else}}{{.First.Format "2006-01-02"}}{{end}}
:LAST_DATE:   {{if .Last.IsZero}}(none){{else}}{{.Last.Format "2006-01-02"}}{{end}}
:TRADES:      {{.Trades}}
:CLOSED:      {{.Closed}}
:WINS:        {{.Wins}}
:LOSSES:      {{.Losses}}
:UNPRICED:    {{.Unpriced}}
:WIN_RATE:    {{printf "%.2f" (mul100 .WinRate)}}
:NET_PNL:     {{.NetPnL.StringFixed 2}}
:END:

| Side  | Count |
|-------+-------|
| Calls | {{.Calls}} |
| Puts  | {{.Puts}} |
`

// FormatSummaryOrg renders a ledger summary as an Org-mode heading.
func FormatSummaryOrg(underlying string, s Summary) (string, error) {
	t, err := template.New("summary").Funcs(summaryOrgFuncs).Parse(SummaryOrgTemplate)
	if err != nil {
		return "", err
	}

	view := struct {
		Summary
		Underlying string
	}{s, underlying}

	var buf bytes.Buffer
	if err := t.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}
