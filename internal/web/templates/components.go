// Package templates holds the HTML components served by the web package.
package templates

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"

	"github.com/JonMunkholm/racechart/internal/core"
)

// RowHeight is the vertical slot of one bar in pixels. The page script uses
// the same value to move bars when their rank changes.
const RowHeight = 56

// FormatValue renders a bar value for display: grouped thousands, at most
// one decimal.
func FormatValue(v float64) string {
	return humanize.CommafWithDigits(v, 1)
}

// ErrorAlert renders an error fragment with the support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div class="alert" role="alert"><strong>`)
		b.WriteString(templ.EscapeString(message))
		b.WriteString(`</strong>`)
		if action != "" {
			b.WriteString(`<span class="alert-action">`)
			b.WriteString(templ.EscapeString(action))
			b.WriteString(`</span>`)
		}
		if code != "" {
			b.WriteString(`<code>`)
			b.WriteString(templ.EscapeString(code))
			b.WriteString(`</code>`)
		}
		b.WriteString(`</div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// Bars renders the ranked bars of f. Each bar sits at the slot of its rank,
// while its colour stays with its table position. The page script moves the
// bars on every frame so a change of rank animates.
func Bars(f core.Frame) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, `<div id="bars" class="bars" style="height:%dpx">`, RowHeight*max(len(f.Rows), 1))
		for _, r := range f.Rows {
			pct := core.BarFraction(r.Value, f.MaxValue) * 100
			fmt.Fprintf(&b, `<div class="bar-row" data-label="%s" style="transform:translateY(%dpx)">`,
				templ.EscapeString(r.Label), (r.Rank-1)*RowHeight)
			fmt.Fprintf(&b, `<span class="rank" style="background:%s">%d</span>`, templ.EscapeString(r.Color), r.Rank)
			b.WriteString(`<div class="bar-body"><div class="bar-head"><span>`)
			b.WriteString(templ.EscapeString(r.Label))
			b.WriteString(`</span><span class="mono">`)
			b.WriteString(FormatValue(r.Value))
			b.WriteString(`</span></div><div class="track">`)
			fmt.Fprintf(&b, `<div class="fill" style="width:%s%%;background:%s"></div>`,
				strconv.FormatFloat(pct, 'f', 2, 64), templ.EscapeString(r.Color))
			b.WriteString(`</div></div></div>`)
		}
		b.WriteString(`</div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// RowList renders the edit list of rows in table order with delete buttons.
func RowList(f core.Frame) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<ul id="row-list" class="row-list">`)
		for i, label := range f.Labels {
			fmt.Fprintf(&b, `<li><span>%s</span><button type="button" class="danger" data-delete="%d">Delete</button></li>`,
				templ.EscapeString(label), i)
		}
		b.WriteString(`</ul>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
