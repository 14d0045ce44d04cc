package format

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/WangQiHao-Charlie/screpd/pkg/screp"
)

// Mode controls the output format.
type Mode int

const (
	ASCII    Mode = iota // Fixed-width terminal tables
	Markdown             // GitHub-flavoured Markdown tables
)

func newWriter(m Mode) table.Writer {
	w := table.NewWriter()
	if m == ASCII {
		w.SetStyle(table.StyleLight)
	}
	return w
}

func render(w table.Writer, m Mode) string {
	if m == Markdown {
		return w.RenderMarkdown()
	}
	return w.Render()
}

// Version renders a screp version record, known keys in screp's order.
func Version(v screp.Version, m Mode) string {
	w := newWriter(m)
	w.AppendHeader(table.Row{"Key", "Value"})
	for _, k := range screp.VersionKeys {
		if val, ok := v[k]; ok {
			w.AppendRow(table.Row{string(k), val})
		}
	}
	return render(w, m)
}

// Summary renders the outcome of a run and, when a header is present, one
// row per player.
func Summary(res *screp.Result, m Mode) string {
	var b strings.Builder

	w := newWriter(m)
	w.AppendHeader(table.Row{"Field", "Value"})
	w.AppendRow(table.Row{"Valid", res.HasValidResult()})
	w.AppendRow(table.Row{"Exit code", exitCode(res.ExitCode)})
	if res.AbortSignal != "" {
		w.AppendRow(table.Row{"Signal", res.AbortSignal})
	}
	if res.Diagnostics != "" {
		w.AppendRow(table.Row{"Diagnostics", res.Diagnostics})
	}
	if d := res.Data; d != nil && d.Header != nil {
		w.AppendRow(table.Row{"Map", d.Header.Map})
		w.AppendRow(table.Row{"Type", d.Header.Type.Name})
		w.AppendRow(table.Row{"Frames", d.Header.Frames})
		w.AppendRow(table.Row{"Start", d.Header.StartTime})
	}
	if d := res.Data; d != nil && d.Custom != nil && d.Custom.MapDataHash != "" {
		w.AppendRow(table.Row{"Map hash", d.Custom.MapDataHash})
	}
	w.SetColumnConfigs([]table.ColumnConfig{{Number: 2, WidthMax: 80}})
	b.WriteString(render(w, m))

	if d := res.Data; d != nil && d.Header != nil && len(d.Header.Players) > 0 {
		apm := map[int]screp.PlayerDesc{}
		if d.Computed != nil {
			for _, pd := range d.Computed.PlayerDescs {
				apm[pd.PlayerID] = pd
			}
		}
		pw := newWriter(m)
		pw.AppendHeader(table.Row{"Team", "Name", "Race", "APM", "EAPM"})
		for _, p := range d.Header.Players {
			pd, ok := apm[p.ID]
			if !ok {
				pw.AppendRow(table.Row{p.Team, p.Name, p.Race.Name, "-", "-"})
				continue
			}
			pw.AppendRow(table.Row{p.Team, p.Name, p.Race.Name, pd.APM, pd.EAPM})
		}
		pw.SetColumnConfigs([]table.ColumnConfig{
			{Number: 4, Align: text.AlignRight},
			{Number: 5, Align: text.AlignRight},
		})
		b.WriteString("\n")
		b.WriteString(render(pw, m))
	}
	return b.String()
}

func exitCode(code *int) string {
	if code == nil {
		return "-"
	}
	return fmt.Sprint(*code)
}
