package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"psy-consensus/internal/domain"
)

func newTable(w io.Writer, headers []string) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		MaxWidth: 100,
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{Left: tw.On, Top: tw.Off, Right: tw.On, Bottom: tw.Off},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}

func renderReport(w io.Writer, report domain.Report) error {
	fmt.Fprintf(w, "Reporte %s (sujeto %s)\n\n", report.ID, report.SubjectID)

	items := newTable(w, []string{"Item", "Rasgo", "Inv", "Crudo", "Ajustado", "Rondas", "Jueces", "Fallas", "Resolucion"})
	for _, res := range report.Resolutions {
		trait := res.DrivingTrait
		_ = items.Append([]string{
			res.ItemID,
			string(trait),
			yesNo(res.IsReversed),
			strconv.Itoa(res.RawFinalScores.Get(trait)),
			strconv.Itoa(res.AdjustedFinalScores.Get(trait)),
			strconv.Itoa(res.RoundsUsed),
			strconv.Itoa(len(res.JudgesUsed)),
			strconv.Itoa(len(res.FailedJudges)),
			string(res.Resolution),
		})
	}
	if err := items.Render(); err != nil {
		return err
	}
	fmt.Fprintln(w)

	agg := report.Aggregate
	traits := newTable(w, []string{"Rasgo", "Total", "Media", "Confiabilidad"})
	for _, t := range domain.AllTraits() {
		_ = traits.Append([]string{
			string(t),
			strconv.Itoa(agg.TraitTotals.Get(t)),
			fmt.Sprintf("%.2f", agg.RawTotals[t]),
			fmt.Sprintf("%.2f", agg.PerTraitReliability[t]),
		})
	}
	if err := traits.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nTipo: %s\nConfiabilidad global: %.2f\n", agg.CategoricalType, agg.OverallReliability)
	if len(agg.DegradedItems) > 0 {
		fmt.Fprintf(w, "Items sin puntaje: %s\n", strings.Join(agg.DegradedItems, ", "))
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "si"
	}
	return "no"
}
