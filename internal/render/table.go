package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"poolScope/internal/model"
)

var (
	poolColumns    = []string{"Pool", "Tokens", "Weights", "Swap fee", "Liquidity", "Swaps", "Created"}
	metricsColumns = []string{"Fees USD", "Return %", "Annualized %", "Flagged", "Failed pages"}
)

// Table renders rows as a text table. Metric columns are included when
// withMetrics is set; rows without metrics show "-" there.
func Table(w io.Writer, rows []model.DisplayRow, withMetrics bool) error {
	columns := append([]string{}, poolColumns...)
	if withMetrics {
		columns = append(columns, metricsColumns...)
	}

	header := make([]any, 0, len(columns))
	for _, column := range columns {
		header = append(header, column)
	}

	table := tablewriter.NewWriter(w)
	table.Header(header...)
	for _, row := range rows {
		if err := table.Append(tableCells(row, withMetrics)); err != nil {
			return fmt.Errorf("append row %s: %w", row.ID, err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}

	_, err := fmt.Fprintf(w, "%d pools\n", len(rows))
	return err
}

func tableCells(row model.DisplayRow, withMetrics bool) []string {
	cells := []string{
		row.ID,
		row.Tokens,
		row.Weights,
		row.SwapFee,
		strconv.FormatInt(row.Liquidity, 10),
		strconv.FormatInt(row.SwapsCount, 10),
		row.Created,
	}
	if !withMetrics {
		return cells
	}
	if !row.HasMetrics {
		return append(cells, "-", "-", "-", "-", strconv.Itoa(row.FailedPages))
	}
	return append(cells,
		row.TotalFeesUSD,
		row.PeriodReturnPct,
		row.AnnualizedPct,
		strconv.Itoa(row.FlaggedSwaps),
		strconv.Itoa(row.FailedPages),
	)
}
