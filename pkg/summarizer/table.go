package summarizer

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/user/yuvenc/pkg/ports"
)

// Align selects column alignment for Table.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

func newTable(headers []string, rows [][]string, aligns []Align) table.Writer {
	columns := len(headers)

	tw := table.NewWriter()
	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == AlignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)
	return tw
}

// Table renders rows as a rounded box table for the terminal.
func Table(headers []string, rows [][]string, aligns []Align) string {
	if len(headers) == 0 {
		return ""
	}
	tw := newTable(headers, rows, aligns)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault
	return tw.Render()
}

func markdownTable(headers []string, rows [][]string, aligns []Align) string {
	if len(headers) == 0 {
		return ""
	}
	return newTable(headers, rows, aligns).RenderMarkdown()
}

// StageTable renders the per-stage states of a summary.
func StageTable(s *Summary) string {
	return Table(stageHeaders, stageRows(s), stageAligns)
}

// HistoryTable renders recorded runs, newest first.
func HistoryTable(records []ports.RunRecord) string {
	headers := []string{"Run", "Finished", "Codec", "Size", "Status", "Frames", "Packets", "Bytes"}
	aligns := []Align{AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		status := rec.Status
		if rec.Reason != "" {
			status = fmt.Sprintf("%s (%s)", rec.Status, rec.Reason)
		}
		rows = append(rows, []string{
			shortID(rec.RunID),
			rec.FinishedAt.Format(time.DateTime),
			rec.Codec,
			fmt.Sprintf("%dx%d", rec.Width, rec.Height),
			status,
			strconv.Itoa(rec.Frames),
			strconv.Itoa(rec.Packets),
			humanize.Bytes(uint64(rec.Bytes)),
		})
	}
	return Table(headers, rows, aligns)
}

var (
	stageHeaders = []string{"Stage", "Status", "Items", "Error"}
	stageAligns  = []Align{AlignLeft, AlignLeft, AlignRight, AlignLeft}
)

func stageRows(s *Summary) [][]string {
	rows := make([][]string, 0, len(s.Stages))
	for _, st := range s.Stages {
		rows = append(rows, []string{st.Name, st.Status, strconv.Itoa(st.Items), st.Error})
	}
	return rows
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
