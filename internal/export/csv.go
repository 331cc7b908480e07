// Package export renders successful query payloads for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"sqlscope/backend/internal/model"
)

// RenderCSV writes the payload as CSV with a header row. Column order
// follows the payload's column list, not the row maps.
func RenderCSV(w io.Writer, payload *model.QueryPayload) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(payload.Columns); err != nil {
		return err
	}

	record := make([]string, len(payload.Columns))
	for _, row := range payload.Rows {
		for i, col := range payload.Columns {
			v := row[col]
			if v == nil {
				record[i] = ""
				continue
			}
			record[i] = fmt.Sprintf("%v", v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
