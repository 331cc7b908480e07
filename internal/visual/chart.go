// Package visual picks a chart type for a tabular query result and writes
// a short plain-language insight about it. Selection is rule based: it
// profiles the columns and applies fixed preferences, no model call.
package visual

import (
	"fmt"
	"strings"
	"time"

	"sqlscope/backend/internal/model"
)

type ChartType string

const (
	ChartBar       ChartType = "bar"
	ChartLine      ChartType = "line"
	ChartPie       ChartType = "pie"
	ChartScatter   ChartType = "scatter"
	ChartHistogram ChartType = "histogram"
)

// Selection is the chart descriptor returned to the caller alongside the
// query payload.
type Selection struct {
	ChartType   ChartType `json:"chart_type"`
	XColumn     string    `json:"x_column,omitempty"`
	YColumn     string    `json:"y_column,omitempty"`
	Confidence  float64   `json:"confidence"`
	Reasoning   string    `json:"reasoning"`
	InsightText string    `json:"insight"`
}

// profile categorizes the payload's columns by sampling values.
type profile struct {
	numeric     []string
	categorical []string
	temporal    []string
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func profileColumns(payload *model.QueryPayload) profile {
	var p profile
	for _, col := range payload.Columns {
		switch classifyColumn(payload.Rows, col) {
		case "numeric":
			p.numeric = append(p.numeric, col)
		case "temporal":
			p.temporal = append(p.temporal, col)
		default:
			p.categorical = append(p.categorical, col)
		}
	}
	return p
}

func classifyColumn(rows []map[string]any, col string) string {
	sampled := 0
	numeric, temporal := 0, 0
	for _, row := range rows {
		v, ok := row[col]
		if !ok || v == nil {
			continue
		}
		sampled++
		switch val := v.(type) {
		case int, int32, int64, float32, float64:
			numeric++
		case time.Time:
			temporal++
		case string:
			if isTimeString(val) {
				temporal++
			}
		}
		if sampled >= 5 {
			break
		}
	}
	if sampled == 0 {
		return "categorical"
	}
	if temporal == sampled {
		return "temporal"
	}
	if numeric == sampled {
		return "numeric"
	}
	return "categorical"
}

func isTimeString(s string) bool {
	for _, layout := range timeLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// SelectChart picks a chart for the payload. The question text only
// influences the categorical case, where an explicit ask for proportions
// upgrades bar to pie.
func SelectChart(question string, payload *model.QueryPayload) Selection {
	p := profileColumns(payload)
	q := strings.ToLower(question)

	var sel Selection
	switch {
	case len(p.temporal) > 0:
		sel = Selection{ChartType: ChartLine, Reasoning: "time series data detected, line chart recommended"}
		sel.XColumn = p.temporal[0]
		if len(p.numeric) > 0 {
			sel.YColumn = p.numeric[0]
		}
	case len(p.numeric) >= 2:
		sel = Selection{ChartType: ChartScatter, Reasoning: "multiple numeric columns, scatter plot recommended"}
		sel.XColumn = p.numeric[0]
		sel.YColumn = p.numeric[1]
	case len(p.categorical) >= 1 && (strings.Contains(q, "pie") || strings.Contains(q, "proportion")):
		sel = Selection{ChartType: ChartPie, Reasoning: "pie chart requested for proportions"}
		sel.XColumn = p.categorical[0]
		if len(p.numeric) > 0 {
			sel.YColumn = p.numeric[0]
		}
	case len(p.categorical) >= 1 && len(p.numeric) > 0:
		sel = Selection{ChartType: ChartBar, Reasoning: "categorical data with numeric values, bar chart recommended"}
		sel.XColumn = p.categorical[0]
		sel.YColumn = p.numeric[0]
	case len(p.numeric) == 1:
		sel = Selection{ChartType: ChartHistogram, Reasoning: "single numeric column, histogram recommended"}
		sel.XColumn = p.numeric[0]
	default:
		sel = Selection{ChartType: ChartBar, Reasoning: "default bar chart recommendation"}
		if len(p.categorical) > 0 {
			sel.XColumn = p.categorical[0]
		}
	}

	sel.Confidence = 0.7
	sel.InsightText = insight(payload, p, sel.ChartType)
	return sel
}

// insight builds a short summary of what the chart will show.
func insight(payload *model.QueryPayload, p profile, chart ChartType) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Visualization shows %d data points using a %s chart. ", payload.RowCount, chart)
	fmt.Fprintf(&b, "Dataset contains %d rows and %d columns.", payload.RowCount, len(payload.Columns))

	if len(p.numeric) > 0 && payload.RowCount > 0 {
		col := p.numeric[0]
		min, max, sum, n := 0.0, 0.0, 0.0, 0
		for _, row := range payload.Rows {
			v, ok := toFloat(row[col])
			if !ok {
				continue
			}
			if n == 0 || v < min {
				min = v
			}
			if n == 0 || v > max {
				max = v
			}
			sum += v
			n++
		}
		if n > 0 {
			fmt.Fprintf(&b, " %s ranges from %.2f to %.2f with a mean of %.2f.", col, min, max, sum/float64(n))
		}
	}
	return b.String()
}

func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case float32:
		return float64(val), true
	case float64:
		return val, true
	default:
		return 0, false
	}
}
