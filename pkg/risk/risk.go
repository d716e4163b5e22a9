// Package risk turns predicted return probabilities into tiers and report
// figures.
package risk

import (
	"fmt"
	"strconv"
	"strings"

	"returnrisk/pkg/data"
	"returnrisk/pkg/schema"
	"returnrisk/pkg/stats"
)

// Level is a return-risk tier.
type Level string

const (
	Low    Level = "low"
	Medium Level = "medium"
	High   Level = "high"
)

// Tier boundaries: p > HighAbove is high, p <= LowAtMost is low, the rest
// medium.
const (
	HighAbove = 0.70
	LowAtMost = 0.30
)

// PreviewLimit caps the per-order rows carried by a Summary.
const PreviewLimit = 20

// Tier classifies one probability.
func Tier(p float64) Level {
	switch {
	case p > HighAbove:
		return High
	case p > LowAtMost:
		return Medium
	default:
		return Low
	}
}

// Bucket is the size of one tier.
type Bucket struct {
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// PreviewRow is one scored order.
type PreviewRow struct {
	OrderID     *string `json:"order_id"`
	Probability float64 `json:"probability"`
	Prediction  int     `json:"prediction"`
}

// Summary aggregates a batch of predictions.
type Summary struct {
	Total   int          `json:"total_orders"`
	High    Bucket       `json:"high_risk"`
	Medium  Bucket       `json:"medium_risk"`
	Low     Bucket       `json:"low_risk"`
	Preview []PreviewRow `json:"predictions"`
}

// Summarize counts tiers and builds the preview of the first PreviewLimit
// orders. orderIDs may be shorter than probs (or nil); those rows get a nil id.
func Summarize(orderIDs []string, probs []float64, decisions []int) Summary {
	s := Summary{Total: len(probs)}
	for _, p := range probs {
		switch Tier(p) {
		case High:
			s.High.Count++
		case Medium:
			s.Medium.Count++
		default:
			s.Low.Count++
		}
	}
	for _, b := range []*Bucket{&s.High, &s.Medium, &s.Low} {
		b.Percent = percent(b.Count, s.Total)
	}

	n := min(len(probs), PreviewLimit)
	s.Preview = make([]PreviewRow, n)
	for i := 0; i < n; i++ {
		row := PreviewRow{Probability: probs[i]}
		if i < len(decisions) {
			row.Prediction = decisions[i]
		}
		if i < len(orderIDs) && !data.IsMissing(orderIDs[i]) {
			id := strings.TrimSpace(orderIDs[i])
			row.OrderID = &id
		}
		s.Preview[i] = row
	}
	return s
}

// PercentText renders a bucket percentage the way reports show it.
func (b Bucket) PercentText() string { return strconv.FormatFloat(b.Percent, 'f', 1, 64) }

func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

// DatasetStats describes a resolved dataset before any model runs.
type DatasetStats struct {
	TotalOrders   int    `json:"total_orders"`
	MissingValues int    `json:"missing_values"`
	ReturnRate    string `json:"return_rate"`
}

// Describe counts rows and missing cells and computes the observed return
// rate, e.g. "40.00%". The rate is "N/A" when the table has no usable
// returned column.
func Describe(t *data.Table) DatasetStats {
	st := DatasetStats{TotalOrders: t.Len(), MissingValues: t.MissingCount(), ReturnRate: "N/A"}
	if flags, err := t.Floats(schema.Returned); err == nil && len(flags) > 0 {
		st.ReturnRate = fmt.Sprintf("%.2f%%", stats.Mean(flags)*100)
	}
	return st
}

// PreviewRows returns the first n rows as column -> value maps, with nil
// for missing cells.
func PreviewRows(t *data.Table, n int) []map[string]any {
	head := t.Head(n)
	out := make([]map[string]any, len(head.Rows))
	for i, row := range head.Rows {
		m := make(map[string]any, len(head.Columns))
		for j, c := range head.Columns {
			if data.IsMissing(row[j]) {
				m[c] = nil
			} else {
				m[c] = row[j]
			}
		}
		out[i] = m
	}
	return out
}
