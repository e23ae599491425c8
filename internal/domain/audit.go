package domain

import (
	"fmt"
	"time"
)

// Audit check names.
const (
	CheckNegativeCount = "negative_count"
	CheckCountMismatch = "count_mismatch"
	CheckOutOfRange    = "out_of_range"
)

// Finding is one data-quality observation about a prepared row.
type Finding struct {
	Row    int       `json:"row"` // 1-based position in the table
	Date   time.Time `json:"date"`
	Hour   int       `json:"hour"`
	Check  string    `json:"check"`
	Detail string    `json:"detail"`
}

// physicalRanges are the bounds implied by stored fractions in [0, 1].
var physicalRanges = []struct {
	column string
	max    float64
	value  func(RentalRecord) float64
}{
	{"temp", TempScale, func(r RentalRecord) float64 { return r.Temp }},
	{"feels_like_temp", FeelsLikeTempScale, func(r RentalRecord) float64 { return r.FeelsLikeTemp }},
	{"humidity", HumidityScale, func(r RentalRecord) float64 { return r.Humidity }},
	{"windspeed", WindSpeedScale, func(r RentalRecord) float64 { return r.WindSpeed }},
}

// Audit reports rows with negative counts, a count that differs from
// casual + registered, or physical values outside the range of unit-interval
// inputs. It only reports; the table is never changed.
func Audit(t Table) []Finding {
	var out []Finding
	for i, r := range t.rows {
		add := func(check, format string, args ...any) {
			out = append(out, Finding{
				Row:    i + 1,
				Date:   r.Date,
				Hour:   r.Hour,
				Check:  check,
				Detail: fmt.Sprintf(format, args...),
			})
		}

		if r.Casual < 0 || r.Registered < 0 || r.Count < 0 {
			add(CheckNegativeCount, "casual=%d registered=%d count=%d", r.Casual, r.Registered, r.Count)
		}
		if r.Count != r.Casual+r.Registered {
			add(CheckCountMismatch, "count=%d casual+registered=%d", r.Count, r.Casual+r.Registered)
		}
		for _, pr := range physicalRanges {
			if v := pr.value(r); v < 0 || v > pr.max {
				add(CheckOutOfRange, "%s=%g outside [0, %g]", pr.column, v, pr.max)
			}
		}
	}
	return out
}
