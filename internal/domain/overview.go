package domain

import (
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ColumnStats is a describe-style summary of one numeric column.
type ColumnStats struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	P25    float64 `json:"p25"`
	P50    float64 `json:"p50"`
	P75    float64 `json:"p75"`
	Max    float64 `json:"max"`
}

// numericColumns lists the summarized columns by prepared name.
var numericColumns = []struct {
	name  string
	value func(RentalRecord) float64
}{
	{"hour", func(r RentalRecord) float64 { return float64(r.Hour) }},
	{"temp", func(r RentalRecord) float64 { return r.Temp }},
	{"feels_like_temp", func(r RentalRecord) float64 { return r.FeelsLikeTemp }},
	{"humidity", func(r RentalRecord) float64 { return r.Humidity }},
	{"windspeed", func(r RentalRecord) float64 { return r.WindSpeed }},
	{"casual", func(r RentalRecord) float64 { return float64(r.Casual) }},
	{"registered", func(r RentalRecord) float64 { return float64(r.Registered) }},
	{"count", func(r RentalRecord) float64 { return float64(r.Count) }},
}

// Describe summarizes every numeric column. Std is the sample standard
// deviation and is reported as 0 for fewer than two rows. An empty table
// yields no summaries.
func Describe(t Table) []ColumnStats {
	if len(t.rows) == 0 {
		return []ColumnStats{}
	}

	out := make([]ColumnStats, 0, len(numericColumns))
	vals := make([]float64, len(t.rows))
	for _, col := range numericColumns {
		for i, r := range t.rows {
			vals[i] = col.value(r)
		}
		mean, std := stat.MeanStdDev(vals, nil)
		if len(vals) < 2 {
			std = 0
		}

		sorted := make([]float64, len(vals))
		copy(sorted, vals)
		sort.Float64s(sorted)

		out = append(out, ColumnStats{
			Column: col.name,
			Count:  len(vals),
			Mean:   mean,
			Std:    std,
			Min:    floats.Min(vals),
			P25:    quantileSorted(sorted, 0.25),
			P50:    quantileSorted(sorted, 0.5),
			P75:    quantileSorted(sorted, 0.75),
			Max:    floats.Max(vals),
		})
	}
	return out
}

// Sample returns n rows picked without replacement by a generator seeded with
// seed, so the same table and seed always give the same sample. It returns
// every row, shuffled, when n is at least the table length.
func Sample(t Table, n int, seed uint64) []RentalRecord {
	return sampleOf(t.rows, n, seed)
}

// SampleDays picks n classified days the same way Sample picks rows.
func SampleDays(d DailyClusters, n int, seed uint64) []DailyTraffic {
	return sampleOf(d.Days, n, seed)
}

func sampleOf[T any](items []T, n int, seed uint64) []T {
	if n <= 0 || len(items) == 0 {
		return []T{}
	}
	n = min(n, len(items))

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	perm := rng.Perm(len(items))

	out := make([]T, n)
	for i := range out {
		out[i] = items[perm[i]]
	}
	return out
}
