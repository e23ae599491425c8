package domain

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Daily traffic categories.
const (
	TrafficLow    = "Low"
	TrafficMedium = "Medium"
	TrafficHigh   = "High"
)

// HourlyMean is the average hourly count for one hour of the day.
type HourlyMean struct {
	Hour      int     `json:"hour"`
	MeanCount float64 `json:"mean_count"`
}

// CategoryTotal is the summed count for one categorical label.
type CategoryTotal struct {
	Label string `json:"label"`
	Total int    `json:"total"`
}

// YearUsers holds the casual and registered totals for one year.
type YearUsers struct {
	Year       string `json:"year"`
	Casual     int    `json:"casual"`
	Registered int    `json:"registered"`
}

// DailyTraffic is one calendar day's total with its quartile category.
type DailyTraffic struct {
	Date     time.Time `json:"date"`
	Count    int       `json:"count"`
	Category string    `json:"category"`
}

// DailyClusters is the quartile classification of every day in the table.
type DailyClusters struct {
	Q1   float64        `json:"q1"`
	Q3   float64        `json:"q3"`
	Days []DailyTraffic `json:"days"`
}

// HourlyMeans averages count per hour, ordered by hour ascending.
func HourlyMeans(t Table) []HourlyMean {
	byHour := make(map[int][]float64)
	for _, r := range t.rows {
		byHour[r.Hour] = append(byHour[r.Hour], float64(r.Count))
	}

	hours := make([]int, 0, len(byHour))
	for h := range byHour {
		hours = append(hours, h)
	}
	sort.Ints(hours)

	out := make([]HourlyMean, 0, len(hours))
	for _, h := range hours {
		out = append(out, HourlyMean{Hour: h, MeanCount: stat.Mean(byHour[h], nil)})
	}
	return out
}

// WeatherTotals sums count per weather label, largest total first.
func WeatherTotals(t Table) []CategoryTotal {
	return sortByTotal(sumByLabel(t, weatherCodes, func(r RentalRecord) string { return r.Weather }))
}

// SeasonTotals sums count per season, largest total first.
func SeasonTotals(t Table) []CategoryTotal {
	return sortByTotal(sumByLabel(t, seasonCodes, func(r RentalRecord) string { return r.Season }))
}

// MonthTotals sums count per month, largest total first.
func MonthTotals(t Table) []CategoryTotal {
	return sortByTotal(sumByLabel(t, monthCodes, func(r RentalRecord) string { return r.Month }))
}

// HolidaySplit sums count for holidays and non-holidays, in code order.
func HolidaySplit(t Table) []CategoryTotal {
	return sumByLabel(t, holidayCodes, func(r RentalRecord) string { return r.Holiday })
}

// WorkingDaySplit sums count for weekends and weekdays, in code order.
func WorkingDaySplit(t Table) []CategoryTotal {
	return sumByLabel(t, workingDayCodes, func(r RentalRecord) string { return r.WorkingDay })
}

// YearlyUserTypes sums casual and registered users per year. The two sums are
// independent aggregates over the same grouping.
func YearlyUserTypes(t Table) []YearUsers {
	casual := make(map[string]int)
	registered := make(map[string]int)
	present := make(map[string]struct{})
	for _, r := range t.rows {
		casual[r.Year] += r.Casual
		registered[r.Year] += r.Registered
		present[r.Year] = struct{}{}
	}

	years := yearCodes.arrange(present)
	out := make([]YearUsers, 0, len(years))
	for _, y := range years {
		out = append(out, YearUsers{Year: y, Casual: casual[y], Registered: registered[y]})
	}
	return out
}

// calendarDay identifies a date independent of its clock time and location.
type calendarDay struct {
	year  int
	month time.Month
	day   int
}

func dayOf(t time.Time) calendarDay {
	y, m, d := t.Date()
	return calendarDay{year: y, month: m, day: d}
}

func (c calendarDay) time() time.Time {
	return time.Date(c.year, c.month, c.day, 0, 0, 0, 0, time.UTC)
}

func (c calendarDay) before(o calendarDay) bool {
	if c.year != o.year {
		return c.year < o.year
	}
	if c.month != o.month {
		return c.month < o.month
	}
	return c.day < o.day
}

// ClassifyDailyTraffic sums count per calendar date and buckets each day
// against the Q1/Q3 of the daily totals. Days are ordered by date and carry
// midnight UTC of their calendar date.
func ClassifyDailyTraffic(t Table) DailyClusters {
	totals := make(map[calendarDay]int)
	for _, r := range t.rows {
		totals[dayOf(r.Date)] += r.Count
	}
	if len(totals) == 0 {
		return DailyClusters{Days: []DailyTraffic{}}
	}

	dates := make([]calendarDay, 0, len(totals))
	values := make([]float64, 0, len(totals))
	for d, n := range totals {
		dates = append(dates, d)
		values = append(values, float64(n))
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].before(dates[j]) })

	q1 := Quantile(values, 0.25)
	q3 := Quantile(values, 0.75)

	days := make([]DailyTraffic, 0, len(dates))
	for _, d := range dates {
		n := totals[d]
		days = append(days, DailyTraffic{Date: d.time(), Count: n, Category: classifyTraffic(float64(n), q1, q3)})
	}
	return DailyClusters{Q1: q1, Q3: q3, Days: days}
}

// classifyTraffic checks Low before High; with Q1 == Q3 a tie is Low.
func classifyTraffic(v, q1, q3 float64) string {
	switch {
	case v <= q1:
		return TrafficLow
	case v >= q3:
		return TrafficHigh
	default:
		return TrafficMedium
	}
}

// Quantile returns the q-th quantile of values using linear interpolation
// between closest ranks. values is not modified. It returns 0 for no values.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return quantileSorted(sorted, q)
}

func quantileSorted(sorted []float64, q float64) float64 {
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// sumByLabel sums count per label and returns the totals in canonical order.
func sumByLabel(t Table, cb codebook, key func(RentalRecord) string) []CategoryTotal {
	totals := make(map[string]int)
	present := make(map[string]struct{})
	for _, r := range t.rows {
		k := key(r)
		totals[k] += r.Count
		present[k] = struct{}{}
	}

	labels := cb.arrange(present)
	out := make([]CategoryTotal, 0, len(labels))
	for _, l := range labels {
		out = append(out, CategoryTotal{Label: l, Total: totals[l]})
	}
	return out
}

// sortByTotal orders totals descending. The sort is stable, so equal totals
// keep the canonical order they arrived in.
func sortByTotal(totals []CategoryTotal) []CategoryTotal {
	sort.SliceStable(totals, func(i, j int) bool { return totals[i].Total > totals[j].Total })
	return totals
}
