package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

// dailyTable builds a table with one row per day carrying the given totals.
func dailyTable(totals ...int) Table {
	rows := make([]RentalRecord, len(totals))
	for i, n := range totals {
		rows[i] = RentalRecord{Date: day(i), Count: n}
	}
	return NewTable(rows)
}

func TestHourlyMeans(t *testing.T) {
	table := NewTable([]RentalRecord{
		{Hour: 0, Count: 10},
		{Hour: 0, Count: 20},
		{Hour: 1, Count: 30},
		{Hour: 1, Count: 40},
	})

	got := HourlyMeans(table)

	want := []HourlyMean{{Hour: 0, MeanCount: 15}, {Hour: 1, MeanCount: 35}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("HourlyMeans mismatch (-want +got):\n%s", diff)
	}
}

func TestHourlyMeans_OrderedByHour(t *testing.T) {
	table := NewTable([]RentalRecord{
		{Hour: 23, Count: 1},
		{Hour: 5, Count: 2},
		{Hour: 12, Count: 3},
		{Hour: 5, Count: 4},
	})

	got := HourlyMeans(table)

	require.Len(t, got, 3)
	assert.Equal(t, []int{5, 12, 23}, []int{got[0].Hour, got[1].Hour, got[2].Hour})
	assert.Equal(t, 3.0, got[0].MeanCount)
}

func TestWeatherTotals_SortedDescending(t *testing.T) {
	table := NewTable([]RentalRecord{
		{Weather: WeatherClear, Count: 100},
		{Weather: WeatherMist, Count: 300},
		{Weather: WeatherClear, Count: 150},
		{Weather: WeatherHeavyPrecip, Count: 5},
		{Weather: WeatherLightPrecip, Count: 40},
	})

	got := WeatherTotals(table)

	want := []CategoryTotal{
		{Label: WeatherMist, Total: 300},
		{Label: WeatherClear, Total: 250},
		{Label: WeatherLightPrecip, Total: 40},
		{Label: WeatherHeavyPrecip, Total: 5},
	}
	assert.Equal(t, want, got)
}

func TestSeasonTotals_TiesKeepCanonicalOrder(t *testing.T) {
	// Rows arrive in reverse canonical order; equal totals must still come
	// out Spring, Summer, Fall, Winter.
	table := NewTable([]RentalRecord{
		{Season: SeasonWinter, Count: 50},
		{Season: SeasonFall, Count: 50},
		{Season: SeasonSummer, Count: 70},
		{Season: SeasonSpring, Count: 50},
	})

	got := SeasonTotals(table)

	want := []CategoryTotal{
		{Label: SeasonSummer, Total: 70},
		{Label: SeasonSpring, Total: 50},
		{Label: SeasonFall, Total: 50},
		{Label: SeasonWinter, Total: 50},
	}
	assert.Equal(t, want, got)
}

func TestMonthTotals_NonIncreasing(t *testing.T) {
	months := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	counts := []int{5, 9, 9, 1, 12, 12, 12, 0, 3, 9, 7, 2}
	rows := make([]RentalRecord, 0, len(months))
	for i := len(months) - 1; i >= 0; i-- {
		rows = append(rows, RentalRecord{Month: months[i], Count: counts[i]})
	}

	got := MonthTotals(NewTable(rows))

	require.Len(t, got, 12)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Total, got[i].Total)
	}
	assert.Equal(t, []string{"May", "Jun", "Jul"}, []string{got[0].Label, got[1].Label, got[2].Label})
	assert.Equal(t, []string{"Feb", "Mar", "Oct"}, []string{got[3].Label, got[4].Label, got[5].Label})
}

func TestTotals_UnrecodedLabelsFollowKnownOnes(t *testing.T) {
	table := NewTable([]RentalRecord{
		{Weather: "9", Count: 10},
		{Weather: WeatherMist, Count: 10},
		{Weather: "5", Count: 10},
	})

	got := WeatherTotals(table)

	require.Len(t, got, 3)
	assert.Equal(t, []string{WeatherMist, "5", "9"}, []string{got[0].Label, got[1].Label, got[2].Label})
}

func TestHolidayAndWorkingDaySplit(t *testing.T) {
	table := NewTable([]RentalRecord{
		{Holiday: HolidayYes, WorkingDay: DayWeekend, Count: 10},
		{Holiday: HolidayNo, WorkingDay: DayWeekday, Count: 90},
		{Holiday: HolidayNo, WorkingDay: DayWeekend, Count: 25},
	})

	assert.Equal(t, []CategoryTotal{
		{Label: HolidayNo, Total: 115},
		{Label: HolidayYes, Total: 10},
	}, HolidaySplit(table))

	assert.Equal(t, []CategoryTotal{
		{Label: DayWeekend, Total: 35},
		{Label: DayWeekday, Total: 90},
	}, WorkingDaySplit(table))
}

func TestYearlyUserTypes(t *testing.T) {
	table := NewTable([]RentalRecord{
		{Year: "2012", Casual: 5, Registered: 50, Count: 55},
		{Year: "2011", Casual: 3, Registered: 13, Count: 16},
		{Year: "2011", Casual: 8, Registered: 32, Count: 40},
		{Year: "2012", Casual: -1, Registered: 4, Count: 3},
	})

	got := YearlyUserTypes(table)

	want := []YearUsers{
		{Year: "2011", Casual: 11, Registered: 45},
		{Year: "2012", Casual: 4, Registered: 54},
	}
	assert.Equal(t, want, got)
}

func TestQuantile(t *testing.T) {
	values := []float64{8, 3, 1, 7, 2, 6, 5, 4}

	assert.InDelta(t, 2.75, Quantile(values, 0.25), floatTolerance)
	assert.InDelta(t, 4.5, Quantile(values, 0.5), floatTolerance)
	assert.InDelta(t, 6.25, Quantile(values, 0.75), floatTolerance)
	assert.Equal(t, 1.0, Quantile(values, 0))
	assert.Equal(t, 8.0, Quantile(values, 1))
	assert.Equal(t, 0.0, Quantile(nil, 0.5))
	assert.Equal(t, []float64{8, 3, 1, 7, 2, 6, 5, 4}, values, "input must not be reordered")
}

func TestClassifyDailyTraffic(t *testing.T) {
	got := ClassifyDailyTraffic(dailyTable(1, 2, 3, 4, 5, 6, 7, 8))

	assert.InDelta(t, 2.75, got.Q1, floatTolerance)
	assert.InDelta(t, 6.25, got.Q3, floatTolerance)
	require.Len(t, got.Days, 8)

	byCount := make(map[int]string)
	for _, d := range got.Days {
		byCount[d.Count] = d.Category
	}
	assert.Equal(t, TrafficLow, byCount[1])
	assert.Equal(t, TrafficLow, byCount[2])
	assert.Equal(t, TrafficMedium, byCount[3])
	assert.Equal(t, TrafficMedium, byCount[4])
	assert.Equal(t, TrafficMedium, byCount[6])
	assert.Equal(t, TrafficHigh, byCount[7])
	assert.Equal(t, TrafficHigh, byCount[8])
}

func TestClassifyDailyTraffic_SumsHoursPerDay(t *testing.T) {
	table := NewTable([]RentalRecord{
		{Date: day(1), Hour: 0, Count: 4},
		{Date: day(0), Hour: 0, Count: 1},
		{Date: day(1), Hour: 1, Count: 6},
		{Date: day(0), Hour: 1, Count: 2},
	})

	got := ClassifyDailyTraffic(table)

	require.Len(t, got.Days, 2)
	assert.Equal(t, day(0), got.Days[0].Date)
	assert.Equal(t, 3, got.Days[0].Count)
	assert.Equal(t, day(1), got.Days[1].Date)
	assert.Equal(t, 10, got.Days[1].Count)
}

func TestClassifyDailyTraffic_GroupsByCalendarDate(t *testing.T) {
	eastern := time.FixedZone("EST", -5*60*60)
	table := NewTable([]RentalRecord{
		{Date: time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC), Hour: 0, Count: 3},
		{Date: time.Date(2011, 1, 1, 0, 0, 0, 0, eastern), Hour: 1, Count: 4},
		{Date: time.Date(2011, 1, 1, 9, 30, 0, 0, time.UTC), Hour: 9, Count: 5},
		{Date: time.Date(2011, 1, 2, 0, 0, 0, 0, eastern), Hour: 0, Count: 1},
	})

	got := ClassifyDailyTraffic(table)

	require.Len(t, got.Days, 2)
	assert.Equal(t, day(0), got.Days[0].Date)
	assert.Equal(t, 12, got.Days[0].Count)
	assert.Equal(t, day(1), got.Days[1].Date)
	assert.Equal(t, 1, got.Days[1].Count)
}

func TestClassifyDailyTraffic_DegenerateIsLow(t *testing.T) {
	got := ClassifyDailyTraffic(dailyTable(5, 5, 5, 5))

	assert.Equal(t, 5.0, got.Q1)
	assert.Equal(t, 5.0, got.Q3)
	for _, d := range got.Days {
		assert.Equal(t, TrafficLow, d.Category)
	}
}

func TestClassifyTraffic_LowCheckedFirst(t *testing.T) {
	assert.Equal(t, TrafficLow, classifyTraffic(5, 5, 5))
	assert.Equal(t, TrafficHigh, classifyTraffic(6, 5, 5))
	assert.Equal(t, TrafficMedium, classifyTraffic(5, 4, 6))
}

func TestAggregates_EmptyTable(t *testing.T) {
	var empty Table

	assert.Empty(t, HourlyMeans(empty))
	assert.Empty(t, WeatherTotals(empty))
	assert.Empty(t, SeasonTotals(empty))
	assert.Empty(t, MonthTotals(empty))
	assert.Empty(t, HolidaySplit(empty))
	assert.Empty(t, WorkingDaySplit(empty))
	assert.Empty(t, YearlyUserTypes(empty))

	daily := ClassifyDailyTraffic(empty)
	assert.NotNil(t, daily.Days)
	assert.Empty(t, daily.Days)
	assert.Zero(t, daily.Q1)
	assert.Zero(t, daily.Q3)
}

func TestAggregates_DoNotMutateTable(t *testing.T) {
	table := NewTable([]RentalRecord{
		{Date: day(1), Season: SeasonFall, Weather: WeatherMist, Count: 9},
		{Date: day(0), Season: SeasonSpring, Weather: WeatherClear, Count: 1},
	})
	before := table.Rows()

	NewVisualizations(table, 10, 1)

	assert.Equal(t, before, table.Rows())
}
