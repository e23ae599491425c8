package domain

import (
	"fmt"
	"strings"
)

// View is a navigation selection of the dashboard.
type View string

const (
	ViewIntroduction   View = "introduction"
	ViewDataOverview   View = "overview"
	ViewVisualizations View = "visualizations"
)

// Views returns every view in navigation order.
func Views() []View {
	return []View{ViewIntroduction, ViewDataOverview, ViewVisualizations}
}

// ParseView resolves a selection name. Matching ignores case, spaces,
// hyphens and underscores, so "Data Overview" and "data_overview" both select
// the overview.
func ParseView(s string) (View, error) {
	key := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case "introduction", "intro":
		return ViewIntroduction, nil
	case "overview", "dataoverview":
		return ViewDataOverview, nil
	case "visualizations", "visualisations", "charts":
		return ViewVisualizations, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
	}
}

// Introduction is the static landing view.
type Introduction struct {
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	Questions []string `json:"questions"`
}

// Overview is a sample of prepared rows with per-column statistics.
type Overview struct {
	Rows    int            `json:"rows"`
	Sample  []RentalRecord `json:"sample"`
	Summary []ColumnStats  `json:"summary"`
}

// Visualizations bundles every chart-ready aggregate and a seeded sample of
// the classified days.
type Visualizations struct {
	Hourly      []HourlyMean    `json:"hourly"`
	Weather     []CategoryTotal `json:"weather"`
	Season      []CategoryTotal `json:"season"`
	Month       []CategoryTotal `json:"month"`
	Holiday     []CategoryTotal `json:"holiday"`
	WorkingDay  []CategoryTotal `json:"workingday"`
	Users       []YearUsers     `json:"users"`
	Daily       DailyClusters   `json:"daily"`
	DailySample []DailyTraffic  `json:"daily_sample"`
}

// NewIntroduction describes the dashboard and the questions it answers.
func NewIntroduction() Introduction {
	return Introduction{
		Title:   "Bike Sharing Data Analysis Dashboard",
		Summary: "Descriptive analysis of hourly bike rentals across 2011 and 2012.",
		Questions: []string{
			"At what time are bike rentals at their highest?",
			"How does the weather affect bicycle rentals?",
			"What is the pattern of bicycle rentals by season and month?",
			"How do holidays affect bicycle rentals?",
			"How does the count of bicycle rentals differ between weekdays and weekends?",
			"How does the count of casual and registered users compare in 2011 and 2012?",
			"How is the daily traffic of bicycle rentals? [Clustering Analysis]",
		},
	}
}

// NewOverview samples sampleRows rows with seed and summarizes the table.
func NewOverview(t Table, sampleRows int, seed uint64) Overview {
	return Overview{
		Rows:    t.Len(),
		Sample:  Sample(t, sampleRows, seed),
		Summary: Describe(t),
	}
}

// NewVisualizations computes every aggregate over t and samples sampleDays
// classified days with seed.
func NewVisualizations(t Table, sampleDays int, seed uint64) Visualizations {
	daily := ClassifyDailyTraffic(t)
	return Visualizations{
		Hourly:      HourlyMeans(t),
		Weather:     WeatherTotals(t),
		Season:      SeasonTotals(t),
		Month:       MonthTotals(t),
		Holiday:     HolidaySplit(t),
		WorkingDay:  WorkingDaySplit(t),
		Users:       YearlyUserTypes(t),
		Daily:       daily,
		DailySample: SampleDays(daily, sampleDays, seed),
	}
}
