// Package report renders views and aggregates as plain-text tables for a
// terminal. Each section opens with a bracketed heading followed by an
// aligned table.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/couchcryptid/bikeshare-dashboard/internal/domain"
	"github.com/dustin/go-humanize"
)

// sectionTitles names each aggregate's heading.
var sectionTitles = map[domain.Query]string{
	domain.QueryHourly:     "HOURLY MEAN RENTALS",
	domain.QueryWeather:    "RENTALS BY WEATHER",
	domain.QuerySeason:     "RENTALS BY SEASON",
	domain.QueryMonth:      "RENTALS BY MONTH",
	domain.QueryHoliday:    "HOLIDAY VS NON-HOLIDAY",
	domain.QueryWorkingDay: "WEEKEND VS WEEKDAY",
	domain.QueryUsers:      "CASUAL VS REGISTERED BY YEAR",
	domain.QueryDaily:      "DAILY TRAFFIC CLUSTERS",
}

// Introduction writes the landing view.
func Introduction(w io.Writer, intro domain.Introduction) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n", intro.Title, strings.Repeat("=", len(intro.Title)))
	fmt.Fprintf(&b, "%s\n\n[QUESTIONS]\n", intro.Summary)
	for i, q := range intro.Questions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Overview writes the row count, the sample rows and the per-column summary.
func Overview(w io.Writer, ov domain.Overview) error {
	fmt.Fprintf(w, "[DATASET SUMMARY]\nRows: %s\n\n", humanize.Comma(int64(ov.Rows)))

	fmt.Fprintf(w, "[SAMPLE] (%d rows)\n", len(ov.Sample))
	tw := newTable(w)
	fmt.Fprintln(tw, "date\tyear\tmonth\thour\tday\tseason\tholiday\tworkingday\tweather\ttemp\tfeels_like\thumidity\twindspeed\tcasual\tregistered\tcount")
	for _, r := range ov.Sample {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\t%.2f\t%.2f\t%.0f\t%.2f\t%d\t%d\t%d\n",
			r.Date.Format(domain.DateLayout), r.Year, r.Month, r.Hour, r.Day, r.Season, r.Holiday,
			r.WorkingDay, r.Weather, r.Temp, r.FeelsLikeTemp, r.Humidity, r.WindSpeed,
			r.Casual, r.Registered, r.Count)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprint(w, "\n[DESCRIBE]\n")
	tw = newTable(w)
	fmt.Fprintln(tw, "column\tcount\tmean\tstd\tmin\t25%\t50%\t75%\tmax")
	for _, s := range ov.Summary {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\n",
			s.Column, s.Count, s.Mean, s.Std, s.Min, s.P25, s.P50, s.P75, s.Max)
	}
	return tw.Flush()
}

// Visualizations writes every aggregate section in dashboard order, then the
// sample of classified days.
func Visualizations(w io.Writer, v domain.Visualizations) error {
	results := map[domain.Query]any{
		domain.QueryHourly:     v.Hourly,
		domain.QueryWeather:    v.Weather,
		domain.QuerySeason:     v.Season,
		domain.QueryMonth:      v.Month,
		domain.QueryHoliday:    v.Holiday,
		domain.QueryWorkingDay: v.WorkingDay,
		domain.QueryUsers:      v.Users,
		domain.QueryDaily:      v.Daily,
	}
	for i, q := range domain.Queries() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := Aggregate(w, q, results[q]); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "\n[SAMPLE OF DAILY RENTALS] (%d days)\n", len(v.DailySample))
	tw := newTable(w)
	fmt.Fprintln(tw, "date\tcount\tcategory")
	for _, day := range v.DailySample {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", day.Date.Format(domain.DateLayout), humanize.Comma(int64(day.Count)), day.Category)
	}
	return tw.Flush()
}

// Aggregate writes one aggregate result under its heading. result must be
// the value RunQuery returns for q.
func Aggregate(w io.Writer, q domain.Query, result any) error {
	title, ok := sectionTitles[q]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownQuery, q)
	}
	fmt.Fprintf(w, "[%s]\n", title)

	tw := newTable(w)
	switch r := result.(type) {
	case []domain.HourlyMean:
		fmt.Fprintln(tw, "hour\tmean count")
		for _, h := range r {
			fmt.Fprintf(tw, "%02d:00\t%s\n", h.Hour, humanize.CommafWithDigits(h.MeanCount, 2))
		}
	case []domain.CategoryTotal:
		fmt.Fprintln(tw, "label\ttotal")
		for _, c := range r {
			fmt.Fprintf(tw, "%s\t%s\n", c.Label, humanize.Comma(int64(c.Total)))
		}
	case []domain.YearUsers:
		fmt.Fprintln(tw, "year\tcasual\tregistered")
		for _, y := range r {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", y.Year, humanize.Comma(int64(y.Casual)), humanize.Comma(int64(y.Registered)))
		}
	case domain.DailyClusters:
		return dailyClusters(w, tw, r)
	default:
		return fmt.Errorf("unsupported result %T for %s", result, q)
	}
	return tw.Flush()
}

// dailyClusters writes the quartiles, the day count per category and the
// per-day table.
func dailyClusters(w io.Writer, tw *tabwriter.Writer, d domain.DailyClusters) error {
	counts := map[string]int{}
	for _, day := range d.Days {
		counts[day.Category]++
	}
	fmt.Fprintf(w, "Q1: %s  Q3: %s  days: %s\n",
		humanize.CommafWithDigits(d.Q1, 2), humanize.CommafWithDigits(d.Q3, 2), humanize.Comma(int64(len(d.Days))))
	for _, c := range []string{domain.TrafficLow, domain.TrafficMedium, domain.TrafficHigh} {
		fmt.Fprintf(w, "- %s: %d\n", c, counts[c])
	}
	fmt.Fprintln(w)

	fmt.Fprintln(tw, "date\tcount\tcategory")
	for _, day := range d.Days {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", day.Date.Format(domain.DateLayout), humanize.Comma(int64(day.Count)), day.Category)
	}
	return tw.Flush()
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// Queries lists the aggregate names, one per line.
func Queries(w io.Writer) error {
	var b strings.Builder
	for _, q := range domain.Queries() {
		b.WriteString(string(q))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Options tunes the data overview.
type Options struct {
	SampleRows int
	SampleSeed uint64
}

// View renders the selected view over t.
func View(w io.Writer, v domain.View, t domain.Table, opts Options) error {
	switch v {
	case domain.ViewIntroduction:
		return Introduction(w, domain.NewIntroduction())
	case domain.ViewDataOverview:
		return Overview(w, domain.NewOverview(t, opts.SampleRows, opts.SampleSeed))
	case domain.ViewVisualizations:
		return Visualizations(w, domain.NewVisualizations(t, opts.SampleRows, opts.SampleSeed))
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownView, v)
	}
}
