// Command genmock writes a synthetic hourly bike-sharing dataset in the same
// layout as the published hour.csv. Output is reproducible for a given seed
// and is loaded back through the real preparation path before genmock exits,
// so a fixture that the service would reject is never left behind.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out data/mock/hour.csv \
//	  -start 2011-01-01 -days 60 -seed 7
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/couchcryptid/bikeshare-dashboard/internal/adapter/csvfile"
	"github.com/couchcryptid/bikeshare-dashboard/internal/domain"
)

// hourlyDemand is a relative demand curve for each hour of a working day,
// with the commute peaks at 08:00 and 17:00-18:00.
var hourlyDemand = [24]float64{
	0.10, 0.06, 0.04, 0.02, 0.02, 0.05, 0.20, 0.55,
	1.00, 0.60, 0.35, 0.40, 0.50, 0.50, 0.45, 0.50,
	0.65, 1.00, 0.95, 0.65, 0.45, 0.35, 0.25, 0.15,
}

// weekendDemand flattens the curve around midday.
var weekendDemand = [24]float64{
	0.20, 0.15, 0.12, 0.05, 0.02, 0.02, 0.05, 0.12,
	0.25, 0.45, 0.65, 0.80, 0.95, 1.00, 1.00, 0.95,
	0.90, 0.80, 0.65, 0.50, 0.40, 0.35, 0.30, 0.22,
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the generated CSV")
	start := flag.String("start", "2011-01-01", "first calendar date (YYYY-MM-DD)")
	days := flag.Int("days", 60, "number of days to generate")
	seed := flag.Uint64("seed", 1, "random seed")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	first, err := time.Parse(domain.DateLayout, *start)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}
	if *days <= 0 {
		return fmt.Errorf("-days must be positive, got %d", *days)
	}
	// The year column only encodes 2011 and 2012.
	if last := first.AddDate(0, 0, *days-1); first.Year() < 2011 || last.Year() > 2012 {
		return fmt.Errorf("dates %s..%s fall outside 2011-2012", first.Format(domain.DateLayout), last.Format(domain.DateLayout))
	}

	rows := generate(first, *days, rand.New(rand.NewPCG(*seed, *seed+1)))

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}
	if err := writeCSV(*out, rows); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	log.Printf("wrote %d rows (%d days) to %s", len(rows), *days, *out)

	table, err := csvfile.Prepare(context.Background(), *out, domain.PrepareOptions{})
	if err != nil {
		return fmt.Errorf("generated file does not prepare: %w", err)
	}
	if findings := domain.Audit(table); len(findings) > 0 {
		return fmt.Errorf("generated file has %d data-quality findings, first: %s", len(findings), findings[0].Detail)
	}
	daily := domain.ClassifyDailyTraffic(table)
	log.Printf("verified: %d rows, %d days, daily Q1=%.1f Q3=%.1f", table.Len(), len(daily.Days), daily.Q1, daily.Q3)
	return nil
}

func generate(first time.Time, days int, rng *rand.Rand) []domain.RawRecord {
	rows := make([]domain.RawRecord, 0, days*24)
	for d := range days {
		date := first.AddDate(0, 0, d)
		weekday := int(date.Weekday())
		holiday := 0
		if weekday != 0 && weekday != 6 && rng.Float64() < 0.03 {
			holiday = 1
		}
		workingDay := 0
		if weekday != 0 && weekday != 6 && holiday == 0 {
			workingDay = 1
		}

		// Daily baseline temperature follows the annual cycle, peaking in July.
		yearFrac := float64(date.YearDay()) / 365
		baseTemp := clamp(0.5-0.3*math.Cos(2*math.Pi*(yearFrac-0.05))+rng.NormFloat64()*0.05, 0.02, 0.98)
		dayWeather := pickWeather(rng)

		for hour := range 24 {
			weather := dayWeather
			if rng.Float64() < 0.1 {
				weather = pickWeather(rng)
			}
			temp := clamp(baseTemp+0.08*math.Sin(2*math.Pi*(float64(hour)-9)/24), 0.02, 1)
			feels := clamp(temp*0.95+rng.Float64()*0.05, 0, 1)
			humidity := clamp(0.45+0.1*float64(weather)+rng.NormFloat64()*0.08, 0, 1)
			wind := clamp(math.Abs(rng.NormFloat64())*0.15, 0, 0.85)

			demand := hourlyDemand[hour]
			if workingDay == 0 {
				demand = weekendDemand[hour]
			}
			demand *= (0.4 + temp) * weatherFactor(weather)

			registered := poisson(rng, 180*demand)
			casualShare := 0.12
			if workingDay == 0 {
				casualShare = 0.45
			}
			casual := poisson(rng, 180*demand*casualShare)

			rows = append(rows, domain.RawRecord{
				Date:          date,
				Season:        season(date),
				Year:          date.Year() - 2011,
				Month:         int(date.Month()),
				Hour:          hour,
				Holiday:       holiday,
				Weekday:       weekday,
				WorkingDay:    workingDay,
				Weather:       weather,
				Temp:          round4(temp),
				FeelsLikeTemp: round4(feels),
				Humidity:      round2(humidity),
				WindSpeed:     round4(wind),
				Casual:        casual,
				Registered:    registered,
				Count:         casual + registered,
			})
		}
	}
	return rows
}

func writeCSV(path string, rows []domain.RawRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(append([]string{domain.ColInstant}, domain.RequiredColumns()...)); err != nil {
		return err
	}
	for i, r := range rows {
		rec := []string{
			strconv.Itoa(i + 1),
			r.Date.Format(domain.DateLayout),
			strconv.Itoa(r.Season),
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Month),
			strconv.Itoa(r.Hour),
			strconv.Itoa(r.Holiday),
			strconv.Itoa(r.Weekday),
			strconv.Itoa(r.WorkingDay),
			strconv.Itoa(r.Weather),
			formatFloat(r.Temp),
			formatFloat(r.FeelsLikeTemp),
			formatFloat(r.Humidity),
			formatFloat(r.WindSpeed),
			strconv.Itoa(r.Casual),
			strconv.Itoa(r.Registered),
			strconv.Itoa(r.Count),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// season uses the dataset's meteorological convention: 1 spring, 2 summer,
// 3 fall, 4 winter, switching around the solstices and equinoxes.
func season(date time.Time) int {
	md := int(date.Month())*100 + date.Day()
	switch {
	case md >= 321 && md < 621:
		return 2
	case md >= 621 && md < 923:
		return 3
	case md >= 923 && md < 1221:
		return 4
	default:
		return 1
	}
}

func pickWeather(rng *rand.Rand) int {
	switch p := rng.Float64(); {
	case p < 0.65:
		return 1
	case p < 0.91:
		return 2
	case p < 0.995:
		return 3
	default:
		return 4
	}
}

func weatherFactor(weather int) float64 {
	return [...]float64{1, 1, 0.85, 0.45, 0.15}[weather]
}

// poisson draws from a Poisson distribution with mean lambda using Knuth's
// method for small means and a normal approximation above 30.
func poisson(rng *rand.Rand, lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	if lambda > 30 {
		return max(0, int(math.Round(lambda+math.Sqrt(lambda)*rng.NormFloat64())))
	}
	l := math.Exp(-lambda)
	k, p := 0, 1.0
	for {
		p *= rng.Float64()
		if p <= l {
			return k
		}
		k++
	}
}

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
