// Command validate performs data integrity checks on an hourly bike-sharing
// dataset: it prepares the file exactly as the service does, audits every
// row, checks hourly coverage per day, and cross-checks the aggregate
// totals against each other.
//
// Usage:
//
//	go run ./cmd/validate -data data/hour.csv
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/couchcryptid/bikeshare-dashboard/internal/adapter/csvfile"
	"github.com/couchcryptid/bikeshare-dashboard/internal/domain"
)

// maxReported caps how many errors are printed per phase.
const maxReported = 25

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataPath := flag.String("data", "", "path to the hourly dataset CSV")
	lenient := flag.Bool("lenient", false, "keep unknown category codes instead of failing")
	flag.Parse()

	if *dataPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*dataPath, *lenient); code != 0 {
		os.Exit(code)
	}
}

func run(dataPath string, lenient bool) int {
	fmt.Println("=== Bike Sharing Data Integrity Validation ===")
	fmt.Println()

	leftRaw := 0
	table, err := csvfile.Prepare(context.Background(), dataPath, domain.PrepareOptions{
		Lenient:   lenient,
		OnUnknown: func(*domain.UnknownCategoryError) { leftRaw++ },
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: prepare %s: %v\n", dataPath, describe(err))
		return 1
	}

	phases := []*phase{
		validateRows(table),
		validateCoverage(table),
		validateAggregates(table),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d rows, %d days", table.Len(), len(domain.ClassifyDailyTraffic(table).Days))
	if leftRaw > 0 {
		fmt.Printf(", %d category codes left raw", leftRaw)
	}
	fmt.Println()

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i == maxReported {
				fmt.Printf("  ... %d more\n", len(p.errors)-maxReported)
				break
			}
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// describe adds the failing line and column to typed preparation errors.
func describe(err error) string {
	var schemaErr *domain.SchemaError
	if errors.As(err, &schemaErr) {
		return fmt.Sprintf("%v (header must name %d columns)", err, len(domain.RequiredColumns()))
	}
	return err.Error()
}

// ── Phase 1: Row audit ──
// Negative counts, count != casual + registered, physical values out of range.

func validateRows(t domain.Table) *phase {
	p := &phase{name: "Phase 1: Row Audit"}
	for _, f := range domain.Audit(t) {
		p.errorf("row %d (%s %02d:00): %s: %s", f.Row, f.Date.Format(domain.DateLayout), f.Hour, f.Check, f.Detail)
	}
	return p
}

// ── Phase 2: Hourly coverage ──
// Every row has an hour in 0..23 and no (date, hour) pair repeats.

func validateCoverage(t domain.Table) *phase {
	p := &phase{name: "Phase 2: Hourly Coverage"}

	type slot struct {
		date time.Time
		hour int
	}
	seen := make(map[slot]int, t.Len())
	for i, r := range t.Rows() {
		if r.Hour < 0 || r.Hour > 23 {
			p.errorf("row %d: hour %d outside 0..23", i+1, r.Hour)
			continue
		}
		key := slot{date: r.Date, hour: r.Hour}
		if prev, ok := seen[key]; ok {
			p.errorf("row %d: duplicate of row %d (%s %02d:00)", i+1, prev, r.Date.Format(domain.DateLayout), r.Hour)
			continue
		}
		seen[key] = i + 1
	}
	return p
}

// ── Phase 3: Aggregate consistency ──
// Every grouping of count must add up to the same grand total.

func validateAggregates(t domain.Table) *phase {
	p := &phase{name: "Phase 3: Aggregate Consistency"}

	grand := 0
	for _, r := range t.Rows() {
		grand += r.Count
	}

	groupings := []struct {
		name   string
		totals []domain.CategoryTotal
	}{
		{"weather", domain.WeatherTotals(t)},
		{"season", domain.SeasonTotals(t)},
		{"month", domain.MonthTotals(t)},
		{"holiday", domain.HolidaySplit(t)},
		{"workingday", domain.WorkingDaySplit(t)},
	}
	for _, g := range groupings {
		if sum := sumTotals(g.totals); sum != grand {
			p.errorf("%s totals sum to %d, expected %d", g.name, sum, grand)
		}
	}

	daily := 0
	for _, d := range domain.ClassifyDailyTraffic(t).Days {
		daily += d.Count
	}
	if daily != grand {
		p.errorf("daily totals sum to %d, expected %d", daily, grand)
	}

	users := 0
	for _, y := range domain.YearlyUserTypes(t) {
		users += y.Casual + y.Registered
	}
	if users != grand {
		p.errorf("casual + registered by year sum to %d, count sums to %d", users, grand)
	}
	return p
}

func sumTotals(totals []domain.CategoryTotal) int {
	n := 0
	for _, c := range totals {
		n += c.Total
	}
	return n
}
