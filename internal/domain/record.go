package domain

import "time"

// DateLayout is the calendar date format used by the source file and by
// every serialized date the service emits.
const DateLayout = "2006-01-02"

// RawRecord is one row of the source file after field parsing but before
// recoding. Categorical fields hold integer codes and the weather
// measurements hold stored fractions.
type RawRecord struct {
	Line int // 1-based line in the source file, 0 when unknown

	Date       time.Time
	Season     int
	Year       int
	Month      int
	Hour       int
	Holiday    int
	Weekday    int
	WorkingDay int
	Weather    int

	Temp          float64
	FeelsLikeTemp float64
	Humidity      float64
	WindSpeed     float64

	Casual     int
	Registered int
	Count      int
}

// RentalRecord is one hour of rental activity with human-readable labels and
// physical units.
type RentalRecord struct {
	Date       time.Time `json:"date"`
	Year       string    `json:"year"`
	Month      string    `json:"month"`
	Hour       int       `json:"hour"`
	Day        string    `json:"day"`
	Season     string    `json:"season"`
	Holiday    string    `json:"holiday"`
	WorkingDay string    `json:"workingday"`
	Weather    string    `json:"weather"`

	Temp          float64 `json:"temp"`
	FeelsLikeTemp float64 `json:"feels_like_temp"`
	Humidity      float64 `json:"humidity"`
	WindSpeed     float64 `json:"windspeed"`

	Casual     int `json:"casual"`
	Registered int `json:"registered"`
	Count      int `json:"count"`
}

// Table is the prepared, read-only dataset. The zero value is an empty table.
// Accessors hand out copies so callers can never mutate the shared rows.
type Table struct {
	rows []RentalRecord
}

// NewTable builds a table from a copy of rows.
func NewTable(rows []RentalRecord) Table {
	cp := make([]RentalRecord, len(rows))
	copy(cp, rows)
	return Table{rows: cp}
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.rows) }

// At returns the i-th row. It panics if i is out of range, like a slice index.
func (t Table) At(i int) RentalRecord { return t.rows[i] }

// Rows returns a copy of every row in source order.
func (t Table) Rows() []RentalRecord {
	cp := make([]RentalRecord, len(t.rows))
	copy(cp, t.rows)
	return cp
}

// Snapshot is a prepared table together with where and when it was built.
type Snapshot struct {
	Table      Table
	Source     string
	PreparedAt time.Time
}

// NewSnapshot stamps a prepared table with the current time.
func NewSnapshot(table Table, source string) Snapshot {
	return Snapshot{
		Table:      table,
		Source:     source,
		PreparedAt: clock.Now().UTC(),
	}
}
