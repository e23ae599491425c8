package domain

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Raw column names as they appear in the source header.
const (
	ColInstant    = "instant"
	ColDate       = "dteday"
	ColSeason     = "season"
	ColYear       = "yr"
	ColMonth      = "mnth"
	ColHour       = "hr"
	ColHoliday    = "holiday"
	ColWeekday    = "weekday"
	ColWorkingDay = "workingday"
	ColWeather    = "weathersit"
	ColTemp       = "temp"
	ColFeelsLike  = "atemp"
	ColHumidity   = "hum"
	ColWindSpeed  = "windspeed"
	ColCasual     = "casual"
	ColRegistered = "registered"
	ColCount      = "cnt"
)

// requiredColumns lists every raw column a source must carry, in file order.
var requiredColumns = []string{
	ColDate, ColSeason, ColYear, ColMonth, ColHour, ColHoliday, ColWeekday,
	ColWorkingDay, ColWeather, ColTemp, ColFeelsLike, ColHumidity, ColWindSpeed,
	ColCasual, ColRegistered, ColCount,
}

// semanticNames maps raw column names to the names used after preparation.
// Columns missing here keep their raw name.
var semanticNames = map[string]string{
	ColDate:      "date",
	ColYear:      "year",
	ColMonth:     "month",
	ColHour:      "hour",
	ColWeekday:   "day",
	ColWeather:   "weather",
	ColFeelsLike: "feels_like_temp",
	ColHumidity:  "humidity",
	ColCount:     "count",
}

var errMissingField = errors.New("missing field")

// RequiredColumns returns the raw column names a source must provide.
func RequiredColumns() []string {
	cp := make([]string, len(requiredColumns))
	copy(cp, requiredColumns)
	return cp
}

// SemanticName returns the prepared name for a raw column.
func SemanticName(raw string) string {
	if name, ok := semanticNames[raw]; ok {
		return name
	}
	return raw
}

// Schema maps raw column names to their field positions in a source row.
type Schema struct {
	index map[string]int
}

// NewSchema resolves a header row. Positional index columns and columns the
// dataset does not use are ignored. It returns a *SchemaError listing every
// required column that is absent.
func NewSchema(header []string) (Schema, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if isPositionalIndex(name) {
			continue
		}
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return Schema{}, &SchemaError{Missing: missing}
	}
	return Schema{index: index}, nil
}

// isPositionalIndex reports whether a header names a row-number column:
// the dataset's own "instant" or an unnamed index written by a dataframe export.
func isPositionalIndex(name string) bool {
	return name == ColInstant || name == "" || strings.HasPrefix(name, "Unnamed:")
}

// ParseRow converts one source row into a RawRecord. line is the 1-based
// source line used in error reports.
func (s Schema) ParseRow(fields []string, line int) (RawRecord, error) {
	p := rowParser{schema: s, fields: fields, line: line}

	raw := RawRecord{
		Line:       line,
		Date:       p.date(ColDate),
		Season:     p.integer(ColSeason),
		Year:       p.integer(ColYear),
		Month:      p.integer(ColMonth),
		Hour:       p.integer(ColHour),
		Holiday:    p.integer(ColHoliday),
		Weekday:    p.integer(ColWeekday),
		WorkingDay: p.integer(ColWorkingDay),
		Weather:    p.integer(ColWeather),

		Temp:          p.number(ColTemp),
		FeelsLikeTemp: p.number(ColFeelsLike),
		Humidity:      p.number(ColHumidity),
		WindSpeed:     p.number(ColWindSpeed),

		Casual:     p.integer(ColCasual),
		Registered: p.integer(ColRegistered),
		Count:      p.integer(ColCount),
	}
	if p.err != nil {
		return RawRecord{}, p.err
	}
	return raw, nil
}

// rowParser keeps the first field error so ParseRow can read linearly.
type rowParser struct {
	schema Schema
	fields []string
	line   int
	err    error
}

func (p *rowParser) field(col string) (string, bool) {
	if p.err != nil {
		return "", false
	}
	i := p.schema.index[col]
	if i >= len(p.fields) {
		p.fail(col, "", errMissingField)
		return "", false
	}
	return strings.TrimSpace(p.fields[i]), true
}

func (p *rowParser) fail(col, value string, err error) {
	p.err = &ParseError{Line: p.line, Column: col, Value: value, Err: err}
}

func (p *rowParser) integer(col string) int {
	v, ok := p.field(col)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		// Some exports write integer codes as "1.0".
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil || f != float64(int(f)) {
			p.fail(col, v, err)
			return 0
		}
		n = int(f)
	}
	return n
}

func (p *rowParser) number(col string) float64 {
	v, ok := p.field(col)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(col, v, err)
		return 0
	}
	return f
}

func (p *rowParser) date(col string) time.Time {
	v, ok := p.field(col)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(DateLayout, v)
	if err != nil {
		p.fail(col, v, err)
		return time.Time{}
	}
	return t
}
