package domain

import "strconv"

// Scale constants that recover physical units from the stored fractions.
const (
	TempScale          = 41.0
	FeelsLikeTempScale = 50.0
	HumidityScale      = 100.0
	WindSpeedScale     = 67.0
)

// PrepareOptions controls how Prepare handles codes outside the lookup tables.
type PrepareOptions struct {
	// Lenient keeps an unknown code as its decimal string instead of failing.
	Lenient bool
	// OnUnknown, if set, is called for every code left un-recoded in lenient mode.
	OnUnknown func(*UnknownCategoryError)
}

// Prepare recodes and rescales raw records into a Table with the same row
// count and order. In the default strict mode the first unknown code aborts
// preparation with an *UnknownCategoryError.
func Prepare(raws []RawRecord, opts PrepareOptions) (Table, error) {
	rows := make([]RentalRecord, 0, len(raws))
	for _, raw := range raws {
		rec, err := Recode(raw, opts)
		if err != nil {
			return Table{}, err
		}
		rows = append(rows, rec)
	}
	return Table{rows: rows}, nil
}

// Recode maps every categorical code of raw to its label and converts the
// stored fractions to physical units.
func Recode(raw RawRecord, opts PrepareOptions) (RentalRecord, error) {
	r := recoder{line: raw.Line, opts: opts}

	rec := RentalRecord{
		Date:       raw.Date,
		Year:       r.label(yearCodes, raw.Year),
		Month:      r.label(monthCodes, raw.Month),
		Hour:       raw.Hour,
		Day:        r.label(weekdayCodes, raw.Weekday),
		Season:     r.label(seasonCodes, raw.Season),
		Holiday:    r.label(holidayCodes, raw.Holiday),
		WorkingDay: r.label(workingDayCodes, raw.WorkingDay),
		Weather:    r.label(weatherCodes, raw.Weather),

		Temp:          raw.Temp * TempScale,
		FeelsLikeTemp: raw.FeelsLikeTemp * FeelsLikeTempScale,
		Humidity:      raw.Humidity * HumidityScale,
		WindSpeed:     raw.WindSpeed * WindSpeedScale,

		Casual:     raw.Casual,
		Registered: raw.Registered,
		Count:      raw.Count,
	}
	if r.err != nil {
		return RentalRecord{}, r.err
	}
	return rec, nil
}

type recoder struct {
	line int
	opts PrepareOptions
	err  error
}

func (r *recoder) label(cb codebook, code int) string {
	if l, ok := cb.label(code); ok {
		return l
	}
	uerr := &UnknownCategoryError{Column: cb.column, Code: code, Line: r.line}
	if !r.opts.Lenient {
		if r.err == nil {
			r.err = uerr
		}
		return ""
	}
	if r.opts.OnUnknown != nil {
		r.opts.OnUnknown(uerr)
	}
	return strconv.Itoa(code)
}
