package domain

import (
	"sort"
	"strconv"
)

// Labels produced by recoding.
const (
	SeasonSpring = "Spring"
	SeasonSummer = "Summer"
	SeasonFall   = "Fall"
	SeasonWinter = "Winter"

	HolidayNo  = "Non-holiday"
	HolidayYes = "Holiday"

	DayWeekend = "Weekend"
	DayWeekday = "Weekday"

	WeatherClear       = "Clear/Partly cloudy"
	WeatherMist        = "Mist/Cloudy"
	WeatherLightPrecip = "Light Rain/Light Snow"
	WeatherHeavyPrecip = "Heavy Rain/Snow/Fog"
)

// codebook is the fixed lookup table for one categorical column. Codes are
// contiguous starting at first; labels are listed in code order, which is
// also the canonical order used to break ties in aggregates.
type codebook struct {
	column string
	first  int
	labels []string
}

var (
	seasonCodes = codebook{
		column: ColSeason,
		first:  1,
		labels: []string{SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter},
	}
	yearCodes = codebook{
		column: ColYear,
		first:  0,
		labels: []string{"2011", "2012"},
	}
	monthCodes = codebook{
		column: ColMonth,
		first:  1,
		labels: []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	}
	holidayCodes = codebook{
		column: ColHoliday,
		first:  0,
		labels: []string{HolidayNo, HolidayYes},
	}
	weekdayCodes = codebook{
		column: ColWeekday,
		first:  0,
		labels: []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
	}
	workingDayCodes = codebook{
		column: ColWorkingDay,
		first:  0,
		labels: []string{DayWeekend, DayWeekday},
	}
	weatherCodes = codebook{
		column: ColWeather,
		first:  1,
		labels: []string{WeatherClear, WeatherMist, WeatherLightPrecip, WeatherHeavyPrecip},
	}
)

func (c codebook) label(code int) (string, bool) {
	i := code - c.first
	if i < 0 || i >= len(c.labels) {
		return "", false
	}
	return c.labels[i], true
}

// arrange orders the keys of present: known labels first in code order, then
// any un-recoded values (lenient mode) in ascending numeric order.
func (c codebook) arrange(present map[string]struct{}) []string {
	out := make([]string, 0, len(present))
	known := make(map[string]struct{}, len(c.labels))
	for _, l := range c.labels {
		known[l] = struct{}{}
		if _, ok := present[l]; ok {
			out = append(out, l)
		}
	}

	var extra []string
	for k := range present {
		if _, ok := known[k]; !ok {
			extra = append(extra, k)
		}
	}
	sort.Slice(extra, func(i, j int) bool {
		a, errA := strconv.Atoi(extra[i])
		b, errB := strconv.Atoi(extra[j])
		if errA != nil || errB != nil {
			return extra[i] < extra[j]
		}
		return a < b
	})
	return append(out, extra...)
}
