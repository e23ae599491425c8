package domain

import "fmt"

// Query names a single aggregate.
type Query string

const (
	QueryHourly     Query = "hourly"
	QueryWeather    Query = "weather"
	QuerySeason     Query = "season"
	QueryMonth      Query = "month"
	QueryHoliday    Query = "holiday"
	QueryWorkingDay Query = "workingday"
	QueryUsers      Query = "users"
	QueryDaily      Query = "daily"
)

var queries = map[Query]func(Table) any{
	QueryHourly:     func(t Table) any { return HourlyMeans(t) },
	QueryWeather:    func(t Table) any { return WeatherTotals(t) },
	QuerySeason:     func(t Table) any { return SeasonTotals(t) },
	QueryMonth:      func(t Table) any { return MonthTotals(t) },
	QueryHoliday:    func(t Table) any { return HolidaySplit(t) },
	QueryWorkingDay: func(t Table) any { return WorkingDaySplit(t) },
	QueryUsers:      func(t Table) any { return YearlyUserTypes(t) },
	QueryDaily:      func(t Table) any { return ClassifyDailyTraffic(t) },
}

// Queries returns every aggregate name in dashboard order.
func Queries() []Query {
	return []Query{
		QueryHourly, QueryWeather, QuerySeason, QueryMonth,
		QueryHoliday, QueryWorkingDay, QueryUsers, QueryDaily,
	}
}

// RunQuery computes the named aggregate over t.
func RunQuery(t Table, q Query) (any, error) {
	fn, ok := queries[q]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownQuery, string(q))
	}
	return fn(t), nil
}
