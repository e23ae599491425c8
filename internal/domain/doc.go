// Package domain models the hourly bike-sharing dataset and the descriptive
// aggregates derived from it.
//
// # Data Source
//
// The dataset is the UCI "Bike Sharing" hourly file (hour.csv): one row per
// hour of rental activity across 2011 and 2012. Categorical columns are stored
// as integer codes and the weather measurements as fractions of a fixed
// maximum, so every row goes through recoding and denormalization before it
// reaches a consumer.
//
// # Column Conventions
//
// Raw header names and the semantic names used after preparation:
//
//	instant    → dropped (positional index)
//	dteday     → date        YYYY-MM-DD
//	season     → season      1..4  Spring, Summer, Fall, Winter
//	yr         → year        0..1  2011, 2012
//	mnth       → month       1..12 Jan .. Dec
//	hr         → hour        0..23 (kept numeric)
//	holiday    → holiday     0..1  Non-holiday, Holiday
//	weekday    → day         0..6  Sun .. Sat
//	workingday → workingday  0..1  Weekend, Weekday
//	weathersit → weather     1..4  Clear/Partly cloudy, Mist/Cloudy,
//	                               Light Rain/Light Snow, Heavy Rain/Snow/Fog
//	temp       → temp             × 41  (°C)
//	atemp      → feels_like_temp  × 50  (°C)
//	hum        → humidity         × 100 (%)
//	windspeed  → windspeed        × 67
//	casual, registered, cnt → casual, registered, count
//
// Denormalization is a plain multiplication. Nothing is clipped, so a stored
// fraction outside [0, 1] produces a physical value outside the usual range.
//
// # Unknown Codes
//
// A code outside its lookup table is an [UnknownCategoryError]. By default
// preparation fails fast on the first one. With [PrepareOptions.Lenient] the
// code is kept as its decimal string and preparation continues.
//
// # Data Quality
//
// count is expected to equal casual + registered and all counts are expected
// to be non-negative. Neither is enforced during preparation; [Audit] reports
// rows that break these expectations without changing them.
//
// # Daily Traffic Classification
//
// Daily totals are bucketed against the 25th (Q1) and 75th (Q3) percentiles,
// computed with linear interpolation between closest ranks. The Low check
// runs first, so when Q1 == Q3 a day equal to both is Low, not High.
package domain
