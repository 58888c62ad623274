// Package domain models day-level forecast comfort and community post
// moderation.
//
// # Forecast Data
//
// Forecasts come from the OpenWeather 5 day / 3 hour endpoint: roughly eight
// samples per calendar day, each timestamped in UTC. A sample carries the
// air temperature (°C), relative humidity (%), wind speed (m/s), and a
// free-text condition such as "light rain" or "clear sky".
//
// User-facing dates arrive either day-first (DD-MM-YYYY) or year-first
// (YYYY-MM-DD). [NormalizeDate] converts both to YYYY-MM-DD before any
// sample filtering; other shapes are rejected with [ErrValidation].
//
// # Day Summary
//
// [AggregateDay] reduces the samples that fall on one UTC calendar date to
// arithmetic means plus min/max temperature. Means are computed on raw
// values and rounded to two decimals once. The representative condition is
// taken from the chronologically first matching sample, not a majority vote.
//
// # Comfort Score
//
// [ComputeComfort] is an additive point system:
//
//	Temperature: +3 [20,24] | +2 [15,29] | +1 [10,34] | -1 <0 or >38
//	Humidity:    +2 [30,55] | +1 [20,65] | -1 >85 or <15
//	Wind:        +1 [0.5,4] | -0.5 (8,12] | -1 >12
//	Condition:   -1 rain/snow/storm/thunder/drizzle/sleet/hail | +0.5 clear/sun
//
// Each variable is evaluated top to bottom and the first matching band wins.
// The total is clamped to [-2, 6] and bucketed into five levels:
//
//	>4.5 Ideal | >3 Comfortable | >1.5 Moderate | >0 Uncomfortable | else Very Uncomfortable
//
// # Fallbacks
//
// The reasoning service that writes assessments, plan verdicts and content
// classifications is optional. Every call site has a pure, local substitute
// in this package ([FallbackAssessment], [FallbackPlanVerdict],
// [ScreenContent]) that only needs data already computed for the request.
//
// # Moderation
//
// Name, email and structural content checks are synchronous validators with
// the same shape (input → [ModerationVerdict]). They run before any network
// call so that obviously invalid submissions never cost a reasoning request.
package domain
