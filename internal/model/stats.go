package model

import "math"

// rateScale is 10^3: rates carry three decimal places
const rateScale = 1000

// RoundRate rounds v to three decimal places, half away from zero
func RoundRate(v float64) float64 {
	return math.Round(v*rateScale) / rateScale
}

// ComputeOPS returns on-base plus slugging rounded to three decimal places
func ComputeOPS(obp, slg float64) float64 {
	return RoundRate(obp + slg)
}
