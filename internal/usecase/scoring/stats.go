package scoring

import (
	"math"
	"sort"
)

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sum(values) / float64(len(values))
}

// stdDev is the population standard deviation around the given mean
func stdDev(values []float64, mu float64) float64 {
	if len(values) == 0 {
		return 0
	}
	ss := 0.0
	for _, v := range values {
		ss += (v - mu) * (v - mu)
	}
	return math.Sqrt(ss / float64(len(values)))
}

func sortedCopy(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted
}

// median expects sorted input; even counts average the two middle values
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// quantileAt picks the element at floor(n*q) of sorted input, without interpolation
func quantileAt(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Floor(float64(len(sorted)) * q))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// countOutliers counts values above Q3 + factor*IQR
func countOutliers(values []float64, factor float64) int {
	sorted := sortedCopy(values)
	q1 := quantileAt(sorted, 0.25)
	q3 := quantileAt(sorted, 0.75)
	threshold := q3 + factor*(q3-q1)

	count := 0
	for _, v := range values {
		if v > threshold {
			count++
		}
	}
	return count
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// round2 is used for percentage-like fields, round4 for raw magnitudes
func round2(v float64) float64 { return round(v, 2) }
func round4(v float64) float64 { return round(v, 4) }
