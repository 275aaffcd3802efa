package risk

import "math"

// quantileSorted interpolates linearly between adjacent order statistics.
func quantileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// tailMean is the mean of all values <= threshold.
func tailMean(sorted []float64, threshold float64) float64 {
	sum, n := 0.0, 0
	for _, v := range sorted {
		if v > threshold {
			break
		}
		sum += v
		n++
	}
	if n == 0 {
		return threshold
	}
	return sum / float64(n)
}
