package indicators

import "math"

// CalculateCCI computes the Commodity Channel Index over the typical
// price (H+L+C)/3. A zero mean deviation (flat window) yields 0 rather
// than a division blowup.
func CalculateCCI(highs, lows, closes []float64, period int) []float64 {
	length := len(closes)
	cci := make([]float64, length)
	if period <= 0 || length < period || len(highs) < length || len(lows) < length {
		return cci
	}

	typical := make([]float64, length)
	for i := 0; i < length; i++ {
		typical[i] = (highs[i] + lows[i] + closes[i]) / 3
	}

	for i := period - 1; i < length; i++ {
		window := typical[i-period+1 : i+1]
		sma := Mean(window)

		meanDev := 0.0
		for _, v := range window {
			meanDev += math.Abs(v - sma)
		}
		meanDev /= float64(period)

		if meanDev == 0 {
			continue
		}
		cci[i] = (typical[i] - sma) / (0.015 * meanDev)
	}

	return cci
}
