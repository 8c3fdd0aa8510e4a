package indicators

import "math"

type BollingerBands struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// CalculateBollingerBands computes the Bollinger Bands: middle is the
// SMA, upper/lower are middle plus/minus multiplier standard
// deviations over the same window.
func CalculateBollingerBands(closes []float64, period int, multiplier float64) BollingerBands {
	length := len(closes)
	bb := BollingerBands{
		Upper:  make([]float64, length),
		Middle: make([]float64, length),
		Lower:  make([]float64, length),
	}
	if period <= 0 || length < period {
		return bb
	}

	for i := period - 1; i < length; i++ {
		sum := 0.0
		for j := 0; j < period; j++ {
			sum += closes[i-j]
		}
		ma := sum / float64(period)
		bb.Middle[i] = ma

		sumSqDiff := 0.0
		for j := 0; j < period; j++ {
			diff := closes[i-j] - ma
			sumSqDiff += diff * diff
		}
		stdDev := math.Sqrt(sumSqDiff / float64(period))

		bb.Upper[i] = ma + multiplier*stdDev
		bb.Lower[i] = ma - multiplier*stdDev
	}

	return bb
}

// Width returns (upper-lower)/middle at index i, zero when the middle
// band is zero or i is out of range.
func (bb BollingerBands) Width(i int) float64 {
	if i < 0 || i >= len(bb.Middle) || bb.Middle[i] == 0 {
		return 0
	}
	return (bb.Upper[i] - bb.Lower[i]) / bb.Middle[i]
}
