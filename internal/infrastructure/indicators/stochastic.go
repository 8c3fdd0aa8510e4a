package indicators

type Stochastic struct {
	K []float64
	D []float64
}

// CalculateStochastic computes the stochastic oscillator: %K over the
// kPeriod high/low range and %D as its dPeriod SMA. A flat window
// (highest high equals lowest low) yields the neutral 50.
func CalculateStochastic(highs, lows, closes []float64, kPeriod, dPeriod int) Stochastic {
	length := len(closes)
	st := Stochastic{
		K: make([]float64, length),
		D: make([]float64, length),
	}
	if kPeriod <= 0 || length < kPeriod || len(highs) < length || len(lows) < length {
		return st
	}

	for i := kPeriod - 1; i < length; i++ {
		lowest := lows[i]
		highest := highs[i]
		for j := i - kPeriod + 1; j < i; j++ {
			if lows[j] < lowest {
				lowest = lows[j]
			}
			if highs[j] > highest {
				highest = highs[j]
			}
		}

		if highest == lowest {
			st.K[i] = 50
		} else {
			st.K[i] = 100 * (closes[i] - lowest) / (highest - lowest)
		}
	}

	if dPeriod <= 0 || length < kPeriod+dPeriod-1 {
		return st
	}
	for i := kPeriod + dPeriod - 2; i < length; i++ {
		sum := 0.0
		for j := 0; j < dPeriod; j++ {
			sum += st.K[i-j]
		}
		st.D[i] = sum / float64(dPeriod)
	}

	return st
}
