package indicators

type MACD struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
}

// CalculateMACD computes the MACD line (fast EMA minus slow EMA), its
// signal line (EMA of the MACD line) and the histogram. Slots before
// the slow window warms up stay zero.
func CalculateMACD(closes []float64, fast, slow, signal int) MACD {
	length := len(closes)
	m := MACD{
		Line:      make([]float64, length),
		Signal:    make([]float64, length),
		Histogram: make([]float64, length),
	}
	if length < slow+signal {
		return m
	}

	emaFast := CalculateEMA(closes, fast)
	emaSlow := CalculateEMA(closes, slow)

	// The MACD line only exists once the slow EMA does.
	diff := make([]float64, 0, length-slow+1)
	for i := slow - 1; i < length; i++ {
		v := emaFast[i] - emaSlow[i]
		m.Line[i] = v
		diff = append(diff, v)
	}

	signalOnDiff := CalculateEMA(diff, signal)
	for i, v := range signalOnDiff {
		idx := i + slow - 1
		m.Signal[idx] = v
		if v != 0 || i >= signal-1 {
			m.Histogram[idx] = m.Line[idx] - v
		}
	}

	return m
}
