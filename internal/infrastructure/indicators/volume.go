package indicators

// Volume trend labels for the trailing window comparison.
const (
	VolumeTrendIncreasing = "increasing"
	VolumeTrendDecreasing = "decreasing"
	VolumeTrendStable     = "stable"
)

type VolumeStats struct {
	MA    float64
	Ratio float64
	Trend string
}

// CalculateVolumeStats computes the trailing volume moving average, the
// current/MA ratio and a coarse trend label comparing the newest three
// bars against the rest of a 7-bar window. Volumes are ordered oldest
// to newest; a too-short series yields neutral values.
func CalculateVolumeStats(volumes []float64, maPeriod int) VolumeStats {
	stats := VolumeStats{Ratio: 1, Trend: VolumeTrendStable}
	n := len(volumes)
	if maPeriod <= 0 || n < maPeriod {
		return stats
	}

	stats.MA = Mean(volumes[n-maPeriod:])
	if stats.MA > 0 {
		stats.Ratio = volumes[n-1] / stats.MA
	}

	const trendWindow = 7
	if n >= trendWindow {
		recent := Mean(volumes[n-3:])
		older := Mean(volumes[n-trendWindow : n-3])
		switch {
		case older > 0 && recent > older*1.2:
			stats.Trend = VolumeTrendIncreasing
		case older > 0 && recent < older*0.8:
			stats.Trend = VolumeTrendDecreasing
		}
	}

	return stats
}
