package traderpro

import "math"

const (
	rsiPeriod   = 14
	smaPeriodS  = 20
	smaPeriodL  = 50
	neutralRSI  = 50.0
	maxRSIValue = 100.0
)

// computeIndicators derives the indicator set from an ascending bar series.
// Requires at least one bar. Indicators whose windows exceed the available
// history degrade to their documented defaults, and every returned value is
// finite.
func computeIndicators(bars []Bar) IndicatorSet {
	last := bars[len(bars)-1]
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	currentPrice := finiteOr(last.Close, 0)
	openPrice := finiteOr(last.Open, 0)

	changePct := 0.0
	if openPrice != 0 {
		changePct = (currentPrice - openPrice) / openPrice * 100
	}

	high := bars[0].High
	low := bars[0].Low
	for _, b := range bars[1:] {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}

	return IndicatorSet{
		CurrentPrice: currentPrice,
		OpenPrice:    openPrice,
		ChangePct:    finiteOr(changePct, 0),
		RSI14:        finiteOr(rsi(closes, rsiPeriod), neutralRSI),
		SMA20:        finiteOr(sma(closes, smaPeriodS, currentPrice), currentPrice),
		SMA50:        finiteOr(sma(closes, smaPeriodL, currentPrice), currentPrice),
		High:         finiteOr(high, currentPrice),
		Low:          finiteOr(low, currentPrice),
	}
}

// rsi computes the relative strength index from trailing simple means of gains
// and losses over the last `period` close-to-close deltas. Returns the neutral
// 50.0 when history is too short or the window has no movement; a window with
// gains and no losses saturates at 100.
func rsi(closes []float64, period int) float64 {
	if len(closes) < period+1 {
		return neutralRSI
	}

	var gainSum, lossSum float64
	for i := len(closes) - period; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gainSum += delta
		} else {
			lossSum -= delta
		}
	}
	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)

	if avgLoss == 0 {
		if avgGain == 0 {
			return neutralRSI
		}
		return maxRSIValue
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}

// sma computes the trailing simple moving average over `period` closes,
// substituting the fallback value when history is too short.
func sma(closes []float64, period int, fallback float64) float64 {
	if len(closes) < period {
		return fallback
	}
	sum := 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(period)
}

// finiteOr replaces NaN and infinities with the given default.
func finiteOr(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}
