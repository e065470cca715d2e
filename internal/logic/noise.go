package logic

import "math"

// ADC full scale for the MCP3008 after shifting the 10-bit reading up to
// 16 bits (1023 << 6), matching what the server-side calibration expects.
const adcFullScale = 65472.0

// rmsFloor avoids log of near-zero RMS in a silent room.
const rmsFloor = 100.0

// Decibel converts one chunk of raw ADC samples into a relative dB figure.
// The result is clamped to the practical 30-90 dB range.
func Decibel(samples []uint16) float64 {
	if len(samples) == 0 {
		return 30
	}

	var sum float64
	for _, s := range samples {
		v := float64(s)
		sum += v * v
	}
	rms := math.Sqrt(sum / float64(len(samples)))
	if rms < rmsFloor {
		rms = rmsFloor
	}

	db := 20*math.Log10(rms/adcFullScale) + 100

	if db < 30 {
		db = 30
	}
	if db > 90 {
		db = 90
	}
	return db
}

// AnalyzeNoise splits a sample burst into chunks, computes per-chunk dB, and
// reports the window average, peak, and whether the peak crossed the snoring
// threshold. chunkSize is in samples (e.g. 50 for 0.5s at 100Hz).
func AnalyzeNoise(samples []uint16, chunkSize int, threshold float64) NoiseResult {
	if chunkSize <= 0 {
		chunkSize = 50
	}
	if len(samples) == 0 {
		return NoiseResult{}
	}

	var decibels []float64
	for i := 0; i < len(samples); i += chunkSize {
		end := i + chunkSize
		if end > len(samples) {
			end = len(samples)
		}
		decibels = append(decibels, Decibel(samples[i:end]))
	}

	var sum, max float64
	for _, db := range decibels {
		sum += db
		if db > max {
			max = db
		}
	}
	avg := sum / float64(len(decibels))

	return NoiseResult{
		AvgDB:   round1(avg),
		MaxDB:   round1(max),
		Snoring: max > threshold,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
