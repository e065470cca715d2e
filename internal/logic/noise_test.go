package logic

import (
	"math"
	"testing"
)

func TestDecibelSilence(t *testing.T) {
	// All-zero samples hit the RMS floor and clamp to the bottom of range.
	samples := make([]uint16, 100)
	db := Decibel(samples)
	if db != 30 {
		t.Errorf("silence: got %.1f dB, want 30", db)
	}
}

func TestDecibelFullScale(t *testing.T) {
	samples := make([]uint16, 100)
	for i := range samples {
		samples[i] = 65472
	}
	db := Decibel(samples)
	// RMS == full scale: 20*log10(1) + 100 = 100, clamped to 90.
	if db != 90 {
		t.Errorf("full scale: got %.1f dB, want 90", db)
	}
}

func TestDecibelMidRange(t *testing.T) {
	samples := make([]uint16, 100)
	for i := range samples {
		samples[i] = 6547 // one tenth of full scale
	}
	db := Decibel(samples)
	want := 20*math.Log10(6547.0/65472.0) + 100
	if math.Abs(db-want) > 0.01 {
		t.Errorf("mid range: got %.2f dB, want %.2f", db, want)
	}
}

func TestDecibelEmpty(t *testing.T) {
	if db := Decibel(nil); db != 30 {
		t.Errorf("empty: got %.1f, want 30", db)
	}
}

func TestAnalyzeNoiseSnoringThreshold(t *testing.T) {
	// One quiet chunk, one loud chunk.
	samples := make([]uint16, 100)
	for i := 50; i < 100; i++ {
		samples[i] = 30000
	}

	res := AnalyzeNoise(samples, 50, 55.0)
	if !res.Snoring {
		t.Errorf("expected snoring with max %.1f dB over 55 dB threshold", res.MaxDB)
	}
	if res.MaxDB <= res.AvgDB {
		t.Errorf("max %.1f should exceed avg %.1f", res.MaxDB, res.AvgDB)
	}
}

func TestAnalyzeNoiseQuiet(t *testing.T) {
	samples := make([]uint16, 200)
	res := AnalyzeNoise(samples, 50, 55.0)
	if res.Snoring {
		t.Error("silence should not register as snoring")
	}
	if res.AvgDB != 30 || res.MaxDB != 30 {
		t.Errorf("silence: got avg=%.1f max=%.1f, want 30/30", res.AvgDB, res.MaxDB)
	}
}

func TestAnalyzeNoiseEmpty(t *testing.T) {
	res := AnalyzeNoise(nil, 50, 55.0)
	if res.Snoring || res.AvgDB != 0 || res.MaxDB != 0 {
		t.Errorf("empty burst: got %+v, want zero result", res)
	}
}

func TestAnalyzeNoisePartialChunk(t *testing.T) {
	// 120 samples with chunk size 50 leaves a 20-sample tail chunk.
	samples := make([]uint16, 120)
	res := AnalyzeNoise(samples, 50, 55.0)
	if res.AvgDB != 30 {
		t.Errorf("partial chunk: got avg %.1f, want 30", res.AvgDB)
	}
}
