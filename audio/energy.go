package audio

import (
	"encoding/binary"
	"math"
)

// RMS returns the root-mean-square amplitude of a PCM16LE frame.
func RMS(frame []byte) float64 {
	n := len(frame) / BytesPerSample
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		s := float64(int16(binary.LittleEndian.Uint16(frame[i*2:])))
		sum += s * s
	}
	return math.Sqrt(sum / float64(n))
}

// threshold tracks the speech energy threshold.
//
// Each silent frame moves it towards ratio*energy with a damping factor
// scaled to the frame length, so the adjustment rate does not depend on the
// device's buffer size. The result never drops below floor.
type threshold struct {
	value   float64
	floor   float64
	damping float64
	ratio   float64
}

func newThreshold(cfg RecorderConfig) *threshold {
	return &threshold{
		value:   cfg.EnergyThreshold,
		floor:   cfg.MinEnergyThreshold,
		damping: cfg.DynamicDamping,
		ratio:   cfg.DynamicRatio,
	}
}

func (t *threshold) observe(energy, frameSeconds float64) {
	d := math.Pow(t.damping, frameSeconds)
	t.value = t.value*d + energy*t.ratio*(1-d)
	if t.value < t.floor {
		t.value = t.floor
	}
}

func (t *threshold) exceeded(energy float64) bool {
	return energy > t.value
}
