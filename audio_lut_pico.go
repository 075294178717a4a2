// audio_lut_pico.go - waveform lookup tables for the SFX synthesizer
//
// Grounded on audio_lut.go's convention of precomputing LUTs at init time
// rather than synthesizing samples with per-sample trig/branch logic.

package main

const waveLen = 2048

var waveforms [6][waveLen]float64 // triangle, tilted triangle, sawtooth, square, pulse, organ

func init() {
	for i := 0; i < waveLen; i++ {
		phase := float64(i) / float64(waveLen)
		waveforms[0][i] = triangleWave(phase)
		waveforms[1][i] = tiltedTriangleWave(phase)
		waveforms[2][i] = sawtoothWave(phase)
		waveforms[3][i] = squareWave(phase)
		waveforms[4][i] = pulseWave(phase, 0.25)
		waveforms[5][i] = organWave(phase)
	}
}

func triangleWave(phase float64) float64 {
	if phase < 0.5 {
		return -1 + 4*phase
	}
	return 3 - 4*phase
}

func tiltedTriangleWave(phase float64) float64 {
	const peak = 0.3
	if phase < peak {
		return -1 + 2*(phase/peak)
	}
	return 1 - 2*(phase-peak)/(1-peak)
}

func sawtoothWave(phase float64) float64 { return -1 + 2*phase }

func squareWave(phase float64) float64 {
	if phase < 0.5 {
		return 1
	}
	return -1
}

func pulseWave(phase, duty float64) float64 {
	if phase < duty {
		return 1
	}
	return -1
}

func organWave(phase float64) float64 {
	second := phase*2 - float64(int64(phase*2))
	return 0.6*triangleWave(phase) + 0.4*triangleWave(second)
}
