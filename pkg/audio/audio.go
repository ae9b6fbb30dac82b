// Package audio provides float32 PCM helpers for the dictation pipeline.
// All processing assumes the 16 kHz mono layout the STT engine expects.
package audio

import "math"

// RMS computes the root-mean-square level of the buffer. An empty buffer
// yields zero.
func RMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// MeanAbs returns the mean absolute sample value. An empty buffer yields
// zero.
func MeanAbs(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += math.Abs(float64(s))
	}
	return sum / float64(len(samples))
}

// DownmixMono averages interleaved channels into a mono buffer. Buffers
// that are already mono are returned as-is.
func DownmixMono(samples []float32, channels int) []float32 {
	if channels <= 1 {
		return samples
	}
	frames := len(samples) / channels
	mono := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += samples[i*channels+c]
		}
		mono[i] = sum / float32(channels)
	}
	return mono
}
