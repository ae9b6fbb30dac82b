package audio

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// LoadWAV reads a WAV file and returns normalized float32 samples in
// [-1, 1] plus the file's sample rate. Multi-channel files are downmixed to
// mono.
func LoadWAV(path string) ([]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("audio: open wav: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("audio: decode wav %s: %w", path, err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, 0, fmt.Errorf("audio: wav %s contains no samples", path)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = buf.SourceBitDepth
	}
	if bitDepth <= 0 || bitDepth > 32 {
		return nil, 0, fmt.Errorf("audio: wav %s has unsupported bit depth %d", path, bitDepth)
	}

	// The decoder hands back raw integer samples; scale to [-1, 1].
	scale := float32(int64(1) << (bitDepth - 1))
	samples := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float32(v) / scale
	}
	if buf.Format.NumChannels > 1 {
		samples = DownmixMono(samples, buf.Format.NumChannels)
	}
	return samples, buf.Format.SampleRate, nil
}
