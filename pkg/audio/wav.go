package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// WAVHeader is the 44-byte canonical RIFF/WAVE header for mono PCM-16.
type WAVHeader struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // File size - 8 bytes
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32  // 16 for PCM
	AudioFormat   uint16  // 1 for PCM
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32 // SampleRate * NumChannels * BitsPerSample / 8
	BlockAlign    uint16 // NumChannels * BitsPerSample / 8
	BitsPerSample uint16
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32  // Number of bytes in the data
}

// EncodeWAV encodes normalized float32 samples into a mono PCM-16 WAV.
func EncodeWAV(samples []float32, sampleRate int) ([]byte, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("cannot encode empty audio samples")
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}

	pcm := SamplesToPCM(samples)

	numChannels := uint16(1)
	bitsPerSample := uint16(16)
	dataSize := uint32(len(pcm) * 2)

	header := WAVHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1, // PCM
		NumChannels:   numChannels,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate) * uint32(numChannels) * uint32(bitsPerSample) / 8,
		BlockAlign:    numChannels * bitsPerSample / 8,
		BitsPerSample: bitsPerSample,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}

	buf := bytes.NewBuffer(make([]byte, 0, 44+len(pcm)*2))
	if err := binary.Write(buf, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("failed to write WAV header: %w", err)
	}
	if err := binary.Write(buf, binary.LittleEndian, pcm); err != nil {
		return nil, fmt.Errorf("failed to write audio data: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeWAV decodes mono PCM-16 WAV data into normalized float32 samples
// and the sample rate. Chunks other than fmt and data (ffmpeg inserts a
// LIST/INFO metadata chunk between them) are skipped.
func DecodeWAV(data []byte) ([]float32, int, error) {
	if len(data) < 12 {
		return nil, 0, fmt.Errorf("WAV data too short: need at least 12 bytes, got %d", len(data))
	}
	if string(data[0:4]) != "RIFF" {
		return nil, 0, fmt.Errorf("invalid WAV file: missing RIFF header")
	}
	if string(data[8:12]) != "WAVE" {
		return nil, 0, fmt.Errorf("invalid WAV file: missing WAVE format")
	}

	var (
		haveFmt       bool
		audioFormat   uint16
		numChannels   uint16
		sampleRate    uint32
		bitsPerSample uint16
	)

	offset := 12
	for offset+8 <= len(data) {
		id := string(data[offset : offset+4])
		size := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8

		switch id {
		case "fmt ":
			// A size above 16 carries codec extension bytes; only the
			// leading PCM fields matter here.
			if size < 16 || body+16 > len(data) {
				return nil, 0, fmt.Errorf("invalid WAV file: malformed fmt chunk")
			}
			audioFormat = binary.LittleEndian.Uint16(data[body : body+2])
			numChannels = binary.LittleEndian.Uint16(data[body+2 : body+4])
			sampleRate = binary.LittleEndian.Uint32(data[body+4 : body+8])
			bitsPerSample = binary.LittleEndian.Uint16(data[body+14 : body+16])
			haveFmt = true

		case "data":
			if !haveFmt {
				return nil, 0, fmt.Errorf("invalid WAV file: data chunk before fmt chunk")
			}
			if audioFormat != 1 {
				return nil, 0, fmt.Errorf("unsupported audio format: %d (only PCM is supported)", audioFormat)
			}
			if bitsPerSample != 16 {
				return nil, 0, fmt.Errorf("unsupported bit depth: %d (only 16-bit is supported)", bitsPerSample)
			}
			if numChannels != 1 {
				return nil, 0, fmt.Errorf("unsupported channel count: %d (only mono is supported)", numChannels)
			}
			numSamples := size / 2
			if numSamples <= 0 {
				return nil, 0, fmt.Errorf("no audio data found")
			}
			if body+numSamples*2 > len(data) {
				return nil, 0, fmt.Errorf("truncated WAV data: header claims %d samples", numSamples)
			}
			pcm := make([]int16, numSamples)
			if err := binary.Read(bytes.NewReader(data[body:body+numSamples*2]), binary.LittleEndian, pcm); err != nil {
				return nil, 0, fmt.Errorf("failed to read audio samples: %w", err)
			}
			return PCMToSamples(pcm), int(sampleRate), nil
		}

		// Chunks are word-aligned; odd sizes carry a pad byte.
		offset = body + size
		if size%2 == 1 {
			offset++
		}
	}

	return nil, 0, fmt.Errorf("invalid WAV file: missing data chunk")
}

// SamplesToPCM converts normalized float32 samples to int16 PCM,
// clipping out-of-range values. The scale factor matches PCMToSamples
// so a round trip stays within one quantization step.
func SamplesToPCM(samples []float32) []int16 {
	pcm := make([]int16, len(samples))
	for i, s := range samples {
		v := s * 32768
		switch {
		case v >= 32767:
			pcm[i] = 32767
		case v <= -32768:
			pcm[i] = -32768
		default:
			pcm[i] = int16(v)
		}
	}
	return pcm
}

// PCMToSamples converts int16 PCM to normalized float32 samples.
func PCMToSamples(pcm []int16) []float32 {
	samples := make([]float32, len(pcm))
	for i, p := range pcm {
		samples[i] = float32(p) / 32768
	}
	return samples
}
