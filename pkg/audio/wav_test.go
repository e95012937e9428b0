package audio

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

// ffmpegStyleWAV builds a WAV the way ffmpeg's muxer lays it out: a fmt
// chunk followed by a LIST/INFO metadata chunk (ISFT tag with an odd-
// length payload plus pad byte), then the data chunk.
func ffmpegStyleWAV(t *testing.T, pcm []int16, sampleRate int) []byte {
	t.Helper()
	var body bytes.Buffer

	body.WriteString("fmt ")
	binary.Write(&body, binary.LittleEndian, uint32(16))
	binary.Write(&body, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&body, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&body, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&body, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(&body, binary.LittleEndian, uint16(2))
	binary.Write(&body, binary.LittleEndian, uint16(16))

	software := []byte("Lavf61.7.100\x00")
	payload := len("INFO") + len("ISFT") + 4 + len(software)
	body.WriteString("LIST")
	binary.Write(&body, binary.LittleEndian, uint32(payload))
	body.WriteString("INFO")
	body.WriteString("ISFT")
	binary.Write(&body, binary.LittleEndian, uint32(len(software)))
	body.Write(software)
	if payload%2 == 1 {
		body.WriteByte(0)
	}

	body.WriteString("data")
	binary.Write(&body, binary.LittleEndian, uint32(len(pcm)*2))
	binary.Write(&body, binary.LittleEndian, pcm)

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(4+body.Len()))
	buf.WriteString("WAVE")
	buf.Write(body.Bytes())
	return buf.Bytes()
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	// One cycle of a 440 Hz sine at half amplitude.
	const rate = 16000
	samples := make([]float32, rate/440)
	for i := range samples {
		samples[i] = 0.5 * float32(math.Sin(2*math.Pi*float64(i)/float64(len(samples))))
	}

	data, err := EncodeWAV(samples, rate)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}
	if len(data) != 44+len(samples)*2 {
		t.Errorf("expected %d bytes, got %d", 44+len(samples)*2, len(data))
	}

	decoded, gotRate, err := DecodeWAV(data)
	if err != nil {
		t.Fatalf("DecodeWAV failed: %v", err)
	}
	if gotRate != rate {
		t.Errorf("expected sample rate %d, got %d", rate, gotRate)
	}
	if len(decoded) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(decoded))
	}
	for i := range samples {
		if diff := math.Abs(float64(decoded[i] - samples[i])); diff > 1.0/32768 {
			t.Fatalf("sample %d: expected %f, got %f", i, samples[i], decoded[i])
		}
	}
}

func TestDecodeSkipsMetadataChunks(t *testing.T) {
	data := ffmpegStyleWAV(t, []int16{1000, -1000, 2000}, 16000)

	samples, rate, err := DecodeWAV(data)
	if err != nil {
		t.Fatalf("DecodeWAV failed: %v", err)
	}
	if rate != 16000 {
		t.Errorf("expected sample rate 16000, got %d", rate)
	}
	if len(samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(samples))
	}
	if samples[0] != 1000.0/32768 {
		t.Errorf("unexpected first sample: %f", samples[0])
	}
}

func TestDecodeToleratesExtendedFmtChunk(t *testing.T) {
	// A fmt chunk with the 2-byte cbSize extension (size 18).
	var body bytes.Buffer
	body.WriteString("fmt ")
	binary.Write(&body, binary.LittleEndian, uint32(18))
	binary.Write(&body, binary.LittleEndian, uint16(1))
	binary.Write(&body, binary.LittleEndian, uint16(1))
	binary.Write(&body, binary.LittleEndian, uint32(8000))
	binary.Write(&body, binary.LittleEndian, uint32(16000))
	binary.Write(&body, binary.LittleEndian, uint16(2))
	binary.Write(&body, binary.LittleEndian, uint16(16))
	binary.Write(&body, binary.LittleEndian, uint16(0)) // cbSize
	body.WriteString("data")
	binary.Write(&body, binary.LittleEndian, uint32(4))
	binary.Write(&body, binary.LittleEndian, []int16{100, 200})

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(4+body.Len()))
	buf.WriteString("WAVE")
	buf.Write(body.Bytes())

	samples, rate, err := DecodeWAV(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeWAV failed: %v", err)
	}
	if rate != 8000 || len(samples) != 2 {
		t.Errorf("unexpected result: rate=%d samples=%d", rate, len(samples))
	}
}

func TestEncodeRejectsBadInput(t *testing.T) {
	if _, err := EncodeWAV(nil, 16000); err == nil {
		t.Error("expected error for empty samples")
	}
	if _, err := EncodeWAV([]float32{0.1}, 0); err == nil {
		t.Error("expected error for zero sample rate")
	}
}

func TestDecodeRejectsInvalidData(t *testing.T) {
	valid, err := EncodeWAV([]float32{0.1, -0.1, 0.2}, 16000)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	cases := []struct {
		name string
		data []byte
	}{
		{"too short", valid[:20]},
		{"bad magic", append([]byte("JUNK"), valid[4:]...)},
		{"truncated data", valid[:len(valid)-2]},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := DecodeWAV(tc.data); err == nil {
				t.Error("expected decode error")
			}
		})
	}
}

func TestDecodeRejectsStereo(t *testing.T) {
	data, err := EncodeWAV([]float32{0.1, 0.2}, 16000)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}
	// Channel count lives at byte offset 22.
	data[22] = 2
	if _, _, err := DecodeWAV(data); err == nil {
		t.Error("expected error for stereo data")
	}
}

func TestSamplesToPCMClipping(t *testing.T) {
	pcm := SamplesToPCM([]float32{2.0, -2.0, 0, 1.0, -1.0})
	want := []int16{32767, -32768, 0, 32767, -32768}
	for i := range want {
		if pcm[i] != want[i] {
			t.Errorf("sample %d: expected %d, got %d", i, want[i], pcm[i])
		}
	}
}
