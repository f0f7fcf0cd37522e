package audio

import (
	"bytes"
	"fmt"
	"io"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	mp3 "github.com/hajimehoshi/go-mp3"
)

// Clip holds decoded PCM samples for one audio segment.
type Clip struct {
	Samples     []int // interleaved
	NumChannels int
	SampleRate  int
	BitDepth    int
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 {
	if c.SampleRate == 0 || c.NumChannels == 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.NumChannels) / float64(c.SampleRate)
}

// Decode parses encoded audio bytes in the given format ("mp3" or "wav")
// into a PCM clip.
func Decode(data []byte, format string) (*Clip, error) {
	switch format {
	case "mp3":
		return decodeMP3(data)
	case "wav":
		return decodeWAV(data)
	default:
		return nil, fmt.Errorf("unsupported audio format %q", format)
	}
}

func decodeMP3(data []byte) (*Clip, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode mp3: %w", err)
	}

	// go-mp3 always emits 16-bit little-endian stereo.
	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("read mp3 pcm: %w", err)
	}
	if len(pcm)%2 != 0 {
		pcm = pcm[:len(pcm)-1]
	}

	samples := make([]int, len(pcm)/2)
	for i := range samples {
		samples[i] = int(int16(uint16(pcm[2*i]) | uint16(pcm[2*i+1])<<8))
	}

	return &Clip{
		Samples:     samples,
		NumChannels: 2,
		SampleRate:  dec.SampleRate(),
		BitDepth:    16,
	}, nil
}

func decodeWAV(data []byte) (*Clip, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("decode wav: not a valid wav file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}

	return &Clip{
		Samples:     buf.Data,
		NumChannels: buf.Format.NumChannels,
		SampleRate:  buf.Format.SampleRate,
		BitDepth:    bitDepth,
	}, nil
}

// Concat joins clips back to back in slice order. All clips must share the
// same sample rate and channel count; there is no resampling or cross-fading.
func Concat(clips []*Clip) (*Clip, error) {
	if len(clips) == 0 {
		return nil, fmt.Errorf("no clips to concatenate")
	}

	first := clips[0]
	total := 0
	for i, c := range clips {
		if c.SampleRate != first.SampleRate {
			return nil, fmt.Errorf("clip %d sample rate %d does not match %d", i, c.SampleRate, first.SampleRate)
		}
		if c.NumChannels != first.NumChannels {
			return nil, fmt.Errorf("clip %d channel count %d does not match %d", i, c.NumChannels, first.NumChannels)
		}
		total += len(c.Samples)
	}

	merged := &Clip{
		Samples:     make([]int, 0, total),
		NumChannels: first.NumChannels,
		SampleRate:  first.SampleRate,
		BitDepth:    first.BitDepth,
	}
	for _, c := range clips {
		merged.Samples = append(merged.Samples, c.Samples...)
	}
	return merged, nil
}

// EncodeWAV serializes a clip as a single WAV file.
func EncodeWAV(c *Clip) ([]byte, error) {
	if len(c.Samples) == 0 {
		return nil, fmt.Errorf("empty clip")
	}

	bitDepth := c.BitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}

	ws := &writeSeeker{}
	enc := wav.NewEncoder(ws, c.SampleRate, bitDepth, c.NumChannels, 1)

	buf := &gaudio.IntBuffer{
		Data:           c.Samples,
		Format:         &gaudio.Format{NumChannels: c.NumChannels, SampleRate: c.SampleRate},
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("finalize wav: %w", err)
	}

	return ws.buf, nil
}

// writeSeeker is an in-memory io.WriteSeeker for the wav encoder, which
// seeks back to patch chunk sizes in the header.
type writeSeeker struct {
	buf []byte
	pos int
}

func (ws *writeSeeker) Write(p []byte) (int, error) {
	if need := ws.pos + len(p); need > len(ws.buf) {
		grown := make([]byte, need)
		copy(grown, ws.buf)
		ws.buf = grown
	}
	copy(ws.buf[ws.pos:], p)
	ws.pos += len(p)
	return len(p), nil
}

func (ws *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = int64(ws.pos) + offset
	case io.SeekEnd:
		pos = int64(len(ws.buf)) + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if pos < 0 {
		return 0, fmt.Errorf("negative seek position %d", pos)
	}
	ws.pos = int(pos)
	return pos, nil
}
