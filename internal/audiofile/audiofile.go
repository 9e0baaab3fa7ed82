// Package audiofile loads whole audio files into per-channel float64 slices
// and writes them back as PCM WAV.
package audiofile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"

	"github.com/cwbudde/algo-bypass/dsp/core"
)

var (
	// ErrUnsupportedFormat indicates an unknown file extension.
	ErrUnsupportedFormat = errors.New("audiofile: unsupported format")
	// ErrInvalidFile indicates a file the decoder rejected.
	ErrInvalidFile = errors.New("audiofile: invalid file")
	// ErrUnsupportedBitDepth indicates a PCM bit depth other than 8, 16, 24 or 32.
	ErrUnsupportedBitDepth = errors.New("audiofile: unsupported bit depth")
)

// wavUnsignedOffset is the zero level of 8-bit WAV, which stores unsigned
// samples. AIFF 8-bit is signed.
const wavUnsignedOffset = 128

// Clip is a fully decoded audio file. Samples are nominally in [-1, 1].
type Clip struct {
	SampleRate int
	Channels   [][]float64
}

// NumChannels returns the channel count.
func (c *Clip) NumChannels() int { return len(c.Channels) }

// Len returns the number of frames.
func (c *Clip) Len() int {
	if len(c.Channels) == 0 {
		return 0
	}
	return len(c.Channels[0])
}

// Decode loads the file at path, choosing the decoder by extension.
func Decode(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audiofile: %w", err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav", ".wave":
		return decodeWAV(f)
	case ".aif", ".aiff":
		return decodeAIFF(f)
	case ".mp3":
		return decodeMP3(f)
	case ".ogg", ".oga":
		return decodeVorbis(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func decodeWAV(r io.ReadSeeker) (*Clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a WAV file", ErrInvalidFile)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("audiofile: decoding WAV: %w", err)
	}
	if dec.BitDepth == 8 {
		for i := range buf.Data {
			buf.Data[i] -= wavUnsignedOffset
		}
	}
	return fromIntBuffer(buf.Data, int(dec.NumChans), int(dec.SampleRate), int(dec.BitDepth))
}

func decodeAIFF(r io.ReadSeeker) (*Clip, error) {
	dec := aiff.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not an AIFF file", ErrInvalidFile)
	}
	dec.ReadInfo()

	format := dec.Format()
	if format == nil {
		return nil, fmt.Errorf("%w: missing AIFF format", ErrInvalidFile)
	}

	var data []int
	chunk := &goaudio.IntBuffer{Data: make([]int, 4096), Format: format}
	for {
		n, err := dec.PCMBuffer(chunk)
		data = append(data, chunk.Data[:n]...)
		if errors.Is(err, io.EOF) || (err == nil && n == 0) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("audiofile: decoding AIFF: %w", err)
		}
	}
	return fromIntBuffer(data, format.NumChannels, format.SampleRate, int(dec.BitDepth))
}

// decodeMP3 converts go-mp3's interleaved 16-bit little-endian stereo output.
func decodeMP3(r io.Reader) (*Clip, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("audiofile: decoding MP3: %w", err)
	}

	data := make([]int, len(raw)/2)
	for i := range data {
		data[i] = int(int16(uint16(raw[2*i]) | uint16(raw[2*i+1])<<8))
	}
	return fromIntBuffer(data, 2, dec.SampleRate(), 16)
}

func decodeVorbis(r io.Reader) (*Clip, error) {
	data, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	if format.Channels <= 0 {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidFile, format.Channels)
	}

	clip := newClip(format.Channels, len(data)/format.Channels, format.SampleRate)
	for i, v := range data[:clip.Len()*format.Channels] {
		clip.Channels[i%format.Channels][i/format.Channels] = float64(v)
	}
	return clip, nil
}

func newClip(channels, frames, sampleRate int) *Clip {
	clip := &Clip{SampleRate: sampleRate, Channels: make([][]float64, channels)}
	for ch := range clip.Channels {
		clip.Channels[ch] = make([]float64, frames)
	}
	return clip
}

func fullScale(bitDepth int) (float64, error) {
	switch bitDepth {
	case 8, 16, 24, 32:
		return math.Ldexp(1, bitDepth-1), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
}

// fromIntBuffer deinterleaves PCM integers into a Clip.
func fromIntBuffer(data []int, channels, sampleRate, bitDepth int) (*Clip, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidFile, channels)
	}
	scale, err := fullScale(bitDepth)
	if err != nil {
		return nil, err
	}

	clip := newClip(channels, len(data)/channels, sampleRate)
	for i, v := range data[:clip.Len()*channels] {
		clip.Channels[i%channels][i/channels] = float64(v) / scale
	}
	return clip, nil
}

// WriteWAV writes clip as integer PCM with the given bit depth. Samples are
// clipped to full scale.
func WriteWAV(path string, clip *Clip, bitDepth int) error {
	var buf bytes.Buffer
	if err := encodeWAV(&buf, clip, bitDepth); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("audiofile: %w", err)
	}
	return nil
}

func encodeWAV(w io.Writer, clip *Clip, bitDepth int) error {
	scale, err := fullScale(bitDepth)
	if err != nil {
		return err
	}
	channels := clip.NumChannels()
	if channels == 0 {
		return fmt.Errorf("%w: no channels to write", ErrInvalidFile)
	}

	data := make([]int, clip.Len()*channels)
	for i := range data {
		v := math.Round(clip.Channels[i%channels][i/channels] * scale)
		data[i] = int(core.Clamp(v, -scale, scale-1))
		if bitDepth == 8 {
			data[i] += wavUnsignedOffset
		}
	}

	ws := &writeSeeker{}
	enc := wav.NewEncoder(ws, clip.SampleRate, bitDepth, channels, 1)
	ib := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: clip.SampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(ib); err != nil {
		return fmt.Errorf("audiofile: encoding WAV: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("audiofile: finalizing WAV: %w", err)
	}
	_, err = w.Write(ws.data)
	return err
}

// writeSeeker is an in-memory io.WriteSeeker; the WAV encoder seeks back to
// patch chunk sizes on Close.
type writeSeeker struct {
	data   []byte
	offset int64
}

func (ws *writeSeeker) Write(p []byte) (int, error) {
	end := ws.offset + int64(len(p))
	if end > int64(len(ws.data)) {
		grown := make([]byte, end)
		copy(grown, ws.data)
		ws.data = grown
	}
	copy(ws.data[ws.offset:], p)
	ws.offset = end
	return len(p), nil
}

func (ws *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = ws.offset + offset
	case io.SeekEnd:
		next = int64(len(ws.data)) + offset
	default:
		return 0, fmt.Errorf("audiofile: invalid whence: %d", whence)
	}
	if next < 0 {
		return 0, errors.New("audiofile: negative position")
	}
	ws.offset = next
	return next, nil
}
