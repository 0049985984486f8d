// This file is part of tapemaker.
//
// tapemaker is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// tapemaker is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with tapemaker.  If not, see <https://www.gnu.org/licenses/>.

package render

import (
	"encoding/binary"
	"fmt"

	"github.com/go-audio/audio"
	"github.com/jetsetilly/tapemaker/curated"
	"github.com/jetsetilly/tapemaker/logger"
	"github.com/jetsetilly/tapemaker/pulse"
	"github.com/jetsetilly/tapemaker/timing"
)

// tag string used in calls to Log().
const logTag = "render"

// Sentinal error patterns.
const (
	UnsupportedFormat    = "render: unsupported format: %s"
	UnknownPolicy        = "render: unknown overflow policy (%s)"
	QuantizationOverflow = "render: quantization overflow: %s amplitude of %d does not fit in %d bits"
)

// FrameCount returns the number of sample frames that a signal of the given
// duration occupies at the sample rate.
func FrameCount(t timing.Ticks, sampleRate int) int {
	return int(timing.TicksToMicros(t) * uint64(sampleRate) / timing.SecondMicros)
}

type level struct {
	value     int
	amplitude int
	overflow  bool
}

// Renderer is a pulse.Sink that converts pulses to PCM samples. A Renderer
// must be used for one pass of the encoder only.
type Renderer struct {
	format Format
	policy OverflowPolicy

	high level
	low  level

	// running totals. the number of frames for each pulse is the difference
	// between the frame count before and after the pulse. this means there
	// is no accumulated rounding error however many pulses there are
	elapsed timing.Ticks
	frames  int

	buf *audio.IntBuffer

	// number of pulses that were clamped under the OverflowWarn policy
	Overflows int
}

// NewRenderer is the preferred method of initialisation for the Renderer type.
//
// Amplitudes that overflow the bit depth are not an error at this point
// because a signal may not contain any pulses of that polarity.
func NewRenderer(format Format, amp Amplitudes, policy OverflowPolicy) (*Renderer, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}

	r := &Renderer{
		format: format,
		policy: policy,
		buf: &audio.IntBuffer{
			Format:         format.audioFormat(),
			SourceBitDepth: format.BitDepth,
		},
	}

	lo, hi := format.limits()
	prep := func(amplitude int) level {
		v, ok := format.scale(amplitude)
		switch {
		case ok:
			return level{value: int(v), amplitude: amplitude}
		case amplitude > 0:
			return level{value: int(hi), amplitude: amplitude, overflow: true}
		}
		return level{value: int(lo), amplitude: amplitude, overflow: true}
	}
	r.high = prep(amp.High)
	r.low = prep(amp.Low)

	return r, nil
}

// Pulse implements the pulse.Sink interface.
func (r *Renderer) Pulse(p pulse.Pulse) error {
	r.elapsed += p.Duration

	current := FrameCount(r.elapsed, r.format.SampleRate)
	span := current - r.frames
	r.frames = current

	// short pulses at low sample rates may not occupy a single frame
	if span == 0 {
		return nil
	}

	l := r.low
	if p.Polarity == pulse.High {
		l = r.high
	}

	if l.overflow {
		if r.policy == OverflowFail {
			return curated.Errorf(QuantizationOverflow, p.Polarity, l.amplitude, r.format.BitDepth)
		}
		r.Overflows++
		logger.Logf(logger.Allow, logTag, "clamping %s amplitude to %d for %d frames", p.Polarity, l.value, span)
	}

	for i, n := 0, span*r.format.Channels; i < n; i++ {
		r.buf.Data = append(r.buf.Data, l.value)
	}

	return nil
}

// Format returns the format of the rendered samples.
func (r *Renderer) Format() Format {
	return r.format
}

// Elapsed returns the total duration of the pulses rendered so far.
func (r *Renderer) Elapsed() timing.Ticks {
	return r.elapsed
}

// Frames returns the number of sample frames rendered so far. A frame is one
// sample for every channel.
func (r *Renderer) Frames() int {
	return r.frames
}

// Buffer returns the interleaved samples as a go-audio buffer. The buffer is
// shared with the renderer and so should not be modified.
func (r *Renderer) Buffer() *audio.IntBuffer {
	return r.buf
}

// ByteSize is the size in bytes of the rendered sample data.
func (r *Renderer) ByteSize() int {
	return len(r.buf.Data) * r.format.BytesPerSample()
}

// Bytes returns the rendered samples as signed little-endian values of the
// bit depth.
func (r *Renderer) Bytes() []byte {
	b := make([]byte, 0, r.ByteSize())
	for _, v := range r.buf.Data {
		switch r.format.BitDepth {
		case 8:
			b = append(b, byte(int8(v)))
		case 16:
			b = binary.LittleEndian.AppendUint16(b, uint16(int16(v)))
		case 24:
			b = append(b, audio.Int32toInt24LEBytes(int32(v))...)
		case 32:
			b = binary.LittleEndian.AppendUint32(b, uint32(int32(v)))
		}
	}
	return b
}

func (r *Renderer) String() string {
	return fmt.Sprintf("%s: %d frames (%dus)", r.format, r.frames, timing.TicksToMicros(r.elapsed))
}
