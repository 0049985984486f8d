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

package wavwriter_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	gawav "github.com/go-audio/wav"
	"github.com/jetsetilly/tapemaker/curated"
	"github.com/jetsetilly/tapemaker/pulse"
	"github.com/jetsetilly/tapemaker/render"
	"github.com/jetsetilly/tapemaker/test"
	"github.com/jetsetilly/tapemaker/wavwriter"
	"github.com/youpy/go-wav"
)

// size of the canonical RIFF/WAVE header
const headerSize = 44

// one second of signal made of pulses of 1000us
func renderSecond(t *testing.T, format render.Format) *render.Renderer {
	t.Helper()

	r, err := render.NewRenderer(format, render.DefaultAmplitudes(), render.OverflowFail)
	test.DemandSuccess(t, err)

	p := pulse.Low
	for i := 0; i < 1000; i++ {
		test.DemandSuccess(t, r.Pulse(pulse.Pulse{Polarity: p, Duration: 3584}))
		p = p.Toggle()
	}

	return r
}

func writeFile(t *testing.T, r *render.Renderer) []byte {
	t.Helper()

	fn := filepath.Join(t.TempDir(), "tape.wav")
	test.DemandSuccess(t, wavwriter.Write(fn, r))

	b, err := os.ReadFile(fn)
	test.DemandSuccess(t, err)

	return b
}

func TestEncode(t *testing.T) {
	for _, depth := range []int{8, 16, 24, 32} {
		format := render.Format{Channels: 2, BitDepth: depth, SampleRate: 22050}
		r := renderSecond(t, format)
		b := writeFile(t, r)

		test.DemandEquality(t, len(b), headerSize+r.ByteSize(), depth)
		test.ExpectEquality(t, string(b[0:4]), "RIFF", depth)
		test.ExpectEquality(t, string(b[8:12]), "WAVE", depth)
		if diff := cmp.Diff(r.Bytes(), b[headerSize:]); diff != "" {
			t.Errorf("%d bit sample data differs (-rendered +file):\n%s", depth, diff)
		}

		// cross check with a second decoder
		rd := wav.NewReader(bytes.NewReader(b))
		f, err := rd.Format()
		test.DemandSuccess(t, err)
		test.ExpectEquality(t, f.AudioFormat, wav.AudioFormatPCM, depth)
		test.ExpectEquality(t, int(f.NumChannels), format.Channels, depth)
		test.ExpectEquality(t, int(f.SampleRate), format.SampleRate, depth)
		test.ExpectEquality(t, int(f.BitsPerSample), depth, depth)

		d, err := rd.Duration()
		test.ExpectSuccess(t, err)
		test.ExpectEquality(t, d.Seconds(), 1.0, depth)
	}
}

func TestDecode(t *testing.T) {
	format := render.Format{Channels: 1, BitDepth: 16, SampleRate: 44100}
	r := renderSecond(t, format)
	b := writeFile(t, r)

	dec := gawav.NewDecoder(bytes.NewReader(b))
	buf, err := dec.FullPCMBuffer()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, dec.BitDepth, 16)
	test.ExpectEquality(t, buf.Format.SampleRate, 44100)
	test.ExpectEquality(t, buf.Format.NumChannels, 1)
	test.DemandEquality(t, len(buf.Data), 44100)
	test.ExpectEquality(t, buf.Data[0], -32*256)
	test.ExpectEquality(t, buf.Data[44], 96*256)

	if diff := cmp.Diff(r.Buffer().Data, buf.Data); diff != "" {
		t.Errorf("decoded samples differ (-rendered +decoded):\n%s", diff)
	}
}

func TestStream(t *testing.T) {
	format := render.Format{Channels: 2, BitDepth: 16, SampleRate: 8000}
	r := renderSecond(t, format)

	var s bytes.Buffer
	test.DemandSuccess(t, wavwriter.Stream(&s, r))
	test.DemandEquality(t, s.Len(), headerSize+r.ByteSize())
	if diff := cmp.Diff(r.Bytes(), s.Bytes()[headerSize:]); diff != "" {
		t.Errorf("streamed sample data differs (-rendered +stream):\n%s", diff)
	}

	rd := wav.NewReader(bytes.NewReader(s.Bytes()))
	samples, err := rd.ReadSamples(uint32(r.Frames()))
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(samples), 8000)
	test.ExpectEquality(t, rd.IntValue(samples[0], 0), -32*256)
	test.ExpectEquality(t, rd.IntValue(samples[0], 1), -32*256)
	test.ExpectEquality(t, rd.IntValue(samples[8], 1), 96*256)
}

func TestStreamChannels(t *testing.T) {
	r := renderSecond(t, render.Format{Channels: 3, BitDepth: 8, SampleRate: 8000})
	var s bytes.Buffer
	err := wavwriter.Stream(&s, r)
	test.ExpectEquality(t, curated.Is(err, wavwriter.TooManyChannels), true)
	test.ExpectEquality(t, s.Len(), 0)
}

func TestEmpty(t *testing.T) {
	r, err := render.NewRenderer(render.DefaultFormat(), render.DefaultAmplitudes(), render.OverflowFail)
	test.DemandSuccess(t, err)

	b := writeFile(t, r)
	test.ExpectEquality(t, len(b), headerSize)
}
