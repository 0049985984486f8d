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

package fixture_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jetsetilly/tapemaker/chunk"
	"github.com/jetsetilly/tapemaker/curated"
	"github.com/jetsetilly/tapemaker/digest"
	"github.com/jetsetilly/tapemaker/fixture"
	"github.com/jetsetilly/tapemaker/logger"
	"github.com/jetsetilly/tapemaker/manifest"
	"github.com/jetsetilly/tapemaker/pulse"
	"github.com/jetsetilly/tapemaker/render"
	"github.com/jetsetilly/tapemaker/tapfile"
	"github.com/jetsetilly/tapemaker/test"
	"github.com/jetsetilly/tapemaker/timing"
)

func reference(t *testing.T) []chunk.Chunk {
	t.Helper()
	chunks, err := manifest.Default().Chunks()
	test.DemandSuccess(t, err)
	return chunks
}

func renderings() []fixture.Rendering {
	return []fixture.Rendering{
		{Format: render.DefaultFormat(), Amplitudes: render.DefaultAmplitudes()},
		{Format: render.Format{Channels: 2, BitDepth: 16, SampleRate: 48000}, Amplitudes: render.DefaultAmplitudes()},
	}
}

func TestGenerate(t *testing.T) {
	chunks := reference(t)

	var tap, pulses bytes.Buffer
	var l pulse.List

	res, err := fixture.Generate(chunks, timing.DefaultParams(), fixture.Options{
		Tap:        &tap,
		Pulses:     &pulses,
		Units:      pulse.TickUnits,
		Renderings: renderings(),
		Digest:     true,
		Sinks:      []pulse.Sink{&l},
	})
	test.DemandSuccess(t, err)

	test.DemandEquality(t, len(res.Spans), 4)
	test.ExpectEquality(t, res.State.Pulses, len(l))
	test.ExpectEquality(t, res.State.Ticks, l.Ticks())
	test.ExpectEquality(t, res.Spans[1].End-res.Spans[1].Start, timing.Ticks(10641266))

	// block container reads back to the same chunks
	rb, err := tapfile.Read(&tap, true)
	test.DemandSuccess(t, err)
	if diff := cmp.Diff(chunks, rb); diff != "" {
		t.Errorf("tap container differs (-want +got):\n%s", diff)
	}

	// pulse list in ticks matches the extra sink
	d, err := pulse.ReadList(&pulses)
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(d), len(l))
	for i := range d {
		if timing.Ticks(d[i]) != l[i].Duration {
			t.Fatalf("pulse %d: list has %d, sink has %d", i, d[i], l[i].Duration)
		}
	}

	// every renderer saw the whole pass
	test.DemandEquality(t, len(res.Renderers), 2)
	for _, r := range res.Renderers {
		test.ExpectEquality(t, r.Elapsed(), res.State.Ticks)
		test.ExpectEquality(t, r.Frames(), render.FrameCount(res.State.Ticks, r.Format().SampleRate))
	}

	// the pulse digest is the digest of the pulses received by the extra sink
	pd := digest.NewPulses()
	test.DemandSuccess(t, l.Replay(pd))
	test.ExpectEquality(t, res.PulseDigest, pd.Hash())

	test.DemandEquality(t, len(res.AudioDigests), 2)
	test.ExpectInequality(t, res.AudioDigests[0], res.AudioDigests[1])

	res.Log(logger.Allow)
}

// the reference fixture is fixed so any change to the encoding of the pulses
// or of the container shows here
func TestReferenceFixture(t *testing.T) {
	var tap bytes.Buffer
	res, err := fixture.Generate(reference(t), timing.DefaultParams(), fixture.Options{
		Tap:    &tap,
		Digest: true,
	})
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, res.State.Pulses, 23286)
	test.ExpectEquality(t, res.PulseDigest, "3da3e0c77016ee0a278882b67bb8192a95a0404a")

	want := []byte{
		0x13, 0x00, 0x00, 0x00, 0x41, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x01, 0x00,
		0x00, 0x00, 0x01, 0x00, 0x61, 0x03, 0x00, 0xff, 0x61, 0x9e, 0x13, 0x00, 0x00, 0x03, 0x42, 0x20,
		0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x01, 0x00, 0x00, 0x80, 0x00, 0x80, 0x60, 0x03,
		0x00, 0xff, 0x62, 0x9d,
	}
	if diff := cmp.Diff(want, tap.Bytes()); diff != "" {
		t.Errorf("tap container differs (-want +got):\n%s", diff)
	}
}

func TestMicros(t *testing.T) {
	var pulses bytes.Buffer
	_, err := fixture.Generate(reference(t), timing.DefaultParams(), fixture.Options{
		Pulses: &pulses,
		Units:  pulse.Micros,
	})
	test.DemandSuccess(t, err)

	d, err := pulse.ReadList(&pulses)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, d[0], uint32(604))
	test.ExpectEquality(t, d[len(d)-1], uint32(1000000))
}

func TestIdempotence(t *testing.T) {
	gen := func() (*fixture.Result, []byte) {
		var pulses bytes.Buffer
		res, err := fixture.Generate(reference(t), timing.DefaultParams(), fixture.Options{
			Pulses:     &pulses,
			Renderings: renderings(),
			Digest:     true,
		})
		test.DemandSuccess(t, err)
		return res, pulses.Bytes()
	}

	a, ap := gen()
	b, bp := gen()

	test.ExpectEquality(t, bytes.Equal(ap, bp), true)
	test.ExpectEquality(t, a.PulseDigest, b.PulseDigest)
	if diff := cmp.Diff(a.AudioDigests, b.AudioDigests); diff != "" {
		t.Errorf("audio digests differ (-first +second):\n%s", diff)
	}
	for i := range a.Renderers {
		test.ExpectEquality(t, bytes.Equal(a.Renderers[i].Bytes(), b.Renderers[i].Bytes()), true, i)
	}
}

func TestEmpty(t *testing.T) {
	var tap, pulses bytes.Buffer
	res, err := fixture.Generate(nil, timing.DefaultParams(), fixture.Options{
		Tap:        &tap,
		Pulses:     &pulses,
		Renderings: renderings(),
		Digest:     true,
	})
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, res.State.Pulses, 0)
	test.ExpectEquality(t, len(res.Spans), 0)
	test.ExpectEquality(t, tap.Len(), 0)
	test.ExpectEquality(t, pulses.Len(), 0)
	test.ExpectEquality(t, res.Renderers[0].Frames(), 0)
	test.ExpectEquality(t, res.PulseDigest, "0000000000000000000000000000000000000000")
}

func TestNoStages(t *testing.T) {
	res, err := fixture.Generate(reference(t), timing.DefaultParams(), fixture.Options{})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(res.Spans), 4)
	test.ExpectEquality(t, len(res.Renderers), 0)
	test.ExpectEquality(t, res.PulseDigest, "")
}

func TestOverflow(t *testing.T) {
	loud := []fixture.Rendering{
		{Format: render.DefaultFormat(), Amplitudes: render.Amplitudes{High: 200, Low: -32}},
	}

	var tap bytes.Buffer
	_, err := fixture.Generate(reference(t), timing.DefaultParams(), fixture.Options{
		Tap:        &tap,
		Renderings: loud,
	})
	test.ExpectEquality(t, curated.Is(err, fixture.FixtureError), true)
	test.ExpectEquality(t, curated.Has(err, render.QuantizationOverflow), true)

	// nothing is written to the container when the pass fails
	test.ExpectEquality(t, tap.Len(), 0)

	loud[0].Policy = render.OverflowWarn
	res, err := fixture.Generate(reference(t), timing.DefaultParams(), fixture.Options{
		Renderings: loud,
	})
	test.DemandSuccess(t, err)
	test.ExpectInequality(t, res.Renderers[0].Overflows, 0)
}

func TestInvalidParams(t *testing.T) {
	p := timing.DefaultParams()
	p.BitZero = 0
	_, err := fixture.Generate(reference(t), p, fixture.Options{})
	test.ExpectEquality(t, curated.Is(err, fixture.FixtureError), true)

	_, err = fixture.Generate(reference(t), timing.DefaultParams(), fixture.Options{
		Renderings: []fixture.Rendering{{Format: render.Format{Channels: 1, BitDepth: 12, SampleRate: 8000}}},
	})
	test.ExpectEquality(t, curated.Has(err, render.UnsupportedFormat), true)
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()

	m := manifest.Default()
	m.SetDir(dir)
	m.Outputs.Wav = []manifest.WavOutput{
		{File: "tape.wav"},
		{File: "tape16.wav", Format: render.Format{BitDepth: 16}},
	}

	res, err := fixture.Build(m, fixture.Options{Digest: true})
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(res.Renderers), 2)
	test.ExpectEquality(t, len(res.AudioDigests), 2)

	tap, err := os.Open(filepath.Join(dir, "tape.tap"))
	test.DemandSuccess(t, err)
	defer tap.Close()
	chunks, err := tapfile.Read(tap, true)
	test.DemandSuccess(t, err)
	if diff := cmp.Diff(reference(t), chunks); diff != "" {
		t.Errorf("tap file differs (-want +got):\n%s", diff)
	}

	pulses, err := os.ReadFile(filepath.Join(dir, "tape.pulses"))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(pulses), 4*res.State.Pulses)

	for i, fn := range []string{"tape.wav", "tape16.wav"} {
		st, err := os.Stat(filepath.Join(dir, fn))
		test.DemandSuccess(t, err)
		test.ExpectEquality(t, int(st.Size()), 44+res.Renderers[i].ByteSize(), fn)
	}
	test.ExpectEquality(t, res.Renderers[1].Format().BitDepth, 16)
}

func TestBuildFailure(t *testing.T) {
	dir := t.TempDir()

	m := manifest.Default()
	m.SetDir(dir)
	m.Amplitudes = &render.Amplitudes{High: 1000, Low: -32}
	m.Outputs.Wav = []manifest.WavOutput{{File: "tape.wav"}}

	_, err := fixture.Build(m, fixture.Options{})
	test.ExpectEquality(t, curated.Has(err, render.QuantizationOverflow), true)

	// no files are created
	entries, err := os.ReadDir(dir)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(entries), 0)
}
