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

package pulse_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jetsetilly/tapemaker/chunk"
	"github.com/jetsetilly/tapemaker/curated"
	"github.com/jetsetilly/tapemaker/pulse"
	"github.com/jetsetilly/tapemaker/test"
	"github.com/jetsetilly/tapemaker/timing"
)

func reference(t *testing.T) []chunk.Chunk {
	t.Helper()

	h1, d1, err := chunk.Content(chunk.Program, "A", 0, []byte("a"))
	test.DemandSuccess(t, err)
	h2, d2, err := chunk.Content(chunk.Bytes, "B", chunk.NoAutostart, []byte("b"))
	test.DemandSuccess(t, err)

	return []chunk.Chunk{h1, d1, h2, d2}
}

func encode(t *testing.T, params timing.Params, chunks []chunk.Chunk) (pulse.List, pulse.Summary, pulse.State) {
	t.Helper()

	enc, err := pulse.NewEncoder(params)
	test.DemandSuccess(t, err)

	var l pulse.List
	var sum pulse.Summary
	st, err := enc.Encode(chunks, &l, &sum)
	test.DemandSuccess(t, err)

	return l, sum, st
}

func TestPulseCounts(t *testing.T) {
	l, sum, st := encode(t, timing.DefaultParams(), reference(t))

	test.DemandEquality(t, len(sum.Spans), 4)

	// header with full pilot tone ending high. two silence pulses
	test.ExpectEquality(t, sum.Spans[0].Pulses, 8063+2+16*19+2)

	// later chunks have one pilot pulse fewer and end low. one silence pulse
	test.ExpectEquality(t, sum.Spans[1].Pulses, 3222+2+16*3+1)
	test.ExpectEquality(t, sum.Spans[2].Pulses, 8062+2+16*19+1)
	test.ExpectEquality(t, sum.Spans[3].Pulses, 3222+2+16*3+1)

	total := 0
	for i, s := range sum.Spans {
		test.ExpectEquality(t, s.Index, i)
		test.ExpectEquality(t, s.FirstPulse, total)
		total += s.Pulses
	}
	test.ExpectEquality(t, total, len(l))
	test.ExpectEquality(t, st.Pulses, len(l))
	test.ExpectEquality(t, st.Ticks, l.Ticks())
	test.ExpectEquality(t, sum.Spans[3].End, st.Ticks)
}

func TestChunkDuration(t *testing.T) {
	_, sum, _ := encode(t, timing.DefaultParams(), reference(t))

	// the data block of the first file. 0xff, 'a' and the checksum have
	// sixteen one bits and eight zero bits between them
	var expected timing.Ticks
	expected += 3222 * 2168
	expected += 667 + 735
	expected += 16*2*1710 + 8*2*855
	expected += 3584 + 3580416 + 2168

	s := sum.Spans[1]
	test.ExpectEquality(t, s.End-s.Start, expected)
	test.ExpectEquality(t, sum.Spans[2].Start, s.End)
}

func TestAlternation(t *testing.T) {
	l, sum, _ := encode(t, timing.DefaultParams(), reference(t))

	test.ExpectEquality(t, l[0].Polarity, pulse.Low)

	resets := make(map[int]bool)
	for _, s := range sum.Spans[1:] {
		resets[s.FirstPulse] = true
	}

	for i := 1; i < len(l); i++ {
		same := l[i].Polarity == l[i-1].Polarity
		if same != resets[i] {
			t.Fatalf("unexpected polarity at pulse %d: %s followed by %s", i, l[i-1].Polarity, l[i].Polarity)
		}
	}
}

func TestSilence(t *testing.T) {
	l, sum, _ := encode(t, timing.DefaultParams(), reference(t))

	// first chunk ends high so the silence is split and extended
	end := sum.Spans[0].FirstPulse + sum.Spans[0].Pulses
	test.ExpectEquality(t, l[end-2], pulse.Pulse{Polarity: pulse.High, Duration: 3584})
	test.ExpectEquality(t, l[end-1], pulse.Pulse{Polarity: pulse.Low, Duration: 3580416 + 2168})

	// second chunk ends low and the silence is a single extended pulse
	end = sum.Spans[1].FirstPulse + sum.Spans[1].Pulses
	test.ExpectEquality(t, l[end-1], pulse.Pulse{Polarity: pulse.Low, Duration: 3584 + 3580416 + 2168})

	// final chunk is not extended
	test.ExpectEquality(t, l[len(l)-1], pulse.Pulse{Polarity: pulse.Low, Duration: 3584 + 3580416})
}

func TestIdempotence(t *testing.T) {
	enc, err := pulse.NewEncoder(timing.DefaultParams())
	test.DemandSuccess(t, err)

	var a, b pulse.List
	_, err = enc.Encode(reference(t), &a)
	test.DemandSuccess(t, err)
	_, err = enc.Encode(reference(t), &b)
	test.DemandSuccess(t, err)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("second pass differs (-first +second):\n%s", diff)
	}
}

func TestEmpty(t *testing.T) {
	l, sum, st := encode(t, timing.DefaultParams(), nil)
	test.ExpectEquality(t, len(l), 0)
	test.ExpectEquality(t, len(sum.Spans), 0)
	test.ExpectEquality(t, st, pulse.State{})
}

func TestZeroPayload(t *testing.T) {
	l, _, st := encode(t, timing.DefaultParams(), []chunk.Chunk{chunk.New(chunk.Data, nil)})

	// flag and checksum only. a single chunk is both first and last
	test.ExpectEquality(t, len(l), 3223+2+32+2)
	test.ExpectEquality(t, l[len(l)-2], pulse.Pulse{Polarity: pulse.High, Duration: 3584})
	test.ExpectEquality(t, l[len(l)-1], pulse.Pulse{Polarity: pulse.Low, Duration: 3580416})
	test.ExpectEquality(t, st.Polarity, pulse.High)
}

func TestNoLeadingPulse(t *testing.T) {
	params := timing.DefaultParams()
	params.FirstPilotLeadingPulse = false

	l, _, _ := encode(t, params, []chunk.Chunk{chunk.New(chunk.Data, nil)})
	test.ExpectEquality(t, len(l), 3222+2+32+2)
	test.ExpectEquality(t, l[0].Polarity, pulse.High)
}

func TestSinkError(t *testing.T) {
	enc, err := pulse.NewEncoder(timing.DefaultParams())
	test.DemandSuccess(t, err)

	stop := errors.New("stop")
	var n int
	f := pulse.SinkFunc(func(p pulse.Pulse) error {
		n++
		if n == 100 {
			return stop
		}
		return nil
	})

	st, err := enc.Encode(reference(t), f)
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, curated.Is(err, pulse.EncoderError), true)
	test.ExpectEquality(t, errors.Is(err, stop), true)
	test.ExpectEquality(t, st.Pulses, 99)
}

func TestInvalidParams(t *testing.T) {
	params := timing.DefaultParams()
	params.SilenceSecond = timing.MaxPulse
	_, err := pulse.NewEncoder(params)
	test.ExpectFailure(t, err)

	params = timing.DefaultParams()
	params.BitOne = 0
	_, err = pulse.NewEncoder(params)
	test.ExpectFailure(t, err)
}

func TestReplay(t *testing.T) {
	l, _, _ := encode(t, timing.DefaultParams(), reference(t))

	var r pulse.List
	test.DemandSuccess(t, l.Replay(&r))
	if diff := cmp.Diff(l, r); diff != "" {
		t.Errorf("replay differs (-encoded +replay):\n%s", diff)
	}
}

func TestListWriter(t *testing.T) {
	l, _, _ := encode(t, timing.DefaultParams(), reference(t))

	var b bytes.Buffer
	lw := pulse.NewListWriter(&b, pulse.Micros)
	test.DemandSuccess(t, l.Replay(lw))
	test.ExpectEquality(t, lw.Count, len(l))
	test.ExpectEquality(t, b.Len(), len(l)*4)

	d, err := pulse.ReadList(&b)
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(d), len(l))
	test.ExpectEquality(t, d[0], 604)
	test.ExpectEquality(t, d[len(d)-1], 1000000)

	b.Reset()
	lw = pulse.NewListWriter(&b, pulse.TickUnits)
	test.DemandSuccess(t, l.Replay(lw))
	d, err = pulse.ReadList(&b)
	test.DemandSuccess(t, err)
	for i := range d {
		if timing.Ticks(d[i]) != l[i].Duration {
			t.Fatalf("pulse %d: %d does not equal %d", i, d[i], l[i].Duration)
		}
	}
}

func TestReadListTruncated(t *testing.T) {
	_, err := pulse.ReadList(bytes.NewReader([]byte{1, 2, 3, 4, 5}))
	test.ExpectEquality(t, curated.Is(err, pulse.Truncated), true)
}

func TestParseUnits(t *testing.T) {
	u, err := pulse.ParseUnits("TICKS")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, u, pulse.TickUnits)

	u, err = pulse.ParseUnits(pulse.Micros.String())
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, u, pulse.Micros)

	_, err = pulse.ParseUnits("samples")
	test.ExpectEquality(t, curated.Is(err, pulse.UnknownUnits), true)
}
