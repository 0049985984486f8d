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

package pulse

import (
	"github.com/jetsetilly/tapemaker/chunk"
	"github.com/jetsetilly/tapemaker/curated"
	"github.com/jetsetilly/tapemaker/logger"
	"github.com/jetsetilly/tapemaker/timing"
)

// tag string used in calls to Log().
const logTag = "encoder"

// Sentinal error patterns.
const (
	RangeViolation = "range violation: %s (%d) does not fit in %d bits"
	EncoderError   = "encoder: chunk %d: %v"
)

// State is the working state of a single encoding pass.
type State struct {
	// the polarity of the next pulse
	Polarity Polarity

	// whether a pilot tone has been encoded during this pass
	Piloted bool

	// total duration and number of pulses encoded so far
	Ticks  timing.Ticks
	Pulses int
}

// Encoder converts chunks to pulses.
type Encoder struct {
	params timing.Params

	// permission for the per-chunk log entries. defaults to logger.Deny
	Log logger.Permission
}

// NewEncoder is the preferred method of initialisation for the Encoder type.
func NewEncoder(params timing.Params) (*Encoder, error) {
	if err := params.Validate(); err != nil {
		return nil, curated.Errorf("encoder: %v", err)
	}
	return &Encoder{
		params: params,
		Log:    logger.Deny,
	}, nil
}

// Params returns the timing parameters used by the encoder.
func (enc *Encoder) Params() timing.Params {
	return enc.params
}

// Encode performs a complete encoding pass over the chunks. Every pulse is
// sent to every sink in turn. The final State of the pass is returned.
//
// An empty list of chunks is valid and produces no pulses.
func (enc *Encoder) Encode(chunks []chunk.Chunk, sinks ...Sink) (State, error) {
	var st State
	for i, c := range chunks {
		if err := enc.EncodeChunk(&st, i, c, i == len(chunks)-1, sinks...); err != nil {
			return st, err
		}
	}
	return st, nil
}

// EncodeChunk encodes a single chunk, updating the State. Chunks must be
// given in order and last must be true only for the final chunk of the tape.
//
// Encode() should be preferred. EncodeChunk() is useful when chunks are
// produced one at a time. The zero value of State is the correct state for
// the first chunk and a State must never be reused for another tape.
func (enc *Encoder) EncodeChunk(st *State, index int, c chunk.Chunk, last bool, sinks ...Sink) error {
	start := *st

	for _, s := range sinks {
		if m, ok := s.(Marker); ok {
			if err := m.BeginChunk(index, *st); err != nil {
				return curated.Errorf(EncoderError, index, err)
			}
		}
	}

	push := func(d timing.Ticks) error {
		if d > timing.MaxPulse {
			return curated.Errorf(RangeViolation, "pulse duration", uint64(d), 32)
		}
		p := Pulse{Polarity: st.Polarity, Duration: d}
		for _, s := range sinks {
			if err := s.Pulse(p); err != nil {
				return err
			}
		}
		st.Polarity = st.Polarity.Toggle()
		st.Ticks += d
		st.Pulses++
		return nil
	}

	err := enc.pilot(st, c.Class, push)
	if err == nil {
		err = enc.sync(push)
	}
	if err == nil {
		err = enc.value(uint8(c.Class), push)
	}
	for i := 0; err == nil && i < len(c.Data); i++ {
		err = enc.value(c.Data[i], push)
	}
	if err == nil {
		err = enc.value(c.Checksum, push)
	}
	if err == nil {
		err = enc.silence(st, last, push)
	}
	if err != nil {
		return curated.Errorf(EncoderError, index, err)
	}

	for _, s := range sinks {
		if m, ok := s.(Marker); ok {
			if err := m.EndChunk(index, *st); err != nil {
				return curated.Errorf(EncoderError, index, err)
			}
		}
	}

	logger.Logf(enc.Log, logTag, "%d: %s: %d pulses, %s", index, c, st.Pulses-start.Pulses, st.Ticks-start.Ticks)

	return nil
}

func (enc *Encoder) pilot(st *State, class chunk.Class, push func(timing.Ticks) error) error {
	n := enc.params.PilotDataPulses
	if class.IsHeader() {
		n = enc.params.PilotHeaderPulses
	}

	// the previous chunk's silence was extended by one pilot pulse. the
	// pilot tone is shortened to compensate and restarts from the opposite
	// polarity
	if st.Piloted || !enc.params.FirstPilotLeadingPulse {
		n--
		st.Polarity = st.Polarity.Toggle()
	}
	st.Piloted = true

	for i := 0; i < n; i++ {
		if err := push(enc.params.PilotPulse); err != nil {
			return err
		}
	}

	return nil
}

func (enc *Encoder) sync(push func(timing.Ticks) error) error {
	if err := push(enc.params.SyncFirst); err != nil {
		return err
	}
	return push(enc.params.SyncSecond)
}

// value encodes a byte most significant bit first. each bit is two pulses of
// equal length.
func (enc *Encoder) value(v uint8, push func(timing.Ticks) error) error {
	for mask := uint8(0x80); mask != 0; mask >>= 1 {
		d := enc.params.BitZero
		if v&mask != 0 {
			d = enc.params.BitOne
		}
		if err := push(d); err != nil {
			return err
		}
		if err := push(d); err != nil {
			return err
		}
	}
	return nil
}

func (enc *Encoder) silence(st *State, last bool, push func(timing.Ticks) error) error {
	var extend timing.Ticks
	if !last {
		extend = enc.params.PilotPulse
	}

	if st.Polarity == High {
		if err := push(enc.params.SilenceFirst); err != nil {
			return err
		}
		return push(enc.params.SilenceSecond + extend)
	}

	return push(enc.params.SilenceFirst + enc.params.SilenceSecond + extend)
}
