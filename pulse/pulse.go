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
	"fmt"

	"github.com/jetsetilly/tapemaker/timing"
)

// Polarity is the logical level of the square wave for the duration of a
// pulse.
type Polarity bool

// List of valid Polarity values.
const (
	Low  Polarity = false
	High Polarity = true
)

func (p Polarity) String() string {
	if p == High {
		return "high"
	}
	return "low"
}

// Toggle returns the opposite polarity.
func (p Polarity) Toggle() Polarity {
	return !p
}

// Pulse is the atomic unit of the tape signal.
type Pulse struct {
	Polarity Polarity
	Duration timing.Ticks
}

func (p Pulse) String() string {
	return fmt.Sprintf("%s %d", p.Polarity, uint64(p.Duration))
}

// Sink implementations receive pulses from the Encoder as soon as they are
// produced. An error returned by a sink stops the encoding pass.
type Sink interface {
	Pulse(p Pulse) error
}

// Marker is an optional interface for a Sink. Implementations are told when
// the encoding of a chunk begins and ends.
type Marker interface {
	BeginChunk(index int, st State) error
	EndChunk(index int, st State) error
}

// SinkFunc allows a function to be used as a Sink.
type SinkFunc func(p Pulse) error

// Pulse implements the Sink interface.
func (f SinkFunc) Pulse(p Pulse) error {
	return f(p)
}

// List is a Sink that collects every pulse.
type List []Pulse

// Pulse implements the Sink interface.
func (l *List) Pulse(p Pulse) error {
	*l = append(*l, p)
	return nil
}

// Ticks returns the sum of the duration of every pulse in the list.
func (l List) Ticks() timing.Ticks {
	var t timing.Ticks
	for _, p := range l {
		t += p.Duration
	}
	return t
}

// Replay sends every pulse in the list to the sinks, in order. Markers are
// not called because the list has no knowledge of chunk boundaries.
func (l List) Replay(sinks ...Sink) error {
	for _, p := range l {
		for _, s := range sinks {
			if err := s.Pulse(p); err != nil {
				return err
			}
		}
	}
	return nil
}
