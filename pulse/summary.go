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

// Span describes where a chunk lies in the pulse list.
type Span struct {
	Index int

	// index of the first pulse and the number of pulses
	FirstPulse int
	Pulses     int

	// start and end of the chunk in ticks. End is exclusive
	Start timing.Ticks
	End   timing.Ticks
}

func (s Span) String() string {
	return fmt.Sprintf("chunk %d: pulses %d-%d, %dus-%dus", s.Index, s.FirstPulse, s.FirstPulse+s.Pulses-1,
		timing.TicksToMicros(s.Start), timing.TicksToMicros(s.End))
}

// Summary is a Sink that records the Span of every chunk. It ignores the
// pulses themselves.
type Summary struct {
	Spans []Span
}

// Pulse implements the Sink interface.
func (sum *Summary) Pulse(_ Pulse) error {
	return nil
}

// BeginChunk implements the Marker interface.
func (sum *Summary) BeginChunk(index int, st State) error {
	sum.Spans = append(sum.Spans, Span{
		Index:      index,
		FirstPulse: st.Pulses,
		Start:      st.Ticks,
	})
	return nil
}

// EndChunk implements the Marker interface.
func (sum *Summary) EndChunk(index int, st State) error {
	s := &sum.Spans[len(sum.Spans)-1]
	s.Pulses = st.Pulses - s.FirstPulse
	s.End = st.Ticks
	return nil
}
