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

// Package timing defines the time base for the tape signal. All durations are
// measured in Ticks of the 3.5MHz machine clock. A 50Hz frame is exactly
// FrameTicks long and conversion to and from microseconds is a rational
// conversion with truncating integer division. Floating point is never used
// because the reference fixtures must be reproduced byte for byte.
package timing

import "fmt"

// Ticks is a duration measured in machine clock ticks.
type Ticks uint64

// The number of ticks in a frame and the length of a frame in microseconds.
// The clock is not a whole multiple of a microsecond.
const (
	FrameTicks  = 71680
	FrameMicros = 20000
)

// Useful microsecond values.
const (
	MillisMicros = 1000
	SecondMicros = 1000 * MillisMicros
)

// TicksToMicros converts ticks to microseconds, truncating any fractional
// microsecond.
func TicksToMicros(t Ticks) uint64 {
	return uint64(t) * FrameMicros / FrameTicks
}

// MicrosToTicks converts microseconds to ticks, truncating any fractional
// tick.
func MicrosToTicks(micros uint64) Ticks {
	return Ticks(micros * FrameTicks / FrameMicros)
}

// Micros returns the duration in microseconds. See TicksToMicros().
func (t Ticks) Micros() uint64 {
	return TicksToMicros(t)
}

func (t Ticks) String() string {
	return fmt.Sprintf("%d ticks (%dus)", uint64(t), TicksToMicros(t))
}
