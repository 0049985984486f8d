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

package timing

import (
	"math"

	"github.com/jetsetilly/tapemaker/curated"
)

// Sentinal error patterns.
const (
	RangeViolation = "range violation: %s (%d) does not fit in %d bits"
	InvalidParams  = "timing: invalid parameter: %s"
)

// Params is the set of constants that define the shape of the tape signal.
// Durations are in Ticks, pulse counts are plain integers.
type Params struct {
	PilotPulse        Ticks
	PilotHeaderPulses int
	PilotDataPulses   int
	SyncFirst         Ticks
	SyncSecond        Ticks
	BitZero           Ticks
	BitOne            Ticks
	SilenceFirst      Ticks
	SilenceSecond     Ticks

	// the very first pilot tone of a tape has one more pulse than the pilot
	// tones that follow it. the following pilot tones have one pulse fewer
	// because the trailing silence of the previous block has been extended by
	// one pilot pulse
	FirstPilotLeadingPulse bool
}

// DefaultParams returns the timings used by the ROM loader.
func DefaultParams() Params {
	return Params{
		PilotPulse:             2168,
		PilotHeaderPulses:      8063,
		PilotDataPulses:        3223,
		SyncFirst:              667,
		SyncSecond:             735,
		BitZero:                855,
		BitOne:                 1710,
		SilenceFirst:           MicrosToTicks(MillisMicros),                // 3584
		SilenceSecond:          MicrosToTicks(SecondMicros - MillisMicros), // 3580416
		FirstPilotLeadingPulse: true,
	}
}

// MaxPulse is the largest duration of a single pulse.
const MaxPulse = Ticks(math.MaxUint32)

// LongestPulse returns the longest pulse that the parameters can produce. This
// is always the unsplit trailing silence, extended to prime the next pilot
// tone.
func (p Params) LongestPulse() Ticks {
	return p.SilenceFirst + p.SilenceSecond + p.PilotPulse
}

// Validate checks that the parameters can produce a valid signal.
func (p Params) Validate() error {
	durations := []struct {
		name string
		v    Ticks
	}{
		{"pilot pulse", p.PilotPulse},
		{"first sync pulse", p.SyncFirst},
		{"second sync pulse", p.SyncSecond},
		{"zero bit pulse", p.BitZero},
		{"one bit pulse", p.BitOne},
		{"first silence", p.SilenceFirst},
		{"second silence", p.SilenceSecond},
	}

	for _, d := range durations {
		if d.v == 0 {
			return curated.Errorf(InvalidParams, d.name+" is zero")
		}
		if d.v > MaxPulse {
			return curated.Errorf(RangeViolation, d.name, uint64(d.v), 32)
		}
	}

	// a pilot tone following another block has one pulse fewer so the
	// minimum is two pulses
	if p.PilotHeaderPulses < 2 {
		return curated.Errorf(InvalidParams, "header pilot tone needs at least two pulses")
	}
	if p.PilotDataPulses < 2 {
		return curated.Errorf(InvalidParams, "data pilot tone needs at least two pulses")
	}

	if l := p.LongestPulse(); l > MaxPulse {
		return curated.Errorf(RangeViolation, "silence pulse", uint64(l), 32)
	}

	return nil
}
