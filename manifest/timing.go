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

package manifest

import "github.com/jetsetilly/tapemaker/timing"

// Timing lists changes to the default timing parameters. A nil field leaves
// the default value in place.
type Timing struct {
	PilotPulse             *timing.Ticks `yaml:"pilot_pulse,omitempty"`
	PilotHeaderPulses      *int          `yaml:"pilot_header_pulses,omitempty"`
	PilotDataPulses        *int          `yaml:"pilot_data_pulses,omitempty"`
	SyncFirst              *timing.Ticks `yaml:"sync_first,omitempty"`
	SyncSecond             *timing.Ticks `yaml:"sync_second,omitempty"`
	BitZero                *timing.Ticks `yaml:"bit_zero,omitempty"`
	BitOne                 *timing.Ticks `yaml:"bit_one,omitempty"`
	SilenceFirst           *timing.Ticks `yaml:"silence_first,omitempty"`
	SilenceSecond          *timing.Ticks `yaml:"silence_second,omitempty"`
	FirstPilotLeadingPulse *bool         `yaml:"first_pilot_leading_pulse,omitempty"`
}

// Apply the changes to a set of parameters.
func (t Timing) Apply(p timing.Params) timing.Params {
	ticks := func(dst *timing.Ticks, src *timing.Ticks) {
		if src != nil {
			*dst = *src
		}
	}
	count := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}

	ticks(&p.PilotPulse, t.PilotPulse)
	count(&p.PilotHeaderPulses, t.PilotHeaderPulses)
	count(&p.PilotDataPulses, t.PilotDataPulses)
	ticks(&p.SyncFirst, t.SyncFirst)
	ticks(&p.SyncSecond, t.SyncSecond)
	ticks(&p.BitZero, t.BitZero)
	ticks(&p.BitOne, t.BitOne)
	ticks(&p.SilenceFirst, t.SilenceFirst)
	ticks(&p.SilenceSecond, t.SilenceSecond)
	if t.FirstPilotLeadingPulse != nil {
		p.FirstPilotLeadingPulse = *t.FirstPilotLeadingPulse
	}

	return p
}
