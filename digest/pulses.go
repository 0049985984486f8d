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

package digest

import (
	"encoding/binary"

	"github.com/jetsetilly/tapemaker/pulse"
)

// Pulses is a pulse.Sink that produces a digest of the pulse list. Both the
// polarity and the duration in ticks of every pulse contribute to the digest.
type Pulses struct {
	chain
	enc [9]byte
}

// NewPulses is the preferred method of initialisation for the Pulses type.
func NewPulses() *Pulses {
	return &Pulses{chain: newChain()}
}

func (dig *Pulses) String() string {
	return dig.Hash()
}

// Hash implements the digest.Digest interface.
func (dig *Pulses) Hash() string {
	return dig.hash()
}

// ResetDigest implements the digest.Digest interface.
func (dig *Pulses) ResetDigest() {
	dig.reset()
}

// Pulse implements the pulse.Sink interface.
func (dig *Pulses) Pulse(p pulse.Pulse) error {
	dig.enc[0] = 0
	if p.Polarity == pulse.High {
		dig.enc[0] = 1
	}
	binary.LittleEndian.PutUint64(dig.enc[1:], uint64(p.Duration))
	dig.add(dig.enc[:]...)
	return nil
}
