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

// Package pulse converts a list of chunks into the square wave that a tape
// recorder plays back to the machine. The square wave is expressed as a list
// of pulses, each pulse being a polarity and a duration in ticks. The polarity
// toggles after every pulse.
//
// Each chunk is encoded as:
//
//	pilot tone      header or data count of pilot pulses
//	sync            two pulses of different lengths
//	bytes           flag, payload and checksum, msb first, two pulses per bit
//	silence         one or two pulses
//
// The trailing silence is a single pulse if the polarity is low once the
// checksum has been encoded. Otherwise it is two pulses: a short leveling
// pulse followed by the remainder of the silence. Either way, the silence of
// every chunk other than the last is extended by one pilot pulse and the
// pilot tone that follows has one pulse fewer, starting with the polarity
// flipped. This is the only place in the pulse list where two consecutive
// pulses have the same polarity.
//
// Pulses are pushed to any number of Sink implementations as they are
// produced. The full pulse list never needs to exist in memory unless a List
// sink is used.
//
// The Encoder is stateless. The working state of an encoding pass is
// contained in the State type, which is created fresh for every call to
// Encode().
package pulse
