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

// Package render converts pulses into PCM samples. The Renderer type is a
// pulse.Sink and so can be attached directly to the pulse.Encoder.
//
// The number of frames for a pulse is not calculated from the duration of the
// pulse alone. Instead, the running total of ticks is converted to a frame
// count and the pulse occupies the difference between that count and the
// count at the end of the previous pulse. The total number of frames is
// therefore always:
//
//	floor(TicksToMicros(total ticks) * sample rate / 1000000)
//
// however the signal is divided into pulses.
//
// The sample value for a pulse depends only on its polarity. The default
// Amplitudes are given in 8 bit units and are scaled by 256 for every extra
// byte of bit depth. An amplitude that does not fit in the bit depth is a
// quantization overflow and is handled according to the OverflowPolicy.
package render
