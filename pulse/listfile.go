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
	"encoding/binary"
	"io"
	"math"
	"strings"

	"github.com/jetsetilly/tapemaker/curated"
	"github.com/jetsetilly/tapemaker/timing"
)

// Sentinal error patterns.
const (
	ListError    = "pulse list: %v"
	UnknownUnits = "pulse list: unknown units (%s)"
	Truncated    = "pulse list: truncated entry at offset %d"
)

// Units of the durations in a pulse list file.
type Units int

// List of valid Units values.
const (
	// microseconds are the units of the reference fixtures. each pulse is
	// converted individually, truncating any fractional microsecond
	Micros Units = iota

	// ticks are exact
	TickUnits
)

func (u Units) String() string {
	switch u {
	case Micros:
		return "micros"
	case TickUnits:
		return "ticks"
	}
	return "unknown"
}

// ParseUnits converts the result of Units.String() back to Units.
func ParseUnits(s string) (Units, error) {
	switch strings.ToLower(s) {
	case "micros", "us":
		return Micros, nil
	case "ticks":
		return TickUnits, nil
	}
	return 0, curated.Errorf(UnknownUnits, s)
}

// ListWriter is a Sink that writes each pulse duration as a little-endian
// uint32. The polarity is not written. It is implied by the alternation of
// the pulses.
type ListWriter struct {
	w     io.Writer
	units Units
	buf   [4]byte

	// number of pulses written
	Count int
}

// NewListWriter is the preferred method of initialisation for the ListWriter
// type. The io.Writer should be buffered.
func NewListWriter(w io.Writer, units Units) *ListWriter {
	return &ListWriter{
		w:     w,
		units: units,
	}
}

// Pulse implements the Sink interface.
func (lw *ListWriter) Pulse(p Pulse) error {
	v := uint64(p.Duration)
	if lw.units == Micros {
		v = timing.TicksToMicros(p.Duration)
	}

	if v > math.MaxUint32 {
		return curated.Errorf(RangeViolation, "pulse duration", v, 32)
	}

	binary.LittleEndian.PutUint32(lw.buf[:], uint32(v))
	if _, err := lw.w.Write(lw.buf[:]); err != nil {
		return curated.Errorf(ListError, err)
	}
	lw.Count++

	return nil
}

// ReadList reads the durations from a pulse list file. The values are in
// whatever units the file was written in.
func ReadList(r io.Reader) ([]uint32, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, curated.Errorf(ListError, err)
	}

	if len(data)%4 != 0 {
		return nil, curated.Errorf(Truncated, len(data)-len(data)%4)
	}

	d := make([]uint32, 0, len(data)/4)
	for i := 0; i < len(data); i += 4 {
		d = append(d, binary.LittleEndian.Uint32(data[i:]))
	}

	return d, nil
}
