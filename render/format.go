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

package render

import (
	"fmt"
	"strings"

	"github.com/go-audio/audio"
	"github.com/jetsetilly/tapemaker/curated"
)

// Format describes the shape of the rendered PCM data.
type Format struct {
	Channels   int `yaml:"channels"`
	BitDepth   int `yaml:"bits"`
	SampleRate int `yaml:"rate"`
}

// DefaultFormat is mono, 8 bit at 44.1kHz.
func DefaultFormat() Format {
	return Format{
		Channels:   1,
		BitDepth:   8,
		SampleRate: 44100,
	}
}

func (f Format) String() string {
	return fmt.Sprintf("%dHz %dbit %dch", f.SampleRate, f.BitDepth, f.Channels)
}

// Validate checks that the format can be rendered.
func (f Format) Validate() error {
	switch f.BitDepth {
	case 8, 16, 24, 32:
	default:
		return curated.Errorf(UnsupportedFormat, fmt.Sprintf("bit depth of %d", f.BitDepth))
	}
	if f.Channels < 1 || f.Channels > MaxChannels {
		return curated.Errorf(UnsupportedFormat, fmt.Sprintf("%d channels", f.Channels))
	}
	if f.SampleRate < 1 || f.SampleRate > MaxSampleRate {
		return curated.Errorf(UnsupportedFormat, fmt.Sprintf("sample rate of %d", f.SampleRate))
	}
	return nil
}

// BytesPerSample is the width of a single sample of a single channel.
func (f Format) BytesPerSample() int {
	return f.BitDepth / 8
}

// audioFormat converts to the go-audio format type.
func (f Format) audioFormat() *audio.Format {
	return &audio.Format{
		NumChannels: f.Channels,
		SampleRate:  f.SampleRate,
	}
}

// the signed range of the bit depth
func (f Format) limits() (int64, int64) {
	hi := int64(audio.IntMaxSignedValue(f.BitDepth))
	return -hi - 1, hi
}

// Limits of a Format.
const (
	MaxChannels   = 8
	MaxSampleRate = 192000
)

// Amplitudes are the sample values for each polarity in 8 bit units. The
// values are scaled for deeper bit depths.
type Amplitudes struct {
	High int `yaml:"high"`
	Low  int `yaml:"low"`
}

// DefaultAmplitudes are asymmetric, reproducing the DC bias of the tape output
// of the machine.
func DefaultAmplitudes() Amplitudes {
	return Amplitudes{
		High: 96,
		Low:  -32,
	}
}

// scale the amplitude for the bit depth. each additional byte of depth
// multiplies the amplitude by 256. the amplitude is checked against the limits
// before shifting so that a large amplitude can never wrap into range
func (f Format) scale(amplitude int) (int64, bool) {
	shift := uint(f.BitDepth - 8)
	lo, hi := f.limits()
	a := int64(amplitude)
	if a < lo>>shift || a > hi>>shift {
		return 0, false
	}
	return a << shift, true
}

// OverflowPolicy controls what happens when a scaled amplitude does not fit in
// the bit depth.
type OverflowPolicy int

// List of valid OverflowPolicy values.
const (
	// rendering stops with a QuantizationOverflow error
	OverflowFail OverflowPolicy = iota

	// the sample is clamped to the limit of the bit depth and a warning is
	// logged for every pulse that is affected
	OverflowWarn
)

func (p OverflowPolicy) String() string {
	switch p {
	case OverflowFail:
		return "fail"
	case OverflowWarn:
		return "warn"
	}
	return "unknown"
}

// ParseOverflowPolicy converts the result of OverflowPolicy.String() back to
// an OverflowPolicy.
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch strings.ToLower(s) {
	case "fail":
		return OverflowFail, nil
	case "warn":
		return OverflowWarn, nil
	}
	return 0, curated.Errorf(UnknownPolicy, s)
}
