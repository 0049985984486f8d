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

// Package wavwriter writes rendered tape audio as a RIFF/WAVE file. The
// samples are buffered in memory in their entirety by the render.Renderer and
// written in one go.
//
// Encode() requires an io.WriteSeeker because the sizes in the header are
// written once the sample data is complete. Stream() writes to any io.Writer
// by calculating the sizes in advance, but is limited to two channels.
//
// Eight bit samples are written as the signed values produced by the renderer,
// reinterpreted as bytes. This differs from the usual convention of unsigned
// eight bit WAV data but is what the tape loaders under test expect.
package wavwriter

import (
	"io"
	"math"
	"os"

	gawav "github.com/go-audio/wav"
	"github.com/jetsetilly/tapemaker/curated"
	"github.com/jetsetilly/tapemaker/logger"
	"github.com/jetsetilly/tapemaker/render"
	"github.com/youpy/go-wav"
)

// tag string used in calls to Log().
const logTag = "wavwriter"

// Sentinal error patterns.
const (
	WavWriterError  = "wavwriter: %v"
	TooManyChannels = "wavwriter: streaming supports at most %d channels (%d)"
	RangeViolation  = "wavwriter: %s (%d) does not fit in %d bits"
)

// the audio format value for uncompressed PCM
const pcmFormat = 1

// maximum number of channels supported by Stream()
const streamChannels = 2

// the size of the header fields that follow the RIFF chunk size, counted
// as part of that size
const riffOverhead = 36

// checkHeader makes sure that every field of the header can hold the value
// for the format and the size of the sample data.
func checkHeader(f render.Format, dataSize int) error {
	blockAlign := uint64(f.Channels) * uint64(f.BytesPerSample())
	fields := []struct {
		name  string
		value uint64
		bits  int
		max   uint64
	}{
		{"channels", uint64(f.Channels), 16, math.MaxUint16},
		{"sample rate", uint64(f.SampleRate), 32, math.MaxUint32},
		{"block align", blockAlign, 16, math.MaxUint16},
		{"byte rate", uint64(f.SampleRate) * blockAlign, 32, math.MaxUint32},
		{"riff size", uint64(dataSize) + riffOverhead, 32, math.MaxUint32},
	}
	for _, fld := range fields {
		if fld.value > fld.max {
			return curated.Errorf(RangeViolation, fld.name, fld.value, fld.bits)
		}
	}
	return nil
}

// Encode writes the rendered samples as a WAV file.
func Encode(w io.WriteSeeker, r *render.Renderer) error {
	f := r.Format()
	if err := checkHeader(f, r.ByteSize()); err != nil {
		return err
	}

	enc := gawav.NewEncoder(w, f.SampleRate, f.BitDepth, f.Channels, pcmFormat)

	// the header is written on the first call to Write() and so an empty
	// buffer still produces a valid file
	if err := enc.Write(r.Buffer()); err != nil {
		return curated.Errorf(WavWriterError, err)
	}
	if err := enc.Close(); err != nil {
		return curated.Errorf(WavWriterError, err)
	}

	return nil
}

// Stream writes the rendered samples as a WAV file to a writer that does not
// support seeking.
func Stream(w io.Writer, r *render.Renderer) error {
	f := r.Format()
	if f.Channels > streamChannels {
		return curated.Errorf(TooManyChannels, streamChannels, f.Channels)
	}
	if err := checkHeader(f, r.ByteSize()); err != nil {
		return err
	}

	samples := make([]wav.Sample, r.Frames())
	data := r.Buffer().Data
	for i := range samples {
		for c := 0; c < f.Channels; c++ {
			samples[i].Values[c] = data[i*f.Channels+c]
		}
	}

	enc := wav.NewWriter(w, uint32(len(samples)), uint16(f.Channels), uint32(f.SampleRate), uint16(f.BitDepth))
	if err := enc.WriteSamples(samples); err != nil {
		return curated.Errorf(WavWriterError, err)
	}

	return nil
}

// Write creates the named file and writes the rendered samples to it.
func Write(filename string, r *render.Renderer) (rerr error) {
	// no file is created for a rendering that can't be written
	if err := checkHeader(r.Format(), r.ByteSize()); err != nil {
		return err
	}

	f, err := os.Create(filename)
	if err != nil {
		return curated.Errorf(WavWriterError, err)
	}
	defer func() {
		err := f.Close()
		if err != nil && rerr == nil {
			rerr = curated.Errorf(WavWriterError, err)
		}
	}()

	logger.Logf(logger.Allow, logTag, "writing %s to %s", r, filename)

	return Encode(f, r)
}
