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

package fixture

import (
	"io"

	"github.com/jetsetilly/tapemaker/chunk"
	"github.com/jetsetilly/tapemaker/curated"
	"github.com/jetsetilly/tapemaker/digest"
	"github.com/jetsetilly/tapemaker/logger"
	"github.com/jetsetilly/tapemaker/pulse"
	"github.com/jetsetilly/tapemaker/render"
	"github.com/jetsetilly/tapemaker/tapfile"
	"github.com/jetsetilly/tapemaker/timing"
)

// tag string used in calls to Log().
const logTag = "fixture"

// Sentinal error patterns.
const (
	FixtureError = "fixture: %v"
)

// Rendering requests an audio rendering of the tape.
type Rendering struct {
	Format     render.Format
	Amplitudes render.Amplitudes
	Policy     render.OverflowPolicy
}

// Options select the stages of a call to Generate(). The zero value selects
// nothing except the timeline summary.
type Options struct {
	// the chunks in block container format
	Tap io.Writer

	// the pulse list in the specified units
	Pulses io.Writer
	Units  pulse.Units

	// audio renderings. one renderer is created for each entry
	Renderings []Rendering

	// digest of the pulse list and of every rendering
	Digest bool

	// additional sinks that receive every pulse
	Sinks []pulse.Sink

	// permission for the per-chunk encoder log
	Log logger.Permission
}

// Result of a call to Generate().
type Result struct {
	// final state of the encoding pass
	State pulse.State

	// position of every chunk in the pulse list
	Spans []pulse.Span

	// renderers in the same order as Options.Renderings
	Renderers []*render.Renderer

	// empty if Options.Digest is false
	PulseDigest  string
	AudioDigests []string
}

// Generate encodes the chunks in a single pass, feeding every stage selected
// by the Options.
func Generate(chunks []chunk.Chunk, params timing.Params, opts Options) (*Result, error) {
	enc, err := pulse.NewEncoder(params)
	if err != nil {
		return nil, curated.Errorf(FixtureError, err)
	}
	if opts.Log != nil {
		enc.Log = opts.Log
	}

	res := &Result{}

	summary := &pulse.Summary{}
	sinks := []pulse.Sink{summary}

	var lw *pulse.ListWriter
	if opts.Pulses != nil {
		lw = pulse.NewListWriter(opts.Pulses, opts.Units)
		sinks = append(sinks, lw)
	}

	for _, rq := range opts.Renderings {
		r, err := render.NewRenderer(rq.Format, rq.Amplitudes, rq.Policy)
		if err != nil {
			return nil, curated.Errorf(FixtureError, err)
		}
		res.Renderers = append(res.Renderers, r)
		sinks = append(sinks, r)
	}

	var pd *digest.Pulses
	if opts.Digest {
		pd = digest.NewPulses()
		sinks = append(sinks, pd)
	}

	sinks = append(sinks, opts.Sinks...)

	res.State, err = enc.Encode(chunks, sinks...)
	if err != nil {
		return nil, curated.Errorf(FixtureError, err)
	}
	res.Spans = summary.Spans

	if opts.Tap != nil {
		if err := tapfile.Write(opts.Tap, chunks); err != nil {
			return nil, curated.Errorf(FixtureError, err)
		}
	}

	if opts.Digest {
		res.PulseDigest = pd.Hash()
		for _, r := range res.Renderers {
			ad := digest.NewAudio()
			ad.AddRendering(r)
			res.AudioDigests = append(res.AudioDigests, ad.Hash())
		}
	}

	if lw != nil {
		logger.Logf(logger.Allow, logTag, "%d pulses written in %s", lw.Count, opts.Units)
	}

	return res, nil
}

// Log writes a summary of the result to the central logger.
func (res *Result) Log(perm logger.Permission) {
	for _, s := range res.Spans {
		logger.Log(perm, logTag, s)
	}
	logger.Logf(perm, logTag, "%d pulses, %s", res.State.Pulses, res.State.Ticks)

	for i, r := range res.Renderers {
		logger.Log(perm, logTag, r)
		if i < len(res.AudioDigests) {
			logger.Logf(perm, logTag, "audio digest: %s", res.AudioDigests[i])
		}
	}

	if res.PulseDigest != "" {
		logger.Logf(perm, logTag, "pulse digest: %s", res.PulseDigest)
	}
}
