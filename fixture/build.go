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
	"bytes"
	"os"

	"github.com/jetsetilly/tapemaker/curated"
	"github.com/jetsetilly/tapemaker/logger"
	"github.com/jetsetilly/tapemaker/manifest"
	"github.com/jetsetilly/tapemaker/wavwriter"
)

// Build generates every output named in the manifest. Files are only created
// once the encoding pass has completed without error.
func Build(m *manifest.Manifest, opts Options) (*Result, error) {
	chunks, err := m.Chunks()
	if err != nil {
		return nil, curated.Errorf(FixtureError, err)
	}

	params, err := m.Params()
	if err != nil {
		return nil, curated.Errorf(FixtureError, err)
	}

	var tap, pulses bytes.Buffer

	if m.Outputs.Tap != "" {
		opts.Tap = &tap
	}

	if m.Outputs.Pulses != "" {
		opts.Pulses = &pulses
		opts.Units, err = m.Units()
		if err != nil {
			return nil, curated.Errorf(FixtureError, err)
		}
	}

	// renderings requested by the caller come before the manifest renderings
	first := len(opts.Renderings)
	for _, w := range m.Outputs.Wav {
		pol, err := w.Policy()
		if err != nil {
			return nil, curated.Errorf(FixtureError, err)
		}
		opts.Renderings = append(opts.Renderings, Rendering{
			Format:     w.RenderFormat(),
			Amplitudes: m.AudioAmplitudes(),
			Policy:     pol,
		})
	}

	res, err := Generate(chunks, params, opts)
	if err != nil {
		return nil, err
	}

	if m.Outputs.Tap != "" {
		if err := writeFile(m.Path(m.Outputs.Tap), tap.Bytes()); err != nil {
			return nil, err
		}
	}

	if m.Outputs.Pulses != "" {
		if err := writeFile(m.Path(m.Outputs.Pulses), pulses.Bytes()); err != nil {
			return nil, err
		}
	}

	for i, w := range m.Outputs.Wav {
		if err := wavwriter.Write(m.Path(w.File), res.Renderers[first+i]); err != nil {
			return nil, curated.Errorf(FixtureError, err)
		}
	}

	return res, nil
}

func writeFile(filename string, data []byte) error {
	logger.Logf(logger.Allow, logTag, "writing %d bytes to %s", len(data), filename)
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return curated.Errorf(FixtureError, err)
	}
	return nil
}
