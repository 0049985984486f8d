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

// Package manifest describes a tape fixture in a YAML file. A manifest lists
// the entries of the tape, any changes to the default timing and the files to
// produce. For example:
//
//	entries:
//	  - type: program
//	    name: A
//	    param1: 0
//	    content: a
//	  - type: bytes
//	    name: B
//	    param1: 32768
//	    content_hex: "62"
//	  - flag: 255
//	    content_file: extra.bin
//	  - tap: other.tap
//	timing:
//	  pilot_header_pulses: 4000
//	outputs:
//	  tap: tape.tap
//	  pulses: tape.pulses
//	  units: micros
//	  wav:
//	    - file: tape.wav
//	      bits: 16
//	      rate: 48000
//
// An entry is one of three kinds. A file entry has a type and produces a
// header chunk and a data chunk. A raw entry has a flag and produces a single
// chunk with that flag. A tap entry includes every chunk of an existing tap
// file.
//
// File names are relative to the directory of the manifest.
package manifest

import (
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/jetsetilly/tapemaker/chunk"
	"github.com/jetsetilly/tapemaker/curated"
	"github.com/jetsetilly/tapemaker/pulse"
	"github.com/jetsetilly/tapemaker/render"
	"github.com/jetsetilly/tapemaker/tapfile"
	"github.com/jetsetilly/tapemaker/timing"
)

// Sentinal error patterns.
const (
	ManifestError = "manifest: %v"
	InvalidEntry  = "manifest: entry %d: %v"
	InvalidOutput = "manifest: output: %v"
)

// Entry is a single item on the tape.
type Entry struct {
	// file entries
	Type   string `yaml:"type,omitempty"`
	Name   string `yaml:"name,omitempty"`
	Param1 *int   `yaml:"param1,omitempty"`

	// raw entries
	Flag *int `yaml:"flag,omitempty"`

	// content of file and raw entries. at most one of these can be used
	Content     string `yaml:"content,omitempty"`
	ContentHex  string `yaml:"content_hex,omitempty"`
	ContentFile string `yaml:"content_file,omitempty"`

	// tap entries
	Tap string `yaml:"tap,omitempty"`
}

// WavOutput is an audio rendering of the tape. Fields of the format that are
// zero take the value of render.DefaultFormat().
type WavOutput struct {
	File          string `yaml:"file"`
	render.Format `yaml:",inline"`
	Overflow      string `yaml:"overflow,omitempty"`
}

// Outputs lists the files to produce. Empty file names are not produced.
type Outputs struct {
	Tap    string      `yaml:"tap,omitempty"`
	Pulses string      `yaml:"pulses,omitempty"`
	Units  string      `yaml:"units,omitempty"`
	Wav    []WavOutput `yaml:"wav,omitempty"`
}

// Manifest is the full description of a fixture.
type Manifest struct {
	Entries    []Entry            `yaml:"entries"`
	Timing     Timing             `yaml:"timing,omitempty"`
	Amplitudes *render.Amplitudes `yaml:"amplitudes,omitempty"`
	Outputs    Outputs            `yaml:"outputs,omitempty"`

	// directory that relative file names are resolved against
	dir string
}

// Default returns the manifest of the reference fixture: a program and a
// block of code, each with a single byte of content.
func Default() *Manifest {
	zero := 0
	code := chunk.NoAutostart
	return &Manifest{
		Entries: []Entry{
			{Type: "program", Name: "A", Param1: &zero, Content: "a"},
			{Type: "bytes", Name: "B", Param1: &code, Content: "b"},
		},
		Outputs: Outputs{
			Tap:    "tape.tap",
			Pulses: "tape.pulses",
			Units:  pulse.Micros.String(),
		},
		dir: ".",
	}
}

// Load reads and parses the named manifest file.
func Load(filename string) (*Manifest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, curated.Errorf(ManifestError, err)
	}
	return Parse(data, filepath.Dir(filename))
}

// Parse YAML data. Relative file names in the manifest are resolved against
// dir. Unknown fields are an error.
func Parse(data []byte, dir string) (*Manifest, error) {
	m := &Manifest{dir: dir}
	if err := yaml.UnmarshalWithOptions(data, m, yaml.DisallowUnknownField()); err != nil {
		return nil, curated.Errorf(ManifestError, yaml.FormatError(err, false, true))
	}
	if err := m.validateOutputs(); err != nil {
		return nil, err
	}
	return m, nil
}

// Marshal returns the manifest as YAML.
func (m *Manifest) Marshal() ([]byte, error) {
	b, err := yaml.Marshal(m)
	if err != nil {
		return nil, curated.Errorf(ManifestError, err)
	}
	return b, nil
}

// SetDir changes the directory that relative file names are resolved against.
func (m *Manifest) SetDir(dir string) {
	m.dir = dir
}

// Path resolves a file name from the manifest.
func (m *Manifest) Path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(m.dir, name)
}

// Params returns the default timing parameters with the changes from the
// manifest applied.
func (m *Manifest) Params() (timing.Params, error) {
	p := m.Timing.Apply(timing.DefaultParams())
	if err := p.Validate(); err != nil {
		return p, curated.Errorf(ManifestError, err)
	}
	return p, nil
}

// AudioAmplitudes returns the amplitudes from the manifest or the default
// amplitudes if the manifest doesn't specify any.
func (m *Manifest) AudioAmplitudes() render.Amplitudes {
	if m.Amplitudes == nil {
		return render.DefaultAmplitudes()
	}
	return *m.Amplitudes
}

// Units returns the units of the pulse list output.
func (m *Manifest) Units() (pulse.Units, error) {
	if m.Outputs.Units == "" {
		return pulse.Micros, nil
	}
	u, err := pulse.ParseUnits(m.Outputs.Units)
	if err != nil {
		return u, curated.Errorf(InvalidOutput, err)
	}
	return u, nil
}

// RenderFormat returns the format of the rendering with default values for
// unspecified fields.
func (w WavOutput) RenderFormat() render.Format {
	f := w.Format
	def := render.DefaultFormat()
	if f.Channels == 0 {
		f.Channels = def.Channels
	}
	if f.BitDepth == 0 {
		f.BitDepth = def.BitDepth
	}
	if f.SampleRate == 0 {
		f.SampleRate = def.SampleRate
	}
	return f
}

// Policy returns the overflow policy of the rendering.
func (w WavOutput) Policy() (render.OverflowPolicy, error) {
	if w.Overflow == "" {
		return render.OverflowFail, nil
	}
	return render.ParseOverflowPolicy(w.Overflow)
}

func (m *Manifest) validateOutputs() error {
	if _, err := m.Units(); err != nil {
		return err
	}
	for _, w := range m.Outputs.Wav {
		if w.File == "" {
			return curated.Errorf(InvalidOutput, "wav output has no file name")
		}
		if err := w.RenderFormat().Validate(); err != nil {
			return curated.Errorf(InvalidOutput, err)
		}
		if _, err := w.Policy(); err != nil {
			return curated.Errorf(InvalidOutput, err)
		}
	}
	return nil
}

// Chunks builds the list of chunks described by the entries.
func (m *Manifest) Chunks() ([]chunk.Chunk, error) {
	var chunks []chunk.Chunk

	for i, e := range m.Entries {
		c, err := m.entryChunks(e)
		if err != nil {
			return nil, curated.Errorf(InvalidEntry, i, err)
		}
		chunks = append(chunks, c...)
	}

	return chunks, nil
}

func (m *Manifest) entryChunks(e Entry) ([]chunk.Chunk, error) {
	kinds := 0
	if e.Type != "" {
		kinds++
	}
	if e.Flag != nil {
		kinds++
	}
	if e.Tap != "" {
		kinds++
	}
	if kinds != 1 {
		return nil, curated.Errorf("entry must have exactly one of type, flag or tap")
	}

	if e.Tap != "" {
		if e.Name != "" || e.Param1 != nil || e.Content != "" || e.ContentHex != "" || e.ContentFile != "" {
			return nil, curated.Errorf("tap entry cannot have other fields")
		}
		f, err := os.Open(m.Path(e.Tap))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return tapfile.Read(f, true)
	}

	content, err := m.content(e)
	if err != nil {
		return nil, err
	}

	if e.Flag != nil {
		if e.Name != "" || e.Param1 != nil {
			return nil, curated.Errorf("raw entry cannot have a name or param1")
		}
		if *e.Flag < 0 || *e.Flag > 0xff {
			return nil, curated.Errorf(chunk.RangeViolation, "flag", *e.Flag, 8)
		}
		if len(content) > 0xfffd {
			return nil, curated.Errorf(chunk.RangeViolation, "raw chunk length", len(content)+2, 16)
		}
		return []chunk.Chunk{chunk.New(chunk.Class(*e.Flag), content)}, nil
	}

	typ, err := chunk.ParseType(e.Type)
	if err != nil {
		return nil, err
	}

	param1 := chunk.NoAutostart
	if e.Param1 != nil {
		param1 = *e.Param1
	}

	header, data, err := chunk.Content(typ, e.Name, param1, content)
	if err != nil {
		return nil, err
	}

	return []chunk.Chunk{header, data}, nil
}

func (m *Manifest) content(e Entry) ([]byte, error) {
	n := 0
	for _, s := range []string{e.Content, e.ContentHex, e.ContentFile} {
		if s != "" {
			n++
		}
	}
	if n > 1 {
		return nil, curated.Errorf("only one of content, content_hex or content_file can be used")
	}

	switch {
	case e.ContentHex != "":
		return hex.DecodeString(e.ContentHex)
	case e.ContentFile != "":
		return os.ReadFile(m.Path(e.ContentFile))
	}

	return []byte(e.Content), nil
}
