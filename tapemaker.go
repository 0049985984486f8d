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

package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jetsetilly/tapemaker/fixture"
	"github.com/jetsetilly/tapemaker/logger"
	"github.com/jetsetilly/tapemaker/manifest"
	"github.com/jetsetilly/tapemaker/modalflag"
	"github.com/jetsetilly/tapemaker/pulse"
	"github.com/jetsetilly/tapemaker/render"
	"github.com/jetsetilly/tapemaker/timing"
	"github.com/jetsetilly/tapemaker/version"
	"github.com/jetsetilly/tapemaker/wavwriter"
)

const logTag = "tapemaker"

const additionalHelp = `The input is a fixture manifest (YAML) or a tap file. Without an input the
reference fixture is used: program "A" with content "a" followed by bytes "B"
with content "b".`

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.NewMode()
	md.AddSubModes("BUILD", "TAP", "PULSES", "WAV", "DIGEST", "VERSION")
	md.AdditionalHelp(additionalHelp)

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		os.Exit(0)

	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		os.Exit(10)
	}

	switch md.Mode() {
	case "BUILD":
		err = build(md)

	case "TAP":
		err = tap(md)

	case "PULSES":
		err = pulses(md)

	case "WAV":
		err = wav(md)

	case "DIGEST":
		err = digest(md)

	case "VERSION":
		err = showVersion(md)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		os.Exit(20)
	}
}

// flags common to all modes that read a fixture
type common struct {
	input *string
	log   *bool
}

func addCommon(md *modalflag.Modes) common {
	return common{
		input: md.AddString("manifest", "", "fixture manifest or tap file"),
		log:   md.AddBool("log", false, "echo log to stderr"),
	}
}

// load the input named by the -manifest flag. the log echo is set as a side
// effect so that the loading of the input is logged
func (c common) load() (*manifest.Manifest, error) {
	if *c.log {
		logger.SetEcho(os.Stderr)
	} else {
		logger.SetEcho(nil)
	}
	logger.Log(logger.Allow, logTag, version.String())

	fn := *c.input
	if fn == "" {
		logger.Log(logger.Allow, logTag, "using reference fixture")
		return manifest.Default(), nil
	}

	// a tap file is included as the only entry of an otherwise empty manifest
	if strings.EqualFold(filepath.Ext(fn), ".tap") {
		m := &manifest.Manifest{
			Entries: []manifest.Entry{{Tap: filepath.Base(fn)}},
		}
		m.SetDir(filepath.Dir(fn))
		logger.Logf(logger.Allow, logTag, "using tap file %s", fn)
		return m, nil
	}

	logger.Logf(logger.Allow, logTag, "using manifest %s", fn)
	return manifest.Load(fn)
}

// the single output argument of the TAP, PULSES and WAV modes
func output(md *modalflag.Modes, ext string) (string, error) {
	switch len(md.RemainingArgs()) {
	case 0:
		return "", fmt.Errorf("output file required for %s mode", md)
	case 1:
		return md.GetArg(0), nil
	}
	return "", fmt.Errorf("too many arguments for %s mode (output should be a %s file)", md, ext)
}

func build(md *modalflag.Modes) error {
	md.NewMode()
	c := addCommon(md)
	showDigest := md.AddBool("digest", false, "print digests of the pulses and of each wav file")

	var extraWav []string
	md.AddFunc("wav", "additional wav file in the default format (can be repeated)", func(s string) error {
		extraWav = append(extraWav, s)
		return nil
	})

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}
	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("unexpected arguments for %s mode: %s", md, strings.Join(md.RemainingArgs(), " "))
	}

	m, err := c.load()
	if err != nil {
		return err
	}

	// additional files are relative to the working directory, not to the
	// manifest
	for _, fn := range extraWav {
		abs, err := filepath.Abs(fn)
		if err != nil {
			return err
		}
		m.Outputs.Wav = append(m.Outputs.Wav, manifest.WavOutput{File: abs})
	}

	res, err := fixture.Build(m, fixture.Options{
		Digest: *showDigest,
		Log:    logger.Allow,
	})
	if err != nil {
		return err
	}
	res.Log(logger.Allow)

	if *showDigest {
		printDigests(os.Stdout, m, res)
	}

	return nil
}

func tap(md *modalflag.Modes) error {
	md.NewMode()
	c := addCommon(md)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	fn, err := output(md, "tap")
	if err != nil {
		return err
	}

	m, err := c.load()
	if err != nil {
		return err
	}

	return single(m, fn, func(opts *fixture.Options, w io.Writer) {
		opts.Tap = w
	})
}

func pulses(md *modalflag.Modes) error {
	md.NewMode()
	c := addCommon(md)
	units := md.AddString("units", "", "units of the pulse list: micros, ticks (default from manifest)")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	fn, err := output(md, "pulse list")
	if err != nil {
		return err
	}

	m, err := c.load()
	if err != nil {
		return err
	}

	u, err := m.Units()
	if err != nil {
		return err
	}
	if *units != "" {
		u, err = pulse.ParseUnits(*units)
		if err != nil {
			return err
		}
	}

	return single(m, fn, func(opts *fixture.Options, w io.Writer) {
		opts.Pulses = w
		opts.Units = u
	})
}

// generate a single file with the stage selected by the sel function. the
// file is only created once the encoding pass has completed without error
func single(m *manifest.Manifest, filename string, sel func(*fixture.Options, io.Writer)) error {
	chunks, err := m.Chunks()
	if err != nil {
		return err
	}
	params, err := m.Params()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	opts := fixture.Options{Log: logger.Allow}
	sel(&opts, &buf)

	res, err := fixture.Generate(chunks, params, opts)
	if err != nil {
		return err
	}
	res.Log(logger.Allow)

	logger.Logf(logger.Allow, logTag, "writing %d bytes to %s", buf.Len(), filename)

	return os.WriteFile(filename, buf.Bytes(), 0o644)
}

func addFormat(md *modalflag.Modes) (*int, *int, *int, *string) {
	def := render.DefaultFormat()
	channels := md.AddInt("channels", def.Channels, "number of channels")
	bits := md.AddInt("bits", def.BitDepth, "bit depth: 8, 16, 24, 32")
	rate := md.AddInt("rate", def.SampleRate, "sample rate")
	overflow := md.AddString("overflow", render.OverflowFail.String(), "quantization overflow policy: fail, warn")
	return channels, bits, rate, overflow
}

func wav(md *modalflag.Modes) error {
	md.NewMode()
	c := addCommon(md)
	channels, bits, rate, overflow := addFormat(md)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	fn, err := output(md, "wav")
	if err != nil {
		return err
	}

	pol, err := render.ParseOverflowPolicy(*overflow)
	if err != nil {
		return err
	}

	m, err := c.load()
	if err != nil {
		return err
	}

	chunks, err := m.Chunks()
	if err != nil {
		return err
	}
	params, err := m.Params()
	if err != nil {
		return err
	}

	res, err := fixture.Generate(chunks, params, fixture.Options{
		Renderings: []fixture.Rendering{{
			Format:     render.Format{Channels: *channels, BitDepth: *bits, SampleRate: *rate},
			Amplitudes: m.AudioAmplitudes(),
			Policy:     pol,
		}},
		Log: logger.Allow,
	})
	if err != nil {
		return err
	}
	res.Log(logger.Allow)

	// a file name of "-" streams the wav data to stdout
	if fn == "-" {
		w := bufio.NewWriter(os.Stdout)
		if err := wavwriter.Stream(w, res.Renderers[0]); err != nil {
			return err
		}
		return w.Flush()
	}

	return wavwriter.Write(fn, res.Renderers[0])
}

func digest(md *modalflag.Modes) error {
	md.NewMode()
	c := addCommon(md)
	compare := md.AddString("compare", "", "compare pulses with a pulse list file")
	units := md.AddString("units", "", "units of the compared pulse list (default from manifest)")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}
	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("unexpected arguments for %s mode: %s", md, strings.Join(md.RemainingArgs(), " "))
	}

	m, err := c.load()
	if err != nil {
		return err
	}

	chunks, err := m.Chunks()
	if err != nil {
		return err
	}
	params, err := m.Params()
	if err != nil {
		return err
	}

	opts := fixture.Options{Digest: true}
	for _, w := range m.Outputs.Wav {
		pol, err := w.Policy()
		if err != nil {
			return err
		}
		opts.Renderings = append(opts.Renderings, fixture.Rendering{
			Format:     w.RenderFormat(),
			Amplitudes: m.AudioAmplitudes(),
			Policy:     pol,
		})
	}

	var l pulse.List
	if *compare != "" {
		opts.Sinks = append(opts.Sinks, &l)
	}

	res, err := fixture.Generate(chunks, params, opts)
	if err != nil {
		return err
	}

	printDigests(os.Stdout, m, res)

	if *compare == "" {
		return nil
	}

	u, err := m.Units()
	if err != nil {
		return err
	}
	if *units != "" {
		u, err = pulse.ParseUnits(*units)
		if err != nil {
			return err
		}
	}

	return comparePulses(os.Stdout, *compare, u, l)
}

func printDigests(w io.Writer, m *manifest.Manifest, res *fixture.Result) {
	fmt.Fprintf(w, "pulses: %s\n", res.PulseDigest)
	for i, d := range res.AudioDigests {
		name := res.Renderers[i].Format().String()
		if i < len(m.Outputs.Wav) {
			name = m.Outputs.Wav[i].File
		}
		fmt.Fprintf(w, "%s: %s\n", name, d)
	}
}

// compare the generated pulses with those in a pulse list file. the first
// difference is an error
func comparePulses(w io.Writer, filename string, units pulse.Units, l pulse.List) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	d, err := pulse.ReadList(bufio.NewReader(f))
	if err != nil {
		return err
	}

	for i, n := 0, min(len(d), len(l)); i < n; i++ {
		v := uint64(l[i].Duration)
		if units == pulse.Micros {
			v = timing.TicksToMicros(l[i].Duration)
		}
		if uint64(d[i]) != v {
			return fmt.Errorf("%s: pulse %d is %d %s, expected %d", filename, i, d[i], units, v)
		}
	}

	if len(d) != len(l) {
		return fmt.Errorf("%s: has %d pulses, expected %d", filename, len(d), len(l))
	}

	fmt.Fprintf(w, "%s: %d pulses match\n", filename, len(l))

	return nil
}

func showVersion(md *modalflag.Modes) error {
	md.NewMode()
	revision := md.AddBool("revision", false, "display revision information")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *revision {
		_, r, _ := version.Version()
		fmt.Println(r)
	} else {
		fmt.Println(version.String())
	}

	return nil
}
