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

// Package modalflag wraps the flag package of the standard library so that a
// command line can select one of several modes, each mode having its own set
// of flags.
//
// A Modes value is given the arguments with NewArgs(). The modes available at
// that point are added with AddSubModes(), the first being the default. Parse()
// then processes any flags and looks at the first remaining argument. If it
// names a mode then that becomes the current mode, otherwise the default mode
// is selected:
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("BUILD", "TAP", "WAV")
//	if p, err := md.Parse(); p != modalflag.ParseContinue {
//		return err
//	}
//
// The flags of the selected mode are then added after a call to NewMode() and
// Parse() is called again:
//
//	switch md.Mode() {
//	case "WAV":
//		md.NewMode()
//		rate := md.AddInt("rate", 44100, "sample rate")
//		...
//	}
//
// Mode names are not case sensitive. Asking for help with -help or -h at any
// level prints the flags and the modes for that level.
package modalflag
