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

package version

import (
	"fmt"
	"runtime/debug"
)

// ApplicationName is used in the log and by the VERSION mode.
const ApplicationName = "tapemaker"

// set at link time with:
//
//	-ldflags "-X github.com/jetsetilly/tapemaker/version.number=v1.0.0"
var number string

var (
	version  = "local"
	revision = "no revision information"
)

// Version returns the version string, the revision string and whether this is
// a numbered release.
//
// Without a number the version is "unreleased" if the binary was built from a
// repository and "local" otherwise. A revision with uncommitted changes has a
// "+dirty" suffix.
func Version() (string, string, bool) {
	return version, revision, number != "" && version == number
}

// String returns a single line description of the version suitable for
// printing or logging.
func String() string {
	v, r, release := Version()
	if release {
		return fmt.Sprintf("%s %s", ApplicationName, v)
	}
	return fmt.Sprintf("%s %s (%s)", ApplicationName, v, r)
}

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		settings := make(map[string]string)
		for _, kv := range info.Settings {
			settings[kv.Key] = kv.Value
		}

		if _, ok := settings["vcs"]; ok {
			version = "unreleased"
		}
		if r := settings["vcs.revision"]; r != "" {
			revision = r
			if settings["vcs.modified"] == "true" {
				revision += "+dirty"
			}
		}
	}

	if number != "" {
		version = number
	}
}
