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

// Package fixture produces every artefact of a tape fixture in a single
// encoding pass. The pulses of the pass are fed to the stages selected by the
// Options: the pulse list file, any number of audio renderings and the
// digests. The block container is written from the chunks directly.
//
// Build() is a convenience that takes the chunks, timing and outputs from a
// manifest and writes the resulting files.
package fixture
