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

package digest

import (
	"fmt"

	"github.com/jetsetilly/tapemaker/render"
)

// Audio is an io.Writer that produces a digest of rendered sample data.
type Audio struct {
	chain
}

// NewAudio is the preferred method of initialisation for the Audio type.
func NewAudio() *Audio {
	return &Audio{chain: newChain()}
}

func (dig *Audio) String() string {
	return dig.Hash()
}

// Hash implements the digest.Digest interface.
func (dig *Audio) Hash() string {
	return dig.hash()
}

// ResetDigest implements the digest.Digest interface.
func (dig *Audio) ResetDigest() {
	dig.reset()
}

// Write implements the io.Writer interface.
func (dig *Audio) Write(p []byte) (int, error) {
	dig.add(p...)
	return len(p), nil
}

// AddRendering adds the format and samples of a rendering to the digest. Two
// renderings with the same samples but in a different format will not produce
// the same digest.
func (dig *Audio) AddRendering(r *render.Renderer) {
	dig.add([]byte(fmt.Sprintf("%s\n", r.Format()))...)
	dig.add(r.Bytes()...)
}
