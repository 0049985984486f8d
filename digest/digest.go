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

// Package digest contains implementations of the pulse.Sink and io.Writer
// interfaces that produce a cryptographic hash of everything they receive.
// The hash can then be compared with the hash from a subsequent run. If a new
// hash differs from a previously recorded value then the fixture has
// changed. We use this as the basis for regression tests against a reference
// corpus.
//
// Data is collected in a fixed length buffer. When the buffer is full the
// hash of the buffer is stored in the first part of the buffer and collection
// continues after it. This means the hash covers streams of any length
// without them being held in memory.
package digest

import (
	"crypto/sha1"
	"fmt"
)

// Digest implementations should return a cryptographic hash in response to a
// Hash() request. Generation of the hash is achieved via another interface.
type Digest interface {
	Hash() string
	ResetDigest()
}

// the length of the buffer isn't really important. that said, it needs to be
// more than sha1.Size bytes in length
const bufferLength = 4096 + sha1.Size

// chain is the buffering mechanism shared by the digest types.
type chain struct {
	digest   [sha1.Size]byte
	buffer   []byte
	bufferCt int
}

func newChain() chain {
	return chain{
		buffer:   make([]byte, bufferLength),
		bufferCt: sha1.Size,
	}
}

func (c *chain) add(b ...byte) {
	for len(b) > 0 {
		n := copy(c.buffer[c.bufferCt:], b)
		c.bufferCt += n
		b = b[n:]
		if c.bufferCt >= bufferLength {
			c.flush()
		}
	}
}

func (c *chain) flush() {
	c.digest = sha1.Sum(c.buffer[:c.bufferCt])
	copy(c.buffer, c.digest[:])
	c.bufferCt = sha1.Size
}

func (c *chain) hash() string {
	// data that hasn't been flushed is included in the hash without
	// affecting the chain
	if c.bufferCt > sha1.Size {
		return fmt.Sprintf("%x", sha1.Sum(c.buffer[:c.bufferCt]))
	}
	return fmt.Sprintf("%x", c.digest)
}

func (c *chain) reset() {
	for i := range c.digest {
		c.digest[i] = 0
	}
	copy(c.buffer, c.digest[:])
	c.bufferCt = sha1.Size
}
