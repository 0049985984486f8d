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

// Package chunk builds the logical blocks of a tape. A tape is an ordered
// list of chunks, each chunk being a class tag, a payload and a checksum.
//
// Files on tape are normally saved as a pair of chunks: a header chunk that
// describes the file and a data chunk that contains it. The Content()
// function builds such a pair.
package chunk

import (
	"fmt"
)

// Class is the polarity class of a chunk. The value of the class is the flag
// byte that is written before the payload.
type Class uint8

// List of valid Class values.
const (
	Header Class = 0x00
	Data   Class = 0xff
)

func (c Class) String() string {
	switch c {
	case Header:
		return "header"
	case Data:
		return "data"
	}
	return fmt.Sprintf("flag %#02x", uint8(c))
}

// IsHeader returns true if the class is a header class. Any flag value other
// than zero is treated as a data class, which is how the ROM loader treats
// the flag when choosing the length of the pilot tone.
func (c Class) IsHeader() bool {
	return c == Header
}

// Chunk is a single block on the tape. It should not be modified once it has
// been created.
type Chunk struct {
	Class    Class
	Data     []byte
	Checksum uint8
}

// New creates a new chunk and computes the checksum. The data is copied.
func New(class Class, data []byte) Chunk {
	c := Chunk{
		Class: class,
		Data:  make([]byte, len(data)),
	}
	copy(c.Data, data)
	c.Checksum = Checksum(class, c.Data)
	return c
}

// Checksum is the XOR of the class tag and every byte in data.
func Checksum(class Class, data []byte) uint8 {
	checksum := uint8(class)
	for _, v := range data {
		checksum ^= v
	}
	return checksum
}

// Valid returns true if the checksum of the chunk is correct.
func (c Chunk) Valid() bool {
	return c.Checksum == Checksum(c.Class, c.Data)
}

// Len returns the number of bytes in the chunk including the flag and
// checksum bytes. This is the value stored in the length field of a block
// container.
func (c Chunk) Len() int {
	return len(c.Data) + 2
}

// Bytes returns the flag byte, payload and checksum as a single slice. This is
// the order in which bytes are encoded on the tape.
func (c Chunk) Bytes() []byte {
	b := make([]byte, 0, c.Len())
	b = append(b, uint8(c.Class))
	b = append(b, c.Data...)
	b = append(b, c.Checksum)
	return b
}

func (c Chunk) String() string {
	return fmt.Sprintf("%s chunk: %d bytes, checksum %#02x", c.Class, len(c.Data), c.Checksum)
}
