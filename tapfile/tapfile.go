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

// Package tapfile reads and writes the plain block container format. Each
// chunk is stored as a little-endian uint16 length followed by the flag byte,
// the payload and the checksum. The length counts the flag and checksum
// bytes.
//
// The container carries no timing information. The same chunks can be given
// to the pulse encoder to produce the signal that a tape with these blocks
// would produce.
package tapfile

import (
	"encoding/binary"
	"io"

	"github.com/jetsetilly/tapemaker/chunk"
	"github.com/jetsetilly/tapemaker/curated"
)

// Sentinal error patterns.
const (
	RangeViolation  = "range violation: %s (%d) does not fit in %d bits"
	Malformed       = "tapfile: malformed container at offset %d"
	ChunkTooSmall   = "tapfile: block at offset %d is too small (%d bytes)"
	InvalidChecksum = "tapfile: invalid checksum for block at offset %d"
	NoChunks        = "tapfile: container has no blocks"
	TooLarge        = "tapfile: container is larger than %d bytes"
	IOError         = "tapfile: %v"
)

// MaxSize is the largest container that Read() will accept.
const MaxSize = 16 * 1024 * 1024

// Write chunks to io.Writer in container format.
func Write(w io.Writer, chunks []chunk.Chunk) error {
	for _, c := range chunks {
		if c.Len() > 0xffff {
			return curated.Errorf(RangeViolation, "block length", c.Len(), 16)
		}

		b := make([]byte, 2, c.Len()+2)
		binary.LittleEndian.PutUint16(b, uint16(c.Len()))
		b = append(b, c.Bytes()...)

		if _, err := w.Write(b); err != nil {
			return curated.Errorf(IOError, err)
		}
	}
	return nil
}

// Read chunks from io.Reader. See Parse() for the meaning of strict.
func Read(r io.Reader, strict bool) ([]chunk.Chunk, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, curated.Errorf(IOError, err)
	}
	if len(data) > MaxSize {
		return nil, curated.Errorf(TooLarge, MaxSize)
	}
	return Parse(data, strict)
}

// Parse container data into a list of chunks.
//
// When strict is true, every block must be at least two bytes long, the
// checksum of every block must be correct, and there must be at least one
// block. Otherwise, zero length blocks are skipped and checksums are taken as
// they are found.
//
// A truncated length field or block is always an error, as is a block of
// exactly one byte because such a block has a flag but no checksum.
func Parse(data []byte, strict bool) ([]chunk.Chunk, error) {
	var chunks []chunk.Chunk

	position := 0
	for position < len(data) {
		offset := position

		if position+2 > len(data) {
			return nil, curated.Errorf(Malformed, offset)
		}

		size := int(binary.LittleEndian.Uint16(data[position:]))
		position += 2

		if position+size > len(data) {
			return nil, curated.Errorf(Malformed, offset)
		}

		if size == 0 && !strict {
			continue
		}

		if size < 2 {
			return nil, curated.Errorf(ChunkTooSmall, offset, size)
		}

		block := data[position : position+size]
		position += size

		c := chunk.Chunk{
			Class:    chunk.Class(block[0]),
			Data:     append([]byte{}, block[1:size-1]...),
			Checksum: block[size-1],
		}

		if strict && !c.Valid() {
			return nil, curated.Errorf(InvalidChecksum, offset)
		}

		chunks = append(chunks, c)
	}

	if strict && len(chunks) == 0 {
		return nil, curated.Errorf(NoChunks)
	}

	return chunks, nil
}
