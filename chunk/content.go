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

package chunk

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/tapemaker/curated"
)

// Sentinal error patterns.
const (
	RangeViolation = "range violation: %s (%d) does not fit in %d bits"
	UnknownType    = "chunk: unknown content type (%s)"
)

// Type of the file described by a header chunk.
type Type uint8

// List of valid Type values.
const (
	Program        Type = 0
	NumberArray    Type = 1
	CharacterArray Type = 2
	Bytes          Type = 3
)

func (t Type) String() string {
	switch t {
	case Program:
		return "program"
	case NumberArray:
		return "number array"
	case CharacterArray:
		return "character array"
	case Bytes:
		return "bytes"
	}
	return fmt.Sprintf("type %d", uint8(t))
}

// ParseType converts a name to a Type. Names are those returned by the
// String() function, case insensitive. "code" is accepted as an alias for
// "bytes".
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "program":
		return Program, nil
	case "number array", "numbers":
		return NumberArray, nil
	case "character array", "characters":
		return CharacterArray, nil
	case "bytes", "code":
		return Bytes, nil
	}
	return 0, curated.Errorf(UnknownType, s)
}

// NameLength is the length of the name field in a header. Shorter names are
// padded with spaces and longer names are truncated.
const NameLength = 10

// NoAutostart is the value of param1 for a program that should not run
// automatically once loaded. For a program, any value of 32768 or more means
// no autostart.
const NoAutostart = 32768

// HeaderLength is the length of a header chunk's payload.
const HeaderLength = 1 + NameLength + 2 + 2 + 2

// Name returns the name padded or truncated to NameLength bytes.
func Name(name string) []byte {
	b := []byte(name)
	if len(b) > NameLength {
		return b[:NameLength]
	}
	return append(b, []byte(strings.Repeat(" ", NameLength-len(b)))...)
}

// Content builds a header chunk and data chunk pair for a file.
//
// For a Program, param1 is the autostart line (or NoAutostart). For Bytes, it
// is the start address of the code. The second parameter in the header is
// the length of the content for a Program and 32768 for anything else.
func Content(typ Type, name string, param1 int, content []byte) (Chunk, Chunk, error) {
	if len(content) > 0xffff {
		return Chunk{}, Chunk{}, curated.Errorf(RangeViolation, "content length", len(content), 16)
	}
	if param1 < 0 || param1 > 0xffff {
		return Chunk{}, Chunk{}, curated.Errorf(RangeViolation, "param1", param1, 16)
	}

	param2 := 32768
	if typ == Program {
		param2 = len(content)
	}

	header := make([]byte, 0, HeaderLength)
	header = append(header, uint8(typ))
	header = append(header, Name(name)...)
	header = appendUint16(header, len(content))
	header = appendUint16(header, param1)
	header = appendUint16(header, param2)

	return New(Header, header), New(Data, content), nil
}

func appendUint16(b []byte, v int) []byte {
	return append(b, uint8(v), uint8(v>>8))
}
