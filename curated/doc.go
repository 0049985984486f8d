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

// Package curated is a helper package for the plain Go language error type.
// Every error raised by the tape encoding packages is a curated error.
//
// Curated errors are created with the Errorf() function. It takes a pattern
// and a list of values, much like fmt.Errorf(). The pattern is remembered and
// can be tested for with the Is() and Has() functions. Packages that raise
// errors export their patterns as constants so that callers do not need to
// repeat the pattern text. For example:
//
//	const RangeViolation = "range violation: %s (%d) exceeds %d bits"
//
//	err := curated.Errorf(RangeViolation, "pulse duration", d, 32)
//	if curated.Is(err, RangeViolation) {
//		...
//	}
//
// Has() is similar to Is() but searches the entire chain of curated errors,
// that is, curated errors that have been used as values to other curated
// errors:
//
//	e := curated.Errorf("render: %v", err)
//	curated.Is(e, RangeViolation)  // false
//	curated.Has(e, RangeViolation) // true
//
// The Error() function normalises the message so that the chain does not
// contain duplicate adjacent parts. A part is a sub-string separated by ': '.
// This means a package can prefix its name to an error without worrying
// whether the error already carries that prefix:
//
//	render: render: quantization overflow
//
// is printed as
//
//	render: quantization overflow
//
// Curated errors also implement the Unwrap() method. The first value that is
// an error is returned, which means errors.Is() and errors.As() from the
// standard library will see through curated errors to the underlying cause
// (an io error for example).
package curated
