// This file is part of AMBoard.
//
// AMBoard is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// AMBoard is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with AMBoard.  If not, see <https://www.gnu.org/licenses/>.

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. This is similar to
// the Errorf() function in the fmt package. It takes a formatting pattern,
// placeholder values and returns an error.
//
// The Is() function can be used to check whether an error was created by the
// Errorf() function with a specific pattern. Packages export their patterns
// as string constants. For example:
//
//	const BadHandle = "sockets: bad handle (%d)"
//
//	e := curated.Errorf(BadHandle, 64)
//
//	if curated.Is(e, BadHandle) {
//		fmt.Println("true")
//	}
//
// The Has() function is similar but checks if a pattern occurs somewhere in
// the error chain.
//
//	f := curated.Errorf("mediaboard: %v", e)
//
//	if curated.Has(f, BadHandle) {
//		fmt.Println("true")
//	}
//
// The IsAny() function answers whether the error was created by
// curated.Errorf(). Put another way, it returns true if the error is
// 'curated' and false if the error is 'uncurated'. We can think of the
// difference as being 'expected' and 'unexpected' depending on how we choose
// to handle the result of the function call.
//
// Any error values given to Errorf() are returned by the Unwrap() method, so
// the standard errors.Is() function can see through a curated error to the
// host error beneath it.
//
// The Error() function implementation for curated errors ensures that the
// error chain is normalised. Specifically, that the chain does not contain
// duplicate adjacent parts. For example:
//
//	e := curated.Errorf("storage: %v", curated.Errorf("storage: file is read only"))
//	fmt.Println(e)
//
// prints "storage: file is read only".
package curated
