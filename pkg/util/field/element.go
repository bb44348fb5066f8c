// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package field

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/holiman/uint256"
)

// Element is an element of the BLS12-377 scalar field, which is the field over
// which all cells and expressions are defined.
type Element = fr.Element

// BitWidth is the number of bits which can be safely embedded into a field
// element without wrapping around the modulus.
const BitWidth = fr.Bits - 1

// Zero constructs a field element representing 0
func Zero() Element {
	var element Element
	//
	return element
}

// One constructs a field element representing 1
func One() Element {
	return fr.One()
}

// Uint64 construct a field element from a given uint64
func Uint64(val uint64) Element {
	var element Element
	//
	element.SetUint64(val)
	//
	return element
}

// Int64 construct a field element from a given (possibly negative) int64.
// Negative values are mapped to their additive inverse.
func Int64(val int64) Element {
	var element Element
	//
	element.SetInt64(val)
	//
	return element
}

// BigInt construct a field element from a given big.Int
func BigInt(val *big.Int) Element {
	var element Element
	// Handle negative values
	if val.Sign() < 0 {
		panic("negative value encountered")
	}
	//
	element.SetBigInt(val)
	//
	return element
}

// Uint256 constructs a field element from a fixed-width 256bit integer.  This
// panics if the value does not fit within the field, since the boundary between
// native words and field elements is always validated beforehand.
func Uint256(val *uint256.Int) Element {
	var element Element
	//
	if val.BitLen() > BitWidth {
		panic("uint256 value exceeds field width")
	}
	//
	bytes := val.Bytes32()
	element.SetBytes(bytes[:])
	//
	return element
}

// TwoPowN constructs a field element representing 2^n
func TwoPowN(n uint) Element {
	return Pow(Uint64(2), uint64(n))
}

// Pow computes x^n using square-and-multiply.
func Pow(x Element, n uint64) Element {
	var res = One()
	//
	for n > 0 {
		if n&1 == 1 {
			res.Mul(&res, &x)
		}
		//
		x.Square(&x)
		n >>= 1
	}
	//
	return res
}

// Equal determines whether two field elements are equal.
func Equal(x, y Element) bool {
	return x.Equal(&y)
}

// Modulus returns the modulus of the field.
func Modulus() *big.Int {
	return fr.Modulus()
}
