// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

package tasru

import (
	"encoding/binary"
	"fmt"

	"github.com/xobs/tasru/leb128"
)

// DWARF expression opcodes this evaluator recognizes. Only the subset
// needed to resolve absolute-addressed statics is implemented; anything
// else is reported as an Unsupported location rather than misinterpreted.
const (
	dwOpAddr        = 0x03
	dwOpDeref       = 0x06
	dwOpConst1u     = 0x08
	dwOpConst1s     = 0x09
	dwOpConst2u     = 0x0a
	dwOpConst2s     = 0x0b
	dwOpConst4u     = 0x0c
	dwOpConst4s     = 0x0d
	dwOpConst8u     = 0x0e
	dwOpConst8s     = 0x0f
	dwOpConstu      = 0x10
	dwOpConsts      = 0x11
	dwOpPlusUconst  = 0x23
	dwOpStackValue  = 0x9f
	dwOpCallFrameCFA = 0x9c
	dwOpFbreg       = 0x91
	dwOpRegxFirst   = 0x90
	dwOpBregFirst   = 0x70
	dwOpBregLast    = 0x8f
)

// locationKind discriminates the outcome of evaluateExpression.
type locationKind int

const (
	locationUnknown locationKind = iota
	locationUnavailable
	locationAddress
	locationError
	locationUnsupported
)

// exprLocation mirrors the reference implementation's VariableLocation
// enum: either a concrete address, or one of several "expected" failure
// reasons that a caller should present to the user rather than treat as a
// hard error.
type exprLocation struct {
	kind    locationKind
	address MemoryLocation
	message string
}

func (l exprLocation) String() string {
	switch l.kind {
	case locationUnavailable:
		return "<value not available>"
	case locationAddress:
		return fmt.Sprintf("%#08x", uint64(l.address))
	case locationError:
		return l.message
	case locationUnsupported:
		return l.message
	default:
		return "<unknown value>"
	}
}

// valid reports whether the location is usable as a memory address.
func (l exprLocation) valid() bool {
	return l.kind == locationAddress
}

// exprResult is the outcome of evaluating a DWARF expression: either a
// statically-known value with no memory location, or a location.
type exprResult struct {
	isValue  bool
	value    uint64
	location exprLocation
}

// evaluateExpression interprets the raw exprloc operand stream of a
// DW_AT_location/DW_AT_data_member_location/DW_AT_frame_base attribute.
// addressSize is the compilation unit's address size in bytes (4 or 8),
// used to decode DW_OP_addr's operand.
func evaluateExpression(expr []byte, addressSize int) exprResult {
	if len(expr) == 0 {
		return exprResult{location: exprLocation{kind: locationError, message: "empty DWARF expression"}}
	}
	if addressSize != 4 && addressSize != 8 {
		addressSize = 4
	}

	var stack []uint64
	push := func(v uint64) { stack = append(stack, v) }
	pop := func() (uint64, bool) {
		if len(stack) == 0 {
			return 0, false
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v, true
	}

	asValue := false

	i := 0
	for i < len(expr) {
		op := expr[i]
		i++

		switch op {
		case dwOpAddr:
			if i+addressSize > len(expr) {
				return exprResult{location: exprLocation{kind: locationError, message: "truncated DW_OP_addr operand"}}
			}
			var addr uint64
			if addressSize == 8 {
				addr = binary.LittleEndian.Uint64(expr[i:])
			} else {
				addr = uint64(binary.LittleEndian.Uint32(expr[i:]))
			}
			i += addressSize
			push(addr)

		case dwOpConst1u:
			if i >= len(expr) {
				return exprResult{location: exprLocation{kind: locationError, message: "truncated DW_OP_const1u operand"}}
			}
			push(uint64(expr[i]))
			i++

		case dwOpConst1s:
			if i >= len(expr) {
				return exprResult{location: exprLocation{kind: locationError, message: "truncated DW_OP_const1s operand"}}
			}
			push(uint64(int64(int8(expr[i]))))
			i++

		case dwOpConst2u:
			if i+2 > len(expr) {
				return exprResult{location: exprLocation{kind: locationError, message: "truncated DW_OP_const2u operand"}}
			}
			push(uint64(binary.LittleEndian.Uint16(expr[i:])))
			i += 2

		case dwOpConst2s:
			if i+2 > len(expr) {
				return exprResult{location: exprLocation{kind: locationError, message: "truncated DW_OP_const2s operand"}}
			}
			push(uint64(int64(int16(binary.LittleEndian.Uint16(expr[i:])))))
			i += 2

		case dwOpConst4u:
			if i+4 > len(expr) {
				return exprResult{location: exprLocation{kind: locationError, message: "truncated DW_OP_const4u operand"}}
			}
			push(uint64(binary.LittleEndian.Uint32(expr[i:])))
			i += 4

		case dwOpConst4s:
			if i+4 > len(expr) {
				return exprResult{location: exprLocation{kind: locationError, message: "truncated DW_OP_const4s operand"}}
			}
			push(uint64(int64(int32(binary.LittleEndian.Uint32(expr[i:])))))
			i += 4

		case dwOpConst8u:
			if i+8 > len(expr) {
				return exprResult{location: exprLocation{kind: locationError, message: "truncated DW_OP_const8u operand"}}
			}
			push(binary.LittleEndian.Uint64(expr[i:]))
			i += 8

		case dwOpConst8s:
			if i+8 > len(expr) {
				return exprResult{location: exprLocation{kind: locationError, message: "truncated DW_OP_const8s operand"}}
			}
			push(binary.LittleEndian.Uint64(expr[i:]))
			i += 8

		case dwOpConstu:
			v, n := leb128.DecodeULEB128(expr[i:])
			if n == 0 {
				return exprResult{location: exprLocation{kind: locationError, message: "truncated DW_OP_constu operand"}}
			}
			push(v)
			i += n

		case dwOpConsts:
			v, n := leb128.DecodeSLEB128(expr[i:])
			if n == 0 {
				return exprResult{location: exprLocation{kind: locationError, message: "truncated DW_OP_consts operand"}}
			}
			push(uint64(v))
			i += n

		case dwOpPlusUconst:
			v, n := leb128.DecodeULEB128(expr[i:])
			if n == 0 {
				return exprResult{location: exprLocation{kind: locationError, message: "truncated DW_OP_plus_uconst operand"}}
			}
			i += n
			top, ok := pop()
			if !ok {
				return exprResult{location: exprLocation{kind: locationError, message: "DW_OP_plus_uconst with empty stack"}}
			}
			push(top + v)

		case dwOpStackValue:
			asValue = true

		case dwOpDeref:
			return exprResult{location: exprLocation{kind: locationUnsupported, message: "DW_OP_deref is not supported by this library"}}

		case dwOpFbreg, dwOpCallFrameCFA:
			return exprResult{location: exprLocation{kind: locationUnsupported, message: "frame-relative expressions are not supported by this library"}}

		default:
			if op >= dwOpBregFirst && op <= dwOpBregLast {
				return exprResult{location: exprLocation{kind: locationUnsupported, message: "register-relative expressions are not supported by this library"}}
			}
			return exprResult{location: exprLocation{kind: locationUnsupported, message: fmt.Sprintf("unimplemented DWARF operation %#02x", op)}}
		}
	}

	if len(stack) == 0 {
		return exprResult{location: exprLocation{kind: locationError, message: "DWARF expression produced no result"}}
	}
	if len(stack) > 1 {
		return exprResult{location: exprLocation{kind: locationError, message: "unsupported multi-piece DWARF expression result"}}
	}

	result := stack[0]
	if asValue {
		return exprResult{isValue: true, value: result}
	}
	if result == 0 {
		return exprResult{location: exprLocation{kind: locationError, message: "variable has been optimized out of the debug information"}}
	}
	return exprResult{location: exprLocation{kind: locationAddress, address: MemoryLocation(result)}}
}
