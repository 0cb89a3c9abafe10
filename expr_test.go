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
	"testing"

	"github.com/xobs/tasru/test"
)

func TestEvaluateExpressionAddr(t *testing.T) {
	r := evaluateExpression([]byte{dwOpAddr, 0x00, 0x20, 0x00, 0x00}, 4)
	test.ExpectEquality(t, r.isValue, false)
	test.ExpectSuccess(t, r.location.valid())
	test.ExpectEquality(t, r.location.address, MemoryLocation(0x2000))

	r = evaluateExpression([]byte{dwOpAddr, 0x00, 0x20, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00}, 8)
	test.ExpectSuccess(t, r.location.valid())
	test.ExpectEquality(t, r.location.address, MemoryLocation(0x100002000))
}

func TestEvaluateExpressionStackValue(t *testing.T) {
	// DW_OP_constu 300; DW_OP_stack_value -> a value, not a location.
	r := evaluateExpression([]byte{dwOpConstu, 0xac, 0x02, dwOpStackValue}, 4)
	test.ExpectSuccess(t, r.isValue)
	test.ExpectEquality(t, r.value, uint64(300))
}

func TestEvaluateExpressionPlusUconst(t *testing.T) {
	// address 0x2000 plus an offset of 8
	r := evaluateExpression([]byte{dwOpAddr, 0x00, 0x20, 0x00, 0x00, dwOpPlusUconst, 0x08}, 4)
	test.ExpectSuccess(t, r.location.valid())
	test.ExpectEquality(t, r.location.address, MemoryLocation(0x2008))
}

func TestEvaluateExpressionSignedConstants(t *testing.T) {
	// DW_OP_const1s -1; DW_OP_stack_value
	r := evaluateExpression([]byte{dwOpConst1s, 0xff, dwOpStackValue}, 4)
	test.ExpectSuccess(t, r.isValue)
	test.ExpectEquality(t, r.value, uint64(0xffffffffffffffff))

	// DW_OP_consts -2 (SLEB128 0x7e); DW_OP_stack_value
	r = evaluateExpression([]byte{dwOpConsts, 0x7e, dwOpStackValue}, 4)
	test.ExpectSuccess(t, r.isValue)
	test.ExpectEquality(t, r.value, uint64(0xfffffffffffffffe))
}

func TestEvaluateExpressionFailures(t *testing.T) {
	// empty expression
	r := evaluateExpression(nil, 4)
	test.ExpectEquality(t, r.location.kind, locationError)

	// truncated DW_OP_addr operand
	r = evaluateExpression([]byte{dwOpAddr, 0x00, 0x20}, 4)
	test.ExpectEquality(t, r.location.kind, locationError)

	// an address of zero means the variable was optimized out
	r = evaluateExpression([]byte{dwOpAddr, 0x00, 0x00, 0x00, 0x00}, 4)
	test.ExpectEquality(t, r.location.kind, locationError)

	// frame-relative and register-relative operations are recognized but
	// unsupported; they must not be misread as addresses.
	r = evaluateExpression([]byte{dwOpFbreg, 0x10}, 4)
	test.ExpectEquality(t, r.location.kind, locationUnsupported)

	r = evaluateExpression([]byte{dwOpBregFirst, 0x10}, 4)
	test.ExpectEquality(t, r.location.kind, locationUnsupported)

	r = evaluateExpression([]byte{dwOpCallFrameCFA}, 4)
	test.ExpectEquality(t, r.location.kind, locationUnsupported)

	r = evaluateExpression([]byte{dwOpDeref}, 4)
	test.ExpectEquality(t, r.location.kind, locationUnsupported)

	// two values left on the stack is a multi-piece result
	r = evaluateExpression([]byte{dwOpConst1u, 0x01, dwOpConst1u, 0x02}, 4)
	test.ExpectEquality(t, r.location.kind, locationError)
}
