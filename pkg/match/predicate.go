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
package match

import "github.com/consensys/go-splice/pkg/insn"

// Predicate is a test over a single instruction.  Predicates never panic on
// absent or unexpected instructions; they simply fail to match.
type Predicate func(insn.Instruction) bool

// Any matches every instruction.
func Any() Predicate {
	return func(instr insn.Instruction) bool {
		return !insn.IsNil(instr)
	}
}

// And matches when every given predicate matches.  With no predicates this is
// equivalent to Any.
func And(predicates ...Predicate) Predicate {
	return func(instr insn.Instruction) bool {
		if insn.IsNil(instr) {
			return false
		}
		//
		for _, p := range predicates {
			if !p(instr) {
				return false
			}
		}
		//
		return true
	}
}

// Opcode matches instructions with a given opcode.
func Opcode(op insn.Opcode) Predicate {
	return func(instr insn.Instruction) bool {
		return MatchesOpcode(instr, op)
	}
}

// MethodCall matches calls to a given method under either of its names.
func MethodCall(op insn.Opcode, owner string, name Name, desc string) Predicate {
	return func(instr insn.Instruction) bool {
		return MatchesMethodCall(instr, op, owner, name.Primary, name.Alternate, desc)
	}
}

// FieldAccess matches accesses of a given field under either of its names.
func FieldAccess(op insn.Opcode, owner string, name Name, desc string) Predicate {
	return func(instr insn.Instruction) bool {
		return MatchesFieldAccess(instr, op, owner, name.Primary, name.Alternate, desc)
	}
}

// VarSlot matches accesses of a given local variable slot.
func VarSlot(op insn.Opcode, slot uint) Predicate {
	return func(instr insn.Instruction) bool {
		return MatchesVarSlot(instr, op, slot)
	}
}

// Constant matches loads of a given constant value.
func Constant(value any) Predicate {
	return func(instr insn.Instruction) bool {
		return MatchesConstant(instr, value)
	}
}

// Jump matches jumps with a given opcode, regardless of target.
func Jump(op insn.Opcode) Predicate {
	return func(instr insn.Instruction) bool {
		return MatchesJump(instr, op)
	}
}

// Label matches any label marker.
func Label() Predicate {
	return func(instr insn.Instruction) bool {
		l, ok := instr.(*insn.LabelInsn)
		return ok && l != nil
	}
}

// Like matches instructions with the same shape as a template instruction.
func Like(template insn.Instruction) Predicate {
	return func(instr insn.Instruction) bool {
		return MatchesShape(instr, template)
	}
}

// Window is an ordered run of per-slot predicates.  A window of length k is
// satisfied at a position when slot j matches the instruction j places further
// on, for every j in [0,k).
type Window []Predicate

// Len returns the number of slots in this window.
func (w Window) Len() uint {
	return uint(len(w))
}

// MatchesAt checks whether this window is satisfied starting at a given node.
// An empty window, or one which runs off the end of the sequence, never
// matches.
func (w Window) MatchesAt(node *insn.Node) bool {
	if len(w) == 0 {
		return false
	}
	//
	for _, p := range w {
		if node == nil || !p(node.Value) {
			return false
		}
		//
		node = node.Next()
	}
	//
	return true
}
