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

import (
	"reflect"

	"github.com/consensys/go-splice/pkg/insn"
)

// Name pairs the primary name of a method or field with its alternate
// (obfuscated) name.  The target program ships under either naming scheme, and
// a name matches when it equals either of them.
type Name struct {
	Primary   string
	Alternate string
}

// NewName constructs a name with an alternate.  An empty alternate means the
// primary name is the only spelling.
func NewName(primary, alternate string) Name {
	if alternate == "" {
		alternate = primary
	}
	//
	return Name{primary, alternate}
}

// Matches checks whether a given name is either the primary or the alternate
// spelling.
func (p Name) Matches(name string) bool {
	return name == p.Primary || name == p.Alternate
}

func (p Name) String() string {
	if p.Alternate == "" || p.Alternate == p.Primary {
		return p.Primary
	}
	//
	return p.Primary + "|" + p.Alternate
}

// MatchesOpcode checks whether an instruction has a given opcode.  An absent
// instruction never matches.
func MatchesOpcode(instr insn.Instruction, op insn.Opcode) bool {
	return !insn.IsNil(instr) && instr.Opcode() == op
}

// MatchesMethodCall checks whether an instruction is a call with the given
// opcode, owner and descriptor, whose name is either the primary or alternate
// name.
func MatchesMethodCall(instr insn.Instruction, op insn.Opcode, owner, primary, alternate, desc string) bool {
	if call, ok := instr.(*insn.MethodCall); ok && call != nil {
		return call.Op == op && call.Owner == owner && call.Desc == desc &&
			(call.Name == primary || call.Name == alternate)
	}
	//
	return false
}

// MatchesFieldAccess checks whether an instruction is a field access with the
// given opcode, owner and descriptor, whose name is either the primary or
// alternate name.
func MatchesFieldAccess(instr insn.Instruction, op insn.Opcode, owner, primary, alternate, desc string) bool {
	if field, ok := instr.(*insn.FieldAccess); ok && field != nil {
		return field.Op == op && field.Owner == owner && field.Desc == desc &&
			(field.Name == primary || field.Name == alternate)
	}
	//
	return false
}

// MatchesVarSlot checks whether an instruction accesses a given local variable
// slot with a given opcode.
func MatchesVarSlot(instr insn.Instruction, op insn.Opcode, slot uint) bool {
	if v, ok := instr.(*insn.VarAccess); ok && v != nil {
		return v.Op == op && v.Slot == slot
	}
	//
	return false
}

// MatchesConstant checks whether an instruction loads a constant equal (by
// value) to the one given.
func MatchesConstant(instr insn.Instruction, value any) bool {
	if c, ok := instr.(*insn.Constant); ok && c != nil {
		return c.Op.IsLoadConstant() && reflect.DeepEqual(c.Value, value)
	}
	//
	return false
}

// MatchesJump checks whether an instruction is a jump with a given opcode.  The
// target is not considered, since labels have no structural identity.
func MatchesJump(instr insn.Instruction, op insn.Opcode) bool {
	if j, ok := instr.(*insn.Jump); ok && j != nil {
		return j.Op == op
	}
	//
	return false
}

// MatchesShape checks whether two instructions have the same kind and agree on
// every attribute relevant to matching, including the operand of a plain
// instruction.  Jump targets are ignored, and any two labels have the same
// shape.
func MatchesShape(instr insn.Instruction, template insn.Instruction) bool {
	if insn.IsNil(instr) || insn.IsNil(template) {
		return false
	}
	//
	switch t := template.(type) {
	case *insn.Plain:
		p, ok := instr.(*insn.Plain)
		return ok && p.Op == t.Op && p.Operand == t.Operand
	case *insn.VarAccess:
		return MatchesVarSlot(instr, t.Op, t.Slot)
	case *insn.MethodCall:
		return MatchesMethodCall(instr, t.Op, t.Owner, t.Name, t.Name, t.Desc)
	case *insn.FieldAccess:
		return MatchesFieldAccess(instr, t.Op, t.Owner, t.Name, t.Name, t.Desc)
	case *insn.Jump:
		return MatchesJump(instr, t.Op)
	case *insn.Constant:
		return instr.Opcode() == t.Op && MatchesConstant(instr, t.Value)
	case *insn.LabelInsn:
		_, ok := instr.(*insn.LabelInsn)
		return ok
	default:
		panic("unknown instruction kind encountered")
	}
}
