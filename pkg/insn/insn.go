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
package insn

import (
	"fmt"
	"strconv"

	"github.com/consensys/go-splice/pkg/util/collection/list"
)

// Instruction represents a single operation within a method body.  The set of
// instruction kinds is closed: every implementation lives in this package, so
// code which switches over kinds can be checked for exhaustiveness by hand
// whenever a new kind is introduced.
type Instruction interface {
	fmt.Stringer
	// Opcode returns the opcode of this instruction.
	Opcode() Opcode
	// Prevent implementations outside this package.
	sealed()
}

// Sequence is the mutable instruction list of a method body.
type Sequence = list.List[Instruction]

// Node is a single position within a Sequence.
type Node = list.Node[Instruction]

// IsNil checks whether an instruction is absent: either a nil interface, or a
// nil pointer of some instruction kind.
func IsNil(instr Instruction) bool {
	switch i := instr.(type) {
	case nil:
		return true
	case *Plain:
		return i == nil
	case *VarAccess:
		return i == nil
	case *MethodCall:
		return i == nil
	case *FieldAccess:
		return i == nil
	case *Jump:
		return i == nil
	case *Constant:
		return i == nil
	case *LabelInsn:
		return i == nil
	default:
		return false
	}
}

// NewSequence constructs a sequence from zero or more instructions.
func NewSequence(instructions ...Instruction) *Sequence {
	return list.NewList(instructions...)
}

// ============================================================================
// Plain
// ============================================================================

// Plain is an instruction whose operands (if any) play no part in matching.
// Operand is carried through edits untouched.
type Plain struct {
	Op      Opcode
	Operand string
}

// Opcode implementation for Instruction interface.
func (p *Plain) Opcode() Opcode {
	return p.Op
}

func (p *Plain) String() string {
	if p.Operand == "" {
		return p.Op.String()
	}
	//
	return fmt.Sprintf("%s %s", p.Op, p.Operand)
}

func (p *Plain) sealed() {}

// ============================================================================
// VarAccess
// ============================================================================

// VarAccess loads or stores a local variable slot.
type VarAccess struct {
	Op   Opcode
	Slot uint
}

// Opcode implementation for Instruction interface.
func (p *VarAccess) Opcode() Opcode {
	return p.Op
}

func (p *VarAccess) String() string {
	return fmt.Sprintf("%s %d", p.Op, p.Slot)
}

func (p *VarAccess) sealed() {}

// ============================================================================
// MethodCall
// ============================================================================

// MethodCall invokes a method identified by its owner, name and descriptor.
type MethodCall struct {
	Op    Opcode
	Owner string
	Name  string
	Desc  string
}

// Opcode implementation for Instruction interface.
func (p *MethodCall) Opcode() Opcode {
	return p.Op
}

func (p *MethodCall) String() string {
	return fmt.Sprintf("%s %s.%s %s", p.Op, p.Owner, p.Name, p.Desc)
}

func (p *MethodCall) sealed() {}

// ============================================================================
// FieldAccess
// ============================================================================

// FieldAccess reads or writes a field identified by its owner, name and
// descriptor.
type FieldAccess struct {
	Op    Opcode
	Owner string
	Name  string
	Desc  string
}

// Opcode implementation for Instruction interface.
func (p *FieldAccess) Opcode() Opcode {
	return p.Op
}

func (p *FieldAccess) String() string {
	return fmt.Sprintf("%s %s.%s %s", p.Op, p.Owner, p.Name, p.Desc)
}

func (p *FieldAccess) sealed() {}

// ============================================================================
// Jump
// ============================================================================

// Jump branches (conditionally or otherwise) to a label.  The target is held
// by identity, hence it remains correct regardless of how many instructions
// are inserted or removed between the jump and its label.
type Jump struct {
	Op     Opcode
	Target *Label
}

// Opcode implementation for Instruction interface.
func (p *Jump) Opcode() Opcode {
	return p.Op
}

func (p *Jump) String() string {
	return fmt.Sprintf("%s %s", p.Op, p.Target.Name())
}

func (p *Jump) sealed() {}

// ============================================================================
// Constant
// ============================================================================

// Constant pushes a constant value held by the instruction itself.  Values are
// int32, int64, float32, float64 or string.
type Constant struct {
	Op    Opcode
	Value any
}

// Opcode implementation for Instruction interface.
func (p *Constant) Opcode() Opcode {
	return p.Op
}

func (p *Constant) String() string {
	return fmt.Sprintf("%s %s", p.Op, FormatConstant(p.Value))
}

func (p *Constant) sealed() {}

// FormatConstant renders a constant value using the listing syntax, such that
// the type of the value is recoverable.
func FormatConstant(value any) string {
	switch v := value.(type) {
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10) + "L"
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32) + "F"
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64) + "D"
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ============================================================================
// Label
// ============================================================================

// Label is a position marker.  Labels are compared by identity, never by name:
// two distinct labels may share a name without being interchangeable.
type Label struct {
	name string
}

// NewLabel constructs a fresh label with a given (display) name.
func NewLabel(name string) *Label {
	return &Label{name}
}

// Name returns the display name of this label.
func (p *Label) Name() string {
	if p == nil {
		return "<nil>"
	}
	//
	return p.name
}

// LabelInsn marks the position of a label within a sequence.
type LabelInsn struct {
	Label *Label
}

// Opcode implementation for Instruction interface.
func (p *LabelInsn) Opcode() Opcode {
	return LABEL
}

func (p *LabelInsn) String() string {
	return p.Label.Name() + ":"
}

func (p *LabelInsn) sealed() {}
