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
	"errors"
	"fmt"
)

// Builder accumulates a run of instructions, validating operands as they are
// added.  The first error encountered is retained and reported by Build; once
// an error has occurred further additions are ignored.
type Builder struct {
	code []Instruction
	err  error
}

// NewBuilder constructs an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends zero or more pre-built instructions.
func (b *Builder) Add(instructions ...Instruction) *Builder {
	if b.err == nil {
		for _, instr := range instructions {
			if instr == nil {
				b.err = errors.New("nil instruction")
				break
			}
			//
			b.code = append(b.code, instr)
		}
	}
	//
	return b
}

// Op appends a plain instruction.
func (b *Builder) Op(op Opcode) *Builder {
	if op == LABEL {
		return b.fail(errors.New("LABEL is not a plain opcode"))
	}
	//
	return b.Add(&Plain{Op: op})
}

// Var appends a local variable access.
func (b *Builder) Var(op Opcode, slot uint) *Builder {
	if !op.IsVarAccess() {
		return b.fail(fmt.Errorf("%s does not access a local variable", op))
	}
	//
	return b.Add(&VarAccess{op, slot})
}

// Invoke appends a method call, after checking its descriptor.
func (b *Builder) Invoke(op Opcode, owner, name, desc string) *Builder {
	if !op.IsMethodCall() {
		return b.fail(fmt.Errorf("%s is not a method call", op))
	} else if owner == "" || name == "" {
		return b.fail(fmt.Errorf("%s requires an owner and a name", op))
	} else if err := ValidateMethodDescriptor(desc); err != nil {
		return b.fail(err)
	}
	//
	return b.Add(&MethodCall{op, owner, name, desc})
}

// Field appends a field access, after checking its descriptor.
func (b *Builder) Field(op Opcode, owner, name, desc string) *Builder {
	if !op.IsFieldAccess() {
		return b.fail(fmt.Errorf("%s is not a field access", op))
	} else if owner == "" || name == "" {
		return b.fail(fmt.Errorf("%s requires an owner and a name", op))
	} else if err := ValidateFieldDescriptor(desc); err != nil {
		return b.fail(err)
	}
	//
	return b.Add(&FieldAccess{op, owner, name, desc})
}

// Jump appends a branch to a given label.
func (b *Builder) Jump(op Opcode, target *Label) *Builder {
	if !op.IsJump() {
		return b.fail(fmt.Errorf("%s is not a jump", op))
	} else if target == nil {
		return b.fail(fmt.Errorf("%s requires a target label", op))
	}
	//
	return b.Add(&Jump{op, target})
}

// Const appends a constant load.
func (b *Builder) Const(op Opcode, value any) *Builder {
	if !op.IsLoadConstant() {
		return b.fail(fmt.Errorf("%s does not load a constant", op))
	}
	//
	switch value.(type) {
	case int32, int64, float32, float64, string:
		return b.Add(&Constant{op, value})
	default:
		return b.fail(fmt.Errorf("unsupported constant %v (%T)", value, value))
	}
}

// Mark appends a label marker.
func (b *Builder) Mark(label *Label) *Builder {
	if label == nil {
		return b.fail(errors.New("nil label"))
	}
	//
	return b.Add(&LabelInsn{label})
}

// Build returns the accumulated instructions, or the first error encountered.
func (b *Builder) Build() ([]Instruction, error) {
	if b.err != nil {
		return nil, b.err
	}
	//
	return b.code, nil
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	//
	return b
}
