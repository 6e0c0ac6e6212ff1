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
package listing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/consensys/go-splice/pkg/insn"
	"github.com/consensys/go-splice/pkg/match"
)

// LabelResolver maps a label name onto a label.  Resolvers are expected to
// return the same label for the same name.
type LabelResolver func(name string) *insn.Label

// Operands of an instruction line, prior to it being turned into either an
// instruction or a predicate.
type operands struct {
	op insn.Opcode
	// Text following the mnemonic, if any.
	rest string
	// Method or field reference.
	owner string
	name  match.Name
	desc  string
	// Local variable slot.
	slot uint
	// Constant value.
	value any
	// Jump target or label name.
	label string
}

// ParseInstruction parses a single instruction written in the listing syntax,
// such as "ALOAD 0", "INVOKESTATIC a/B.c (I)V", "GOTO L1" or "L1:".  Labels are
// obtained through the given resolver.  Descriptors of method calls and field
// accesses are checked.
func ParseInstruction(text string, labels LabelResolver) (insn.Instruction, error) {
	text = strings.TrimSpace(text)
	//
	if name, ok := labelMarker(text); ok {
		return &insn.LabelInsn{Label: labels(name)}, nil
	}
	//
	ops, err := parseOperands(text)
	if err != nil {
		return nil, err
	} else if ops.name.Primary != ops.name.Alternate {
		return nil, fmt.Errorf("alternate name not permitted in code: %s", ops.name)
	}
	//
	var (
		b  = insn.NewBuilder()
		op = ops.op
	)
	//
	switch {
	case ops.rest == "" && needsOperands(op):
		return nil, fmt.Errorf("%s requires operands", op)
	case op.IsVarAccess():
		b.Var(op, ops.slot)
	case op.IsMethodCall():
		b.Invoke(op, ops.owner, ops.name.Primary, ops.desc)
	case op.IsFieldAccess():
		b.Field(op, ops.owner, ops.name.Primary, ops.desc)
	case op.IsJump():
		b.Jump(op, labels(ops.label))
	case op.IsLoadConstant():
		b.Const(op, ops.value)
	default:
		b.Add(&insn.Plain{Op: op, Operand: ops.rest})
	}
	//
	code, err := b.Build()
	if err != nil {
		return nil, err
	}
	//
	return code[0], nil
}

// ParsePattern parses a single pattern slot.  The syntax is that of
// ParseInstruction, extended as follows: "*" matches any instruction; a bare
// mnemonic whose instructions carry operands matches by opcode alone; a label
// marker (of any name) matches any label; a jump matches by opcode alone; and
// a method or field name may be written "primary|alternate".  Descriptors are
// matched by equality and are not checked.  Finally, an instruction prefixed
// with "=" matches by its full shape, such as "= CHECKCAST java/lang/String"
// where the type operand must also agree.
func ParsePattern(text string) (match.Predicate, error) {
	text = strings.TrimSpace(text)
	//
	if text == "*" {
		return match.Any(), nil
	} else if _, ok := labelMarker(text); ok {
		return match.Label(), nil
	} else if rest, ok := strings.CutPrefix(text, "="); ok {
		template, err := ParseInstruction(rest, insn.NewLabel)
		if err != nil {
			return nil, err
		}
		//
		return match.Like(template), nil
	}
	//
	ops, err := parseOperands(text)
	//
	switch {
	case err != nil:
		return nil, err
	case ops.rest == "":
		return match.Opcode(ops.op), nil
	case ops.op.IsVarAccess():
		return match.VarSlot(ops.op, ops.slot), nil
	case ops.op.IsMethodCall():
		return match.MethodCall(ops.op, ops.owner, ops.name, ops.desc), nil
	case ops.op.IsFieldAccess():
		return match.FieldAccess(ops.op, ops.owner, ops.name, ops.desc), nil
	case ops.op.IsJump():
		return match.Jump(ops.op), nil
	case ops.op.IsLoadConstant():
		return match.And(match.Opcode(ops.op), match.Constant(ops.value)), nil
	default:
		return match.Opcode(ops.op), nil
	}
}

// Check whether a line is a label marker, such as "L1:".
func labelMarker(text string) (string, bool) {
	name, ok := strings.CutSuffix(text, ":")
	//
	if !ok || name == "" || strings.ContainsAny(name, " \t") {
		return "", false
	}
	//
	return name, true
}

func needsOperands(op insn.Opcode) bool {
	return op.IsVarAccess() || op.IsMethodCall() || op.IsFieldAccess() || op.IsJump() || op.IsLoadConstant()
}

func parseOperands(text string) (operands, error) {
	var (
		ops      operands
		err      error
		ok       bool
		mnemonic = text
		rest     string
	)
	//
	if i := strings.IndexAny(text, " \t"); i >= 0 {
		mnemonic, rest = text[:i], text[i+1:]
	}
	//
	if ops.op, ok = insn.LookupOpcode(mnemonic); !ok {
		return ops, fmt.Errorf("unknown mnemonic %q", mnemonic)
	}
	//
	ops.rest = strings.TrimSpace(rest)
	//
	if ops.rest == "" {
		return ops, nil
	}
	//
	switch op := ops.op; {
	case op.IsVarAccess():
		var slot uint64
		slot, err = strconv.ParseUint(ops.rest, 10, 16)
		ops.slot = uint(slot)
	case op.IsMethodCall() || op.IsFieldAccess():
		ops.owner, ops.name, ops.desc, err = parseMember(ops.rest)
	case op.IsJump():
		if strings.ContainsAny(ops.rest, " \t") {
			err = fmt.Errorf("invalid label %q", ops.rest)
		}
		//
		ops.label = ops.rest
	case op.IsLoadConstant():
		ops.value, err = parseConstant(op, ops.rest)
	}
	//
	if err != nil {
		return ops, fmt.Errorf("%s: %w", ops.op, err)
	}
	//
	return ops, nil
}

// Parse "owner.name desc" or "owner.primary|alternate desc".
func parseMember(text string) (string, match.Name, string, error) {
	fields := strings.Fields(text)
	//
	if len(fields) != 2 {
		return "", match.Name{}, "", errors.New("expected \"owner.name descriptor\"")
	}
	//
	dot := strings.LastIndexByte(fields[0], '.')
	if dot <= 0 || dot == len(fields[0])-1 {
		return "", match.Name{}, "", fmt.Errorf("invalid member %q", fields[0])
	}
	//
	owner, names := fields[0][:dot], fields[0][dot+1:]
	primary, alternate, _ := strings.Cut(names, "|")
	//
	if primary == "" || strings.Contains(alternate, "|") {
		return "", match.Name{}, "", fmt.Errorf("invalid member name %q", names)
	}
	//
	return owner, match.NewName(primary, alternate), fields[1], nil
}

// Parse a constant using the syntax of insn.FormatConstant.
func parseConstant(op insn.Opcode, text string) (any, error) {
	if strings.HasPrefix(text, "\"") {
		return strconv.Unquote(text)
	}
	//
	switch op {
	case insn.BIPUSH:
		v, err := strconv.ParseInt(text, 10, 8)
		return int32(v), err
	case insn.SIPUSH:
		v, err := strconv.ParseInt(text, 10, 16)
		return int32(v), err
	}
	//
	switch last := text[len(text)-1]; last {
	case 'L':
		return strconv.ParseInt(text[:len(text)-1], 10, 64)
	case 'F':
		v, err := strconv.ParseFloat(text[:len(text)-1], 32)
		return float32(v), err
	case 'D':
		return strconv.ParseFloat(text[:len(text)-1], 64)
	}
	//
	if strings.ContainsAny(text, ".eE") {
		return strconv.ParseFloat(text, 64)
	}
	//
	v, err := strconv.ParseInt(text, 10, 32)
	//
	return int32(v), err
}
