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

import "fmt"

// Opcode identifies the operation performed by an instruction.  Values follow
// the JVM instruction set.
type Opcode uint8

// Opcodes which carry operands relevant to matching.  The remainder are
// reachable through the mnemonic table.
const (
	NOP             Opcode = 0
	ACONST_NULL     Opcode = 1
	ICONST_0        Opcode = 3
	ICONST_1        Opcode = 4
	FCONST_0        Opcode = 11
	FCONST_1        Opcode = 12
	DCONST_0        Opcode = 14
	DCONST_1        Opcode = 15
	BIPUSH          Opcode = 16
	SIPUSH          Opcode = 17
	LDC             Opcode = 18
	LDC_W           Opcode = 19
	LDC2_W          Opcode = 20
	ILOAD           Opcode = 21
	LLOAD           Opcode = 22
	FLOAD           Opcode = 23
	DLOAD           Opcode = 24
	ALOAD           Opcode = 25
	ISTORE          Opcode = 54
	LSTORE          Opcode = 55
	FSTORE          Opcode = 56
	DSTORE          Opcode = 57
	ASTORE          Opcode = 58
	POP             Opcode = 87
	DUP             Opcode = 89
	SWAP            Opcode = 95
	DADD            Opcode = 99
	DSUB            Opcode = 103
	FCMPL           Opcode = 149
	DCMPL           Opcode = 151
	IFEQ            Opcode = 153
	IFNE            Opcode = 154
	IFLT            Opcode = 155
	IFGE            Opcode = 156
	IFGT            Opcode = 157
	IFLE            Opcode = 158
	IF_ICMPEQ       Opcode = 159
	IF_ACMPNE       Opcode = 166
	GOTO            Opcode = 167
	JSR             Opcode = 168
	RET             Opcode = 169
	IRETURN         Opcode = 172
	FRETURN         Opcode = 174
	DRETURN         Opcode = 175
	ARETURN         Opcode = 176
	RETURN          Opcode = 177
	GETSTATIC       Opcode = 178
	PUTSTATIC       Opcode = 179
	GETFIELD        Opcode = 180
	PUTFIELD        Opcode = 181
	INVOKEVIRTUAL   Opcode = 182
	INVOKESPECIAL   Opcode = 183
	INVOKESTATIC    Opcode = 184
	INVOKEINTERFACE Opcode = 185
	CHECKCAST       Opcode = 192
	IFNULL          Opcode = 198
	IFNONNULL       Opcode = 199
	GOTO_W          Opcode = 200
	JSR_W           Opcode = 201
)

// LABEL is a pseudo-opcode given to label markers.  It lies outside the range
// of real opcodes.
const LABEL Opcode = 255

var mnemonics = [...]string{
	"NOP", "ACONST_NULL", "ICONST_M1", "ICONST_0", "ICONST_1", "ICONST_2", "ICONST_3", "ICONST_4",
	"ICONST_5", "LCONST_0", "LCONST_1", "FCONST_0", "FCONST_1", "FCONST_2", "DCONST_0", "DCONST_1",
	"BIPUSH", "SIPUSH", "LDC", "LDC_W", "LDC2_W", "ILOAD", "LLOAD", "FLOAD",
	"DLOAD", "ALOAD", "ILOAD_0", "ILOAD_1", "ILOAD_2", "ILOAD_3", "LLOAD_0", "LLOAD_1",
	"LLOAD_2", "LLOAD_3", "FLOAD_0", "FLOAD_1", "FLOAD_2", "FLOAD_3", "DLOAD_0", "DLOAD_1",
	"DLOAD_2", "DLOAD_3", "ALOAD_0", "ALOAD_1", "ALOAD_2", "ALOAD_3", "IALOAD", "LALOAD",
	"FALOAD", "DALOAD", "AALOAD", "BALOAD", "CALOAD", "SALOAD", "ISTORE", "LSTORE",
	"FSTORE", "DSTORE", "ASTORE", "ISTORE_0", "ISTORE_1", "ISTORE_2", "ISTORE_3", "LSTORE_0",
	"LSTORE_1", "LSTORE_2", "LSTORE_3", "FSTORE_0", "FSTORE_1", "FSTORE_2", "FSTORE_3", "DSTORE_0",
	"DSTORE_1", "DSTORE_2", "DSTORE_3", "ASTORE_0", "ASTORE_1", "ASTORE_2", "ASTORE_3", "IASTORE",
	"LASTORE", "FASTORE", "DASTORE", "AASTORE", "BASTORE", "CASTORE", "SASTORE", "POP",
	"POP2", "DUP", "DUP_X1", "DUP_X2", "DUP2", "DUP2_X1", "DUP2_X2", "SWAP",
	"IADD", "LADD", "FADD", "DADD", "ISUB", "LSUB", "FSUB", "DSUB",
	"IMUL", "LMUL", "FMUL", "DMUL", "IDIV", "LDIV", "FDIV", "DDIV",
	"IREM", "LREM", "FREM", "DREM", "INEG", "LNEG", "FNEG", "DNEG",
	"ISHL", "LSHL", "ISHR", "LSHR", "IUSHR", "LUSHR", "IAND", "LAND",
	"IOR", "LOR", "IXOR", "LXOR", "IINC", "I2L", "I2F", "I2D",
	"L2I", "L2F", "L2D", "F2I", "F2L", "F2D", "D2I", "D2L",
	"D2F", "I2B", "I2C", "I2S", "LCMP", "FCMPL", "FCMPG", "DCMPL",
	"DCMPG", "IFEQ", "IFNE", "IFLT", "IFGE", "IFGT", "IFLE", "IF_ICMPEQ",
	"IF_ICMPNE", "IF_ICMPLT", "IF_ICMPGE", "IF_ICMPGT", "IF_ICMPLE", "IF_ACMPEQ", "IF_ACMPNE", "GOTO",
	"JSR", "RET", "TABLESWITCH", "LOOKUPSWITCH", "IRETURN", "LRETURN", "FRETURN", "DRETURN",
	"ARETURN", "RETURN", "GETSTATIC", "PUTSTATIC", "GETFIELD", "PUTFIELD", "INVOKEVIRTUAL", "INVOKESPECIAL",
	"INVOKESTATIC", "INVOKEINTERFACE", "INVOKEDYNAMIC", "NEW", "NEWARRAY", "ANEWARRAY", "ARRAYLENGTH", "ATHROW",
	"CHECKCAST", "INSTANCEOF", "MONITORENTER", "MONITOREXIT", "WIDE", "MULTIANEWARRAY", "IFNULL", "IFNONNULL",
	"GOTO_W", "JSR_W",
}

var opcodes = func() map[string]Opcode {
	m := make(map[string]Opcode, len(mnemonics))
	//
	for i, name := range mnemonics {
		m[name] = Opcode(i)
	}
	//
	return m
}()

// LookupOpcode returns the opcode for a given mnemonic, or false if there is
// no such mnemonic.
func LookupOpcode(mnemonic string) (Opcode, bool) {
	op, ok := opcodes[mnemonic]
	return op, ok
}

// String returns the mnemonic of this opcode.
func (op Opcode) String() string {
	if int(op) < len(mnemonics) {
		return mnemonics[op]
	} else if op == LABEL {
		return "LABEL"
	}
	//
	return fmt.Sprintf("OP_%d", uint8(op))
}

// IsVarAccess determines whether this opcode loads or stores a local variable
// slot given as an explicit operand.
func (op Opcode) IsVarAccess() bool {
	return (op >= ILOAD && op <= ALOAD) || (op >= ISTORE && op <= ASTORE) || op == RET
}

// IsJump determines whether this opcode branches to a label.
func (op Opcode) IsJump() bool {
	return (op >= IFEQ && op <= JSR) || op == IFNULL || op == IFNONNULL || op == GOTO_W || op == JSR_W
}

// IsMethodCall determines whether this opcode invokes a named method.
func (op Opcode) IsMethodCall() bool {
	return op >= INVOKEVIRTUAL && op <= INVOKEINTERFACE
}

// IsFieldAccess determines whether this opcode reads or writes a named field.
func (op Opcode) IsFieldAccess() bool {
	return op >= GETSTATIC && op <= PUTFIELD
}

// IsLoadConstant determines whether this opcode pushes a constant operand
// held by the instruction itself.
func (op Opcode) IsLoadConstant() bool {
	return op >= BIPUSH && op <= LDC2_W
}
