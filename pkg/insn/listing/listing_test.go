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
	"bytes"
	"strings"
	"testing"

	"github.com/consensys/go-splice/pkg/insn"
	"github.com/consensys/go-splice/pkg/util/source"
)

const eyeListing = `// Entity eye position
class net/minecraft/entity/Entity
method getEyePosition (F)Lnet/minecraft/util/math/Vec3d;
	ALOAD 0
	FLOAD 1
	FCONST_0
	FCMPL
	IFEQ L1
	ALOAD 0
	INVOKEVIRTUAL net/minecraft/entity/Entity.getEyePosition (F)Lnet/minecraft/util/math/Vec3d;
	ARETURN
L1:
	GETSTATIC net/minecraft/util/math/Vec3d.ZERO Lnet/minecraft/util/math/Vec3d;
	ARETURN
end
`

func newResolver() LabelResolver {
	labels := make(map[string]*insn.Label)
	//
	return func(name string) *insn.Label {
		if _, ok := labels[name]; !ok {
			labels[name] = insn.NewLabel(name)
		}
		//
		return labels[name]
	}
}

func Test_Instruction_01(t *testing.T) {
	checks := []string{
		"NOP",
		"ALOAD 3",
		"INVOKESTATIC hooks/Offsets.offset (DLnet/Entity;)D",
		"GETFIELD net/Entity.posY D",
		"IFNULL L7",
		"LDC 0.5D",
		"LDC -3",
		"LDC2_W 7L",
		"LDC 2.5F",
		"LDC \"hello world\"",
		"BIPUSH 12",
		"CHECKCAST java/lang/String",
		"L3:",
	}
	//
	for _, text := range checks {
		instr, err := ParseInstruction(text, newResolver())
		//
		if err != nil {
			t.Errorf("unexpected error for %q: %v", text, err)
		} else if instr.String() != text {
			t.Errorf("expected %q, got %q", text, instr.String())
		}
	}
}

func Test_Instruction_02(t *testing.T) {
	checks := []string{
		"",
		"BOGUS",
		"ALOAD",
		"ALOAD x",
		"INVOKESTATIC hooks/Offsets.offset",
		"INVOKESTATIC offset (D)D",
		"INVOKESTATIC hooks/Offsets.offset (D",
		"INVOKEVIRTUAL a/B.c|d ()V",
		"GETFIELD a/B.c ()V",
		"GOTO",
		"GOTO L1 L2",
		"LDC \"unterminated",
		"BIPUSH 1000",
		"LDC 1.5X",
	}
	//
	for _, text := range checks {
		if _, err := ParseInstruction(text, newResolver()); err == nil {
			t.Errorf("expected error for %q", text)
		}
	}
}

func Test_Instruction_03(t *testing.T) {
	resolve := newResolver()
	jump, _ := ParseInstruction("GOTO L1", resolve)
	label, _ := ParseInstruction("L1:", resolve)
	//
	if jump.(*insn.Jump).Target != label.(*insn.LabelInsn).Label {
		t.Errorf("labels not shared")
	}
}

func Test_Pattern_01(t *testing.T) {
	call := &insn.MethodCall{Op: insn.INVOKEVIRTUAL, Owner: "a/B", Name: "func_1_a", Desc: "()V"}
	checks := []struct {
		pattern string
		instr   insn.Instruction
		matches bool
	}{
		{"*", call, true},
		{"INVOKEVIRTUAL", call, true},
		{"INVOKESTATIC", call, false},
		{"INVOKEVIRTUAL a/B.run|func_1_a ()V", call, true},
		{"INVOKEVIRTUAL a/B.run|func_2_b ()V", call, false},
		{"INVOKEVIRTUAL a/B.run|func_1_a (I)V", call, false},
		{"ALOAD 1", &insn.VarAccess{Op: insn.ALOAD, Slot: 1}, true},
		{"ALOAD 1", &insn.VarAccess{Op: insn.ALOAD, Slot: 2}, false},
		{"IFEQ L9", &insn.Jump{Op: insn.IFEQ, Target: insn.NewLabel("L1")}, true},
		{"L9:", &insn.LabelInsn{Label: insn.NewLabel("L1")}, true},
		{"LDC 0.5D", &insn.Constant{Op: insn.LDC, Value: 0.5}, true},
		{"LDC 0.5D", &insn.Constant{Op: insn.LDC_W, Value: 0.5}, false},
		{"GETFIELD a/B.x|field_1 D", &insn.FieldAccess{Op: insn.GETFIELD, Owner: "a/B", Name: "field_1", Desc: "D"}, true},
		{"CHECKCAST java/lang/Object", &insn.Plain{Op: insn.CHECKCAST, Operand: "java/lang/String"}, true},
		{"= CHECKCAST java/lang/Object", &insn.Plain{Op: insn.CHECKCAST, Operand: "java/lang/String"}, false},
		{"= CHECKCAST java/lang/String", &insn.Plain{Op: insn.CHECKCAST, Operand: "java/lang/String"}, true},
		{"=ALOAD 1", &insn.VarAccess{Op: insn.ALOAD, Slot: 1}, true},
		{"= GOTO L3", &insn.Jump{Op: insn.GOTO, Target: insn.NewLabel("L1")}, true},
		{"= GOTO L3", (*insn.Jump)(nil), false},
	}
	//
	for _, c := range checks {
		p, err := ParsePattern(c.pattern)
		//
		if err != nil {
			t.Errorf("unexpected error for %q: %v", c.pattern, err)
		} else if p(c.instr) != c.matches {
			t.Errorf("pattern %q against %s: expected %t", c.pattern, c.instr, c.matches)
		}
	}
}

func Test_Pattern_02(t *testing.T) {
	for _, text := range []string{"", "FOO", "ALOAD -1", "INVOKEVIRTUAL a/B.|x ()V", "INVOKEVIRTUAL a/B.x|y|z ()V", "=", "= INVOKEVIRTUAL a/B.x|y ()V"} {
		if _, err := ParsePattern(text); err == nil {
			t.Errorf("expected error for %q", text)
		}
	}
}

func Test_Listing_01(t *testing.T) {
	classes, errs := Parse(source.NewSourceFile("eye.jasm", []byte(eyeListing)))
	//
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	} else if len(classes) != 1 || len(classes[0].Methods) != 1 {
		t.Fatalf("unexpected classes: %v", classes)
	}
	//
	method := classes[0].Methods[0]
	if method.Code.Len() != 11 {
		t.Errorf("unexpected length %d", method.Code.Len())
	}
	//
	jump := method.Code.Nth(4).Value.(*insn.Jump)
	if jump.Target != method.FindLabel("L1") {
		t.Errorf("jump target not resolved")
	}
}

func Test_Listing_02(t *testing.T) {
	classes, _ := Parse(source.NewSourceFile("eye.jasm", []byte(eyeListing)))
	//
	var buf bytes.Buffer
	if err := Write(&buf, classes, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Writing is the inverse of parsing, modulo comments.
	expected := strings.SplitN(eyeListing, "\n", 2)[1]
	if buf.String() != expected {
		t.Errorf("unexpected listing:\n%s", buf.String())
	}
}

func Test_Listing_03(t *testing.T) {
	text := `class a/B
method run ()V
	GOTO L2
L1:
L1:
	BOGUS
	RETURN
end
method broken (
end
ALOAD 0
method tail ()V
	RETURN
`
	_, errs := Parse(source.NewSourceFile("bad.jasm", []byte(text)))
	//
	expected := []string{
		"bad.jasm:5: label L1 placed twice",
		"bad.jasm:6: unknown mnemonic \"BOGUS\"",
		"bad.jasm:3: label L2 is never placed",
		"bad.jasm:9: malformed method descriptor \"(\": missing ')'",
		"bad.jasm:10: unexpected \"end\" outside method",
		"bad.jasm:11: unexpected \"ALOAD\" outside method",
		"bad.jasm:12: method not terminated by \"end\"",
	}
	//
	if len(errs) != len(expected) {
		t.Fatalf("unexpected errors: %v", errs)
	}
	//
	for i, err := range errs {
		if err.Error() != expected[i] {
			t.Errorf("expected %q, got %q", expected[i], err.Error())
		}
	}
}

func Test_Listing_04(t *testing.T) {
	_, errs := Parse(source.NewSourceFile("bad.jasm", []byte("method run ()V\nend\n")))
	//
	if len(errs) == 0 || errs[0].Error() != "bad.jasm:1: method outside class" {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func Test_Listing_05(t *testing.T) {
	classes, _ := Parse(source.NewSourceFile("eye.jasm", []byte(eyeListing)))
	//
	var buf bytes.Buffer
	//
	err := WriteMethod(&buf, classes[0].Methods[0], func(node *insn.Node, text string) string {
		if node.Value.Opcode() == insn.ARETURN {
			return text + " ; exit"
		}
		//
		return text
	})
	//
	if err != nil || strings.Count(buf.String(), "; exit") != 2 {
		t.Errorf("unexpected output: %s (%v)", buf.String(), err)
	}
}
