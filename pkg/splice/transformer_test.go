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
package splice

import (
	"errors"
	"testing"

	"github.com/consensys/go-splice/pkg/insn"
	"github.com/consensys/go-splice/pkg/match"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entityClass() *Class {
	return &Class{
		Name: entity,
		Methods: []*Method{
			{Name: "func_174824_e", Desc: eyeDesc, Code: eyeSequence()},
			{Name: "getLook", Desc: eyeDesc, Code: eyeSequence()},
		},
	}
}

func eyeRule(name string, edit EditFunc) Rule {
	return Rule{
		Name:    name,
		Class:   entity,
		Method:  MethodRef{eyeName, eyeDesc},
		Pattern: match.Window{match.MethodCall(insn.INVOKEVIRTUAL, entity, eyeName, eyeDesc)},
		Edit:    edit,
	}
}

func newTransformer(rules ...Rule) (*Transformer, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	//
	return NewTransformer(rules...).WithLogger(logger), hook
}

func Test_Transformer_01(t *testing.T) {
	class := entityClass()
	tr, hook := newTransformer(eyeRule("eye", Static(&InsertAfter{hookCode()})))
	//
	outcomes := tr.Transform(class)
	//
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Ok())
	assert.Equal(t, uint(1), outcomes[0].Offset)
	assert.Equal(t, "insert-after", outcomes[0].Action)
	assert.Equal(t, uint(5), class.Methods[0].Code.Len())
	// Methods not targeted are untouched.
	assert.Equal(t, uint(3), class.Methods[1].Code.Len())
	// One diagnostic line per outcome.
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, log.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, Subsystem, hook.LastEntry().Data["subsystem"])
	assert.Equal(t, "eye", hook.LastEntry().Data["rule"])
}

func Test_Transformer_02(t *testing.T) {
	class := entityClass()
	rule := eyeRule("eye", Static(&InsertAfter{hookCode()}))
	rule.Pattern = match.Window{match.MethodCall(insn.INVOKEVIRTUAL, entity, match.NewName("nope", "func_99999_z"), eyeDesc)}
	tr, hook := newTransformer(rule)
	//
	outcomes := tr.Transform(class)
	//
	require.Len(t, outcomes, 1)
	//
	var notFound *PatternNotFound
	require.True(t, errors.As(outcomes[0].Err, &notFound))
	assert.Equal(t, "eye", notFound.Rule)
	assert.Equal(t, uint(3), class.Methods[0].Code.Len())
	assert.Equal(t, log.WarnLevel, hook.LastEntry().Level)
}

func Test_Transformer_03(t *testing.T) {
	// A faulting rule does not prevent later rules from running.
	class := entityClass()
	faulty := eyeRule("faulty", func(*Method, Match) (Action, error) {
		code, err := insn.NewBuilder().Invoke(insn.INVOKESTATIC, hooks, "offset", "(Lbroken").Build()
		return &InsertAfter{code}, err
	})
	panicky := eyeRule("panicky", func(*Method, Match) (Action, error) {
		panic("index out of range")
	})
	good := eyeRule("good", Static(&InsertBefore{hookCode()}))
	tr, hook := newTransformer(faulty, panicky, good)
	//
	outcomes := tr.Transform(class)
	//
	require.Len(t, outcomes, 3)
	//
	var fault *EditConstructionFault
	require.True(t, errors.As(outcomes[0].Err, &fault))
	assert.Equal(t, "faulty", fault.Rule)
	require.True(t, errors.As(outcomes[1].Err, &fault))
	assert.Contains(t, fault.Error(), "index out of range")
	assert.True(t, outcomes[2].Ok())
	assert.Equal(t, uint(5), class.Methods[0].Code.Len())
	//
	levels := []log.Level{log.ErrorLevel, log.ErrorLevel, log.InfoLevel}
	for i, e := range hook.AllEntries() {
		assert.Equal(t, levels[i], e.Level)
	}
}

func Test_Transformer_04(t *testing.T) {
	// Later rules observe the edits of earlier rules.
	class := entityClass()
	first := eyeRule("first", Static(&InsertAfter{hookCode()}))
	second := Rule{
		Name:    "second",
		Class:   entity,
		Method:  MethodRef{eyeName, ""},
		Pattern: match.Window{match.MethodCall(insn.INVOKESTATIC, hooks, match.NewName("offset", ""), hookDsc)},
		Edit:    Static(&InsertAfter{[]insn.Instruction{&insn.Plain{Op: insn.DUP}, &insn.Plain{Op: insn.POP}}}),
	}
	tr, _ := newTransformer(first, second)
	//
	outcomes := tr.Transform(class)
	//
	require.Len(t, outcomes, 2)
	assert.True(t, outcomes[1].Ok(), "%v", outcomes[1].Err)
	assert.Equal(t, uint(3), outcomes[1].Offset)
	assert.Equal(t, uint(7), class.Methods[0].Code.Len())
}

func Test_Transformer_05(t *testing.T) {
	// Rules for other classes are ignored, rules whose method is absent
	// report the pattern as missing.
	class := entityClass()
	other := eyeRule("other", Static(&RemoveOne{}))
	other.Class = "net/minecraft/world/World"
	missing := eyeRule("missing", Static(&RemoveOne{}))
	missing.Method = MethodRef{match.NewName("getEyeHeight", "func_70047_e"), "()F"}
	tr, _ := newTransformer(other, missing)
	//
	outcomes := tr.Transform(class)
	//
	require.Len(t, outcomes, 1)
	assert.Equal(t, "missing", outcomes[0].Rule)
	assert.Empty(t, outcomes[0].Method)
	//
	var notFound *PatternNotFound
	assert.True(t, errors.As(outcomes[0].Err, &notFound))
}

func Test_Transformer_06(t *testing.T) {
	// Structural failures are reported as faults and leave the method as it was.
	class := entityClass()
	rule := eyeRule("redirect", func(m *Method, _ Match) (Action, error) {
		return &RedirectJump{m.FindLabel("L9")}, nil
	})
	tr, hook := newTransformer(rule, eyeRule("nil", func(*Method, Match) (Action, error) { return nil, nil }))
	//
	outcomes := tr.TransformAll(class)
	//
	require.Len(t, outcomes, 2)
	//
	var serr *SpliceError
	assert.True(t, errors.As(outcomes[0].Err, &serr))
	//
	var fault *EditConstructionFault
	assert.True(t, errors.As(outcomes[1].Err, &fault))
	assert.Equal(t, uint(3), class.Methods[0].Code.Len())
	assert.Equal(t, log.ErrorLevel, hook.LastEntry().Level)
}

func Test_Transformer_07(t *testing.T) {
	// A malformed method body, or a predicate which panics, fails the rule
	// concerned without stopping the others.
	class := entityClass()
	code := class.Methods[0].Code
	code.InsertBefore(code.Front(), (*insn.Plain)(nil))
	//
	nop := eyeRule("nop", Static(&RemoveOne{}))
	nop.Pattern = match.Window{match.Opcode(insn.NOP)}
	broken := eyeRule("broken", Static(&RemoveOne{}))
	broken.Pattern = match.Window{func(insn.Instruction) bool { panic("unreadable instruction") }}
	eye := eyeRule("eye", Static(&InsertAfter{hookCode()}))
	tr, hook := newTransformer(nop, broken, eye)
	//
	outcomes := tr.Transform(class)
	//
	require.Len(t, outcomes, 3)
	//
	var notFound *PatternNotFound
	assert.True(t, errors.As(outcomes[0].Err, &notFound))
	//
	var serr *SpliceError
	require.True(t, errors.As(outcomes[1].Err, &serr))
	assert.Contains(t, serr.Error(), "unreadable instruction")
	//
	assert.True(t, outcomes[2].Ok(), "%v", outcomes[2].Err)
	assert.Equal(t, uint(2), outcomes[2].Offset)
	assert.Equal(t, uint(6), code.Len())
	assert.Len(t, hook.AllEntries(), 3)
}

func Test_Method_01(t *testing.T) {
	l1 := insn.NewLabel("L1")
	m := &Method{Name: "tick", Desc: "()V", Code: insn.NewSequence(&insn.Plain{Op: insn.NOP}, &insn.LabelInsn{Label: l1})}
	//
	assert.Same(t, l1, m.FindLabel("L1"))
	assert.Nil(t, m.FindLabel("L2"))
	assert.Equal(t, "tick()V", m.String())
	assert.True(t, MethodRef{match.NewName("onUpdate", "tick"), ""}.Matches(m))
	assert.False(t, MethodRef{match.NewName("tick", ""), "(I)V"}.Matches(m))
}
