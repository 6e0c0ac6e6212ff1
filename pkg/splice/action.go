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
	"github.com/consensys/go-splice/pkg/insn"
)

// Action is a structural edit applied at a matched window.  Actions are
// applied in two phases: a check which may reject the edit, followed by a
// commit which cannot fail.  Thus, either the edit is applied in full or the
// sequence is left untouched.
type Action interface {
	// Name returns a short name identifying the kind of this action.
	Name() string
	// Check whether this action can be applied to a given window, without
	// modifying the sequence.
	check(seq *insn.Sequence, window []*insn.Node) error
	// Commit this action on a window which has already been checked.
	commit(seq *insn.Sequence, window []*insn.Node)
}

// Apply a given action at a matched window of a sequence.  The sequence is
// unchanged if an error is returned.
func Apply(seq *insn.Sequence, m Match, action Action) error {
	if action == nil {
		return &SpliceError{"apply", "no action given"}
	}
	//
	window, err := resolveWindow(action, seq, m)
	//
	if err != nil {
		return err
	} else if err = action.check(seq, window); err != nil {
		return err
	}
	//
	action.commit(seq, window)
	//
	return nil
}

// Collect the nodes of a matched window, checking they lie within the sequence.
func resolveWindow(action Action, seq *insn.Sequence, m Match) ([]*insn.Node, error) {
	if m.Start == nil || m.Start.List() != seq {
		return nil, spliceError(action, "match does not belong to sequence")
	} else if m.Length == 0 {
		return nil, spliceError(action, "empty match")
	}
	//
	window := make([]*insn.Node, 0, m.Length)
	//
	for node := m.Start; uint(len(window)) < m.Length; node = node.Next() {
		if node == nil {
			return nil, spliceError(action, "match of length %d at offset %d exceeds sequence bounds", m.Length, m.Offset)
		}
		//
		window = append(window, node)
	}
	//
	return window, nil
}

// ============================================================================
// InsertBefore
// ============================================================================

// InsertBefore splices instructions immediately before the matched window.
type InsertBefore struct {
	Code []insn.Instruction
}

// Name implementation for Action interface.
func (p *InsertBefore) Name() string {
	return "insert-before"
}

func (p *InsertBefore) check(seq *insn.Sequence, window []*insn.Node) error {
	return checkLabels(p, seq, nil, p.Code)
}

func (p *InsertBefore) commit(seq *insn.Sequence, window []*insn.Node) {
	seq.InsertBefore(window[0], p.Code...)
}

// ============================================================================
// InsertAfter
// ============================================================================

// InsertAfter splices instructions immediately after the last node of the
// matched window.
type InsertAfter struct {
	Code []insn.Instruction
}

// Name implementation for Action interface.
func (p *InsertAfter) Name() string {
	return "insert-after"
}

func (p *InsertAfter) check(seq *insn.Sequence, window []*insn.Node) error {
	return checkLabels(p, seq, nil, p.Code)
}

func (p *InsertAfter) commit(seq *insn.Sequence, window []*insn.Node) {
	seq.InsertAfter(window[len(window)-1], p.Code...)
}

// ============================================================================
// Replace
// ============================================================================

// Replace removes the matched window and splices instructions in its place.
type Replace struct {
	Code []insn.Instruction
}

// Name implementation for Action interface.
func (p *Replace) Name() string {
	return "replace"
}

func (p *Replace) check(seq *insn.Sequence, window []*insn.Node) error {
	return checkLabels(p, seq, window, p.Code)
}

func (p *Replace) commit(seq *insn.Sequence, window []*insn.Node) {
	seq.InsertBefore(window[0], p.Code...)
	//
	for _, node := range window {
		seq.Remove(node)
	}
}

// ============================================================================
// RemoveOne
// ============================================================================

// RemoveOne removes the first node of the matched window only.
type RemoveOne struct{}

// Name implementation for Action interface.
func (p *RemoveOne) Name() string {
	return "remove"
}

func (p *RemoveOne) check(seq *insn.Sequence, window []*insn.Node) error {
	return checkLabels(p, seq, window[:1], nil)
}

func (p *RemoveOne) commit(seq *insn.Sequence, window []*insn.Node) {
	seq.Remove(window[0])
}

// ============================================================================
// RedirectJump
// ============================================================================

// RedirectJump retargets the first jump within the matched window to a given
// label.  No nodes are moved; the jump keeps its opcode and position.
type RedirectJump struct {
	Target *insn.Label
}

// Name implementation for Action interface.
func (p *RedirectJump) Name() string {
	return "redirect"
}

func (p *RedirectJump) check(seq *insn.Sequence, window []*insn.Node) error {
	if p.Target == nil {
		return spliceError(p, "no target label")
	} else if findJump(window) == nil {
		return spliceError(p, "no jump within match")
	}
	//
	marked, _ := scanLabels(seq, nil)
	//
	if !marked[p.Target] {
		return spliceError(p, "target label %s is not placed in sequence", p.Target.Name())
	}
	//
	return nil
}

func (p *RedirectJump) commit(seq *insn.Sequence, window []*insn.Node) {
	node := findJump(window)
	jump := node.Value.(*insn.Jump)
	// Instructions may be shared between sequences, so the node receives a
	// fresh jump rather than having its current one mutated.
	node.Value = &insn.Jump{Op: jump.Op, Target: p.Target}
}

func findJump(window []*insn.Node) *insn.Node {
	for _, node := range window {
		if j, ok := node.Value.(*insn.Jump); ok && j != nil {
			return node
		}
	}
	//
	return nil
}

// ============================================================================
// Label integrity
// ============================================================================

// Check that, after removing a set of nodes and inserting some code, every
// label is placed at most once, every jump in the inserted code has a placed
// target, and no jump loses a target which was placed before the edit.
func checkLabels(action Action, seq *insn.Sequence, removed []*insn.Node, code []insn.Instruction) error {
	before, _ := scanLabels(seq, nil)
	after, referenced := scanLabels(seq, removed)
	//
	var targets []*insn.Label
	//
	for _, instr := range code {
		if insn.IsNil(instr) {
			return spliceError(action, "nil instruction in replacement code")
		}
		//
		switch i := instr.(type) {
		case *insn.LabelInsn:
			if i.Label == nil {
				return spliceError(action, "label marker without label")
			} else if after[i.Label] {
				return spliceError(action, "label %s placed twice", i.Label.Name())
			}
			//
			after[i.Label] = true
		case *insn.Jump:
			if i.Target == nil {
				return spliceError(action, "%s without target", i.Op)
			}
			//
			targets = append(targets, i.Target)
		}
	}
	//
	for _, label := range targets {
		if !after[label] {
			return spliceError(action, "jump target %s is not placed", label.Name())
		}
	}
	//
	for label := range referenced {
		if before[label] && !after[label] {
			return spliceError(action, "label %s is still targeted by a jump", label.Name())
		}
	}
	//
	return nil
}

// Determine which labels are placed, and which are targeted by jumps, within
// a sequence ignoring a given set of nodes.
func scanLabels(seq *insn.Sequence, ignore []*insn.Node) (map[*insn.Label]bool, map[*insn.Label]bool) {
	var (
		marked     = make(map[*insn.Label]bool)
		referenced = make(map[*insn.Label]bool)
		skip       = make(map[*insn.Node]bool, len(ignore))
	)
	//
	for _, node := range ignore {
		skip[node] = true
	}
	//
	for node := seq.Front(); node != nil; node = node.Next() {
		if skip[node] {
			continue
		}
		//
		switch i := node.Value.(type) {
		case *insn.LabelInsn:
			if i != nil {
				marked[i.Label] = true
			}
		case *insn.Jump:
			if i != nil {
				referenced[i.Target] = true
			}
		}
	}
	//
	return marked, referenced
}
