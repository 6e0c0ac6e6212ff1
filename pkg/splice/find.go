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
	"github.com/consensys/go-splice/pkg/match"
)

// Match identifies the window of a sequence at which a pattern was found.
type Match struct {
	// First node of the window.
	Start *insn.Node
	// Offset of the first node from the front of the sequence.
	Offset uint
	// Number of nodes in the window.
	Length uint
}

// FindFirst scans a sequence from front to back and returns the first window
// at which the given pattern is satisfied.  Later matches are never
// considered, even when equally valid.
func FindFirst(seq *insn.Sequence, pattern match.Window) (Match, bool) {
	k := pattern.Len()
	//
	if k == 0 || seq.Len() < k {
		return Match{}, false
	}
	//
	var (
		last   = seq.Len() - k
		offset uint
	)
	//
	for node := seq.Front(); node != nil && offset <= last; node = node.Next() {
		if pattern.MatchesAt(node) {
			return Match{node, offset, k}, true
		}
		//
		offset++
	}
	//
	return Match{}, false
}

// Splice locates the first match of a pattern and applies an action there.  It
// reports whether the pattern was found; the sequence is unchanged if it was
// not, or if an error is returned.
func Splice(seq *insn.Sequence, pattern match.Window, action Action) (Match, bool, error) {
	m, ok := FindFirst(seq, pattern)
	//
	if !ok {
		return m, false, nil
	}
	//
	return m, true, Apply(seq, m, action)
}
