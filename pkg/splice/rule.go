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

// Method is a single method of a class being transformed.  The code sequence
// is owned by the caller, and is edited in place.
type Method struct {
	Name string
	Desc string
	Code *insn.Sequence
}

// FindLabel returns the first label placed in this method with a given name,
// or nil if there is none.
func (p *Method) FindLabel(name string) *insn.Label {
	for node := p.Code.Front(); node != nil; node = node.Next() {
		if l, ok := node.Value.(*insn.LabelInsn); ok && l.Label.Name() == name {
			return l.Label
		}
	}
	//
	return nil
}

func (p *Method) String() string {
	return p.Name + p.Desc
}

// Class is a named collection of methods.
type Class struct {
	Name    string
	Methods []*Method
}

// MethodRef identifies a method by its (dual) name and descriptor.  An empty
// descriptor matches any overload.
type MethodRef struct {
	Name match.Name
	Desc string
}

// Matches checks whether a given method is the one identified.
func (p MethodRef) Matches(method *Method) bool {
	return p.Name.Matches(method.Name) && (p.Desc == "" || p.Desc == method.Desc)
}

func (p MethodRef) String() string {
	return p.Name.String() + p.Desc
}

// EditFunc constructs the action to apply once the anchor of a rule has been
// located in a given method.  Construction is deferred until then so that,
// for example, labels can be resolved against the method in question.
type EditFunc func(method *Method, at Match) (Action, error)

// Static constructs an edit function which always returns the given action.
func Static(action Action) EditFunc {
	return func(*Method, Match) (Action, error) {
		return action, nil
	}
}

// Rule describes a single instrumentation: the class and method it targets,
// the anchor pattern to locate within that method, and the edit to apply at
// the first occurrence of the anchor.
type Rule struct {
	// Name identifies this rule in diagnostics.
	Name string
	// Class is the internal name of the class targeted.
	Class string
	// Method identifies the method(s) targeted.
	Method MethodRef
	// Pattern is the anchor window.
	Pattern match.Window
	// Edit constructs the action applied at the anchor.
	Edit EditFunc
}
