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

import "fmt"

// PatternNotFound signals that the anchor a rule looks for is absent from its
// target.  This is an expected outcome (for example, when the target program
// has changed upstream) and leaves the target untouched.
type PatternNotFound struct {
	Rule   string
	Class  string
	Method string
}

func (p *PatternNotFound) Error() string {
	if p.Method == "" {
		return fmt.Sprintf("rule %s: no matching method in %s", p.Rule, p.Class)
	}
	//
	return fmt.Sprintf("rule %s: pattern not found in %s.%s", p.Rule, p.Class, p.Method)
}

// EditConstructionFault signals that building the edit for a rule failed, for
// example because a replacement instruction carried a malformed descriptor.
type EditConstructionFault struct {
	Rule  string
	Cause error
}

func (p *EditConstructionFault) Error() string {
	return fmt.Sprintf("rule %s: constructing edit: %v", p.Rule, p.Cause)
}

// Unwrap returns the underlying cause.
func (p *EditConstructionFault) Unwrap() error {
	return p.Cause
}

// SpliceError signals that a structural edit could not be applied.  When this
// is returned the sequence has not been modified.
type SpliceError struct {
	Action string
	Reason string
}

func (p *SpliceError) Error() string {
	return fmt.Sprintf("%s: %s", p.Action, p.Reason)
}

func spliceError(action Action, format string, args ...any) *SpliceError {
	return &SpliceError{action.Name(), fmt.Sprintf(format, args...)}
}
