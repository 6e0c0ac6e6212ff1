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
	"fmt"

	"github.com/consensys/go-splice/pkg/util/logging"
	log "github.com/sirupsen/logrus"
)

// Subsystem is the tag given to diagnostics emitted by the transformer.
const Subsystem = "splice"

// Outcome records the result of attempting one rule on one method.
type Outcome struct {
	Rule   string
	Class  string
	Method string
	// Action applied, if any.
	Action string
	// Offset of the matched anchor, when one was found.
	Offset uint
	// Err is nil on success, or one of PatternNotFound, EditConstructionFault
	// or SpliceError.
	Err error
}

// Ok reports whether the rule was applied.
func (p Outcome) Ok() bool {
	return p.Err == nil
}

// Transformer applies an ordered list of rules to classes.  Rules are
// attempted exactly once per class, in order, with each edit committed (or
// skipped) before the next rule's search begins.  A rule which fails never
// prevents later rules from running.
type Transformer struct {
	rules  []Rule
	logger *log.Entry
}

// NewTransformer constructs a transformer for a given list of rules, reporting
// to the standard logger.
func NewTransformer(rules ...Rule) *Transformer {
	return &Transformer{rules, logging.For(Subsystem)}
}

// WithLogger directs diagnostics to a given logger.
func (t *Transformer) WithLogger(logger *log.Logger) *Transformer {
	t.logger = logger.WithField(logging.SubsystemKey, Subsystem)
	return t
}

// TransformAll transforms each class in turn, returning all outcomes.
func (t *Transformer) TransformAll(classes ...*Class) []Outcome {
	var outcomes []Outcome
	//
	for _, class := range classes {
		outcomes = append(outcomes, t.Transform(class)...)
	}
	//
	return outcomes
}

// Transform applies every rule targeting a given class, editing its methods in
// place.  One outcome is returned (and reported) for each method a rule was
// attempted on, or for each rule whose method could not be found.
func (t *Transformer) Transform(class *Class) []Outcome {
	var outcomes []Outcome
	//
	for _, rule := range t.rules {
		if rule.Class != class.Name {
			continue
		}
		//
		found := false
		//
		for _, method := range class.Methods {
			if rule.Method.Matches(method) {
				found = true
				outcomes = append(outcomes, t.report(t.apply(class, method, rule)))
			}
		}
		//
		if !found {
			outcomes = append(outcomes, t.report(Outcome{
				Rule:  rule.Name,
				Class: class.Name,
				Err:   &PatternNotFound{rule.Name, class.Name, ""},
			}))
		}
	}
	//
	return outcomes
}

// Apply a single rule to a single method.  Faults raised whilst constructing
// the edit are recovered and reported against the rule, as are any raised
// whilst searching or editing a malformed sequence.
func (t *Transformer) apply(class *Class, method *Method, rule Rule) (outcome Outcome) {
	outcome = Outcome{Rule: rule.Name, Class: class.Name, Method: method.String()}
	//
	defer func() {
		if r := recover(); r != nil {
			outcome.Err = &SpliceError{"apply", fmt.Sprintf("%v", r)}
		}
	}()
	//
	m, ok := FindFirst(method.Code, rule.Pattern)
	if !ok {
		outcome.Err = &PatternNotFound{rule.Name, class.Name, method.String()}
		return outcome
	}
	//
	outcome.Offset = m.Offset
	//
	action, err := construct(rule, method, m)
	if err != nil {
		outcome.Err = &EditConstructionFault{rule.Name, err}
		return outcome
	}
	//
	outcome.Action = action.Name()
	outcome.Err = Apply(method.Code, m, action)
	//
	return outcome
}

func construct(rule Rule, method *Method, m Match) (action Action, err error) {
	defer func() {
		if r := recover(); r != nil {
			action, err = nil, fmt.Errorf("%v", r)
		}
	}()
	//
	if rule.Edit == nil {
		return nil, errors.New("no edit given")
	}
	//
	action, err = rule.Edit(method, m)
	//
	if err == nil && action == nil {
		err = errors.New("no action constructed")
	}
	//
	return action, err
}

// Emit exactly one diagnostic line for an outcome.
func (t *Transformer) report(outcome Outcome) Outcome {
	var (
		notFound *PatternNotFound
		entry    = t.logger.WithField("rule", outcome.Rule)
	)
	//
	target := outcome.Class
	if outcome.Method != "" {
		target = fmt.Sprintf("%s.%s", outcome.Class, outcome.Method)
	}
	//
	switch {
	case outcome.Err == nil:
		entry.Infof("applied %s at offset %d in %s", outcome.Action, outcome.Offset, target)
	case errors.As(outcome.Err, &notFound):
		entry.Warnf("pattern not found in %s", target)
	default:
		entry.Errorf("failed in %s: %v", target, outcome.Err)
	}
	//
	return outcome
}
