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
package rules

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/consensys/go-splice/pkg/insn"
	"github.com/consensys/go-splice/pkg/insn/listing"
	"github.com/consensys/go-splice/pkg/match"
	"github.com/consensys/go-splice/pkg/splice"
	"gopkg.in/yaml.v3"
)

// Action names accepted in rule files.
const (
	INSERT_BEFORE = "insert-before"
	INSERT_AFTER  = "insert-after"
	REPLACE       = "replace"
	REMOVE        = "remove"
	REDIRECT      = "redirect"
)

// File is the top-level structure of a rule file.
type File struct {
	Rules []Spec `yaml:"rules"`
}

// MethodSpec identifies the method targeted by a rule.
type MethodSpec struct {
	Name string `yaml:"name"`
	Alt  string `yaml:"alt,omitempty"`
	Desc string `yaml:"desc,omitempty"`
}

// Spec is the declarative form of a single rule.  Pattern slots and code lines
// use the listing syntax.  Code is only parsed once the rule's anchor has been
// found, so that an error in it is reported against that rule alone.
type Spec struct {
	Name   string     `yaml:"name"`
	Class  string     `yaml:"class"`
	Method MethodSpec `yaml:"method"`
	Match  []string   `yaml:"match"`
	Action string     `yaml:"action"`
	Code   []string   `yaml:"code,omitempty"`
	Target string     `yaml:"target,omitempty"`
}

// Load reads and compiles a rule file from disk.
func Load(filename string) ([]splice.Rule, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	//
	rules, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	//
	return rules, nil
}

// LoadAll reads and compiles several rule files, concatenating their rules in
// order.  Rule names must be unique across all files, so that every outcome
// can be traced back to exactly one rule.
func LoadAll(filenames ...string) ([]splice.Rule, error) {
	var (
		all   []splice.Rule
		names = make(map[string]string)
	)
	//
	for _, filename := range filenames {
		rules, err := Load(filename)
		if err != nil {
			return nil, err
		}
		//
		for _, rule := range rules {
			if prev, ok := names[rule.Name]; ok {
				return nil, fmt.Errorf("%s: rule %q already defined in %s", filename, rule.Name, prev)
			}
			//
			names[rule.Name] = filename
		}
		//
		all = append(all, rules...)
	}
	//
	return all, nil
}

// Parse decodes and compiles the rules of a rule file.  Unknown keys are
// rejected.
func Parse(data []byte) ([]splice.Rule, error) {
	var file File
	//
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	//
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	//
	rules := make([]splice.Rule, len(file.Rules))
	names := make(map[string]bool)
	//
	for i, spec := range file.Rules {
		rule, err := spec.Compile()
		//
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		} else if names[rule.Name] {
			return nil, fmt.Errorf("rule %d: duplicate rule name %q", i+1, rule.Name)
		}
		//
		names[rule.Name] = true
		rules[i] = rule
	}
	//
	return rules, nil
}

// Compile checks a rule specification and turns it into a rule.
func (p *Spec) Compile() (splice.Rule, error) {
	var rule splice.Rule
	//
	switch {
	case p.Name == "":
		return rule, errors.New("missing name")
	case p.Class == "":
		return rule, fmt.Errorf("%s: missing class", p.Name)
	case p.Method.Name == "":
		return rule, fmt.Errorf("%s: missing method name", p.Name)
	case len(p.Match) == 0:
		return rule, fmt.Errorf("%s: empty match", p.Name)
	}
	//
	pattern := make(match.Window, len(p.Match))
	//
	for i, slot := range p.Match {
		predicate, err := listing.ParsePattern(slot)
		if err != nil {
			return rule, fmt.Errorf("%s: match slot %d: %w", p.Name, i, err)
		}
		//
		pattern[i] = predicate
	}
	//
	edit, err := p.compileEdit()
	if err != nil {
		return rule, fmt.Errorf("%s: %w", p.Name, err)
	}
	//
	return splice.Rule{
		Name:    p.Name,
		Class:   p.Class,
		Method:  splice.MethodRef{Name: match.NewName(p.Method.Name, p.Method.Alt), Desc: p.Method.Desc},
		Pattern: pattern,
		Edit:    edit,
	}, nil
}

func (p *Spec) compileEdit() (splice.EditFunc, error) {
	switch p.Action {
	case INSERT_BEFORE, INSERT_AFTER, REPLACE:
		if p.Target != "" {
			return nil, fmt.Errorf("%s takes no target", p.Action)
		}
		//
		return p.codeEdit(), nil
	case REMOVE:
		if len(p.Code) != 0 || p.Target != "" {
			return nil, errors.New("remove takes neither code nor target")
		}
		//
		return splice.Static(&splice.RemoveOne{}), nil
	case REDIRECT:
		if len(p.Code) != 0 || p.Target == "" {
			return nil, errors.New("redirect requires a target and no code")
		}
		//
		return p.redirectEdit(), nil
	default:
		return nil, fmt.Errorf("unknown action %q", p.Action)
	}
}

// Construct an edit which parses the code of this rule against the method it
// is applied to.  Labels already placed in the method are reused, others are
// created fresh.
func (p *Spec) codeEdit() splice.EditFunc {
	action, lines := p.Action, p.Code
	//
	return func(method *splice.Method, _ splice.Match) (splice.Action, error) {
		var (
			code   = make([]insn.Instruction, len(lines))
			labels = make(map[string]*insn.Label)
		)
		//
		resolve := func(name string) *insn.Label {
			if l, ok := labels[name]; ok {
				return l
			} else if l = method.FindLabel(name); l == nil {
				labels[name] = insn.NewLabel(name)
			} else {
				labels[name] = l
			}
			//
			return labels[name]
		}
		//
		for i, line := range lines {
			instr, err := listing.ParseInstruction(line, resolve)
			if err != nil {
				return nil, fmt.Errorf("code line %d: %w", i+1, err)
			}
			//
			code[i] = instr
		}
		//
		switch action {
		case INSERT_BEFORE:
			return &splice.InsertBefore{Code: code}, nil
		case INSERT_AFTER:
			return &splice.InsertAfter{Code: code}, nil
		default:
			return &splice.Replace{Code: code}, nil
		}
	}
}

func (p *Spec) redirectEdit() splice.EditFunc {
	target := p.Target
	//
	return func(method *splice.Method, _ splice.Match) (splice.Action, error) {
		label := method.FindLabel(target)
		//
		if label == nil {
			return nil, fmt.Errorf("label %s not found in %s", target, method)
		}
		//
		return &splice.RedirectJump{Target: label}, nil
	}
}
