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
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/consensys/go-splice/pkg/insn"
	"github.com/consensys/go-splice/pkg/splice"
	"github.com/consensys/go-splice/pkg/util/source"
)

// Parse reads a listing file into a set of classes.  A listing consists of
// class blocks, each containing method blocks:
//
//	class net/minecraft/entity/Entity
//	method getEyePosition (F)Lnet/minecraft/util/math/Vec3d;
//		ALOAD 0
//		...
//	end
//
// Blank lines, and lines starting with "//", are ignored.  Labels are scoped
// to the method in which they appear.
func Parse(srcfile *source.File) ([]*splice.Class, []source.SyntaxError) {
	p := parser{srcfile: srcfile}
	//
	for _, line := range srcfile.Lines() {
		p.parseLine(line)
	}
	//
	if p.method != nil {
		p.error(p.methodLine, "method not terminated by \"end\"")
	}
	//
	return p.classes, p.errors
}

type parser struct {
	srcfile *source.File
	classes []*splice.Class
	errors  []source.SyntaxError
	// Class currently being parsed
	class *splice.Class
	// Method currently being parsed, and the line on which it started.
	method     *splice.Method
	methodLine source.Line
	// Labels of the current method, the lines on which they were first
	// referenced and whether they have been placed.
	labels     map[string]*insn.Label
	referenced map[string]source.Line
	placed     map[string]bool
}

func (p *parser) parseLine(line source.Line) {
	text := strings.TrimSpace(line.String())
	//
	if text == "" || strings.HasPrefix(text, "//") {
		return
	}
	//
	keyword, rest, _ := strings.Cut(text, " ")
	rest = strings.TrimSpace(rest)
	//
	switch {
	case p.method != nil && keyword == "end":
		p.endMethod()
	case p.method != nil:
		p.parseInstruction(line, text)
	case keyword == "class":
		p.parseClass(line, rest)
	case keyword == "method":
		p.parseMethod(line, rest)
	default:
		p.error(line, fmt.Sprintf("unexpected %q outside method", keyword))
	}
}

func (p *parser) parseClass(line source.Line, rest string) {
	if rest == "" || strings.ContainsAny(rest, " \t") {
		p.error(line, "expected \"class <name>\"")
		return
	}
	//
	p.class = &splice.Class{Name: rest}
	p.classes = append(p.classes, p.class)
}

func (p *parser) parseMethod(line source.Line, rest string) {
	fields := strings.Fields(rest)
	//
	if p.class == nil {
		p.error(line, "method outside class")
		return
	} else if len(fields) != 2 {
		p.error(line, "expected \"method <name> <descriptor>\"")
		return
	} else if err := insn.ValidateMethodDescriptor(fields[1]); err != nil {
		p.error(line, err.Error())
		return
	}
	//
	p.method = &splice.Method{Name: fields[0], Desc: fields[1], Code: insn.NewSequence()}
	p.methodLine = line
	p.labels = make(map[string]*insn.Label)
	p.referenced = make(map[string]source.Line)
	p.placed = make(map[string]bool)
	p.class.Methods = append(p.class.Methods, p.method)
}

func (p *parser) parseInstruction(line source.Line, text string) {
	if name, ok := labelMarker(text); ok {
		if p.placed[name] {
			p.error(line, fmt.Sprintf("label %s placed twice", name))
			return
		}
		//
		p.placed[name] = true
	}
	//
	instr, err := ParseInstruction(text, func(name string) *insn.Label {
		if _, ok := p.referenced[name]; !ok {
			p.referenced[name] = line
		}
		//
		return p.label(name)
	})
	//
	if err != nil {
		p.error(line, err.Error())
		return
	}
	//
	p.method.Code.PushBack(instr)
}

func (p *parser) endMethod() {
	for _, name := range slices.Sorted(maps.Keys(p.referenced)) {
		if !p.placed[name] {
			p.error(p.referenced[name], fmt.Sprintf("label %s is never placed", name))
		}
	}
	//
	p.method = nil
}

func (p *parser) label(name string) *insn.Label {
	if l, ok := p.labels[name]; ok {
		return l
	}
	//
	l := insn.NewLabel(name)
	p.labels[name] = l
	//
	return l
}

func (p *parser) error(line source.Line, msg string) {
	p.errors = append(p.errors, *p.srcfile.SyntaxError(line.Span(), msg))
}

// Decorator adjusts the rendering of a single node, for example to highlight
// it.  The text given does not include indentation.
type Decorator func(node *insn.Node, text string) string

// Write renders a set of classes in the listing syntax accepted by Parse.
func Write(w io.Writer, classes []*splice.Class, decorate Decorator) error {
	for i, class := range classes {
		if i != 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		//
		if _, err := fmt.Fprintf(w, "class %s\n", class.Name); err != nil {
			return err
		}
		//
		for _, method := range class.Methods {
			if err := WriteMethod(w, method, decorate); err != nil {
				return err
			}
		}
	}
	//
	return nil
}

// WriteMethod renders a single method block.  Labels are written flush left,
// instructions indented by a tab.
func WriteMethod(w io.Writer, method *splice.Method, decorate Decorator) error {
	if _, err := fmt.Fprintf(w, "method %s %s\n", method.Name, method.Desc); err != nil {
		return err
	}
	//
	for node := method.Code.Front(); node != nil; node = node.Next() {
		text := node.Value.String()
		//
		if decorate != nil {
			text = decorate(node, text)
		}
		//
		if _, ok := node.Value.(*insn.LabelInsn); !ok {
			text = "\t" + text
		}
		//
		if _, err := fmt.Fprintln(w, text); err != nil {
			return err
		}
	}
	//
	_, err := fmt.Fprintln(w, "end")
	//
	return err
}
