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
package source

import (
	"fmt"
	"os"
	"strings"
)

// ReadFile reads a given source file from disk.
func ReadFile(filename string) (*File, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	//
	return NewSourceFile(filename, bytes), nil
}

// Line is a single physical line of a source file, along with its line number
// (counting from 1) and its span within the file.
type Line struct {
	text   []rune
	span   Span
	number int
}

// Get the string representing this line.
func (p *Line) String() string {
	return string(p.text[p.span.start:p.span.end])
}

// Number gets the line number of this line, counting from 1.
func (p *Line) Number() int {
	return p.number
}

// Span returns the span of this line within the enclosing file.
func (p *Line) Span() Span {
	return p.span
}

// File represents a given source file (typically stored on disk).
type File struct {
	filename string
	contents []rune
}

// NewSourceFile constructs a new source file from a given byte array.
func NewSourceFile(filename string, bytes []byte) *File {
	return &File{filename, []rune(string(bytes))}
}

// Filename returns the filename associated with this source file.
func (s *File) Filename() string {
	return s.filename
}

// Contents returns the contents of this source file.
func (s *File) Contents() []rune {
	return s.contents
}

// Lines splits this file into its physical lines.  Line terminators are not
// included in the spans, and a trailing carriage return is dropped.
func (s *File) Lines() []Line {
	var (
		lines []Line
		start = 0
	)
	//
	for i := 0; i <= len(s.contents); i++ {
		if i == len(s.contents) || s.contents[i] == '\n' {
			end := i
			if end > start && s.contents[end-1] == '\r' {
				end--
			}
			// Skip phantom line after a trailing newline
			if i < len(s.contents) || start < i {
				lines = append(lines, Line{s.contents, Span{start, end}, len(lines) + 1})
			}
			//
			start = i + 1
		}
	}
	//
	return lines
}

// SyntaxError constructs a syntax error over a given span of this file with a
// given message.
func (s *File) SyntaxError(span Span, msg string) *SyntaxError {
	return &SyntaxError{s, span, msg}
}

// FindFirstEnclosingLine determines the line enclosing the start of a span.  If
// the span lies beyond the end of the file, the last line is returned.
func (s *File) FindFirstEnclosingLine(span Span) Line {
	lines := s.Lines()
	//
	for _, line := range lines {
		if span.start <= line.span.end {
			return line
		}
	}
	//
	if len(lines) == 0 {
		return Line{s.contents, Span{0, 0}, 1}
	}
	//
	return lines[len(lines)-1]
}

// SyntaxError is a structured error which retains the span of the original
// text where an error occurred, along with an error message.
type SyntaxError struct {
	srcfile *File
	span    Span
	msg     string
}

// SourceFile returns the underlying source file that this syntax error covers.
func (p *SyntaxError) SourceFile() *File {
	return p.srcfile
}

// Span returns the span of the original text on which this error is reported.
func (p *SyntaxError) Span() Span {
	return p.span
}

// Message returns the message to be reported.
func (p *SyntaxError) Message() string {
	return p.msg
}

// Error implements the error interface.
func (p *SyntaxError) Error() string {
	line := p.FirstEnclosingLine()
	return fmt.Sprintf("%s:%d: %s", p.srcfile.filename, line.Number(), p.msg)
}

// FirstEnclosingLine determines the line in this source file to which this
// error is associated.
func (p *SyntaxError) FirstEnclosingLine() Line {
	return p.srcfile.FindFirstEnclosingLine(p.span)
}

// Highlight renders this error as the offending line followed by a marker
// underneath the span, in the manner of a compiler diagnostic.
func (p *SyntaxError) Highlight() string {
	var (
		builder strings.Builder
		line    = p.FirstEnclosingLine()
		indent  = max(0, p.span.start-line.span.start)
		width   = max(1, min(p.span.end, line.span.end)-p.span.start)
	)
	//
	builder.WriteString(p.Error())
	builder.WriteString("\n")
	builder.WriteString(line.String())
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat(" ", indent))
	builder.WriteString(strings.Repeat("^", width))
	//
	return builder.String()
}
