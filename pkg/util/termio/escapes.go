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
package termio

import "fmt"

// Colour is one of the eight standard ANSI terminal colours.
type Colour uint

// TERM_RED represents red
const TERM_RED = Colour(1)

// TERM_GREEN represents green
const TERM_GREEN = Colour(2)

// TERM_YELLOW represents yellow
const TERM_YELLOW = Colour(3)

// AnsiEscape represents an ANSI escape code used for formatting text in a terminal.
type AnsiEscape struct {
	codes []uint
}

// NewAnsiEscape construct an empty escape
func NewAnsiEscape() AnsiEscape {
	return AnsiEscape{}
}

// Bold adds emboldening to this escape.
func (p AnsiEscape) Bold() AnsiEscape {
	return p.with(1)
}

// FgColour sets the foreground colour
func (p AnsiEscape) FgColour(col Colour) AnsiEscape {
	return p.with(30 + uint(col))
}

// Build constructs the final escape
func (p AnsiEscape) Build() string {
	escape := "\033["
	//
	for i, c := range p.codes {
		if i != 0 {
			escape += ";"
		}
		//
		escape += fmt.Sprintf("%d", c)
	}
	//
	return escape + "m"
}

// Wrap surrounds some text with this escape, followed by a reset.
func (p AnsiEscape) Wrap(text string) string {
	if len(p.codes) == 0 {
		return text
	}
	//
	return p.Build() + text + "\033[0m"
}

func (p AnsiEscape) with(code uint) AnsiEscape {
	codes := make([]uint, len(p.codes), len(p.codes)+1)
	copy(codes, p.codes)
	//
	return AnsiEscape{append(codes, code)}
}
