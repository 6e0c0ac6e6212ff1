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
package insn

import (
	"fmt"
	"strings"
)

// ValidateFieldDescriptor checks that a descriptor consists of exactly one
// well-formed field type, such as "I", "[[D" or "Ljava/lang/String;".
func ValidateFieldDescriptor(desc string) error {
	n, err := scanFieldType(desc, 0)
	//
	if err != nil {
		return err
	} else if n != len(desc) {
		return fmt.Errorf("malformed field descriptor %q: trailing characters at %d", desc, n)
	}
	//
	return nil
}

// ValidateMethodDescriptor checks that a descriptor has the shape
// "(" field-types ")" return-type, where the return type may be "V".
func ValidateMethodDescriptor(desc string) error {
	if !strings.HasPrefix(desc, "(") {
		return fmt.Errorf("malformed method descriptor %q: expected '('", desc)
	}
	//
	i := 1
	// Parameters
	for i < len(desc) && desc[i] != ')' {
		n, err := scanFieldType(desc, i)
		if err != nil {
			return err
		}
		//
		i = n
	}
	//
	if i >= len(desc) {
		return fmt.Errorf("malformed method descriptor %q: missing ')'", desc)
	}
	// Return type
	i++
	//
	if i < len(desc) && desc[i] == 'V' {
		i++
	} else if n, err := scanFieldType(desc, i); err != nil {
		return err
	} else {
		i = n
	}
	//
	if i != len(desc) {
		return fmt.Errorf("malformed method descriptor %q: trailing characters at %d", desc, i)
	}
	//
	return nil
}

// Scan a single field type starting at a given index, returning the index one
// past its end.
func scanFieldType(desc string, start int) (int, error) {
	i := start
	// Array dimensions
	for i < len(desc) && desc[i] == '[' {
		i++
	}
	//
	if i >= len(desc) {
		return 0, fmt.Errorf("malformed descriptor %q: unexpected end at %d", desc, i)
	}
	//
	switch desc[i] {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z':
		return i + 1, nil
	case 'L':
		end := strings.IndexByte(desc[i:], ';')
		if end <= 1 {
			return 0, fmt.Errorf("malformed descriptor %q: unterminated class type at %d", desc, i)
		}
		//
		return i + end + 1, nil
	default:
		return 0, fmt.Errorf("malformed descriptor %q: unexpected '%c' at %d", desc, desc[i], i)
	}
}
