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
package util

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/consensys/go-splice/pkg/insn/listing"
	"github.com/consensys/go-splice/pkg/rules"
	"github.com/consensys/go-splice/pkg/splice"
	"github.com/consensys/go-splice/pkg/util/source"
	"github.com/sirupsen/logrus/hooks/test"
)

// TestDir determines the (relative) location of the test directory.  That is
// where the listings (jasm), the rules (yaml) and the expected results are
// found.
const TestDir = "../../testdata"

// TESTFILE_EXTENSIONS identifies the files making up a single test.
var TESTFILE_EXTENSIONS = struct {
	listing, rules, expected, outcomes string
}{"jasm", "yaml", "expected", "outcomes"}

// Check that applying the rules of a given test to its listing produces the
// expected listing, and that each rule has the expected outcome.
func Check(t *testing.T, name string) {
	// Enable testing in parallel
	t.Parallel()
	//
	var (
		base      = fmt.Sprintf("%s/%s", TestDir, name)
		classes   = readListing(t, fmt.Sprintf("%s.%s", base, TESTFILE_EXTENSIONS.listing))
		logger, _ = test.NewNullLogger()
	)
	//
	rs, err := rules.Load(fmt.Sprintf("%s.%s", base, TESTFILE_EXTENSIONS.rules))
	if err != nil {
		t.Fatal(err)
	}
	//
	outcomes := splice.NewTransformer(rs...).WithLogger(logger).TransformAll(classes...)
	//
	checkOutcomes(t, fmt.Sprintf("%s.%s", base, TESTFILE_EXTENSIONS.outcomes), outcomes)
	checkListing(t, fmt.Sprintf("%s.%s", base, TESTFILE_EXTENSIONS.expected), classes)
}

func readListing(t *testing.T, filename string) []*splice.Class {
	srcfile, err := source.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	//
	classes, errs := listing.Parse(srcfile)
	//
	for _, e := range errs {
		t.Error(e.Highlight())
	}
	//
	if len(errs) != 0 {
		t.FailNow()
	}
	//
	return classes
}

// Each line of an outcomes file is "<rule> applied <offset>", "<rule> missing"
// or "<rule> failed".
func checkOutcomes(t *testing.T, filename string, outcomes []splice.Outcome) {
	expected := readLines(t, filename)
	//
	if len(expected) != len(outcomes) {
		t.Fatalf("%s: expected %d outcomes, got %d", filename, len(expected), len(outcomes))
	}
	//
	for i, o := range outcomes {
		if actual := formatOutcome(o); actual != expected[i] {
			t.Errorf("%s:%d: expected %q, got %q (%v)", filename, i+1, expected[i], actual, o.Err)
		}
	}
}

func formatOutcome(o splice.Outcome) string {
	var notFound *splice.PatternNotFound
	//
	switch {
	case o.Ok():
		return fmt.Sprintf("%s applied %d", o.Rule, o.Offset)
	case errors.As(o.Err, &notFound):
		return fmt.Sprintf("%s missing", o.Rule)
	default:
		return fmt.Sprintf("%s failed", o.Rule)
	}
}

// Check the transformed listing against that expected and, furthermore, that
// it can be read back in.
func checkListing(t *testing.T, filename string, classes []*splice.Class) {
	var buf bytes.Buffer
	//
	if err := listing.Write(&buf, classes, nil); err != nil {
		t.Fatal(err)
	}
	//
	expected := readLines(t, filename)
	actual := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	//
	for i := 0; i < max(len(expected), len(actual)); i++ {
		var e, a string
		//
		if i < len(expected) {
			e = expected[i]
		}
		//
		if i < len(actual) {
			a = actual[i]
		}
		//
		if e != a {
			t.Errorf("%s:%d: expected %q, got %q", filename, i+1, e, a)
			return
		}
	}
	//
	if _, errs := listing.Parse(source.NewSourceFile(filename, buf.Bytes())); len(errs) != 0 {
		t.Errorf("%s: transformed listing does not parse: %s", filename, errs[0].Message())
	}
}

func readLines(t *testing.T, filename string) []string {
	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	//
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}
