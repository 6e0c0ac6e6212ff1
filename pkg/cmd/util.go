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
package cmd

import (
	"fmt"
	"os"

	"github.com/consensys/go-splice/pkg/insn/listing"
	"github.com/consensys/go-splice/pkg/rules"
	"github.com/consensys/go-splice/pkg/splice"
	"github.com/consensys/go-splice/pkg/util/source"
	"github.com/spf13/cobra"
)

// Get an expected flag, or exit if an error arises.
func getFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Get an expected string, or exit if an error arises.
func getString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Get an expected string array, or exit if an error arises.
func getStringArray(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringArray(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Read and compile the given rule files, in order, or exit if any is invalid.
func readRuleFiles(filenames []string) []splice.Rule {
	if len(filenames) == 0 {
		fmt.Println("no rule files given (use --rules)")
		os.Exit(2)
	}
	//
	rs, err := rules.LoadAll(filenames...)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return rs
}

// Read the given listing files, or report syntax errors and exit.
func readListingFiles(filenames []string) []*splice.Class {
	var (
		classes []*splice.Class
		failed  bool
	)
	//
	for _, n := range filenames {
		srcfile, err := source.ReadFile(n)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		cs, errs := listing.Parse(srcfile)
		//
		for _, e := range errs {
			fmt.Println(e.Highlight())
		}
		//
		failed = failed || len(errs) != 0
		classes = append(classes, cs...)
	}
	//
	if failed {
		os.Exit(2)
	}
	//
	return classes
}

// Check whether any outcome represents a failed rule.
func anyFailed(outcomes []splice.Outcome) bool {
	for _, o := range outcomes {
		if !o.Ok() {
			return true
		}
	}
	//
	return false
}
