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
	"errors"
	"fmt"
	"os"

	"github.com/consensys/go-splice/pkg/splice"
	"github.com/consensys/go-splice/pkg/util/termio"
	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] listing1.jasm listing2.jasm ...",
	Short: "check which rules apply to one or more listings.",
	Long: `Attempt the rules of one or more rule files against the classes of one or
more listings, and report the outcome of each rule as a tree.  Exits with an
error if any rule failed.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var (
			rules    = readRuleFiles(getStringArray(cmd, "rules"))
			classes  = readListingFiles(args)
			colour   = !getFlag(cmd, "no-colour") && termio.IsTerminal(os.Stdout)
			outcomes = splice.NewTransformer(rules...).TransformAll(classes...)
		)
		//
		fmt.Print(outcomeTree(outcomes, colour).String())
		fmt.Println(outcomeSummary(outcomes))
		//
		if anyFailed(outcomes) {
			os.Exit(4)
		}
	},
}

// Arrange outcomes by class and method, optionally colouring each by status.
func outcomeTree(outcomes []splice.Outcome, colour bool) treeprint.Tree {
	var (
		tree    = treeprint.NewWithRoot("rules")
		classes = make(map[string]treeprint.Tree)
		methods = make(map[string]treeprint.Tree)
	)
	//
	for _, o := range outcomes {
		class, ok := classes[o.Class]
		if !ok {
			class = tree.AddBranch(o.Class)
			classes[o.Class] = class
		}
		//
		if o.Method == "" {
			class.AddNode(describeOutcome(o, colour))
			continue
		}
		//
		key := o.Class + "." + o.Method
		method, ok := methods[key]
		//
		if !ok {
			method = class.AddBranch(o.Method)
			methods[key] = method
		}
		//
		method.AddNode(describeOutcome(o, colour))
	}
	//
	return tree
}

func describeOutcome(o splice.Outcome, colour bool) string {
	var (
		notFound *splice.PatternNotFound
		text     string
		escape   = termio.NewAnsiEscape()
	)
	//
	switch {
	case o.Ok():
		text = fmt.Sprintf("%s: %s at %d", o.Rule, o.Action, o.Offset)
		escape = escape.FgColour(termio.TERM_GREEN)
	case errors.As(o.Err, &notFound) && o.Method == "":
		text = fmt.Sprintf("%s: method not found", o.Rule)
		escape = escape.FgColour(termio.TERM_YELLOW)
	case errors.As(o.Err, &notFound):
		text = fmt.Sprintf("%s: pattern not found", o.Rule)
		escape = escape.FgColour(termio.TERM_YELLOW)
	default:
		text = fmt.Sprintf("%s: failed (%v)", o.Rule, o.Err)
		escape = escape.Bold().FgColour(termio.TERM_RED)
	}
	//
	if colour {
		return escape.Wrap(text)
	}
	//
	return text
}

func outcomeSummary(outcomes []splice.Outcome) string {
	var (
		applied, missing, faulted int
		notFound                  *splice.PatternNotFound
	)
	//
	for _, o := range outcomes {
		switch {
		case o.Ok():
			applied++
		case errors.As(o.Err, &notFound):
			missing++
		default:
			faulted++
		}
	}
	//
	return fmt.Sprintf("%d applied, %d not found, %d failed", applied, missing, faulted)
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringArrayP("rules", "r", nil, "rule file(s) to check, in order")
	checkCmd.Flags().Bool("no-colour", false, "never colour outcomes")
}
