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

	"github.com/consensys/go-splice/pkg/insn"
	"github.com/consensys/go-splice/pkg/insn/listing"
	"github.com/consensys/go-splice/pkg/splice"
	"github.com/consensys/go-splice/pkg/util/termio"
	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply [flags] listing1.jasm listing2.jasm ...",
	Short: "apply rules to one or more listings.",
	Long: `Apply the rules of one or more rule files to the classes of one or more
listings, writing the transformed listings to stdout.  Rules whose anchor is
absent, or whose edit faults, are reported and skipped.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var (
			rules    = readRuleFiles(getStringArray(cmd, "rules"))
			classes  = readListingFiles(args)
			snapshot = snapshotNodes(classes)
			decorate listing.Decorator
		)
		//
		outcomes := splice.NewTransformer(rules...).TransformAll(classes...)
		//
		if !getFlag(cmd, "no-colour") && termio.IsTerminal(os.Stdout) {
			decorate = highlightEdits(snapshot)
		}
		//
		if err := listing.Write(os.Stdout, classes, decorate); err != nil {
			fmt.Println(err)
			os.Exit(3)
		}
		//
		if getFlag(cmd, "strict") && anyFailed(outcomes) {
			os.Exit(4)
		}
	},
}

// Record the instruction held by every node prior to transformation.
func snapshotNodes(classes []*splice.Class) map[*insn.Node]insn.Instruction {
	snapshot := make(map[*insn.Node]insn.Instruction)
	//
	for _, class := range classes {
		for _, method := range class.Methods {
			for _, node := range method.Code.Nodes() {
				snapshot[node] = node.Value
			}
		}
	}
	//
	return snapshot
}

// Highlight inserted nodes in green and altered nodes in yellow.
func highlightEdits(snapshot map[*insn.Node]insn.Instruction) listing.Decorator {
	var (
		inserted = termio.NewAnsiEscape().Bold().FgColour(termio.TERM_GREEN)
		altered  = termio.NewAnsiEscape().Bold().FgColour(termio.TERM_YELLOW)
	)
	//
	return func(node *insn.Node, text string) string {
		if original, ok := snapshot[node]; !ok {
			return inserted.Wrap(text)
		} else if original != node.Value {
			return altered.Wrap(text)
		}
		//
		return text
	}
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().StringArrayP("rules", "r", nil, "rule file(s) to apply, in order")
	applyCmd.Flags().Bool("no-colour", false, "never highlight edited instructions")
	applyCmd.Flags().Bool("strict", false, "exit with an error if any rule failed")
}
