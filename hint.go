// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hydrate

import (
	"github.com/rowforge/hydrate/cursor"
	"github.com/rowforge/hydrate/plan"
)

// deriveHint inspects a compiled plan tree and reports the execution-hint
// bitmask a driver can use to configure the cursor.
// HintSingleResult always applies: one Parser call
// consumes exactly one cursor row. HintSequentialAccess applies only when
// every TerminalRead's column index is visited in non-decreasing order as
// the tree is walked in its actual evaluation order, true whenever no
// manually-registered construction path reorders parameters relative to
// schema order.
func deriveHint(node plan.Node) cursor.ExecutionHint {
	hint := cursor.HintSingleResult

	var order []int
	collectColumnOrder(node, &order)
	if isNonDecreasing(order) {
		hint |= cursor.HintSequentialAccess
	}
	return hint
}

// collectColumnOrder appends the column index of every TerminalRead reached
// by walking node in the same order rowexec.Compile evaluates it: a
// Construct's children left-to-right, then its members in declaration
// order.
func collectColumnOrder(node plan.Node, order *[]int) {
	switch n := node.(type) {
	case *plan.TerminalRead:
		*order = append(*order, n.ColumnIndex)
	case *plan.EnumConvert:
		collectColumnOrder(n.Inner, order)
	case *plan.NullableWrap:
		collectColumnOrder(n.Inner, order)
	case *plan.Construct:
		for _, c := range n.Children {
			collectColumnOrder(c, order)
		}
		for _, m := range n.Members {
			collectColumnOrder(m.Plan, order)
		}
	}
}

func isNonDecreasing(order []int) bool {
	for i := 1; i < len(order); i++ {
		if order[i] < order[i-1] {
			return false
		}
	}
	return true
}
