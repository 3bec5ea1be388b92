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

package colset

import "strings"

// Modifier is the recursive name-prefix context accumulated during descent
// into nested construction paths: a list of name-candidate lists whose
// cross-product yields the full set of column names to attempt. Each layer
// corresponds to one parameter or member slot on the path from the root
// target type down to the current negotiation point.
type Modifier struct {
	layers [][]string
}

// Empty reports whether this Modifier carries no prefix layers (negotiating
// at the root of the type tree).
func (m Modifier) Empty() bool {
	return len(m.layers) == 0
}

// Augment returns a new Modifier with an additional layer of name
// candidates appended, without mutating m. Candidates should already be
// deduplicated case-insensitively by the caller.
func (m Modifier) Augment(nameCandidates []string) Modifier {
	next := make([][]string, len(m.layers), len(m.layers)+1)
	copy(next, m.layers)
	next = append(next, nameCandidates)
	return Modifier{layers: next}
}

// Names returns every candidate column name this Modifier can produce, in
// depth order (outermost prefix first, the tie-break rule for ambiguous
// matches), then by candidate order within the innermost layer. Layers are
// concatenated with no separator, matching common flat-column naming
// conventions (e.g. "SupervisorBossID" for a doubly-nested alias "Boss").
func (m Modifier) Names(primary string, aliases ...string) []string {
	candidates := append([]string{primary}, aliases...)

	if len(m.layers) == 0 {
		return candidates
	}

	// Cross-product of every prefix layer (in order) with the leaf
	// candidates, built outermost-first so depth-ordered tie-breaking in the
	// matcher core can simply iterate this slice left to right.
	prefixes := []string{""}
	for _, layer := range m.layers {
		next := make([]string, 0, len(prefixes)*len(layer))
		for _, p := range prefixes {
			for _, l := range layer {
				next = append(next, p+l)
			}
		}
		prefixes = next
	}

	out := make([]string, 0, len(prefixes)*len(candidates))
	for _, p := range prefixes {
		for _, c := range candidates {
			out = append(out, p+c)
		}
	}
	return out
}

// EqualFold reports whether two candidate column names are equal under the
// engine's case-insensitive comparison rule.
func EqualFold(a, b string) bool {
	return strings.EqualFold(a, b)
}
