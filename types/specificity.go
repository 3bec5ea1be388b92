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

package types

import "reflect"

// moreSpecific implements the path specificity rule: a is more
// specific than b iff a has at least as many parameters as b, and for
// every position i in b, a's type at i is either identical to b's type at i
// or a strict subtype of it.
func moreSpecific(a, b *Path) bool {
	if len(a.Params) < len(b.Params) {
		return false
	}
	for i, bp := range b.Params {
		ap := a.Params[i]
		at, bt := ap.DeclaredType, bp.DeclaredType
		if at == bt {
			continue
		}
		if isStrictSubtype(at, bt) {
			continue
		}
		return false
	}
	return true
}

// isStrictSubtype reports whether a is a strict subtype of b. Go's only
// native subtyping relation is "concrete type implements interface b",
// since there is no class inheritance: a counts as more specific than b
// when b is an interface that a implements and a itself is not that same
// interface.
func isStrictSubtype(a, b reflect.Type) bool {
	if a == nil || b == nil || a == b {
		return false
	}
	if b.Kind() != reflect.Interface {
		return false
	}
	return a.Implements(b)
}

// moveForwardOrder applies move-forward ordering: starting
// from discovery order, repeatedly relocate any path P directly ahead of
// the earliest earlier path Q it is more specific than. This is a local
// bubble, not a global sort; unrelated paths keep their discovery order.
func moveForwardOrder(discovered []*Path) []*Path {
	result := append([]*Path(nil), discovered...)
	for {
		moved := false
		for i := 1; i < len(result); i++ {
			p := result[i]
			earliest := -1
			for j := 0; j < i; j++ {
				if moreSpecific(p, result[j]) {
					earliest = j
					break
				}
			}
			if earliest >= 0 {
				result = relocate(result, i, earliest)
				moved = true
				break
			}
		}
		if !moved {
			return result
		}
	}
}

// relocate removes the element at `from` and reinserts it immediately
// before index `to` (from > to, indices are pre-removal).
func relocate(paths []*Path, from, to int) []*Path {
	p := paths[from]
	out := make([]*Path, 0, len(paths))
	out = append(out, paths[:to]...)
	out = append(out, p)
	out = append(out, paths[to:from]...)
	out = append(out, paths[from+1:]...)
	return out
}

// settleManualInsert places a manually added path: it attempts to move to
// the front, settling immediately after the last existing path that is
// more specific than it.
func settleManualInsert(existing []*Path, p *Path) []*Path {
	lastMoreSpecific := -1
	for i, q := range existing {
		if moreSpecific(q, p) {
			lastMoreSpecific = i
		}
	}
	insertAt := lastMoreSpecific + 1
	out := make([]*Path, 0, len(existing)+1)
	out = append(out, existing[:insertAt]...)
	out = append(out, p)
	out = append(out, existing[insertAt:]...)
	return out
}
