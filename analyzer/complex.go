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

package analyzer

import (
	"reflect"

	"github.com/rowforge/hydrate/colset"
	"github.com/rowforge/hydrate/plan"
	"github.com/rowforge/hydrate/types"
)

// negotiateComplex handles struct and interface targets: try each
// construction path in specificity order, rolling back
// column usage between attempts; on success, greedily populate members;
// on total failure, fall back to the parameterless path plus whatever
// members can be populated.
func (n *negotiator) negotiateComplex(base reflect.Type, isPtr bool, declared reflect.Type, modifier colset.Modifier, null types.NullPolicy, ti *types.TypeInfo) (plan.Node, bool) {
	// A nested slot binds only columns named with one of its accumulated
	// prefixes; with none of those left unused, descent stops here.
	live := modifier.Empty()
	prefixes := modifier.Names("")
	for _, col := range n.columns {
		for _, p := range prefixes {
			live = live || (!n.usage.Used(col.Position) && len(col.Name) >= len(p) && colset.EqualFold(col.Name[:len(p)], p))
		}
	}
	if !live {
		return nil, false
	}

	entry := n.usage.Checkpoint()

	for _, path := range ti.ConstructionPaths() {
		n.usage.Restore(entry)

		children := make([]plan.Node, 0, len(path.Params))
		ok := true
		for _, param := range path.Params {
			child, matched := n.negotiateParam(param, modifier)
			if !matched {
				ok = false
				break
			}
			children = append(children, child)
		}
		if !ok {
			continue
		}

		construct := &plan.Construct{
			PathDescription: path.Description(),
			ResultType:      base,
			Invoke:          path.Invoke,
			Children:        children,
			NullPolicy:      int(null),
		}
		if isPtr {
			construct.ProvidesRecoverySink = true
			construct.SentinelOnJump = plan.NullMarker
		}
		if path.CanCompleteWithMembers {
			construct.Members = n.negotiateMembers(ti, modifier)
		}

		var node plan.Node = construct
		if isPtr {
			node = wrapNullable(node, null, declared)
		}
		return node, true
	}

	n.usage.Restore(entry)

	if parameterless := ti.ParameterlessPath(); parameterless != nil {
		members := n.negotiateMembers(ti, modifier)
		// A type with no members at all has nothing to populate, so the
		// parameterless path alone is already a complete, trivial plan;
		// requiring len(members) > 0 unconditionally would wrongly reject
		// it. A type that does declare members but matched none of them
		// against this schema still falls through, unchanged.
		if len(members) > 0 || len(ti.Members()) == 0 {
			construct := &plan.Construct{
				PathDescription: parameterless.Description(),
				ResultType:      base,
				Invoke:          parameterless.Invoke,
				Members:         members,
				NullPolicy:      int(null),
			}
			if isPtr {
				construct.ProvidesRecoverySink = true
				construct.SentinelOnJump = plan.NullMarker
			}
			var node plan.Node = construct
			if isPtr {
				node = wrapNullable(node, null, declared)
			}
			return node, true
		}
		n.usage.Restore(entry)
	}

	return nil, false
}

// negotiateParam resolves one construction-parameter or member slot,
// honoring an attribute-driven matcher override on the ParamInfo before
// falling back to standard recursive negotiation on the declared type.
func (n *negotiator) negotiateParam(param *types.ParamInfo, modifier colset.Modifier) (plan.Node, bool) {
	childModifier := modifier.Augment(param.NameCandidates)
	if m := param.MatcherOverride(); m != nil {
		switch m.Kind {
		case types.MatcherCustom:
			return m.Custom(n, childModifier)
		case types.MatcherBasic:
			base := param.DeclaredType
			isPtr := base.Kind() == reflect.Pointer
			if isPtr {
				base = base.Elem()
			}
			return n.negotiateTerminal(base, isPtr, param.DeclaredType, childModifier, param.NullPolicy())
		}
	}
	node, ok := n.negotiate(param.DeclaredType, childModifier, param.NullPolicy())
	if ok {
		if h := param.CustomHandler(); h != nil {
			attachNullHandler(node, h)
		}
	}
	return node, ok
}

// attachNullHandler binds a ParamInfo's custom NullHandler onto the
// TerminalRead at the core of a freshly built (not yet cached) plan, so
// the lowered parser can consult it on a NULL column.
func attachNullHandler(node plan.Node, h types.NullHandler) {
	switch v := node.(type) {
	case *plan.TerminalRead:
		v.CustomHandler = h
	case *plan.EnumConvert:
		attachNullHandler(v.Inner, h)
	case *plan.NullableWrap:
		attachNullHandler(v.Inner, h)
	}
}

// negotiateMembers attempts every member setter in declaration order,
// appending one assignment per success; failures are skipped rather than
// aborting the whole construction.
func (n *negotiator) negotiateMembers(ti *types.TypeInfo, modifier colset.Modifier) []plan.MemberAssignment {
	var assignments []plan.MemberAssignment
	for _, member := range ti.Members() {
		childNode, ok := n.negotiateParam(member.Param, modifier)
		if !ok {
			continue
		}
		m := member
		assignments = append(assignments, plan.MemberAssignment{
			Name: m.Name,
			Plan: childNode,
			Set: func(target any, value any) error {
				return m.Set(reflect.ValueOf(target), value)
			},
		})
	}
	return assignments
}
