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

// Package analyzer implements the matcher core: the recursive negotiation
// that reconciles a database schema against a registered target type's
// construction paths and members, producing an immutable plan.Node tree.
// It fails with herrors.NegotiationFailed at the top level only; internal
// recursion fails silently so the caller can backtrack to an alternative
// path.
package analyzer

import (
	"reflect"

	"github.com/rowforge/hydrate/colset"
	"github.com/rowforge/hydrate/herrors"
	"github.com/rowforge/hydrate/plan"
	"github.com/rowforge/hydrate/schema"
	"github.com/rowforge/hydrate/types"
)

// negotiator holds the state threaded through one top-level Negotiate call:
// the schema being matched and the in-progress column usage. It implements
// types.MatchContext so custom matchers can recurse back into the same
// machinery.
type negotiator struct {
	columns schema.Schema
	usage   *colset.Usage
	reg     *types.Registry
}

func (n *negotiator) Columns() schema.Schema { return n.columns }
func (n *negotiator) Usage() *colset.Usage   { return n.usage }

func (n *negotiator) Negotiate(t reflect.Type, modifier colset.Modifier, null types.NullPolicy) (plan.Node, bool) {
	return n.negotiate(t, modifier, null)
}

// Negotiate is the top-level entry point. It returns
// herrors.NegotiationFailed if no plan tree could be built; internal
// recursive failures never escape past this boundary.
func Negotiate(reg *types.Registry, target reflect.Type, cols schema.Schema) (plan.Node, error) {
	n := &negotiator{columns: cols, usage: colset.NewUsage(), reg: reg}
	node, ok := n.negotiate(target, colset.Modifier{}, types.NotNull)
	if !ok {
		return nil, herrors.NegotiationFailed.New(target.String())
	}
	return node, nil
}

// rawValueType is the sentinel type used by types.Readable's custom matcher
// to request "the next matching raw column value" without further
// decomposition (types/registry.go's readableMatch).
var rawValueType = reflect.TypeOf((*any)(nil)).Elem()

func (n *negotiator) negotiate(t reflect.Type, modifier colset.Modifier, null types.NullPolicy) (plan.Node, bool) {
	isPtr := t.Kind() == reflect.Pointer
	base := t
	if isPtr {
		base = t.Elem()
	}

	if base == rawValueType {
		return n.negotiateRaw(modifier, null)
	}

	ti, err := n.reg.GetOrRegister(base)
	if err != nil {
		return nil, false
	}

	if m := ti.Matcher(); m != nil {
		switch m.Kind {
		case types.MatcherCustom:
			node, ok := m.Custom(n, modifier)
			if !ok {
				return nil, false
			}
			if isPtr {
				node = wrapNullable(node, null, t)
			}
			return node, true
		case types.MatcherBasic:
			return n.negotiateTerminal(base, isPtr, t, modifier, null)
		}
	}

	if isTerminalKind(base) {
		return n.negotiateTerminal(base, isPtr, t, modifier, null)
	}

	return n.negotiateComplex(base, isPtr, t, modifier, null, ti)
}

// negotiateRaw matches the next column (by name, honoring the accumulated
// modifier) without any type-convertibility constraint, handing the raw
// driver value straight through. Used only by the Readable custom matcher.
func (n *negotiator) negotiateRaw(modifier colset.Modifier, null types.NullPolicy) (plan.Node, bool) {
	names := modifier.Names("")
	for _, col := range n.columns {
		if n.usage.Used(col.Position) {
			continue
		}
		if !nameMatches(names, col.Name) {
			continue
		}
		n.usage.Mark(col.Position)
		return &plan.TerminalRead{
			ColumnIndex: int(col.Position),
			ColumnName:  col.Name,
			RuntimeType: col.RuntimeType.String(),
			TargetType:  rawValueType,
			NullPolicy:  int(null),
			ConvertOp:   plan.ConvertIdentity,
		}, true
	}
	return nil, false
}

func isTerminalKind(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

// negotiateTerminal handles basic/enum targets: scan unused columns left
// to right, try every name candidate the modifier produces, and accept the
// first column whose name matches and whose runtime type is convertible.
func (n *negotiator) negotiateTerminal(base reflect.Type, isPtr bool, declared reflect.Type, modifier colset.Modifier, null types.NullPolicy) (plan.Node, bool) {
	names := modifier.Names("")
	for _, col := range n.columns {
		if n.usage.Used(col.Position) {
			continue
		}
		if !nameMatches(names, col.Name) {
			continue
		}
		convertOp, ok := types.Convertible(col.RuntimeType, base)
		if !ok {
			continue
		}
		n.usage.Mark(col.Position)
		var node plan.Node = &plan.TerminalRead{
			ColumnIndex: int(col.Position),
			ColumnName:  col.Name,
			RuntimeType: col.RuntimeType.String(),
			TargetType:  base,
			NullPolicy:  int(null),
			ConvertOp:   convertOp,
		}
		if convertOp == plan.ConvertEnumToIntegral {
			node = &plan.EnumConvert{Inner: node, EnumType: base, Convert: enumConverter(base)}
		}
		if isPtr {
			node = wrapNullable(node, null, declared)
		}
		return node, true
	}
	return nil, false
}

func nameMatches(candidates []string, colName string) bool {
	for _, c := range candidates {
		if colset.EqualFold(c, colName) {
			return true
		}
	}
	return false
}

func wrapNullable(inner plan.Node, null types.NullPolicy, pointerType reflect.Type) plan.Node {
	return &plan.NullableWrap{Inner: inner, PointerTo: pointerType, NullPolicy: int(null)}
}

// enumConverter builds the underlying-value -> enum conversion closure for
// an EnumConvert node, bound once at negotiation time so the code generator
// never needs reflection on the hot path.
func enumConverter(enumType reflect.Type) func(any) (any, error) {
	return func(v any) (any, error) {
		rv := reflect.ValueOf(v)
		if !rv.IsValid() {
			return reflect.Zero(enumType).Interface(), nil
		}
		return rv.Convert(enumType).Interface(), nil
	}
}
