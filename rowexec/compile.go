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

// Package rowexec lowers an immutable plan.Node tree into a closure-based
// Parser function. Function composition via closures was chosen over a
// tree-walking interpreter (slower per row) and a JIT (not worth the
// complexity for this workload).
package rowexec

import (
	"fmt"
	"reflect"

	"github.com/rowforge/hydrate/cursor"
	"github.com/rowforge/hydrate/herrors"
	"github.com/rowforge/hydrate/plan"
)

// Parser is a compiled row-to-value function, the engine's ultimate
// deliverable.
type Parser func(row cursor.Row) (any, error)

// jumpSignal is panicked by a JumpIfNull TerminalRead and recovered by the
// nearest enclosing recovery sink. Using panic/recover for this one
// non-local control-flow edge keeps every other lowering path a plain
// linear closure.
type jumpSignal struct{}

// Compile lowers a plan tree produced by package analyzer into a Parser.
// It fails with herrors.UnrecoverableJump if any JumpIfNull site has no
// enclosing recovery sink, the one compile-time check the generator must
// perform (every other invariant was already established by negotiation).
func Compile(node plan.Node) (Parser, error) {
	fn, err := compileNode(node, false)
	if err != nil {
		return nil, err
	}
	return Parser(fn), nil
}

func compileNode(node plan.Node, hasSink bool) (func(cursor.Row) (any, error), error) {
	switch n := node.(type) {
	case *plan.TerminalRead:
		return compileTerminal(n, hasSink)
	case *plan.EnumConvert:
		return compileEnumConvert(n, hasSink)
	case *plan.NullableWrap:
		return compileNullableWrap(n, hasSink)
	case *plan.Construct:
		return compileConstruct(n, hasSink)
	default:
		return nil, fmt.Errorf("rowexec: unknown plan node %T", node)
	}
}

func compileTerminal(n *plan.TerminalRead, hasSink bool) (func(cursor.Row) (any, error), error) {
	policy := NullPolicy(n.NullPolicy)
	if policy == JumpIfNull && !hasSink {
		return nil, herrors.UnrecoverableJump.New(n.TargetType.String())
	}

	return func(row cursor.Row) (any, error) {
		raw := row.Value(uint16(n.ColumnIndex))
		if raw == nil {
			switch policy {
			case Nullable:
				return plan.NullMarker, nil
			case NotNull:
				return nil, herrors.NullAssignment.New(n.ColumnName, n.ColumnIndex, n.TargetType.String())
			case JumpIfNull:
				panic(jumpSignal{})
			case Custom:
				if n.CustomHandler == nil {
					return nil, herrors.NullAssignment.New(n.ColumnName, n.ColumnIndex, n.TargetType.String())
				}
				return n.CustomHandler()
			default:
				return reflect.Zero(n.TargetType).Interface(), nil
			}
		}
		v, err := convertValue(raw, n.ConvertOp, n.TargetType)
		if err != nil {
			return nil, herrors.ConvertFailure.New(n.ColumnName, n.RuntimeType, n.TargetType.String())
		}
		return v, nil
	}, nil
}

func compileEnumConvert(n *plan.EnumConvert, hasSink bool) (func(cursor.Row) (any, error), error) {
	inner, err := compileNode(n.Inner, hasSink)
	if err != nil {
		return nil, err
	}
	return func(row cursor.Row) (any, error) {
		v, err := inner(row)
		if err != nil {
			return nil, err
		}
		if v == plan.NullMarker {
			// An absent optional slot stays absent; only the enclosing
			// NullableWrap may interpret the marker.
			return v, nil
		}
		return n.Convert(v)
	}, nil
}

func compileNullableWrap(n *plan.NullableWrap, _ bool) (func(cursor.Row) (any, error), error) {
	inner, err := compileNode(n.Inner, true)
	if err != nil {
		return nil, err
	}
	recovered := withRecoverySink(inner, plan.NullMarker)
	nilPtr := reflect.Zero(n.PointerTo).Interface()
	elemType := n.PointerTo.Elem()

	return func(row cursor.Row) (any, error) {
		v, err := recovered(row)
		if err != nil {
			return nil, err
		}
		if v == plan.NullMarker {
			return nilPtr, nil
		}
		ptr := reflect.New(elemType)
		ptr.Elem().Set(reflect.ValueOf(v))
		return ptr.Interface(), nil
	}, nil
}

// withRecoverySink wraps fn so a jumpSignal panicked anywhere within it is
// caught and replaced with sentinel: the partially constructed parent
// resets to its null/default value and the remaining siblings for that
// parent are skipped.
func withRecoverySink(fn func(cursor.Row) (any, error), sentinel any) func(cursor.Row) (any, error) {
	return func(row cursor.Row) (result any, rErr error) {
		jumped := false
		func() {
			defer func() {
				if r := recover(); r != nil {
					if _, ok := r.(jumpSignal); ok {
						jumped = true
						return
					}
					panic(r)
				}
			}()
			result, rErr = fn(row)
		}()
		if jumped {
			return sentinel, nil
		}
		return result, rErr
	}
}
