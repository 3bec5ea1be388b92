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

// Package plan defines the immutable parse-plan IR produced by the matcher
// core and consumed by the code generator. A plan tree
// carries every index, type, null-policy and convert-op the generator needs;
// it never references live schema or registry state, so it compiles cleanly
// once and is safe to cache and reuse across row invocations.
package plan

import "reflect"

// NullMarker is the sentinel value a compiled parser threads upward to mean
// "this optional slot is absent", emitted by a TerminalRead under a
// Nullable policy and by a Construct's JumpIfNull recovery.
// The nearest enclosing NullableWrap is the only thing that ever inspects
// it: it turns NullMarker into a nil pointer and anything else into a
// pointer to that value. It is a unique *struct{} rather than nil itself
// so a TerminalRead whose target legitimately produces a nil-able Go value
// (e.g. a nil slice) is never confused with "absent".
var NullMarker = &struct{}{}

// Convert names the value-conversion operator a TerminalRead applies to
// the raw column value before it is stored: identity, numeric
// widening/narrowing, or enum<->integral. Nullable wrapping is a separate
// NullableWrap node, not a Convert op.
type Convert int

const (
	// ConvertIdentity passes the column value through unchanged.
	ConvertIdentity Convert = iota
	// ConvertNumeric widens or narrows between primitive numeric kinds.
	ConvertNumeric
	// ConvertEnumToIntegral converts an integral column value into a named
	// integer/string enum target (paired with an EnumConvert node).
	ConvertEnumToIntegral
)

// Node is the tagged-variant interface every plan node implements. It is a
// closed sum type (TerminalRead, Construct, EnumConvert, NullableWrap) by
// convention: code outside this package does not add new implementations.
type Node interface {
	// Type is the Go type this node ultimately produces when lowered.
	Type() reflect.Type
	isNode()
}

// TerminalRead reads one column's raw value and applies Convert to it,
// honoring NullPolicy when the column is NULL.
type TerminalRead struct {
	ColumnIndex int
	ColumnName  string
	RuntimeType string // human-readable runtime type label, for error messages
	TargetType  reflect.Type
	NullPolicy  int // types.NullPolicy, stored as int to avoid an import cycle
	ConvertOp   Convert
	// CustomHandler, when non-nil, resolves the value used in place of the
	// column's raw value whenever NullPolicy is types.Custom. It is typed as
	// `func() (any, error)` to mirror types.NullHandler without creating an
	// import cycle between plan and types.
	CustomHandler func() (any, error)
}

func (t *TerminalRead) Type() reflect.Type { return t.TargetType }
func (*TerminalRead) isNode()              {}

// MemberAssignment is one post-construction member-setter application.
type MemberAssignment struct {
	// Set assigns the evaluated child plan's value onto the freshly
	// constructed target. It is a closure over the member's reflective
	// field/property handle, bound once at compile time.
	Set  func(target any, value any) error
	Plan Node
	Name string // member name, for diagnostics
}

// Construct invokes a construction path with its children evaluated
// left-to-right, then applies member assignments in declaration order.
type Construct struct {
	PathDescription string // human-readable path signature, for diagnostics
	ResultType      reflect.Type
	// Invoke calls the underlying constructor/factory with the evaluated
	// children (in order) and returns the constructed value.
	Invoke   func(children []any) (any, error)
	Children []Node
	Members  []MemberAssignment
	// NullPolicy governs this Construct when it sits at a slot that can
	// itself be NULL/absent (e.g. an optional nested struct).
	NullPolicy int
	// ProvidesRecoverySink is true when this Construct's result is
	// optional, so it can absorb a descendant JumpIfNull.
	ProvidesRecoverySink bool
	// SentinelOnJump is the value substituted for this entire Construct
	// when a descendant JumpIfNull fires and this node is the nearest
	// enclosing sink (package analyzer sets it to NullMarker).
	SentinelOnJump any
}

func (c *Construct) Type() reflect.Type { return c.ResultType }
func (*Construct) isNode()              {}

// EnumConvert wraps a terminal integral/string read and converts it to a
// named enum target type.
type EnumConvert struct {
	Inner    Node
	EnumType reflect.Type
	// Convert performs the underlying-value -> enum conversion.
	Convert func(v any) (any, error)
}

func (e *EnumConvert) Type() reflect.Type { return e.EnumType }
func (*EnumConvert) isNode()              {}

// NullableWrap wraps an inner plan whose target is itself optional (a Go
// pointer type), translating a NULL read into a nil pointer and a non-NULL
// read into a pointer to the inner value.
type NullableWrap struct {
	Inner      Node
	PointerTo  reflect.Type // pointer type this node ultimately produces
	NullPolicy int
}

func (n *NullableWrap) Type() reflect.Type { return n.PointerTo }
func (*NullableWrap) isNode()              {}
