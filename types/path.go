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

import (
	"fmt"
	"reflect"
	"strings"
)

// PathKind distinguishes a constructor-style path from a
// static-factory-style one. Go has no receiver-less "static method"; a
// Factory path wraps a package-level function or a method value bound to a
// non-target receiver (e.g. a builder).
type PathKind int

const (
	// Constructor paths build the target directly from its fields via
	// reflect.New + member assignment. Go has no constructor functions, so
	// this is the always-available default path, see types/discover.go.
	Constructor PathKind = iota
	// Factory paths invoke an explicit user-registered function value whose
	// return type is stack-equivalent to the target.
	Factory
)

// Path is one construction entry point for a target type.
type Path struct {
	Kind   PathKind
	Params []*ParamInfo

	// ReturnType is the declared return type of this path; it must be
	// stack-equivalent to the owning TypeInfo's type (identical or a strict
	// subtype/assignable type).
	ReturnType reflect.Type

	// Invoke calls the underlying constructor/factory with the children
	// evaluated in Params order and returns the constructed value.
	Invoke func(args []any) (any, error)

	// CanCompleteWithMembers authorizes post-construction member
	// assignment.
	CanCompleteWithMembers bool

	// DeclaringType is the type that declares a Factory method. It must be
	// non-generic, unless it is identical to the target type.
	DeclaringType reflect.Type

	// MethodGenericArity is the number of the factory method's own generic
	// parameters, if it is a generic method. Zero for non-generic methods
	// and for Constructor paths.
	MethodGenericArity int

	// manual records whether this path arrived via AddPath (subject to the
	// settle-after-more-specific placement rule) as opposed to being
	// synthesized by automatic discovery.
	manual bool
	// description is a human-readable signature used in diagnostics and in
	// plan.Construct.PathDescription.
	description string
}

// Description returns a human-readable signature for diagnostics.
func (p *Path) Description() string {
	if p.description != "" {
		return p.description
	}
	return fmt.Sprintf("path(%d params -> %s)", len(p.Params), p.ReturnType)
}

// validatePath enforces the Path invariants and manual-addition rejection
// conditions: every parameter type must be viable, the return type must be
// stack-equivalent to target, a generic declaring type must either match
// the target exactly or not be generic at all, and a generic factory
// method's own arity must be in one-to-one positional correspondence with
// the target type's generic arity.
func validatePath(p *Path, target reflect.Type, isViable func(reflect.Type) bool) error {
	if p.ReturnType == nil || !stackEquivalent(p.ReturnType, target) {
		return fmt.Errorf("return type %v is not stack-equivalent to %v", p.ReturnType, target)
	}
	if p.DeclaringType != nil && isGenericType(p.DeclaringType) && p.DeclaringType != target {
		return fmt.Errorf("declaring type %v is generic and differs from target %v", p.DeclaringType, target)
	}
	if p.MethodGenericArity != 0 && p.MethodGenericArity != genericArity(target) {
		return fmt.Errorf("generic factory method on %v has arity %d, which does not match target %v's arity %d",
			p.DeclaringType, p.MethodGenericArity, target, genericArity(target))
	}
	for _, param := range p.Params {
		if !isViable(param.DeclaredType) {
			return fmt.Errorf("parameter type %v is not viable", param.DeclaredType)
		}
	}
	return nil
}

// genericArity counts t's top-level generic type arguments by parsing the
// bracketed argument list reflect.Type.Name() carries for an instantiated
// generic type (Go's reflect package exposes no direct type-argument
// accessor). Zero for a non-generic type.
func genericArity(t reflect.Type) int {
	if t == nil {
		return 0
	}
	name := t.Name()
	start := strings.IndexByte(name, '[')
	end := strings.LastIndexByte(name, ']')
	if start < 0 || end <= start {
		return 0
	}
	inner := name[start+1 : end]
	depth := 0
	count := 1
	for _, r := range inner {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				count++
			}
		}
	}
	return count
}

// stackEquivalent reports whether produced is assignment-compatible with
// target: identical, or a type whose method set / underlying structure
// makes it a strict subtype usable wherever target is expected. Go lacks
// class-based subtyping, so beyond identity this only holds when target is
// an interface produced implements.
func stackEquivalent(produced, target reflect.Type) bool {
	if produced == target {
		return true
	}
	if target != nil && target.Kind() == reflect.Interface {
		return produced != nil && produced.Implements(target)
	}
	return false
}

// isGenericType reports whether t is an instantiation of a generic type,
// detected the only way Go's reflect package exposes it: an instantiated
// generic type's Name() contains a bracketed type-argument list.
func isGenericType(t reflect.Type) bool {
	if t == nil {
		return false
	}
	return strings.ContainsRune(t.Name(), '[')
}
