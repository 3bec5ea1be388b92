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

// Package herrors defines the error taxonomy for the hydration engine
// (registration, negotiation and runtime failures) using the project's
// typed-error-kind idiom rather than bare sentinel errors or string matching.
package herrors

import errors "gopkg.in/src-d/go-errors.v1"

var (
	// UnknownType is raised by the registry when a requested target has no
	// registration and no auto-registration rule applies.
	UnknownType = errors.NewKind("unknown type: %s")

	// InvalidRegistration is raised synchronously when a manually added path
	// or member violates viability, stack-equivalence or generic-declaration
	// rules, or a bulk path/member replacement fails validation.
	InvalidRegistration = errors.NewKind("invalid registration for %s: %s")

	// NegotiationFailed is surfaced only from the top-level negotiate call;
	// internal recursive calls return a nil plan instead of this error so the
	// matcher can backtrack.
	NegotiationFailed = errors.NewKind("no mapping found from schema to %s")

	// UnrecoverableJump is raised at compile time when a JumpIfNull policy has
	// no enclosing recovery sink.
	UnrecoverableJump = errors.NewKind("jump-if-null on %s has no enclosing recovery sink")

	// NullAssignment is raised at parser execution when a non-nullable slot
	// receives a database NULL.
	NullAssignment = errors.NewKind("column %q (position %d) is NULL but target %s is not nullable")

	// ConvertFailure is raised when a column's runtime type cannot be
	// converted to the closed target type under the terminal convertibility
	// rules.
	ConvertFailure = errors.NewKind("cannot convert column %q (%s) to %s")
)
