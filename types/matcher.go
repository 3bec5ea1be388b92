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
	"reflect"

	"github.com/rowforge/hydrate/colset"
	"github.com/rowforge/hydrate/plan"
	"github.com/rowforge/hydrate/schema"
)

// MatcherKind is the tag of the Matcher sum type. Matching strategy is a
// closed set of variants rather than an open interface so the hot path of
// negotiation can switch on the tag directly.
type MatcherKind int

const (
	// MatcherDefault defers to the standard recursive negotiation in
	// package analyzer.
	MatcherDefault MatcherKind = iota
	// MatcherBasic forces terminal (basic/enum) matching even for a
	// registered complex type, used rarely for types that should never be
	// decomposed into members.
	MatcherBasic
	// MatcherCustom invokes a user-supplied CustomMatchFunc.
	MatcherCustom
)

// Matcher overrides default negotiation for a TypeInfo or a single
// ParamInfo.
type Matcher struct {
	Kind   MatcherKind
	Custom CustomMatchFunc
}

// MatchContext is the callback surface a CustomMatchFunc receives. It is
// declared here (rather than having types depend on package analyzer) so
// that analyzer can depend on types without a cycle; analyzer.negotiator
// implements this interface.
type MatchContext interface {
	// Columns returns the schema being negotiated against.
	Columns() schema.Schema
	// Usage returns the in-progress column usage for this negotiation branch.
	Usage() *colset.Usage
	// Negotiate recursively negotiates a nested slot, honoring the same
	// checkpoint/backtrack discipline as the core recursion.
	Negotiate(t reflect.Type, modifier colset.Modifier, null NullPolicy) (plan.Node, bool)
}

// CustomMatchFunc produces a plan node for one ParamInfo slot, or reports
// failure by returning (nil, false) so the caller can try an alternative
// construction path.
type CustomMatchFunc func(ctx MatchContext, modifier colset.Modifier) (plan.Node, bool)
