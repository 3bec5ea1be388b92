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
	"strings"
)

// ParamInfo is the per-constructor-parameter or per-member metadata
// record.
type ParamInfo struct {
	// NameCandidates is the primary name followed by aliases, already
	// deduplicated case-insensitively.
	NameCandidates []string
	// DeclaredType is the slot's concrete Go type. Generic targets reach
	// this layer already instantiated (reflect exposes only closed types),
	// so no placeholder substitution happens at negotiation time.
	DeclaredType reflect.Type

	policy        NullPolicy
	customHandler NullHandler
	matcher       *Matcher
}

// NewParamInfo seeds a ParamInfo from a declared name and type, applying
// the default null-policy rule: Nullable for reference types and
// pointer/optional value types, NotNull otherwise. Use the With* methods
// to apply annotations afterward.
func NewParamInfo(name string, declaredType reflect.Type) *ParamInfo {
	isOptional := declaredType != nil && declaredType.Kind() == reflect.Pointer
	return &ParamInfo{
		NameCandidates: []string{name},
		DeclaredType:   declaredType,
		policy:         selectNullPolicy(nil, nil, isOptional),
	}
}

// WithAlias appends an alias name candidate, folding case-insensitive
// duplicates.
func (p *ParamInfo) WithAlias(alias string) *ParamInfo {
	for _, existing := range p.NameCandidates {
		if strings.EqualFold(existing, alias) {
			return p
		}
	}
	p.NameCandidates = append(p.NameCandidates, alias)
	return p
}

// WithNullPolicy pins an explicit annotation (NotNull or JumpIfNull),
// re-running the selection priority order (a custom handler, if already
// attached, still wins).
func (p *ParamInfo) WithNullPolicy(policy NullPolicy) *ParamInfo {
	p.policy = selectNullPolicy(p.customHandler, &policy, policy == Nullable)
	return p
}

// WithCustomHandler attaches an explicit NullHandler, which outranks every
// annotation.
func (p *ParamInfo) WithCustomHandler(h NullHandler) *ParamInfo {
	p.customHandler = h
	p.policy = Custom
	return p
}

// WithMatcher attaches an attribute-driven matcher override for this slot.
func (p *ParamInfo) WithMatcher(m *Matcher) *ParamInfo {
	p.matcher = m
	return p
}

// NullPolicy returns the resolved policy for this slot.
func (p *ParamInfo) NullPolicy() NullPolicy { return p.policy }

// CustomHandler returns the attached handler, or nil.
func (p *ParamInfo) CustomHandler() NullHandler { return p.customHandler }

// MatcherOverride returns the attached matcher override, or nil.
func (p *ParamInfo) MatcherOverride() *Matcher { return p.matcher }
