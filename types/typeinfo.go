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
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/rowforge/hydrate/herrors"
)

// TypeInfo is the per-type metadata record: construction paths in
// specificity order, an optional parameterless path, member setters, and
// an optional negotiation-overriding Matcher.
type TypeInfo struct {
	Type reflect.Type

	mu                sync.Mutex
	initialized       bool
	constructionPaths []*Path
	parameterlessPath *Path
	members           []*MemberSetter
	matcher           *Matcher

	// discover is invoked once, under mu, the first time a path or member
	// accessor or mutator is called and initialized is still false; Matcher
	// and InstallMatcher do not trigger it.
	discover func(*TypeInfo)

	log logrus.FieldLogger
}

func newTypeInfo(t reflect.Type, discover func(*TypeInfo), log logrus.FieldLogger) *TypeInfo {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &TypeInfo{Type: t, discover: discover, log: log}
}

// EnsureInitialized forces lazy discovery to run now, if it has not
// already.
func (ti *TypeInfo) EnsureInitialized() {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	ti.ensureInitializedLocked()
}

func (ti *TypeInfo) ensureInitializedLocked() {
	if ti.initialized {
		return
	}
	if ti.discover != nil {
		ti.log.WithField("type", ti.Type).Debug("hydrate: running lazy discovery")
		ti.discover(ti)
	}
	ti.initialized = true
}

// ConstructionPaths returns the paths in specificity order, triggering
// lazy discovery if needed.
func (ti *TypeInfo) ConstructionPaths() []*Path {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	ti.ensureInitializedLocked()
	return ti.constructionPaths
}

// ParameterlessPath returns the parameterless path, if any.
func (ti *TypeInfo) ParameterlessPath() *Path {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	ti.ensureInitializedLocked()
	return ti.parameterlessPath
}

// Members returns the member setters in declaration order.
func (ti *TypeInfo) Members() []*MemberSetter {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	ti.ensureInitializedLocked()
	return ti.members
}

// Matcher returns the negotiation-overriding matcher, if any.
func (ti *TypeInfo) Matcher() *Matcher {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	return ti.matcher
}

// InstallMatcher attaches a negotiation-overriding matcher.
func (ti *TypeInfo) InstallMatcher(m *Matcher) {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	ti.matcher = m
}

// AddPath manually registers a construction path, validating it and
// settling it into place per the specificity-ordering rule. Rejects the
// path with InvalidRegistration on viability, stack-equivalence, or
// generic-declaration violations.
func (ti *TypeInfo) AddPath(p *Path, isViable func(reflect.Type) bool) error {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	ti.ensureInitializedLocked()

	if err := validatePath(p, ti.Type, isViable); err != nil {
		return herrors.InvalidRegistration.New(ti.Type.String(), err.Error())
	}
	p.manual = true
	if len(p.Params) == 0 {
		ti.parameterlessPath = p
		return nil
	}
	ti.constructionPaths = settleManualInsert(ti.constructionPaths, p)
	return nil
}

// SetPaths wholesale-replaces the construction path list, validating every
// entry; the first failure raises an error and leaves the existing list
// untouched.
func (ti *TypeInfo) SetPaths(paths []*Path, isViable func(reflect.Type) bool) error {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	ti.ensureInitializedLocked()

	for _, p := range paths {
		if err := validatePath(p, ti.Type, isViable); err != nil {
			return herrors.InvalidRegistration.New(ti.Type.String(), err.Error())
		}
	}
	for _, p := range paths {
		p.manual = true
	}
	ti.constructionPaths = moveForwardOrder(paths)
	return nil
}

// AddMember manually registers a member setter, appended in declaration
// order.
func (ti *TypeInfo) AddMember(m *MemberSetter) {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	ti.ensureInitializedLocked()
	ti.members = append(ti.members, m)
}

// SetMembers wholesale-replaces the member list.
func (ti *TypeInfo) SetMembers(members []*MemberSetter) {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	ti.ensureInitializedLocked()
	ti.members = members
}

// AddAlias adds a name alias to the ParamInfo of the named member or
// construction parameter.
func (ti *TypeInfo) AddAlias(name, alias string) {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	ti.ensureInitializedLocked()
	for _, m := range ti.members {
		if m.Name == name {
			m.Param.WithAlias(alias)
		}
	}
	for _, p := range ti.constructionPaths {
		for _, param := range p.Params {
			for _, c := range param.NameCandidates {
				if c == name {
					param.WithAlias(alias)
				}
			}
		}
	}
}

// SetNullPolicy sets the null policy for the named member.
func (ti *TypeInfo) SetNullPolicy(name string, policy NullPolicy) {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	ti.ensureInitializedLocked()
	for _, m := range ti.members {
		if m.Name == name {
			m.Param.WithNullPolicy(policy)
		}
	}
}
