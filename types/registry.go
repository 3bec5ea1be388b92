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

// Package types implements the Type Registry and per-type/per-parameter
// metadata of the hydration engine: process-wide TypeInfo storage, lazy
// construction-path/member discovery, specificity ordering, and null-policy
// resolution.
package types

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/rowforge/hydrate/colset"
	"github.com/rowforge/hydrate/herrors"
	"github.com/rowforge/hydrate/plan"
)

var rawValueType = reflect.TypeOf((*any)(nil)).Elem()

// readableMatch builds the CustomMatchFunc installed on a Readable type's
// auto-registered Matcher: negotiate one raw column slot, then hand its
// value to the target's own ScanColumn method rather than decomposing the
// type into members.
func readableMatch(t reflect.Type) CustomMatchFunc {
	return func(ctx MatchContext, modifier colset.Modifier) (plan.Node, bool) {
		inner, ok := ctx.Negotiate(rawValueType, modifier, Nullable)
		if !ok {
			return nil, false
		}
		return &plan.Construct{
			PathDescription: "readable(" + t.String() + ")",
			ResultType:      t,
			Children:        []plan.Node{inner},
			Invoke: func(children []any) (any, error) {
				ptr := reflect.New(stripPointer(t))
				readable, ok := ptr.Interface().(Readable)
				if !ok {
					return nil, fmt.Errorf("%s does not implement Readable", t)
				}
				raw := children[0]
				if raw == plan.NullMarker {
					// ScanColumn sees a plain nil for a NULL column, never
					// the engine's internal absence sentinel.
					raw = nil
				}
				if err := readable.ScanColumn(raw); err != nil {
					return nil, err
				}
				if t.Kind() == reflect.Pointer {
					return ptr.Interface(), nil
				}
				return ptr.Elem().Interface(), nil
			},
		}, true
	}
}

func stripPointer(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// Readable marks a type that knows how to hydrate itself from a single
// column value; such types auto-register without requiring explicit
// construction-path setup. Mirrors the database/sql.Scanner idiom.
type Readable interface {
	ScanColumn(value any) error
}

var readableType = reflect.TypeOf((*Readable)(nil)).Elem()

// Registry is the process-wide map from type to TypeInfo. It is
// copy-on-write under a single writer lock: readers load an immutable
// snapshot map with no synchronization.
type Registry struct {
	mu       sync.Mutex // single writer lock; guards mutation only
	snapshot atomic.Pointer[map[reflect.Type]*TypeInfo]
	openIdx  atomic.Pointer[map[string]*TypeInfo]
	log      logrus.FieldLogger
}

// NewRegistry returns an empty Registry. A nil logger defaults to logrus's
// standard logger.
func NewRegistry(log logrus.FieldLogger) *Registry {
	if log == nil {
		log = logrus.StandardLogger()
	}
	r := &Registry{log: log}
	empty := map[reflect.Type]*TypeInfo{}
	emptyOpen := map[string]*TypeInfo{}
	r.snapshot.Store(&empty)
	r.openIdx.Store(&emptyOpen)
	return r
}

// canonical strips Go's nullable wrapper (pointer indirection) down to the
// underlying type. Applied repeatedly so that **T and *T canonicalize
// identically.
func canonical(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// openKey derives the "open generic definition" key for a closed generic
// instantiation. Go exposes no unbound generic reflect.Type, so the open
// key is synthesized from the package path and the type name with its
// bracketed type-argument list stripped.
func openKey(t reflect.Type) string {
	name := t.Name()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return t.PkgPath() + "." + name
}

func isGenericInstance(t reflect.Type) bool {
	return isGenericType(t)
}

// TryGet performs an exact (or open-fallback) lookup without triggering
// auto-registration.
func (r *Registry) TryGet(t reflect.Type) (*TypeInfo, bool) {
	t = canonical(t)
	snap := *r.snapshot.Load()
	if ti, ok := snap[t]; ok {
		return ti, true
	}
	if isGenericInstance(t) {
		open := *r.openIdx.Load()
		if ti, ok := open[openKey(t)]; ok {
			return ti, true
		}
	}
	return nil, false
}

// GetOrRegister resolves t to a TypeInfo, applying the resolution rules in
// order: strip nullable, exact lookup, open-generic fallback,
// readable-marker auto-registration, basic/enum auto-registration, struct
// auto-registration (lazy member discovery), interface auto-registration
// (empty path list), else herrors.UnknownType.
func (r *Registry) GetOrRegister(t reflect.Type) (*TypeInfo, error) {
	t = canonical(t)

	if ti, ok := r.TryGet(t); ok {
		return ti, nil
	}

	if reflect.PointerTo(t).Implements(readableType) || t.Implements(readableType) {
		ti := r.registerLocked(t, nil, &Matcher{Kind: MatcherCustom, Custom: readableMatch(t)})
		return ti, nil
	}

	if isBasicKind(t.Kind()) || isLikelyEnum(t) {
		ti := r.registerLocked(t, nil, &Matcher{Kind: MatcherBasic})
		return ti, nil
	}

	if t.Kind() == reflect.Struct {
		ti := r.registerLocked(t, func(ti *TypeInfo) {
			autoDiscoverMembers(ti, r.isViable)
		}, nil)
		return ti, nil
	}

	// Interface targets have no fields to walk and no default constructor,
	// so there is nothing for autoDiscoverMembers to do; they auto-register
	// with an empty path list and rely entirely on TypeInfo.AddPath for the
	// factory methods that produce a stack-equivalent concrete value
	// (validatePath's interface branch of stackEquivalent authorizes
	// exactly this).
	if t.Kind() == reflect.Interface {
		ti := r.registerLocked(t, nil, nil)
		return ti, nil
	}

	return nil, herrors.UnknownType.New(t.String())
}

// RegisterManual installs a fully prepared TypeInfo for t, overwriting any
// existing entry. Used by callers that want to hand-build a TypeInfo
// before any lazy discovery would run.
func (r *Registry) RegisterManual(t reflect.Type, ti *TypeInfo) {
	t = canonical(t)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storeLocked(t, ti)
}

// Unregister removes t's TypeInfo (and its open-generic index entry, if t
// was the family's indexed instantiation), reporting whether an entry was
// removed. Callers that cache compiled parsers for t must drop them too.
func (r *Registry) Unregister(t reflect.Type) bool {
	t = canonical(t)
	r.mu.Lock()
	defer r.mu.Unlock()

	old := *r.snapshot.Load()
	ti, ok := old[t]
	if !ok {
		return false
	}
	next := make(map[reflect.Type]*TypeInfo, len(old)-1)
	for k, v := range old {
		if k != t {
			next[k] = v
		}
	}
	r.snapshot.Store(&next)

	if isGenericInstance(t) {
		oldOpen := *r.openIdx.Load()
		if oldOpen[openKey(t)] == ti {
			nextOpen := make(map[string]*TypeInfo, len(oldOpen)-1)
			for k, v := range oldOpen {
				if v != ti {
					nextOpen[k] = v
				}
			}
			r.openIdx.Store(&nextOpen)
		}
	}
	r.log.WithField("type", t).Debug("hydrate: unregistered type")
	return true
}

// registerLocked takes the writer lock, builds a TypeInfo with the given
// discovery function, installs it, and returns it. A double check after
// acquiring the lock keeps GetOrRegister idempotent under races.
func (r *Registry) registerLocked(t reflect.Type, discover func(*TypeInfo), matcher *Matcher) *TypeInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := *r.snapshot.Load()
	if ti, ok := snap[t]; ok {
		return ti
	}

	ti := newTypeInfo(t, discover, r.log)
	ti.matcher = matcher
	r.log.WithField("type", t).Debug("hydrate: auto-registered type")
	r.storeLocked(t, ti)
	return ti
}

// storeLocked swaps in a new snapshot map containing t -> ti, preserving
// every other entry. Must be called with mu held.
func (r *Registry) storeLocked(t reflect.Type, ti *TypeInfo) {
	old := *r.snapshot.Load()
	next := make(map[reflect.Type]*TypeInfo, len(old)+1)
	for k, v := range old {
		next[k] = v
	}
	next[t] = ti
	r.snapshot.Store(&next)

	if isGenericInstance(t) {
		key := openKey(t)
		oldOpen := *r.openIdx.Load()
		if _, exists := oldOpen[key]; !exists {
			nextOpen := make(map[string]*TypeInfo, len(oldOpen)+1)
			for k, v := range oldOpen {
				nextOpen[k] = v
			}
			nextOpen[key] = ti
			r.openIdx.Store(&nextOpen)
		}
	}
}

// AddPath manually registers a construction path on t's TypeInfo, using
// this registry's own viability predicate.
func (r *Registry) AddPath(t reflect.Type, p *Path) error {
	ti, err := r.GetOrRegister(t)
	if err != nil {
		return err
	}
	return ti.AddPath(p, r.isViable)
}

// SetPaths wholesale-replaces t's construction paths, validated against
// this registry's viability predicate.
func (r *Registry) SetPaths(t reflect.Type, paths []*Path) error {
	ti, err := r.GetOrRegister(t)
	if err != nil {
		return err
	}
	return ti.SetPaths(paths, r.isViable)
}

// isViable reports whether t may appear as a construction-parameter or
// member type: a basic type/enum, a struct, an interface, a Readable type,
// or a pointer wrapping one of these. The registry's current entries are
// not consulted, so a manually registered type of any other kind is not
// viable.
// Struct/pointer-to-struct types are treated as viable without eagerly
// registering them, since a type's own TypeInfo is only ever materialized
// lazily (this also sidesteps unbounded recursion for self-referential
// types, resolved instead at negotiation time where the shrinking column
// set terminates the descent).
func (r *Registry) isViable(t reflect.Type) bool {
	if t == nil {
		return false
	}
	u := canonical(t)
	if isBasicKind(u.Kind()) || isLikelyEnum(u) {
		return true
	}
	if u.Kind() == reflect.Struct {
		return true
	}
	if u.Kind() == reflect.Interface {
		return true // a registered TypeInfo carries factory Paths, see GetOrRegister's interface branch
	}
	if reflect.PointerTo(u).Implements(readableType) || u.Implements(readableType) {
		return true
	}
	return false
}

func isBasicKind(k reflect.Kind) bool {
	switch k {
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

// isLikelyEnum reports whether t is a named integer/string type other than
// Go's own predeclared ones, i.e. a user-defined "type Status int" style
// enum. A named integral/string type with a non-empty package path is the
// idiomatic Go analogue of an enum.
func isLikelyEnum(t reflect.Type) bool {
	if t.PkgPath() == "" {
		return false // predeclared type (int, string, ...), not a user enum
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.String:
		return true
	default:
		return false
	}
}
