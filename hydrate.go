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

// Package hydrate is the engine facade: it owns the type registry and the
// parser cache, and exposes the public registration and parser-compilation
// surface.
package hydrate

import (
	"context"
	"reflect"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"github.com/rowforge/hydrate/analyzer"
	"github.com/rowforge/hydrate/cache"
	"github.com/rowforge/hydrate/cursor"
	"github.com/rowforge/hydrate/rowexec"
	"github.com/rowforge/hydrate/schema"
	"github.com/rowforge/hydrate/types"
)

// Config configures an Engine. A zero Config is valid: logging defaults to
// logrus's standard logger and tracing defaults to opentracing's no-op
// global tracer.
type Config struct {
	// Log receives structured debug/trace events from registration and
	// negotiation.
	Log logrus.FieldLogger
	// Tracer wraps every GetParser call, cache hit or miss, in one span of
	// the same name, so a host process already instrumented with
	// opentracing sees the time each call takes, compilation included.
	Tracer opentracing.Tracer
}

// Engine is the embeddable hydration engine: one process-wide type
// registry plus one parser cache.
type Engine struct {
	registry *types.Registry
	cache    *cache.Cache
	log      logrus.FieldLogger
	tracer   opentracing.Tracer
}

// New builds an Engine from cfg.
func New(cfg Config) *Engine {
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = opentracing.GlobalTracer()
	}
	return &Engine{
		registry: types.NewRegistry(log),
		cache:    cache.New(),
		log:      log,
		tracer:   tracer,
	}
}

// RegisterType resolves or auto-registers t, returning its TypeInfo for
// further manual configuration.
func (e *Engine) RegisterType(t reflect.Type) (*types.TypeInfo, error) {
	return e.registry.GetOrRegister(t)
}

// UnregisterType removes t's registration and evicts every parser compiled
// for it, across all schema fingerprints. It reports whether t was
// registered.
func (e *Engine) UnregisterType(t reflect.Type) bool {
	if !e.registry.Unregister(t) {
		return false
	}
	e.cache.Forget(t)
	return true
}

// AddPath registers one construction path on t.
func (e *Engine) AddPath(t reflect.Type, p *types.Path) error {
	return e.registry.AddPath(t, p)
}

// SetPaths wholesale-replaces t's construction paths.
func (e *Engine) SetPaths(t reflect.Type, paths []*types.Path) error {
	return e.registry.SetPaths(t, paths)
}

// AddAlias adds a name alias to a member or construction parameter of t.
func (e *Engine) AddAlias(t reflect.Type, name, alias string) error {
	ti, err := e.registry.GetOrRegister(t)
	if err != nil {
		return err
	}
	ti.AddAlias(name, alias)
	return nil
}

// SetNullPolicy sets the null policy for a member of t.
func (e *Engine) SetNullPolicy(t reflect.Type, name string, policy types.NullPolicy) error {
	ti, err := e.registry.GetOrRegister(t)
	if err != nil {
		return err
	}
	ti.SetNullPolicy(name, policy)
	return nil
}

// InstallMatcher attaches a negotiation-overriding Matcher to t.
func (e *Engine) InstallMatcher(t reflect.Type, m *types.Matcher) error {
	ti, err := e.registry.GetOrRegister(t)
	if err != nil {
		return err
	}
	ti.InstallMatcher(m)
	return nil
}

// GetParser returns the compiled parser for (target, schema) along with
// its execution hint, compiling and caching on a miss.
func (e *Engine) GetParser(target reflect.Type, s schema.Schema) (rowexec.Parser, cursor.ExecutionHint, error) {
	span, _ := opentracing.StartSpanFromContextWithTracer(context.Background(), e.tracer, "hydrate.GetParser")
	defer span.Finish()

	key := cache.Key{Target: target, Fingerprint: s.Fingerprint()}
	entry, err := e.cache.GetOrCompile(key, func() (*cache.Entry, error) {
		e.log.WithField("type", target).Info("hydrate: compiling parser (cache miss)")
		node, err := analyzer.Negotiate(e.registry, target, s)
		if err != nil {
			e.log.WithField("type", target).Debug("hydrate: negotiation failed")
			return nil, err
		}
		parser, err := rowexec.Compile(node)
		if err != nil {
			return nil, err
		}
		return &cache.Entry{Parser: parser, Hint: deriveHint(node)}, nil
	})
	if err != nil {
		return nil, cursor.HintNone, err
	}
	return entry.Parser, entry.Hint, nil
}
