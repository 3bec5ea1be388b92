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

// Package cache implements the parser cache: parsers are keyed by (target
// type, schema fingerprint), inserts are idempotent under concurrent
// misses, and entries live for the process lifetime. Unregistering the
// target type (Forget) is the only eviction path.
package cache

import (
	"reflect"
	"sync"

	"github.com/rowforge/hydrate/cursor"
	"github.com/rowforge/hydrate/rowexec"
	"github.com/rowforge/hydrate/schema"
)

// Key identifies one compiled parser: a target type plus the schema
// fingerprint it was compiled against.
type Key struct {
	Target      reflect.Type
	Fingerprint schema.Fingerprint
}

// Entry is what the cache stores per Key: the compiled parser alongside
// the plan-lowering execution hint.
type Entry struct {
	Parser rowexec.Parser
	Hint   cursor.ExecutionHint
}

// Cache maps Keys to compiled parsers. It never evicts on its own: the set
// of distinct (type, schema) pairs a process compiles is bounded by its
// query shapes, so entries are retained for the process lifetime and
// removed only through Forget.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]*Entry
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{entries: make(map[Key]*Entry)}
}

// Get returns the cached entry for key, if any.
func (c *Cache) Get(key Key) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

// GetOrCompile returns the cached entry for key, or calls compile on a
// miss, installing and returning its result. Concurrent misses for the
// same key are idempotent: compile may run more than once, but only the
// first result to be stored under the writer lock is kept; later callers
// observe that winner instead of their own compiled result.
func (c *Cache) GetOrCompile(key Key, compile func() (*Entry, error)) (*Entry, error) {
	if e, ok := c.Get(key); ok {
		return e, nil
	}

	e, err := compile()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[key]; ok {
		return existing, nil
	}
	c.entries[key] = e
	return e, nil
}

// Forget removes every cached entry for target, used when a type is
// unregistered. It is the only eviction path.
func (c *Cache) Forget(target reflect.Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.Target == target {
			delete(c.entries, k)
		}
	}
}
