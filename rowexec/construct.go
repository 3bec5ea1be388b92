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

package rowexec

import (
	"reflect"

	"github.com/rowforge/hydrate/cursor"
	"github.com/rowforge/hydrate/plan"
)

func compileConstruct(n *plan.Construct, hasSink bool) (func(cursor.Row) (any, error), error) {
	childHasSink := hasSink || n.ProvidesRecoverySink

	children := make([]func(cursor.Row) (any, error), len(n.Children))
	for i, c := range n.Children {
		fn, err := compileNode(c, childHasSink)
		if err != nil {
			return nil, err
		}
		children[i] = fn
	}

	members := make([]compiledMember, len(n.Members))
	for i, m := range n.Members {
		fn, err := compileNode(m.Plan, childHasSink)
		if err != nil {
			return nil, err
		}
		members[i] = compiledMember{name: m.Name, set: m.Set, eval: fn}
	}

	body := func(row cursor.Row) (any, error) {
		childVals := make([]any, len(children))
		for i, fn := range children {
			v, err := fn(row)
			if err != nil {
				return nil, err
			}
			childVals[i] = v
		}

		raw, err := n.Invoke(childVals)
		if err != nil {
			return nil, err
		}
		if len(members) == 0 {
			return raw, nil
		}
		return applyMembers(raw, members, row)
	}

	if n.ProvidesRecoverySink {
		return withRecoverySink(body, n.SentinelOnJump), nil
	}
	return body, nil
}

type compiledMember struct {
	name string
	set  func(target any, value any) error
	eval func(cursor.Row) (any, error)
}

// applyMembers assigns every member in declaration order onto an
// addressable copy of raw, returning the (possibly re-boxed) final value.
// A value-kind Construct result is copied into a fresh addressable
// reflect.Value first, since MemberSetter.Set requires an addressable
// struct to set fields on.
func applyMembers(raw any, members []compiledMember, row cursor.Row) (any, error) {
	rv := reflect.ValueOf(raw)
	isPointer := rv.Kind() == reflect.Pointer

	addr := rv
	if !isPointer {
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		addr = ptr
	}

	for _, m := range members {
		val, err := m.eval(row)
		if err != nil {
			return nil, err
		}
		if err := m.set(addr.Interface(), val); err != nil {
			return nil, err
		}
	}

	if isPointer {
		return addr.Interface(), nil
	}
	return addr.Elem().Interface(), nil
}
