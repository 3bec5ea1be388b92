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

import "reflect"

// autoDiscoverMembers implements the half of automatic discovery that Go
// can perform at runtime: public, settable struct fields.
//
// Go has no enumerable constructors or static factory methods, so that
// half of discovery is not attempted at runtime. Construction paths are
// explicit registrations via TypeInfo.AddPath or TypeInfo.SetPaths; the
// codegen descriptor generator emits member setters only, not paths.
// TypeInfo.ConstructionPaths therefore never guesses at which
// package-level function is "the" constructor.
//
// A synthetic parameterless path (reflect.New of the struct, followed by
// member assignment) is always installed for struct types, since Go's zero
// value construction is always available and is the natural analogue of a
// default constructor.
func autoDiscoverMembers(ti *TypeInfo, isViable func(reflect.Type) bool) {
	t := ti.Type
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return
	}

	var members []*MemberSetter
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if !isViable(f.Type) {
			continue
		}
		param := NewParamInfo(f.Name, f.Type)
		idx := append([]int(nil), f.Index...)
		members = append(members, &MemberSetter{
			Name:       f.Name,
			Param:      param,
			TargetType: f.Type,
			fieldIndex: idx,
		})
	}
	ti.members = members

	ti.parameterlessPath = &Path{
		Kind:                   Constructor,
		ReturnType:             ti.Type,
		CanCompleteWithMembers: true,
		description:            "zero-value constructor for " + t.String(),
		Invoke: func(args []any) (any, error) {
			ptr := reflect.New(t)
			if ti.Type.Kind() == reflect.Pointer {
				return ptr.Interface(), nil
			}
			return ptr.Elem().Interface(), nil
		},
	}
}
