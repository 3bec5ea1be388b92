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
)

// MemberSetter is a field that may be populated after construction. Go has
// no property setters, only exported struct fields, so Set always assigns
// a struct field by reflection.
type MemberSetter struct {
	Name       string
	Param      *ParamInfo
	TargetType reflect.Type

	// fieldIndex is the reflect.Value.FieldByIndex path from the owning
	// struct to this field, precomputed at discovery time.
	fieldIndex []int
}

// NewMemberSetter builds a MemberSetter from a precomputed field-index
// path, the constructor used by generated code (package codegen) so it can
// hand the engine a compile-time-known descriptor instead of relying on
// autoDiscoverMembers' runtime reflect.Type.NumField() walk.
func NewMemberSetter(name string, fieldIndex []int, declaredType reflect.Type, aliases ...string) *MemberSetter {
	param := NewParamInfo(name, declaredType)
	for _, a := range aliases {
		param.WithAlias(a)
	}
	idx := append([]int(nil), fieldIndex...)
	return &MemberSetter{
		Name:       name,
		Param:      param,
		TargetType: declaredType,
		fieldIndex: idx,
	}
}

// Set assigns value onto the member field of the addressable struct value
// target (a reflect.Value obtained from a freshly constructed instance).
func (m *MemberSetter) Set(target reflect.Value, value any) error {
	for target.Kind() == reflect.Pointer {
		if target.IsNil() {
			target.Set(reflect.New(target.Type().Elem()))
		}
		target = target.Elem()
	}
	field := target.FieldByIndex(m.fieldIndex)
	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}
	if rv.Type().AssignableTo(field.Type()) {
		field.Set(rv)
		return nil
	}
	if rv.Type().ConvertibleTo(field.Type()) {
		field.Set(rv.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("member %s: value of type %s is not assignable to %s", m.Name, rv.Type(), field.Type())
}
