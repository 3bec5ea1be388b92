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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type plainStruct struct {
	Name string
	Age  int
}

type scannerType struct {
	raw any
}

func (s *scannerType) ScanColumn(v any) error {
	s.raw = v
	return nil
}

func TestGetOrRegisterIsIdempotent(t *testing.T) {
	r := NewRegistry(nil)
	a, err := r.GetOrRegister(reflect.TypeOf(plainStruct{}))
	require.NoError(t, err)
	b, err := r.GetOrRegister(reflect.TypeOf(plainStruct{}))
	require.NoError(t, err)
	assert.Same(t, a, b, "GetOrRegister must return the same TypeInfo instance")
}

func TestGetOrRegisterBasicType(t *testing.T) {
	r := NewRegistry(nil)
	ti, err := r.GetOrRegister(reflect.TypeOf(int(0)))
	require.NoError(t, err)
	require.NotNil(t, ti.Matcher())
	assert.Equal(t, MatcherBasic, ti.Matcher().Kind,
		"a basic type must auto-register with MatcherBasic")
}

func TestGetOrRegisterReadableMarker(t *testing.T) {
	r := NewRegistry(nil)
	ti, err := r.GetOrRegister(reflect.TypeOf(scannerType{}))
	require.NoError(t, err)
	require.NotNil(t, ti.Matcher())
	assert.Equal(t, MatcherCustom, ti.Matcher().Kind,
		"a Readable-implementing type must auto-register with MatcherCustom")
}

func TestGetOrRegisterUnknownType(t *testing.T) {
	r := NewRegistry(nil)
	_, err := r.GetOrRegister(reflect.TypeOf(make(chan int)))
	require.Error(t, err, "a channel type has no auto-registration rule")
}

func TestGetOrRegisterStripsPointerWrapper(t *testing.T) {
	r := NewRegistry(nil)
	direct, err := r.GetOrRegister(reflect.TypeOf(plainStruct{}))
	require.NoError(t, err)
	viaPointer, err := r.GetOrRegister(reflect.TypeOf(&plainStruct{}))
	require.NoError(t, err)
	assert.Same(t, direct, viaPointer, "*T and T must resolve to the same TypeInfo")
}

func TestAutoDiscoverMembersCoversExportedFields(t *testing.T) {
	r := NewRegistry(nil)
	ti, err := r.GetOrRegister(reflect.TypeOf(plainStruct{}))
	require.NoError(t, err)
	assert.Len(t, ti.Members(), 2)
	assert.NotNil(t, ti.ParameterlessPath(),
		"a struct type must get a synthesized parameterless path")
}
