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

	"github.com/rowforge/hydrate/herrors"
)

type genericBox[T any] struct {
	Value T
}

type genericPair[K comparable, V any] struct {
	Key K
	Val V
}

func TestGenericArityCountsTopLevelTypeArguments(t *testing.T) {
	assert.Equal(t, 1, genericArity(reflect.TypeOf(genericBox[int]{})))
	assert.Equal(t, 2, genericArity(reflect.TypeOf(genericPair[string, int]{})))
	assert.Equal(t, 0, genericArity(reflect.TypeOf(0)))
}

// A factory method's own generic arity must positionally match the target
// type's generic arity exactly.
func TestAddPathRejectsGenericMethodArityMismatch(t *testing.T) {
	r := NewRegistry(nil)
	target := reflect.TypeOf(genericBox[int]{})

	err := r.AddPath(target, &Path{
		Kind:               Factory,
		ReturnType:         target,
		MethodGenericArity: 2,
		Invoke:             func(args []any) (any, error) { return genericBox[int]{}, nil },
	})
	require.Error(t, err)
	assert.True(t, herrors.InvalidRegistration.Is(err),
		"expected herrors.InvalidRegistration, got %v", err)
}

// TestAddPathAcceptsMatchingGenericMethodArity is the positive counterpart:
// a factory method whose generic arity matches the target's is accepted.
func TestAddPathAcceptsMatchingGenericMethodArity(t *testing.T) {
	r := NewRegistry(nil)
	target := reflect.TypeOf(genericBox[int]{})

	err := r.AddPath(target, &Path{
		Kind:               Factory,
		ReturnType:         target,
		MethodGenericArity: 1,
		Invoke:             func(args []any) (any, error) { return genericBox[int]{}, nil },
	})
	require.NoError(t, err)
}
