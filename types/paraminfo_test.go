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
)

func TestNewParamInfoDefaultsNotNullForValueType(t *testing.T) {
	p := NewParamInfo("Salary", reflect.TypeOf(float64(0)))
	assert.Equal(t, NotNull, p.NullPolicy(), "non-optional value types default to NotNull")
}

func TestNewParamInfoDefaultsNullableForPointerType(t *testing.T) {
	p := NewParamInfo("Weight", reflect.TypeOf((*float64)(nil)))
	assert.Equal(t, Nullable, p.NullPolicy(), "pointer (optional) types default to Nullable")
}

func TestWithAliasFoldsCaseInsensitiveDuplicates(t *testing.T) {
	p := NewParamInfo("Supervisor", reflect.TypeOf(""))
	p.WithAlias("Boss").WithAlias("boss").WithAlias("BOSS")

	assert.Len(t, p.NameCandidates, 2, "aliases must deduplicate case-insensitively")
}

func TestWithCustomHandlerOutranksAnnotations(t *testing.T) {
	p := NewParamInfo("x", reflect.TypeOf(0))
	p.WithNullPolicy(NotNull)
	p.WithCustomHandler(func() (any, error) { return 0, nil })

	assert.Equal(t, Custom, p.NullPolicy(), "an explicit custom handler outranks every annotation")
}

func TestWithNullPolicyJumpIfNull(t *testing.T) {
	p := NewParamInfo("tracking_id", reflect.TypeOf(0))
	p.WithNullPolicy(JumpIfNull)
	assert.Equal(t, JumpIfNull, p.NullPolicy())
}
