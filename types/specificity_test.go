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

type stringerIface interface {
	String() string
}

type concreteStringer struct{}

func (concreteStringer) String() string { return "" }

func pathWithParamTypes(types ...reflect.Type) *Path {
	params := make([]*ParamInfo, len(types))
	for i, t := range types {
		params[i] = NewParamInfo("p", t)
	}
	return &Path{Params: params}
}

func TestMoreSpecificRequiresAtLeastAsManyParams(t *testing.T) {
	a := pathWithParamTypes(reflect.TypeOf(""))
	b := pathWithParamTypes(reflect.TypeOf(""), reflect.TypeOf(0))
	assert.False(t, moreSpecific(a, b), "a path with fewer params must never be more specific")
}

func TestMoreSpecificBySubtype(t *testing.T) {
	ifaceType := reflect.TypeOf((*stringerIface)(nil)).Elem()
	concreteType := reflect.TypeOf(concreteStringer{})

	specific := pathWithParamTypes(concreteType, reflect.TypeOf(""))
	general := pathWithParamTypes(ifaceType, reflect.TypeOf(""))

	assert.True(t, moreSpecific(specific, general),
		"a concrete implementer is more specific than the interface it implements")
	assert.False(t, moreSpecific(general, specific),
		"an interface is not more specific than its implementer")
}

func TestMoveForwardOrderRelocatesMoreSpecificPath(t *testing.T) {
	card := pathWithParamTypes(reflect.TypeOf(""))
	card.description = "Card"
	cardDetailed := pathWithParamTypes(reflect.TypeOf(""), reflect.TypeOf(""))
	cardDetailed.description = "CardDetailed"

	ordered := moveForwardOrder([]*Path{card, cardDetailed})

	assert.Same(t, cardDetailed, ordered[0],
		"CardDetailed (more specific, more params) must move ahead of Card")
}

func TestMoveForwardOrderLeavesUnrelatedPathsInDiscoveryOrder(t *testing.T) {
	a := pathWithParamTypes(reflect.TypeOf(0))
	a.description = "a"
	b := pathWithParamTypes(reflect.TypeOf(""))
	b.description = "b"

	ordered := moveForwardOrder([]*Path{a, b})
	assert.Equal(t, []*Path{a, b}, ordered, "unrelated paths must retain discovery order")
}

func TestSettleManualInsertSettlesAfterMoreSpecificPaths(t *testing.T) {
	mostSpecific := pathWithParamTypes(reflect.TypeOf(""), reflect.TypeOf(""), reflect.TypeOf(0))
	mostSpecific.description = "most"
	leastSpecific := pathWithParamTypes(reflect.TypeOf(""))
	leastSpecific.description = "least"

	manual := pathWithParamTypes(reflect.TypeOf(""), reflect.TypeOf(""))
	manual.description = "manual"

	existing := []*Path{mostSpecific, leastSpecific}
	result := settleManualInsert(existing, manual)

	require.Len(t, result, 3)
	assert.Equal(t, []*Path{mostSpecific, manual, leastSpecific}, result,
		"the manual path settles immediately after the last more-specific path")
}
