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

package analyzer

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/src-d/go-vitess.v1/sqltypes"

	"github.com/rowforge/hydrate/colset"
	"github.com/rowforge/hydrate/cursor"
	"github.com/rowforge/hydrate/plan"
	"github.com/rowforge/hydrate/rowexec"
	"github.com/rowforge/hydrate/schema"
	"github.com/rowforge/hydrate/types"
)

type fakeRow []any

func (f fakeRow) Value(pos uint16) any { return f[pos] }

var _ cursor.Row = fakeRow(nil)

// compileFor negotiates and lowers a plan for target against cols, failing
// the test on either step.
func compileFor(t *testing.T, reg *types.Registry, target reflect.Type, cols schema.Schema) rowexec.Parser {
	t.Helper()
	node, err := Negotiate(reg, target, cols)
	require.NoError(t, err)
	parser, err := rowexec.Compile(node)
	require.NoError(t, err)
	return parser
}

type employee struct {
	BadgeID    string
	Department string
	Salary     float64
}

func TestNegotiateFlatRecord(t *testing.T) {
	reg := types.NewRegistry(nil)
	cols := schema.Schema{
		{Name: "BadgeId", RuntimeType: sqltypes.VarChar, Position: 0},
		{Name: "Department", RuntimeType: sqltypes.VarChar, Position: 1},
		{Name: "Salary", RuntimeType: sqltypes.Float64, Position: 2},
	}

	parser := compileFor(t, reg, reflect.TypeOf(employee{}), cols)

	result, err := parser(fakeRow{"E-1", "Engineering", 145000.0})
	require.NoError(t, err)
	assert.Equal(t, employee{BadgeID: "E-1", Department: "Engineering", Salary: 145000.0}, result)
}

type emptyMarker struct{}

// emptyMarker has no members at all, so its synthesized zero-value
// parameterless path must still produce a valid trivial parser against an
// empty schema.
func TestNegotiateEmptySchemaUsesParameterlessPath(t *testing.T) {
	reg := types.NewRegistry(nil)

	parser := compileFor(t, reg, reflect.TypeOf(emptyMarker{}), schema.Schema{})

	result, err := parser(fakeRow{})
	require.NoError(t, err)
	assert.IsType(t, emptyMarker{}, result)
}

type productStatus struct {
	ProductID int32
	Weight    *float64
	InStock   bool
}

func TestNegotiateNullableScalar(t *testing.T) {
	reg := types.NewRegistry(nil)
	cols := schema.Schema{
		{Name: "ProductID", RuntimeType: sqltypes.Int32, Position: 0},
		{Name: "Weight", RuntimeType: sqltypes.Float64, Nullable: true, Position: 1},
		{Name: "InStock", RuntimeType: sqltypes.Int8, Position: 2},
	}

	parser := compileFor(t, reg, reflect.TypeOf(productStatus{}), cols)

	present, err := parser(fakeRow{int32(7), 12.5, int8(1)})
	require.NoError(t, err)
	p := present.(productStatus)
	require.NotNil(t, p.Weight)
	assert.Equal(t, 12.5, *p.Weight)
	assert.True(t, p.InStock)

	absent, err := parser(fakeRow{int32(8), nil, int8(0)})
	require.NoError(t, err)
	a := absent.(productStatus)
	assert.Nil(t, a.Weight, "a NULL column must hydrate into a nil pointer")
	assert.False(t, a.InStock)
}

type trackedPackage struct {
	TrackingID int32
	Weight     float64
}

type shipment struct {
	ShipmentID string
	Contents   *trackedPackage
}

func TestNegotiateJumpIfNullRecoversNestedStruct(t *testing.T) {
	reg := types.NewRegistry(nil)
	pkgInfo, err := reg.GetOrRegister(reflect.TypeOf(trackedPackage{}))
	require.NoError(t, err)
	pkgInfo.SetNullPolicy("TrackingID", types.JumpIfNull)

	cols := schema.Schema{
		{Name: "ShipmentID", RuntimeType: sqltypes.VarChar, Position: 0},
		{Name: "ContentsTrackingID", RuntimeType: sqltypes.Int32, Nullable: true, Position: 1},
		{Name: "ContentsWeight", RuntimeType: sqltypes.Float64, Position: 2},
	}

	parser := compileFor(t, reg, reflect.TypeOf(shipment{}), cols)

	present, err := parser(fakeRow{"S-1", int32(42), 3.5})
	require.NoError(t, err)
	ps := present.(shipment)
	require.NotNil(t, ps.Contents)
	assert.Equal(t, int32(42), ps.Contents.TrackingID)

	jumped, err := parser(fakeRow{"S-2", nil, 3.5})
	require.NoError(t, err)
	js := jumped.(shipment)
	assert.Nil(t, js.Contents, "Contents must recover to nil when TrackingID is NULL")
	assert.Equal(t, "S-2", js.ShipmentID,
		"sibling fields outside the recovered construct must still populate")
}

type regionRecord struct {
	ID     int32
	Region string
}

// A matcher override attached to a single ParamInfo replaces the standard
// recursion for that slot only; every other slot still negotiates
// normally.
func TestNegotiateParamMatcherOverride(t *testing.T) {
	reg := types.NewRegistry(nil)
	ti, err := reg.GetOrRegister(reflect.TypeOf(regionRecord{}))
	require.NoError(t, err)
	for _, m := range ti.Members() {
		if m.Name == "Region" {
			m.Param.WithMatcher(&types.Matcher{
				Kind: types.MatcherCustom,
				Custom: func(ctx types.MatchContext, modifier colset.Modifier) (plan.Node, bool) {
					return &plan.Construct{
						PathDescription: "fixed-region",
						ResultType:      reflect.TypeOf(""),
						Invoke: func([]any) (any, error) {
							return "EMEA", nil
						},
					}, true
				},
			})
		}
	}

	cols := schema.Schema{
		{Name: "ID", RuntimeType: sqltypes.Int32, Position: 0},
		{Name: "Region", RuntimeType: sqltypes.VarChar, Position: 1},
	}

	parser := compileFor(t, reg, reflect.TypeOf(regionRecord{}), cols)

	result, err := parser(fakeRow{int32(9), "ignored"})
	require.NoError(t, err)
	assert.Equal(t, regionRecord{ID: 9, Region: "EMEA"}, result,
		"the overridden matcher must supply Region")
}

type discountRow struct {
	SKU  string
	Rate float64
}

// A custom NullHandler attached to a ParamInfo resolves the value for a
// NULL column instead of the default zero/error behavior.
func TestNegotiateCustomNullHandlerResolvesNullColumn(t *testing.T) {
	reg := types.NewRegistry(nil)
	ti, err := reg.GetOrRegister(reflect.TypeOf(discountRow{}))
	require.NoError(t, err)
	for _, m := range ti.Members() {
		if m.Name == "Rate" {
			m.Param.WithCustomHandler(func() (any, error) {
				return 1.0, nil
			})
		}
	}

	cols := schema.Schema{
		{Name: "SKU", RuntimeType: sqltypes.VarChar, Position: 0},
		{Name: "Rate", RuntimeType: sqltypes.Float64, Nullable: true, Position: 1},
	}

	parser := compileFor(t, reg, reflect.TypeOf(discountRow{}), cols)

	result, err := parser(fakeRow{"SKU-1", nil})
	require.NoError(t, err)
	assert.Equal(t, discountRow{SKU: "SKU-1", Rate: 1.0}, result,
		"the custom handler must supply the NULL column's value")

	present, err := parser(fakeRow{"SKU-2", 0.25})
	require.NoError(t, err)
	assert.Equal(t, 0.25, present.(discountRow).Rate,
		"a non-NULL column must keep its real value")
}
