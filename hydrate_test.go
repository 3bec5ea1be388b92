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

package hydrate

import (
	"reflect"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/src-d/go-vitess.v1/sqltypes"

	"github.com/rowforge/hydrate/cursor"
	"github.com/rowforge/hydrate/rowexec"
	"github.com/rowforge/hydrate/schema"
	"github.com/rowforge/hydrate/types"
)

type fakeRow []any

func (f fakeRow) Value(pos uint16) any { return f[pos] }

var _ cursor.Row = fakeRow(nil)

// parserIdentity returns the address of p's closure object. Separately
// compiled parsers differ here even though they share code, whereas
// reflect.Value.Pointer on a func reports only the shared code pointer.
func parserIdentity(p rowexec.Parser) uintptr {
	return *(*uintptr)(unsafe.Pointer(&p))
}

type account struct {
	AccountID string
	Balance   float64
}

func TestEngineGetParserEndToEnd(t *testing.T) {
	e := New(Config{})

	cols := schema.Schema{
		{Name: "AccountID", RuntimeType: sqltypes.VarChar, Position: 0},
		{Name: "Balance", RuntimeType: sqltypes.Float64, Position: 1},
	}

	parser, hint, err := e.GetParser(reflect.TypeOf(account{}), cols)
	require.NoError(t, err)
	assert.Equal(t, cursor.HintSequentialAccess|cursor.HintSingleResult, hint,
		"a plan whose columns are read in schema order must carry both hints")

	result, err := parser(fakeRow{"A-1", 100.0})
	require.NoError(t, err)
	assert.Equal(t, account{AccountID: "A-1", Balance: 100.0}, result)
}

func TestEngineGetParserCachesOnSchemaFingerprint(t *testing.T) {
	e := New(Config{})
	cols := schema.Schema{
		{Name: "AccountID", RuntimeType: sqltypes.VarChar, Position: 0},
		{Name: "Balance", RuntimeType: sqltypes.Float64, Position: 1},
	}

	first, _, err := e.GetParser(reflect.TypeOf(account{}), cols)
	require.NoError(t, err)
	second, _, err := e.GetParser(reflect.TypeOf(account{}), cols)
	require.NoError(t, err)
	assert.Equal(t, parserIdentity(first), parserIdentity(second),
		"a fingerprint-identical schema must reuse the same compiled parser")
}

func TestEngineUnregisterTypeEvictsCompiledParsers(t *testing.T) {
	e := New(Config{})
	cols := schema.Schema{
		{Name: "AccountID", RuntimeType: sqltypes.VarChar, Position: 0},
		{Name: "Balance", RuntimeType: sqltypes.Float64, Position: 1},
	}
	target := reflect.TypeOf(account{})

	first, _, err := e.GetParser(target, cols)
	require.NoError(t, err)

	require.True(t, e.UnregisterType(target))
	require.False(t, e.UnregisterType(target), "second unregistration has nothing to remove")

	second, _, err := e.GetParser(target, cols)
	require.NoError(t, err)
	assert.NotEqual(t, parserIdentity(first), parserIdentity(second),
		"UnregisterType must evict the cached parser, forcing a fresh compile")
}

type overdraftDetail struct {
	CaseID int32
}

type accountWithDetail struct {
	AccountID string
	Detail    *overdraftDetail
}

// HintSequentialAccess requires every TerminalRead's column index to be
// visited in non-decreasing order.
// accountWithDetail's members are declared AccountID-then-Detail, but this
// schema places DetailCaseID before AccountID, so the parser reads column 1
// (AccountID) before column 0 (the nested JumpIfNull field). HintSingleResult
// still applies (every
// Parser consumes exactly one row) but HintSequentialAccess must not.
func TestEngineOmitsSequentialAccessHintWhenColumnsAreOutOfOrder(t *testing.T) {
	e := New(Config{})
	ti, err := e.RegisterType(reflect.TypeOf(overdraftDetail{}))
	require.NoError(t, err)
	ti.SetNullPolicy("CaseID", types.JumpIfNull)

	cols := schema.Schema{
		{Name: "DetailCaseID", RuntimeType: sqltypes.Int32, Nullable: true, Position: 0},
		{Name: "AccountID", RuntimeType: sqltypes.VarChar, Position: 1},
	}

	_, hint, err := e.GetParser(reflect.TypeOf(accountWithDetail{}), cols)
	require.NoError(t, err)
	assert.False(t, hint.Has(cursor.HintSequentialAccess),
		"columns read out of schema order must not claim sequential access")
	assert.True(t, hint.Has(cursor.HintSingleResult))
}
