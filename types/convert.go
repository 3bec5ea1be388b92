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

	"gopkg.in/src-d/go-vitess.v1/sqltypes"
	querypb "gopkg.in/src-d/go-vitess.v1/vt/proto/query"

	"github.com/rowforge/hydrate/plan"
)

// columnFamily buckets a driver-reported runtime type into the coarse
// families convertibility is defined over: identity, numeric
// widening/narrowing between primitives, enum<->integral of matching
// underlying family. Character and string are deliberately kept as distinct
// families and never implicitly interchanged.
type columnFamily int

const (
	familyOther columnFamily = iota
	familyBool
	familySignedInt
	familyUnsignedInt
	familyFloat
	familyString
	familyChar
)

func classifyColumn(t querypb.Type) columnFamily {
	switch t {
	case sqltypes.Int8, sqltypes.Int16, sqltypes.Int24, sqltypes.Int32, sqltypes.Int64, sqltypes.Year:
		return familySignedInt
	case sqltypes.Uint8, sqltypes.Uint16, sqltypes.Uint24, sqltypes.Uint32, sqltypes.Uint64, sqltypes.Bit:
		return familyUnsignedInt
	case sqltypes.Float32, sqltypes.Float64, sqltypes.Decimal:
		return familyFloat
	case sqltypes.VarChar, sqltypes.Text, sqltypes.VarBinary, sqltypes.Blob:
		return familyString
	case sqltypes.Char, sqltypes.Binary:
		return familyChar
	default:
		return familyOther
	}
}

func classifyTarget(k reflect.Kind) columnFamily {
	switch k {
	case reflect.Bool:
		return familyBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return familySignedInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return familyUnsignedInt
	case reflect.Float32, reflect.Float64:
		return familyFloat
	case reflect.String:
		return familyString
	default:
		return familyOther
	}
}

// Convertible implements the terminal convertibility rule:
// identity, numeric widening/narrowing between primitives, enum<->integral
// of matching underlying family, and standard nullable wrapping (handled by
// the caller via NullableWrap, not here). For an enum target only the
// family is compared; the bit widths of column and enum are not. It reports
// the Convert op to emit and whether the column may feed the target type
// at all.
func Convertible(col querypb.Type, target reflect.Type) (plan.Convert, bool) {
	colFamily := classifyColumn(col)
	base := target
	for base.Kind() == reflect.Pointer {
		base = base.Elem()
	}

	if isLikelyEnum(base) {
		underlying := classifyTarget(base.Kind())
		if underlying != colFamily {
			return plan.ConvertIdentity, false
		}
		return plan.ConvertEnumToIntegral, true
	}

	targetFamily := classifyTarget(base.Kind())
	if targetFamily == familyOther || colFamily == familyOther {
		return plan.ConvertIdentity, false
	}
	// MySQL's wire protocol has no dedicated boolean type: a bool column is
	// conventionally a TINYINT(1), indistinguishable at this layer from any
	// other small integer column, so a bool target accepts any integral
	// family rather than requiring an exact family match.
	if targetFamily == familyBool {
		if colFamily == familySignedInt || colFamily == familyUnsignedInt {
			return plan.ConvertNumeric, true
		}
		return plan.ConvertIdentity, false
	}
	if targetFamily != colFamily {
		return plan.ConvertIdentity, false
	}
	if colFamily == familySignedInt || colFamily == familyUnsignedInt || colFamily == familyFloat {
		return plan.ConvertNumeric, true
	}
	return plan.ConvertIdentity, true
}
