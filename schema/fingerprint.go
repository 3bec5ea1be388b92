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

package schema

import (
	"strings"

	"github.com/mitchellh/hashstructure"
	"gopkg.in/src-d/go-vitess.v1/sqltypes"
	querypb "gopkg.in/src-d/go-vitess.v1/vt/proto/query"
)

// Fingerprint is a stable hash over a Schema, used as half of the parser
// cache key (the other half is the target type). Two schemas that differ
// only in column-name case, or in which integer precision up to 32 bits a
// particular driver reports (see normalizeType), hash identically; float
// types are not folded.
type Fingerprint uint64

// normalizedColumn is the projection of a Column that actually participates
// in the fingerprint: name is case-folded, and the runtime type is folded to
// its smallest lossless container (see normalizeType) so that e.g. a driver
// reporting `smallint` where another reports `int` for the same logical
// integer column does not change the fingerprint. Position is implicit in slice
// order and therefore does not need to be a field.
type normalizedColumn struct {
	Name     string
	Type     querypb.Type
	Nullable bool
}

// normalizeType folds a runtime TypeID to the smallest lossless container
// within its family, so fingerprints stay stable across drivers that
// report the same logical column at different integer precisions.
func normalizeType(t TypeID) TypeID {
	switch t {
	case sqltypes.Int8, sqltypes.Int16, sqltypes.Int24, sqltypes.Int32:
		return sqltypes.Int32
	case sqltypes.Int64:
		return sqltypes.Int64
	case sqltypes.Uint8, sqltypes.Uint16, sqltypes.Uint24, sqltypes.Uint32:
		return sqltypes.Uint32
	case sqltypes.Uint64:
		return sqltypes.Uint64
	case sqltypes.Float32:
		return sqltypes.Float32
	case sqltypes.Float64:
		return sqltypes.Float64
	default:
		return t
	}
}

// Fingerprint computes a stable hash over the ordered sequence of
// (name-case-folded, runtime_type, nullable).
func (s Schema) Fingerprint() Fingerprint {
	cols := make([]normalizedColumn, len(s))
	for i, c := range s {
		cols[i] = normalizedColumn{
			Name:     strings.ToLower(c.Name),
			Type:     normalizeType(c.RuntimeType),
			Nullable: c.Nullable,
		}
	}
	h, err := hashstructure.Hash(cols, nil)
	if err != nil {
		// hashstructure only errors on unsupported field kinds; normalizedColumn
		// is a closed, hashstructure-friendly shape, so this cannot happen in
		// practice. Fall back to a degenerate but still stable fingerprint
		// rather than panicking the caller.
		return Fingerprint(len(cols))
	}
	return Fingerprint(h)
}
