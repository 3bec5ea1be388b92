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

// Package cursor specifies the forward-only row cursor contract the
// hydration engine consumes: a cursor positioned at a row, plus the schema
// it produces. The query-assembly layer that drives the cursor lives
// outside this module.
package cursor

import "github.com/rowforge/hydrate/schema"

// Row is a forward-only, single-row view a compiled Parser reads from.
// Value returns the raw driver value at a column position, to be
// interpreted according to the schema the cursor also reports.
type Row interface {
	// Value returns the raw column value at position pos. A nil return
	// means the column is SQL NULL.
	Value(pos uint16) any
}

// Cursor produces a Schema once and then a sequence of Row values. The
// schema is stable for the cursor's lifetime.
type Cursor interface {
	Schema() schema.Schema
	// Next advances to the next row and returns it, or reports false when
	// the cursor is exhausted.
	Next() (Row, bool)
	Close() error
}

// ExecutionHint communicates whether a compiled parser benefits from
// sequential-access / single-result cursor options, so the outer layer can
// configure the driver accordingly. It is a bitmask: a given
// parser may carry any combination of hints (e.g. a parser is always
// single-result, and may or may not also be sequential-access).
type ExecutionHint int

// HintNone carries no access-pattern preference; it is also ExecutionHint's
// zero value.
const HintNone ExecutionHint = 0

const (
	// HintSequentialAccess indicates every column is read in non-decreasing
	// position order, with no backtracking: true whenever no
	// manually-registered path reorders parameters relative to schema
	// order.
	HintSequentialAccess ExecutionHint = 1 << iota
	// HintSingleResult indicates the parser never reads more than one row.
	// This holds for every compiled Parser (one call consumes exactly one
	// cursor row); the bit is retained so an outer batch layer has a stable
	// flag to test against rather than assuming the property.
	HintSingleResult
)

// Has reports whether h carries every bit set in want.
func (h ExecutionHint) Has(want ExecutionHint) bool {
	return h&want == want
}
