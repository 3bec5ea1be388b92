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

// Package schema defines the row/column data model the hydration engine
// negotiates against: an ordered list of columns reported by a database
// cursor, plus the stable fingerprint used to key the parser cache.
package schema

import querypb "gopkg.in/src-d/go-vitess.v1/vt/proto/query"

// TypeID is the runtime type of a column's value, as reported by the
// database driver. It reuses vitess's wire-type enumeration rather than
// inventing a bespoke one.
type TypeID = querypb.Type

// Column describes a single column of a query result: its name, its
// runtime type as reported by the driver, whether it may hold NULL, and its
// stable position within the schema.
type Column struct {
	Name        string
	RuntimeType TypeID
	Nullable    bool
	Position    uint16
}

// Schema is the ordered sequence of columns produced by a forward-only
// cursor for one query shape. Column positions are stable for a given
// Schema value.
type Schema []Column

// Len returns the number of columns.
func (s Schema) Len() int { return len(s) }

// ColumnAt returns the column at the given stable position, or the zero
// Column and false if out of range.
func (s Schema) ColumnAt(pos uint16) (Column, bool) {
	if int(pos) >= len(s) {
		return Column{}, false
	}
	return s[pos], true
}
