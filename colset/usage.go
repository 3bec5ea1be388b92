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

// Package colset holds the two pieces of per-negotiation state threaded
// through recursive descent: the set of columns already consumed (Usage)
// and the accumulated name-prefix context (Modifier).
package colset

import "github.com/pilosa/pilosa/roaring"

// Usage tracks which column positions have been consumed by the current
// negotiation branch. It supports cheap checkpoint/restore so the matcher
// can roll back a branch's column consumption when a construction path
// fails partway through. Backed by a roaring bitmap rather than a
// hand-rolled []bool.
type Usage struct {
	bits *roaring.Bitmap
}

// NewUsage returns an empty Usage.
func NewUsage() *Usage {
	return &Usage{bits: roaring.NewBitmap()}
}

// Used reports whether the column at pos has already been consumed.
func (u *Usage) Used(pos uint16) bool {
	return u.bits.Contains(uint64(pos))
}

// Mark consumes the column at pos. Marking an already-used column is a no-op.
func (u *Usage) Mark(pos uint16) {
	_, _ = u.bits.Add(uint64(pos))
}

// Checkpoint returns a snapshot that Restore can later roll back to. The
// snapshot is a deep copy; mutating u after taking the checkpoint never
// affects it.
func (u *Usage) Checkpoint() *Usage {
	return &Usage{bits: u.bits.Clone()}
}

// Restore replaces u's contents with a previously taken checkpoint's,
// discarding any marks made since.
func (u *Usage) Restore(checkpoint *Usage) {
	u.bits = checkpoint.bits.Clone()
}

// Count returns the number of columns marked used.
func (u *Usage) Count() uint64 {
	return u.bits.Count()
}
