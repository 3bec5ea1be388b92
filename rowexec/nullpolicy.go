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

package rowexec

// NullPolicy mirrors types.NullPolicy's iota ordering exactly. plan.Node
// fields store the policy as a plain int (to avoid an import cycle between
// plan and types); this local type exists only to name the int values
// readably within this package's lowering switches.
type NullPolicy int

const (
	Nullable NullPolicy = iota
	NotNull
	JumpIfNull
	Custom
)
