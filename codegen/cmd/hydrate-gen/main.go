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

// Command hydrate-gen is the go:generate entry point for package codegen:
// it renders a _hydrate_gen.go sibling for the source file named by
// $GOFILE.
//
// Typical use, inside the package being annotated:
//
//	//go:generate go run github.com/rowforge/hydrate/codegen/cmd/hydrate-gen
package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/rowforge/hydrate/codegen"
)

func main() {
	src := os.Getenv("GOFILE")
	if len(os.Args) > 1 {
		src = os.Args[1]
	}
	if src == "" {
		fmt.Fprintln(os.Stderr, "hydrate-gen: no source file (expected $GOFILE or an argument)")
		os.Exit(1)
	}

	var buf bytes.Buffer
	if err := codegen.Generate(src, &buf); err != nil {
		fmt.Fprintf(os.Stderr, "hydrate-gen: %v\n", err)
		os.Exit(1)
	}
	if buf.Len() == 0 {
		return // no //hydrate:generate structs in this file, nothing to emit
	}

	out := strings.TrimSuffix(src, ".go") + "_hydrate_gen.go"
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "hydrate-gen: %v\n", err)
		os.Exit(1)
	}
}
