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

// Package codegen implements an optional descriptor generator. It scans Go
// source for structs carrying a `//hydrate:generate` directive comment and
// emits a sibling `_hydrate_gen.go` file that pre-registers their fields
// as explicit, compile-time-known types.MemberSetter values (no
// construction paths are generated), the same member descriptors
// types/discover.go would otherwise build by walking
// reflect.Type.NumField() the first time the type is touched.
package codegen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
)

// directive is the doc-comment marker that opts a struct into generation.
const directive = "hydrate:generate"

// FieldDescriptor is one exported, settable struct field discovered on a
// directive-marked struct.
type FieldDescriptor struct {
	// Name is the field's Go identifier.
	Name string
	// TypeExpr is the field's type written back out as Go source (e.g.
	// "string", "*int64", "pkg.Status").
	TypeExpr string
	// Aliases are extra name candidates pulled from a `hydrate:"alias=..."`
	// struct tag, if present.
	Aliases []string
	// NotNull records a `hydrate:"notnull"` struct tag.
	NotNull bool
	// Index is the field's position within reflect.Type.Field(i), used to
	// build the precomputed FieldByIndex path the generated code hands to
	// types.NewMemberSetter.
	Index int
}

// StructDescriptor is one directive-marked struct discovered in a source
// file.
type StructDescriptor struct {
	Name   string
	Fields []FieldDescriptor
}

// File is the result of scanning one source file: its package name plus
// every directive-marked struct found in it.
type File struct {
	PackageName string
	Structs     []StructDescriptor
}

// ScanFile parses the Go source file at path and extracts every struct type
// declaration whose doc comment contains the `hydrate:generate` directive.
// Non-struct declarations and structs without the directive are ignored;
// this is additive convenience; manual registration via types.Registry
// remains the primary path.
func ScanFile(path string) (*File, error) {
	fset := token.NewFileSet()
	astFile, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("codegen: parse %s: %w", path, err)
	}

	out := &File{PackageName: astFile.Name.Name}

	for _, decl := range astFile.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			if !ok {
				continue
			}
			if !hasDirective(gd.Doc) && !hasDirective(ts.Doc) {
				continue
			}
			sd := StructDescriptor{Name: ts.Name.Name}
			idx := 0
			for _, f := range st.Fields.List {
				n := len(f.Names)
				if n == 0 {
					n = 1 // embedded field occupies exactly one reflect field slot
				}
				for j := 0; j < n; j++ {
					fieldIdx := idx + j
					fd, ok := scanField(f, j, fieldIdx)
					if ok {
						sd.Fields = append(sd.Fields, fd)
					}
				}
				idx += n
			}
			out.Structs = append(out.Structs, sd)
		}
	}
	return out, nil
}

func hasDirective(g *ast.CommentGroup) bool {
	if g == nil {
		return false
	}
	for _, c := range g.List {
		if strings.Contains(c.Text, directive) {
			return true
		}
	}
	return false
}

// scanField extracts one exported, non-embedded struct field at position
// nameIdx within a (possibly multi-name) field group, whose overall
// reflect.Type.Field position is fieldIdx. Unexported and embedded fields
// are skipped; autoDiscoverMembers in types/discover.go also skips
// unexported fields but keeps exported embedded ones.
func scanField(f *ast.Field, nameIdx, fieldIdx int) (FieldDescriptor, bool) {
	if len(f.Names) == 0 {
		return FieldDescriptor{}, false // embedded field, skip
	}
	name := f.Names[nameIdx]
	if !name.IsExported() {
		return FieldDescriptor{}, false
	}
	fd := FieldDescriptor{
		Name:     name.Name,
		TypeExpr: exprString(f.Type),
		Index:    fieldIdx,
	}
	if f.Tag != nil {
		parseTag(&fd, strings.Trim(f.Tag.Value, "`"))
	}
	return fd, true
}

// parseTag reads a `hydrate:"alias=x,alias=y,notnull"` struct tag.
func parseTag(fd *FieldDescriptor, raw string) {
	const key = `hydrate:"`
	i := strings.Index(raw, key)
	if i < 0 {
		return
	}
	raw = raw[i+len(key):]
	if j := strings.IndexByte(raw, '"'); j >= 0 {
		raw = raw[:j]
	}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "notnull":
			fd.NotNull = true
		case strings.HasPrefix(part, "alias="):
			fd.Aliases = append(fd.Aliases, strings.TrimPrefix(part, "alias="))
		}
	}
}

// exprString renders a type expression back to Go source text. It handles
// identifiers, pointers, and qualified (package-prefixed) identifiers; any
// other expression renders as the name of its AST node type.
func exprString(e ast.Expr) string {
	switch t := e.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + exprString(t.X)
	case *ast.SelectorExpr:
		return exprString(t.X) + "." + t.Sel.Name
	default:
		return fmt.Sprintf("%T", e)
	}
}
