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

package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"text/template"
)

// genTemplate renders one _hydrate_gen.go file. It emits, per directive-
// marked struct, a RegisterXxxDescriptor(r *types.Registry) error function
// that builds the struct's TypeInfo with explicit, compile-time-known
// types.MemberSetter values: the field indices, names, and aliases are
// baked into the source text rather than discovered by walking
// reflect.Type.NumField() at first touch (types/discover.go's
// autoDiscoverMembers does that walk; this is the opt-in build-time
// alternative).
//
// Field.Type is read back via ti.Type.Field(i).Type (ti.Type is the
// already-resolved reflect.Type GetOrRegister returns) rather than
// re-rendering the field's type expression as a second Go type literal.
// This sidesteps having to requalify package-prefixed or generic type
// expressions in generated source, while still resolving the index at
// codegen time instead of scanning every field in order at registration
// time.
var genTemplate = template.Must(template.New("hydrate_gen").Parse(`// Code generated by hydrate-gen. DO NOT EDIT.

package {{.PackageName}}

import (
	"reflect"

	"github.com/rowforge/hydrate/types"
)
{{range .Structs}}
// Register{{.Name}}Descriptor pre-registers {{.Name}}'s fields as explicit
// types.MemberSetter values, generated from its //hydrate:generate
// directive.
func Register{{.Name}}Descriptor(r *types.Registry) error {
	ti, err := r.GetOrRegister(reflect.TypeOf({{.Name}}{}))
	if err != nil {
		return err
	}
	members := make([]*types.MemberSetter, 0, {{len .Fields}})
{{range .Fields}}	members = append(members, types.NewMemberSetter("{{.Name}}", []int{ {{.Index}} }, ti.Type.Field({{.Index}}).Type{{range .Aliases}}, "{{.}}"{{end}}))
{{end}}	ti.SetMembers(members)
{{range .Fields}}{{if .NotNull}}	ti.SetNullPolicy("{{.Name}}", types.NotNull)
{{end}}{{end}}	return nil
}
{{end}}`))

// Generate scans path and writes the rendered _hydrate_gen.go source to w.
// It writes nothing (and returns nil) when the file has no
// directive-marked structs, so a go:generate line is safe to leave on
// every file in a package.
func Generate(path string, w io.Writer) error {
	f, err := ScanFile(path)
	if err != nil {
		return err
	}
	if len(f.Structs) == 0 {
		return nil
	}

	var buf bytes.Buffer
	if err := genTemplate.Execute(&buf, f); err != nil {
		return fmt.Errorf("codegen: render %s: %w", path, err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		// Surface the unformatted source too, so a template bug is
		// debuggable instead of swallowed.
		return fmt.Errorf("codegen: gofmt %s: %w\n%s", path, err, buf.String())
	}
	_, err = w.Write(formatted)
	return err
}
