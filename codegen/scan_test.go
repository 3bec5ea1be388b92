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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureSrc = `package fixture

// Employee is hydrated from a flat row.
//hydrate:generate
type Employee struct {
	Badge string
	Dept  string ` + "`hydrate:\"alias=Department,alias=Team\"`" + `
	Salary float64 ` + "`hydrate:\"notnull\"`" + `
}

type Unmarked struct {
	Ignored string
}
`

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.go")
	require.NoError(t, os.WriteFile(path, []byte(fixtureSrc), 0o644))
	return path
}

func TestScanFileFindsOnlyDirectiveMarkedStructs(t *testing.T) {
	path := writeFixture(t)
	f, err := ScanFile(path)
	require.NoError(t, err)
	require.Len(t, f.Structs, 1, "only the directive-marked struct must be picked up")
	sd := f.Structs[0]
	assert.Equal(t, "Employee", sd.Name)
	assert.Len(t, sd.Fields, 3)
}

func TestScanFileFieldIndicesMatchDeclarationOrder(t *testing.T) {
	path := writeFixture(t)
	f, err := ScanFile(path)
	require.NoError(t, err)
	for i, fd := range f.Structs[0].Fields {
		assert.Equal(t, i, fd.Index, "field %s", fd.Name)
	}
}

func TestScanFileParsesAliasAndNotNullTags(t *testing.T) {
	path := writeFixture(t)
	f, err := ScanFile(path)
	require.NoError(t, err)
	byName := map[string]FieldDescriptor{}
	for _, fd := range f.Structs[0].Fields {
		byName[fd.Name] = fd
	}

	assert.Equal(t, []string{"Department", "Team"}, byName["Dept"].Aliases)
	assert.False(t, byName["Dept"].NotNull)
	assert.True(t, byName["Salary"].NotNull)
}

func TestGenerateEmitsNothingWithoutDirectiveMarkedStructs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.go")
	require.NoError(t, os.WriteFile(path, []byte("package plain\n\ntype Plain struct{ X int }\n"), 0o644))

	var buf fakeWriter
	require.NoError(t, Generate(path, &buf))
	assert.Zero(t, buf.n, "a file with no directives must produce no output")
}

type fakeWriter struct{ n int }

func (w *fakeWriter) Write(p []byte) (int, error) {
	w.n += len(p)
	return len(p), nil
}
