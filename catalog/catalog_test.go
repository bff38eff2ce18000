// Copyright 2020 Teratide B.V.
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

package catalog_test

import (
	"testing"

	"github.com/SigmaX-ai/illex/catalog"
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasics(t *testing.T) {
	sc := catalog.Basics()
	require.Equal(t, 5, sc.NumFields())

	want := []struct {
		name string
		typ  arrow.Type
		md   map[string]string
	}{
		{"timestamp", arrow.DATE64, nil},
		{"string", arrow.STRING, nil},
		{"integer", arrow.UINT64, map[string]string{"illex_MIN": "13", "illex_MAX": "37"}},
		{"list_of_strings", arrow.LIST, map[string]string{"illex_MIN_LENGTH": "3"}},
		{"bool", arrow.BOOL, nil},
	}
	for i, w := range want {
		f := sc.Field(i)
		assert.Equal(t, w.name, f.Name)
		assert.Equal(t, w.typ, f.Type.ID(), f.Name)
		assert.False(t, f.Nullable, f.Name)
		if w.md == nil {
			assert.False(t, f.HasMetadata(), f.Name)
		} else {
			assert.Equal(t, w.md, f.Metadata.ToMap(), f.Name)
		}
	}

	item := sc.Field(3).Type.(*arrow.ListType).ElemField()
	assert.Equal(t, "item", item.Name)
	assert.Equal(t, arrow.STRING, item.Type.ID())
	assert.False(t, item.Nullable)
	assert.False(t, item.HasMetadata())
	assert.Zero(t, sc.Metadata().Len())
}

func TestBattery(t *testing.T) {
	sc := catalog.Battery()
	require.Equal(t, 1, sc.NumFields())

	f := sc.Field(0)
	assert.Equal(t, "voltage", f.Name)
	assert.False(t, f.Nullable)
	assert.Equal(t, map[string]string{"illex_MIN_LENGTH": "64", "illex_MAX_LENGTH": "64"}, f.Metadata.ToMap())

	lt, ok := f.Type.(*arrow.ListType)
	require.True(t, ok)
	item := lt.ElemField()
	assert.Equal(t, "item", item.Name)
	assert.Equal(t, arrow.UINT64, item.Type.ID())
	assert.False(t, item.Nullable)
	assert.Equal(t, map[string]string{"illex_MIN": "0", "illex_MAX": "2047"}, item.Metadata.ToMap())
}

func TestFreshSchemas(t *testing.T) {
	a, b := catalog.Battery(), catalog.Battery()
	assert.NotSame(t, a, b)
	assert.True(t, a.Equal(b))
}

func TestEntries(t *testing.T) {
	es := catalog.Entries()
	require.Len(t, es, 2)
	assert.Equal(t, "basics", es[0].Name)
	assert.Equal(t, "basics.as", es[0].File)
	assert.Equal(t, "battery", es[1].Name)
	assert.Equal(t, "battery.as", es[1].File)

	es[0].Name = "changed"
	assert.Equal(t, "basics", catalog.Entries()[0].Name)

	e, ok := catalog.Lookup("battery")
	require.True(t, ok)
	assert.True(t, e.Schema().Equal(catalog.Battery()))

	_, ok = catalog.Lookup("nope")
	assert.False(t, ok)
}
