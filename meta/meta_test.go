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

package meta_test

import (
	"errors"
	"testing"

	"github.com/SigmaX-ai/illex/meta"
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		md   arrow.Metadata
		want map[string]string
	}{
		{"range", meta.Range(13, 37), map[string]string{"illex_MIN": "13", "illex_MAX": "37"}},
		{"range zero", meta.Range(0, 2047), map[string]string{"illex_MIN": "0", "illex_MAX": "2047"}},
		{"length", meta.Length(64, 64), map[string]string{"illex_MIN_LENGTH": "64", "illex_MAX_LENGTH": "64"}},
		{"min length", meta.MinLength(3), map[string]string{"illex_MIN_LENGTH": "3"}},
		{"max uint64", meta.Range(0, 18446744073709551615), map[string]string{"illex_MIN": "0", "illex_MAX": "18446744073709551615"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.md.ToMap())
		})
	}
}

func TestKeys(t *testing.T) {
	want := []string{"illex_MIN", "illex_MAX", "illex_MIN_LENGTH", "illex_MAX_LENGTH"}
	keys := meta.Keys()
	assert.Equal(t, want, keys)

	keys[0] = "clobbered"
	assert.Equal(t, want, meta.Keys())
}

func TestGet(t *testing.T) {
	md := meta.Range(13, 37)

	v, ok := meta.Get(md, meta.KeyMax)
	assert.True(t, ok)
	assert.Equal(t, "37", v)

	_, ok = meta.Get(md, meta.KeyMinLength)
	assert.False(t, ok)

	_, ok = meta.Get(arrow.Metadata{}, meta.KeyMin)
	assert.False(t, ok)
}

func TestUint64(t *testing.T) {
	v, ok, err := meta.Uint64(meta.Range(13, 37), meta.KeyMin)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 13, v)

	_, ok, err = meta.Uint64(meta.Range(13, 37), meta.KeyMaxLength)
	require.NoError(t, err)
	assert.False(t, ok)

	bad := arrow.NewMetadata([]string{meta.KeyMin}, []string{"-1"})
	_, ok, err = meta.Uint64(bad, meta.KeyMin)
	assert.True(t, ok)
	assert.True(t, errors.Is(err, arrow.ErrInvalid))
}

func TestBoundsOf(t *testing.T) {
	f := arrow.Field{
		Name:     "voltage",
		Type:     arrow.ListOf(arrow.PrimitiveTypes.Uint64),
		Metadata: arrow.NewMetadata([]string{"illex_MIN_LENGTH", "illex_MAX_LENGTH", "other"}, []string{"64", "64", "x"}),
	}
	b, err := meta.BoundsOf(f)
	require.NoError(t, err)
	assert.Nil(t, b.Min)
	assert.Nil(t, b.Max)
	require.NotNil(t, b.MinLength)
	require.NotNil(t, b.MaxLength)
	assert.EqualValues(t, 64, *b.MinLength)
	assert.EqualValues(t, 64, *b.MaxLength)
	assert.False(t, b.Empty())
	assert.Equal(t, []*uint64{nil, nil, b.MinLength, b.MaxLength}, b.Values())

	b, err = meta.BoundsOf(arrow.Field{Name: "bool", Type: arrow.FixedWidthTypes.Boolean})
	require.NoError(t, err)
	assert.True(t, b.Empty())

	f.Metadata = arrow.NewMetadata([]string{meta.KeyMax}, []string{"lots"})
	_, err = meta.BoundsOf(f)
	assert.ErrorIs(t, err, arrow.ErrInvalid)
	assert.Contains(t, err.Error(), `field "voltage"`)
}

func TestBoundsValidate(t *testing.T) {
	u := func(v uint64) *uint64 { return &v }

	tests := []struct {
		name string
		b    meta.Bounds
		ok   bool
	}{
		{"empty", meta.Bounds{}, true},
		{"equal", meta.Bounds{Min: u(5), Max: u(5), MinLength: u(64), MaxLength: u(64)}, true},
		{"open range", meta.Bounds{Min: u(100)}, true},
		{"min above max", meta.Bounds{Min: u(38), Max: u(37)}, false},
		{"min length above max length", meta.Bounds{MinLength: u(4), MaxLength: u(3)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.b.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, arrow.ErrInvalid)
		})
	}
}
