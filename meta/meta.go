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

// Package meta implements the illex key/value metadata convention.
//
// Fields of a schema may carry string metadata that bounds the values an
// external generator produces for them. The values are decimal integers
// encoded as strings:
//
//	illex_MIN, illex_MAX               bounds of a numeric value
//	illex_MIN_LENGTH, illex_MAX_LENGTH bounds of a string or list length
//
// The keys are a naming convention only; the Arrow serialization format does
// not interpret them.
package meta

import (
	"fmt"
	"strconv"

	"github.com/apache/arrow/go/v17/arrow"
)

const (
	// KeyMin is the smallest value a numeric field may take.
	KeyMin = "illex_MIN"
	// KeyMax is the largest value a numeric field may take.
	KeyMax = "illex_MAX"
	// KeyMinLength is the shortest length of a string or list field.
	KeyMinLength = "illex_MIN_LENGTH"
	// KeyMaxLength is the longest length of a string or list field.
	KeyMaxLength = "illex_MAX_LENGTH"
)

var keys = [...]string{KeyMin, KeyMax, KeyMinLength, KeyMaxLength}

// Keys returns the convention keys in their canonical order: the order in
// which they are emitted and in which the fields of Bounds are declared.
func Keys() []string {
	out := keys
	return out[:]
}

func format(v uint64) string { return strconv.FormatUint(v, 10) }

// Range returns metadata bounding a numeric value to [min, max].
func Range(min, max uint64) arrow.Metadata {
	return arrow.NewMetadata([]string{KeyMin, KeyMax}, []string{format(min), format(max)})
}

// Length returns metadata bounding a length to [min, max].
func Length(min, max uint64) arrow.Metadata {
	return arrow.NewMetadata([]string{KeyMinLength, KeyMaxLength}, []string{format(min), format(max)})
}

// MinLength returns metadata holding only a lower length bound.
func MinLength(n uint64) arrow.Metadata {
	return arrow.NewMetadata([]string{KeyMinLength}, []string{format(n)})
}

// Get looks up the value stored under key.
func Get(md arrow.Metadata, key string) (string, bool) {
	i := md.FindKey(key)
	if i < 0 {
		return "", false
	}
	return md.Values()[i], true
}

// Uint64 looks up key and parses its value as an unsigned integer.
// The boolean result reports whether the key is present. A present value
// that does not parse is reported as an error wrapping arrow.ErrInvalid.
func Uint64(md arrow.Metadata, key string) (uint64, bool, error) {
	s, ok := Get(md, key)
	if !ok {
		return 0, false, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, true, fmt.Errorf("%w: metadata %s=%q is not an unsigned integer", arrow.ErrInvalid, key, s)
	}
	return v, true, nil
}

// Bounds holds the convention values attached to a single field.
// A nil pointer means the key is absent.
type Bounds struct {
	Min       *uint64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *uint64 `json:"max,omitempty" yaml:"max,omitempty"`
	MinLength *uint64 `json:"min_length,omitempty" yaml:"min_length,omitempty"`
	MaxLength *uint64 `json:"max_length,omitempty" yaml:"max_length,omitempty"`
}

// Values returns the bounds in the order of Keys.
func (b Bounds) Values() []*uint64 {
	return []*uint64{b.Min, b.Max, b.MinLength, b.MaxLength}
}

// Empty reports whether no bound is set.
func (b Bounds) Empty() bool {
	return b.Min == nil && b.Max == nil && b.MinLength == nil && b.MaxLength == nil
}

// BoundsOf extracts the convention values of f. Keys outside the
// convention are ignored.
func BoundsOf(f arrow.Field) (Bounds, error) {
	var (
		b    Bounds
		dsts = []**uint64{&b.Min, &b.Max, &b.MinLength, &b.MaxLength}
	)
	for i, key := range keys {
		v, ok, err := Uint64(f.Metadata, key)
		if err != nil {
			return Bounds{}, fmt.Errorf("field %q: %w", f.Name, err)
		}
		if ok {
			v := v
			*dsts[i] = &v
		}
	}
	return b, nil
}

// Validate reports an error wrapping arrow.ErrInvalid when a lower bound
// exceeds its upper bound.
func (b Bounds) Validate() error {
	if b.Min != nil && b.Max != nil && *b.Min > *b.Max {
		return fmt.Errorf("%w: %s=%d exceeds %s=%d", arrow.ErrInvalid, KeyMin, *b.Min, KeyMax, *b.Max)
	}
	if b.MinLength != nil && b.MaxLength != nil && *b.MinLength > *b.MaxLength {
		return fmt.Errorf("%w: %s=%d exceeds %s=%d", arrow.ErrInvalid, KeyMinLength, *b.MinLength, KeyMaxLength, *b.MaxLength)
	}
	return nil
}
