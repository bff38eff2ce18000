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

// Package schemadef reads and writes declarative schema definitions.
//
// A definition is a YAML document listing the fields of a schema:
//
//	version: "1"
//	fields:
//	  - name: integer
//	    type: uint64
//	    min: 13
//	    max: 37
//	  - name: voltage
//	    type: list
//	    metadata:
//	      illex_MIN_LENGTH: "64"
//	    item:
//	      name: item
//	      type: uint64
//
// The min, max, min_length and max_length shorthands expand to the illex
// metadata keys, ahead of any explicit metadata. JSON is valid YAML, so
// definitions may also be written as JSON.
package schemadef

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/SigmaX-ai/illex/meta"
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// CurrentVersion is the definition format version written by this package.
const CurrentVersion = "1"

// Type names accepted in definitions.
const (
	TypeDate64 = "date64"
	TypeUTF8   = "utf8"
	TypeUint64 = "uint64"
	TypeBool   = "bool"
	TypeList   = "list"
)

var aliases = map[string]string{
	"string":  TypeUTF8,
	"boolean": TypeBool,
}

// Document is a schema definition.
type Document struct {
	Version string  `yaml:"version" json:"version"`
	Fields  []Field `yaml:"fields" json:"fields"`
}

// Field declares a single field. Item is required for lists and must be
// empty for every other type.
type Field struct {
	Name        string   `yaml:"name" json:"name"`
	Type        string   `yaml:"type" json:"type"`
	Nullable    bool     `yaml:"nullable,omitempty" json:"nullable,omitempty"`
	meta.Bounds `yaml:",inline"`
	Metadata    Metadata `yaml:"metadata,omitempty" json:"metadata,omitempty"`
	Item        *Field   `yaml:"item,omitempty" json:"item,omitempty"`
}

// Parse decodes a definition. Keys that are not part of the format are
// rejected.
func Parse(b []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: schemadef: could not decode definition: %w", arrow.ErrInvalid, err)
	}
	switch doc.Version {
	case "", CurrentVersion:
		doc.Version = CurrentVersion
	default:
		return nil, fmt.Errorf("%w: schemadef: definition version %q", arrow.ErrNotImplemented, doc.Version)
	}
	return &doc, nil
}

// Load reads and decodes the definition stored at path.
func Load(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemadef: could not read definition: %w", err)
	}
	doc, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Schema builds the Arrow schema declared by the document. A document
// without fields is invalid.
func (d *Document) Schema() (*arrow.Schema, error) {
	if len(d.Fields) == 0 {
		return nil, fmt.Errorf("%w: schemadef: definition has no fields", arrow.ErrInvalid)
	}
	fields := make([]arrow.Field, len(d.Fields))
	for i := range d.Fields {
		f, err := d.Fields[i].arrow()
		if err != nil {
			return nil, fmt.Errorf("schemadef: field %d: %w", i, err)
		}
		fields[i] = f
	}
	return arrow.NewSchema(fields, nil), nil
}

func (f *Field) arrow() (arrow.Field, error) {
	if f.Name == "" {
		return arrow.Field{}, fmt.Errorf("%w: missing field name", arrow.ErrInvalid)
	}

	typ := f.Type
	if alias, ok := aliases[typ]; ok {
		typ = alias
	}

	var dt arrow.DataType
	switch typ {
	case TypeDate64:
		dt = arrow.FixedWidthTypes.Date64
	case TypeUTF8:
		dt = arrow.BinaryTypes.String
	case TypeUint64:
		dt = arrow.PrimitiveTypes.Uint64
	case TypeBool:
		dt = arrow.FixedWidthTypes.Boolean
	case TypeList:
		if f.Item == nil {
			return arrow.Field{}, fmt.Errorf("%w: list field %q has no item", arrow.ErrInvalid, f.Name)
		}
		item, err := f.Item.arrow()
		if err != nil {
			return arrow.Field{}, fmt.Errorf("%q: %w", f.Name, err)
		}
		dt = arrow.ListOfField(item)
	case "":
		return arrow.Field{}, fmt.Errorf("%w: field %q has no type", arrow.ErrInvalid, f.Name)
	default:
		return arrow.Field{}, fmt.Errorf("%w: field %q has unsupported type %q", arrow.ErrNotImplemented, f.Name, f.Type)
	}
	if typ != TypeList && f.Item != nil {
		return arrow.Field{}, fmt.Errorf("%w: field %q of type %s cannot have an item", arrow.ErrInvalid, f.Name, typ)
	}

	md, err := f.metadata()
	if err != nil {
		return arrow.Field{}, err
	}
	out := arrow.Field{Name: f.Name, Type: dt, Nullable: f.Nullable, Metadata: md}
	b, err := meta.BoundsOf(out)
	if err != nil {
		return arrow.Field{}, err
	}
	if err := b.Validate(); err != nil {
		return arrow.Field{}, fmt.Errorf("field %q: %w", f.Name, err)
	}
	return out, nil
}

func (f *Field) metadata() (arrow.Metadata, error) {
	var kvs Metadata
	bounds := f.Bounds.Values()
	for i, key := range meta.Keys() {
		if bounds[i] != nil {
			kvs = append(kvs, KeyValue{Key: key, Value: fmt.Sprint(*bounds[i])})
		}
	}
	for _, kv := range f.Metadata {
		for _, b := range kvs {
			if b.Key == kv.Key {
				return arrow.Metadata{}, fmt.Errorf("%w: field %q sets %s twice", arrow.ErrInvalid, f.Name, kv.Key)
			}
		}
		kvs = append(kvs, kv)
	}
	if len(kvs) == 0 {
		return arrow.Metadata{}, nil
	}
	return kvs.arrow(), nil
}

// FromSchema describes sc as a definition. Metadata is copied verbatim,
// so building the result yields a schema equal to sc.
func FromSchema(sc *arrow.Schema) (*Document, error) {
	if sc == nil {
		return nil, fmt.Errorf("%w: schemadef: nil schema", arrow.ErrInvalid)
	}
	doc := &Document{Version: CurrentVersion, Fields: make([]Field, sc.NumFields())}
	for i, f := range sc.Fields() {
		df, err := fieldFrom(f)
		if err != nil {
			return nil, fmt.Errorf("schemadef: %w", err)
		}
		doc.Fields[i] = df
	}
	return doc, nil
}

func fieldFrom(f arrow.Field) (Field, error) {
	out := Field{Name: f.Name, Nullable: f.Nullable, Metadata: metadataFrom(f.Metadata)}
	switch dt := f.Type.(type) {
	case *arrow.Date64Type:
		out.Type = TypeDate64
	case *arrow.StringType:
		out.Type = TypeUTF8
	case *arrow.Uint64Type:
		out.Type = TypeUint64
	case *arrow.BooleanType:
		out.Type = TypeBool
	case *arrow.ListType:
		item, err := fieldFrom(dt.ElemField())
		if err != nil {
			return Field{}, fmt.Errorf("%q: %w", f.Name, err)
		}
		out.Type = TypeList
		out.Item = &item
	default:
		return Field{}, fmt.Errorf("%w: field %q has type %v", arrow.ErrNotImplemented, f.Name, f.Type)
	}
	return out, nil
}

// YAML encodes the document as YAML.
func (d *Document) YAML() ([]byte, error) {
	return yaml.Marshal(d)
}

// JSON encodes the document as indented JSON.
func (d *Document) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
