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

// Package catalog declares the example schemas shipped with illex.
//
// Each schema is built from literal field declarations every time it is
// requested. Callers own the returned value.
package catalog

import (
	"github.com/SigmaX-ai/illex/meta"
	"github.com/apache/arrow/go/v17/arrow"
)

// Entry names an example schema and the file it is exported to.
type Entry struct {
	Name    string
	File    string
	Message string
	Schema  func() *arrow.Schema
}

var entries = []Entry{
	{Name: "basics", File: "basics.as", Message: "Basics schema generated.", Schema: Basics},
	{Name: "battery", File: "battery.as", Message: "Battery schema generated.", Schema: Battery},
}

// Entries returns all example schemas in declaration order.
func Entries() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Lookup returns the entry called name.
func Lookup(name string) (Entry, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Basics returns a schema with one field of every primitive type the
// generator understands, plus a list of strings.
func Basics() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "timestamp", Type: arrow.FixedWidthTypes.Date64},
		{Name: "string", Type: arrow.BinaryTypes.String},
		{Name: "integer", Type: arrow.PrimitiveTypes.Uint64, Metadata: meta.Range(13, 37)},
		{
			Name:     "list_of_strings",
			Type:     arrow.ListOfField(arrow.Field{Name: "item", Type: arrow.BinaryTypes.String}),
			Metadata: meta.MinLength(3),
		},
		{Name: "bool", Type: arrow.FixedWidthTypes.Boolean},
	}, nil)
}

// Battery returns a schema describing a battery cell with 64 voltage
// samples per record, each in [0, 2047].
func Battery() *arrow.Schema {
	item := arrow.Field{
		Name:     "item",
		Type:     arrow.PrimitiveTypes.Uint64,
		Metadata: meta.Range(0, 2047),
	}
	return arrow.NewSchema([]arrow.Field{
		{
			Name:     "voltage",
			Type:     arrow.ListOfField(item),
			Metadata: meta.Length(64, 64),
		},
	}, nil)
}
