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

package schemadef

import (
	"bytes"
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// KeyValue is a single metadata entry.
type KeyValue struct {
	Key   string
	Value string
}

// Metadata is an ordered list of key/value pairs. It is written as a YAML or
// JSON mapping and keeps the declaration order, which is also the order of
// the serialized Arrow metadata.
type Metadata []KeyValue

func (m Metadata) arrow() arrow.Metadata {
	keys := make([]string, len(m))
	vals := make([]string, len(m))
	for i, kv := range m {
		keys[i], vals[i] = kv.Key, kv.Value
	}
	return arrow.NewMetadata(keys, vals)
}

func metadataFrom(md arrow.Metadata) Metadata {
	if md.Len() == 0 {
		return nil
	}
	keys, vals := md.Keys(), md.Values()
	out := make(Metadata, len(keys))
	for i := range keys {
		out[i] = KeyValue{Key: keys[i], Value: vals[i]}
	}
	return out
}

func (m *Metadata) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: line %d: metadata must be a mapping", arrow.ErrInvalid, node.Line)
	}

	out := make(Metadata, 0, len(node.Content)/2)
	seen := make(map[string]struct{}, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
			return fmt.Errorf("%w: line %d: metadata keys and values must be scalars", arrow.ErrInvalid, k.Line)
		}
		if _, dup := seen[k.Value]; dup {
			return fmt.Errorf("%w: line %d: duplicate metadata key %q", arrow.ErrInvalid, k.Line, k.Value)
		}
		seen[k.Value] = struct{}{}
		out = append(out, KeyValue{Key: k.Value, Value: v.Value})
	}
	*m = out
	return nil
}

func (m Metadata) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, kv := range m {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: kv.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Value: kv.Value, Style: yaml.DoubleQuotedStyle},
		)
	}
	return node, nil
}

func (m Metadata) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(kv.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(kv.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
