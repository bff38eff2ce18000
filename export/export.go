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

// Package export serializes Arrow schemas to files.
//
// A serialized schema is an Arrow IPC stream holding the schema message and
// the end-of-stream marker, without record batches. This is the layout Flight
// uses for schema bytes; it is readable by ipc.NewReader and by readers that
// decode a single schema message, such as arrow::ipc::ReadSchema.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/SigmaX-ai/illex/catalog"
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/zeebo/xxh3"
)

type config struct {
	mem  memory.Allocator
	perm os.FileMode
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		mem:  memory.DefaultAllocator,
		perm: 0644,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Option is a functional option to configure serialization.
type Option func(*config)

// WithAllocator specifies the allocator used by the IPC writer.
func WithAllocator(mem memory.Allocator) Option {
	return func(cfg *config) {
		cfg.mem = mem
	}
}

// WithPerm sets the permission bits of newly created files, before the
// umask. Existing files keep their mode. The default is 0644.
func WithPerm(perm os.FileMode) Option {
	return func(cfg *config) {
		cfg.perm = perm
	}
}

// Result describes a written schema file.
type Result struct {
	Path   string
	Size   int
	Digest uint64 // xxh3 of the file contents
}

func (r Result) String() string {
	return fmt.Sprintf("%s (%d bytes, xxh3=%016x)", r.Path, r.Size, r.Digest)
}

// Serialize encodes sc. The output only depends on sc, so equal schemas
// produce identical bytes.
func Serialize(sc *arrow.Schema, opts ...Option) ([]byte, error) {
	if sc == nil {
		return nil, fmt.Errorf("%w: export: nil schema", arrow.ErrInvalid)
	}
	cfg := newConfig(opts...)

	var buf bytes.Buffer
	w := ipc.NewWriter(&buf, ipc.WithSchema(sc), ipc.WithAllocator(cfg.mem))
	// closing a writer that never saw a record still emits the schema.
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("export: could not serialize schema: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile serializes sc and writes it to path, replacing any existing file.
func WriteFile(path string, sc *arrow.Schema, opts ...Option) (Result, error) {
	buf, err := Serialize(sc, opts...)
	if err != nil {
		return Result{}, err
	}
	cfg := newConfig(opts...)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, cfg.perm)
	if err != nil {
		return Result{}, fmt.Errorf("export: could not create %q: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(buf); err != nil {
		return Result{}, fmt.Errorf("export: could not write %q: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		return Result{}, fmt.Errorf("export: could not sync %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return Result{}, fmt.Errorf("export: could not close %q: %w", path, err)
	}

	return Result{Path: path, Size: len(buf), Digest: xxh3.Hash(buf)}, nil
}

// Export writes the schema of e to e.File inside dir.
func Export(dir string, e catalog.Entry, opts ...Option) (Result, error) {
	if e.Schema == nil {
		return Result{}, fmt.Errorf("%w: export: entry %q has no schema", arrow.ErrInvalid, e.Name)
	}
	return WriteFile(filepath.Join(dir, e.File), e.Schema(), opts...)
}
