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

// Command illex-schema lists, writes and describes illex schemas.
//
// Examples:
//
//	$> illex-schema write --dir=schemas
//	Basics schema generated.
//	Battery schema generated.
//
//	$> illex-schema build --out=cells.as cells.yaml
//	Schema written to cells.as.
//
//	$> illex-schema describe battery
//	schema:
//	  fields: 1
//	    - voltage: type=list<item: uint64>
//	...
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/SigmaX-ai/illex/catalog"
	"github.com/SigmaX-ai/illex/export"
	"github.com/SigmaX-ai/illex/meta"
	"github.com/SigmaX-ai/illex/schemadef"
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/docopt/docopt-go"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"
)

const usage = `Illex schema tool.
Usage:
  illex-schema list
  illex-schema write [-v] [--dir=DIR] [--perm=MODE] [<name>...]
  illex-schema build [-v] [--perm=MODE] --out=FILE <definition>
  illex-schema describe [--json] <entry>
  illex-schema -h | --help
Options:
  -h --help     Show this screen.
  -v            Log every written file.
  --dir=DIR     Output directory [default: .].
  --out=FILE    Output file.
  --perm=MODE   Octal permissions of created files [default: 0644].
  --json        Print the schema definition as JSON.`

var helpHandler = docopt.PrintHelpAndExit

type config struct {
	List       bool     `docopt:"list"`
	Write      bool     `docopt:"write"`
	Build      bool     `docopt:"build"`
	Describe   bool     `docopt:"describe"`
	Verbose    bool     `docopt:"-v"`
	JSON       bool     `docopt:"--json"`
	Dir        string   `docopt:"--dir"`
	Out        string   `docopt:"--out"`
	Perm       string   `docopt:"--perm"`
	Names      []string `docopt:"<name>"`
	Definition string   `docopt:"<definition>"`
	Entry      string   `docopt:"<entry>"`

	mode os.FileMode
}

func main() {
	log.SetPrefix("illex-schema: ")
	log.SetFlags(0)

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func parseArgs(argv []string) (config, error) {
	p := &docopt.Parser{HelpHandler: helpHandler}
	opts, err := p.ParseArgs(usage, argv, "")
	if err != nil {
		return config{}, err
	}

	var cfg config
	if err := opts.Bind(&cfg); err != nil {
		return config{}, err
	}
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	if cfg.Perm == "" {
		cfg.Perm = "0644"
	}
	mode, err := strconv.ParseUint(cfg.Perm, 8, 32)
	if err != nil || mode&^uint64(os.ModePerm) != 0 {
		return config{}, fmt.Errorf("%w: --perm=%s is not an octal permission mode", arrow.ErrInvalid, cfg.Perm)
	}
	cfg.mode = os.FileMode(mode)
	return cfg, nil
}

func run(w io.Writer, argv []string) error {
	cfg, err := parseArgs(argv)
	if err != nil {
		return err
	}

	logger := zap.NewNop()
	if cfg.Verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return fmt.Errorf("could not create logger: %w", err)
		}
	}
	defer logger.Sync()

	switch {
	case cfg.List:
		return processList(w)
	case cfg.Write:
		return processWrite(w, logger.Sugar(), cfg.Dir, cfg.Names, export.WithPerm(cfg.mode))
	case cfg.Build:
		return processBuild(w, logger.Sugar(), cfg.Definition, cfg.Out, export.WithPerm(cfg.mode))
	case cfg.Describe:
		return processDescribe(w, cfg.Entry, cfg.JSON)
	}
	return nil
}

func processList(w io.Writer) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "File", "Fields"})
	for _, e := range catalog.Entries() {
		table.Append([]string{e.Name, e.File, strconv.Itoa(e.Schema().NumFields())})
	}
	table.Render()
	return nil
}

func processWrite(w io.Writer, logger *zap.SugaredLogger, dir string, names []string, opts ...export.Option) error {
	entries := catalog.Entries()
	if len(names) > 0 {
		entries = entries[:0]
		for _, name := range names {
			e, ok := catalog.Lookup(name)
			if !ok {
				return fmt.Errorf("%w: unknown schema %q", arrow.ErrInvalid, name)
			}
			entries = append(entries, e)
		}
	}

	for _, e := range entries {
		res, err := export.Export(dir, e, opts...)
		if err != nil {
			return err
		}
		logger.Infow("wrote schema", "name", e.Name, "path", res.Path, "bytes", res.Size, "xxh3", fmt.Sprintf("%016x", res.Digest))
		fmt.Fprintln(w, e.Message)
	}
	return nil
}

func processBuild(w io.Writer, logger *zap.SugaredLogger, definition, out string, opts ...export.Option) error {
	doc, err := schemadef.Load(definition)
	if err != nil {
		return err
	}
	sc, err := doc.Schema()
	if err != nil {
		return fmt.Errorf("%s: %w", definition, err)
	}

	res, err := export.WriteFile(out, sc, opts...)
	if err != nil {
		return err
	}
	logger.Infow("wrote schema", "definition", definition, "path", res.Path, "bytes", res.Size, "xxh3", fmt.Sprintf("%016x", res.Digest))
	fmt.Fprintf(w, "Schema written to %s.\n", out)
	return nil
}

func processDescribe(w io.Writer, name string, asJSON bool) error {
	e, ok := catalog.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: unknown schema %q", arrow.ErrInvalid, name)
	}
	sc := e.Schema()

	if asJSON {
		doc, err := schemadef.FromSchema(sc)
		if err != nil {
			return err
		}
		raw, err := doc.JSON()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\n", raw)
		return nil
	}

	fmt.Fprintf(w, "%v\n", sc)
	fmt.Fprintf(w, "bounds:\n")
	return describeBounds(w, "", sc.Fields())
}

func describeBounds(w io.Writer, prefix string, fields []arrow.Field) error {
	for _, f := range fields {
		b, err := meta.BoundsOf(f)
		if err != nil {
			return err
		}
		if !b.Empty() {
			fmt.Fprintf(w, "  - %s%s:", prefix, f.Name)
			keys := meta.Keys()
			for i, v := range b.Values() {
				if v != nil {
					fmt.Fprintf(w, " %s=%d", keys[i], *v)
				}
			}
			fmt.Fprintln(w)
		}
		if lt, ok := f.Type.(*arrow.ListType); ok {
			if err := describeBounds(w, prefix+f.Name+".", []arrow.Field{lt.ElemField()}); err != nil {
				return err
			}
		}
	}
	return nil
}
