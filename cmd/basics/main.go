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

// Command basics writes the basics example schema to basics.as in the
// current directory.
//
// The schema holds one field of each primitive type understood by the
// illex generator and a list of strings:
//
//	$> basics
//	Basics schema generated.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/SigmaX-ai/illex/catalog"
	"github.com/SigmaX-ai/illex/export"
)

func main() {
	log.SetPrefix("basics: ")
	log.SetFlags(0)

	if err := run(os.Stdout, "."); err != nil {
		log.Fatal(err)
	}
}

func run(w io.Writer, dir string) error {
	e, _ := catalog.Lookup("basics")
	if _, err := export.Export(dir, e); err != nil {
		return err
	}
	fmt.Fprintln(w, e.Message)
	return nil
}
