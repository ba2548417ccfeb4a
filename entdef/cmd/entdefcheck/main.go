// entdefcheck validates entity definition files against the row mapper's
// structural contract.
//
// Usage:
//
//	entdefcheck -schema entities.entdef [-snapshot schema.bin] [-quiet]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/evanfuller/go-rowtype/entdef"
	"github.com/evanfuller/go-rowtype/rowtype"
)

const version = "0.1.0"

func main() {
	schemaFile := flag.String("schema", "", "Path to entity definition file (required)")
	snapshotFile := flag.String("snapshot", "", "Write a msgpack snapshot of the valid descriptors to this path")
	quiet := flag.Bool("quiet", false, "Suppress per-entity ok lines")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("entdefcheck %s\n", version)
		os.Exit(0)
	}

	if *schemaFile == "" {
		fmt.Fprintln(os.Stderr, "error: -schema flag is required")
		flag.Usage()
		os.Exit(1)
	}

	schema, err := entdef.ParseSchemaFile(*schemaFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	var valid []*rowtype.TypeDescriptor
	failed := 0
	for _, d := range schema.Descriptors() {
		if err := rowtype.Validate(d); err != nil {
			fmt.Fprintf(os.Stderr, "invalid: %v\n", err)
			failed++
			continue
		}
		if !*quiet {
			fmt.Printf("ok: %s\n", d.QualifiedName)
		}
		valid = append(valid, d)
	}

	if *snapshotFile != "" {
		w, err := os.Create(*snapshotFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error creating snapshot: %v\n", err)
			os.Exit(1)
		}
		if err := rowtype.EncodeSnapshot(w, valid); err != nil {
			_ = w.Close()
			fmt.Fprintf(os.Stderr, "error writing snapshot: %v\n", err)
			os.Exit(1)
		}
		if err := w.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "error closing snapshot: %v\n", err)
			os.Exit(1)
		}
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d invalid entity definition(s)\n", failed)
		os.Exit(1)
	}
}
