/*
Hpcgen builds a colored product automaton from a set of process models and
a catalog of declarative inter-process constraints.

It reads a JSON file describing the process DFAs and a JSON or TOML file
describing the constraints to fold in, runs them through the core, and
writes the resulting colored product automaton, rendered in the §6 wire
format, to stdout or to a file.

Usage:

	hpcgen -m FILE -c FILE [flags]

The flags are:

	-v, --version
		Give the current version of hpcgen and then exit.

	-m, --models FILE
		Path to a JSON file containing a list of process DFAs.

	-c, --constraints FILE
		Path to a JSON or TOML file containing a list of constraints. The
		format is selected by the file extension (".toml" for TOML,
		anything else for JSON).

	-o, --out FILE
		Write the rendered colored product automaton to FILE instead of
		stdout.

	--cache DIR
		Enable the on-disk result cache rooted at DIR. Repeat invocations
		over an unchanged model and constraint set skip recomputation. If
		unset, no caching occurs.
*/
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/pflag"

	hpc "github.com/lindner-jonas/hybrid-process-collaboration-models"
	"github.com/lindner-jonas/hybrid-process-collaboration-models/internal/store"
	"github.com/lindner-jonas/hybrid-process-collaboration-models/internal/version"
)

const (

	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue reading or parsing the input files.
	ExitInitError

	// ExitGenerateError indicates an unsuccessful program execution due to
	// a problem building the colored product automaton.
	ExitGenerateError
)

var (
	returnCode      int     = ExitSuccess
	flagVersion     *bool   = pflag.BoolP("version", "v", false, "Gives the version info")
	modelsFile      *string = pflag.StringP("models", "m", "", "JSON file containing the list of process DFAs")
	constraintsFile *string = pflag.StringP("constraints", "c", "", "JSON or TOML file containing the list of constraints")
	outFile         *string = pflag.StringP("out", "o", "", "Write output to this file instead of stdout")
	cacheDir        *string = pflag.String("cache", "", "Enable the on-disk result cache rooted at this directory")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			// we are panicking, make sure we dont lose the panic just because
			// we checked
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if *modelsFile == "" || *constraintsFile == "" {
		fmt.Fprintln(os.Stderr, "ERROR: both --models and --constraints are required")
		returnCode = ExitInitError
		return
	}

	modelsData, err := os.ReadFile(*modelsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: reading models file: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	var processes []hpc.ProcessDFA
	if err := json.Unmarshal(modelsData, &processes); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: parsing models file: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	constraintsData, err := os.ReadFile(*constraintsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: reading constraints file: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	var constraints []hpc.Constraint
	if strings.EqualFold(filepath.Ext(*constraintsFile), ".toml") {
		var doc struct {
			Constraints []hpc.Constraint `toml:"constraints"`
		}
		if err := toml.Unmarshal(constraintsData, &doc); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: parsing constraints file: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
		constraints = doc.Constraints
	} else {
		if err := json.Unmarshal(constraintsData, &constraints); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: parsing constraints file: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
	}

	for i, c := range constraints {
		if c.ID == "" {
			constraints[i].ID = uuid.NewString()
		}
	}

	var cache *store.Cache
	var cacheKey string
	if *cacheDir != "" {
		cache, err = store.Open(*cacheDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: result cache unavailable: %s\n", err.Error())
			cache = nil
		} else {
			defer cache.Close()
			cacheKey = store.Key(modelsData, constraintsData)
		}
	}

	start := time.Now()

	var rendered []byte
	var numStates int

	if cache != nil {
		if snap, hit := cache.Get(cacheKey); hit {
			rendered, err = hpc.RenderSnapshotJSON(snap)
			if err != nil {
				fmt.Fprintf(os.Stderr, "WARNING: cached snapshot unusable, recomputing: %s\n", err.Error())
				rendered = nil
			} else {
				numStates = len(snap.Names)
			}
		}
	}

	if rendered == nil {
		product, genErr := hpc.Generate(processes, constraints)
		if genErr != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", genErr.Error())
			returnCode = ExitGenerateError
			return
		}

		rendered, err = json.MarshalIndent(product, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: rendering output: %s\n", err.Error())
			returnCode = ExitGenerateError
			return
		}
		numStates = product.DFA().Len()

		if cache != nil {
			if err := cache.Put(cacheKey, product.ToSnapshot()); err != nil {
				fmt.Fprintf(os.Stderr, "WARNING: could not write result cache: %s\n", err.Error())
			}
		}
	}

	elapsed := time.Since(start)

	if *outFile != "" {
		if err := os.WriteFile(*outFile, rendered, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: writing output file: %s\n", err.Error())
			returnCode = ExitGenerateError
			return
		}
	} else {
		fmt.Println(string(rendered))
	}

	fmt.Fprintf(os.Stderr, "built colored product: %s states (%s), %d constraints in %s\n",
		humanize.Comma(int64(numStates)), humanize.SIWithDigits(float64(numStates), 1, ""),
		len(constraints), elapsed)
}
