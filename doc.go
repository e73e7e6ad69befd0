/*
Package hfstol loads HFST optimized-lookup transducers (.hfstol files) and
analyses words with them.

An optimized-lookup file is the compact, read-only form HFST compiles a
morphological analyser into. Given a surface form such as "atim", the
transducer returns every analysis it accepts, for example
"atim+N+A+Sg" and "atimêw+V+TA+Imp+Imm+2Sg+3SgO".

# Key Features

  - Pure Go reader for the unweighted (HFST_OL) and weighted (HFST_OLW) formats,
    with or without the HFST3 container header.
  - Flag diacritics (P, N, R, D, C, U), epsilon cycles and identity/unknown symbols.
  - Immutable handles, safe for concurrent lookups.
  - Optional result caches and lifecycle hooks for metrics.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/hfstol"
	)

	func main() {
		fst, err := hfstol.Open("crk-relaxed-analyzer.hfstol")
		if err != nil {
			log.Fatal(err)
		}

		analyses, err := fst.LookupStrings(context.Background(), "atim")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(analyses)
	}

# Ordering

For unweighted transducers analyses are returned in discovery order: a depth
first walk that follows epsilon and flag transitions before accepting and
before consuming input, in table order. Weighted transducers return analyses
sorted by ascending total weight, ties in discovery order. Identical symbol
sequences are reported once.

# Host Adapters

The cmd/hfstol binary wraps the library as an hfst-optimized-lookup style CLI,
an HTTP service and an MCP tool server. See the pkg/adapters packages.
*/
package hfstol
