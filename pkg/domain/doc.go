/*
Package domain contains the core domain models of the hfstol lookup engine.

It defines what a lookup produces and how it fails, independently of the binary
format and of any host adapter (CLI, HTTP, MCP). This package is kept pure and
free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Analysis: One accepted output symbol sequence with its path weight.
  - Result: The ordered analyses returned by a single lookup.
  - Affixes: An analysis split into prefix tags, lemma and suffix tags.
  - Info: A summary of a loaded transducer's header.
  - LoadError: The structured failure returned when a transducer cannot be opened.
  - AnalyzerSpec: A named transducer file served by a deployment.
*/
package domain
