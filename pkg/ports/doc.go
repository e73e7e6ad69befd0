/*
Package ports defines the driven ports (interfaces) around the lookup engine.

These interfaces decouple the host adapters (HTTP, MCP, CLI) and the storage
backends from the concrete transducer handle.

# Key Interfaces

  - Analyzer: a loaded transducer that answers lookups (implemented by hfstol.Transducer).
  - AnalysisCache: memoizes lookup results (memory, Redis or bbolt).
  - AnalyzerCatalog: lists the analyzers a deployment serves (config or Loam).
*/
package ports
