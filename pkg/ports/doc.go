/*
Package ports defines the driven ports (interfaces) for the webform engine.

These interfaces decouple the core logic from external implementations, allowing
the engine to read definitions from various sources and to be driven by several
transports.

# Key Interfaces

  - FormLoader: Responsible for loading raw form definitions (e.g., from files, Redis or memory).
  - Watchable: Optional change notification implemented by loaders that support hot reload.
  - FormEngine: The operations exposed to HTTP, MCP and CLI adapters.
*/
package ports
