// Package resource provides implementations of driven.ResourceProvider.
//
// A resource handle is valid only while the owning process is alive. Handles
// are created from decoded document bytes at ingestion and after a session
// restore, and must be released explicitly when the document is removed.
//
// Providers:
//   - DirProvider: writes each resource to a file so external viewers
//     (the OS PDF viewer, a browser) can open it by path. NewRunProvider
//     gives each process its own run directory and sweeps the ones left
//     by processes that died without cleaning up.
//   - MemoryProvider: keeps bytes in memory, for tests and MCP-only use
package resource
