// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - SessionStore: Working set persistence (SQLite)
//   - ResourceProvider: Process-local resource handles for viewers
//   - MarkdownRenderer: Markdown to sanitised HTML
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Summarizer / LLMService: Without them, summarisation is unavailable.
//   - PDFInspector: Without it, PDF page counts stay unknown.
//   - PromptStore: Without it, built-in prompts are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
