// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem under ~/.docshelf.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage (config.toml)
//   - PromptStore: user-editable LLM prompt templates (prompts/)
package file
