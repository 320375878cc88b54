// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The Registry owns the working set. The Persister, SummaryService and
// RenderService are built around it and never touch records directly.
package services
