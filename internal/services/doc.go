// Package services provides the shared error taxonomy and context helpers
// used across pipeline stages and provider adapters. Every failure that
// crosses the provider boundary is normalized to one of the exported
// sentinel errors before it reaches a stage.
package services
