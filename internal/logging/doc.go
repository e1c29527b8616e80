// Package logging configures the process-wide slog logger and provides
// typed attribute helpers plus standardized field keys so every component
// emits structurally consistent records.
package logging
