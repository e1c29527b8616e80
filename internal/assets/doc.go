// Package assets generates character and location candidates for a story and
// tracks which candidate of each kind is selected. Candidate imagery comes
// from the configured image provider; candidates whose image generation fails
// are dropped rather than failing the stage, as long as at least one usable
// candidate of each kind remains.
package assets
