// Package story generates the four-scene narrative skeleton that drives the
// rest of the pipeline. Generation is rule based: the brief's goal selects
// phrasing templates, and every story carries exactly one hook, conflict,
// reveal, and close scene in that order.
package story
