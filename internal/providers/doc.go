// Package providers defines the contracts between the pipeline and the
// external generation backends. Image, video, and audio generation each get
// a small interface; implementations live in subpackages and are selected
// through the registry package.
//
// Implementations report hard failures through error returns wrapped with
// the sentinel markers in the services package so callers can branch on
// timeout, quota, authentication, validation, and generic provider failures
// without knowing which backend produced them.
package providers
