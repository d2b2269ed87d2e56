// Package settings provides the per-call settings snapshot read by the
// transcriber.
//
// The transcriber never writes settings. Owners pick a Source: Static for a
// fixed snapshot, Store when settings change at runtime, or FileSource to
// load them from config files and the environment.
package settings
