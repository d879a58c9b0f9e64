// Package shellopts implements the runtime option registry of an embeddable
// command interpreter: a growable collection of option descriptors addressed
// by long name or single-letter flag, an access-classified value accessor
// with per-descriptor hooks and guard rules, environment mirror variables
// reflecting the enabled option set, and the display styles used by the
// set/shopt style builtin surfaces.
//
// The registry is designed around a single-threaded cooperative host: one
// process-wide registry that built-ins populate before the first command
// runs and that loadable extension modules may grow and shrink afterwards.
package shellopts
