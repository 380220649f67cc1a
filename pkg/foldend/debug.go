package foldend

// DebugEnabled indicates whether or not additional debugging information
// should be enabled, primarily for use by internal development builds.
var DebugEnabled bool
