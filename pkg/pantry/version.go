// Package pantry exposes module-wide metadata for the pantry record
// layer.
package pantry

// Version is the semantic version of the pantry module.
const Version = "0.1.0"
