// Package pipeline composes the three sync steps (mirror, navigation,
// manifest) into one run, and adapts that run to a host that hands over an
// in-memory configuration document before it discovers documentation files.
package pipeline
