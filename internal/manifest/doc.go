// Package manifest reads and rewrites the site generator's configuration
// document (mkdocs.yml). Only the top-level "nav" key is owned here; every
// other key keeps its position, comments and tags (for example
// !!python/name:...) across a rewrite.
package manifest
