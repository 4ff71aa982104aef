// Package commitrange decides which commits belong in a set of release notes.
//
// This package implements:
//   - The commit and tag model shared by the git layer and the renderer
//   - An in-memory commit graph index with reachability and topological ordering
//   - The range resolver: tag-range mode, single end-commit mode and merge exclusion
//
// Nothing here touches a repository. The git package builds the inputs and the
// render package consumes the resulting Range.
package commitrange
