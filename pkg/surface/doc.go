// Package surface holds the drawing surfaces a puzzle can render onto.
//
// Every surface implements pyramid.Surface:
//
//   - memory: keeps visible nodes in a map and logs every operation
//   - raster: paints visible nodes over the source image for PNG snapshots
//
// The interactive terminal surface lives with the play command in
// internal/cli because it is bound to the bubbletea program loop.
package surface
