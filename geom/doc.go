// Package geom holds the 2D geometry produced by shape scripts: indexed
// triangle meshes ([Shape]), 9-slice bundles ([Adaptive]), and the primitive
// constructors exposed to scripts as built-in functions.
//
// Coordinates are float64 in a y-down space. A [Shape] always carries an
// explicit index list; [Mode] only selects how that list is generated from a
// vertex sequence.
package geom
