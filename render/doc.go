// Package render rasterizes exported geometry to PNG.
//
// A plain shape is scaled uniformly to fit the canvas. An adaptive shape is
// laid out in pixel space, so its corners keep their exported size while
// edges and center stretch to fill the canvas.
package render
