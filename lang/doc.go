// Package lang implements shape script, a small imperative language whose
// programs build triangle meshes and export them as a single shape or as
// a 9-slice adaptive shape.
//
// # Pipeline
//
// Source text is split into tokens by [Lexer], parsed by [Parse] into a
// [Program], and executed by [Program.Run]. Parsing resolves every
// variable to a [Symbol] so the executor works on a flat slice
// environment. [ParseReader] and [ParseCached] share parsed programs
// across callers.
//
// # Syntax
//
//	input size: Number = 10;           // host-provided global
//	function half[v: Number] return v / 2;
//
//	let s = begin[1] :                 // 1 selects strip indexing
//	    vertex[vertex_x: 0, vertex_y: 0];
//	    vertex[_: [size, 0]];
//	    vertex[vertex_x: 0, vertex_y: half[_: size]];
//	end;
//
//	export s;
//
// Statements end with ';' and blocks are ": ... end;". Calls use square
// brackets with named arguments; a single unnamed argument is written
// "_: value". Line comments start with "//".
//
// # Scoping
//
// Top-level variables and inputs live in [GlobalScope]. Function
// parameters and locals live in a scope named after the function, and
// only inputs are visible from inside a function. Variables declared in
// a block are unbound when the block exits.
//
// # Exports
//
// "export s;" ends the program with one shape. "export adaptive: ...;"
// ends it with nine slot shapes, and "export s as tl;" fills one slot at
// a time until all nine are set or "export finish;" runs.
package lang
