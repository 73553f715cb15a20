// Package compiler wires every stage of the compile-time pipeline behind one entry point,
// CompileSQL: parse (sqlfrontend), catalog registration (connector, catalog), logical lowering
// (pipeline), typed plan construction (plangraph), optimization (optimizer), and emission
// (emission). It is the only package outside of cmd/ meant to be imported by a caller that just
// wants a Program from SQL text.
package compiler
