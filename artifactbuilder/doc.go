// Package artifactbuilder describes the wire contract of the external artifact-builder
// service this compiler core targets (§5, §6): it compiles the emitted Go pipeline source and
// any WASM-bound UDF source into runnable artifacts. No server lives in this package — only
// the request/response/error shapes and the environment variables the service reads, so a
// caller of compiler.CompileSQL can hand its output to that service without guessing the
// contract, and so the service implementation (out of scope for this module) has a single
// source of truth for its request shape.
package artifactbuilder
