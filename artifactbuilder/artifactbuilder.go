package artifactbuilder

import "fmt"

// CompileQueryReq is the request body sent to the artifact-builder process for one compile
// job: the generated pipeline source, its supporting type definitions, and any WASM-bound UDF
// source, keyed by a caller-chosen job id.
type CompileQueryReq struct {
	JobID    string
	Pipeline string
	Types    string
	WasmFns  string
}

// CompileQueryResp is the successful response: local paths to the built artifacts.
type CompileQueryResp struct {
	PipelinePath string
	WasmFnsPath  string
}

// CompileFailed wraps a non-zero artifact-builder exit: Stderr carries whatever the build
// process wrote to standard error.
type CompileFailed struct {
	JobID  string
	Stderr string
}

func (e *CompileFailed) Error() string {
	return fmt.Sprintf("artifact build failed for job %q: %s", e.JobID, e.Stderr)
}

// Environment variable names the artifact-builder process reads. This module never reads them
// itself — they're documented here so a caller wiring up the external process knows the
// contract without searching for another source of truth.
const (
	EnvBuildDir       = "BUILD_DIR"        // default "build_dir"
	EnvDebug          = "DEBUG"            // debug vs release build
	EnvArtifactURL    = "ARTIFACT_URL"     // required; destination for built artifacts
	EnvIdleShutdownMS = "IDLE_SHUTDOWN_MS" // optional idle-exit timeout, in milliseconds
)

// DefaultBuildDir is the artifact builder's build directory when BUILD_DIR is unset.
const DefaultBuildDir = "build_dir"
