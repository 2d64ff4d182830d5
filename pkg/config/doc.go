// Package config resolves the run-time configuration for the Hercules test
// agent from four overlapping sources: command-line flags, process
// environment variables, an optional caller-supplied mapping, and built-in
// defaults.
//
// # Resolution Pipeline
//
// A Manager is constructed through a fixed sequence:
//
//  1. The caller-supplied mapping is copied as the working mapping.
//  2. Unless environment input is disabled, a .env file is loaded once per
//     process (skipped when IS_TEST_ENV=true).
//  3. Environment variables from a fixed allow-list overwrite the working
//     mapping, then the recognized command-line flags overwrite those.
//  4. LLM authentication is validated (exactly one of two strategies).
//  5. Defaults are filled in for every recognized key still absent.
//
// # Configuration Precedence
//
// For a key that all sources can supply, the resolved value is (later
// overrides earlier):
//
//  1. Built-in default (defaults.go)
//  2. Caller-supplied base mapping
//  3. Environment variable
//  4. Command-line flag
//
// # Shared Instance
//
// A Registry holds at most one shared Manager per process:
//
//	mgr, err := config.Default().GetOrCreate(nil)
//
// The first call constructs the instance; later calls return it and, when
// given a non-empty mapping, patch it by unconditional overwrite without
// re-validation. Managers built directly with New share no state with any
// registry.
//
// # Directory Provisioning
//
// The path accessors (ProofPath, ProjectTempPath, ...) create their
// directories on first access and are pure reads afterwards. Creation
// failures are returned to the caller, never retried.
//
// # Error Handling
//
// Validation failure is reported as *AuthError; the top-level entry point is
// expected to log it and terminate the process. File construction returns
// wrapped filesystem errors for missing files and *ParseError for malformed
// content; both are recoverable.
package config
