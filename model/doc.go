// Package model contains the in-memory representation of workflow
// definitions and supporting types used by the leadflow engine.
//
// A workflow is typically loaded from a JSON or YAML document into the
// structures defined here and in the `graph` and `types` sub-packages. The
// root model package aggregates those building blocks so that they can be
// referenced from other parts of the code base with a single import.
package model
