// Package analysis defines the shared contract between the resolution pipeline
// and its consumers: the set of supported operations, the request parameters,
// and the canonical result shapes returned regardless of whether a remote model
// or the local heuristic engine produced them.
//
// Result field names are stable. Batch and document exports serialise them
// directly, so renaming a JSON tag is a breaking change.
package analysis
