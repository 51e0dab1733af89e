// Package schema holds the form-type registry consumed by the session engine.
// A Registry maps form-type identifiers (for example "userInfo") to ordered
// field descriptors and is immutable once constructed, so a single instance can
// be shared by every session in the process. Schemas come from Go literals via
// NewRegistry, from JSON/YAML documents via LoadFS, or from the embedded
// defaults returned by DefaultRegistry.
package schema
