// Package domain defines the core business entities for Stereo.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: A fixed-size slice of a document, the unit of embedding
//   - EmbeddedPoint: A chunk plus one vector per named space
//   - SearchResult: A ranked hit enriched by score fusion
//   - Settings: The static, process-wide configuration surface
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
