// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: Turns text into a fixed-length vector. The engine
//     holds two instances, one per vector space (nlp, code).
//   - VectorStore: The external vector database (Qdrant). Stores points
//     with named vectors and a payload; serves filtered similarity search.
//   - ManifestStore: Local record of which paths were indexed and which
//     point ids they occupy. Makes delete-by-path exact.
//   - ConfigStore: Settings persistence.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
