package domain

// Distance is the similarity metric a vector space is declared with.
type Distance string

// DistanceCosine is the only metric the engine uses.
const DistanceCosine Distance = "Cosine"

// VectorParams declares one named vector space within a collection schema.
type VectorParams struct {
	// Size is the fixed dimensionality of every vector in the space.
	Size int

	// Distance is the similarity metric for the space.
	Distance Distance
}

// CollectionSchema maps space name to its declared parameters. A valid
// schema for this engine has exactly the SpaceNLP and SpaceCode entries.
type CollectionSchema map[string]VectorParams

// CollectionInfo describes an existing collection as reported by the store.
type CollectionInfo struct {
	// Name is the collection name.
	Name string

	// Vectors is the declared per-space schema.
	Vectors CollectionSchema

	// PointsCount is the number of stored points, when the store reports it.
	PointsCount int64

	// Status is the store's health string for the collection (e.g. "green").
	Status string
}
