package semantic

// StoredPoint is one point of the collection as seen by a full scan:
// the Qdrant point id plus the domain payload.
type StoredPoint struct {
	PointID  string
	RecordID string
	FileName string
	Page     int
	Text     string
}

// Stats summarises the collection for the maintenance tooling.
type Stats struct {
	Points     uint64
	Dimensions uint64
}
