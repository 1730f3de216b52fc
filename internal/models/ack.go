package models

// Ack acknowledges an update or delete mutation. Counts of zero are a
// success, not an error: deleting a missing id or updating a missing id
// simply matched nothing.
type Ack struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
	DeletedCount  int64 `json:"deletedCount"`
}
