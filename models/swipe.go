package models

// SwipeRecord aggregates which session members liked a movie. Likes is
// grow-only within a session; a record is created lazily on the first
// right-swipe for its movie.
type SwipeRecord struct {
	SessionID string   `json:"sessionId"`
	MovieID   string   `json:"movieId"`
	Likes     []string `json:"likes"`
}

// SwipesTable is the DynamoDB table name for swipe records. It is keyed
// by (sessionId, movieId).
const SwipesTable = "Swipes"
