package models

// Movie is a catalog entry as served to swiping clients. The backend
// only relies on ID as the match key; everything else is presentation
// data passed through from the catalog provider.
type Movie struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Year        int     `json:"year,omitempty"`
	Description string  `json:"description"`
	PosterURL   string  `json:"posterUrl,omitempty"`
	Rating      float64 `json:"rating"`
}
