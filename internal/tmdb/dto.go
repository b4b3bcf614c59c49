package tmdb

// MovieList is the paginated envelope returned by list and search endpoints
type MovieList struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// Movie is a movie as TMDB returns it. Nullable fields are pointers.
// Trending results may also contain TV entries, which carry no title.
type Movie struct {
	ID          int     `json:"id"`
	Title       *string `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate *string `json:"release_date"`
	PosterPath  *string `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	Genres      []Genre `json:"genres,omitempty"`
	MediaType   string  `json:"media_type,omitempty"` // Only set by trending/all
}

// Genre is a genre as TMDB returns it
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// errorResponse is the body TMDB sends with non-2xx statuses
type errorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}
