package storage

// SearchPostsParams narrows and slices the post listing. Empty
// SearchText and Tag are no-op filters. Tag always narrows whatever
// SearchText produced; both match as case-insensitive substrings, the
// tag against the post's free-text tag list.
type SearchPostsParams struct {
	SearchText string
	Tag        string
	Limit      int
	Offset     int
}
