package pagination

// Meta describes one page of an ordered result set.
type Meta struct {
	Number      int
	Size        int
	TotalItems  int
	TotalPages  int
	HasNext     bool
	HasPrevious bool
}

type Page[T any] struct {
	Meta
	Items []T
}

// New computes page metadata for a 1-based page number. Numbers below 1
// clamp to the first page, numbers past the end clamp to the last. An
// empty result set still yields a single valid (empty) page 1.
func New(number, size, totalItems int) Meta {
	if size <= 0 {
		size = 1
	}
	if totalItems < 0 {
		totalItems = 0
	}

	totalPages := (totalItems + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}

	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	return Meta{
		Number:      number,
		Size:        size,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		HasNext:     number < totalPages,
		HasPrevious: number > 1,
	}
}

// Offset is the index of the page's first item in the full result set.
func (m Meta) Offset() int {
	return (m.Number - 1) * m.Size
}

func (m Meta) NextNumber() int {
	if m.HasNext {
		return m.Number + 1
	}
	return m.Number
}

func (m Meta) PreviousNumber() int {
	if m.HasPrevious {
		return m.Number - 1
	}
	return m.Number
}
