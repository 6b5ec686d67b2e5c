package model

type Tag struct {
	ID   int64
	Name string
}

type Category struct {
	ID   int64
	Name string
	Slug string
}
