package entity

import "time"

type Post struct {
	ID           uint      `json:"id"`
	Author       string    `json:"author"`
	PasswordHash string    `json:"-"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PostPage is one page of search results. BeforeLastID is the cursor for the
// next page and is nil when the page is empty.
type PostPage struct {
	BeforeLastID *uint   `json:"beforeLastId"`
	Posts        []*Post `json:"posts"`
}
