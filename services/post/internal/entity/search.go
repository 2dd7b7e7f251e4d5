package entity

import "strings"

// PageSize is the fixed number of posts returned by one search.
const PageSize = 20

// SearchFilter selects live posts older than BeforeLastID whose title or
// content contains any of Words. Results are ordered by id descending.
type SearchFilter struct {
	BeforeLastID *uint
	Words        []string
}

func NewSearchFilter(beforeLastID *uint, keyword string) SearchFilter {
	return SearchFilter{
		BeforeLastID: beforeLastID,
		Words:        strings.Fields(keyword),
	}
}

// Matches applies the filter to a single post. Any word found as a
// case-sensitive substring of either the title or the content is a match.
func (f SearchFilter) Matches(post *Post) bool {
	if f.BeforeLastID != nil && post.ID >= *f.BeforeLastID {
		return false
	}
	if len(f.Words) == 0 {
		return true
	}
	for _, word := range f.Words {
		if strings.Contains(post.Title, word) || strings.Contains(post.Content, word) {
			return true
		}
	}
	return false
}
