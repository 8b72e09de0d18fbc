package models

import "time"

// NewsItem is one article from an aggregated feed, normalized from the
// RSS-to-JSON converter's shape. Items live only for the request that
// fetched them; uniqueness by Guid is assumed but not enforced.
type NewsItem struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	PubDate     time.Time `json:"pub_date"`
	Link        string    `json:"link"`
	Guid        string    `json:"guid"`
	Source      string    `json:"source"`
	Categories  []string  `json:"categories"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
}
