package models

import "time"

// MaxFeaturedTweets bounds the featured list; longer inputs are truncated.
const MaxFeaturedTweets = 5

type FeaturedTweet struct {
	Position  int       `json:"position"`
	URL       string    `json:"url"`
	UpdatedAt time.Time `json:"updated_at"`
}
