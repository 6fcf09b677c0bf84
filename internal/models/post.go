package models

import (
	"encoding/json"
	"time"
)

type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MarshalJSON adds the "_id" alias the frontend reads.
func (p Post) MarshalJSON() ([]byte, error) {
	type plain Post
	return json.Marshal(struct {
		plain
		LegacyID int64 `json:"_id"`
	}{plain: plain(p), LegacyID: p.ID})
}

// Validate checks the fields required on create and update.
func (p Post) Validate() error {
	if p.Title == "" || p.Content == "" || p.Category == "" {
		return Invalid("title, content, and category are required")
	}
	if err := checkLen("title", p.Title, MaxTitleLen); err != nil {
		return err
	}
	return checkLen("category", p.Category, MaxCategoryLen)
}

// PostFilter narrows a post listing. Zero values mean "no constraint".
type PostFilter struct {
	Category string
	Start    *time.Time
	End      *time.Time
	SortBy   string
	Order    string
}

type Archive struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Count int `json:"count"`
}

func (a Archive) MarshalJSON() ([]byte, error) {
	type key struct {
		Year  int `json:"year"`
		Month int `json:"month"`
	}
	return json.Marshal(struct {
		ID    key `json:"_id"`
		Year  int `json:"year"`
		Month int `json:"month"`
		Count int `json:"count"`
	}{ID: key{a.Year, a.Month}, Year: a.Year, Month: a.Month, Count: a.Count})
}
