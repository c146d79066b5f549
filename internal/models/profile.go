package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Profile is the account-level payload produced by the data-fetch collaborator
type Profile struct {
	Username        string   `json:"username"`
	Platform        Platform `json:"platform"`
	FollowerCount   int64    `json:"follower_count"`
	FollowingCount  int64    `json:"following_count"`
	PostCount       int64    `json:"post_count"`
	Bio             string   `json:"bio,omitempty"`
	Verified        bool     `json:"verified"`
	ProfileImageURL string   `json:"profile_image_url,omitempty"`
	// EngagementRate is a percentage; nil means it must be derived from posts
	EngagementRate *float64 `json:"engagement_rate,omitempty"`
}

// Post is a single piece of content with its raw engagement counts
type Post struct {
	Likes       int64     `json:"likes"`
	Comments    int64     `json:"comments"`
	Shares      int64     `json:"shares"`
	CreatedAt   time.Time `json:"created_at"`
	IsSponsored bool      `json:"is_sponsored"`
	Caption     string    `json:"caption,omitempty"`
}

// HasTimestamp reports whether CreatedAt was supplied and parsed
func (p Post) HasTimestamp() bool {
	return !p.CreatedAt.IsZero()
}

// timestampLayouts are tried in order when decoding created_at strings
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses the timestamp formats data fetchers are known to emit.
// Unix seconds are accepted as a numeric string.
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil && secs > 0 {
		return time.Unix(secs, 0).UTC(), true
	}
	return time.Time{}, false
}

// UnmarshalJSON decodes a post leniently: retweets is accepted in place of
// shares and a malformed created_at leaves CreatedAt as the zero time.
func (p *Post) UnmarshalJSON(data []byte) error {
	var raw struct {
		Likes       *int64          `json:"likes"`
		Comments    *int64          `json:"comments"`
		Shares      *int64          `json:"shares"`
		Retweets    *int64          `json:"retweets"`
		CreatedAt   json.RawMessage `json:"created_at"`
		IsSponsored bool            `json:"is_sponsored"`
		Caption     *string         `json:"caption"`
		Text        *string         `json:"text"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = Post{IsSponsored: raw.IsSponsored}
	if raw.Likes != nil {
		p.Likes = *raw.Likes
	}
	if raw.Comments != nil {
		p.Comments = *raw.Comments
	}
	switch {
	case raw.Shares != nil:
		p.Shares = *raw.Shares
	case raw.Retweets != nil:
		p.Shares = *raw.Retweets
	}
	switch {
	case raw.Caption != nil:
		p.Caption = *raw.Caption
	case raw.Text != nil:
		p.Caption = *raw.Text
	}
	p.CreatedAt = decodeTimestamp(raw.CreatedAt)
	return nil
}

func decodeTimestamp(raw json.RawMessage) time.Time {
	if len(raw) == 0 {
		return time.Time{}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		t, _ := ParseTimestamp(s)
		return t
	}
	var secs float64
	if err := json.Unmarshal(raw, &secs); err == nil && secs > 0 {
		return time.Unix(int64(secs), 0).UTC()
	}
	return time.Time{}
}
