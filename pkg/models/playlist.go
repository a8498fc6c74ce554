package models

import "time"

// Playlist is a user-owned saved playlist. Unique per (user, name).
type Playlist struct {
	UserID    string    `bson:"userId" json:"userId"`
	Name      string    `bson:"name" json:"name"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// PlaylistEntry is a single saved track inside a playlist.
// Position is 1-based and dense within a playlist.
type PlaylistEntry struct {
	UserID     string `bson:"userId" json:"userId"`
	Playlist   string `bson:"playlist" json:"playlist"`
	Position   int    `bson:"position" json:"position"`
	Title      string `bson:"title" json:"title"`
	Author     string `bson:"author" json:"author"`
	URI        string `bson:"uri" json:"uri"`
	DurationMS int64  `bson:"durationMs" json:"durationMs"`
}
