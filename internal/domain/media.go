package domain

import "time"

// MediaFile is the metadata record for an object in the media bucket.
// URL is a short-lived signed link filled in at read time, never stored.
type MediaFile struct {
	ID          uint      `json:"id"`
	Key         string    `json:"key"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	URL         string    `json:"url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
