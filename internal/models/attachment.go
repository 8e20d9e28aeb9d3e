package models

import "time"

// Attachment represents metadata about one uploaded file, held in transient
// storage for the lifetime of a single chat request.
type Attachment struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	MediaType  string    `json:"mediaType"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
}
