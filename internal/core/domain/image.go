package domain

import "time"

// Image is a stored upload. Data is only populated when the bytes are read
// back for streaming.
type Image struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	MimeType  string    `json:"mimetype"`
	Size      int64     `json:"size"`
	ProjectID string    `json:"projectId,omitempty"`
	Data      []byte    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}
