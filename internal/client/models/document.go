package models

import (
	"fmt"
	"time"
)

// DocumentKind classifies an uploaded document.
type DocumentKind string

const (
	KindResume      DocumentKind = "resume"
	KindCoverLetter DocumentKind = "cover_letter"
	KindOther       DocumentKind = "other"
)

func (k DocumentKind) Valid() bool {
	switch k {
	case KindResume, KindCoverLetter, KindOther:
		return true
	}
	return false
}

// Document is a file stored by the backend.
type Document struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Kind        DocumentKind `json:"kind"`
	Size        int64        `json:"size"`
	ContentType string       `json:"content_type,omitempty"`
	UploadedAt  time.Time    `json:"uploaded_at"`
}

func (d Document) String() string {
	return fmt.Sprintf("[%s] %s (%s, %d bytes)", d.ID, d.Name, d.Kind, d.Size)
}
