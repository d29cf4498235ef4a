package models

import (
	"github.com/sashabaranov/go-openai"
)

// CreateUploadRequest is the POST /uploads body. Parts are added out of band.
type CreateUploadRequest struct {
	Filename string `json:"filename"`
	Purpose  string `json:"purpose"`
	Bytes    int64  `json:"bytes"`
	MimeType string `json:"mime_type"`
}

type CompleteUploadRequest struct {
	PartIDs []string `json:"part_ids"`
	MD5     *string  `json:"md5,omitempty"`
}

// Upload is the upload object returned by the /uploads endpoints. File is
// set once the upload is completed.
type Upload struct {
	ID        string       `json:"id"`
	Object    string       `json:"object"`
	Bytes     int64        `json:"bytes"`
	CreatedAt int64        `json:"created_at"`
	Filename  string       `json:"filename"`
	Purpose   string       `json:"purpose"`
	Status    string       `json:"status"`
	ExpiresAt int64        `json:"expires_at"`
	File      *openai.File `json:"file,omitempty"`
}
