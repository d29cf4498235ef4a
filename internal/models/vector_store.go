package models

import (
	"github.com/sashabaranov/go-openai"
)

// ExpiresAnchor is the only anchor the upstream API accepts for an
// expiration policy.
const ExpiresAnchor = "last_active_at"

// NewExpiresAfter turns a day count into an expiration policy. A nil day
// count yields a nil policy.
func NewExpiresAfter(days *int) *openai.VectorStoreExpires {
	if days == nil {
		return nil
	}
	return &openai.VectorStoreExpires{Anchor: ExpiresAnchor, Days: *days}
}

// CreateVectorStoreRequest is the POST /vector_stores body.
type CreateVectorStoreRequest struct {
	Name             *string                    `json:"name,omitempty"`
	FileIDs          []string                   `json:"file_ids,omitempty"`
	ExpiresAfter     *openai.VectorStoreExpires `json:"expires_after,omitempty"`
	Metadata         map[string]string          `json:"metadata,omitempty"`
	ChunkingStrategy *openai.ChunkingStrategy   `json:"chunking_strategy,omitempty"`
}

// ModifyVectorStoreRequest is a partial update. Nil fields are left unchanged
// upstream and never serialized. A non-nil Metadata pointing at an empty map
// is sent as {} and clears the metadata.
type ModifyVectorStoreRequest struct {
	Name         *string                    `json:"name,omitempty"`
	ExpiresAfter *openai.VectorStoreExpires `json:"expires_after,omitempty"`
	Metadata     *map[string]string         `json:"metadata,omitempty"`
}

type CreateVectorStoreFileRequest struct {
	FileID           string                   `json:"file_id"`
	Attributes       map[string]any           `json:"attributes,omitempty"`
	ChunkingStrategy *openai.ChunkingStrategy `json:"chunking_strategy,omitempty"`
}

type UpdateVectorStoreFileRequest struct {
	Attributes map[string]any `json:"attributes"`
}

// VectorStoreFileContent is the parsed content of a file inside a vector
// store, as returned by GET .../files/{id}/content.
type VectorStoreFileContent struct {
	Object   string        `json:"object"`
	Data     []ContentPart `json:"data"`
	HasMore  bool          `json:"has_more"`
	NextPage *string       `json:"next_page"`
}

type ContentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
