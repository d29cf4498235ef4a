package models

import (
	"github.com/sashabaranov/go-openai"
)

// CreateFileBatchRequest is the POST /vector_stores/{id}/file_batches body.
// The file id set cannot be changed once submitted.
type CreateFileBatchRequest struct {
	FileIDs          []string                 `json:"file_ids"`
	Attributes       map[string]any           `json:"attributes,omitempty"`
	ChunkingStrategy *openai.ChunkingStrategy `json:"chunking_strategy,omitempty"`
}

// BatchStatus is the aggregate status of a file batch as reported upstream.
//
// A batch starts queued (or in_progress when the upstream picks it up
// immediately) and ends in exactly one of completed, cancelled or failed.
// Progress is owned by the upstream; callers observe it by fetching a new
// snapshot.
type BatchStatus string

const (
	BatchQueued     BatchStatus = "queued"
	BatchInProgress BatchStatus = "in_progress"
	BatchCancelling BatchStatus = "cancelling"
	BatchCompleted  BatchStatus = "completed"
	BatchCancelled  BatchStatus = "cancelled"
	BatchFailed     BatchStatus = "failed"
)

func (s BatchStatus) IsTerminal() bool {
	switch s {
	case BatchCompleted, BatchCancelled, BatchFailed:
		return true
	}
	return false
}

// Known reports whether s is one of the statuses above.
func (s BatchStatus) Known() bool {
	_, ok := batchTransitions[s]
	return ok
}

var batchTransitions = map[BatchStatus][]BatchStatus{
	BatchQueued:     {BatchInProgress, BatchCancelling, BatchCompleted, BatchCancelled, BatchFailed},
	BatchInProgress: {BatchCancelling, BatchCompleted, BatchCancelled, BatchFailed},
	BatchCancelling: {BatchCancelled, BatchCompleted, BatchFailed},
	BatchCompleted:  nil,
	BatchCancelled:  nil,
	BatchFailed:     nil,
}

// CanTransition reports whether two consecutive snapshots of the same batch
// may show from then to. Seeing the same status twice is always valid.
func CanTransition(from, to BatchStatus) bool {
	if from == to {
		return from.Known()
	}
	for _, next := range batchTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// BatchSnapshot is a point-in-time view of a file batch.
type BatchSnapshot struct {
	openai.VectorStoreFileBatch
	Terminal bool `json:"terminal"`
}

func NewBatchSnapshot(b openai.VectorStoreFileBatch) BatchSnapshot {
	return BatchSnapshot{
		VectorStoreFileBatch: b,
		Terminal:             BatchStatus(b.Status).IsTerminal(),
	}
}

func (b BatchSnapshot) State() BatchStatus {
	return BatchStatus(b.Status)
}

// Progress returns how many files have reached a per-file terminal state and
// the total submitted.
func (b BatchSnapshot) Progress() (done, total int) {
	c := b.FileCounts
	return c.Completed + c.Failed + c.Cancelled, c.Total
}
