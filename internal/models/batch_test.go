package models

import (
	"encoding/json"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   BatchStatus
		terminal bool
	}{
		{BatchQueued, false},
		{BatchInProgress, false},
		{BatchCancelling, false},
		{BatchCompleted, true},
		{BatchCancelled, true},
		{BatchFailed, true},
		{BatchStatus("unknown"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
		})
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name  string
		from  BatchStatus
		to    BatchStatus
		valid bool
	}{
		{"queued to in_progress", BatchQueued, BatchInProgress, true},
		{"queued straight to completed", BatchQueued, BatchCompleted, true},
		{"in_progress to failed", BatchInProgress, BatchFailed, true},
		{"in_progress to cancelling", BatchInProgress, BatchCancelling, true},
		{"cancelling to cancelled", BatchCancelling, BatchCancelled, true},
		{"repeated poll", BatchInProgress, BatchInProgress, true},
		{"repeated terminal poll", BatchCompleted, BatchCompleted, true},
		{"in_progress back to queued", BatchInProgress, BatchQueued, false},
		{"completed to in_progress", BatchCompleted, BatchInProgress, false},
		{"cancelled to completed", BatchCancelled, BatchCompleted, false},
		{"failed to cancelled", BatchFailed, BatchCancelled, false},
		{"unknown status", BatchStatus("paused"), BatchStatus("paused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, CanTransition(tt.from, tt.to))
		})
	}
}

func TestTerminalStatesHaveNoSuccessors(t *testing.T) {
	all := []BatchStatus{BatchQueued, BatchInProgress, BatchCancelling, BatchCompleted, BatchCancelled, BatchFailed}
	for _, from := range all {
		if !from.IsTerminal() {
			continue
		}
		for _, to := range all {
			if to == from {
				continue
			}
			assert.Falsef(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestNewBatchSnapshot(t *testing.T) {
	raw := `{
		"id": "vsfb_1",
		"object": "vector_store.file_batch",
		"created_at": 1700000000,
		"vector_store_id": "vs_1",
		"status": "in_progress",
		"file_counts": {"in_progress": 2, "completed": 3, "failed": 1, "cancelled": 0, "total": 6}
	}`

	var batch openai.VectorStoreFileBatch
	require.NoError(t, json.Unmarshal([]byte(raw), &batch))

	snap := NewBatchSnapshot(batch)
	assert.Equal(t, BatchInProgress, snap.State())
	assert.False(t, snap.Terminal)

	done, total := snap.Progress()
	assert.Equal(t, 4, done)
	assert.Equal(t, 6, total)

	out, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"terminal":false`)
	assert.Contains(t, string(out), `"vector_store_id":"vs_1"`)
}

func TestNewBatchSnapshot_Terminal(t *testing.T) {
	snap := NewBatchSnapshot(openai.VectorStoreFileBatch{ID: "vsfb_2", Status: "cancelled"})
	assert.True(t, snap.Terminal)
}
