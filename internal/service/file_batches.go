package service

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/Akhildas-ts/vectorstore-mcp/internal/models"
	"github.com/Akhildas-ts/vectorstore-mcp/internal/storage"
)

// File batches progress upstream. Every method here is a single request that
// returns a snapshot; nothing waits for a batch to finish.

func (g *Gateway) CreateFileBatch(ctx context.Context, storeID string, p models.CreateFileBatchRequest) (models.Result[models.BatchSnapshot], error) {
	if err := requireIDs("vector_store_id", storeID); err != nil {
		return models.Result[models.BatchSnapshot]{}, err
	}
	if len(p.FileIDs) == 0 {
		return models.Result[models.BatchSnapshot]{}, fmt.Errorf("%w: file_ids", ErrMissingParameter)
	}
	return g.batchCall(ctx, storage.BuildCreateFileBatch(storeID, p))
}

func (g *Gateway) GetFileBatch(ctx context.Context, storeID, batchID string) (models.Result[models.BatchSnapshot], error) {
	if err := requireIDs("vector_store_id", storeID, "batch_id", batchID); err != nil {
		return models.Result[models.BatchSnapshot]{}, err
	}
	return g.batchCall(ctx, storage.BuildGetFileBatch(storeID, batchID))
}

// CancelFileBatch forwards the cancel whatever the batch's current status;
// the upstream decides what cancelling a finished batch means.
func (g *Gateway) CancelFileBatch(ctx context.Context, storeID, batchID string) (models.Result[models.BatchSnapshot], error) {
	if err := requireIDs("vector_store_id", storeID, "batch_id", batchID); err != nil {
		return models.Result[models.BatchSnapshot]{}, err
	}
	return g.batchCall(ctx, storage.BuildCancelFileBatch(storeID, batchID))
}

// ListFileBatchFiles lists the files of one batch, optionally filtered by
// per-file status through p.Filter.
func (g *Gateway) ListFileBatchFiles(ctx context.Context, storeID, batchID string, p models.ListParams) (models.Result[models.ListPage[openai.VectorStoreFile]], error) {
	if err := requireIDs("vector_store_id", storeID, "batch_id", batchID); err != nil {
		return models.Result[models.ListPage[openai.VectorStoreFile]]{}, err
	}
	return storage.Call[models.ListPage[openai.VectorStoreFile]](ctx, g.upstream, storage.BuildListFileBatchFiles(storeID, batchID, p))
}

func (g *Gateway) batchCall(ctx context.Context, req storage.Request) (models.Result[models.BatchSnapshot], error) {
	res, err := storage.Call[openai.VectorStoreFileBatch](ctx, g.upstream, req)
	if err != nil {
		return models.Result[models.BatchSnapshot]{}, err
	}
	return models.Result[models.BatchSnapshot]{Raw: res.Raw, Value: models.NewBatchSnapshot(res.Value)}, nil
}
