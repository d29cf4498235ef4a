package service

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/Akhildas-ts/vectorstore-mcp/internal/models"
	"github.com/Akhildas-ts/vectorstore-mcp/internal/storage"
)

// AttachFile attaches an already uploaded file to a store.
func (g *Gateway) AttachFile(ctx context.Context, storeID string, p models.CreateVectorStoreFileRequest) (models.Result[openai.VectorStoreFile], error) {
	if err := requireIDs("vector_store_id", storeID, "file_id", p.FileID); err != nil {
		return models.Result[openai.VectorStoreFile]{}, err
	}
	return storage.Call[openai.VectorStoreFile](ctx, g.upstream, storage.BuildCreateVectorStoreFile(storeID, p))
}

func (g *Gateway) ListVectorStoreFiles(ctx context.Context, storeID string, p models.ListParams) (models.Result[models.ListPage[openai.VectorStoreFile]], error) {
	if err := requireIDs("vector_store_id", storeID); err != nil {
		return models.Result[models.ListPage[openai.VectorStoreFile]]{}, err
	}
	return storage.Call[models.ListPage[openai.VectorStoreFile]](ctx, g.upstream, storage.BuildListVectorStoreFiles(storeID, p))
}

func (g *Gateway) GetVectorStoreFile(ctx context.Context, storeID, fileID string) (models.Result[openai.VectorStoreFile], error) {
	if err := requireIDs("vector_store_id", storeID, "file_id", fileID); err != nil {
		return models.Result[openai.VectorStoreFile]{}, err
	}
	return storage.Call[openai.VectorStoreFile](ctx, g.upstream, storage.BuildGetVectorStoreFile(storeID, fileID))
}

func (g *Gateway) GetVectorStoreFileContent(ctx context.Context, storeID, fileID string) (models.Result[models.VectorStoreFileContent], error) {
	if err := requireIDs("vector_store_id", storeID, "file_id", fileID); err != nil {
		return models.Result[models.VectorStoreFileContent]{}, err
	}
	return storage.Call[models.VectorStoreFileContent](ctx, g.upstream, storage.BuildGetVectorStoreFileContent(storeID, fileID))
}

// UpdateVectorStoreFile replaces the attributes of a file in a store. A nil
// map is rejected; pass an empty one to clear the attributes.
func (g *Gateway) UpdateVectorStoreFile(ctx context.Context, storeID, fileID string, attributes map[string]any) (models.Result[openai.VectorStoreFile], error) {
	if err := requireIDs("vector_store_id", storeID, "file_id", fileID); err != nil {
		return models.Result[openai.VectorStoreFile]{}, err
	}
	if attributes == nil {
		return models.Result[openai.VectorStoreFile]{}, fmt.Errorf("%w: attributes", ErrMissingParameter)
	}
	req := storage.BuildUpdateVectorStoreFile(storeID, fileID, models.UpdateVectorStoreFileRequest{Attributes: attributes})
	return storage.Call[openai.VectorStoreFile](ctx, g.upstream, req)
}

// DetachFile removes a file from a store. The uploaded file object itself is
// not deleted.
func (g *Gateway) DetachFile(ctx context.Context, storeID, fileID string) (models.Result[models.DeleteResult], error) {
	if err := requireIDs("vector_store_id", storeID, "file_id", fileID); err != nil {
		return models.Result[models.DeleteResult]{}, err
	}
	return storage.Call[models.DeleteResult](ctx, g.upstream, storage.BuildDeleteVectorStoreFile(storeID, fileID))
}
