package service

import (
	"context"

	"github.com/sashabaranov/go-openai"

	"github.com/Akhildas-ts/vectorstore-mcp/internal/models"
	"github.com/Akhildas-ts/vectorstore-mcp/internal/storage"
)

// CreateVectorStoreParams is what a caller may supply when creating a store.
// ExpiresAfterDays becomes a last_active_at expiration policy.
type CreateVectorStoreParams struct {
	Name             *string
	FileIDs          []string
	ExpiresAfterDays *int
	Metadata         map[string]string
	ChunkingStrategy *openai.ChunkingStrategy
}

// ModifyVectorStoreParams holds the fields to change. Metadata set to an
// empty map clears it.
type ModifyVectorStoreParams struct {
	Name             *string
	ExpiresAfterDays *int
	Metadata         *map[string]string
}

func (g *Gateway) CreateVectorStore(ctx context.Context, p CreateVectorStoreParams) (models.Result[openai.VectorStore], error) {
	req := storage.BuildCreateVectorStore(models.CreateVectorStoreRequest{
		Name:             p.Name,
		FileIDs:          p.FileIDs,
		ExpiresAfter:     models.NewExpiresAfter(p.ExpiresAfterDays),
		Metadata:         p.Metadata,
		ChunkingStrategy: p.ChunkingStrategy,
	})
	return storage.Call[openai.VectorStore](ctx, g.upstream, req)
}

func (g *Gateway) ListVectorStores(ctx context.Context, p models.ListParams) (models.Result[models.ListPage[openai.VectorStore]], error) {
	return storage.Call[models.ListPage[openai.VectorStore]](ctx, g.upstream, storage.BuildListVectorStores(p))
}

func (g *Gateway) GetVectorStore(ctx context.Context, id string) (models.Result[openai.VectorStore], error) {
	if err := requireIDs("vector_store_id", id); err != nil {
		return models.Result[openai.VectorStore]{}, err
	}
	return storage.Call[openai.VectorStore](ctx, g.upstream, storage.BuildGetVectorStore(id))
}

// ModifyVectorStore sends only the fields set in p; everything else is left
// as it is upstream.
func (g *Gateway) ModifyVectorStore(ctx context.Context, id string, p ModifyVectorStoreParams) (models.Result[openai.VectorStore], error) {
	if err := requireIDs("vector_store_id", id); err != nil {
		return models.Result[openai.VectorStore]{}, err
	}
	req := storage.BuildModifyVectorStore(id, models.ModifyVectorStoreRequest{
		Name:         p.Name,
		ExpiresAfter: models.NewExpiresAfter(p.ExpiresAfterDays),
		Metadata:     p.Metadata,
	})
	return storage.Call[openai.VectorStore](ctx, g.upstream, req)
}

func (g *Gateway) DeleteVectorStore(ctx context.Context, id string) (models.Result[models.DeleteResult], error) {
	if err := requireIDs("vector_store_id", id); err != nil {
		return models.Result[models.DeleteResult]{}, err
	}
	return storage.Call[models.DeleteResult](ctx, g.upstream, storage.BuildDeleteVectorStore(id))
}
