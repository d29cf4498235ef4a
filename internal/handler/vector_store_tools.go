package handler

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"github.com/Akhildas-ts/vectorstore-mcp/internal/models"
	"github.com/Akhildas-ts/vectorstore-mcp/internal/service"
)

type CreateVectorStoreInput struct {
	Name             *string                  `json:"name,omitempty" jsonschema:"Display name of the vector store"`
	FileIDs          []string                 `json:"file_ids,omitempty" jsonschema:"Ids of already uploaded files to attach"`
	ExpiresAfterDays *int                     `json:"expires_after_days,omitempty" jsonschema:"Expire the store this many days after it was last active"`
	Metadata         map[string]string        `json:"metadata,omitempty" jsonschema:"Up to 16 key/value pairs"`
	ChunkingStrategy *openai.ChunkingStrategy `json:"chunking_strategy,omitempty" jsonschema:"auto or static chunking for the attached files"`
}

type ListVectorStoresInput struct {
	Limit  *int    `json:"limit,omitempty" jsonschema:"Page size between 1 and 100"`
	Order  *string `json:"order,omitempty" jsonschema:"Sort by created_at: asc or desc"`
	After  *string `json:"after,omitempty" jsonschema:"Cursor: return objects after this id"`
	Before *string `json:"before,omitempty" jsonschema:"Cursor: return objects before this id"`
}

type VectorStoreIDInput struct {
	VectorStoreID string `json:"vector_store_id" jsonschema:"Id of the vector store"`
}

type ModifyVectorStoreInput struct {
	VectorStoreID    string             `json:"vector_store_id" jsonschema:"Id of the vector store"`
	Name             *string            `json:"name,omitempty" jsonschema:"New display name"`
	ExpiresAfterDays *int               `json:"expires_after_days,omitempty" jsonschema:"New expiration in days after last activity"`
	Metadata         *map[string]string `json:"metadata,omitempty" jsonschema:"Replacement metadata; an empty object clears it"`
}

type CreateVectorStoreFileInput struct {
	VectorStoreID    string                   `json:"vector_store_id" jsonschema:"Id of the vector store"`
	FileID           string                   `json:"file_id" jsonschema:"Id of an uploaded file"`
	Attributes       map[string]any           `json:"attributes,omitempty" jsonschema:"Attributes used for filtering search results"`
	ChunkingStrategy *openai.ChunkingStrategy `json:"chunking_strategy,omitempty" jsonschema:"auto or static chunking"`
}

type ListVectorStoreFilesInput struct {
	VectorStoreID string  `json:"vector_store_id" jsonschema:"Id of the vector store"`
	Limit         *int    `json:"limit,omitempty" jsonschema:"Page size between 1 and 100"`
	Order         *string `json:"order,omitempty" jsonschema:"Sort by created_at: asc or desc"`
	After         *string `json:"after,omitempty" jsonschema:"Cursor: return objects after this id"`
	Before        *string `json:"before,omitempty" jsonschema:"Cursor: return objects before this id"`
	Filter        *string `json:"filter,omitempty" jsonschema:"File status: in_progress, completed, failed or cancelled"`
}

type VectorStoreFileInput struct {
	VectorStoreID string `json:"vector_store_id" jsonschema:"Id of the vector store"`
	FileID        string `json:"file_id" jsonschema:"Id of the file"`
}

type UpdateVectorStoreFileInput struct {
	VectorStoreID string         `json:"vector_store_id" jsonschema:"Id of the vector store"`
	FileID        string         `json:"file_id" jsonschema:"Id of the file"`
	Attributes    map[string]any `json:"attributes" jsonschema:"Replacement attributes"`
}

type CreateFileBatchInput struct {
	VectorStoreID    string                   `json:"vector_store_id" jsonschema:"Id of the vector store"`
	FileIDs          []string                 `json:"file_ids" jsonschema:"Ids of uploaded files to attach in one batch"`
	Attributes       map[string]any           `json:"attributes,omitempty" jsonschema:"Attributes applied to every file in the batch"`
	ChunkingStrategy *openai.ChunkingStrategy `json:"chunking_strategy,omitempty" jsonschema:"auto or static chunking"`
}

type FileBatchInput struct {
	VectorStoreID string `json:"vector_store_id" jsonschema:"Id of the vector store"`
	BatchID       string `json:"batch_id" jsonschema:"Id of the file batch"`
}

type ListFileBatchFilesInput struct {
	VectorStoreID string  `json:"vector_store_id" jsonschema:"Id of the vector store"`
	BatchID       string  `json:"batch_id" jsonschema:"Id of the file batch"`
	Limit         *int    `json:"limit,omitempty" jsonschema:"Page size between 1 and 100"`
	Order         *string `json:"order,omitempty" jsonschema:"Sort by created_at: asc or desc"`
	After         *string `json:"after,omitempty" jsonschema:"Cursor: return objects after this id"`
	Before        *string `json:"before,omitempty" jsonschema:"Cursor: return objects before this id"`
	Filter        *string `json:"filter,omitempty" jsonschema:"File status: in_progress, completed, failed or cancelled"`
}

func (h *MCPHandler) registerVectorStoreTools() {
	addTool(h, "vector_store_create", "Create a vector store, optionally attaching files and an expiration policy",
		func(ctx context.Context, in CreateVectorStoreInput) (any, error) {
			res, err := h.gateway.CreateVectorStore(ctx, service.CreateVectorStoreParams{
				Name:             in.Name,
				FileIDs:          in.FileIDs,
				ExpiresAfterDays: in.ExpiresAfterDays,
				Metadata:         in.Metadata,
				ChunkingStrategy: in.ChunkingStrategy,
			})
			return res.Raw, err
		})

	addTool(h, "vector_store_list", "List vector stores, newest first unless order is given",
		func(ctx context.Context, in ListVectorStoresInput) (any, error) {
			res, err := h.gateway.ListVectorStores(ctx, models.ListParams{
				Limit: in.Limit, Order: in.Order, After: in.After, Before: in.Before,
			})
			return res.Raw, err
		})

	addTool(h, "vector_store_get", "Retrieve a vector store by id",
		func(ctx context.Context, in VectorStoreIDInput) (any, error) {
			res, err := h.gateway.GetVectorStore(ctx, in.VectorStoreID)
			return res.Raw, err
		})

	addTool(h, "vector_store_modify", "Change the name, expiration or metadata of a vector store",
		func(ctx context.Context, in ModifyVectorStoreInput) (any, error) {
			res, err := h.gateway.ModifyVectorStore(ctx, in.VectorStoreID, service.ModifyVectorStoreParams{
				Name:             in.Name,
				ExpiresAfterDays: in.ExpiresAfterDays,
				Metadata:         in.Metadata,
			})
			return res.Raw, err
		})

	addTool(h, "vector_store_delete", "Delete a vector store. Files stay uploaded",
		func(ctx context.Context, in VectorStoreIDInput) (any, error) {
			res, err := h.gateway.DeleteVectorStore(ctx, in.VectorStoreID)
			return res.Raw, err
		})
}

func (h *MCPHandler) registerVectorStoreFileTools() {
	addTool(h, "vector_store_file_create", "Attach an uploaded file to a vector store",
		func(ctx context.Context, in CreateVectorStoreFileInput) (any, error) {
			res, err := h.gateway.AttachFile(ctx, in.VectorStoreID, models.CreateVectorStoreFileRequest{
				FileID:           in.FileID,
				Attributes:       in.Attributes,
				ChunkingStrategy: in.ChunkingStrategy,
			})
			return res.Raw, err
		})

	addTool(h, "vector_store_file_list", "List the files of a vector store",
		func(ctx context.Context, in ListVectorStoreFilesInput) (any, error) {
			res, err := h.gateway.ListVectorStoreFiles(ctx, in.VectorStoreID, models.ListParams{
				Limit: in.Limit, Order: in.Order, After: in.After, Before: in.Before, Filter: in.Filter,
			})
			return res.Raw, err
		})

	addTool(h, "vector_store_file_get", "Retrieve one file of a vector store",
		func(ctx context.Context, in VectorStoreFileInput) (any, error) {
			res, err := h.gateway.GetVectorStoreFile(ctx, in.VectorStoreID, in.FileID)
			return res.Raw, err
		})

	addTool(h, "vector_store_file_content", "Return the parsed text content of a vector store file",
		func(ctx context.Context, in VectorStoreFileInput) (any, error) {
			res, err := h.gateway.GetVectorStoreFileContent(ctx, in.VectorStoreID, in.FileID)
			return res.Raw, err
		})

	addTool(h, "vector_store_file_update", "Replace the attributes of a vector store file",
		func(ctx context.Context, in UpdateVectorStoreFileInput) (any, error) {
			res, err := h.gateway.UpdateVectorStoreFile(ctx, in.VectorStoreID, in.FileID, in.Attributes)
			return res.Raw, err
		})

	addTool(h, "vector_store_file_delete", "Detach a file from a vector store. The file itself is kept",
		func(ctx context.Context, in VectorStoreFileInput) (any, error) {
			res, err := h.gateway.DetachFile(ctx, in.VectorStoreID, in.FileID)
			return res.Raw, err
		})
}

func (h *MCPHandler) registerFileBatchTools() {
	addTool(h, "vector_store_file_batch_create", "Attach several uploaded files to a vector store in one batch",
		func(ctx context.Context, in CreateFileBatchInput) (any, error) {
			res, err := h.gateway.CreateFileBatch(ctx, in.VectorStoreID, models.CreateFileBatchRequest{
				FileIDs:          in.FileIDs,
				Attributes:       in.Attributes,
				ChunkingStrategy: in.ChunkingStrategy,
			})
			logBatch(res.Value, err)
			return res.Raw, err
		})

	addTool(h, "vector_store_file_batch_get", "Retrieve the status and file counts of a file batch",
		func(ctx context.Context, in FileBatchInput) (any, error) {
			res, err := h.gateway.GetFileBatch(ctx, in.VectorStoreID, in.BatchID)
			logBatch(res.Value, err)
			return res.Raw, err
		})

	addTool(h, "vector_store_file_batch_cancel", "Cancel a file batch that is still processing",
		func(ctx context.Context, in FileBatchInput) (any, error) {
			res, err := h.gateway.CancelFileBatch(ctx, in.VectorStoreID, in.BatchID)
			logBatch(res.Value, err)
			return res.Raw, err
		})

	addTool(h, "vector_store_file_batch_files", "List the files of a file batch",
		func(ctx context.Context, in ListFileBatchFilesInput) (any, error) {
			res, err := h.gateway.ListFileBatchFiles(ctx, in.VectorStoreID, in.BatchID, models.ListParams{
				Limit: in.Limit, Order: in.Order, After: in.After, Before: in.Before, Filter: in.Filter,
			})
			return res.Raw, err
		})
}

func logBatch(b models.BatchSnapshot, err error) {
	if err != nil {
		return
	}
	done, total := b.Progress()
	log.Debug().
		Str("batch_id", b.ID).
		Str("status", string(b.State())).
		Bool("terminal", b.Terminal).
		Int("done", done).
		Int("total", total).
		Msg("file batch snapshot")
}
