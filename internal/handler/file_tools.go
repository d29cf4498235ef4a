package handler

import (
	"context"

	"github.com/Akhildas-ts/vectorstore-mcp/internal/models"
)

type ListFilesInput struct {
	Limit   *int    `json:"limit,omitempty" jsonschema:"Page size"`
	Order   *string `json:"order,omitempty" jsonschema:"Sort by created_at: asc or desc"`
	After   *string `json:"after,omitempty" jsonschema:"Cursor: return objects after this id"`
	Purpose *string `json:"purpose,omitempty" jsonschema:"Only return files with this purpose, such as assistants"`
}

type FileIDInput struct {
	FileID string `json:"file_id" jsonschema:"Id of the uploaded file"`
}

type UploadFileInput struct {
	Path    string `json:"path" jsonschema:"Local path of the file to upload"`
	Purpose string `json:"purpose,omitempty" jsonschema:"Intended purpose of the file"`
}

type CreateUploadInput struct {
	Filename string `json:"filename" jsonschema:"Name of the file being uploaded"`
	Purpose  string `json:"purpose" jsonschema:"Intended purpose of the file, such as assistants"`
	Bytes    int64  `json:"bytes" jsonschema:"Total size of the file in bytes"`
	MimeType string `json:"mime_type,omitempty" jsonschema:"MIME type; guessed from the file name when empty"`
}

type CompleteUploadInput struct {
	UploadID string   `json:"upload_id" jsonschema:"Id of the upload"`
	PartIDs  []string `json:"part_ids" jsonschema:"Ordered ids of the uploaded parts"`
	MD5      *string  `json:"md5,omitempty" jsonschema:"Optional md5 checksum of the whole file"`
}

type UploadIDInput struct {
	UploadID string `json:"upload_id" jsonschema:"Id of the upload"`
}

type ValidateAPIKeyInput struct{}

type ValidateAPIKeyOutput struct {
	Valid bool `json:"valid"`
}

func (h *MCPHandler) registerFileTools() {
	addTool(h, "file_list", "List uploaded files",
		func(ctx context.Context, in ListFilesInput) (any, error) {
			res, err := h.gateway.ListFiles(ctx, models.ListParams{
				Limit: in.Limit, Order: in.Order, After: in.After, Purpose: in.Purpose,
			})
			return res.Raw, err
		})

	addTool(h, "file_get", "Retrieve an uploaded file object",
		func(ctx context.Context, in FileIDInput) (any, error) {
			res, err := h.gateway.GetFile(ctx, in.FileID)
			return res.Raw, err
		})

	addTool(h, "file_content", "Download an uploaded file. Binary content is base64 encoded",
		func(ctx context.Context, in FileIDInput) (any, error) {
			return h.gateway.GetFileContent(ctx, in.FileID)
		})

	addTool(h, "file_delete", "Delete an uploaded file. It is removed from every vector store",
		func(ctx context.Context, in FileIDInput) (any, error) {
			res, err := h.gateway.DeleteFile(ctx, in.FileID)
			return res.Raw, err
		})

	addTool(h, "file_upload", "Not supported: upload files through the platform and attach them by id",
		func(ctx context.Context, in UploadFileInput) (any, error) {
			return nil, h.gateway.UploadLocalFile(ctx, in.Path, in.Purpose)
		})
}

func (h *MCPHandler) registerUploadTools() {
	addTool(h, "upload_create", "Start a multipart upload",
		func(ctx context.Context, in CreateUploadInput) (any, error) {
			res, err := h.gateway.CreateUpload(ctx, models.CreateUploadRequest{
				Filename: in.Filename,
				Purpose:  in.Purpose,
				Bytes:    in.Bytes,
				MimeType: in.MimeType,
			})
			return res.Raw, err
		})

	addTool(h, "upload_complete", "Complete a multipart upload and create the file",
		func(ctx context.Context, in CompleteUploadInput) (any, error) {
			res, err := h.gateway.CompleteUpload(ctx, in.UploadID, models.CompleteUploadRequest{
				PartIDs: in.PartIDs,
				MD5:     in.MD5,
			})
			return res.Raw, err
		})

	addTool(h, "upload_cancel", "Cancel a multipart upload",
		func(ctx context.Context, in UploadIDInput) (any, error) {
			res, err := h.gateway.CancelUpload(ctx, in.UploadID)
			return res.Raw, err
		})
}

func (h *MCPHandler) registerAuthTools() {
	addTool(h, "api_key_validate", "Check whether the configured API key is accepted upstream",
		func(ctx context.Context, _ ValidateAPIKeyInput) (any, error) {
			return ValidateAPIKeyOutput{Valid: h.gateway.ValidateAPIKey(ctx)}, nil
		})
}
