package service

import (
	"context"
	"encoding/base64"

	"github.com/sashabaranov/go-openai"

	"github.com/Akhildas-ts/vectorstore-mcp/internal/models"
	"github.com/Akhildas-ts/vectorstore-mcp/internal/storage"
	"github.com/Akhildas-ts/vectorstore-mcp/pkg/utils"
)

const localUploadWorkaround = "Upload the file through the platform dashboard or the Files API, then pass the returned file id to vector_store_file_create or vector_store_file_batch_create."

func (g *Gateway) ListFiles(ctx context.Context, p models.ListParams) (models.Result[models.ListPage[openai.File]], error) {
	return storage.Call[models.ListPage[openai.File]](ctx, g.upstream, storage.BuildListFiles(p))
}

func (g *Gateway) GetFile(ctx context.Context, fileID string) (models.Result[openai.File], error) {
	if err := requireIDs("file_id", fileID); err != nil {
		return models.Result[openai.File]{}, err
	}
	return storage.Call[openai.File](ctx, g.upstream, storage.BuildGetFile(fileID))
}

// GetFileContent downloads a file. Text comes back as is; anything that looks
// binary is base64 encoded.
func (g *Gateway) GetFileContent(ctx context.Context, fileID string) (models.FileContent, error) {
	if err := requireIDs("file_id", fileID); err != nil {
		return models.FileContent{}, err
	}
	body, contentType, err := g.upstream.DoRaw(ctx, storage.BuildGetFileContent(fileID))
	if err != nil {
		return models.FileContent{}, err
	}

	out := models.FileContent{FileID: fileID, ContentType: contentType, Encoding: "utf-8", Content: string(body)}
	if utils.ContainsBinaryData(body) {
		out.Encoding = "base64"
		out.Content = base64.StdEncoding.EncodeToString(body)
	}
	return out, nil
}

// DeleteFile deletes the uploaded file object. Stores that referenced it lose
// the file as well.
func (g *Gateway) DeleteFile(ctx context.Context, fileID string) (models.Result[models.DeleteResult], error) {
	if err := requireIDs("file_id", fileID); err != nil {
		return models.Result[models.DeleteResult]{}, err
	}
	return storage.Call[models.DeleteResult](ctx, g.upstream, storage.BuildDeleteFile(fileID))
}

// UploadLocalFile always fails: this server never reads the local file
// system. The error names the supported alternative.
func (g *Gateway) UploadLocalFile(_ context.Context, path, purpose string) error {
	return storage.NewInternalError(
		"Local file upload is not supported by this server. "+localUploadWorkaround,
		map[string]string{
			"path":       path,
			"purpose":    purpose,
			"workaround": localUploadWorkaround,
		},
	)
}
