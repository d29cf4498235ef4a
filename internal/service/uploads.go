package service

import (
	"context"
	"fmt"

	"github.com/Akhildas-ts/vectorstore-mcp/internal/models"
	"github.com/Akhildas-ts/vectorstore-mcp/internal/storage"
	"github.com/Akhildas-ts/vectorstore-mcp/pkg/utils"
)

// CreateUpload starts a multipart upload. The MIME type is guessed from the
// file name when not given.
func (g *Gateway) CreateUpload(ctx context.Context, p models.CreateUploadRequest) (models.Result[models.Upload], error) {
	if err := requireIDs("filename", p.Filename, "purpose", p.Purpose); err != nil {
		return models.Result[models.Upload]{}, err
	}
	if p.MimeType == "" {
		p.MimeType = utils.MimeTypeFor(p.Filename)
	}
	return storage.Call[models.Upload](ctx, g.upstream, storage.BuildCreateUpload(p))
}

func (g *Gateway) CompleteUpload(ctx context.Context, uploadID string, p models.CompleteUploadRequest) (models.Result[models.Upload], error) {
	if err := requireIDs("upload_id", uploadID); err != nil {
		return models.Result[models.Upload]{}, err
	}
	if len(p.PartIDs) == 0 {
		return models.Result[models.Upload]{}, fmt.Errorf("%w: part_ids", ErrMissingParameter)
	}
	return storage.Call[models.Upload](ctx, g.upstream, storage.BuildCompleteUpload(uploadID, p))
}

func (g *Gateway) CancelUpload(ctx context.Context, uploadID string) (models.Result[models.Upload], error) {
	if err := requireIDs("upload_id", uploadID); err != nil {
		return models.Result[models.Upload]{}, err
	}
	return storage.Call[models.Upload](ctx, g.upstream, storage.BuildCancelUpload(uploadID))
}
