package storage

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/Akhildas-ts/vectorstore-mcp/internal/models"
)

// Request is a fully built upstream call, relative to the configured base
// URL. Body is nil for requests that carry none.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

func seg(id string) string {
	return url.PathEscape(id)
}

func vectorStorePath(id string) string {
	return "/vector_stores/" + seg(id)
}

func vectorStoreFilePath(storeID, fileID string) string {
	return vectorStorePath(storeID) + "/files/" + seg(fileID)
}

func fileBatchPath(storeID, batchID string) string {
	return vectorStorePath(storeID) + "/file_batches/" + seg(batchID)
}

// queryKeys selects which ListParams fields an endpoint understands.
type queryKeys struct {
	cursors bool
	filter  bool
	purpose bool
}

func listQuery(p models.ListParams, keys queryKeys) url.Values {
	q := url.Values{}
	if p.Limit != nil {
		q.Set("limit", strconv.Itoa(*p.Limit))
	}
	if p.Order != nil {
		q.Set("order", *p.Order)
	}
	if p.After != nil {
		q.Set("after", *p.After)
	}
	if keys.cursors && p.Before != nil {
		q.Set("before", *p.Before)
	}
	if keys.filter && p.Filter != nil {
		q.Set("filter", *p.Filter)
	}
	if keys.purpose && p.Purpose != nil {
		q.Set("purpose", *p.Purpose)
	}
	return q
}

// Vector stores

func BuildCreateVectorStore(p models.CreateVectorStoreRequest) Request {
	return Request{Method: http.MethodPost, Path: "/vector_stores", Body: p}
}

func BuildListVectorStores(p models.ListParams) Request {
	return Request{Method: http.MethodGet, Path: "/vector_stores", Query: listQuery(p, queryKeys{cursors: true})}
}

func BuildGetVectorStore(id string) Request {
	return Request{Method: http.MethodGet, Path: vectorStorePath(id)}
}

func BuildModifyVectorStore(id string, p models.ModifyVectorStoreRequest) Request {
	return Request{Method: http.MethodPost, Path: vectorStorePath(id), Body: p}
}

func BuildDeleteVectorStore(id string) Request {
	return Request{Method: http.MethodDelete, Path: vectorStorePath(id)}
}

// Vector store files

func BuildCreateVectorStoreFile(storeID string, p models.CreateVectorStoreFileRequest) Request {
	return Request{Method: http.MethodPost, Path: vectorStorePath(storeID) + "/files", Body: p}
}

func BuildListVectorStoreFiles(storeID string, p models.ListParams) Request {
	return Request{
		Method: http.MethodGet,
		Path:   vectorStorePath(storeID) + "/files",
		Query:  listQuery(p, queryKeys{cursors: true, filter: true}),
	}
}

func BuildGetVectorStoreFile(storeID, fileID string) Request {
	return Request{Method: http.MethodGet, Path: vectorStoreFilePath(storeID, fileID)}
}

func BuildGetVectorStoreFileContent(storeID, fileID string) Request {
	return Request{Method: http.MethodGet, Path: vectorStoreFilePath(storeID, fileID) + "/content"}
}

func BuildUpdateVectorStoreFile(storeID, fileID string, p models.UpdateVectorStoreFileRequest) Request {
	return Request{Method: http.MethodPatch, Path: vectorStoreFilePath(storeID, fileID), Body: p}
}

func BuildDeleteVectorStoreFile(storeID, fileID string) Request {
	return Request{Method: http.MethodDelete, Path: vectorStoreFilePath(storeID, fileID)}
}

// File batches

func BuildCreateFileBatch(storeID string, p models.CreateFileBatchRequest) Request {
	return Request{Method: http.MethodPost, Path: vectorStorePath(storeID) + "/file_batches", Body: p}
}

func BuildGetFileBatch(storeID, batchID string) Request {
	return Request{Method: http.MethodGet, Path: fileBatchPath(storeID, batchID)}
}

func BuildCancelFileBatch(storeID, batchID string) Request {
	return Request{Method: http.MethodPost, Path: fileBatchPath(storeID, batchID) + "/cancel"}
}

func BuildListFileBatchFiles(storeID, batchID string, p models.ListParams) Request {
	return Request{
		Method: http.MethodGet,
		Path:   fileBatchPath(storeID, batchID) + "/files",
		Query:  listQuery(p, queryKeys{cursors: true, filter: true}),
	}
}

// Files

func BuildListFiles(p models.ListParams) Request {
	return Request{Method: http.MethodGet, Path: "/files", Query: listQuery(p, queryKeys{purpose: true})}
}

func BuildGetFile(fileID string) Request {
	return Request{Method: http.MethodGet, Path: "/files/" + seg(fileID)}
}

func BuildGetFileContent(fileID string) Request {
	return Request{Method: http.MethodGet, Path: "/files/" + seg(fileID) + "/content"}
}

func BuildDeleteFile(fileID string) Request {
	return Request{Method: http.MethodDelete, Path: "/files/" + seg(fileID)}
}

// Uploads

func BuildCreateUpload(p models.CreateUploadRequest) Request {
	return Request{Method: http.MethodPost, Path: "/uploads", Body: p}
}

func BuildCompleteUpload(uploadID string, p models.CompleteUploadRequest) Request {
	return Request{Method: http.MethodPost, Path: "/uploads/" + seg(uploadID) + "/complete", Body: p}
}

func BuildCancelUpload(uploadID string) Request {
	return Request{Method: http.MethodPost, Path: "/uploads/" + seg(uploadID) + "/cancel"}
}
