package mocks

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
)

// FakeOpenAI is an in-process stand-in for the vector store REST API. It
// implements enough of the surface for end to end tests.
type FakeOpenAI struct {
	Server *httptest.Server
	APIKey string

	hits atomic.Int64

	mu      sync.Mutex
	seq     int
	stores  map[string]map[string]any
	order   []string
	vsFiles map[string][]*fakeStoreFile
	batches map[string]map[string]any
	files   map[string]*fakeFile
	uploads map[string]map[string]any
	forced  *forcedError
}

type fakeStoreFile struct {
	ID         string
	StoreID    string
	BatchID    string
	Status     string
	Attributes map[string]any
	CreatedAt  int64
}

type fakeFile struct {
	meta    map[string]any
	content []byte
	ctype   string
}

type forcedError struct {
	status int
	body   string
}

func NewFakeOpenAI(apiKey string) *FakeOpenAI {
	f := &FakeOpenAI{
		APIKey:  apiKey,
		stores:  map[string]map[string]any{},
		vsFiles: map[string][]*fakeStoreFile{},
		batches: map[string]map[string]any{},
		files:   map[string]*fakeFile{},
		uploads: map[string]map[string]any{},
	}
	f.Server = httptest.NewServer(f.router())
	return f
}

func (f *FakeOpenAI) Close() { f.Server.Close() }

func (f *FakeOpenAI) URL() string { return f.Server.URL + "/v1" }

// Hits is the number of requests received, including rejected ones.
func (f *FakeOpenAI) Hits() int64 { return f.hits.Load() }

// SetError makes every following request fail with status and body until
// cleared with SetError(0, "").
func (f *FakeOpenAI) SetError(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status == 0 {
		f.forced = nil
		return
	}
	f.forced = &forcedError{status: status, body: body}
}

// AddFile registers an uploaded file object.
func (f *FakeOpenAI) AddFile(id, filename, purpose string, content []byte, contentType string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[id] = &fakeFile{
		meta: map[string]any{
			"id":         id,
			"object":     "file",
			"bytes":      len(content),
			"created_at": time.Now().Unix(),
			"filename":   filename,
			"purpose":    purpose,
			"status":     "processed",
		},
		content: content,
		ctype:   contentType,
	}
}

func (f *FakeOpenAI) router() http.Handler {
	r := mux.NewRouter()
	v1 := r.PathPrefix("/v1").Subrouter()
	v1.Use(f.middleware)

	v1.HandleFunc("/models", f.listModels).Methods(http.MethodGet)

	v1.HandleFunc("/vector_stores", f.createStore).Methods(http.MethodPost)
	v1.HandleFunc("/vector_stores", f.listStores).Methods(http.MethodGet)
	v1.HandleFunc("/vector_stores/{id}", f.getStore).Methods(http.MethodGet)
	v1.HandleFunc("/vector_stores/{id}", f.modifyStore).Methods(http.MethodPost)
	v1.HandleFunc("/vector_stores/{id}", f.deleteStore).Methods(http.MethodDelete)

	v1.HandleFunc("/vector_stores/{id}/files", f.attachFile).Methods(http.MethodPost)
	v1.HandleFunc("/vector_stores/{id}/files", f.listStoreFiles).Methods(http.MethodGet)
	v1.HandleFunc("/vector_stores/{id}/files/{file_id}", f.getStoreFile).Methods(http.MethodGet)
	v1.HandleFunc("/vector_stores/{id}/files/{file_id}", f.updateStoreFile).Methods(http.MethodPatch)
	v1.HandleFunc("/vector_stores/{id}/files/{file_id}", f.detachFile).Methods(http.MethodDelete)
	v1.HandleFunc("/vector_stores/{id}/files/{file_id}/content", f.storeFileContent).Methods(http.MethodGet)

	v1.HandleFunc("/vector_stores/{id}/file_batches", f.createBatch).Methods(http.MethodPost)
	v1.HandleFunc("/vector_stores/{id}/file_batches/{batch_id}", f.getBatch).Methods(http.MethodGet)
	v1.HandleFunc("/vector_stores/{id}/file_batches/{batch_id}/cancel", f.cancelBatch).Methods(http.MethodPost)
	v1.HandleFunc("/vector_stores/{id}/file_batches/{batch_id}/files", f.listBatchFiles).Methods(http.MethodGet)

	v1.HandleFunc("/files", f.listFiles).Methods(http.MethodGet)
	v1.HandleFunc("/files/{file_id}", f.getFile).Methods(http.MethodGet)
	v1.HandleFunc("/files/{file_id}", f.deleteFile).Methods(http.MethodDelete)
	v1.HandleFunc("/files/{file_id}/content", f.fileContent).Methods(http.MethodGet)

	v1.HandleFunc("/uploads", f.createUpload).Methods(http.MethodPost)
	v1.HandleFunc("/uploads/{upload_id}/complete", f.completeUpload).Methods(http.MethodPost)
	v1.HandleFunc("/uploads/{upload_id}/cancel", f.cancelUpload).Methods(http.MethodPost)
	return r
}

func (f *FakeOpenAI) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		if r.Header.Get("Authorization") != "Bearer "+f.APIKey {
			writeError(w, http.StatusUnauthorized, "Incorrect API key provided.", "invalid_request_error")
			return
		}
		f.mu.Lock()
		forced := f.forced
		f.mu.Unlock()
		if forced != nil {
			w.WriteHeader(forced.status)
			w.Write([]byte(forced.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, typ string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{"message": msg, "type": typ, "param": nil, "code": nil},
	})
}

func (f *FakeOpenAI) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s_%d", prefix, f.seq)
}

func decodeBody(r *http.Request) (map[string]any, error) {
	body := map[string]any{}
	if r.ContentLength == 0 {
		return body, nil
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body, nil
}

func (f *FakeOpenAI) listModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"object": "list",
		"data":   []any{map[string]any{"id": "gpt-4o", "object": "model", "owned_by": "system"}},
	})
}

// Vector stores

func (f *FakeOpenAI) createStore(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.", "invalid_request_error")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID("vs")
	store := map[string]any{
		"id":          id,
		"object":      "vector_store",
		"created_at":  time.Now().Unix(),
		"name":        body["name"],
		"usage_bytes": 0,
		"status":      "completed",
		"metadata":    body["metadata"],
		"file_counts": map[string]int{"in_progress": 0, "completed": 0, "failed": 0, "cancelled": 0, "total": 0},
	}
	if exp, ok := body["expires_after"]; ok {
		store["expires_after"] = exp
	}
	if ids, ok := body["file_ids"].([]any); ok {
		for _, fid := range ids {
			f.vsFiles[id] = append(f.vsFiles[id], &fakeStoreFile{ID: fmt.Sprint(fid), StoreID: id, Status: "completed", CreatedAt: time.Now().Unix()})
		}
	}
	f.stores[id] = store
	f.order = append(f.order, id)
	writeJSON(w, http.StatusOK, store)
}

func (f *FakeOpenAI) listStores(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	ids := append([]string(nil), f.order...)
	items := make([]any, 0, len(ids))
	for _, id := range ids {
		items = append(items, cloneMap(f.stores[id]))
	}
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, paginate(r, ids, items))
}

// paginate applies limit, order and after to items whose ids are given in
// creation order.
func paginate(r *http.Request, ids []string, items []any) map[string]any {
	q := r.URL.Query()
	if q.Get("order") != "asc" {
		for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
			ids[i], ids[j] = ids[j], ids[i]
			items[i], items[j] = items[j], items[i]
		}
	}
	if after := q.Get("after"); after != "" {
		for i, id := range ids {
			if id == after {
				ids, items = ids[i+1:], items[i+1:]
				break
			}
		}
	}
	limit := 20
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 {
		limit = l
	}
	hasMore := len(items) > limit
	if hasMore {
		ids, items = ids[:limit], items[:limit]
	}

	if items == nil {
		items = []any{}
	}
	page := map[string]any{"object": "list", "data": items, "has_more": hasMore, "first_id": nil, "last_id": nil}
	if len(ids) > 0 {
		page["first_id"] = ids[0]
		page["last_id"] = ids[len(ids)-1]
	}
	return page
}

func (f *FakeOpenAI) storeOr404(w http.ResponseWriter, id string) (map[string]any, bool) {
	store, ok := f.stores[id]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("No vector store found with id '%s'.", id), "invalid_request_error")
	}
	return store, ok
}

func (f *FakeOpenAI) getStore(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if store, ok := f.storeOr404(w, mux.Vars(r)["id"]); ok {
		writeJSON(w, http.StatusOK, store)
	}
}

func (f *FakeOpenAI) modifyStore(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.", "invalid_request_error")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	store, ok := f.storeOr404(w, mux.Vars(r)["id"])
	if !ok {
		return
	}
	for _, k := range []string{"name", "metadata", "expires_after"} {
		if v, set := body[k]; set {
			store[k] = v
		}
	}
	writeJSON(w, http.StatusOK, store)
}

func (f *FakeOpenAI) deleteStore(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := mux.Vars(r)["id"]
	if _, ok := f.storeOr404(w, id); !ok {
		return
	}
	delete(f.stores, id)
	delete(f.vsFiles, id)
	for i, o := range f.order {
		if o == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "object": "vector_store.deleted", "deleted": true})
}

// Vector store files

func (sf *fakeStoreFile) json() map[string]any {
	return map[string]any{
		"id":              sf.ID,
		"object":          "vector_store.file",
		"created_at":      sf.CreatedAt,
		"vector_store_id": sf.StoreID,
		"usage_bytes":     0,
		"status":          sf.Status,
		"attributes":      sf.Attributes,
	}
}

func (f *FakeOpenAI) findStoreFile(storeID, fileID string) *fakeStoreFile {
	for _, sf := range f.vsFiles[storeID] {
		if sf.ID == fileID {
			return sf
		}
	}
	return nil
}

func (f *FakeOpenAI) attachFile(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.", "invalid_request_error")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	storeID := mux.Vars(r)["id"]
	if _, ok := f.storeOr404(w, storeID); !ok {
		return
	}
	fileID, _ := body["file_id"].(string)
	if _, ok := f.files[fileID]; !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("No file found with id '%s'.", fileID), "invalid_request_error")
		return
	}
	attrs, _ := body["attributes"].(map[string]any)
	sf := &fakeStoreFile{ID: fileID, StoreID: storeID, Status: "in_progress", Attributes: attrs, CreatedAt: time.Now().Unix()}
	f.vsFiles[storeID] = append(f.vsFiles[storeID], sf)
	writeJSON(w, http.StatusOK, sf.json())
}

func (f *FakeOpenAI) listStoreFiles(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	storeID := mux.Vars(r)["id"]
	if _, ok := f.storeOr404(w, storeID); !ok {
		f.mu.Unlock()
		return
	}
	ids, items := f.selectFiles(storeID, "", r.URL.Query().Get("filter"))
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, paginate(r, ids, items))
}

func (f *FakeOpenAI) selectFiles(storeID, batchID, status string) ([]string, []any) {
	var ids []string
	var items []any
	for _, sf := range f.vsFiles[storeID] {
		if batchID != "" && sf.BatchID != batchID {
			continue
		}
		if status != "" && sf.Status != status {
			continue
		}
		ids = append(ids, sf.ID)
		items = append(items, sf.json())
	}
	return ids, items
}

func (f *FakeOpenAI) getStoreFile(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	vars := mux.Vars(r)
	sf := f.findStoreFile(vars["id"], vars["file_id"])
	if sf == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("No file found with id '%s' in vector store '%s'.", vars["file_id"], vars["id"]), "invalid_request_error")
		return
	}
	writeJSON(w, http.StatusOK, sf.json())
}

func (f *FakeOpenAI) updateStoreFile(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.", "invalid_request_error")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	vars := mux.Vars(r)
	sf := f.findStoreFile(vars["id"], vars["file_id"])
	if sf == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("No file found with id '%s' in vector store '%s'.", vars["file_id"], vars["id"]), "invalid_request_error")
		return
	}
	sf.Attributes, _ = body["attributes"].(map[string]any)
	writeJSON(w, http.StatusOK, sf.json())
}

func (f *FakeOpenAI) detachFile(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	vars := mux.Vars(r)
	storeID, fileID := vars["id"], vars["file_id"]
	list := f.vsFiles[storeID]
	for i, sf := range list {
		if sf.ID == fileID {
			f.vsFiles[storeID] = append(list[:i], list[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]any{"id": fileID, "object": "vector_store.file.deleted", "deleted": true})
			return
		}
	}
	writeError(w, http.StatusNotFound, fmt.Sprintf("No file found with id '%s' in vector store '%s'.", fileID, storeID), "invalid_request_error")
}

func (f *FakeOpenAI) storeFileContent(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	vars := mux.Vars(r)
	if f.findStoreFile(vars["id"], vars["file_id"]) == nil {
		writeError(w, http.StatusNotFound, "File not found.", "invalid_request_error")
		return
	}
	text := ""
	if file, ok := f.files[vars["file_id"]]; ok {
		text = string(file.content)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"object":    "vector_store.file_content.page",
		"data":      []any{map[string]any{"type": "text", "text": text}},
		"has_more":  false,
		"next_page": nil,
	})
}

// File batches. A batch moves from in_progress to completed on the first
// GET after creation, so tests can observe both states.

func (f *FakeOpenAI) createBatch(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.", "invalid_request_error")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	storeID := mux.Vars(r)["id"]
	if _, ok := f.storeOr404(w, storeID); !ok {
		return
	}
	ids, _ := body["file_ids"].([]any)
	batchID := f.nextID("vsfb")
	for _, fid := range ids {
		f.vsFiles[storeID] = append(f.vsFiles[storeID], &fakeStoreFile{
			ID: fmt.Sprint(fid), StoreID: storeID, BatchID: batchID, Status: "in_progress", CreatedAt: time.Now().Unix(),
		})
	}
	batch := map[string]any{
		"id":              batchID,
		"object":          "vector_store.files_batch",
		"created_at":      time.Now().Unix(),
		"vector_store_id": storeID,
		"status":          "in_progress",
	}
	f.batches[batchID] = batch
	f.refreshCounts(batch)
	writeJSON(w, http.StatusOK, batch)
}

func (f *FakeOpenAI) refreshCounts(batch map[string]any) {
	counts := map[string]int{"in_progress": 0, "completed": 0, "failed": 0, "cancelled": 0, "total": 0}
	for _, sf := range f.vsFiles[batch["vector_store_id"].(string)] {
		if sf.BatchID != batch["id"] {
			continue
		}
		counts[sf.Status]++
		counts["total"]++
	}
	batch["file_counts"] = counts
}

func (f *FakeOpenAI) batchOr404(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	vars := mux.Vars(r)
	batch, ok := f.batches[vars["batch_id"]]
	if !ok || batch["vector_store_id"] != vars["id"] {
		writeError(w, http.StatusNotFound, fmt.Sprintf("No batch found with id '%s'.", vars["batch_id"]), "invalid_request_error")
		return nil, false
	}
	return batch, true
}

func (f *FakeOpenAI) setBatchFiles(batch map[string]any, from, to string) {
	for _, sf := range f.vsFiles[batch["vector_store_id"].(string)] {
		if sf.BatchID == batch["id"] && sf.Status == from {
			sf.Status = to
		}
	}
	f.refreshCounts(batch)
}

func (f *FakeOpenAI) getBatch(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	batch, ok := f.batchOr404(w, r)
	if !ok {
		return
	}
	snapshot := cloneMap(batch)
	if batch["status"] == "in_progress" {
		batch["status"] = "completed"
		f.setBatchFiles(batch, "in_progress", "completed")
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (f *FakeOpenAI) cancelBatch(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	batch, ok := f.batchOr404(w, r)
	if !ok {
		return
	}
	if batch["status"] != "in_progress" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Cannot cancel a batch with status '%s'.", batch["status"]), "invalid_request_error")
		return
	}
	batch["status"] = "cancelled"
	f.setBatchFiles(batch, "in_progress", "cancelled")
	writeJSON(w, http.StatusOK, batch)
}

func (f *FakeOpenAI) listBatchFiles(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	batch, ok := f.batchOr404(w, r)
	if !ok {
		f.mu.Unlock()
		return
	}
	ids, items := f.selectFiles(batch["vector_store_id"].(string), batch["id"].(string), r.URL.Query().Get("filter"))
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, paginate(r, ids, items))
}

// Files

func (f *FakeOpenAI) listFiles(w http.ResponseWriter, r *http.Request) {
	purpose := r.URL.Query().Get("purpose")

	f.mu.Lock()
	keys := make([]string, 0, len(f.files))
	for id := range f.files {
		keys = append(keys, id)
	}
	sort.Strings(keys)
	var ids []string
	var items []any
	for _, id := range keys {
		file := f.files[id]
		if purpose != "" && file.meta["purpose"] != purpose {
			continue
		}
		ids = append(ids, id)
		items = append(items, file.meta)
	}
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, paginate(r, ids, items))
}

func (f *FakeOpenAI) fileOr404(w http.ResponseWriter, r *http.Request) (*fakeFile, bool) {
	id := mux.Vars(r)["file_id"]
	file, ok := f.files[id]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("No such File object: %s", id), "invalid_request_error")
	}
	return file, ok
}

func (f *FakeOpenAI) getFile(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if file, ok := f.fileOr404(w, r); ok {
		writeJSON(w, http.StatusOK, file.meta)
	}
}

func (f *FakeOpenAI) deleteFile(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.fileOr404(w, r); !ok {
		return
	}
	id := mux.Vars(r)["file_id"]
	delete(f.files, id)
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "object": "file", "deleted": true})
}

func (f *FakeOpenAI) fileContent(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	file, ok := f.fileOr404(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", file.ctype)
	w.WriteHeader(http.StatusOK)
	w.Write(file.content)
}

// Uploads

func (f *FakeOpenAI) createUpload(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.", "invalid_request_error")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID("upload")
	upload := map[string]any{
		"id":         id,
		"object":     "upload",
		"bytes":      body["bytes"],
		"created_at": time.Now().Unix(),
		"filename":   body["filename"],
		"purpose":    body["purpose"],
		"mime_type":  body["mime_type"],
		"status":     "pending",
		"expires_at": time.Now().Add(time.Hour).Unix(),
	}
	f.uploads[id] = upload
	writeJSON(w, http.StatusOK, upload)
}

func (f *FakeOpenAI) pendingUpload(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	id := mux.Vars(r)["upload_id"]
	upload, ok := f.uploads[id]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Upload with ID '%s' not found.", id), "invalid_request_error")
		return nil, false
	}
	if upload["status"] != "pending" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Upload '%s' is already %s.", id, upload["status"]), "invalid_request_error")
		return nil, false
	}
	return upload, true
}

func (f *FakeOpenAI) completeUpload(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	upload, ok := f.pendingUpload(w, r)
	if !ok {
		return
	}
	fileID := f.nextID("file")
	upload["status"] = "completed"
	upload["file"] = map[string]any{
		"id":       fileID,
		"object":   "file",
		"bytes":    upload["bytes"],
		"filename": upload["filename"],
		"purpose":  upload["purpose"],
	}
	f.files[fileID] = &fakeFile{meta: upload["file"].(map[string]any)}
	writeJSON(w, http.StatusOK, upload)
}

func (f *FakeOpenAI) cancelUpload(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	upload, ok := f.pendingUpload(w, r)
	if !ok {
		return
	}
	upload["status"] = "cancelled"
	writeJSON(w, http.StatusOK, upload)
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
