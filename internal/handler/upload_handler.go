package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Gilson1506/CCALLASPROJET/internal/storage"
)

const maxUploadSize = 10 << 20 // 10 MB

// UploadHandler はファイルのアップロード・削除を処理する
type UploadHandler struct {
	storage storage.Storage
	now     func() time.Time
}

// NewUploadHandler は UploadHandler を生成する
func NewUploadHandler(store storage.Storage) *UploadHandler {
	return &UploadHandler{storage: store, now: time.Now}
}

// Upload は POST /api/admin/uploads/{bucket}/{folder} を処理する。
// multipart の "file" を "<folder>/<unix-ms>_<uuid>.<ext>" に保存し公開 URL を返す
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	bucket := r.PathValue("bucket")
	folder := r.PathValue("folder")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1<<20)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "file_too_large")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file_required")
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		writeError(w, http.StatusBadRequest, "file_too_large")
		return
	}

	ct := header.Header.Get("Content-Type")
	ext, err := storage.Extension(bucket, ct, header.Filename)
	if err != nil {
		writeServiceError(w, r, err, "upload_failed")
		return
	}
	key, err := storage.ObjectKey(bucket, folder, ext, h.now())
	if err != nil {
		writeServiceError(w, r, err, "upload_failed")
		return
	}

	url, err := h.storage.Save(r.Context(), key, file, ct)
	if err != nil {
		writeServiceError(w, r, err, "upload_failed")
		return
	}
	slog.Info("file uploaded", "bucket", bucket, "key", key, "size", header.Size)
	writeJSON(w, http.StatusCreated, map[string]string{"url": url, "path": key})
}

// Delete は DELETE /api/admin/uploads/{bucket}?url= を処理する
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	bucket := r.PathValue("bucket")
	if bucket != storage.BucketImages && bucket != storage.BucketFiles {
		writeError(w, http.StatusNotFound, "unknown_bucket")
		return
	}
	key, err := h.storage.KeyFromURL(r.URL.Query().Get("url"))
	if err != nil {
		writeServiceError(w, r, err, "delete_failed")
		return
	}
	// バケット外のファイルは消さない
	if !strings.HasPrefix(key, bucket+"/") {
		writeError(w, http.StatusBadRequest, "invalid_path")
		return
	}
	if err := h.storage.Delete(r.Context(), key); err != nil {
		writeServiceError(w, r, err, "delete_failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
