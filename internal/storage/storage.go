package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Storage は アップロードされたファイルの保存・削除を抽象化するインターフェース。
// ローカルファイルシステム実装の他、S3 等に差し替え可能。
type Storage interface {
	// Save はファイルを保存し、公開 URL を返す。
	// key は "<bucket>/<folder>/<unix-ms>_<uuid>.<ext>" 形式。
	Save(ctx context.Context, key string, data io.Reader, contentType string) (url string, err error)

	// Delete は key に対応するファイルを削除する。存在しなければ何もしない。
	Delete(ctx context.Context, key string) error

	// KeyFromURL は Save が返した URL から key を取り出す。
	KeyFromURL(url string) (string, error)
}

var (
	ErrUnknownBucket      = errors.New("storage: unknown bucket")
	ErrInvalidContentType = errors.New("storage: content type not allowed")
	ErrInvalidKey         = errors.New("storage: invalid key")
)

// Bucket names.
const (
	BucketImages = "images"
	BucketFiles  = "files"
)

var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Extension returns the file extension to store an upload under. The images
// bucket only takes jpeg, png, webp and gif; the files bucket takes anything
// and keeps the original extension.
func Extension(bucket, contentType, filename string) (string, error) {
	switch bucket {
	case BucketImages:
		ext, ok := imageTypes[strings.ToLower(contentType)]
		if !ok {
			return "", ErrInvalidContentType
		}
		return ext, nil
	case BucketFiles:
		return strings.ToLower(path.Ext(filename)), nil
	default:
		return "", ErrUnknownBucket
	}
}

// ObjectKey builds "<bucket>/<folder>/<unix-ms>_<uuid><ext>".
func ObjectKey(bucket, folder, ext string, now time.Time) (string, error) {
	folder = strings.Trim(path.Clean("/"+folder), "/")
	if folder == "" || folder == "." {
		return "", ErrInvalidKey
	}
	name := fmt.Sprintf("%d_%s%s", now.UnixMilli(), uuid.NewString(), ext)
	return path.Join(bucket, folder, name), nil
}

// validKey rejects keys that would escape the storage root.
func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") {
		return false
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return false
		}
	}
	return true
}
