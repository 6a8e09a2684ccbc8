package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// URLPrefix is the path uploads are served from.
const URLPrefix = "/storage"

// LocalStorage はローカルファイルシステムにファイルを保存する Storage 実装。
type LocalStorage struct {
	baseDir   string // ディスク上のルートディレクトリ (例: "./uploads")
	publicURL string // 公開 URL のプレフィックス (例: "https://api.example.com/storage")
	create    func(name string) (io.WriteCloser, error)
}

// NewLocalStorage は LocalStorage を生成する。publicBaseURL が空なら相対 URL を返す。
func NewLocalStorage(baseDir, publicBaseURL string) *LocalStorage {
	return &LocalStorage{
		baseDir:   baseDir,
		publicURL: strings.TrimSuffix(publicBaseURL, "/") + URLPrefix,
		create:    func(name string) (io.WriteCloser, error) { return os.Create(name) },
	}
}

// Dir returns the directory files are written under.
func (s *LocalStorage) Dir() string { return s.baseDir }

func (s *LocalStorage) Save(_ context.Context, key string, data io.Reader, _ string) (string, error) {
	if !validKey(key) {
		return "", ErrInvalidKey
	}
	dest := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("storage: mkdir: %w", err)
	}

	f, err := s.create(dest)
	if err != nil {
		return "", fmt.Errorf("storage: create: %w", err)
	}
	if _, err := io.Copy(f, data); err != nil {
		_ = f.Close()
		_ = os.Remove(dest)
		return "", fmt.Errorf("storage: write: %w", err)
	}
	// 書き込みエラーが Close で初めて分かることがある
	if err := f.Close(); err != nil {
		_ = os.Remove(dest)
		return "", fmt.Errorf("storage: close: %w", err)
	}
	return s.publicURL + "/" + key, nil
}

func (s *LocalStorage) Delete(_ context.Context, key string) error {
	if !validKey(key) {
		return ErrInvalidKey
	}
	dest := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: remove: %w", err)
	}
	return nil
}

// KeyFromURL accepts the absolute URL returned by Save or its path.
func (s *LocalStorage) KeyFromURL(url string) (string, error) {
	key, ok := strings.CutPrefix(url, s.publicURL+"/")
	if !ok {
		i := strings.Index(url, URLPrefix+"/")
		if i < 0 {
			return "", ErrInvalidKey
		}
		key = url[i+len(URLPrefix)+1:]
	}
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	if !validKey(key) {
		return "", ErrInvalidKey
	}
	return key, nil
}
