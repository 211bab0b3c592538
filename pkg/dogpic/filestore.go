package dogpic

import (
	"context"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const filePerm = 0o644

// Reader loads the breed name.
type Reader interface {
	Read(ctx context.Context, path string) (string, error)
}

// Writer persists the image URL.
type Writer interface {
	Write(ctx context.Context, path, content string) error
}

// FileStore reads and writes whole text files on a file system.
type FileStore struct {
	fs     afero.Fs
	logger *zap.Logger
}

// NewFileStore creates a FileStore on fs. Relative paths are resolved by fs, use afero.NewBasePathFs to root
// them in a directory.
func NewFileStore(fs afero.Fs, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FileStore{
		fs:     fs,
		logger: logger,
	}
}

// Read returns the full content of path, unmodified.
func (s *FileStore) Read(_ context.Context, path string) (string, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		s.logger.Debug("read failed", zap.String("path", path), zap.Error(err))

		return "", &ReadError{Path: path}
	}

	return string(data), nil
}

// Write replaces the content of path, creating the file if needed.
func (s *FileStore) Write(_ context.Context, path, content string) error {
	err := afero.WriteFile(s.fs, path, []byte(content), filePerm)
	if err != nil {
		s.logger.Debug("write failed", zap.String("path", path), zap.Error(err))

		return &WriteError{Path: path}
	}

	return nil
}

var (
	_ Reader = (*FileStore)(nil)
	_ Writer = (*FileStore)(nil)
)
