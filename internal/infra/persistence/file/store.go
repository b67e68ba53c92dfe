// Package file implements the credential store as a JSON array in a single file.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"miniblog/internal/domain/entity"
	domainerrors "miniblog/internal/domain/errors"
	"miniblog/internal/domain/repository"
	"miniblog/internal/errors"
)

const (
	filePerm = 0o600
	dirPerm  = 0o750
)

// Verify interface compliance
var _ repository.CredentialStore = (*Store)(nil)

// Store reads and rewrites the whole collection on every call.
// It does not serialise callers; pair it with a TransactionManager.
type Store struct {
	path    string
	timeout time.Duration
	logger  *slog.Logger
}

// NewStore creates a file-backed store. A non-positive timeout disables the bound.
func NewStore(path string, timeout time.Duration, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		path:    path,
		timeout: timeout,
		logger:  logger,
	}
}

// Path returns the location of the users file.
func (s *Store) Path() string {
	return s.path
}

// Init writes an empty collection when the file does not exist yet.
// An existing file is left untouched, even if malformed.
func (s *Store) Init(ctx context.Context) error {
	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return errors.WithStack(domainerrors.NewStorageError(err, "stat users file"))
	}

	if err := os.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
		return errors.WithStack(domainerrors.NewStorageError(err, "create users directory"))
	}

	s.logger.InfoContext(ctx, "Initialising empty users file", slog.String("path", s.path))

	return s.Save(ctx, []*entity.User{})
}

// Load returns every stored user in insertion order.
func (s *Store) Load(ctx context.Context) ([]*entity.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(domainerrors.NewStorageError(err, "load users"))
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []*entity.User{}, nil
		}

		return nil, errors.WithStack(domainerrors.NewStorageError(err, "read users file"))
	}

	var users []*entity.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, errors.WithStack(domainerrors.NewStorageError(err, "decode users file"))
	}
	// "null" decodes without error but is not a collection.
	if users == nil {
		return nil, errors.WithStack(domainerrors.NewStorageError(nil, "users file is not a JSON array"))
	}

	s.logger.DebugContext(ctx, "Loaded users file",
		slog.String("path", s.path),
		slog.Int("count", len(users)),
	)

	return users, nil
}

// Save replaces the file contents through a temp file and rename,
// so readers see either the old or the new collection.
func (s *Store) Save(ctx context.Context, users []*entity.User) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if users == nil {
		users = []*entity.User{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(users); err != nil {
		return errors.WithStack(domainerrors.NewStorageError(err, "encode users"))
	}

	if err := ctx.Err(); err != nil {
		return errors.WithStack(domainerrors.NewStorageError(err, "save users"))
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.WithStack(domainerrors.NewStorageError(err, "create temp users file"))
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return errors.WithStack(domainerrors.NewStorageError(err, "write temp users file"))
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.WithStack(domainerrors.NewStorageError(err, "sync temp users file"))
	}
	if err := tmp.Close(); err != nil {
		return errors.WithStack(domainerrors.NewStorageError(err, "close temp users file"))
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		return errors.WithStack(domainerrors.NewStorageError(err, "chmod temp users file"))
	}

	// Last point at which the old contents are still intact.
	if err := ctx.Err(); err != nil {
		return errors.WithStack(domainerrors.NewStorageError(err, "save users"))
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return errors.WithStack(domainerrors.NewStorageError(err, "replace users file"))
	}
	committed = true

	s.logger.DebugContext(ctx, "Saved users file",
		slog.String("path", s.path),
		slog.Int("count", len(users)),
	)

	return nil
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, s.timeout)
}
