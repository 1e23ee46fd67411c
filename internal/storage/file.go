package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"
)

// File keeps all keys in one JSON object on disk. Every call holds an
// exclusive flock on a sibling .lock file so separate processes sharing the
// store do not race; writes go through a temp file and a rename.
type File struct {
	path string
	log  *zap.Logger
}

func NewFile(path string, log *zap.Logger) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &File{path: path, log: log}, nil
}

func (f *File) Path() string { return f.path }

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := f.withLock(func() error {
		data, err := f.readAll()
		if err != nil {
			return err
		}
		value, ok = data[key]
		return nil
	})
	return value, ok, err
}

func (f *File) Set(_ context.Context, key, value string) error {
	return f.withLock(func() error {
		data, err := f.readForWrite()
		if err != nil {
			return err
		}
		data[key] = value
		return f.writeAll(data)
	})
}

func (f *File) Delete(_ context.Context, key string) error {
	return f.withLock(func() error {
		data, err := f.readForWrite()
		if err != nil {
			return err
		}
		if _, ok := data[key]; !ok {
			return nil
		}
		delete(data, key)
		return f.writeAll(data)
	})
}

func (f *File) withLock(fn func() error) error {
	lock, err := os.OpenFile(f.path+".lock", os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer lock.Close()

	if err := syscall.Flock(int(lock.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("lock store file: %w", err)
	}
	defer func() { _ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN) }()

	return fn()
}

var errCorrupt = errors.New("decode store file")

func (f *File) readAll() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}
	data := map[string]string{}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %w", errCorrupt, err)
	}
	return data, nil
}

// readForWrite moves an undecodable file aside and starts over empty, so
// one bad write never blocks every later one.
func (f *File) readForWrite() (map[string]string, error) {
	data, err := f.readAll()
	if !errors.Is(err, errCorrupt) {
		return data, err
	}

	aside := f.path + ".corrupt"
	f.log.Warn("store file is corrupt, starting empty",
		zap.String("path", f.path),
		zap.String("moved_to", aside),
		zap.Error(err))
	if err := os.Rename(f.path, aside); err != nil {
		return nil, fmt.Errorf("move corrupt store file: %w", err)
	}
	return map[string]string{}, nil
}

func (f *File) writeAll(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write store file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close store file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}
