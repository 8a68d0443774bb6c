package storage

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// Disk keeps each slot as one file under a base directory.
type Disk struct {
	d *diskv.Diskv
}

func OpenDisk(dir string) (*Disk, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("data dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Disk{d: diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 1024 * 1024, // 1MB
	})}, nil
}

func (k *Disk) Read(key string) ([]byte, bool, error) {
	if !k.d.Has(key) {
		return nil, false, nil
	}
	data, err := k.d.Read(key)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (k *Disk) Write(key string, data []byte) error {
	return k.d.Write(key, data)
}

func (k *Disk) Close() error {
	return nil
}
