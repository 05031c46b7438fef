// Package backup — ротация резервных копий отслеживаемых файлов.
package backup

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrNotFound — исходный файл или бэкап отсутствует.
var ErrNotFound = errors.New("backup source not found")

// DefaultMaxBackups — сколько копий держим на файл по умолчанию.
const DefaultMaxBackups = 10

// Manager складывает копии вида <stem>_<YYYYMMDD_HHMMSS><ext> в отдельный
// каталог и удаляет старые сверх лимита.
type Manager struct {
	dir string
	max int
}

// New создаёт менеджер и каталог бэкапов. max <= 0 — лимит по умолчанию.
func New(dir string, max int) (*Manager, error) {
	if max <= 0 {
		max = DefaultMaxBackups
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}
	return &Manager{dir: dir, max: max}, nil
}

// Create снимает копию файла с меткой времени и подчищает старые.
// Возвращает путь созданной копии.
func (m *Manager) Create(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", err
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	ts := time.Now().Format("20060102_150405")

	// два снимка в одну секунду — добавляем монотонный суффикс,
	// чтобы не перетирать предыдущий
	dst := filepath.Join(m.dir, fmt.Sprintf("%s_%s%s", stem, ts, ext))
	for n := 1; ; n++ {
		if _, err := os.Stat(dst); os.IsNotExist(err) {
			break
		}
		dst = filepath.Join(m.dir, fmt.Sprintf("%s_%s_%d%s", stem, ts, n, ext))
	}

	if err := copyFile(path, dst); err != nil {
		return "", err
	}
	if err := m.prune(stem, ext); err != nil {
		return "", err
	}
	return dst, nil
}

// Restore накатывает бэкап поверх target.
func (m *Manager) Restore(backupPath, target string) error {
	if _, err := os.Stat(backupPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, backupPath)
		}
		return err
	}
	return copyFile(backupPath, target)
}

// List возвращает бэкапы для файла <stem><ext>, новые первыми.
func (m *Manager) List(stem, ext string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(m.dir, stem+"_*"+ext))
	if err != nil {
		return nil, err
	}
	sort.Slice(matches, func(i, j int) bool {
		return mtime(matches[i]).After(mtime(matches[j]))
	})
	return matches, nil
}

func (m *Manager) prune(stem, ext string) error {
	backups, err := m.List(stem, ext)
	if err != nil {
		return err
	}
	for _, old := range backups[min(m.max, len(backups)):] {
		if err := os.Remove(old); err != nil {
			return err
		}
	}
	return nil
}

func mtime(path string) time.Time {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return fi.ModTime()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
