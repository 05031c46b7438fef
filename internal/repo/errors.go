package repo

import (
	"errors"
	"fmt"
)

var (
	ErrPhoneNotFound      = errors.New("phone not found")
	ErrDuplicateMAC       = errors.New("phone with this mac already exists")
	ErrDuplicateExtension = errors.New("extension already in use")
	ErrEntryNotFound      = errors.New("phonebook entry not found")
)

// PersistenceError — сбой чтения/записи файла инвентаря. Гарантия:
// целевой файл остаётся либо в исходном, либо в полностью записанном
// состоянии, частичной записи не бывает.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure on %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
