// Package repo — файловое хранилище инвентаря: phones.yml, phonebook.yml
// и опциональный secrets.yml. Каждая мутация идёт по протоколу
// бэкап → временный файл → контрольный разбор → rename, с откатом из
// бэкапа при сбое. После успешной записи инвентарь перечитывается
// целиком и публикуется как новый снимок.
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"dialplan/internal/backup"
	"dialplan/internal/logs"
	"dialplan/internal/mac"
	"dialplan/internal/models"
)

type phonesDoc struct {
	Global *models.GlobalSettings `yaml:"global,omitempty"`
	Phones []models.Phone         `yaml:"phones"`
}

type phonebookDoc struct {
	PhonebookName string                  `yaml:"phonebook_name,omitempty"`
	Phonebook     []models.PhonebookEntry `yaml:"phonebook"`
	Groups        []models.PhonebookGroup `yaml:"groups,omitempty"`
}

type secretsDoc struct {
	PhonePasswords map[string]string `yaml:"phone_passwords"`
}

// Store — единственная точка мутаций инвентаря. Все операции записи
// сериализуются одним мьютексом: read-modify-write без него допускал бы
// дубликаты при одновременных вызовах.
type Store struct {
	mu sync.Mutex

	dir           string
	phonesFile    string
	phonebookFile string
	secretsFile   string // "" — пароли остаются в phones.yml

	backups *backup.Manager
	marshal func(any) ([]byte, error) // подменяется в тестах

	cur atomic.Pointer[models.Inventory]
}

// NewStore создаёт хранилище, каталог инвентаря и каталог бэкапов,
// затем загружает начальный снимок.
func NewStore(dir, secretsFile string, maxBackups int) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &PersistenceError{Path: dir, Err: err}
	}
	bm, err := backup.New(filepath.Join(dir, ".backups"), maxBackups)
	if err != nil {
		return nil, &PersistenceError{Path: dir, Err: err}
	}

	s := &Store{
		dir:           dir,
		phonesFile:    filepath.Join(dir, "phones.yml"),
		phonebookFile: filepath.Join(dir, "phonebook.yml"),
		secretsFile:   secretsFile,
		backups:       bm,
		marshal:       yaml.Marshal,
	}
	if _, err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Inventory — текущий опубликованный снимок. Читатели видят либо
// состояние до мутации, либо после, промежуточных не бывает.
func (s *Store) Inventory() *models.Inventory { return s.cur.Load() }

// Dir — каталог инвентаря (для readiness-проверки).
func (s *Store) Dir() string { return s.dir }

// Reload перечитывает все файлы и публикует новый снимок целиком.
func (s *Store) Reload() (*models.Inventory, error) {
	inv, err := s.loadInventory()
	if err != nil {
		return nil, err
	}
	s.cur.Store(inv)
	logs.Logger.Debugf("inventory reloaded: %d phones, %d phonebook entries",
		len(inv.Phones), len(inv.Phonebook))
	return inv, nil
}

// loadInventory собирает агрегат из файлов. Отсутствующий файл — пустой
// раздел. Пароли из secrets.yml перекрывают пароли из phones.yml.
func (s *Store) loadInventory() (*models.Inventory, error) {
	var phones phonesDoc
	if err := loadYAML(s.phonesFile, &phones); err != nil {
		return nil, err
	}
	var pb phonebookDoc
	if err := loadYAML(s.phonebookFile, &pb); err != nil {
		return nil, err
	}

	var secrets secretsDoc
	if s.secretsFile != "" {
		if err := loadYAML(s.secretsFile, &secrets); err != nil {
			return nil, err
		}
	}

	global := models.DefaultGlobalSettings()
	if phones.Global != nil {
		global = *phones.Global
	}

	list := make([]models.Phone, 0, len(phones.Phones))
	for _, p := range phones.Phones {
		canon, err := mac.Normalize(p.MAC)
		if err != nil {
			return nil, &PersistenceError{Path: s.phonesFile, Err: err}
		}
		p.MAC = canon
		if pw, ok := secrets.PhonePasswords[p.Extension]; ok {
			p.Password = pw
		}
		list = append(list, p)
	}

	name := pb.PhonebookName
	if name == "" {
		name = "Directory"
	}
	return models.NewInventory(global, list, pb.Phonebook, name, pb.Groups), nil
}

// ===== атомарная запись =====

// writeYAML записывает документ по протоколу:
// бэкап существующего файла → сериализация во временный файл →
// контрольный разбор → rename. При сбое — откат из бэкапа и удаление
// временного файла; наружу уходит PersistenceError с причиной.
func (s *Store) writeYAML(path string, doc any) error {
	var backupPath string
	if _, err := os.Stat(path); err == nil {
		bp, err := s.backups.Create(path)
		if err != nil {
			return &PersistenceError{Path: path, Err: err}
		}
		backupPath = bp
	}

	tmp := path + ".tmp"
	err := func() error {
		data, err := s.marshal(doc)
		if err != nil {
			return err
		}
		if err := os.WriteFile(tmp, data, 0o644); err != nil {
			return err
		}
		// убеждаемся, что записанное читается обратно
		raw, err := os.ReadFile(tmp)
		if err != nil {
			return err
		}
		var probe map[string]any
		if err := yaml.Unmarshal(raw, &probe); err != nil {
			return err
		}
		return os.Rename(tmp, path)
	}()
	if err != nil {
		if backupPath != "" {
			if rerr := s.backups.Restore(backupPath, path); rerr != nil {
				logs.Logger.Errorf("rollback of %s from %s failed: %v", path, backupPath, rerr)
			} else {
				logs.Logger.Warnf("rolled back %s from backup after write error", path)
			}
		}
		_ = os.Remove(tmp)
		return &PersistenceError{Path: path, Err: err}
	}
	return nil
}

func loadYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &PersistenceError{Path: path, Err: err}
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return &PersistenceError{Path: path, Err: fmt.Errorf("parse: %w", err)}
	}
	return nil
}

// ===== secrets.yml =====

func (s *Store) putSecret(ext, password string) error {
	var doc secretsDoc
	if err := loadYAML(s.secretsFile, &doc); err != nil {
		return err
	}
	if doc.PhonePasswords == nil {
		doc.PhonePasswords = make(map[string]string)
	}
	doc.PhonePasswords[ext] = password
	return s.writeYAML(s.secretsFile, &doc)
}

func (s *Store) deleteSecret(ext string) error {
	var doc secretsDoc
	if err := loadYAML(s.secretsFile, &doc); err != nil {
		return err
	}
	if _, ok := doc.PhonePasswords[ext]; !ok {
		return nil
	}
	delete(doc.PhonePasswords, ext)
	return s.writeYAML(s.secretsFile, &doc)
}

// moveSecret переносит пароль на новый добавочный при смене extension.
func (s *Store) moveSecret(oldExt, newExt string) error {
	var doc secretsDoc
	if err := loadYAML(s.secretsFile, &doc); err != nil {
		return err
	}
	pw, ok := doc.PhonePasswords[oldExt]
	if !ok {
		return nil
	}
	doc.PhonePasswords[newExt] = pw
	delete(doc.PhonePasswords, oldExt)
	return s.writeYAML(s.secretsFile, &doc)
}
