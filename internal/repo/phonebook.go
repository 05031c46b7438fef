package repo

import (
	"fmt"

	"github.com/google/uuid"

	"dialplan/internal/logs"
	"dialplan/internal/models"
)

// AddPhonebookEntry добавляет запись в конец справочника и назначает ей
// стабильный ключ (uuid). Уникальность пары (name, number) не
// проверяется — справочник допускает повторы.
func (s *Store) AddPhonebookEntry(e models.PhonebookEntry) (models.PhonebookEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc phonebookDoc
	if err := loadYAML(s.phonebookFile, &doc); err != nil {
		return models.PhonebookEntry{}, err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	doc.Phonebook = append(doc.Phonebook, e)

	if err := s.writeYAML(s.phonebookFile, &doc); err != nil {
		return models.PhonebookEntry{}, err
	}
	if _, err := s.Reload(); err != nil {
		return models.PhonebookEntry{}, err
	}
	logs.Logger.Infof("added phonebook entry %q", e.Name)
	return e, nil
}

// UpdatePhonebookEntryByID — основной способ адресации записи.
func (s *Store) UpdatePhonebookEntryByID(id string, e models.PhonebookEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateEntry(func(list []models.PhonebookEntry) (int, error) {
		return indexByID(list, id)
	}, e)
}

// DeletePhonebookEntryByID удаляет запись по стабильному ключу.
func (s *Store) DeletePhonebookEntryByID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteEntry(func(list []models.PhonebookEntry) (int, error) {
		return indexByID(list, id)
	})
}

// UpdatePhonebookEntry — адресация по позиции (режим совместимости).
// После удаления записи позиции смещаются, ключевая адресация надёжнее.
func (s *Store) UpdatePhonebookEntry(index int, e models.PhonebookEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateEntry(func(list []models.PhonebookEntry) (int, error) {
		return checkIndex(list, index)
	}, e)
}

// DeletePhonebookEntry удаляет запись по позиции (режим совместимости).
func (s *Store) DeletePhonebookEntry(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteEntry(func(list []models.PhonebookEntry) (int, error) {
		return checkIndex(list, index)
	})
}

func (s *Store) updateEntry(find func([]models.PhonebookEntry) (int, error), e models.PhonebookEntry) error {
	var doc phonebookDoc
	if err := loadYAML(s.phonebookFile, &doc); err != nil {
		return err
	}
	i, err := find(doc.Phonebook)
	if err != nil {
		return err
	}
	e.ID = doc.Phonebook[i].ID // ключ неизменяем
	doc.Phonebook[i] = e

	if err := s.writeYAML(s.phonebookFile, &doc); err != nil {
		return err
	}
	if _, err := s.Reload(); err != nil {
		return err
	}
	logs.Logger.Infof("updated phonebook entry %q", e.Name)
	return nil
}

func (s *Store) deleteEntry(find func([]models.PhonebookEntry) (int, error)) error {
	var doc phonebookDoc
	if err := loadYAML(s.phonebookFile, &doc); err != nil {
		return err
	}
	i, err := find(doc.Phonebook)
	if err != nil {
		return err
	}
	removed := doc.Phonebook[i]
	doc.Phonebook = append(doc.Phonebook[:i], doc.Phonebook[i+1:]...)

	if err := s.writeYAML(s.phonebookFile, &doc); err != nil {
		return err
	}
	if _, err := s.Reload(); err != nil {
		return err
	}
	logs.Logger.Infof("deleted phonebook entry %q", removed.Name)
	return nil
}

func indexByID(list []models.PhonebookEntry, id string) (int, error) {
	for i := range list {
		if list[i].ID == id {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: id %s", ErrEntryNotFound, id)
}

func checkIndex(list []models.PhonebookEntry, index int) (int, error) {
	if index < 0 || index >= len(list) {
		return 0, fmt.Errorf("%w: index %d", ErrEntryNotFound, index)
	}
	return index, nil
}
