package repo

import (
	"fmt"

	"dialplan/internal/logs"
	"dialplan/internal/mac"
	"dialplan/internal/models"
)

// AddPhone добавляет телефон. Проверки уникальности выполняются до
// любого обращения к файлам. При настроенном secrets.yml пароль уходит
// туда (ключ — extension) и в phones.yml не попадает.
func (s *Store) AddPhone(p models.Phone) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	canon, err := mac.Normalize(p.MAC)
	if err != nil {
		return err
	}
	p.MAC = canon

	inv, err := s.loadInventory()
	if err != nil {
		return err
	}
	if inv.PhoneByMAC(canon) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateMAC, canon)
	}
	if !extensionFree(inv, p.Extension, "") {
		return fmt.Errorf("%w: %s", ErrDuplicateExtension, p.Extension)
	}

	var doc phonesDoc
	if err := loadYAML(s.phonesFile, &doc); err != nil {
		return err
	}
	stored := p
	if s.secretsFile != "" {
		stored.Password = ""
	}
	doc.Phones = append(doc.Phones, stored)

	if err := s.writeYAML(s.phonesFile, &doc); err != nil {
		return err
	}
	if s.secretsFile != "" {
		if err := s.putSecret(p.Extension, p.Password); err != nil {
			return err
		}
	}
	if _, err := s.Reload(); err != nil {
		return err
	}

	logs.Logger.Infof("added phone %s (extension %s)", canon, p.Extension)
	return nil
}

// PhoneUpdate — частичное обновление записи. nil-поле не трогается.
type PhoneUpdate struct {
	Model       *string
	Extension   *string
	DisplayName *string
	Password    *string
	PBXServer   *string
	PBXPort     *int
	Transport   *string
	Label       *string
	Codecs      []string
}

// UpdatePhone применяет частичное обновление к телефону по MAC.
// Смена extension перепроверяет уникальность (без учёта самой записи)
// и переносит пароль в secrets.yml на новый ключ, если новый пароль не
// задан явно.
func (s *Store) UpdatePhone(rawMAC string, upd PhoneUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	canon, err := mac.Normalize(rawMAC)
	if err != nil {
		return err
	}

	var doc phonesDoc
	if err := loadYAML(s.phonesFile, &doc); err != nil {
		return err
	}
	idx := -1
	for i := range doc.Phones {
		m, err := mac.Normalize(doc.Phones[i].MAC)
		if err == nil && m == canon {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("%w: %s", ErrPhoneNotFound, canon)
	}

	cur := &doc.Phones[idx]
	oldExt := cur.Extension
	newExt := oldExt
	if upd.Extension != nil && *upd.Extension != oldExt {
		inv, err := s.loadInventory()
		if err != nil {
			return err
		}
		if !extensionFree(inv, *upd.Extension, canon) {
			return fmt.Errorf("%w: %s", ErrDuplicateExtension, *upd.Extension)
		}
		newExt = *upd.Extension
	}

	applyUpdate(cur, upd, s.secretsFile != "")

	if err := s.writeYAML(s.phonesFile, &doc); err != nil {
		return err
	}

	if s.secretsFile != "" {
		switch {
		case upd.Password != nil:
			// новый пароль — только в secrets; старый ключ подчищаем
			if newExt != oldExt {
				if err := s.deleteSecret(oldExt); err != nil {
					return err
				}
			}
			if err := s.putSecret(newExt, *upd.Password); err != nil {
				return err
			}
		case newExt != oldExt:
			if err := s.moveSecret(oldExt, newExt); err != nil {
				return err
			}
		}
	}

	if _, err := s.Reload(); err != nil {
		return err
	}
	logs.Logger.Infof("updated phone %s", canon)
	return nil
}

// DeletePhone удаляет телефон и связанный с ним пароль из secrets.yml.
func (s *Store) DeletePhone(rawMAC string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	canon, err := mac.Normalize(rawMAC)
	if err != nil {
		return err
	}

	var doc phonesDoc
	if err := loadYAML(s.phonesFile, &doc); err != nil {
		return err
	}
	idx := -1
	var ext string
	for i := range doc.Phones {
		m, err := mac.Normalize(doc.Phones[i].MAC)
		if err == nil && m == canon {
			idx = i
			ext = doc.Phones[i].Extension
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("%w: %s", ErrPhoneNotFound, canon)
	}
	doc.Phones = append(doc.Phones[:idx], doc.Phones[idx+1:]...)

	if err := s.writeYAML(s.phonesFile, &doc); err != nil {
		return err
	}
	if s.secretsFile != "" && ext != "" {
		if err := s.deleteSecret(ext); err != nil {
			return err
		}
	}
	if _, err := s.Reload(); err != nil {
		return err
	}

	logs.Logger.Infof("deleted phone %s (extension %s)", canon, ext)
	return nil
}

// UpdateGlobalSettings — безусловная перезапись блока global.
func (s *Store) UpdateGlobalSettings(g models.GlobalSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc phonesDoc
	if err := loadYAML(s.phonesFile, &doc); err != nil {
		return err
	}
	doc.Global = &g

	if err := s.writeYAML(s.phonesFile, &doc); err != nil {
		return err
	}
	if _, err := s.Reload(); err != nil {
		return err
	}
	logs.Logger.Info("updated global settings")
	return nil
}

// extensionFree: extension свободен, если не занят другим телефоном.
// excludeMAC — каноническая запись, которую не учитываем (для update).
func extensionFree(inv *models.Inventory, ext, excludeMAC string) bool {
	for _, p := range inv.Phones {
		if p.Extension != ext {
			continue
		}
		if excludeMAC != "" && p.MAC == excludeMAC {
			continue
		}
		return false
	}
	return true
}

func applyUpdate(p *models.Phone, upd PhoneUpdate, secretsSplit bool) {
	if upd.Model != nil {
		p.Model = *upd.Model
	}
	if upd.Extension != nil {
		p.Extension = *upd.Extension
	}
	if upd.DisplayName != nil {
		p.DisplayName = *upd.DisplayName
	}
	if upd.Password != nil && !secretsSplit {
		p.Password = *upd.Password
	}
	if upd.PBXServer != nil {
		p.PBXServer = *upd.PBXServer
	}
	if upd.PBXPort != nil {
		p.PBXPort = *upd.PBXPort
	}
	if upd.Transport != nil {
		p.Transport = *upd.Transport
	}
	if upd.Label != nil {
		p.Label = *upd.Label
	}
	if upd.Codecs != nil {
		p.Codecs = upd.Codecs
	}
}
