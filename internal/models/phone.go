package models

// GlobalSettings — общие настройки, применяемые ко всем телефонам,
// если у записи нет собственного переопределения.
type GlobalSettings struct {
	PBXServer string   `yaml:"pbx_server" json:"pbx_server"`
	PBXPort   int      `yaml:"pbx_port" json:"pbx_port"`
	Transport string   `yaml:"transport" json:"transport"` // UDP|TCP|TLS
	NTPServer string   `yaml:"ntp_server" json:"ntp_server"`
	Timezone  string   `yaml:"timezone" json:"timezone"`
	Codecs    []string `yaml:"codecs" json:"codecs"`
}

// DefaultGlobalSettings — значения по умолчанию для нового инвентаря.
func DefaultGlobalSettings() GlobalSettings {
	return GlobalSettings{
		PBXServer: "pbx.example.com",
		PBXPort:   5060,
		Transport: "UDP",
		NTPServer: "pool.ntp.org",
		Timezone:  "America/New_York",
		Codecs:    []string{"PCMU", "PCMA", "G722"},
	}
}

// Phone — одна запись телефона. MAC хранится только в канонической форме
// (12 hex-символов, нижний регистр). Нулевые значения опциональных полей
// означают «не задано» — действует глобальная настройка.
type Phone struct {
	MAC         string `yaml:"mac" json:"mac"`
	Model       string `yaml:"model" json:"model"`
	Extension   string `yaml:"extension" json:"extension"`
	DisplayName string `yaml:"display_name" json:"display_name"`
	Password    string `yaml:"password,omitempty" json:"password,omitempty"`

	// Переопределения глобальных настроек
	PBXServer string   `yaml:"pbx_server,omitempty" json:"pbx_server,omitempty"`
	PBXPort   int      `yaml:"pbx_port,omitempty" json:"pbx_port,omitempty"`
	Transport string   `yaml:"transport,omitempty" json:"transport,omitempty"`
	Label     string   `yaml:"label,omitempty" json:"label,omitempty"`
	Codecs    []string `yaml:"codecs,omitempty" json:"codecs,omitempty"`
}

// LineLabel — подпись линии; по умолчанию display_name.
func (p Phone) LineLabel() string {
	if p.Label != "" {
		return p.Label
	}
	return p.DisplayName
}

// PhonebookEntry — запись общего справочника. ID назначается при создании
// (uuid) и хранится в файле: это стабильный ключ, в отличие от позиции.
type PhonebookEntry struct {
	ID     string `yaml:"id,omitempty" json:"id,omitempty"`
	Name   string `yaml:"name" json:"name"`
	Number string `yaml:"number" json:"number"`
}

// PhonebookGroup — именованная группа записей справочника.
type PhonebookGroup struct {
	Name    string   `yaml:"name" json:"name"`
	Members []string `yaml:"members" json:"members"`
}

// EffectiveSettings — проекция «настройки одного телефона после слияния
// с глобальными». Только чтение; собирается по требованию.
type EffectiveSettings struct {
	MAC         string   `json:"mac"`
	Model       string   `json:"model"`
	Extension   string   `json:"extension"`
	DisplayName string   `json:"display_name"`
	Password    string   `json:"password"`
	Label       string   `json:"label"`
	PBXServer   string   `json:"pbx_server"`
	PBXPort     int      `json:"pbx_port"`
	Transport   string   `json:"transport"`
	NTPServer   string   `json:"ntp_server"`
	Timezone    string   `json:"timezone"`
	Codecs      []string `json:"codecs"`
}

// Inventory — агрегат: глобальные настройки, телефоны и справочник.
// Пересобирается целиком из файлов после каждой успешной мутации,
// между перезагрузками неизменяем.
type Inventory struct {
	Global        GlobalSettings
	Phones        []Phone
	Phonebook     []PhonebookEntry
	PhonebookName string
	Groups        []PhonebookGroup

	macIndex map[string]int
}

// NewInventory строит агрегат и индекс по MAC.
func NewInventory(global GlobalSettings, phones []Phone, phonebook []PhonebookEntry, name string, groups []PhonebookGroup) *Inventory {
	inv := &Inventory{
		Global:        global,
		Phones:        phones,
		Phonebook:     phonebook,
		PhonebookName: name,
		Groups:        groups,
		macIndex:      make(map[string]int, len(phones)),
	}
	for i, p := range phones {
		inv.macIndex[p.MAC] = i
	}
	return inv
}

// PhoneByMAC ищет телефон по каноническому MAC. nil — не найден.
func (inv *Inventory) PhoneByMAC(canonical string) *Phone {
	i, ok := inv.macIndex[canonical]
	if !ok {
		return nil
	}
	return &inv.Phones[i]
}

// Effective сливает настройки телефона с глобальными: переопределение
// записи, иначе глобальное значение; NTP и таймзона — всегда глобальные.
func (inv *Inventory) Effective(p Phone) EffectiveSettings {
	s := EffectiveSettings{
		MAC:         p.MAC,
		Model:       p.Model,
		Extension:   p.Extension,
		DisplayName: p.DisplayName,
		Password:    p.Password,
		Label:       p.LineLabel(),
		PBXServer:   inv.Global.PBXServer,
		PBXPort:     inv.Global.PBXPort,
		Transport:   inv.Global.Transport,
		NTPServer:   inv.Global.NTPServer,
		Timezone:    inv.Global.Timezone,
		Codecs:      inv.Global.Codecs,
	}
	if p.PBXServer != "" {
		s.PBXServer = p.PBXServer
	}
	if p.PBXPort != 0 {
		s.PBXPort = p.PBXPort
	}
	if p.Transport != "" {
		s.Transport = p.Transport
	}
	if len(p.Codecs) > 0 {
		s.Codecs = p.Codecs
	}
	return s
}
