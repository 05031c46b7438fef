package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Конечная структура конфигурации приложения.
// Расширяем по мере роста проекта.
type Config struct {
	Server struct {
		Address  string `mapstructure:"address"`   // 0.0.0.0
		HTTPPort string `mapstructure:"http_port"` // 8080
	} `mapstructure:"server"`

	Paths struct {
		InventoryDir string `mapstructure:"inventory_dir"` // каталог phones.yml/phonebook.yml
		SecretsFile  string `mapstructure:"secrets_file"`  // пусто — пароли в phones.yml
	} `mapstructure:"paths"`

	Logging struct {
		Level  string `mapstructure:"level"`  // trace|debug|info|warning|error|fatal
		Format string `mapstructure:"format"` // text|json
		File   string `mapstructure:"file"`   // путь/префикс файла, пусто — только stdout
	} `mapstructure:"logs"`

	// vendor → список OUI-префиксов для автоопределения производителя
	VendorOUI map[string][]string `mapstructure:"vendor_oui"`

	Asterisk struct {
		Enabled       bool   `mapstructure:"enabled"`
		Host          string `mapstructure:"host"`
		Port          int    `mapstructure:"port"`
		Username      string `mapstructure:"username"`
		Password      string `mapstructure:"password"`
		RetryAttempts int    `mapstructure:"retry_attempts"`
		RetryDelaySec int    `mapstructure:"retry_delay_seconds"`
	} `mapstructure:"asterisk"`

	Backup struct {
		MaxBackups int `mapstructure:"max_backups"` // копий на файл
	} `mapstructure:"backup"`
}

// Load читает конфиг из env/файла с дефолтами.
func Load() (*Config, error) {
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Дефолты (минимальный рабочий набор)
	viper.SetDefault("server.address", "0.0.0.0")
	viper.SetDefault("server.http_port", "8080")

	viper.SetDefault("paths.inventory_dir", "inventory")
	viper.SetDefault("paths.secrets_file", "")

	// Логи — дефолты
	viper.SetDefault("logs.level", "info")
	viper.SetDefault("logs.format", "text")
	viper.SetDefault("logs.file", "")

	// Известные OUI Yealink и Fanvil
	viper.SetDefault("vendor_oui.yealink", []string{"001565", "805E0C", "805EC0"})
	viper.SetDefault("vendor_oui.fanvil", []string{"0C383E", "7C2F80"})

	viper.SetDefault("asterisk.enabled", false)
	viper.SetDefault("asterisk.host", "127.0.0.1")
	viper.SetDefault("asterisk.port", 5038)
	viper.SetDefault("asterisk.retry_attempts", 3)
	viper.SetDefault("asterisk.retry_delay_seconds", 2)

	viper.SetDefault("backup.max_backups", 10)

	// Источник файла
	if cfgFile := os.Getenv("CONFIG_FILE"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			viper.AddConfigPath(filepath.Join(xdg, "dialplan"))
		}
		viper.AddConfigPath("/etc/dialplan")
	}

	// Чтение файла (опционально)
	if err := viper.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, fmt.Errorf("config read error: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func validate(c *Config) error {
	if strings.TrimSpace(c.Server.Address) == "" {
		return errors.New("server.address must not be empty")
	}
	if strings.TrimSpace(c.Server.HTTPPort) == "" {
		return errors.New("server.http_port must not be empty")
	}
	if strings.TrimSpace(c.Paths.InventoryDir) == "" {
		return errors.New("paths.inventory_dir must not be empty")
	}
	if c.Asterisk.Enabled {
		if strings.TrimSpace(c.Asterisk.Username) == "" || strings.TrimSpace(c.Asterisk.Password) == "" {
			return errors.New("asterisk.username/password must be set when asterisk.enabled")
		}
	}
	return nil
}
