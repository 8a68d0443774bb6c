package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "todo.db"
	DefaultDataDir        = "slots"
	DefaultSlot           = "my_todos"
	EnvConfigPath         = "DAYPLAN_CONFIG"
	appDirName            = "dayplan"
)

type Keymap struct {
	Quit      string `toml:"quit"`
	Add       string `toml:"add"`
	Up        string `toml:"up"`
	Down      string `toml:"down"`
	Left      string `toml:"left"`
	Right     string `toml:"right"`
	Toggle    string `toml:"toggle"`
	Delete    string `toml:"delete"`
	Confirm   string `toml:"confirm"`
	Cancel    string `toml:"cancel"`
	PrevMonth string `toml:"prev_month"`
	NextMonth string `toml:"next_month"`
	Today     string `toml:"today"`
	Focus     string `toml:"focus"`
}

type Storage struct {
	Backend string `toml:"backend"`
	DBPath  string `toml:"db_path"`
	DataDir string `toml:"data_dir"`
	Slot    string `toml:"slot"`
}

type Log struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type Config struct {
	Storage Storage `toml:"storage"`
	Log     Log     `toml:"log"`
	Keys    Keymap  `toml:"keys"`
}

// ResolveConfigPath picks the config file: an explicit path wins, then
// $DAYPLAN_CONFIG, then the user config directory.
func ResolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, appDirName, DefaultConfigFileName)
}

func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(filepath.Dir(path)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Storage.DBPath == "" {
		cfg.Storage.DBPath = DefaultDBName
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = DefaultDataDir
	}
	if strings.TrimSpace(cfg.Storage.Slot) == "" {
		cfg.Storage.Slot = DefaultSlot
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "sqlite"
	}
	return cfg.resolve(filepath.Dir(path)), nil
}

// resolve makes relative file locations relative to the config directory.
func (c Config) resolve(dir string) Config {
	c.Storage.DBPath = resolvePath(dir, c.Storage.DBPath)
	c.Storage.DataDir = resolvePath(dir, c.Storage.DataDir)
	if c.Log.File != "" {
		c.Log.File = resolvePath(dir, c.Log.File)
	}
	return c
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) || strings.HasPrefix(p, "file:") {
		return p
	}
	return filepath.Join(dir, p)
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func Default() Config {
	return Config{
		Storage: Storage{
			Backend: "sqlite",
			DBPath:  DefaultDBName,
			DataDir: DefaultDataDir,
			Slot:    DefaultSlot,
		},
		Log: Log{
			Level: "info",
			File:  "dayplan.log",
		},
		Keys: Keymap{
			Quit:      "q",
			Add:       "a",
			Up:        "k",
			Down:      "j",
			Left:      "h",
			Right:     "l",
			Toggle:    " ",
			Delete:    "d",
			Confirm:   "enter",
			Cancel:    "esc",
			PrevMonth: "[",
			NextMonth: "]",
			Today:     "t",
			Focus:     "tab",
		},
	}
}
