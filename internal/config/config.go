// Package config 載入帳本的 YAML 設定
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/JoeShih716/go-bank-ledger/pkg/logger"
	"github.com/JoeShih716/go-bank-ledger/pkg/mysql"
)

// 帳戶快照的儲存後端
const (
	BackendFile  = "file"
	BackendMySQL = "mysql"
)

type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Journal JournalConfig `yaml:"journal"`
	Log     logger.Config `yaml:"log"`
	GRPC    GRPCConfig    `yaml:"grpc"`
	MySQL   mysql.Config  `yaml:"mysql"`
}

type StoreConfig struct {
	Backend  string `yaml:"backend"`   // file | mysql
	DataFile string `yaml:"data_file"` // backend=file 時的資料檔
}

type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type GRPCConfig struct {
	Addr string `yaml:"addr"`
}

// Default 回傳全部使用預設值的設定，與 config/config.yaml 一致
func Default() Config {
	cfg := Config{Journal: JournalConfig{Enabled: true}}
	cfg.setDefaults()
	return cfg
}

// Load 讀取設定檔，檔案不存在時使用預設值
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse 解析 YAML 並補全預設值
// 未寫出的欄位沿用 Default()，journal.enabled 需明確設為 false 才會關閉
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// 補全預設配置 (如果 yaml 沒寫)
func (c *Config) setDefaults() {
	if c.Store.Backend == "" {
		c.Store.Backend = BackendFile
	}
	if c.Store.DataFile == "" {
		c.Store.DataFile = "Bank.data"
	}
	if c.Journal.Path == "" {
		c.Journal.Path = "journal.log"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.GRPC.Addr == "" {
		c.GRPC.Addr = ":50051"
	}
	c.MySQL.SetDefaults()
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case BackendFile, BackendMySQL:
		return nil
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
}
