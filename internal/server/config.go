package server

import (
	"flag"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable the dispatcher, admin surface, and monitor
// need. Defaults match the fixed constants the original C server hardcoded;
// the YAML/flag layer exists so a deployment can override them without a
// rebuild. MaxTables, MaxIndexes and MaxTablePages are loaded and bound to
// flags but nothing reads them: the catalog and pager use their own
// compile-time constants, so overriding these three has no effect.
type Config struct {
	ListenAddr    string `yaml:"listen_addr"`
	AdminAddr     string `yaml:"admin_addr"`
	DBPath        string `yaml:"db_path"`
	MaxTables     int    `yaml:"max_tables"`
	MaxIndexes    int    `yaml:"max_indexes"`
	MaxTablePages int    `yaml:"max_table_pages"`
	WorkerCount   int    `yaml:"worker_count"`
	QueueSize     int    `yaml:"queue_size"`
}

// DefaultConfig mirrors the fixed bounds the rest of this module assumes
// (100 table slots, 20 index slots, a 100-page pager cache, 4 workers, a
// 256-slot connection ring).
func DefaultConfig() Config {
	return Config{
		ListenAddr:    ":9000",
		AdminAddr:     ":9091",
		DBPath:        "slotdbd.db",
		MaxTables:     100,
		MaxIndexes:    20,
		MaxTablePages: 100,
		WorkerCount:   4,
		QueueSize:     256,
	}
}

// LoadConfig reads a YAML config file over the defaults. A missing path is
// not an error: the caller gets DefaultConfig() back.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// BindFlags registers flags of the same name as the YAML fields against fs,
// so a flag passed on the command line overrides whatever the config file
// (or the defaults) set.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.ListenAddr, "listen_addr", c.ListenAddr, "SQL wire protocol listen address")
	fs.StringVar(&c.AdminAddr, "admin_addr", c.AdminAddr, "admin gRPC listen address")
	fs.StringVar(&c.DBPath, "db_path", c.DBPath, "path to the database file")
	fs.IntVar(&c.MaxTables, "max_tables", c.MaxTables, "catalog table slot limit")
	fs.IntVar(&c.MaxIndexes, "max_indexes", c.MaxIndexes, "catalog index slot limit")
	fs.IntVar(&c.MaxTablePages, "max_table_pages", c.MaxTablePages, "pager cache page limit")
	fs.IntVar(&c.WorkerCount, "worker_count", c.WorkerCount, "dispatcher worker goroutine count")
	fs.IntVar(&c.QueueSize, "queue_size", c.QueueSize, "dispatcher connection ring size")
}
