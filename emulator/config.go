package emulator

import (
	"github.com/BurntSushi/toml"
)

// Config is the emulator configuration, as read from a TOML file:
//
//	memory_limit = 65536
//	numeric = true
//	verbose = false
//	language = "en-US"
//
//	[predefine]
//	BUFFER = "1000"
type Config struct {
	MemoryLimit int               `toml:"memory_limit"` // Maximum memory cells, 0 for the default.
	Numeric     bool              `toml:"numeric"`      // Write output as decimal lines.
	Verbose     bool              `toml:"verbose"`      // Trace execution.
	Language    string            `toml:"language"`     // Message language tag.
	Predefine   map[string]string `toml:"predefine"`    // Assembler equates.
}

// LoadConfig reads a TOML configuration file.
func LoadConfig(path string) (cfg *Config, err error) {
	cfg = &Config{}
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		cfg = nil
		return
	}

	err = checkUndecoded(meta)
	if err != nil {
		cfg = nil
	}
	return
}

// ParseConfig reads TOML configuration text.
func ParseConfig(text string) (cfg *Config, err error) {
	cfg = &Config{}
	meta, err := toml.Decode(text, cfg)
	if err != nil {
		cfg = nil
		return
	}

	err = checkUndecoded(meta)
	if err != nil {
		cfg = nil
	}
	return
}

func checkUndecoded(meta toml.MetaData) (err error) {
	keys := meta.Undecoded()
	if len(keys) > 0 {
		err = ErrConfigKey(keys[0].String())
	}
	return
}
