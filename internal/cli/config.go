package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/qrforge/qrforge/pkg/pipeline"
)

// configFileName is the user config file under the config directory.
const configFileName = "config.toml"

// fileConfig holds styling defaults read from ~/.config/qrforge/config.toml.
// Every field is optional; explicit command-line flags always win.
//
// Example file:
//
//	box_size = 12
//	border = 2
//	fill = "#1a1a2e"
//	style = "rounded"
//	logo_size = 15
type fileConfig struct {
	BoxSize  int    `toml:"box_size"`
	Border   int    `toml:"border"`
	Fill     string `toml:"fill"`
	Back     string `toml:"back"`
	Style    string `toml:"style"`
	Logo     string `toml:"logo"`
	LogoSize int    `toml:"logo_size"`

	meta toml.MetaData
}

// defaultConfigPath returns the standard config file location.
func defaultConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// loadFileConfig reads the config file at path. A missing file is not an
// error and returns nil; a malformed file is an error so typos do not get
// silently ignored.
func loadFileConfig(path string) (*fileConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return nil, err
	}
	fc.meta = meta
	return &fc, nil
}

// has reports whether the file actually defines key, distinguishing an
// explicit zero from an absent entry.
func (fc *fileConfig) has(key string) bool {
	return fc.meta.IsDefined(key)
}

// apply copies defined config values into opts, skipping any field whose
// command-line flag was set explicitly.
func (fc *fileConfig) apply(opts *pipeline.Options, flagChanged func(name string) bool) {
	if fc == nil {
		return
	}
	if fc.has("box_size") && !flagChanged("box-size") {
		opts.BoxSize = fc.BoxSize
	}
	if fc.has("border") && !flagChanged("border") {
		opts.Border = fc.Border
	}
	if fc.has("fill") && !flagChanged("fill") {
		opts.Fill = fc.Fill
	}
	if fc.has("back") && !flagChanged("back") {
		opts.Back = fc.Back
	}
	if fc.has("style") && !flagChanged("style") {
		opts.Style = fc.Style
	}
	if fc.has("logo") && !flagChanged("logo") {
		opts.Logo = fc.Logo
	}
	if fc.has("logo_size") && !flagChanged("logo-size") {
		opts.LogoSize = fc.LogoSize
	}
}
