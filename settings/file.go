package settings

import (
	"fmt"

	"github.com/kbukum/whispering/config"
)

// fileConfig is the document shape read by Load.
type fileConfig struct {
	Transcription Config `mapstructure:"transcription"`
}

// FileSource is a Store fed from config.yml, .env and the environment.
type FileSource struct {
	*Store
	serviceName string
	opts        []config.LoaderOption
}

// Load reads the "transcription" section for serviceName using the config
// loader's search paths.
func Load(serviceName string, opts ...config.LoaderOption) (*FileSource, error) {
	fs := &FileSource{Store: &Store{}, serviceName: serviceName, opts: opts}
	if err := fs.Reload(); err != nil {
		return nil, err
	}
	return fs, nil
}

// Reload re-reads the configuration and swaps the snapshot. On error the
// previous snapshot stays in place.
func (f *FileSource) Reload() error {
	cfg, err := loadConfig(f.serviceName, f.opts...)
	if err != nil {
		return err
	}
	f.Set(cfg.Snapshot())
	return nil
}

func loadConfig(serviceName string, opts ...config.LoaderOption) (Config, error) {
	var doc fileConfig
	if err := config.LoadConfig(serviceName, &doc, opts...); err != nil {
		return Config{}, fmt.Errorf("load settings: %w", err)
	}
	doc.Transcription.ApplyDefaults()
	if err := doc.Transcription.Validate(); err != nil {
		return Config{}, err
	}
	return doc.Transcription, nil
}
