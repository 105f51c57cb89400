package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/registrar/pkg/sqlstore"
	"github.com/mesh-intelligence/registrar/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend  string `yaml:"backend"`
	DataDir  string `yaml:"data_dir,omitempty"`
	DSN      string `yaml:"dsn,omitempty"`
	LogLevel string `yaml:"log_level,omitempty"`
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize registrar storage",
		Long:  "Create the configuration directory and config.yaml, then create the storage tables.",
		Args:  usageArgs(cobra.NoArgs),
		RunE:  a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, _ []string) error {
	if err := os.MkdirAll(a.configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	cfg, err := a.storeConfig()
	if err != nil {
		return err
	}

	configPath := filepath.Join(a.configDir, configFileExt)
	if err := writeConfigIfMissing(configPath, configFile{
		Backend:  cfg.Backend,
		DataDir:  cfg.DataDir,
		DSN:      cfg.DSN,
		LogLevel: a.config.GetString(cfgKeyLogLevel),
	}); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	backend := sqlstore.NewBackend()
	if err := backend.Attach(cfg); err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	if err := backend.Detach(); err != nil {
		return fmt.Errorf("finalize storage: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Registrar initialized successfully")
	fmt.Fprintln(out, "  config:", a.configDir)
	if cfg.Backend == types.BackendSQLite {
		fmt.Fprintln(out, "  data:  ", cfg.DataDir)
	}
	return nil
}

// writeConfigIfMissing creates config.yaml from cfg if the file does not
// exist. An existing file is left untouched.
func writeConfigIfMissing(path string, cfg configFile) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
