package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mattsolo1/kettle/pkg/history"
	"github.com/mattsolo1/kettle/pkg/notify"
	"github.com/mattsolo1/kettle/pkg/service"
	"github.com/mattsolo1/kettle/pkg/settings"
	"github.com/mattsolo1/kettle/pkg/vault"
	"github.com/mattsolo1/kettle/pkg/view"
)

var (
	cfgFile  string
	vaultDir string
)

func InitConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		configDir := filepath.Join(home, ".config", "kettle")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("KETTLE")
	viper.AutomaticEnv()

	cwd, _ := os.Getwd()
	home, _ := os.UserHomeDir()
	viper.SetDefault("vault_dir", cwd)
	viper.SetDefault("data_dir", filepath.Join(home, ".local", "share", "kettle"))
	viper.SetDefault("settings_file", "")
	viper.SetDefault("editor", os.Getenv("EDITOR"))
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("desktop_notify", false)

	if vaultDir != "" {
		viper.Set("vault_dir", vaultDir)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: could not read config file: %v\n", err)
		}
	}

	level, err := logrus.ParseLevel(viper.GetString("log_level"))
	if err != nil {
		level = logrus.WarnLevel
	}
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(level)
}

// SettingsPath is where the settings record lives: settings_file if set,
// otherwise .kettle/settings.yml inside the vault.
func SettingsPath() string {
	if p := viper.GetString("settings_file"); p != "" {
		return p
	}
	return filepath.Join(viper.GetString("vault_dir"), ".kettle", "settings.yml")
}

func InitService() (*service.Service, error) {
	root, err := filepath.Abs(viper.GetString("vault_dir"))
	if err != nil {
		return nil, fmt.Errorf("resolve vault dir: %w", err)
	}
	storage, err := vault.NewFS(root)
	if err != nil {
		return nil, err
	}

	sinks := notify.Multi{notify.NewTerminal(os.Stderr)}
	if viper.GetBool("desktop_notify") {
		sinks = append(sinks, notify.NewDesktop("Kettle"))
	}

	deps := service.Deps{
		Clock:    service.SystemClock{},
		Storage:  storage,
		Viewer:   view.NewEditor(viper.GetString("editor"), storage),
		Notifier: sinks,
		Settings: settings.NewFileStore(afero.NewOsFs(), SettingsPath()),
	}

	dbPath := filepath.Join(viper.GetString("data_dir"), "index.db")
	if idx, err := history.NewIndex(dbPath); err != nil {
		logrus.WithError(err).WithField("path", dbPath).Warn("history index unavailable")
	} else {
		deps.Index = idx
	}

	return service.New(deps)
}

func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/kettle/config.yaml)")
	cmd.PersistentFlags().StringVarP(&vaultDir, "vault", "V", "", "vault directory (default is the current directory)")
}
