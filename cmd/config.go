package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/bidash/internal/config"
	"github.com/derickschaefer/bidash/internal/render"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage bidash configuration",
	Long:  `Read and write bidash configuration stored in bidash.json.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a template bidash.json in the current directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultConfigFile
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (delete it first to re-initialise)", path)
		}
		if err := config.WriteFile(path, config.Template()); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Created %s\n", path)
		fmt.Fprintf(out, "  Point base_url at your backend (default %s).\n", config.DefaultBaseURL)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current resolved configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		src := "(not found)"
		if cfg.ConfigPath != "" {
			src = cfg.ConfigPath
		}
		envSrc := "(not found)"
		if cfg.EnvPath != "" {
			envSrc = cfg.EnvPath
		}

		if resolveFormat(cfg.Format) == render.FormatJSON {
			type configOut struct {
				BaseURL    string  `json:"base_url"`
				Format     string  `json:"default_format"`
				Timeout    string  `json:"timeout"`
				Rate       float64 `json:"rate"`
				Locale     string  `json:"locale"`
				ConfigFile string  `json:"config_file"`
				EnvFile    string  `json:"env_file"`
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(configOut{
				BaseURL:    cfg.BaseURL,
				Format:     cfg.Format,
				Timeout:    cfg.Timeout.String(),
				Rate:       cfg.Rate,
				Locale:     cfg.Locale,
				ConfigFile: src,
				EnvFile:    envSrc,
			})
		}

		printKVTable(cmd.OutOrStdout(), [][]string{
			{"base_url", cfg.BaseURL},
			{"default_format", cfg.Format},
			{"timeout", cfg.Timeout.String()},
			{"rate", fmt.Sprintf("%.1f req/s", cfg.Rate)},
			{"locale", cfg.Locale},
			{"config_file", src},
			{"env_file", envSrc},
		})
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value in bidash.json",
	Long: `Set one key in bidash.json, creating the file from the template if it
does not exist yet.

Keys: base_url, default_format (or format), timeout, rate, locale.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(config.DefaultConfigFile)
		if err != nil {
			return err
		}

		f := config.Template()
		if existing, err := config.ReadFile(path); err == nil {
			f = *existing
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}

		if err := f.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := config.WriteFile(path, f); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Set %s in %s\n", args[0], path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}
