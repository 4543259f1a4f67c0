package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/superfaktura-client/internal/constants"
)

// configurableKeys are the keys accepted by "config set".
var configurableKeys = []string{
	"api-email", "api-key", "company-id", "sandbox", "timeout", "connect-timeout",
	"max-retries", "output", "log-level", "events-nats-url", "events-subject",
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and change the SuperFaktura CLI configuration file",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration with the API key masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := loadSettings()
			if settings.APIKey != "" {
				settings.APIKey = constants.MaskedValue
			}

			return render(cmd.OutOrStdout(), settings.Output, settings, func(table *tablewriter.Table) error {
				table.Header("Setting", "Value")
				_ = table.Append("API email", orNA(settings.APIEmail))
				_ = table.Append("API key", orNA(settings.APIKey))
				_ = table.Append("Company ID", orNA(settings.CompanyID))
				_ = table.Append("Sandbox", fmt.Sprintf("%t", settings.Sandbox))
				_ = table.Append("Timeout", settings.Timeout.String())
				_ = table.Append("Connect timeout", settings.ConnectTimeout.String())
				_ = table.Append("Max retries", fmt.Sprintf("%d", settings.MaxRetries))
				_ = table.Append("Config file", configFileOrNA())

				return nil
			})
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Persist a configuration value to the config file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			stored, err := normalizeConfigValue(key, value)
			if err != nil {
				return err
			}

			path, err := configFilePath()
			if err != nil {
				return err
			}

			err = writeConfigValue(path, key, stored)
			if err != nil {
				return err
			}

			viper.Set(key, stored)

			shown := value
			if key == "api-key" {
				shown = constants.MaskedValue
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s to %s in %s\n", key, shown, path)

			return nil
		},
	}
}

// normalizeConfigValue validates value for key and converts it to the type
// stored in the YAML file.
func normalizeConfigValue(key, value string) (interface{}, error) {
	if !slices.Contains(configurableKeys, key) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
	}

	switch key {
	case "sandbox":
		parsed, err := cast.ToBoolE(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", key, err)
		}

		return parsed, nil
	case "max-retries":
		parsed, err := cast.ToIntE(value)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidConfigValue, value)
		}

		return parsed, nil
	case "timeout", "connect-timeout":
		parsed, err := cast.ToDurationE(value)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidConfigValue, value)
		}

		return parsed.String(), nil
	case "output":
		if !slices.Contains([]string{constants.FormatTable, constants.FormatJSON, constants.FormatYAML}, value) {
			return nil, fmt.Errorf("%w: %s", constants.ErrUnsupportedFlag, value)
		}
	}

	return value, nil
}

func configFilePath() (string, error) {
	if used := viper.ConfigFileUsed(); used != "" {
		return used, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ConfigDirName, "config.yml"), nil
}

func configFileOrNA() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}

	return constants.NotAvailable
}

func writeConfigValue(path, key string, value interface{}) error {
	err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	values := map[string]interface{}{}

	// path is either the file viper loaded or one under the user's home dir
	// #nosec G304
	current, err := os.ReadFile(path)
	if err == nil {
		err = yaml.Unmarshal(current, &values)
		if err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if values == nil {
		values = map[string]interface{}{}
	}

	values[key] = value

	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
