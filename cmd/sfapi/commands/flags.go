package commands

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/superfaktura-client/internal/constants"
)

// ConfigDirName is the directory under $HOME holding config.yml.
const ConfigDirName = ".sfapi"

// Settings is the resolved CLI configuration from flags, environment and
// the config file, in that order of precedence.
type Settings struct {
	APIEmail       string        `json:"api_email"       yaml:"api_email"`
	APIKey         string        `json:"api_key"         yaml:"api_key"`
	CompanyID      string        `json:"company_id"      yaml:"company_id"`
	Sandbox        bool          `json:"sandbox"         yaml:"sandbox"`
	Timeout        time.Duration `json:"timeout"         yaml:"timeout"`
	ConnectTimeout time.Duration `json:"connect_timeout" yaml:"connect_timeout"`
	MaxRetries     int           `json:"max_retries"     yaml:"max_retries"`
	Output         string        `json:"output"          yaml:"output"`
	LogLevel       string        `json:"log_level"       yaml:"log_level"`
	Verbose        bool          `json:"verbose"         yaml:"verbose"`
	EventsNATSURL  string        `json:"events_nats_url" yaml:"events_nats_url"`
	EventsSubject  string        `json:"events_subject"  yaml:"events_subject"`
}

// RegisterGlobalFlags adds the persistent flags and binds them into viper.
func RegisterGlobalFlags(root *cobra.Command) {
	flags := root.PersistentFlags()

	flags.StringP("config", "c", "", "config file (default is $HOME/.sfapi/config.yml)")
	flags.String("api-email", "", "SuperFaktura account email")
	flags.String("api-key", "", "SuperFaktura API key (prompted when missing)")
	flags.String("company-id", "", "SuperFaktura company ID")
	flags.Bool("sandbox", true, "use the sandbox environment")
	flags.Duration("timeout", constants.DefaultHTTPTimeout, "overall request timeout")
	flags.Duration("connect-timeout", constants.DefaultConnectTimeout, "connect timeout")
	flags.Int("max-retries", constants.DefaultRetryMax, "retries for 429 and 5xx responses")
	flags.StringP("output", "o", constants.FormatTable, "output format (table, json, yaml)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.BoolP("verbose", "v", false, "verbose output")
	flags.String("events-nats-url", "", "publish request events to this NATS server")
	flags.String("events-subject", constants.DefaultSubject, "NATS subject prefix for request events")

	for _, name := range []string{
		"config", "api-email", "api-key", "company-id", "sandbox", "timeout", "connect-timeout",
		"max-retries", "output", "log-level", "verbose", "events-nats-url", "events-subject",
	} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
}

func loadSettings() Settings {
	return Settings{
		APIEmail:       viper.GetString("api-email"),
		APIKey:         viper.GetString("api-key"),
		CompanyID:      viper.GetString("company-id"),
		Sandbox:        viper.GetBool("sandbox"),
		Timeout:        viper.GetDuration("timeout"),
		ConnectTimeout: viper.GetDuration("connect-timeout"),
		MaxRetries:     viper.GetInt("max-retries"),
		Output:         viper.GetString("output"),
		LogLevel:       viper.GetString("log-level"),
		Verbose:        viper.GetBool("verbose"),
		EventsNATSURL:  viper.GetString("events-nats-url"),
		EventsSubject:  viper.GetString("events-subject"),
	}
}
