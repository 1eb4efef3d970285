package options

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ConfigOptions are the persistent flags that override configuration keys.
type ConfigOptions struct {
	ConfigFile string
}

// AddConfigArgs registers persistent flags on the root command and binds them
// to the matching keys in v.
func AddConfigArgs(cmd *cobra.Command, o *ConfigOptions, v *viper.Viper) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&o.ConfigFile, "config", "",
		Wrap80("Config file to read instead of searching for .entrybook.yaml."))
	flags.String("backend", "", "Storage backend, local or remote.")
	flags.String("path", "", "Directory for the local backend.")
	flags.String("dsn", "", "PostgreSQL connection string for the remote backend.")
	flags.String("log-level", "", "Log level, e.g. debug, info, warn.")

	_ = v.BindPFlag("backend", flags.Lookup("backend"))
	_ = v.BindPFlag("path", flags.Lookup("path"))
	_ = v.BindPFlag("dsn", flags.Lookup("dsn"))
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
}

// Apply points v at the explicit config file, if one was given.
func (o *ConfigOptions) Apply(v *viper.Viper) {
	if o.ConfigFile != "" {
		v.SetConfigFile(o.ConfigFile)
	}
}
