package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const envPrefix = "CARDSCRIPT"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "cardscript",
		Short:         "Evaluate and inspect compiled card scripts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(configFile); err != nil {
				return err
			}
			processGlobalFlags()
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default is ./cardscript.yaml)")
	flags.Int("max-depth", 0, "maximum call depth (0 uses the default)")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.StringP("output", "o", "", "output format (json, text)")
	flags.StringArrayP("global", "g", nil, "global variable as name=value, where value is JSON or a plain string")
	flags.Bool("no-builtins", false, "do not install the builtin functions")
	flags.Bool("stdin", false, "read the compiled script from stdin")

	for _, name := range []string{"max-depth", "no-color", "log-level", "output", "no-builtins", "stdin"} {
		viper.BindPFlag(name, flags.Lookup(name))
	}
	rootCmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(outputFormatsCompletion, cobra.ShellCompDirectiveNoFileComp))

	rootCmd.AddCommand(newRunCmd(), newDisCmd(), newDepsCmd(), newVersionCmd())
	return rootCmd
}

// initConfig reads the optional config file and environment variables.
// Flags set on the command line take precedence over both.
func initConfig(configFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	viper.SetDefault("log-level", "warn")

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("cardscript")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && configFile == "" {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}
