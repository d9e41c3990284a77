package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "goxq"

// loadEnvironment sets flags the user did not pass on the command line from GOXQ_* environment
// variables and, if given, a configuration file. The environment wins over the file.
func loadEnvironment(cmd *cobra.Command, configFile string) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if configFile == "" {
		configFile = v.GetString("config")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", configFile, err)
		}
	}

	var errs []error
	visit := func(f *pflag.Flag) {
		if f.Changed || !v.IsSet(f.Name) {
			return
		}
		val := v.Get(f.Name)
		if list, ok := val.([]any); ok {
			for _, item := range list {
				if err := cmd.Flags().Set(f.Name, fmt.Sprint(item)); err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", f.Name, err))
				}
			}
			return
		}
		if err := cmd.Flags().Set(f.Name, fmt.Sprint(val)); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.Name, err))
		}
	}
	cmd.Flags().VisitAll(visit)
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("error mapping environment to command flags: %w", err)
	}
	return nil
}
