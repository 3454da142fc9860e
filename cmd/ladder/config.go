package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ladderhq/ladder/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and write .ladder/config.yaml",
	Long: `Reads and writes the nearest .ladder/config.yaml. Keys use dotted
names (jira.url, sync.jql). Setting a key that exists as a commented
placeholder reactivates it in place, so the scaffold written by
'ladder init' stays readable.

Credential keys can be overridden by environment variables; 'config
get' shows the effective value, environment included.`,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]

		cfg, err := config.Load()
		if err != nil {
			FatalError("%v", err)
		}
		value := cfg.GetString(key)

		if jsonOutput {
			outputJSON(map[string]string{"key": key, "value": value})
			return
		}
		if value == "" {
			fmt.Printf("%s (not set)\n", key)
			return
		}
		fmt.Println(value)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]
		value := args[1]

		if !isKnownConfigKey(key) {
			WarnError("%q is not a key ladder reads (known keys: 'ladder config list')", key)
		}

		if err := config.Set(key, value); err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(map[string]string{"key": key, "value": value})
			return
		}
		fmt.Printf("Set %s = %s (in config.yaml)\n", key, value)
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the effective configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			FatalError("%v", err)
		}

		entries := cfg.Entries()
		for i, e := range entries {
			if e[0] == "jira.token" && e[1] != "" {
				entries[i][1] = "********"
			}
		}

		if jsonOutput {
			out := make(map[string]string, len(entries))
			for _, e := range entries {
				out[e[0]] = e[1]
			}
			outputJSON(out)
			return
		}

		if cfg.Path() == "" {
			fmt.Println("No config file found (run 'ladder init')")
		} else {
			fmt.Printf("Config file: %s\n", cfg.Path())
		}
		fmt.Println()
		for _, e := range entries {
			value := e[1]
			if value == "" {
				value = "(not set)"
			}
			fmt.Printf("  %s = %s\n", e[0], value)
		}
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

func isKnownConfigKey(key string) bool {
	for _, k := range config.KnownKeys {
		if k == key {
			return true
		}
	}
	return false
}
