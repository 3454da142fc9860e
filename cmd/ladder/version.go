package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is the current version of ladder.
// Overridden at build time via -ldflags "-X main.Version=x.y.z".
var Version = "0.3.0"

// Build metadata, also set via ldflags. When absent we fall back to the
// VCS stamps the Go toolchain embeds in module builds.
var (
	Build  = "dev"
	Commit = ""
	Branch = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if jsonOutput {
			outputJSON(map[string]string{
				"version": Version,
				"build":   Build,
				"commit":  resolveCommitHash(),
				"branch":  resolveBranch(),
			})
			return
		}
		fmt.Println(versionString())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func versionString() string {
	commit := resolveCommitHash()
	branch := resolveBranch()
	if commit != "" {
		return fmt.Sprintf("ladder version %s (%s: %s@%s)", Version, Build, shortCommit(commit), branch)
	}
	return fmt.Sprintf("ladder version %s (%s)", Version, Build)
}

// resolveCommitHash returns the ldflags commit when set, otherwise the
// vcs.revision recorded by the toolchain.
func resolveCommitHash() string {
	if Commit != "" {
		return Commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
	}
	return ""
}

func resolveBranch() string {
	if Branch != "" {
		return Branch
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.branch" {
				return setting.Value
			}
		}
	}
	return "unknown"
}

func shortCommit(commit string) string {
	if len(commit) > 12 {
		return commit[:12]
	}
	return commit
}
