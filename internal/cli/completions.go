package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vvka-141/sqlsplit/internal/splitter"
)

// collisionPolicies contains valid --on-collision values for shell completion.
var collisionPolicies = []string{
	string(splitter.CollisionSuffix),
	string(splitter.CollisionOverwrite),
	string(splitter.CollisionError),
}

// completeCollisionPolicies provides shell completion for --on-collision values.
func completeCollisionPolicies(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var matches []string
	for _, p := range collisionPolicies {
		if strings.HasPrefix(p, toComplete) {
			matches = append(matches, p)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}

// completeSQLFiles restricts --source completion to .sql files.
func completeSQLFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"sql"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeDirectories restricts --output completion to directories.
func completeDirectories(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return nil, cobra.ShellCompDirectiveFilterDirs
}

// registerCompletions wires flag completions. Flags must already be defined.
func registerCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("on-collision", completeCollisionPolicies)
	_ = cmd.RegisterFlagCompletionFunc("source", completeSQLFiles)
	_ = cmd.RegisterFlagCompletionFunc("output", completeDirectories)
}
