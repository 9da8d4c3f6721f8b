package cmd

import (
	"context"
	"strings"

	"github.com/benoctopus/track/internal/lock"
	"github.com/benoctopus/track/internal/track"
	"github.com/spf13/cobra"
)

// completeActivityArg completes the first positional argument with activity names
func completeActivityArg(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeActivities(cmd, args, toComplete)
}

// completeActivities returns the activity names starting with toComplete
func completeActivities(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	svc, err := newService()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	ctx, cancel := context.WithTimeout(context.Background(), lock.DefaultTimeout)
	defer cancel()

	var names []string
	err = svc.View(ctx, func(j *track.Journal) error {
		for _, name := range j.Registry.Names() {
			if strings.HasPrefix(name, toComplete) {
				names = append(names, name)
			}
		}
		return nil
	})
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	return names, cobra.ShellCompDirectiveNoFileComp
}
