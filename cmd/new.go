package cmd

import (
	"github.com/benoctopus/track/internal/track"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a new activity and select it",
	Long: `Create a new activity. The new activity becomes the selected one, which
start, add and past use when no activity is named.

Examples:
  track new reading
  track new "side project"`,
	Args: validArgs(cobra.ExactArgs(1)),
	RunE: runNew,
}

func init() {
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	out := printer(cmd)
	return svc.Update(cmd.Context(), func(j *track.Journal) error {
		activity, err := j.CreateActivity(args[0])
		if err != nil {
			return err
		}
		out.Successf("Created new activity %s", out.Activity(activity.Name))
		out.Infof("%s is now selected", out.Activity(activity.Name))
		return nil
	})
}
