package cmd

import (
	"github.com/benoctopus/track/internal/track"
	"github.com/spf13/cobra"
)

var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the selected activity",
	Args:  validArgs(cobra.NoArgs),
	RunE:  runCurrent,
}

func init() {
	rootCmd.AddCommand(currentCmd)
}

func runCurrent(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	out := printer(cmd)
	return svc.View(cmd.Context(), func(j *track.Journal) error {
		if name, ok := j.Registry.Selected(); ok {
			out.Printf("%s is selected\n", out.Activity(name))
		} else {
			out.Println("There is no activity currently selected")
		}
		return nil
	})
}
