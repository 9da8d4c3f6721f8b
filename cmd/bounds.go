package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/benoctopus/track/internal/display"
	"github.com/benoctopus/track/internal/timespec"
	"github.com/benoctopus/track/internal/track"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

// boundsFunc builds the range of a list or stats command once the journal is
// loaded and the current time is known
type boundsFunc func(now time.Time, loc *time.Location, j *track.Journal) (track.Range, error)

// allBounds covers every recorded session
func allBounds(time.Time, *time.Location, *track.Journal) (track.Range, error) {
	return track.All(), nil
}

// rangeCommands returns the past, since, range and on subcommands shared by
// list and stats. Each one parses its arguments and hands the bounds to run.
func rangeCommands(run func(cmd *cobra.Command, bounds boundsFunc) error) []*cobra.Command {
	var weeks, days, hours, minutes int
	past := &cobra.Command{
		Use:   "past",
		Short: "Sessions within a period before now",
		Long: `Select the period ending now and starting the given amount of time earlier.
Without any amount the period reaches back to the first session.

Examples:
  past -d 7
  past -H 3 -M 30`,
		Args: validArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			offset, err := timespec.PastUnits(weeks, days, hours, minutes)
			if err != nil {
				return usage(err)
			}
			return run(cmd, func(now time.Time, _ *time.Location, _ *track.Journal) (track.Range, error) {
				return timespec.Past(now, offset)
			})
		},
	}
	past.Flags().IntVarP(&weeks, "weeks", "w", 0, "Weeks before now")
	past.Flags().IntVarP(&days, "days", "d", 0, "Days before now")
	past.Flags().IntVarP(&hours, "hours", "H", 0, "Hours before now")
	past.Flags().IntVarP(&minutes, "minutes", "M", 0, "Minutes before now")

	since := &cobra.Command{
		Use:   "since [time]",
		Short: "Sessions from a time until now",
		Long: `Select the period from the given time until now. Without a time the period
reaches back to the first session.

Examples:
  since 09:00
  since 01/03/24
  since 01/03/24 09:00`,
		Args: validArgs(cobra.MaximumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseSpec("since", strings.Join(args, " "))
			if err != nil {
				return err
			}
			return run(cmd, func(now time.Time, loc *time.Location, _ *track.Journal) (track.Range, error) {
				return timespec.Since(start, now, loc)
			})
		},
	}

	var from, to string
	between := &cobra.Command{
		Use:   "range",
		Short: "Sessions between two times",
		Long: `Select the period between --start and --end. A missing start reaches back to
the first session; a missing end leaves the period open.

An end given as a bare date means midnight at the end of that day; an end
given as a bare time lies on the start's date.

Examples:
  range -s 01/03/24 -e 07/03/24
  range -s "05/03/24 09:00" -e 12:00`,
		Args: validArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseSpec("start", from)
			if err != nil {
				return err
			}
			end, err := parseSpec("end", to)
			if err != nil {
				return err
			}
			return run(cmd, func(now time.Time, loc *time.Location, j *track.Journal) (track.Range, error) {
				return timespec.Between(start, end, now, firstStart(j, now), loc)
			})
		},
	}
	between.Flags().StringVarP(&from, "start", "s", "", "Start of the period")
	between.Flags().StringVarP(&to, "end", "e", "", "End of the period")

	on := &cobra.Command{
		Use:   "on <dd/mm/yy>",
		Short: "Sessions on one day",
		Args:  validArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := timespec.ParseDate(args[0])
			if err != nil {
				return err
			}
			return run(cmd, func(_ time.Time, loc *time.Location, _ *track.Journal) (track.Range, error) {
				return timespec.On(date, loc)
			})
		},
	}

	return []*cobra.Command{past, since, between, on}
}

// firstStart is the start of the earliest session, or now without sessions
func firstStart(j *track.Journal, now time.Time) time.Time {
	sessions := j.Store.Sessions()
	if len(sessions) == 0 {
		return now
	}
	return sessions[0].Start
}

// checkFilter verifies that an activity filter names a known activity or one
// that still has sessions
func checkFilter(j *track.Journal, activity string) error {
	if activity == "" || j.Registry.Exists(activity) || j.Store.CountActivity(activity) > 0 {
		return nil
	}
	return eris.Wrapf(track.ErrUnknownActivity, "activity %q", activity)
}

// describeRange renders a range for headings, e.g. " from 05/03/24 09:00 to 12:00"
func describeRange(r track.Range, loc *time.Location) string {
	switch {
	case r.From != nil && r.To != nil:
		return " from " + display.FormatRange(*r.From, *r.To, loc)
	case r.From != nil:
		return " since " + r.From.In(loc).Format(display.DateTimeLayout)
	case r.To != nil:
		return " until " + r.To.In(loc).Format(display.DateTimeLayout)
	}
	return ""
}

// describeFilter renders an activity filter for headings
func describeFilter(out display.Printer, activity string) string {
	if activity == "" {
		return ""
	}
	return fmt.Sprintf(" of %s", out.Activity(activity))
}
