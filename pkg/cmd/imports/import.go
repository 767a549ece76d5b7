package imports

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pitlane-dev/pitlane/log"
	"github.com/pitlane-dev/pitlane/pkg/cmd/util"
	"github.com/pitlane-dev/pitlane/pkg/config"
	"github.com/pitlane-dev/pitlane/pkg/importer"
)

var (
	year       int
	meetingKey int
	sessionKey int
)

func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [year]",
		Short: "imports a completed session from the upstream archive",
		Long: `Without --meeting the available meetings of the year are listed.
With --meeting but without --session the meeting's sessions are listed.
With both keys the session is downloaded and stored as a local recording.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				parsed, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid year %q", args[0])
				}
				year = parsed
			}
			return runImport(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "season to look up")
	cmd.Flags().IntVar(&meetingKey, "meeting", 0, "meeting key")
	cmd.Flags().IntVar(&sessionKey, "session", 0, "session key")
	cmd.Flags().StringVar(&config.LiveURL,
		"live-url",
		"https://livetiming.formula1.com",
		"base URL of the live timing host")
	return cmd
}

func runImport(ctx context.Context) error {
	util.SetupLogger()
	imp := importer.New(config.LiveURL, config.DataDir)

	if meetingKey == 0 || sessionKey == 0 {
		return listAvailable(ctx, imp)
	}

	dir, err := imp.ImportSession(ctx, year, meetingKey, sessionKey)
	if err != nil {
		return err
	}
	fmt.Printf("Imported session to %s\n", dir)
	return nil
}

func listAvailable(ctx context.Context, imp *importer.Importer) error {
	index, err := imp.ListMeetings(ctx, year)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	if meetingKey == 0 {
		log.Info("meetings found", log.Int("year", year), log.Int("count", len(index.Meetings)))
		fmt.Fprintln(w, "KEY\tMEETING\tLOCATION")
		for _, meeting := range index.Meetings {
			fmt.Fprintf(w, "%d\t%s\t%s\n", meeting.Key, meeting.Name, meeting.Location)
		}
		return nil
	}

	for _, meeting := range index.Meetings {
		if meeting.Key != meetingKey {
			continue
		}
		fmt.Fprintln(w, "KEY\tSESSION\tTYPE\tSTART (UTC)")
		for _, session := range meeting.Sessions {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
				session.Key, session.Name, session.Type,
				session.StartDate.UTC().Format(time.RFC3339))
		}
		return nil
	}
	return fmt.Errorf("%w: meeting %d in %d", importer.ErrNotFound, meetingKey, year)
}
