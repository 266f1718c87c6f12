package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tally/internal/syncer"
)

// FormatSyncReport summarizes a finished sync.
func FormatSyncReport(r *syncer.Report) string {
	var b strings.Builder
	title := fmt.Sprintf("Synced with %q", r.Container)
	if r.Created {
		title = fmt.Sprintf("Created and synced %q", r.Container)
	}
	b.WriteString(StyleGreen.Render("✔ ") + Bold(title) + Dim(fmt.Sprintf("  (%dms)", r.Duration.Milliseconds())) + "\n")

	headers := []string{"TABLE", "KEPT LOCAL", "PUSHED", "PULLED", "IMPORTED", "SKIPPED"}
	rows := [][]string{
		mergeRow(syncer.ActivitiesTable, r.Activities),
		mergeRow(syncer.SessionsTable, r.Sessions),
	}
	b.WriteString(RenderTable(headers, rows, 1, 2, 3, 4, 5))
	if r.Activities.Skipped+r.Sessions.Skipped > 0 {
		b.WriteString(StyleYellow.Render("! some remote rows could not be read and were dropped; run with TALLY_LOG_LEVEL=warn for details") + "\n")
	}
	return b.String()
}

func mergeRow(table string, m syncer.MergeResult) []string {
	return []string{
		table,
		itoa(int64(m.LocalWins)),
		itoa(int64(m.LocalOnly)),
		itoa(int64(m.RemoteWins)),
		itoa(int64(m.Imported)),
		itoa(int64(m.Skipped)),
	}
}
