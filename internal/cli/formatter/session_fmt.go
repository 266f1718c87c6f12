package formatter

import (
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/tally/internal/domain"
)

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

// FormatSessionList renders sessions as a boxed table. names maps activity
// sync_ids to display names; unknown ids are shown truncated.
func FormatSessionList(sessions []*domain.Session, names map[string]string, showDeleted bool, now time.Time) string {
	if len(sessions) == 0 {
		return Dim("No sessions.") + "\n"
	}
	headers := []string{"#", "ID", "NAME", "STARTED", "DURATION", "ACTIVITIES"}
	if showDeleted {
		headers = append(headers, "STATUS")
	}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		row := []string{
			Dim(itoa(s.LocalID)),
			TruncID(s.SyncID),
			s.Name,
			HumanTimestamp(s.StartTime, now),
			FormatDuration(s.DurationMillis()),
			activityLabels(s.ActivityIDs, names),
		}
		if showDeleted {
			row = append(row, DeletedPill(s.IsDeleted()))
		}
		rows = append(rows, row)
	}
	return RenderBox("Sessions", RenderTable(headers, rows, 0, 4))
}

// FormatSessionDetail renders every field of one session.
func FormatSessionDetail(s *domain.Session, names map[string]string) string {
	var b strings.Builder
	b.WriteString(Bold(s.Name) + "\n\n")
	writeField(&b, "Sync ID", s.SyncID)
	writeField(&b, "Start", Clock(s.StartTime))
	writeField(&b, "End", Clock(s.EndTime))
	writeField(&b, "Duration", FormatDuration(s.DurationMillis()))
	writeField(&b, "Tags", activityLabels(s.ActivityIDs, names))
	writeField(&b, "Updated", Clock(s.UpdatedAt))
	if s.DeletedAt != nil {
		writeField(&b, "Deleted", StyleRed.Render(Clock(*s.DeletedAt)))
	}
	return RenderBox("Session", strings.TrimRight(b.String(), "\n"))
}

func activityLabels(ids []string, names map[string]string) string {
	if len(ids) == 0 {
		return Dim("--")
	}
	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok {
			labels = append(labels, StylePurple.Render(name))
			continue
		}
		labels = append(labels, TruncID(id))
	}
	return strings.Join(labels, ", ")
}
