package formatter

import (
	"strings"

	"github.com/alexanderramin/tally/internal/domain"
)

// FormatActivityList renders activities as a boxed table. Tombstones get a
// status column when showDeleted is set.
func FormatActivityList(activities []*domain.Activity, showDeleted bool) string {
	if len(activities) == 0 {
		return Dim("No activities.") + "\n"
	}
	headers := []string{"#", "ID", "NAME", "GOAL", "SCALE", "COLOR"}
	if showDeleted {
		headers = append(headers, "STATUS")
	}
	rows := make([][]string, 0, len(activities))
	for _, a := range activities {
		row := []string{
			Dim(itoa(a.LocalID)),
			TruncID(a.SyncID),
			a.Name,
			FormatGoal(a.Goal),
			ScaleBadge(a.GoalScale),
			Swatch(a.Color),
		}
		if showDeleted {
			row = append(row, DeletedPill(a.IsDeleted()))
		}
		rows = append(rows, row)
	}
	return RenderBox("Activities", RenderTable(headers, rows, 0, 3))
}

// FormatActivityDetail renders every field of one activity.
func FormatActivityDetail(a *domain.Activity) string {
	var b strings.Builder
	b.WriteString(Bold(a.Name) + "\n\n")
	writeField(&b, "Sync ID", a.SyncID)
	writeField(&b, "Goal", FormatGoal(a.Goal)+" "+ScaleBadge(a.GoalScale))
	writeField(&b, "Color", Swatch(a.Color))
	writeField(&b, "Created", Clock(a.CreatedAt))
	writeField(&b, "Updated", Clock(a.UpdatedAt))
	if a.DeletedAt != nil {
		writeField(&b, "Deleted", StyleRed.Render(Clock(*a.DeletedAt)))
	}
	return RenderBox("Activity", strings.TrimRight(b.String(), "\n"))
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString(Dim(padRight(label, 9)))
	b.WriteString(value)
	b.WriteString("\n")
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s + " "
	}
	return s + strings.Repeat(" ", n-len(s))
}
