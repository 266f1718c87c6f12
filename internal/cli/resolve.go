package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/tally/internal/domain"
)

// matchID picks the one candidate input refers to. input may be:
//   - a local number as shown in the # column
//   - a full sync_id
//   - a unique sync_id prefix
func matchID(kind, input string, localIDs []int64, syncIDs []string) (string, error) {
	if n, err := strconv.ParseInt(input, 10, 64); err == nil && n > 0 {
		for i, id := range localIDs {
			if id == n {
				return syncIDs[i], nil
			}
		}
	}
	var matches []string
	for _, id := range syncIDs {
		if id == input {
			return id, nil
		}
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s %q: %w", kind, input, domain.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s %q is ambiguous: matches %d records", kind, input, len(matches))
	}
}

func resolveActivityID(ctx context.Context, app *App, input string) (string, error) {
	all, err := app.Activities.List(ctx, true)
	if err != nil {
		return "", err
	}
	localIDs := make([]int64, len(all))
	syncIDs := make([]string, len(all))
	for i, a := range all {
		localIDs[i], syncIDs[i] = a.LocalID, a.SyncID
	}
	return matchID("activity", input, localIDs, syncIDs)
}

func resolveSessionID(ctx context.Context, app *App, input string) (string, error) {
	all, err := app.Sessions.List(ctx, true)
	if err != nil {
		return "", err
	}
	localIDs := make([]int64, len(all))
	syncIDs := make([]string, len(all))
	for i, s := range all {
		localIDs[i], syncIDs[i] = s.LocalID, s.SyncID
	}
	return matchID("session", input, localIDs, syncIDs)
}

// resolveActivityIDs resolves each --activity value, keeping order.
func resolveActivityIDs(ctx context.Context, app *App, inputs []string) ([]string, error) {
	out := make([]string, 0, len(inputs))
	for _, in := range inputs {
		id, err := resolveActivityID(ctx, app, in)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// activityNames maps every sync_id, tombstones included, to its name.
func activityNames(ctx context.Context, app *App) (map[string]string, error) {
	all, err := app.Activities.List(ctx, true)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(all))
	for _, a := range all {
		names[a.SyncID] = a.Name
	}
	return names, nil
}
