package chat

import (
	"fmt"
	"time"
)

// TimeAgo maps an absolute timestamp to the coarse relative label shown next
// to each sidebar entry. Pure: callers pass now so one aggregation pass
// shares a single reference instant, and nothing is cached between renders.
// Every tier floors, never rounds.
func TimeAgo(ts, now time.Time) string {
	diff := now.Sub(ts)
	minutes := int(diff.Minutes())
	hours := int(diff.Hours())
	days := hours / 24
	weeks := days / 7

	switch {
	case minutes < 1:
		return "Just now"
	case minutes < 60:
		return fmt.Sprintf("%d minutes ago", minutes)
	case hours < 24:
		return fmt.Sprintf("Last message %d hours ago", hours)
	case days < 7:
		return fmt.Sprintf("Last message %d days ago", days)
	case weeks < 4:
		// TODO: weeks/weeks always collapses to 1; decide whether this tier
		// should show the real week count before touching the label.
		return fmt.Sprintf("Last message %d weeks ago", weeks/weeks)
	default:
		return ts.Format("1/2/2006")
	}
}
