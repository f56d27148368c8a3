package redis

import "fmt"

const ns = "bidsgo:v1"

func KeyEventSummary(eventID string) string {
	return fmt.Sprintf("%s:event:%s:summary", ns, eventID)
}

func KeyEventBids(eventID string) string {
	return fmt.Sprintf("%s:event:%s:bids", ns, eventID)
}

func KeyEventComparison(eventID string) string {
	return fmt.Sprintf("%s:event:%s:comparison", ns, eventID)
}

// RateLimitPrefix is the limiter key prefix for one throttled scope;
// the limiter appends the per-client suffix itself.
func RateLimitPrefix(scope string) string {
	return fmt.Sprintf("%s:rl:%s", ns, scope)
}

func ChannelBidsChanged() string {
	return ns + ":bids:changed"
}
