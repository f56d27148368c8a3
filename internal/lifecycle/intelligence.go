package lifecycle

import "fmt"

// intelligenceMessage renders the rank-dependent note shown to a shortlisted
// vendor during the final bidding round.
func intelligenceMessage(position int, premium float64) string {
	if position == 1 {
		return "Congratulations! You submitted the lowest bid and are ranked #1. " +
			"You have 48 hours to submit your final bid or keep your current offer."
	}

	premiumText := "at the same price as the lowest bid"
	if premium != 0 {
		premiumText = fmt.Sprintf("%.1f%% above the lowest bid", premium)
	}

	return fmt.Sprintf(
		"You're ranked #%d and are %s. You have 48 hours to submit your final competitive bid. "+
			"Consider your pricing carefully.", position, premiumText)
}
