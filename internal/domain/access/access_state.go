package access

import "fitcoach-app/internal/domain/profiles"

// ComputeAccessState interprets an entitlement record for the profile page.
// Only the active flag grants access; a retained subscription id without the
// flag means the last invoice failed.
func ComputeAccessState(p *profiles.Profile) AccessState {
	if p == nil {
		return AccessLocked
	}
	if p.SubscriptionActive && p.HasSubscription() {
		return AccessFull
	}
	if p.HasSubscription() {
		return AccessPastDue
	}
	return AccessLocked
}

// Capabilities lists what the front end may unlock for a state.
func Capabilities(state AccessState) []string {
	switch state {
	case AccessFull:
		return []string{"generate_plan", "change_plan", "unsubscribe"}
	case AccessPastDue:
		return []string{"unsubscribe"}
	default:
		return []string{"subscribe"}
	}
}
