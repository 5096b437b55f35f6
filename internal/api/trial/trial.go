package trial

import (
	"math"
	"time"

	"github.com/FACorreiaa/parkpal/internal/types"
)

// Period is how long a new account has premium features for free.
const Period = 7 * 24 * time.Hour

// ComputeStatus derives the trial state of user at now. The trial is active up to and
// including its end instant; DaysLeft rounds partial days up.
func ComputeStatus(user *types.User, now time.Time) types.TrialStatus {
	end := user.TrialStartDate.Add(Period)
	status := types.TrialStatus{
		IsPremium:    user.PremiumUser,
		TrialEndDate: end,
	}
	if !now.After(end) {
		status.IsTrialActive = true
		status.DaysLeft = int(math.Ceil(end.Sub(now).Hours() / 24))
	}
	return status
}

// HasPremiumAccess reports whether user may use premium features at now.
func HasPremiumAccess(user *types.User, now time.Time) bool {
	s := ComputeStatus(user, now)
	return s.IsPremium || s.IsTrialActive
}
