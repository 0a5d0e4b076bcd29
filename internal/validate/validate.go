// Package validate holds the input checks and spike detection applied before
// entry writes. Validation failures are user-correctable and reported
// inline; they are never logged as system errors.
package validate

import (
	"context"
	"fmt"

	"github.com/akshathkarthikn/footfall-tracker/internal/settings"
)

// Validator checks proposed counts against the live settings bounds.
type Validator struct {
	settings *settings.Store
}

// New constructs a Validator.
func New(store *settings.Store) *Validator {
	return &Validator{settings: store}
}

// Count validates a footfall count. Returns ok=false with a user-facing
// message on failure.
func (v *Validator) Count(ctx context.Context, count *int) (bool, string, error) {
	if count == nil {
		return false, "Count cannot be empty", nil
	}
	if *count < 0 {
		return false, "Count cannot be negative", nil
	}
	maxValue, err := v.settings.MaxFootfallValue(ctx)
	if err != nil {
		return false, "", err
	}
	if *count > maxValue {
		return false, fmt.Sprintf("Count exceeds maximum allowed value (%d)", maxValue), nil
	}
	return true, "", nil
}

// DetectSpike reports whether newCount is an abnormal jump over the previous
// hour's count. A nil or zero previous value is never a spike; the threshold
// comparison is strictly greater-than, so a change of exactly the threshold
// does not flag. Advisory only; a spike never blocks a save.
func (v *Validator) DetectSpike(ctx context.Context, newCount int, previousCount *int) (bool, float64, error) {
	if previousCount == nil || *previousCount == 0 {
		return false, 0.0, nil
	}
	threshold, err := v.settings.SpikeThresholdPercent(ctx)
	if err != nil {
		return false, 0, err
	}
	percentChange := float64(newCount-*previousCount) / float64(*previousCount) * 100
	return percentChange > float64(threshold), percentChange, nil
}

// DetectSpikeAt applies the spike rule with an explicit threshold, for
// callers that already hold the setting.
func DetectSpikeAt(newCount int, previousCount *int, thresholdPercent float64) (bool, float64) {
	if previousCount == nil || *previousCount == 0 {
		return false, 0.0
	}
	percentChange := float64(newCount-*previousCount) / float64(*previousCount) * 100
	return percentChange > thresholdPercent, percentChange
}

// FormatPercentChange renders a signed one-decimal percentage, e.g. "+12.3%".
func FormatPercentChange(change float64) string {
	return fmt.Sprintf("%+.1f%%", change)
}

// Username validates a login name.
func Username(username string) (bool, string) {
	if username == "" {
		return false, "Username cannot be empty"
	}
	if len(username) < 3 {
		return false, "Username must be at least 3 characters"
	}
	if len(username) > 50 {
		return false, "Username must be 50 characters or less"
	}
	for _, c := range username {
		isAlnum := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
		if !isAlnum && c != '_' && c != '-' {
			return false, "Username can only contain letters, numbers, underscores, and hyphens"
		}
	}
	return true, ""
}

// Password validates a password.
func Password(password string) (bool, string) {
	if password == "" {
		return false, "Password cannot be empty"
	}
	if len(password) < 4 {
		return false, "Password must be at least 4 characters"
	}
	return true, ""
}

// FloorName validates a floor display name.
func FloorName(name string) (bool, string) {
	if name == "" {
		return false, "Floor name cannot be empty"
	}
	if len(name) > 100 {
		return false, "Floor name must be 100 characters or less"
	}
	return true, ""
}
