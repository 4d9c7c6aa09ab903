package certgen

import (
	"time"
)

type ValidityWindow struct {
	NotBefore time.Time
	NotAfter  time.Time
}

// NewValidityWindow backdates NotBefore by policy.Backdate to tolerate clock
// skew and sets NotAfter policy.Lifetime ahead of now.
func NewValidityWindow(now time.Time, policy Policy) ValidityWindow {
	now = now.UTC()
	return ValidityWindow{
		NotBefore: now.Add(-policy.Backdate),
		NotAfter:  now.Add(policy.Lifetime),
	}
}

func (window ValidityWindow) Validate() (err error) {
	if window.NotBefore.IsZero() || window.NotAfter.IsZero() {
		err = invalidParameter("validity bounds must be set")
		return
	}
	if !window.NotBefore.Before(window.NotAfter) {
		err = invalidParameter("not before %s must be earlier than not after %s", window.NotBefore, window.NotAfter)
		return
	}
	return
}

func (window ValidityWindow) Contains(t time.Time) bool {
	return !t.Before(window.NotBefore) && !t.After(window.NotAfter)
}

func (window ValidityWindow) Duration() time.Duration {
	return window.NotAfter.Sub(window.NotBefore)
}
