package types

import "time"

// Toast represents a notification message
type Toast struct {
	// ID lets a result replace the loading toast of the same operation
	ID      string
	Level   ToastLevel
	Message string
	Expires time.Time // zero for loading toasts, which stay until replaced
}

// ToastLevel indicates the severity of a toast
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastWarning
	ToastError
	ToastLoading
)

// Expired reports whether the toast should be dropped at now
func (t Toast) Expired(now time.Time) bool {
	return !t.Expires.IsZero() && now.After(t.Expires)
}

// Toasts is the visible notification stack
type Toasts []Toast

// Push adds a toast, replacing any toast with the same non-empty ID
func (ts Toasts) Push(t Toast) Toasts {
	out := make(Toasts, 0, len(ts)+1)
	for _, existing := range ts {
		if t.ID != "" && existing.ID == t.ID {
			continue
		}
		out = append(out, existing)
	}
	return append(out, t)
}

// Resolve removes the toast with the given ID
func (ts Toasts) Resolve(id string) Toasts {
	out := make(Toasts, 0, len(ts))
	for _, t := range ts {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

// Prune drops expired toasts
func (ts Toasts) Prune(now time.Time) Toasts {
	out := make(Toasts, 0, len(ts))
	for _, t := range ts {
		if !t.Expired(now) {
			out = append(out, t)
		}
	}
	return out
}
