package models

// SessionState is the lifecycle position of an auth session.
type SessionState string

const (
	SessionUnknown       SessionState = "unknown"
	SessionFirstVisit    SessionState = "first_visit"
	SessionChecking      SessionState = "checking"
	SessionAuthenticated SessionState = "authenticated"
	SessionAnonymous     SessionState = "anonymous"
)

// Session is a snapshot of the current authentication state.
type Session struct {
	User            *User        `json:"user"`
	IsAuthenticated bool         `json:"isAuthenticated"`
	IsFirstVisit    bool         `json:"isFirstVisit"`
	IsLoading       bool         `json:"isLoading"`
	State           SessionState `json:"state"`
}
