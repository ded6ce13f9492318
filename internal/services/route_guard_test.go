package services

import (
	"testing"

	"spacify/internal/domain/models"
)

func TestGuardRoute(t *testing.T) {
	loading := models.Session{IsLoading: true}
	first := models.Session{IsFirstVisit: true, State: models.SessionAnonymous}
	returning := models.Session{State: models.SessionAnonymous}
	authed := models.Session{IsAuthenticated: true, State: models.SessionAuthenticated, User: &demoUser}

	cases := []struct {
		name    string
		session models.Session
		path    string
		want    string
	}{
		{"loading waits", loading, "/parking", ""},
		{"first visit goes to login", first, "/parking", LoginPath},
		{"first visit may stay on auth", first, "/auth/signup", ""},
		{"returning visitor browses", returning, "/parking", ""},
		{"authenticated leaves auth pages", authed, "/auth/login", HomePath},
		{"authenticated stays", authed, "/profile", ""},
	}
	for _, tc := range cases {
		if got := GuardRoute(tc.session, tc.path); got != tc.want {
			t.Errorf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}

func TestRequireAuth(t *testing.T) {
	if got := RequireAuth(models.Session{State: models.SessionAnonymous}, "/booking"); got != LoginPath {
		t.Fatalf("anonymous user should be sent to login, got %q", got)
	}
	if got := RequireAuth(models.Session{IsAuthenticated: true}, "/booking"); got != "" {
		t.Fatalf("authenticated user should stay, got %q", got)
	}
	if got := RequireAuth(models.Session{IsLoading: true}, "/booking"); got != "" {
		t.Fatalf("no decision while loading, got %q", got)
	}
}
