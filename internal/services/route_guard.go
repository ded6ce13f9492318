package services

import (
	"strings"

	"spacify/internal/domain/models"
)

const (
	LoginPath = "/auth/login"
	HomePath  = "/"
)

func isAuthPath(path string) bool {
	return strings.HasPrefix(path, "/auth")
}

// GuardRoute decides where a navigation to path should go. An empty result
// means stay. No decision is made while the session is still loading.
// Returning anonymous visitors may browse public pages; pages that need a
// user are guarded separately by RequireAuth.
func GuardRoute(s models.Session, path string) string {
	if s.IsLoading {
		return ""
	}
	if s.IsAuthenticated {
		if isAuthPath(path) {
			return HomePath
		}
		return ""
	}
	if s.IsFirstVisit && !isAuthPath(path) {
		return LoginPath
	}
	return ""
}

// RequireAuth guards a single protected page.
func RequireAuth(s models.Session, path string) string {
	if s.IsLoading || s.IsAuthenticated || isAuthPath(path) {
		return ""
	}
	return LoginPath
}
