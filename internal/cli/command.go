// Package cli is the command line front end: the backend server plus a
// terminal client that books parking through it.
package cli

import (
	"fmt"
	"strings"
)

const (
	CmdServe    = "serve"
	CmdHealth   = "health"
	CmdLogin    = "login"
	CmdSignup   = "signup"
	CmdLogout   = "logout"
	CmdWhoami   = "whoami"
	CmdSpots    = "spots"
	CmdSpot     = "spot"
	CmdBook     = "book"
	CmdBookings = "bookings"
	CmdCancel   = "cancel"
	CmdTicket   = "ticket"
)

var commands = []string{
	CmdServe, CmdHealth, CmdLogin, CmdSignup, CmdLogout, CmdWhoami,
	CmdSpots, CmdSpot, CmdBook, CmdBookings, CmdCancel, CmdTicket,
}

// ParseCommand splits args into a command and its arguments. No command
// means serve.
func ParseCommand(args []string) (string, []string, error) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return CmdServe, args, nil
	}
	name := strings.ToLower(args[0])
	switch name {
	case "server", "api":
		name = CmdServe
	case "register":
		name = CmdSignup
	case "me":
		name = CmdWhoami
	}
	for _, c := range commands {
		if c == name {
			return name, args[1:], nil
		}
	}
	return "", nil, fmt.Errorf("unknown command %q (want one of: %s)", args[0], strings.Join(commands, ", "))
}
