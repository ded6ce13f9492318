package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	intconfig "spacify/internal/config"
	"spacify/internal/domain"
	api "spacify/internal/http"
	h "spacify/internal/http/handlers"
	"spacify/internal/repositories"
	"spacify/internal/services"
	"spacify/internal/storage"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	demo, err := services.DemoAccount(DemoPassword, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("DemoAccount: %v", err)
	}
	spots := repositories.NewSpotRepository()
	hd := &h.Handler{
		Auth: services.AuthService{
			Users:    repositories.NewMemoryUserRepository(demo),
			Secret:   []byte("cli-test"),
			TokenTTL: time.Hour,
			HashCost: bcrypt.MinCost,
		},
		Bookings: services.BookingService{Store: repositories.NewMemoryBookingRepository(), Spots: spots},
		Spots:    services.SpotService{Catalog: spots},
	}
	srv := httptest.NewServer(api.NewRouter(intconfig.Env{GinMode: gin.TestMode}, hd))
	t.Cleanup(srv.Close)
	return srv
}

func newTestApp(t *testing.T, baseURL string, store storage.Store) (*App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	env := intconfig.Env{APIBaseURL: baseURL + "/api", APITimeout: 5 * time.Second, HourlyRate: 100}
	return NewApp(env, store, &out), &out
}

func run(t *testing.T, app *App, out *bytes.Buffer, cmd string, args ...string) map[string]any {
	t.Helper()
	out.Reset()
	if err := app.Run(context.Background(), cmd, args); err != nil {
		t.Fatalf("%s %v: %v", cmd, args, err)
	}
	var m map[string]any
	if err := json.Unmarshal(out.Bytes(), &m); err != nil {
		t.Fatalf("%s output %q: %v", cmd, out.String(), err)
	}
	return m
}

func TestParseCommand(t *testing.T) {
	cases := []struct {
		args []string
		cmd  string
		rest int
	}{
		{nil, CmdServe, 0},
		{[]string{"-addr", ":9000"}, CmdServe, 2},
		{[]string{"server"}, CmdServe, 0},
		{[]string{"LOGIN", "-email", "a@b.c"}, CmdLogin, 2},
		{[]string{"register"}, CmdSignup, 0},
		{[]string{"me"}, CmdWhoami, 0},
		{[]string{"ticket", "-out", "x.pdf", "id"}, CmdTicket, 3},
	}
	for _, tc := range cases {
		cmd, rest, err := ParseCommand(tc.args)
		if err != nil || cmd != tc.cmd || len(rest) != tc.rest {
			t.Fatalf("ParseCommand(%v) = %q %v %v", tc.args, cmd, rest, err)
		}
	}
	if _, _, err := ParseCommand([]string{"fly"}); err == nil {
		t.Fatalf("expected unknown command error")
	}
}

func TestBookingFlowThroughBackend(t *testing.T) {
	srv := newBackend(t)
	store := storage.NewMemoryStore()
	app, out := newTestApp(t, srv.URL, store)

	if err := app.Run(context.Background(), CmdBook, []string{"-spot", "ambience-mall"}); !domain.IsAuthRejected(err) {
		t.Fatalf("expected login required, got %v", err)
	}

	snap := run(t, app, out, CmdLogin, "-email", "user@example.com", "-password", DemoPassword)
	if snap["isAuthenticated"] != true {
		t.Fatalf("login snapshot: %v", snap)
	}

	// A fresh process restores the remembered session.
	app, out = newTestApp(t, srv.URL, store)
	who := run(t, app, out, CmdWhoami)
	if who["isAuthenticated"] != true || who["state"] != "authenticated" {
		t.Fatalf("whoami: %v", who)
	}

	date := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	res := run(t, app, out, CmdBook,
		"-spot", "ambience-mall", "-date", date, "-start", "10:30",
		"-duration", "3", "-vehicle", "dl 01 ab 1234", "-payment", "upi")
	booking, _ := res["booking"].(map[string]any)
	if booking == nil || booking["vehicleNumber"] != "DL 01 AB 1234" || booking["totalAmount"] != float64(300) {
		t.Fatalf("book: %v", res)
	}
	id, _ := booking["id"].(string)

	list := run(t, app, out, CmdBookings)
	local, _ := list["local"].([]any)
	remote, _ := list["remote"].([]any)
	if len(local) != 1 || len(remote) != 1 {
		t.Fatalf("bookings: %v", list)
	}

	pdfPath := filepath.Join(t.TempDir(), "ticket.pdf")
	tk := run(t, app, out, CmdTicket, "-out", pdfPath, id)
	data, err := os.ReadFile(pdfPath)
	if err != nil || !bytes.HasPrefix(data, []byte("%PDF")) || tk["file"] != pdfPath {
		t.Fatalf("ticket: %v %v", tk, err)
	}

	cancelled := run(t, app, out, CmdCancel, id)
	if cancelled["status"] != "cancelled" {
		t.Fatalf("cancel: %v", cancelled)
	}
	if err := app.Run(context.Background(), CmdCancel, []string{id}); !domain.IsAuthRejected(err) {
		t.Fatalf("expected second cancel to be rejected, got %v", err)
	}

	gone := run(t, app, out, CmdLogout)
	if gone["isAuthenticated"] != false {
		t.Fatalf("logout: %v", gone)
	}
	if _, ok, _ := store.Load(storage.KeyToken); ok {
		t.Fatalf("token should be cleared after logout")
	}
}

func TestSpotsCommands(t *testing.T) {
	srv := newBackend(t)
	app, out := newTestApp(t, srv.URL, storage.NewMemoryStore())

	out.Reset()
	if err := app.Run(context.Background(), CmdSpots, []string{"-max-price", "100"}); err != nil {
		t.Fatalf("spots: %v", err)
	}
	var spots []map[string]any
	if err := json.Unmarshal(out.Bytes(), &spots); err != nil {
		t.Fatalf("decode spots: %v", err)
	}
	if len(spots) != 2 {
		t.Fatalf("expected 2 spots under 100, got %d", len(spots))
	}

	detail := run(t, app, out, CmdSpot, "delhi-airport")
	if detail["reviewCount"] != float64(120) {
		t.Fatalf("spot detail: %v", detail)
	}
	if err := app.Run(context.Background(), CmdSpot, []string{"nowhere"}); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSimulatedBookingSkipsBackend(t *testing.T) {
	srv := newBackend(t)
	store := storage.NewMemoryStore()
	app, out := newTestApp(t, srv.URL, store)
	run(t, app, out, CmdLogin, "-email", "user@example.com", "-password", DemoPassword)

	date := time.Now().AddDate(0, 0, 2).Format("2006-01-02")
	run(t, app, out, CmdBook, "-simulate", "-spot", "cp-connaught", "-date", date, "-start", "09:00", "-vehicle", "HR26DK8337")

	list := run(t, app, out, CmdBookings)
	if local, _ := list["local"].([]any); len(local) != 1 {
		t.Fatalf("expected local history entry: %v", list)
	}
	if remote, _ := list["remote"].([]any); len(remote) != 0 {
		t.Fatalf("simulated booking should not reach the backend: %v", list)
	}
}

func TestOpenStoreUsesStoragePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store, closeStore, err := OpenStore(intconfig.Env{StoragePath: path})
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer closeStore()
	if err := store.Save(storage.KeyHasVisited, "true"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	again, _, err := OpenStore(intconfig.Env{StoragePath: path})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if v, ok, err := again.Load(storage.KeyHasVisited); err != nil || !ok || v != "true" {
		t.Fatalf("Load = %q %v %v", v, ok, err)
	}
}

func TestExitCode(t *testing.T) {
	cases := map[int]error{
		0: nil,
		2: domain.ValidationError{Field: "x", Msg: "bad"},
		3: domain.AuthRejectedError{Status: 401, Msg: "no"},
		4: domain.NetworkError{Op: "GET", Err: context.DeadlineExceeded},
		1: domain.InternalError{Msg: "boom"},
	}
	for want, err := range cases {
		if got := ExitCode(err); got != want {
			t.Fatalf("ExitCode(%v) = %d, want %d", err, got, want)
		}
	}
}
