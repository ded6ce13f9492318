package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"spacify/internal/client"
	intconfig "spacify/internal/config"
	"spacify/internal/domain"
	"spacify/internal/domain/models"
	"spacify/internal/repositories"
	"spacify/internal/services"
	"spacify/internal/storage"
	"spacify/internal/utils"
)

// App runs client commands against the backend, keeping the session and
// booking history in a durable store.
type App struct {
	Env     intconfig.Env
	Store   storage.Store
	API     *client.Client
	Session *services.AuthSession
	History *services.BookingHistory
	Out     io.Writer
	Now     func() time.Time
}

// NewApp wires the client, the session and the history onto store.
func NewApp(env intconfig.Env, store storage.Store, out io.Writer) *App {
	api := client.New(env.APIBaseURL, env.APITimeout)
	session := services.NewAuthSession(api, store)
	api.Token = session.Token
	api.OnUnauthorized = session.Invalidate
	return &App{
		Env:     env,
		Store:   store,
		API:     api,
		Session: session,
		History: services.NewBookingHistory(store),
		Out:     out,
		Now:     time.Now,
	}
}

// OpenStore picks the durable store from the environment: STORAGE_PATH,
// then REDIS_URL, then MYSQL_DSN, then a file in the user config dir.
func OpenStore(env intconfig.Env) (storage.Store, func(), error) {
	noop := func() {}
	switch {
	case env.StoragePath != "":
		fs, err := storage.OpenFileStore(env.StoragePath)
		return fs, noop, err
	case env.RedisURL != "":
		rc, err := repositories.NewRedisClient(env.RedisURL)
		if err != nil {
			return nil, noop, err
		}
		return repositories.RedisStore{Client: rc, Prefix: "spacify:" + deviceScope()}, func() { _ = rc.Close() }, nil
	case env.MySQLDSN != "":
		db, err := intconfig.ConnectDB(env.MySQLDSN)
		if err != nil {
			return nil, noop, err
		}
		repo := repositories.KVRepository{DB: db, Scope: deviceScope()}
		if err := repo.EnsureTable(); err != nil {
			intconfig.CloseDB()
			return nil, noop, fmt.Errorf("ensure client_storage: %w", err)
		}
		return repo, intconfig.CloseDB, nil
	default:
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = os.TempDir()
		}
		fs, err := storage.OpenFileStore(filepath.Join(dir, "spacify", "state.json"))
		return fs, noop, err
	}
}

func deviceScope() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "default"
	}
	return host
}

// Run executes one client command.
func (a *App) Run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case CmdHealth:
		h, err := a.API.Health(ctx)
		if err != nil {
			return err
		}
		return a.print(h)
	case CmdLogin:
		return a.login(ctx, args)
	case CmdSignup:
		return a.signup(ctx, args)
	case CmdLogout:
		a.Session.Init(ctx)
		if err := a.Session.Logout(ctx); err != nil {
			return err
		}
		return a.print(a.Session.Snapshot())
	case CmdWhoami:
		a.Session.Init(ctx)
		return a.print(a.Session.Snapshot())
	case CmdSpots:
		return a.spots(ctx, args)
	case CmdSpot:
		return a.spot(ctx, args)
	case CmdBook:
		return a.book(ctx, args)
	case CmdBookings:
		return a.bookings(ctx)
	case CmdCancel:
		return a.cancel(ctx, args)
	case CmdTicket:
		return a.ticket(ctx, args)
	default:
		return fmt.Errorf("command %q is not a client command", cmd)
	}
}

func (a *App) print(v any) error {
	enc := json.NewEncoder(a.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func (a *App) login(ctx context.Context, args []string) error {
	fs := newFlags(CmdLogin)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	remember := fs.Bool("remember", true, "keep the session across runs")
	if err := fs.Parse(args); err != nil {
		return domain.ValidationError{Field: "args", Msg: err.Error()}
	}
	a.Session.Init(ctx)
	if err := a.Session.Login(ctx, *email, *password, *remember); err != nil {
		return err
	}
	return a.print(a.Session.Snapshot())
}

func (a *App) signup(ctx context.Context, args []string) error {
	fs := newFlags(CmdSignup)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "account email")
	phone := fs.String("phone", "", "phone number")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return domain.ValidationError{Field: "args", Msg: err.Error()}
	}
	a.Session.Init(ctx)
	if err := a.Session.Signup(ctx, *name, *email, *phone, *password); err != nil {
		return err
	}
	return a.print(a.Session.Snapshot())
}

func (a *App) spots(ctx context.Context, args []string) error {
	fs := newFlags(CmdSpots)
	maxPrice := fs.Int64("max-price", 0, "maximum price per hour")
	features := fs.String("features", "", "comma separated features")
	vehicle := fs.String("vehicle-type", "", "car, bike, van or scooter")
	query := fs.String("query", "", "search text")
	if err := fs.Parse(args); err != nil {
		return domain.ValidationError{Field: "args", Msg: err.Error()}
	}
	filter := models.SpotFilter{
		MaxPrice:    *maxPrice,
		VehicleType: models.VehicleType(*vehicle),
		Features:    utils.SplitList(*features),
	}
	var (
		list []models.ParkingSpot
		err  error
	)
	if q := strings.TrimSpace(*query); q != "" {
		list, err = a.API.SearchSpots(ctx, q, filter)
	} else {
		list, err = a.API.ListSpots(ctx, filter)
	}
	if err != nil {
		return err
	}
	return a.print(list)
}

func (a *App) spot(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return domain.ValidationError{Field: "id", Msg: "usage: spot <id>"}
	}
	detail, err := a.API.GetSpot(ctx, args[0])
	if err != nil {
		return err
	}
	return a.print(map[string]any{"spot": detail.Spot, "reviewCount": detail.ReviewCount})
}

// requireUser restores the session and refuses to continue without a user.
func (a *App) requireUser(ctx context.Context) (models.User, error) {
	a.Session.Init(ctx)
	snap := a.Session.Snapshot()
	if redirect := services.RequireAuth(snap, "/booking"); redirect != "" || snap.User == nil {
		return models.User{}, domain.AuthRejectedError{Status: 401, Msg: "Please log in first"}
	}
	return *snap.User, nil
}

func (a *App) book(ctx context.Context, args []string) error {
	fs := newFlags(CmdBook)
	spotID := fs.String("spot", "", "parking spot id")
	date := fs.String("date", "", "date, YYYY-MM-DD")
	start := fs.String("start", "", "start time, HH:MM")
	duration := fs.Int("duration", models.DefaultDurationHours, "hours")
	vehicleType := fs.String("vehicle-type", string(models.VehicleCar), "car, bike, van or scooter")
	vehicle := fs.String("vehicle", "", "registration number")
	payment := fs.String("payment", string(models.PaymentCard), "card, upi or wallet")
	simulate := fs.Bool("simulate", false, "use the simulated gateway instead of the backend")
	if err := fs.Parse(args); err != nil {
		return domain.ValidationError{Field: "args", Msg: err.Error()}
	}

	user, err := a.requireUser(ctx)
	if err != nil {
		return err
	}

	var submitter services.Submitter = services.RemoteSubmitter{API: a.API}
	if *simulate {
		submitter = services.SimulatedGateway{Delay: a.Env.SubmitDelay}
	}
	w := services.NewBookingWizard(services.WizardConfig{
		UserEmail:  user.Email,
		SpotID:     *spotID,
		HourlyRate: a.Env.HourlyRate,
		Submitter:  submitter,
		History:    a.History,
		Now:        a.Now,
	})
	w.SetDate(*date)
	w.SetStartTime(*start)
	w.SetDuration(*duration)
	w.SetVehicleType(models.VehicleType(*vehicleType))
	w.SetVehicleNumber(*vehicle)
	w.SetPaymentMethod(models.PaymentMethod(*payment))

	for w.Step() != services.StepComplete {
		if err := w.Advance(ctx); err != nil {
			return err
		}
	}
	rec, _ := w.Record()
	return a.print(map[string]any{
		"booking":    rec,
		"total":      utils.FormatRupee(rec.TotalAmount),
		"ticketCode": services.TicketCode(rec),
	})
}

func (a *App) bookings(ctx context.Context) error {
	user, err := a.requireUser(ctx)
	if err != nil {
		return err
	}
	remote, err := a.API.ListBookings(ctx)
	if err != nil && !domain.IsNetwork(err) {
		return err
	}
	local, herr := a.History.ListForUser(user.Email)
	if herr != nil {
		return herr
	}
	out := map[string]any{"local": local}
	if err == nil {
		out["remote"] = remote
	} else {
		out["remoteError"] = err.Error()
	}
	return a.print(out)
}

func (a *App) cancel(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return domain.ValidationError{Field: "id", Msg: "usage: cancel <booking-id>"}
	}
	if _, err := a.requireUser(ctx); err != nil {
		return err
	}
	rec, err := a.API.CancelBooking(ctx, args[0])
	if err != nil {
		return err
	}
	return a.print(rec)
}

func (a *App) ticket(ctx context.Context, args []string) error {
	fs := newFlags(CmdTicket)
	out := fs.String("out", "", "output file, default ETICKET_<id>.pdf")
	if err := fs.Parse(args); err != nil {
		return domain.ValidationError{Field: "args", Msg: err.Error()}
	}
	if fs.NArg() != 1 {
		return domain.ValidationError{Field: "id", Msg: "usage: ticket [-out file] <booking-id>"}
	}
	if _, err := a.requireUser(ctx); err != nil {
		return err
	}
	id := fs.Arg(0)
	pdf, err := a.API.Ticket(ctx, id)
	if err != nil {
		return err
	}
	path := *out
	if path == "" {
		path = "ETICKET_" + id + ".pdf"
	}
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return fmt.Errorf("write ticket: %w", err)
	}
	return a.print(map[string]any{"file": path, "bytes": len(pdf)})
}

// ExitCode maps an error to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case domain.IsValidation(err):
		return 2
	case domain.IsAuthRejected(err):
		return 3
	case domain.IsNetwork(err):
		return 4
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return 130
	default:
		return 1
	}
}
