// Package client talks to the parking backend over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"spacify/internal/domain"
	"spacify/internal/domain/models"
	"spacify/internal/services"
	"spacify/internal/utils"
)

const DefaultTimeout = 10 * time.Second

// Client is the typed API client. Token, when set, supplies the bearer
// token for every request; OnUnauthorized runs when the server answers 401
// to a request that carried a token.
type Client struct {
	BaseURL        string
	HTTP           *http.Client
	Token          func() string
	OnUnauthorized func()
	RequestID      string
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// envelope is the common response body of the backend.
type envelope struct {
	Success     bool                   `json:"success"`
	Message     string                 `json:"message"`
	Token       string                 `json:"token"`
	User        *models.User           `json:"user"`
	Spots       []models.ParkingSpot   `json:"spots"`
	Spot        *models.ParkingSpot    `json:"spot"`
	ReviewCount int                    `json:"reviewCount"`
	Bookings    []models.BookingRecord `json:"bookings"`
	Booking     *models.BookingRecord  `json:"booking"`
}

type HealthStatus struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// SpotDetail is a listing with its review count.
type SpotDetail struct {
	Spot        models.ParkingSpot
	ReviewCount int
}

func (c *Client) Login(ctx context.Context, email, password string) (models.AuthResult, error) {
	var env envelope
	body := services.LoginInput{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, "", &env); err != nil {
		return models.AuthResult{}, err
	}
	return authResult(env)
}

func (c *Client) Register(ctx context.Context, in services.RegisterInput) (models.AuthResult, error) {
	var env envelope
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, in, "", &env); err != nil {
		return models.AuthResult{}, err
	}
	return authResult(env)
}

// Verify checks token against the server.
func (c *Client) Verify(ctx context.Context, token string) (models.User, error) {
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/auth/verify", nil, nil, token, &env); err != nil {
		return models.User{}, err
	}
	if env.User == nil {
		return models.User{}, domain.InternalError{Msg: "verify response without user"}
	}
	return *env.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, "", nil)
}

func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var h HealthStatus
	err := c.do(ctx, http.MethodGet, "/health", nil, nil, "", &h)
	return h, err
}

func (c *Client) ListSpots(ctx context.Context, filter models.SpotFilter) ([]models.ParkingSpot, error) {
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/parking-spots", filterQuery(filter), nil, "", &env); err != nil {
		return nil, err
	}
	return env.Spots, nil
}

func (c *Client) SearchSpots(ctx context.Context, query string, filter models.SpotFilter) ([]models.ParkingSpot, error) {
	q := filterQuery(filter)
	q.Set("query", query)
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/parking-spots/search", q, nil, "", &env); err != nil {
		return nil, err
	}
	return env.Spots, nil
}

func (c *Client) GetSpot(ctx context.Context, id string) (SpotDetail, error) {
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/parking-spots/"+url.PathEscape(id), nil, nil, "", &env); err != nil {
		return SpotDetail{}, err
	}
	if env.Spot == nil {
		return SpotDetail{}, domain.NotFoundError{Resource: "parking spot"}
	}
	return SpotDetail{Spot: *env.Spot, ReviewCount: env.ReviewCount}, nil
}

func (c *Client) ListBookings(ctx context.Context) ([]models.BookingRecord, error) {
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/bookings", nil, nil, "", &env); err != nil {
		return nil, err
	}
	return env.Bookings, nil
}

// CreateBooking submits rec. The record id is sent along so a retried
// submission does not create a second booking.
func (c *Client) CreateBooking(ctx context.Context, rec models.BookingRecord) (models.BookingRecord, error) {
	in := services.CreateBookingInput{BookingDraft: rec.BookingDraft, ID: rec.ID}
	var env envelope
	if err := c.do(ctx, http.MethodPost, "/bookings", nil, in, "", &env); err != nil {
		return models.BookingRecord{}, err
	}
	return bookingOf(env)
}

func (c *Client) GetBooking(ctx context.Context, id string) (models.BookingRecord, error) {
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/bookings/"+url.PathEscape(id), nil, nil, "", &env); err != nil {
		return models.BookingRecord{}, err
	}
	return bookingOf(env)
}

func (c *Client) CancelBooking(ctx context.Context, id string) (models.BookingRecord, error) {
	var env envelope
	if err := c.do(ctx, http.MethodDelete, "/bookings/"+url.PathEscape(id), nil, nil, "", &env); err != nil {
		return models.BookingRecord{}, err
	}
	return bookingOf(env)
}

// Ticket downloads the PDF e-ticket of a booking.
func (c *Client) Ticket(ctx context.Context, id string) ([]byte, error) {
	var raw []byte
	err := c.do(ctx, http.MethodGet, "/bookings/"+url.PathEscape(id)+"/ticket", nil, nil, "", &raw)
	return raw, err
}

func authResult(env envelope) (models.AuthResult, error) {
	if env.Token == "" || env.User == nil {
		return models.AuthResult{}, domain.InternalError{Msg: "auth response without token"}
	}
	return models.AuthResult{Token: env.Token, User: *env.User}, nil
}

func bookingOf(env envelope) (models.BookingRecord, error) {
	if env.Booking == nil {
		return models.BookingRecord{}, domain.InternalError{Msg: "response without booking"}
	}
	return *env.Booking, nil
}

func filterQuery(f models.SpotFilter) url.Values {
	q := url.Values{}
	if f.MaxPrice > 0 {
		q.Set("maxPrice", strconv.FormatInt(f.MaxPrice, 10))
	}
	if f.VehicleType != "" {
		q.Set("vehicleType", string(f.VehicleType))
	}
	for _, feat := range f.Features {
		q.Add("features", feat)
	}
	if f.Query != "" {
		q.Set("query", f.Query)
	}
	return q
}

// credentialPaths authenticate the caller themselves and never carry the
// session's bearer token.
var credentialPaths = map[string]bool{
	"/auth/login":    true,
	"/auth/register": true,
}

// do sends one request. token overrides the Token source when non-empty.
// out may be *[]byte for a raw body or any JSON target.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, token string, out any) error {
	target := c.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.RequestID != "" {
		req.Header.Set("X-Request-ID", c.RequestID)
	}
	if token == "" && c.Token != nil && !credentialPaths[path] {
		token = c.Token()
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		utils.LogError(c.RequestID, "api", strings.ToLower(method), path, err)
		return domain.NetworkError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.NetworkError{Op: method + " " + path, Err: err}
	}

	if resp.StatusCode >= 400 {
		if resp.StatusCode == http.StatusUnauthorized && token != "" && c.OnUnauthorized != nil {
			c.OnUnauthorized()
		}
		return statusError(resp.StatusCode, raw)
	}

	switch dst := out.(type) {
	case nil:
		return nil
	case *[]byte:
		*dst = raw
		return nil
	default:
		if len(raw) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return domain.InternalError{Msg: "invalid response from server", Err: err}
		}
		return nil
	}
}

func statusError(status int, raw []byte) error {
	var env envelope
	_ = json.Unmarshal(raw, &env)
	msg := strings.TrimSpace(env.Message)
	switch {
	case status == http.StatusNotFound:
		return domain.NotFoundError{Resource: "resource", Err: errors.New(msg)}
	case status >= 500:
		if msg == "" {
			msg = "Internal server error"
		}
		return domain.InternalError{Msg: msg}
	default:
		if msg == "" {
			msg = http.StatusText(status)
		}
		return domain.AuthRejectedError{Status: status, Msg: msg}
	}
}
