package contract

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"calc-harness/internal/reqres"
)

// API is the part of the reqres client the cases exercise.
type API interface {
	GetUser(ctx context.Context, id int) (*reqres.SingleUserResponse, error)
	Register(ctx context.Context, req reqres.RegisterRequest) (*reqres.RegisterResponse, error)
	Login(ctx context.Context, req reqres.LoginRequest) (*reqres.LoginResponse, error)
	UpdateUser(ctx context.Context, id int, req reqres.UpdateUserRequest) (*reqres.UpdateUserResponse, error)
}

// Case is one independent contract check.
type Case struct {
	Group string
	Name  string
	Run   func(ctx context.Context, api API, f Fixtures) error
}

// Title is "Group / Name".
func (c Case) Title() string {
	return c.Group + " / " + c.Name
}

// MismatchError lists every field that differed from the fixture.
type MismatchError struct {
	Fields []string
}

func (e *MismatchError) Error() string {
	return "mismatch: " + strings.Join(e.Fields, "; ")
}

type expectations []string

func (e *expectations) equal(field string, want, got any) {
	if want != got {
		*e = append(*e, fmt.Sprintf("%s: want %v, got %v", field, want, got))
	}
}

func (e *expectations) check(field string, ok bool) {
	if !ok {
		*e = append(*e, field)
	}
}

func (e expectations) err() error {
	if len(e) == 0 {
		return nil
	}
	return &MismatchError{Fields: e}
}

// expectAPIError checks that err is an *reqres.APIError with the given status
// and, when msg is non-empty, the given error message.
func expectAPIError(err error, status int, msg string) error {
	if err == nil {
		return fmt.Errorf("expected %d error but got success", status)
	}
	apiErr, ok := reqres.AsAPIError(err)
	if !ok {
		return fmt.Errorf("expected %d response: %w", status, err)
	}

	var e expectations
	e.equal("status", status, apiErr.StatusCode)
	if msg != "" {
		e.equal("error", msg, apiErr.Message)
	}
	return e.err()
}

// Cases returns the suite in declaration order.
func Cases() []Case {
	return []Case{
		{Group: "GET single user", Name: "returns the expected user", Run: getUser},
		{Group: "GET single user", Name: "returns 404 for a missing user", Run: getMissingUser},
		{Group: "POST register", Name: "registers successfully", Run: register},
		{Group: "POST register", Name: "fails without password", Run: registerWithoutPassword},
		{Group: "POST login", Name: "logs in successfully", Run: login},
		{Group: "POST login", Name: "fails without password", Run: loginWithoutPassword},
		{Group: "PATCH update user", Name: "echoes the update", Run: updateUser},
	}
}

func getUser(ctx context.Context, api API, f Fixtures) error {
	resp, err := api.GetUser(ctx, f.User.ID)
	if err != nil {
		return err
	}

	var e expectations
	e.equal("data.id", f.User.ID, resp.Data.ID)
	e.equal("data.email", f.User.Email, resp.Data.Email)
	e.equal("data.first_name", f.User.FirstName, resp.Data.FirstName)
	e.equal("data.last_name", f.User.LastName, resp.Data.LastName)
	e.equal("data.avatar", f.User.Avatar, resp.Data.Avatar)
	e.equal("support.url", f.Support.URL, resp.Support.URL)
	e.equal("support.text", f.Support.Text, resp.Support.Text)
	// Catches fields added to the records that the per-field checks miss.
	e.equal("body", reqres.SingleUserResponse{Data: f.User, Support: f.Support}, *resp)
	return e.err()
}

func getMissingUser(ctx context.Context, api API, f Fixtures) error {
	_, err := api.GetUser(ctx, f.MissingUserID)
	if errors.Is(err, reqres.ErrNotFound) {
		return nil
	}
	return expectAPIError(err, http.StatusNotFound, "")
}

func register(ctx context.Context, api API, f Fixtures) error {
	resp, err := api.Register(ctx, reqres.RegisterRequest(f.Register))
	if err != nil {
		return err
	}

	var e expectations
	e.equal("id", f.RegisterID, resp.ID)
	e.equal("token", f.Token, resp.Token)
	return e.err()
}

func registerWithoutPassword(ctx context.Context, api API, f Fixtures) error {
	_, err := api.Register(ctx, reqres.RegisterRequest{Email: f.RegisterNoPassword.Email})
	return expectAPIError(err, http.StatusBadRequest, reqres.MsgMissingPassword)
}

func login(ctx context.Context, api API, f Fixtures) error {
	resp, err := api.Login(ctx, reqres.LoginRequest(f.Login))
	if err != nil {
		return err
	}

	var e expectations
	e.equal("token", f.Token, resp.Token)
	return e.err()
}

func loginWithoutPassword(ctx context.Context, api API, f Fixtures) error {
	_, err := api.Login(ctx, reqres.LoginRequest{Email: f.LoginNoPassword.Email})
	return expectAPIError(err, http.StatusBadRequest, reqres.MsgMissingPassword)
}

func updateUser(ctx context.Context, api API, f Fixtures) error {
	resp, err := api.UpdateUser(ctx, f.UpdateUserID, reqres.UpdateUserRequest{
		Name: reqres.Some(f.UpdateName),
		Job:  reqres.Some(f.UpdateJob),
	})
	if err != nil {
		return err
	}

	var e expectations
	e.equal("name", f.UpdateName, resp.Name.OrElse("<absent>"))
	e.equal("job", f.UpdateJob, resp.Job.OrElse("<absent>"))
	e.check("updatedAt present", resp.UpdatedAt != "")
	return e.err()
}
