package supabase

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
)

// User is the part of a GoTrue user the application keeps.
type User struct {
	ID       string
	Email    string
	FullName string
}

var ErrNoUser = errors.New("supabase auth returned no user")

// Auth is a GoTrue client for email/password accounts.
type Auth struct {
	client *Client
}

func NewAuth(client *Client) *Auth {
	return &Auth{client: client}
}

// SignIn exchanges an email and password for the account's user.
func (a *Auth) SignIn(ctx context.Context, email, password string) (*User, error) {
	body := map[string]string{"email": email, "password": password}
	query := url.Values{"grant_type": []string{"password"}}

	resp, err := a.client.do(ctx, http.MethodPost, "/auth/v1/token", query, body, nil)
	if err != nil {
		return nil, err
	}
	return parseUser(resp)
}

// SignUp registers a new account. fullName is stored in user metadata when set.
func (a *Auth) SignUp(ctx context.Context, email, password, fullName string) (*User, error) {
	body := map[string]any{"email": email, "password": password}
	if fullName != "" {
		body["data"] = map[string]string{"full_name": fullName}
	}

	resp, err := a.client.do(ctx, http.MethodPost, "/auth/v1/signup", nil, body, nil)
	if err != nil {
		return nil, err
	}
	return parseUser(resp)
}

// parseUser reads a session ({"user": {...}}) or a bare user object,
// the latter being what signup returns while email confirmation is pending.
func parseUser(body []byte) (*User, error) {
	user := gjson.GetBytes(body, "user")
	if !user.IsObject() {
		user = gjson.ParseBytes(body)
	}

	id := user.Get("id").String()
	if id == "" {
		return nil, ErrNoUser
	}
	return &User{
		ID:       id,
		Email:    user.Get("email").String(),
		FullName: user.Get("user_metadata.full_name").String(),
	}, nil
}
