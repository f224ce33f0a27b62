package apiclient

import (
	"context"
	"net/http"

	"rentalweb/internal/domain/models"
)

// Register calls POST /auth/register.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResult, error) {
	var out models.AuthResult
	err := c.do(ctx, call{op: "register", method: http.MethodPost, path: "/auth/register", body: req, out: &out})
	return out, err
}

// Login calls POST /auth/login.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (models.AuthResult, error) {
	var out models.AuthResult
	err := c.do(ctx, call{op: "login", method: http.MethodPost, path: "/auth/login", body: req, out: &out})
	return out, err
}

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	list := []models.User{}
	err := c.do(ctx, call{op: "list_users", method: http.MethodGet, path: "/users", out: &list})
	return list, err
}
