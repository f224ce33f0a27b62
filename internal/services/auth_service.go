package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"rentalweb/internal/apiclient"
	"rentalweb/internal/clock"
	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
	"rentalweb/internal/utils"
	"rentalweb/internal/validation"
)

const operatorUserID = "operator"

var errBadCredentials = domain.UnauthorizedError{Msg: "invalid email or password"}

// AuthService signs visitors in and turns sessions into bearer tokens.
type AuthService struct {
	Accounts          AccountAPI
	Secret            []byte
	TTL               time.Duration
	AdminEmail        string
	AdminPasswordHash string
	Clock             clock.Clock
	RequestID         string
}

// AuthResult is the answer to a successful login or registration.
type AuthResult struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	Session   domain.Session `json:"session"`
}

type sessionClaims struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	APIToken string `json:"api_token,omitempty"`
	jwt.RegisteredClaims
}

func (s AuthService) clock() clock.Clock {
	if s.Clock != nil {
		return s.Clock
	}
	return clock.NewSystem()
}

func (s AuthService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return 24 * time.Hour
}

// Login checks the operator account first and otherwise asks the API.
func (s AuthService) Login(ctx context.Context, req models.LoginRequest) (AuthResult, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validation.Struct(req); err != nil {
		return AuthResult{}, err
	}

	if s.AdminEmail != "" && strings.EqualFold(req.Email, s.AdminEmail) {
		if err := bcrypt.CompareHashAndPassword([]byte(s.AdminPasswordHash), []byte(req.Password)); err != nil {
			utils.LogEvent(s.RequestID, "auth", "login_operator", "rejected")
			return AuthResult{}, errBadCredentials
		}
		utils.LogEvent(s.RequestID, "auth", "login_operator", "ok")
		return s.issue(domain.Session{
			UserID: operatorUserID,
			Name:   "Administrator",
			Email:  s.AdminEmail,
			Role:   domain.RoleAdmin,
		})
	}

	res, err := s.Accounts.Login(apiclient.WithRequestID(ctx, s.RequestID), req)
	if err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && (apiErr.Status == 401 || apiErr.Status == 404) {
			return AuthResult{}, errBadCredentials
		}
		return AuthResult{}, apiclient.ToDomain(err, "account")
	}
	utils.LogEvent(s.RequestID, "auth", "login", "user_id="+res.User.ID.String())
	return s.issue(sessionFromAPI(res))
}

// Register validates the form, creates the account upstream and signs the
// new user in.
func (s AuthService) Register(ctx context.Context, req models.RegisterRequest) (AuthResult, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	if err := validation.Struct(req); err != nil {
		return AuthResult{}, err
	}
	if s.AdminEmail != "" && strings.EqualFold(req.Email, s.AdminEmail) {
		return AuthResult{}, domain.ConflictError{Resource: "account", Msg: "email is already registered"}
	}
	res, err := s.Accounts.Register(apiclient.WithRequestID(ctx, s.RequestID), req)
	if err != nil {
		return AuthResult{}, apiclient.ToDomain(err, "account")
	}
	if res.User.Email == "" {
		res.User.Email = req.Email
	}
	if res.User.Name == "" {
		res.User.Name = req.Name
	}
	utils.LogEvent(s.RequestID, "auth", "register", "user_id="+res.User.ID.String())
	return s.issue(sessionFromAPI(res))
}

// Parse verifies a bearer token and returns the session it carries.
func (s AuthService) Parse(token string) (domain.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Session{}, domain.UnauthorizedError{Msg: "missing token"}
	}
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.clock().Now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Session{}, domain.UnauthorizedError{Msg: "session expired"}
		}
		return domain.Session{}, domain.UnauthorizedError{Msg: "invalid token"}
	}
	sess := domain.Session{
		ID:       claims.ID,
		UserID:   claims.Subject,
		Name:     claims.Name,
		Email:    claims.Email,
		Role:     claims.Role,
		APIToken: claims.APIToken,
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess, nil
}

func (s AuthService) issue(sess domain.Session) (AuthResult, error) {
	if len(s.Secret) == 0 {
		return AuthResult{}, domain.InternalError{Msg: "session signing is not configured"}
	}
	now := s.clock().Now()
	sess.ID = uuid.NewString()
	sess.ExpiresAt = now.Add(s.ttl()).Truncate(time.Second)
	claims := sessionClaims{
		Name:     sess.Name,
		Email:    sess.Email,
		Role:     sess.Role,
		APIToken: sess.APIToken,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   sess.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return AuthResult{}, domain.InternalError{Msg: "could not sign session", Err: fmt.Errorf("sign: %w", err)}
	}
	return AuthResult{Token: signed, ExpiresAt: sess.ExpiresAt, Session: sess}, nil
}

func sessionFromAPI(res models.AuthResult) domain.Session {
	role := strings.ToLower(strings.TrimSpace(res.User.Role))
	if role != domain.RoleAdmin {
		role = domain.RoleCustomer
	}
	return domain.Session{
		UserID:   res.User.ID.String(),
		Name:     res.User.Name,
		Email:    res.User.Email,
		Role:     role,
		APIToken: res.Token,
	}
}
