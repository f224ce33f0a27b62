package services

import (
	"context"

	"rentalweb/internal/apiclient"
	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
)

type UserService struct {
	API       AccountAPI
	RequestID string
}

func (s UserService) List(ctx context.Context, sess domain.Session) ([]models.User, error) {
	ctx = apiclient.WithRequestID(apiclient.WithToken(ctx, sess.APIToken), s.RequestID)
	users, err := s.API.ListUsers(ctx)
	if err != nil {
		return nil, apiclient.ToDomain(err, "user")
	}
	return users, nil
}
