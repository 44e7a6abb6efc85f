package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Skotchmaster/products_api/internal/identity"
	"github.com/Skotchmaster/products_api/internal/logging"
	"github.com/Skotchmaster/products_api/internal/mykafka"
	"github.com/Skotchmaster/products_api/internal/tokens"
	"github.com/Skotchmaster/products_api/internal/transport"
)

type AccountService struct {
	Users  *identity.Manager
	Tokens *tokens.Issuer
	Events mykafka.Publisher
}

// Register creates the user and, when asked, grants the Admin role. The Admin
// role itself is created on first use. A failed Result carries the
// validation errors; the error return is for store failures only.
func (s *AccountService) Register(ctx context.Context, req transport.RegisterRequest) (identity.Result, error) {
	user, res, err := s.Users.CreateUser(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return identity.Result{}, err
	}
	if !res.Succeeded {
		return res, nil
	}

	exists, err := s.Users.RoleExists(ctx, identity.RoleAdmin)
	if err != nil {
		return identity.Result{}, err
	}
	if !exists {
		if err := s.Users.CreateRole(ctx, identity.RoleAdmin); err != nil {
			return identity.Result{}, fmt.Errorf("create admin role: %w", err)
		}
	}

	if req.IsAdmin {
		if err := s.Users.AddToRole(ctx, user, identity.RoleAdmin); err != nil {
			return identity.Result{}, fmt.Errorf("grant admin role: %w", err)
		}
	}

	s.publish(ctx, mykafka.UserEvent{
		Type:       mykafka.EventUserRegistered,
		UserID:     user.ID,
		UserName:   user.UserName,
		IsAdmin:    req.IsAdmin,
		OccurredAt: time.Now().UTC(),
	})
	return identity.Success(), nil
}

// Login returns a signed token, or identity.ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, req transport.LoginRequest) (string, error) {
	user, err := s.Users.CheckPasswordSignIn(ctx, req.Username, req.Password)
	if err != nil {
		return "", err
	}

	token, err := s.Tokens.Issue(user)
	if err != nil {
		return "", err
	}

	s.publish(ctx, mykafka.UserEvent{
		Type:       mykafka.EventUserLoggedIn,
		UserID:     user.ID,
		UserName:   user.UserName,
		OccurredAt: time.Now().UTC(),
	})
	return token, nil
}

func (s *AccountService) publish(ctx context.Context, ev mykafka.UserEvent) {
	if s.Events == nil {
		return
	}
	if err := s.Events.PublishEvent(ctx, mykafka.TopicUsers, ev.UserID, ev); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "event", ev.Type, "reason", "kafka", "error", err)
	}
}
