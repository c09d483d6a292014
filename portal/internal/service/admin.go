package service

import (
	"context"

	"github.com/Astemirdum/department-portal/pkg/kafka"
	"github.com/Astemirdum/department-portal/portal/internal/errs"
	"github.com/Astemirdum/department-portal/portal/internal/model"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.ListUsers(ctx)
}

// ApproveUser activates a user. Approving an already active user is a no-op
// rewrite, not an error.
func (s *Service) ApproveUser(ctx context.Context, userID string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return model.User{}, err
	}
	user.Status = model.StatusActive
	if err := s.repo.SaveUser(ctx, user); err != nil {
		return model.User{}, err
	}
	s.log.Info("user approved", zap.String("id", user.ID))
	s.publish(ctx, kafka.EventPortal{
		Type:   kafka.EventUserApproved,
		UserID: user.ID,
		Status: string(user.Status),
	})
	return user, nil
}

func (s *Service) ListVerifiedEmails(ctx context.Context) ([]model.VerifiedEmail, error) {
	return s.repo.ListVerified(ctx)
}

// AddVerifiedEmails imports email->role pairs for auto-verification. Emails
// already on the list keep their original role. Returns how many were added.
func (s *Service) AddVerifiedEmails(ctx context.Context, items []model.VerifiedEmail) (int, error) {
	for _, item := range items {
		if item.Email == "" {
			return 0, errors.Wrap(errs.ErrInvalidEmail, "verified email is empty")
		}
		if !item.Role.Valid() {
			return 0, errors.Wrapf(errs.ErrInvalidRole, "%s: %q", item.Email, item.Role)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	added, err := s.repo.AddVerified(ctx, items)
	if err != nil {
		return 0, err
	}
	s.log.Info("verified emails imported", zap.Int("received", len(items)), zap.Int("added", added))
	if added > 0 {
		s.publish(ctx, kafka.EventPortal{Type: kafka.EventVerifiedImported, Count: added})
	}
	return added, nil
}
