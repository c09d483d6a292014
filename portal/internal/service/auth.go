package service

import (
	"context"

	"github.com/Astemirdum/department-portal/pkg/kafka"
	"github.com/Astemirdum/department-portal/portal/internal/errs"
	"github.com/Astemirdum/department-portal/portal/internal/model"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Fixed identity handed out by the "Sign in with Google" button.
const (
	federatedUserID = "google-123"
	federatedEmail  = "student@mbstu.ac.bd"
	federatedName   = "John Doe (Google)"
)

// Register creates a user. Emails found in the verified list become Active
// with the listed role; everyone else waits for approval as a Guest.
// The returned flag reports which branch was taken.
func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (model.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.repo.GetUserByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return model.User{}, false, errs.ErrDuplicateEmail
	case !errors.Is(err, errs.ErrUserNotFound):
		return model.User{}, false, err
	}

	verifiedList, err := s.repo.ListVerified(ctx)
	if err != nil {
		return model.User{}, false, err
	}
	user := model.User{
		ID:     s.newID(),
		Email:  req.Email,
		Name:   req.Name,
		Role:   model.RoleGuest,
		Status: model.StatusPending,
	}
	verified := false
	for _, v := range verifiedList {
		if v.Email == req.Email {
			user.Role = v.Role
			user.Status = model.StatusActive
			verified = true
			break
		}
	}

	if err := s.repo.SaveUser(ctx, user); err != nil {
		return model.User{}, false, err
	}
	s.log.Info("user registered",
		zap.String("id", user.ID),
		zap.String("role", string(user.Role)),
		zap.Bool("verified", verified))
	s.publish(ctx, kafka.EventPortal{
		Type:   kafka.EventUserRegistered,
		UserID: user.ID,
		Status: string(user.Status),
	})
	return user, verified, nil
}

// Login looks the user up by email. The password is not checked: no
// credential is stored anywhere.
func (s *Service) Login(ctx context.Context, email, _ string) (model.User, error) {
	return s.repo.GetUserByEmail(ctx, email)
}

func (s *Service) FederatedLogin(ctx context.Context) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.repo.GetUserByEmail(ctx, federatedEmail)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, errs.ErrUserNotFound) {
		return model.User{}, err
	}

	user = model.User{
		ID:     federatedUserID,
		Email:  federatedEmail,
		Name:   federatedName,
		Role:   model.RoleStudent,
		Status: model.StatusActive,
	}
	if err := s.repo.SaveUser(ctx, user); err != nil {
		return model.User{}, err
	}
	s.publish(ctx, kafka.EventPortal{
		Type:   kafka.EventUserRegistered,
		UserID: user.ID,
		Status: string(user.Status),
	})
	return user, nil
}
