package handler

import (
	"context"

	"github.com/Astemirdum/department-portal/portal/internal/model"
	"github.com/Astemirdum/department-portal/portal/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type PortalService interface {
	Register(ctx context.Context, req model.RegisterRequest) (model.User, bool, error)
	Login(ctx context.Context, email, password string) (model.User, error)
	FederatedLogin(ctx context.Context) (model.User, error)

	ListBooks(ctx context.Context, query string) ([]model.Book, error)
	ListBorrows(ctx context.Context, userID string) ([]model.BorrowRecord, error)
	RequestBook(ctx context.Context, userID, bookID string) (model.BorrowRecord, error)
	AdvanceStatus(ctx context.Context, recordID string, target model.BorrowStatus) (model.BorrowRecord, error)
	MarkOverdue(ctx context.Context) ([]model.BorrowRecord, error)

	ListNotices(ctx context.Context) ([]model.Notice, error)
	Dashboard(ctx context.Context, userID string) (model.Dashboard, error)

	ListUsers(ctx context.Context) ([]model.User, error)
	ApproveUser(ctx context.Context, userID string) (model.User, error)
	ListVerifiedEmails(ctx context.Context) ([]model.VerifiedEmail, error)
	AddVerifiedEmails(ctx context.Context, items []model.VerifiedEmail) (int, error)
}

var _ PortalService = (*service.Service)(nil)
