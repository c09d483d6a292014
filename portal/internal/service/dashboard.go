package service

import (
	"context"

	"github.com/Astemirdum/department-portal/portal/internal/model"
	"golang.org/x/sync/errgroup"
)

func (s *Service) ListNotices(ctx context.Context) ([]model.Notice, error) {
	return s.repo.ListNotices(ctx)
}

func (s *Service) Dashboard(ctx context.Context, userID string) (model.Dashboard, error) {
	var d model.Dashboard
	gg, ctx := errgroup.WithContext(ctx)
	gg.Go(func() error {
		books, err := s.repo.ListBooks(ctx)
		d.Books = len(books)
		return err
	})
	gg.Go(func() error {
		notices, err := s.repo.ListNotices(ctx)
		d.Notices = len(notices)
		return err
	})
	gg.Go(func() error {
		mine, err := s.ListBorrows(ctx, userID)
		d.MyRequests = len(mine)
		return err
	})
	if err := gg.Wait(); err != nil {
		return model.Dashboard{}, err
	}
	return d, nil
}
