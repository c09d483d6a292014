package service

import (
	"context"
	"strings"
	"time"

	"github.com/Astemirdum/department-portal/pkg/kafka"
	"github.com/Astemirdum/department-portal/portal/internal/errs"
	"github.com/Astemirdum/department-portal/portal/internal/model"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ListBooks returns the catalogue, filtered by a case-insensitive match on
// title or author when query is not empty.
func (s *Service) ListBooks(ctx context.Context, query string) ([]model.Book, error) {
	books, err := s.repo.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return books, nil
	}
	filtered := make([]model.Book, 0, len(books))
	for _, b := range books {
		if strings.Contains(strings.ToLower(b.Title), query) ||
			strings.Contains(strings.ToLower(b.Author), query) {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

// ListBorrows returns every record, or only the requester's when userID is set.
func (s *Service) ListBorrows(ctx context.Context, userID string) ([]model.BorrowRecord, error) {
	records, err := s.repo.ListBorrows(ctx)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return records, nil
	}
	mine := make([]model.BorrowRecord, 0)
	for _, r := range records {
		if r.UserID == userID {
			mine = append(mine, r)
		}
	}
	return mine, nil
}

// RequestBook files a borrow request. The copy is only taken off the shelf
// when an admin issues it.
func (s *Service) RequestBook(ctx context.Context, userID, bookID string) (model.BorrowRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return model.BorrowRecord{}, err
	}
	book, err := s.repo.GetBook(ctx, bookID)
	if err != nil {
		return model.BorrowRecord{}, err
	}
	if book.Available <= 0 {
		return model.BorrowRecord{}, errs.ErrNoCopiesAvailable
	}

	record := model.BorrowRecord{
		ID:        s.newID(),
		BookID:    book.ID,
		BookTitle: book.Title,
		UserID:    user.ID,
		UserName:  user.Name,
		IssueDate: s.today(),
		Status:    model.BorrowRequested,
	}
	if err := s.repo.SaveBorrow(ctx, record); err != nil {
		return model.BorrowRecord{}, err
	}
	s.log.Debug("book requested", zap.String("record", record.ID), zap.String("book", book.ID), zap.String("user", user.ID))
	s.publish(ctx, kafka.EventPortal{
		Type:     kafka.EventBorrowRequested,
		UserID:   user.ID,
		BookID:   book.ID,
		RecordID: record.ID,
		Status:   string(record.Status),
	})
	return record, nil
}

// AdvanceStatus moves a borrow record along
// Requested -> Issued -> (Late ->) Returned. Issuing takes one copy off the
// shelf; returning stamps the return date.
func (s *Service) AdvanceStatus(ctx context.Context, recordID string, target model.BorrowStatus) (model.BorrowRecord, error) {
	if !target.Valid() {
		return model.BorrowRecord{}, errors.Wrapf(errs.ErrInvalidStatus, "%q", target)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.repo.GetBorrow(ctx, recordID)
	if err != nil {
		return model.BorrowRecord{}, err
	}
	return s.advance(ctx, record, target)
}

// advance expects s.mu to be held.
func (s *Service) advance(ctx context.Context, record model.BorrowRecord, target model.BorrowStatus) (model.BorrowRecord, error) {
	if !record.Status.CanTransitionTo(target) {
		return model.BorrowRecord{}, errors.Wrapf(errs.ErrInvalidTransition, "%s -> %s", record.Status, target)
	}

	var (
		book        model.Book
		bookChanged bool
	)
	switch target {
	case model.BorrowIssued:
		b, err := s.repo.GetBook(ctx, record.BookID)
		if err != nil {
			return model.BorrowRecord{}, err
		}
		if b.Available <= 0 {
			return model.BorrowRecord{}, errs.ErrNoCopiesAvailable
		}
		b.Available--
		book, bookChanged = b, true
	case model.BorrowReturned:
		record.ReturnDate = s.today()
		if s.restockOnReturn {
			b, err := s.repo.GetBook(ctx, record.BookID)
			if err != nil {
				return model.BorrowRecord{}, err
			}
			if b.Available < b.Copies {
				b.Available++
				book, bookChanged = b, true
			}
		}
	}

	from := record.Status
	record.Status = target
	// On a partial write the shelf count may end up low, never high.
	if target == model.BorrowIssued {
		if err := s.repo.SaveBook(ctx, book); err != nil {
			return model.BorrowRecord{}, err
		}
		if err := s.repo.SaveBorrow(ctx, record); err != nil {
			return model.BorrowRecord{}, err
		}
	} else {
		if err := s.repo.SaveBorrow(ctx, record); err != nil {
			return model.BorrowRecord{}, err
		}
		if bookChanged {
			if err := s.repo.SaveBook(ctx, book); err != nil {
				return model.BorrowRecord{}, err
			}
		}
	}

	s.log.Info("borrow status changed",
		zap.String("record", record.ID),
		zap.String("from", string(from)),
		zap.String("to", string(target)))
	s.publish(ctx, kafka.EventPortal{
		Type:     kafka.EventBorrowStatusChanged,
		UserID:   record.UserID,
		BookID:   record.BookID,
		RecordID: record.ID,
		Status:   string(record.Status),
	})
	return record, nil
}

// MarkOverdue flags Issued records whose issue date is older than the loan
// period as Late and returns them.
func (s *Service) MarkOverdue(ctx context.Context) ([]model.BorrowRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.repo.ListBorrows(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	late := make([]model.BorrowRecord, 0)
	for _, r := range records {
		if r.Status != model.BorrowIssued {
			continue
		}
		issued, err := time.Parse(model.DateLayout, r.IssueDate)
		if err != nil {
			s.log.Warn("bad issue date", zap.String("record", r.ID), zap.String("issueDate", r.IssueDate))
			continue
		}
		if now.Sub(issued) <= s.loanPeriod {
			continue
		}
		updated, err := s.advance(ctx, r, model.BorrowLate)
		if err != nil {
			return late, err
		}
		late = append(late, updated)
	}
	return late, nil
}
