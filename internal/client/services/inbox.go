package services

import (
	"context"

	"github.com/dmitrijs2005/portfolio/internal/client/batch"
	"github.com/dmitrijs2005/portfolio/internal/client/listing"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/models"
)

type InboxService struct {
	api    API
	limit  int
	logger logging.Logger
}

// NewInboxService builds the inbox; limit bounds concurrent calls in bulk
// actions.
func NewInboxService(a API, limit int, logger logging.Logger) *InboxService {
	return &InboxService{api: a, limit: limit, logger: logger.With("module", "inbox")}
}

// List returns all messages, newest first.
func (s *InboxService) List(ctx context.Context) ([]models.Message, error) {
	ms, err := s.api.ListMessages(ctx)
	if err != nil {
		return nil, err
	}
	listing.SortMessages(ms)
	return ms, nil
}

// MarkRead sets every message in ids to "read".
func (s *InboxService) MarkRead(ctx context.Context, ids []string) batch.Result {
	res := batch.Run(ctx, ids, s.limit, func(ctx context.Context, id string) error {
		_, err := s.api.SetMessageStatus(ctx, id, models.MessageRead)
		return err
	})
	s.report(ctx, "mark read", res)
	return res
}

func (s *InboxService) Delete(ctx context.Context, ids []string) batch.Result {
	res := batch.Run(ctx, ids, s.limit, s.api.DeleteMessage)
	s.report(ctx, "delete", res)
	return res
}

func (s *InboxService) report(ctx context.Context, action string, res batch.Result) {
	if err := res.Err(); err != nil {
		s.logger.Warn(ctx, "bulk action partially failed", "action", action, "failed", len(res.Failed()), "error", err)
	}
}
