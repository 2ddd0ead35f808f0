package journal

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ctf-hub/ctfbot/internal/domain/journal"
)

// Service appends command deliveries to the journal.
type Service struct {
	repo   journal.Repository
	logger zerolog.Logger
	wg     sync.WaitGroup
}

// NewService creates a new journal service
func NewService(repo journal.Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("service", "journal").Logger(),
	}
}

// Record writes the entry asynchronously so chat replies never wait on the database.
func (s *Service) Record(ctx context.Context, entry *journal.Entry) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.RecordSync(context.WithoutCancel(ctx), entry); err != nil {
			s.logger.Error().Err(err).
				Str("entryId", entry.EntryID.String()).
				Str("eventId", entry.EventID).
				Str("command", entry.Command).
				Msg("failed to record journal entry")
		}
	}()
}

// RecordSync writes the entry synchronously.
func (s *Service) RecordSync(ctx context.Context, entry *journal.Entry) error {
	if err := s.repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to save journal entry: %w", err)
	}
	s.logger.Debug().
		Str("entryId", entry.EntryID.String()).
		Str("chatId", entry.ChatID).
		Str("command", entry.Command).
		Str("outcome", string(entry.Outcome)).
		Msg("journal entry recorded")
	return nil
}

// Wait blocks until pending asynchronous writes finish.
func (s *Service) Wait() {
	s.wg.Wait()
}

// ListParams represents query parameters for journal listings
type ListParams struct {
	ChatID  *string
	Outcome *string
	Limit   int
	Offset  int
}

func (s *Service) List(ctx context.Context, params ListParams) ([]*journal.Entry, error) {
	if params.Limit <= 0 {
		params.Limit = 50
	}
	if params.Limit > 200 {
		params.Limit = 200
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	filter := journal.Filter{ChatID: params.ChatID}
	if params.Outcome != nil {
		o := journal.Outcome(*params.Outcome)
		filter.Outcome = &o
	}
	entries, err := s.repo.List(ctx, filter, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	return entries, nil
}
