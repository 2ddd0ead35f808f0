package postgres

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ctf-hub/ctfbot/internal/domain/journal"
)

// JournalRepository implements journal.Repository.
type JournalRepository struct {
	pool *pgxpool.Pool
}

var _ journal.Repository = (*JournalRepository)(nil)

func NewJournalRepository(pool *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{pool: pool}
}

func (r *JournalRepository) Create(ctx context.Context, entry *journal.Entry) error {
	args := entry.Args
	if args == nil {
		args = []string{}
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO command_journal
		(entry_id, event_id, chat_id, sender_id, command, args, outcome, error, duration_ms, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id
	`, entry.EntryID, entry.EventID, entry.ChatID, entry.SenderID, entry.Command, args, entry.Outcome, entry.Error, entry.DurationMs, entry.CreatedAt).Scan(&entry.ID)
}

func (r *JournalRepository) List(ctx context.Context, filter journal.Filter, limit, offset int) ([]*journal.Entry, error) {
	query, args := buildJournalQuery(filter, limit, offset)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*journal.Entry
	for rows.Next() {
		entry, err := scanJournalEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func buildJournalQuery(filter journal.Filter, limit, offset int) (string, []interface{}) {
	query := `SELECT id, entry_id, event_id, chat_id, sender_id, command, args, outcome, error, duration_ms, created_at FROM command_journal`
	args := []interface{}{}
	idx := 1
	if filter.ChatID != nil {
		query += addWhere(query) + " chat_id=$" + itoa(idx)
		args = append(args, *filter.ChatID)
		idx++
	}
	if filter.Outcome != nil {
		query += addWhere(query) + " outcome=$" + itoa(idx)
		args = append(args, string(*filter.Outcome))
		idx++
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT $" + itoa(idx) + " OFFSET $" + itoa(idx+1)
	args = append(args, limit, offset)
	return query, args
}

func scanJournalEntry(row pgx.Row) (*journal.Entry, error) {
	var e journal.Entry
	var outcome string
	if err := row.Scan(&e.ID, &e.EntryID, &e.EventID, &e.ChatID, &e.SenderID, &e.Command, &e.Args, &outcome, &e.Error, &e.DurationMs, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Outcome = journal.Outcome(outcome)
	return &e, nil
}

func addWhere(query string) string {
	if strings.Contains(query, " WHERE ") {
		return " AND"
	}
	return " WHERE"
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
