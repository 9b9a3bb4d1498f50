package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"
)

var ErrEmptyTitle = errors.New("empty title")

var nowFunc = time.Now

func unixMilli(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

// List returns the entries in list order.
func (s Store) List(ctx context.Context) ([]Entry, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	ptrs, err := loadEntries(ctx, db)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, len(ptrs))
	for i, e := range ptrs {
		out[i] = *e
	}
	return out, nil
}

// Add appends a new entry at the end of the list.
func (s Store) Add(ctx context.Context, title string) (Entry, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Entry{}, ErrEmptyTitle
	}
	var added Entry
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		cur, err := loadEntries(ctx, tx)
		if err != nil {
			return err
		}
		last := ""
		if len(cur) > 0 {
			last = cur[len(cur)-1].Rank
		}
		rank, err := RankBetweenUnique(takenRanks(cur, nil), last, "")
		if err != nil {
			return err
		}
		id, err := newEntryID()
		if err != nil {
			return err
		}
		added = Entry{ID: id, Title: title, Rank: rank, CreatedAt: nowFunc().UTC().Truncate(time.Millisecond)}
		return insertEntry(ctx, tx, added)
	})
	return added, err
}

// Move relocates the entry at index from to index to, shifting the entries in between.
func (s Store) Move(ctx context.Context, from, to int) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		cur, err := loadEntries(ctx, tx)
		if err != nil {
			return err
		}
		plan, err := PlanMove(cur, from, to)
		if err != nil {
			return err
		}
		for id, r := range plan.RankByID {
			if _, err := tx.ExecContext(ctx, `UPDATE entries SET rank = ? WHERE id = ?`, r, id); err != nil {
				return err
			}
		}
		return nil
	})
}

// Remove deletes the entry with id.
func (s Store) Remove(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return NotFoundError{Kind: "entry", ID: id}
		}
		return nil
	})
}

// Seed replaces the whole list with n entries titled "1".."n".
func (s Store) Seed(ctx context.Context, n int) ([]Entry, error) {
	ranks := SpreadRanks(n)
	out := make([]Entry, 0, n)
	now := nowFunc().UTC().Truncate(time.Millisecond)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
			return err
		}
		for i, r := range ranks {
			id, err := newEntryID()
			if err != nil {
				return err
			}
			e := Entry{ID: id, Title: strconv.Itoa(i + 1), Rank: r, CreatedAt: now}
			if err := insertEntry(ctx, tx, e); err != nil {
				return err
			}
			out = append(out, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
