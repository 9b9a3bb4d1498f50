package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const dbFileName = "sortable.sqlite"

// Entry is one row of the authoritative list.
type Entry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Rank      string    `json:"rank"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store is the authoritative list, kept in a SQLite file under Dir.
type Store struct {
	Dir string
}

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

type PositionError struct {
	Pos int
	Len int
}

func (e PositionError) Error() string {
	return fmt.Sprintf("position %d out of range [0, %d)", e.Pos, e.Len)
}

// DefaultDir is $XDG_DATA_HOME/sortable, falling back to ~/.local/share/sortable.
func DefaultDir() (string, error) {
	if d := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); d != "" {
		return filepath.Join(d, "sortable"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "sortable"), nil
}

func (s Store) Ensure() error {
	if strings.TrimSpace(s.Dir) == "" {
		return fmt.Errorf("store: empty dir")
	}
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, dbFileName)
}

// ModTime is the latest modification time of the database and its WAL, zero if neither
// exists. Readers poll it to notice writes from other processes.
func (s Store) ModTime() time.Time {
	var latest time.Time
	for _, p := range []string{s.sqlitePath(), s.sqlitePath() + "-wal"} {
		fi, err := os.Stat(p)
		if err != nil {
			continue
		}
		if mt := fi.ModTime(); mt.After(latest) {
			latest = mt
		}
	}
	return latest
}
