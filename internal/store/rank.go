package store

import (
	"errors"
	"strings"
)

// Ranks are lowercase base36 strings compared lexicographically. A list's order is the
// rank order of its entries; a move rewrites only the moved entry's rank when there is room.

const rankAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

const (
	rankMinDigit = 0
	rankMaxDigit = len(rankAlphabet) - 1
	maxRankLen   = 256
)

var (
	ErrRankOrder   = errors.New("rank: lower bound must sort before upper bound")
	ErrRankInvalid = errors.New("rank: invalid character")
	ErrNoRankSpace = errors.New("rank: no space between ranks")
)

func normRank(r string) string { return strings.ToLower(strings.TrimSpace(r)) }

func rankDigit(c byte) (int, bool) {
	i := strings.IndexByte(rankAlphabet, c)
	return i, i >= 0
}

func validRank(r string) bool {
	for i := 0; i < len(r); i++ {
		if _, ok := rankDigit(r[i]); !ok {
			return false
		}
	}
	return true
}

// digitAt returns the digit of r at i, or fallback past the end of r.
func digitAt(r string, i, fallback int) (int, error) {
	if i >= len(r) {
		return fallback, nil
	}
	d, ok := rankDigit(r[i])
	if !ok {
		return 0, ErrRankInvalid
	}
	return d, nil
}

// RankBetween returns a rank strictly between lo and hi. Either bound may be empty for
// an open end.
func RankBetween(lo, hi string) (string, error) {
	lo, hi = normRank(lo), normRank(hi)
	if !validRank(lo) || !validRank(hi) {
		return "", ErrRankInvalid
	}
	if lo != "" && hi != "" && lo >= hi {
		return "", ErrRankOrder
	}
	inside := func(r string) bool {
		return r != "" && (lo == "" || lo < r) && (hi == "" || r < hi)
	}

	prefix := make([]byte, 0, 8)
	for i := 0; i < maxRankLen; i++ {
		dl, err := digitAt(lo, i, rankMinDigit)
		if err != nil {
			return "", err
		}
		dh, err := digitAt(hi, i, rankMaxDigit)
		if err != nil {
			return "", err
		}
		if dl == dh {
			prefix = append(prefix, rankAlphabet[dl])
			continue
		}
		var r string
		if dh-dl > 1 {
			r = string(append(prefix, rankAlphabet[dl+(dh-dl)/2]))
		} else {
			// Adjacent digits: any extension of lo still sorts before hi.
			r = lo + rankAlphabet[:1]
		}
		if !inside(r) {
			// hi extends lo by a run of minimal digits, e.g. "y" and "y0".
			return "", ErrNoRankSpace
		}
		return r, nil
	}
	return "", ErrNoRankSpace
}

func RankAfter(lo string) (string, error)  { return RankBetween(lo, "") }
func RankBefore(hi string) (string, error) { return RankBetween("", hi) }

// RankBetweenUnique is RankBetween that skips ranks already present in taken.
func RankBetweenUnique(taken map[string]bool, lo, hi string) (string, error) {
	cur := normRank(lo)
	hi = normRank(hi)
	for i := 0; i < maxRankLen; i++ {
		r, err := RankBetween(cur, hi)
		if err != nil {
			return "", err
		}
		if !taken[r] {
			return r, nil
		}
		cur = r
	}
	return "", ErrNoRankSpace
}

// SpreadRanks returns n fixed-width ranks spaced evenly over the rank space, so bulk
// inserts leave room for later moves between any two neighbours.
func SpreadRanks(n int) []string {
	if n <= 0 {
		return nil
	}
	base := len(rankAlphabet)
	width, space := 1, base
	for space <= n+1 {
		width++
		space *= base
	}
	width++
	space *= base

	out := make([]string, n)
	buf := make([]byte, width)
	for i := range out {
		v := (i + 1) * space / (n + 1)
		for k := width - 1; k >= 0; k-- {
			buf[k] = rankAlphabet[v%base]
			v /= base
		}
		out[i] = string(buf)
	}
	return out
}
