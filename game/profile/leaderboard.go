package profile

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownCategory is returned for a leaderboard category that does not exist
var ErrUnknownCategory = errors.New("unknown leaderboard category")

// Category selects the statistic a leaderboard ranks by
type Category string

const (
	ByHighScore    Category = "high_score"
	ByGameCount    Category = "game_count"
	ByHighestLevel Category = "highest_level"
)

// DefaultLeaderboardSize is the number of entries shown when no limit is given
const DefaultLeaderboardSize = 10

// Categories lists the supported leaderboards
func Categories() []Category {
	return []Category{ByHighScore, ByGameCount, ByHighestLevel}
}

// ParseCategory validates a category name; empty selects high_score
func ParseCategory(s string) (Category, error) {
	if s == "" {
		return ByHighScore, nil
	}
	for _, c := range Categories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownCategory, s)
}

// Entry is one ranked player
type Entry struct {
	Rank        int    `json:"rank"`
	ProfileID   string `json:"profile_id"`
	DisplayName string `json:"display_name"`
	Value       int    `json:"value"`
}

func (c Category) value(p *Profile) int {
	switch c {
	case ByGameCount:
		return p.Stats.GameCount
	case ByHighestLevel:
		return p.Stats.HighestLevel
	}
	return p.Stats.HighScore
}

// Leaderboard ranks profiles by a category, highest first, ties broken by display name then
// ID. Players who have not finished a game are left out. limit <= 0 means
// DefaultLeaderboardSize.
func Leaderboard(profiles []*Profile, category Category, limit int) []Entry {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}

	ranked := make([]*Profile, 0, len(profiles))
	for _, p := range profiles {
		if p != nil && p.Stats.GameCount > 0 {
			ranked = append(ranked, p)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		vi, vj := category.value(ranked[i]), category.value(ranked[j])
		if vi != vj {
			return vi > vj
		}
		if ranked[i].DisplayName != ranked[j].DisplayName {
			return ranked[i].DisplayName < ranked[j].DisplayName
		}
		return ranked[i].ID < ranked[j].ID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	entries := make([]Entry, len(ranked))
	for i, p := range ranked {
		entries[i] = Entry{
			Rank:        i + 1,
			ProfileID:   p.ID,
			DisplayName: p.DisplayName,
			Value:       category.value(p),
		}
	}
	return entries
}
