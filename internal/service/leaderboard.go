package service

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
)

const globalBoardSize = 5

// LeaderboardService builds the ranked read model from stored attempts.
type LeaderboardService struct {
	attempts      AttemptRepository
	staticDir     string
	defaultAvatar string
	logger        *zap.Logger
	exists        func(path string) bool
}

// NewLeaderboardService creates a LeaderboardService. Local avatars are looked up under staticDir.
func NewLeaderboardService(attempts AttemptRepository, staticDir, defaultAvatar string, logger *zap.Logger) *LeaderboardService {
	if defaultAvatar == "" {
		defaultAvatar = entities.DefaultAvatar
	}
	return &LeaderboardService{
		attempts:      attempts,
		staticDir:     staticDir,
		defaultAvatar: defaultAvatar,
		logger:        logger,
		exists:        fileExists,
	}
}

// Board returns per-category and global standings. Storage errors degrade
// to an empty board.
func (s *LeaderboardService) Board(ctx context.Context) entities.Leaderboard {
	standings, err := s.attempts.CategoryStandings(ctx)
	if err != nil {
		s.logger.Error("failed to load category standings", zap.Error(err))
		return entities.Leaderboard{}
	}

	top, err := s.attempts.GlobalStandings(ctx, globalBoardSize)
	if err != nil {
		s.logger.Error("failed to load global standings", zap.Error(err))
		return entities.Leaderboard{}
	}

	return s.build(standings, top)
}

// Top returns only the global standings.
func (s *LeaderboardService) Top(ctx context.Context) []entities.GlobalStanding {
	top, err := s.attempts.GlobalStandings(ctx, globalBoardSize)
	if err != nil {
		s.logger.Error("failed to load global standings", zap.Error(err))
		return nil
	}

	for i := range top {
		top[i].Avatar = s.avatar(top[i].Avatar)
	}
	entities.SortGlobalStandings(top)
	return top
}

func (s *LeaderboardService) build(standings []entities.CategoryStanding, top []entities.GlobalStanding) entities.Leaderboard {
	byCategory := make(map[string][]entities.CategoryStanding)
	for _, st := range standings {
		st.Avatar = s.avatar(st.Avatar)
		byCategory[st.Category] = append(byCategory[st.Category], st)
	}

	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	board := entities.Leaderboard{
		Categories: make([]entities.CategoryBoard, 0, len(names)),
		Top:        make([]entities.GlobalStanding, 0, len(top)),
	}
	for _, name := range names {
		rows := byCategory[name]
		entities.SortCategoryStandings(rows)
		board.Categories = append(board.Categories, entities.CategoryBoard{Category: name, Standings: rows})
	}

	for _, g := range top {
		g.Avatar = s.avatar(g.Avatar)
		board.Top = append(board.Top, g)
	}
	entities.SortGlobalStandings(board.Top)
	if len(board.Top) > globalBoardSize {
		board.Top = board.Top[:globalBoardSize]
	}

	return board
}

// avatar resolves an avatar reference to something renderable.
// Remote URLs are kept; local paths must exist under the static directory.
func (s *LeaderboardService) avatar(ref string) string {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return s.defaultAvatar
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return ref
	case s.exists(filepath.Join(s.staticDir, filepath.FromSlash(ref))):
		return ref
	default:
		return s.defaultAvatar
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
