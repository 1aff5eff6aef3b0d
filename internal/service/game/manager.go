package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/alfredoleano/Connect4AI/internal/domain"
	"github.com/alfredoleano/Connect4AI/internal/repository/postgres"
	"github.com/alfredoleano/Connect4AI/internal/service/bot"
	"github.com/alfredoleano/Connect4AI/internal/service/match"
	"github.com/alfredoleano/Connect4AI/pkg/uid"
)

const (
	ReasonResign    = "resign"
	ReasonAbandoned = "abandoned"

	// MaxDepth caps the search depth a client may request.
	MaxDepth = 8
)

var (
	ErrNoActiveGame  = errors.New("no active game")
	ErrDepthTooLarge = fmt.Errorf("search depth must be at most %d", MaxDepth)
	ErrHumanAgent    = errors.New("the server cannot seat a human agent")
)

type Notifier interface {
	SendMessage(userID int64, message domain.ServerMessage) error
}

type GameRepository interface {
	SaveGame(ctx context.Context, g *postgres.GameRecord) error
}

type SessionCache interface {
	Save(ctx context.Context, gameID string, snapshot any) error
	Delete(ctx context.Context, gameID string) error
}

type ManagerConfig struct {
	Repo         GameRepository // optional
	Cache        SessionCache   // optional
	Notifier     Notifier
	DefaultAgent bot.Kind
	DefaultDepth int
	SaveTimeout  time.Duration
}

// SessionManager owns every live session. A user has at most one.
type SessionManager struct {
	sessions   map[string]*GameSession // gameID → session
	userToGame map[int64]string        // userID → gameID
	mu         sync.RWMutex

	repo         GameRepository
	cache        SessionCache
	notifier     Notifier
	defaultAgent bot.Kind
	defaultDepth int
	saveTimeout  time.Duration
	now          func() time.Time
}

func NewSessionManager(cfg ManagerConfig) *SessionManager {
	agent := cfg.DefaultAgent
	if agent == "" {
		agent = bot.KindAlphaBeta
	}
	depth := cfg.DefaultDepth
	if depth == 0 {
		depth = bot.DefaultDepth
	}
	saveTimeout := cfg.SaveTimeout
	if saveTimeout == 0 {
		saveTimeout = 5 * time.Second
	}
	return &SessionManager{
		sessions:     make(map[string]*GameSession),
		userToGame:   make(map[int64]string),
		repo:         cfg.Repo,
		cache:        cfg.Cache,
		notifier:     cfg.Notifier,
		defaultAgent: agent,
		defaultDepth: depth,
		saveTimeout:  saveTimeout,
		now:          time.Now,
	}
}

func (sm *SessionManager) GetSessionByUserID(userID int64) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	gameID, exists := sm.userToGame[userID]
	if !exists {
		return nil, false
	}
	session, exists := sm.sessions[gameID]
	return session, exists
}

func (sm *SessionManager) GetSessionByGameID(gameID string) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[gameID]
	return session, exists
}

func (sm *SessionManager) ActiveCount() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

func (sm *SessionManager) removeSession(gameID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, exists := sm.sessions[gameID]
	if !exists {
		return
	}
	if sm.userToGame[session.UserID] == gameID {
		delete(sm.userToGame, session.UserID)
	}
	delete(sm.sessions, gameID)
	log.Debug().Str("game", gameID).Msg("session removed")
}

// StartGame seats the user against a new agent. An unfinished game the user
// already has is forfeited first. When the agent moves first its reply is
// sent right after game_start.
func (sm *SessionManager) StartGame(ctx context.Context, userID int64, username, agent string, depth int, humanFirst bool) (*GameSession, error) {
	kind := sm.defaultAgent
	if agent != "" {
		k, err := bot.ParseKind(agent)
		if err != nil {
			return nil, err
		}
		kind = k
	}
	if kind == bot.KindHuman {
		return nil, ErrHumanAgent
	}
	if depth == 0 {
		depth = sm.defaultDepth
	}
	if depth > MaxDepth {
		return nil, ErrDepthTooLarge
	}

	humanPlayer := domain.Player1
	if !humanFirst {
		humanPlayer = domain.Player2
	}
	agentImpl, err := bot.NewAgent(kind, domain.Opponent(humanPlayer), bot.Options{
		Depth: depth,
		Seed:  uint64(sm.now().UnixNano()),
	})
	if err != nil {
		return nil, err
	}

	if previous, ok := sm.GetSessionByUserID(userID); ok {
		log.Info().Int64("user", userID).Str("game", previous.GameID).Msg("abandoning previous game for a new one")
		sm.endByLoss(ctx, previous, ReasonAbandoned)
	}

	now := sm.now()
	session := &GameSession{
		GameID:       uid.GenerateGameID(),
		UserID:       userID,
		Username:     username,
		HumanPlayer:  humanPlayer,
		Bot:          agentImpl,
		BotName:      domain.GetBotName(string(kind)),
		Game:         domain.NewGame(domain.Rows, domain.Columns),
		CreatedAt:    now,
		LastActivity: now,
	}

	sm.mu.Lock()
	sm.sessions[session.GameID] = session
	sm.userToGame[userID] = session.GameID
	sm.mu.Unlock()

	log.Info().
		Str("game", session.GameID).
		Int64("user", userID).
		Str("agent", agentImpl.Name()).
		Int("depth", bot.SearchDepth(agentImpl)).
		Int("human_player", int(humanPlayer)).
		Msg("session created")

	session.mu.Lock()
	sm.send(userID, session.startMessage())
	var finished bool
	if session.Game.CurrentPlayer != humanPlayer {
		finished = sm.playBotLocked(session)
	}
	sm.mirrorLocked(ctx, session)
	session.mu.Unlock()

	if finished {
		sm.finish(ctx, session)
	}
	return session, nil
}

// Resume re-sends the current state of the user's game, if any.
func (sm *SessionManager) Resume(userID int64) bool {
	session, ok := sm.GetSessionByUserID(userID)
	if !ok {
		return false
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.Game.IsFinished() {
		return false
	}
	sm.send(userID, session.startMessage())
	return true
}

// HandleMove applies the user's column and then the agent's reply.
func (sm *SessionManager) HandleMove(ctx context.Context, userID int64, column int) error {
	session, ok := sm.GetSessionByUserID(userID)
	if !ok {
		return ErrNoActiveGame
	}

	session.mu.Lock()
	if session.Game.CurrentPlayer != session.HumanPlayer && !session.Game.IsFinished() {
		session.mu.Unlock()
		return domain.ErrNotYourTurn
	}
	if _, err := session.Game.MakeMove(session.HumanPlayer, column); err != nil {
		session.mu.Unlock()
		return err
	}
	session.LastActivity = sm.now()
	sm.send(userID, session.moveMessage(session.Game.Moves[len(session.Game.Moves)-1]))

	finished := session.Game.IsFinished()
	if finished {
		session.Reason = outcomeReason(session.Game)
	} else {
		finished = sm.playBotLocked(session)
	}
	sm.mirrorLocked(ctx, session)
	session.mu.Unlock()

	if finished {
		sm.finish(ctx, session)
	}
	return nil
}

// Resign ends the user's game as a loss.
func (sm *SessionManager) Resign(ctx context.Context, userID int64) error {
	session, ok := sm.GetSessionByUserID(userID)
	if !ok {
		return ErrNoActiveGame
	}
	sm.endByLoss(ctx, session, ReasonResign)
	return nil
}

// CleanupIdle forfeits every session without a move for longer than maxIdle
// and returns how many it ended.
func (sm *SessionManager) CleanupIdle(ctx context.Context, maxIdle time.Duration) int {
	sm.mu.RLock()
	candidates := make([]*GameSession, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		candidates = append(candidates, s)
	}
	sm.mu.RUnlock()

	now := sm.now()
	count := 0
	for _, s := range candidates {
		if s.IdleSince(now) <= maxIdle {
			continue
		}
		sm.endByLoss(ctx, s, ReasonAbandoned)
		count++
	}
	if count > 0 {
		log.Info().Int("count", count).Msg("evicted idle sessions")
	}
	return count
}

// endByLoss ends an unfinished session with the agent as winner.
func (sm *SessionManager) endByLoss(ctx context.Context, session *GameSession, reason string) {
	session.mu.Lock()
	if session.Game.IsFinished() {
		session.mu.Unlock()
		sm.removeSession(session.GameID)
		return
	}
	session.Game.Status = domain.StatusWon
	session.Game.Winner = session.BotPlayer()
	session.Reason = reason
	session.mu.Unlock()

	sm.finish(ctx, session)
}

// playBotLocked lets the agent reply and reports whether that ended the
// game. An agent failure forfeits it. Caller holds session.mu.
func (sm *SessionManager) playBotLocked(session *GameSession) bool {
	botPlayer := session.BotPlayer()
	start := sm.now()
	column, err := session.Bot.GetMove(session.Game.Board.Clone())
	if err == nil {
		_, err = session.Game.MakeMove(botPlayer, column)
	}
	if err != nil {
		log.Error().Err(err).Str("game", session.GameID).Str("agent", session.Bot.Name()).Msg("agent failed to move")
		session.Game.Status = domain.StatusWon
		session.Game.Winner = session.HumanPlayer
		session.Reason = match.ReasonForfeit
		return true
	}

	log.Debug().
		Str("game", session.GameID).
		Int("column", column).
		Dur("took", sm.now().Sub(start)).
		Msg("agent moved")

	session.LastActivity = sm.now()
	sm.send(session.UserID, session.moveMessage(session.Game.Moves[len(session.Game.Moves)-1]))
	if session.Game.IsFinished() {
		session.Reason = outcomeReason(session.Game)
		return true
	}
	return false
}

// finish announces, persists and drops a session whose game has ended.
func (sm *SessionManager) finish(ctx context.Context, session *GameSession) {
	session.mu.Lock()
	if session.closed {
		session.mu.Unlock()
		return
	}
	session.closed = true
	session.FinishedAt = sm.now()
	sm.send(session.UserID, session.gameOverMessage())
	rec := session.record()
	session.mu.Unlock()

	log.Info().
		Str("game", session.GameID).
		Int("winner", int(rec.Winner)).
		Str("reason", rec.Reason).
		Int("moves", rec.TotalMoves).
		Msg("game finished")

	sm.removeSession(session.GameID)

	if sm.cache != nil {
		if err := sm.cache.Delete(ctx, session.GameID); err != nil {
			log.Warn().Err(err).Str("game", session.GameID).Msg("failed to drop session mirror")
		}
	}
	if sm.repo != nil {
		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sm.saveTimeout)
		defer cancel()
		if err := sm.repo.SaveGame(saveCtx, rec); err != nil {
			log.Error().Err(err).Str("game", session.GameID).Msg("error saving game")
		}
	}
}

// caller holds session.mu
func (sm *SessionManager) mirrorLocked(ctx context.Context, session *GameSession) {
	if sm.cache == nil || session.Game.IsFinished() {
		return
	}
	if err := sm.cache.Save(ctx, session.GameID, session.snapshot()); err != nil {
		log.Warn().Err(err).Str("game", session.GameID).Msg("failed to mirror session")
	}
}

func (sm *SessionManager) send(userID int64, msg domain.ServerMessage) {
	if sm.notifier == nil {
		return
	}
	if err := sm.notifier.SendMessage(userID, msg); err != nil {
		log.Debug().Err(err).Int64("user", userID).Str("type", msg.Type).Msg("message not delivered")
	}
}

func outcomeReason(g *domain.Game) string {
	if g.Status == domain.StatusDraw {
		return match.ReasonBoardFull
	}
	return match.ReasonFourInARow
}
