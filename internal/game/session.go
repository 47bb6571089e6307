package game

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// State - состояние игровой сессии. Двигается только вперед:
// LOBBY -> STARTED -> FINISHED.
type State string

const (
	StateLobby    State = "LOBBY"
	StateStarted  State = "STARTED"
	StateFinished State = "FINISHED"
)

// Дефолтные лимиты лобби.
const (
	DefaultMinPlayers = 3
	DefaultMaxPlayers = 6
)

// Игрок в лобби. После добавления в сессию не меняется.
type Player struct {
	TelegramID int64
	Username   string
	JoinedAt   time.Time
}

// NormalizeUsername - отображаемое имя игрока. Для пустого хендла
// возвращает фолбэк вида user_<id>, иначе "@" + хендл без ведущих @.
func NormalizeUsername(raw string, telegramID int64) string {
	if s := strings.TrimSpace(raw); s != "" {
		return "@" + strings.TrimLeft(s, "@")
	}
	return fmt.Sprintf("user_%d", telegramID)
}

// Session - одно игровое лобби: код приглашения, список игроков и машина
// состояний. Мутирующие методы потокобезопасны, у каждой сессии свой mutex.
type Session struct {
	Code      string
	ChatID    int64
	OwnerID   int64
	CreatedAt time.Time

	MinPlayers int
	MaxPlayers int

	mu      sync.Mutex
	state   State
	players []Player

	now func() time.Time // подменяется в тестах
}

// NewSession создает сессию в состоянии LOBBY без игроков.
func NewSession(code string, chatID, ownerID int64, minPlayers, maxPlayers int) *Session {
	now := time.Now
	return &Session{
		Code:       code,
		ChatID:     chatID,
		OwnerID:    ownerID,
		CreatedAt:  now(),
		MinPlayers: minPlayers,
		MaxPlayers: maxPlayers,
		state:      StateLobby,
		now:        now,
	}
}

// AddPlayer добавляет игрока в лобби. Порядок проверок фиксирован:
// состояние, потом дубликат, потом вместимость.
func (s *Session) AddPlayer(telegramID int64, username string) (Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateLobby {
		return Player{}, ErrSessionAlreadyStarted
	}
	for _, p := range s.players {
		if p.TelegramID == telegramID {
			return Player{}, ErrPlayerAlreadyJoined
		}
	}
	if len(s.players) >= s.MaxPlayers {
		return Player{}, ErrSessionFull
	}

	player := Player{
		TelegramID: telegramID,
		Username:   NormalizeUsername(username, telegramID),
		JoinedAt:   s.now(),
	}
	s.players = append(s.players, player)
	return player, nil
}

// Start переводит лобби в состояние STARTED. Владелец проверяется до
// состояния: не-владелец на уже начатой игре получает ErrNotOwner,
// а не ErrSessionAlreadyStarted.
func (s *Session) Start(requesterID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if requesterID != s.OwnerID {
		return ErrNotOwner
	}
	if s.state != StateLobby {
		return ErrSessionAlreadyStarted
	}
	if len(s.players) < s.MinPlayers {
		return ErrNotEnoughPlayers
	}

	s.state = StateStarted
	return nil
}

// State возвращает текущее состояние сессии.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Players возвращает копию списка игроков в порядке вступления.
func (s *Session) Players() []Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	players := make([]Player, len(s.players))
	copy(players, s.players)
	return players
}

// PlayerCount - текущее количество игроков в лобби.
func (s *Session) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players)
}

// PlayersText - нумерованный список игроков с заголовком count/max.
func (s *Session) PlayersText() string {
	players := s.Players()
	lines := make([]string, 0, len(players)+1)
	lines = append(lines, fmt.Sprintf("Players (%d/%d):", len(players), s.MaxPlayers))
	for i, p := range players {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, p.Username))
	}
	return strings.Join(lines, "\n")
}
