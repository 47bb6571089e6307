package storage

import (
	"math/rand"
	"strings"
	"sync"

	"tg-lobby-bot/internal/game"
)

// Алфавит кода приглашения: заглавные буквы и цифры, 36^4 комбинаций.
const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 4
)

// Memory - процессный реестр игровых сессий: чат -> сессия и код -> сессия.
// Создается один раз при старте и передается по ссылке, ничего не
// переживает рестарт процесса.
type Memory struct {
	mu     sync.Mutex
	byChat map[int64]*game.Session
	byCode map[string]*game.Session

	minPlayers int
	maxPlayers int
	randInt    func(n int) int // подменяется в тестах для коллизий кода
}

// New создает пустой реестр с дефолтными лимитами лобби.
func New() *Memory {
	return NewWithLimits(game.DefaultMinPlayers, game.DefaultMaxPlayers)
}

// NewWithLimits - как New, но лимиты лобби задаются конфигом.
func NewWithLimits(minPlayers, maxPlayers int) *Memory {
	return &Memory{
		byChat:     make(map[int64]*game.Session),
		byCode:     make(map[string]*game.Session),
		minPlayers: minPlayers,
		maxPlayers: maxPlayers,
		randInt:    rand.Intn,
	}
}

func (m *Memory) generateCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeAlphabet[m.randInt(len(codeAlphabet))]
	}
	return string(b)
}

// CreateSession создает сессию для чата и регистрирует ее под уникальным
// кодом. Код перегенерируется до тех пор, пока не окажется свободным.
// Старая сессия чата, если была, вытесняется целиком: и из карты чатов,
// и из карты кодов, иначе ее код так и висел бы в реестре.
func (m *Memory) CreateSession(chatID, ownerID int64) *game.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	code := m.generateCode()
	for {
		if _, taken := m.byCode[code]; !taken {
			break
		}
		code = m.generateCode()
	}

	session := game.NewSession(code, chatID, ownerID, m.minPlayers, m.maxPlayers)

	if old, ok := m.byChat[chatID]; ok {
		delete(m.byCode, old.Code)
	}
	m.byChat[chatID] = session
	m.byCode[code] = session
	return session
}

// GetByChat возвращает активную сессию чата.
func (m *Memory) GetByChat(chatID int64) (*game.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.byChat[chatID]
	if !ok {
		return nil, game.ErrSessionNotFound
	}
	return session, nil
}

// GetByCode ищет сессию по коду приглашения. Регистр кода не важен.
func (m *Memory) GetByCode(code string) (*game.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.byCode[strings.ToUpper(code)]
	if !ok {
		return nil, game.ErrSessionNotFound
	}
	return session, nil
}
