package storage

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"tg-lobby-bot/internal/game"
)

func TestCreateSession(t *testing.T) {
	m := New()

	session := m.CreateSession(100, 1)
	require.NotNil(t, session)
	require.Equal(t, game.StateLobby, session.State())
	require.Equal(t, int64(100), session.ChatID)
	require.Equal(t, int64(1), session.OwnerID)
	require.Equal(t, game.DefaultMinPlayers, session.MinPlayers)
	require.Equal(t, game.DefaultMaxPlayers, session.MaxPlayers)

	require.Len(t, session.Code, codeLength)
	for _, r := range session.Code {
		require.Contains(t, codeAlphabet, string(r))
	}

	byChat, err := m.GetByChat(100)
	require.NoError(t, err)
	require.Same(t, session, byChat)

	byCode, err := m.GetByCode(session.Code)
	require.NoError(t, err)
	require.Same(t, session, byCode)
}

func TestCreateSession_Limits(t *testing.T) {
	m := NewWithLimits(2, 4)

	session := m.CreateSession(100, 1)
	require.Equal(t, 2, session.MinPlayers)
	require.Equal(t, 4, session.MaxPlayers)
}

func TestGetByChat_NotFound(t *testing.T) {
	m := New()

	_, err := m.GetByChat(100)
	require.ErrorIs(t, err, game.ErrSessionNotFound)

	m.CreateSession(100, 1)
	_, err = m.GetByChat(100)
	require.NoError(t, err)

	// Сессия другого чата не видна
	_, err = m.GetByChat(200)
	require.ErrorIs(t, err, game.ErrSessionNotFound)
}

func TestGetByCode_CaseInsensitive(t *testing.T) {
	m := New()
	session := m.CreateSession(100, 1)

	found, err := m.GetByCode(strings.ToLower(session.Code))
	require.NoError(t, err)
	require.Same(t, session, found)

	_, err = m.GetByCode("ZZZZ")
	require.ErrorIs(t, err, game.ErrSessionNotFound)
}

func TestCreateSession_ReplacesPreviousSession(t *testing.T) {
	m := New()

	first := m.CreateSession(100, 1)
	second := m.CreateSession(100, 1)
	require.NotSame(t, first, second)

	byChat, err := m.GetByChat(100)
	require.NoError(t, err)
	require.Same(t, second, byChat)

	// Код вытесненной сессии освобождается вместе с ней
	_, err = m.GetByCode(first.Code)
	require.ErrorIs(t, err, game.ErrSessionNotFound)

	byCode, err := m.GetByCode(second.Code)
	require.NoError(t, err)
	require.Same(t, second, byCode)
}

func TestCreateSession_UniqueCodes(t *testing.T) {
	m := New()

	const n = 2000
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		session := m.CreateSession(int64(i), 1)
		require.False(t, seen[session.Code], "код %s выдан повторно", session.Code)
		seen[session.Code] = true
	}
}

func TestCreateSession_RetriesOnCollision(t *testing.T) {
	m := New()
	occupied := m.CreateSession(100, 1)

	// Скриптуем генератор: сначала индексы символов занятого кода,
	// потом валидный свободный код
	var script []int
	for _, r := range occupied.Code {
		script = append(script, strings.IndexRune(codeAlphabet, r))
	}
	for i := 0; i < codeLength; i++ {
		script = append(script, (script[i]+1)%len(codeAlphabet))
	}

	calls := 0
	m.randInt = func(n int) int {
		idx := script[calls%len(script)]
		calls++
		return idx
	}

	session := m.CreateSession(200, 2)
	require.NotEqual(t, occupied.Code, session.Code)
	require.Equal(t, 2*codeLength, calls, "ожидалась ровно одна перегенерация")

	// Обе сессии остаются доступными по своим кодам
	byCode, err := m.GetByCode(occupied.Code)
	require.NoError(t, err)
	require.Same(t, occupied, byCode)

	byCode, err = m.GetByCode(session.Code)
	require.NoError(t, err)
	require.Same(t, session, byCode)
}

func TestGeneratedCodeAlphabet(t *testing.T) {
	m := New()
	for i := 0; i < 100; i++ {
		code := m.generateCode()
		if len(code) != codeLength {
			t.Fatalf("len(%q) = %d, want %d", code, len(code), codeLength)
		}
		for _, r := range code {
			if !strings.ContainsRune(codeAlphabet, r) {
				t.Fatalf("код %q содержит символ %q вне алфавита", code, r)
			}
		}
	}
}

func TestSessionErrorsAreGameErrors(t *testing.T) {
	m := New()
	_, err := m.GetByChat(1)
	if !game.IsGameError(err) {
		t.Errorf("GetByChat вернул не игровую ошибку: %v", err)
	}
	if game.IsGameError(errors.New("boom")) {
		t.Error("посторонняя ошибка прошла за игровую")
	}
}
