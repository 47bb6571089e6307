package game

import "errors"

// gameError - базовая ошибка игрового ядра. Все ошибки ниже имеют этот тип,
// поэтому обработчики могут ловить их как по конкретному значению через
// errors.Is, так и всем классом сразу через IsGameError.
type gameError struct {
	msg string
}

func (e *gameError) Error() string { return e.msg }

var (
	// ErrSessionNotFound - для чата или кода нет активной сессии
	ErrSessionNotFound error = &gameError{"session not found"}
	// ErrSessionAlreadyStarted - игра уже началась, лобби закрыто
	ErrSessionAlreadyStarted error = &gameError{"session already started"}
	// ErrPlayerAlreadyJoined - игрок уже в лобби
	ErrPlayerAlreadyJoined error = &gameError{"player already joined"}
	// ErrSessionFull - лобби заполнено
	ErrSessionFull error = &gameError{"session is full"}
	// ErrNotEnoughPlayers - недостаточно игроков для старта
	ErrNotEnoughPlayers error = &gameError{"not enough players"}
	// ErrNotOwner - начать игру может только создатель
	ErrNotOwner error = &gameError{"only the owner can start the game"}
)

// IsGameError сообщает, относится ли err к ошибкам игрового ядра.
// Любая из них ожидаема и не фатальна для процесса.
func IsGameError(err error) bool {
	var ge *gameError
	return errors.As(err, &ge)
}
