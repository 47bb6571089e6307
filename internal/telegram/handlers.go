package telegram

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tg-lobby-bot/internal/game"
)

// MessageSender определяет интерфейс для отправки сообщений.
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// GameDirectory - интерфейс реестра сессий (storage.Memory), нужен для моков.
type GameDirectory interface {
	CreateSession(chatID, ownerID int64) *game.Session
	GetByChat(chatID int64) (*game.Session, error)
	GetByCode(code string) (*game.Session, error)
}

type Handler struct {
	Bot     MessageSender
	Games   GameDirectory
	Locales *Locales

	// Чаты, от которых ждем код вступления после /join без аргумента.
	mu           sync.Mutex
	awaitingCode map[int64]bool
}

func NewHandler(bot MessageSender, games GameDirectory, locales *Locales) *Handler {
	return &Handler{
		Bot:          bot,
		Games:        games,
		Locales:      locales,
		awaitingCode: make(map[int64]bool),
	}
}

// HandleMenu - /start
func (h *Handler) HandleMenu(chatID int64) {
	lang := h.Locales.Lang(chatID)
	reply := newHTMLMessage(chatID, localize(lang, "menu_title"))
	reply.ReplyMarkup = mainMenu(lang)
	sendMessage(h.Bot, reply)
}

// HandleHelp - /help
func (h *Handler) HandleHelp(chatID int64) {
	lang := h.Locales.Lang(chatID)
	sendMessage(h.Bot, newHTMLMessage(chatID, localize(lang, "help")))
}

// HandleNewGame - /newgame, только в группах
func (h *Handler) HandleNewGame(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	lang := h.Locales.Lang(chatID)

	if !isGroup(msg.Chat) {
		sendMessage(h.Bot, newHTMLMessage(chatID, localize(lang, "only_group_cmd")))
		return
	}

	session := h.createGame(chatID, msg.From)
	reply := newHTMLMessage(chatID, localize(lang, "game_created", "code", session.Code))
	reply.ReplyMarkup = mainMenu(lang)
	sendMessage(h.Bot, reply)
}

// createGame создает сессию и сразу добавляет в нее создателя.
// Автовход владельца - политика чат-слоя, ядро этого не требует.
func (h *Handler) createGame(chatID int64, from *tgbotapi.User) *game.Session {
	session := h.Games.CreateSession(chatID, from.ID)
	if _, err := session.AddPlayer(from.ID, from.UserName); err != nil {
		log.Printf("Failed to auto-join owner: %v", err)
	}
	return session
}

// HandleJoinCommand - /join [CODE]. Без аргумента переводит чат в режим
// ожидания кода: следующее текстовое сообщение будет прочитано как код.
func (h *Handler) HandleJoinCommand(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	lang := h.Locales.Lang(chatID)

	if !isGroup(msg.Chat) {
		sendMessage(h.Bot, newHTMLMessage(chatID, localize(lang, "join_only_group")))
		return
	}

	if code := strings.TrimSpace(msg.CommandArguments()); code != "" {
		h.doJoin(chatID, msg.From, code)
		return
	}

	h.setAwaitingCode(chatID)
	sendMessage(h.Bot, newHTMLMessage(chatID, localize(lang, "send_join_code")))
}

// HandleText обрабатывает обычные сообщения. Интересны только чаты,
// ожидающие код вступления.
func (h *Handler) HandleText(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if !h.isAwaitingCode(chatID) {
		return
	}

	if !isGroup(msg.Chat) {
		h.clearAwaitingCode(chatID)
		return
	}

	code := strings.TrimSpace(msg.Text)
	if code == "" {
		lang := h.Locales.Lang(chatID)
		sendMessage(h.Bot, newHTMLMessage(chatID, localize(lang, "send_join_code")))
		return
	}

	h.clearAwaitingCode(chatID)
	h.doJoin(chatID, msg.From, code)

	// Убираем сообщение с кодом, чтобы не засорять чат.
	// Сработает, только если бот - админ группы.
	if _, err := h.Bot.Request(tgbotapi.NewDeleteMessage(chatID, msg.MessageID)); err != nil {
		log.Printf("Failed to delete code message: %v", err)
	}
}

func (h *Handler) doJoin(chatID int64, from *tgbotapi.User, code string) {
	lang := h.Locales.Lang(chatID)

	session, err := h.Games.GetByCode(code)
	if err != nil {
		h.sendGameError(chatID, lang, err)
		return
	}
	// Код чужой группы не дает вступить в ее лобби отсюда.
	if session.ChatID != chatID {
		sendMessage(h.Bot, newHTMLMessage(chatID, localize(lang, "code_other_group")))
		return
	}

	player, err := session.AddPlayer(from.ID, from.UserName)
	if err != nil {
		h.sendGameError(chatID, lang, err)
		return
	}
	sendMessage(h.Bot, newHTMLMessage(chatID, localize(lang, "joined", "username", player.Username)))
}

// HandlePlayers - /players
func (h *Handler) HandlePlayers(chatID int64) {
	lang := h.Locales.Lang(chatID)
	session, err := h.Games.GetByChat(chatID)
	if err != nil {
		h.sendGameError(chatID, lang, err)
		return
	}
	sendMessage(h.Bot, newHTMLMessage(chatID, formatPlayers(lang, session)))
}

// HandleStartGame - /startgame, доступна только создателю лобби
func (h *Handler) HandleStartGame(chatID, userID int64) {
	lang := h.Locales.Lang(chatID)
	session, err := h.Games.GetByChat(chatID)
	if err != nil {
		h.sendGameError(chatID, lang, err)
		return
	}
	if err := session.Start(userID); err != nil {
		h.sendGameError(chatID, lang, err)
		return
	}
	sendMessage(h.Bot, newHTMLMessage(chatID, localize(lang, "game_started")))
}

// HandleStatus - /status
func (h *Handler) HandleStatus(chatID int64) {
	lang := h.Locales.Lang(chatID)
	session, err := h.Games.GetByChat(chatID)
	if err != nil {
		h.sendGameError(chatID, lang, err)
		return
	}
	sendMessage(h.Bot, newHTMLMessage(chatID, statusText(lang, session)))
}

// HandleLanguages - /lang
func (h *Handler) HandleLanguages(chatID int64) {
	lang := h.Locales.Lang(chatID)
	reply := newHTMLMessage(chatID, localize(lang, "lang_choose"))
	reply.ReplyMarkup = languagesMenu(lang)
	sendMessage(h.Bot, reply)
}

// HandleCallback обрабатывает нажатия инлайн-кнопок. Вместо новых
// сообщений меню редактируется на месте.
func (h *Handler) HandleCallback(callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	lang := h.Locales.Lang(chatID)
	data := callback.Data

	// Убираем "часики" на кнопке
	if _, err := h.Bot.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		log.Printf("Failed to answer callback: %v", err)
	}

	switch {
	case data == "menu":
		h.clearAwaitingCode(chatID)
		h.editMenu(callback, localize(lang, "menu_title"), mainMenu(lang))

	case data == "help":
		h.editMenu(callback, localize(lang, "help"), backMenu(lang))

	case data == "languages":
		h.editMenu(callback, localize(lang, "lang_choose"), languagesMenu(lang))

	case strings.HasPrefix(data, "lang:"):
		newLang := h.Locales.SetLang(chatID, strings.TrimPrefix(data, "lang:"))
		h.clearAwaitingCode(chatID)
		h.editMenu(callback, localize(newLang, "lang_set_"+newLang), mainMenu(newLang))

	case data == "join_flow":
		if !isGroup(callback.Message.Chat) {
			h.editMenu(callback, localize(lang, "join_only_group"), backMenu(lang))
			return
		}
		h.setAwaitingCode(chatID)
		h.editMenu(callback, localize(lang, "send_join_code"), backMenu(lang))

	case data == "newgame":
		if !isGroup(callback.Message.Chat) {
			h.editMenu(callback, localize(lang, "only_group_cmd"), backMenu(lang))
			return
		}
		session := h.createGame(chatID, callback.From)
		h.editMenu(callback, localize(lang, "game_created", "code", session.Code), backMenu(lang))

	case data == "players":
		session, err := h.Games.GetByChat(chatID)
		if err != nil {
			h.editMenu(callback, "⚠️ "+localize(lang, errKey(err)), backMenu(lang))
			return
		}
		h.editMenu(callback, formatPlayers(lang, session), backMenu(lang))

	case data == "start":
		session, err := h.Games.GetByChat(chatID)
		if err == nil {
			err = session.Start(callback.From.ID)
		}
		if err != nil {
			h.editMenu(callback, "⚠️ "+localize(lang, errKey(err)), backMenu(lang))
			return
		}
		h.editMenu(callback, localize(lang, "game_started"), backMenu(lang))

	case data == "status":
		session, err := h.Games.GetByChat(chatID)
		if err != nil {
			h.editMenu(callback, "⚠️ "+localize(lang, errKey(err)), backMenu(lang))
			return
		}
		h.editMenu(callback, statusText(lang, session), backMenu(lang))
	}
}

func (h *Handler) editMenu(callback *tgbotapi.CallbackQuery, text string, markup tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(callback.Message.Chat.ID, callback.Message.MessageID, text, markup)
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := h.Bot.Request(edit); err != nil {
		// типичная причина: "message is not modified"
		log.Printf("Failed to edit menu message: %v", err)
	}
}

func (h *Handler) sendGameError(chatID int64, lang string, err error) {
	if !game.IsGameError(err) {
		log.Printf("Unexpected error in chat %d: %v", chatID, err)
	}
	sendMessage(h.Bot, newHTMLMessage(chatID, "⚠️ "+localize(lang, errKey(err))))
}

func (h *Handler) setAwaitingCode(chatID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.awaitingCode[chatID] = true
}

func (h *Handler) clearAwaitingCode(chatID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.awaitingCode, chatID)
}

func (h *Handler) isAwaitingCode(chatID int64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.awaitingCode[chatID]
}

func formatPlayers(lang string, session *game.Session) string {
	players := session.Players()
	lines := make([]string, 0, len(players)+1)
	lines = append(lines, localize(lang, "players_header",
		"count", strconv.Itoa(len(players)),
		"max", strconv.Itoa(session.MaxPlayers)))
	for i, p := range players {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, p.Username))
	}
	return strings.Join(lines, "\n")
}

func statusText(lang string, session *game.Session) string {
	return localize(lang, "status",
		"state", string(session.State()),
		"code", session.Code,
		"count", strconv.Itoa(session.PlayerCount()),
		"max", strconv.Itoa(session.MaxPlayers))
}

func mainMenu(lang string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(localize(lang, "btn_newgame"), "newgame")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(localize(lang, "btn_join"), "join_flow")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(localize(lang, "btn_players"), "players")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(localize(lang, "btn_start"), "start")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(localize(lang, "btn_status"), "status")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(localize(lang, "btn_help"), "help")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(localize(lang, "btn_languages"), "languages")),
	)
}

func backMenu(lang string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(localize(lang, "btn_back"), "menu")),
	)
}

func languagesMenu(lang string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("English", "lang:en"),
			tgbotapi.NewInlineKeyboardButtonData("Русский", "lang:ru"),
			tgbotapi.NewInlineKeyboardButtonData("עברית", "lang:he"),
		),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(localize(lang, "btn_back"), "menu")),
	)
}
