package telegram

import (
	"errors"
	"strings"
	"sync"

	"golang.org/x/text/language"

	"tg-lobby-bot/internal/game"
)

// LRM - невидимый маркер направления письма. Без него LTR-вставки вроде
// "/join A1B2" разворачиваются внутри ивритского (RTL) текста.
const lrm = "‎"

var (
	supportedTags = []language.Tag{
		language.English, // фолбэк
		language.Russian,
		language.Hebrew,
	}
	langCodes   = []string{"en", "ru", "he"}
	langMatcher = language.NewMatcher(supportedTags)
)

// MatchLang приводит произвольный языковой тег (en-US, ru-RU, iw...)
// к одному из поддерживаемых языков. Непарсящийся тег - английский.
func MatchLang(raw string) string {
	tag, err := language.Parse(raw)
	if err != nil {
		return "en"
	}
	_, idx, _ := langMatcher.Match(tag)
	return langCodes[idx]
}

// Locales хранит язык интерфейса каждого чата. Дефолт берется из конфига.
type Locales struct {
	mu          sync.Mutex
	defaultLang string
	byChat      map[int64]string
}

func NewLocales(defaultLang string) *Locales {
	return &Locales{
		defaultLang: defaultLang,
		byChat:      make(map[int64]string),
	}
}

// Lang возвращает язык чата.
func (l *Locales) Lang(chatID int64) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if lang, ok := l.byChat[chatID]; ok {
		return lang
	}
	return l.defaultLang
}

// SetLang запоминает язык чата и возвращает его нормализованное значение.
func (l *Locales) SetLang(chatID int64, raw string) string {
	lang := MatchLang(raw)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.byChat[chatID] = lang
	return lang
}

func lrmFor(lang string) string {
	if lang == "he" {
		return lrm
	}
	return ""
}

// localize возвращает перевод key на языке lang, подставляя плейсхолдеры
// вида {name} из пар args. Плейсхолдер {lrm} подставляется всегда.
func localize(lang, key string, args ...string) string {
	msgs, ok := tr[lang]
	if !ok {
		msgs = tr["en"]
	}
	text, ok := msgs[key]
	if !ok {
		text = tr["en"][key]
	}
	if text == "" {
		return key
	}

	pairs := []string{"{lrm}", lrmFor(lang)}
	for i := 0; i+1 < len(args); i += 2 {
		pairs = append(pairs, "{"+args[i]+"}", args[i+1])
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// errKey подбирает ключ перевода по виду ошибки ядра. Тексты самих ошибок
// в чат не уходят - пользователь видит только локализованную версию.
func errKey(err error) string {
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		return "err_session_not_found"
	case errors.Is(err, game.ErrPlayerAlreadyJoined):
		return "err_player_already_joined"
	case errors.Is(err, game.ErrSessionAlreadyStarted):
		return "err_session_already_started"
	case errors.Is(err, game.ErrSessionFull):
		return "err_session_full"
	case errors.Is(err, game.ErrNotEnoughPlayers):
		return "err_not_enough_players"
	case errors.Is(err, game.ErrNotOwner):
		return "err_not_owner"
	default:
		return "err_default"
	}
}

var tr = map[string]map[string]string{
	"en": {
		"menu_title":      "Control menu:",
		"btn_newgame":     "🎲 New game",
		"btn_join":        "➕ Join",
		"btn_players":     "👥 Players",
		"btn_start":       "🚀 Start",
		"btn_status":      "ℹ️ Status",
		"btn_help":        "❓ Help",
		"btn_languages":   "🌐 Languages",
		"btn_back":        "⬅️ Back",
		"only_group_cmd":  "This command works only in group chats.",
		"join_only_group": "Join works only in group chats.",
		"send_join_code":  "Send the join code (example: <code>{lrm}A1B2</code>).",
		"game_created": "🎲 <b>Game created!</b>\n" +
			"Code: <b>{code}</b>\n\n" +
			"To join: <code>{lrm}/join {code}</code>\n" +
			"Or press <b>Join</b> in the menu.",
		"joined":           "✅ {username} joined the lobby.",
		"code_other_group": "This code belongs to another group chat.",
		"status":           "Status: <b>{state}</b>\nCode: <b>{code}</b>\nPlayers: {count}/{max}",
		"players_header":   "Players ({count}/{max}):",
		"help": "<b>How to use the bot</b>\n\n" +
			"✅ <b>Create lobby</b>: <code>{lrm}/newgame</code> (group chat only)\n" +
			"➕ <b>Join lobby</b>: <code>{lrm}/join CODE</code> (or press <b>Join</b>)\n" +
			"👥 <b>Players</b>: <code>{lrm}/players</code>\n" +
			"🚀 <b>Start</b>: <code>{lrm}/startgame</code> (owner only)\n\n" +
			"<i>Tip:</i> Use the menu buttons to avoid typing commands.",
		"lang_choose":  "<b>Select language</b>:",
		"lang_set_en":  "✅ Language set to English.",
		"lang_set_ru":  "✅ Language set to Russian.",
		"lang_set_he":  "✅ Language set to Hebrew.",
		"game_started": "🚀 The game has started.",

		"err_session_not_found":       "No active lobby. Use /newgame.",
		"err_player_already_joined":   "You are already in the lobby.",
		"err_session_already_started": "The game has already started.",
		"err_session_full":            "The lobby is full.",
		"err_not_enough_players":      "Not enough players to start.",
		"err_not_owner":               "Only the lobby owner can start the game.",
		"err_default":                 "Something went wrong.",
	},

	"ru": {
		"menu_title":      "Меню управления:",
		"btn_newgame":     "🎲 Новая игра",
		"btn_join":        "➕ Вступить",
		"btn_players":     "👥 Игроки",
		"btn_start":       "🚀 Старт",
		"btn_status":      "ℹ️ Статус",
		"btn_help":        "❓ Помощь",
		"btn_languages":   "🌐 Язык",
		"btn_back":        "⬅️ Назад",
		"only_group_cmd":  "Эта команда работает только в группе.",
		"join_only_group": "Вступление работает только в группе.",
		"send_join_code":  "Отправь код игры (пример: <code>{lrm}A1B2</code>).",
		"game_created": "🎲 <b>Игра создана!</b>\n" +
			"Код: <b>{code}</b>\n\n" +
			"Чтобы вступить: <code>{lrm}/join {code}</code>\n" +
			"Или нажми <b>Вступить</b> в меню.",
		"joined":           "✅ {username} присоединился к лобби.",
		"code_other_group": "Этот код относится к другой группе.",
		"status":           "Статус: <b>{state}</b>\nКод: <b>{code}</b>\nИгроки: {count}/{max}",
		"players_header":   "Игроки ({count}/{max}):",
		"help": "<b>Как пользоваться ботом</b>\n\n" +
			"✅ <b>Создать лобби</b>: <code>{lrm}/newgame</code> (только в группе)\n" +
			"➕ <b>Вступить</b>: <code>{lrm}/join CODE</code> (или кнопка <b>Вступить</b>)\n" +
			"👥 <b>Игроки</b>: <code>{lrm}/players</code>\n" +
			"🚀 <b>Старт</b>: <code>{lrm}/startgame</code> (только создатель)\n\n" +
			"<i>Совет:</i> используй кнопки меню, чтобы не вводить команды.",
		"lang_choose":  "<b>Выбери язык</b>:",
		"lang_set_en":  "✅ Язык переключен на English.",
		"lang_set_ru":  "✅ Язык переключен на Русский.",
		"lang_set_he":  "✅ Язык переключен на עברית.",
		"game_started": "🚀 Игра началась.",

		"err_session_not_found":       "Нет активной игры. Используй /newgame.",
		"err_player_already_joined":   "Ты уже в лобби.",
		"err_session_already_started": "Игра уже началась.",
		"err_session_full":            "Лобби заполнено.",
		"err_not_enough_players":      "Недостаточно игроков для старта.",
		"err_not_owner":               "Только создатель игры может начать.",
		"err_default":                 "Произошла ошибка.",
	},

	"he": {
		"menu_title":      "תפריט שליטה:",
		"btn_newgame":     "🎲 משחק חדש",
		"btn_join":        "➕ הצטרפות",
		"btn_players":     "👥 שחקנים",
		"btn_start":       "🚀 התחלה",
		"btn_status":      "ℹ️ סטטוס",
		"btn_help":        "❓ עזרה",
		"btn_languages":   "🌐 שפה",
		"btn_back":        "⬅️ חזרה",
		"only_group_cmd":  "הפקודה הזו עובדת רק בקבוצות.",
		"join_only_group": "הצטרפות עובדת רק בקבוצות.",
		"send_join_code":  "שלח את קוד ההצטרפות (לדוגמה: <code>{lrm}A1B2</code>).",
		"game_created": "🎲 <b>המשחק נוצר!</b>\n" +
			"קוד: <b>{code}</b>\n\n" +
			"כדי להצטרף: <code>{lrm}/join {code}</code>\n" +
			"או לחץ <b>הצטרפות</b> בתפריט.",
		"joined":           "✅ {username} הצטרף ללובי.",
		"code_other_group": "הקוד הזה שייך לקבוצה אחרת.",
		"status":           "סטטוס: <b>{state}</b>\nקוד: <b>{code}</b>\nשחקנים: {count}/{max}",
		"players_header":   "שחקנים ({count}/{max}):",
		"help": "<b>איך משתמשים בבוט</b>\n\n" +
			"✅ <b>יצירת לובי</b>: <code>{lrm}/newgame</code> (רק בקבוצה)\n" +
			"➕ <b>הצטרפות</b>: <code>{lrm}/join CODE</code> (או כפתור <b>הצטרפות</b>)\n" +
			"👥 <b>שחקנים</b>: <code>{lrm}/players</code>\n" +
			"🚀 <b>התחלה</b>: <code>{lrm}/startgame</code> (רק הבעלים)\n\n" +
			"<i>טיפ:</i> השתמש בכפתורים כדי לא להקליד פקודות.",
		"lang_choose":  "<b>בחר שפה</b>:",
		"lang_set_en":  "✅ השפה הוגדרה לאנגלית.",
		"lang_set_ru":  "✅ השפה הוגדרה לרוסית.",
		"lang_set_he":  "✅ השפה הוגדרה לעברית.",
		"game_started": "🚀 המשחק התחיל.",

		"err_session_not_found":       "אין לובי פעיל. השתמש ב־/newgame.",
		"err_player_already_joined":   "אתה כבר בלובי.",
		"err_session_already_started": "המשחק כבר התחיל.",
		"err_session_full":            "הלובי מלא.",
		"err_not_enough_players":      "אין מספיק שחקנים כדי להתחיל.",
		"err_not_owner":               "רק בעל הלובי יכול להתחיל את המשחק.",
		"err_default":                 "משהו השתבש.",
	},
}
