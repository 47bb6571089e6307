package telegram

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tg-lobby-bot/internal/config"
)

type Bot struct {
	bot     *tgbotapi.BotAPI
	handler *Handler
}

// NewBot подключается к Telegram API и собирает обработчики.
func NewBot(cfg *config.Config, games GameDirectory) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}

	handler := NewHandler(botAPI, games, NewLocales(cfg.DefaultLang))

	return &Bot{
		bot:     botAPI,
		handler: handler,
	}, nil
}

func (b *Bot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.bot.GetUpdatesChan(u)

	log.Println("Bot started!")

	for update := range updates {
		if update.Message != nil { // If we got a message
			b.handleMessage(update.Message)
		} else if update.CallbackQuery != nil {
			b.handler.HandleCallback(update.CallbackQuery)
		}
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.handler.HandleMenu(msg.Chat.ID)
	case "help":
		b.handler.HandleHelp(msg.Chat.ID)
	case "newgame":
		b.handler.HandleNewGame(msg)
	case "join":
		b.handler.HandleJoinCommand(msg)
	case "players":
		b.handler.HandlePlayers(msg.Chat.ID)
	case "startgame":
		b.handler.HandleStartGame(msg.Chat.ID, msg.From.ID)
	case "status":
		b.handler.HandleStatus(msg.Chat.ID)
	case "lang":
		b.handler.HandleLanguages(msg.Chat.ID)
	default:
		// Не команда: возможно, чат присылает код вступления
		b.handler.HandleText(msg)
	}
}
