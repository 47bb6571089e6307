package main

import (
	"log"

	"github.com/samber/do/v2"

	"tg-lobby-bot/internal/config"
	"tg-lobby-bot/internal/storage"
	"tg-lobby-bot/internal/telegram"
)

func main() {
	injector := do.New()

	do.Provide(injector, func(do.Injector) (*config.Config, error) {
		return config.Load()
	})
	do.Provide(injector, func(i do.Injector) (*storage.Memory, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return storage.NewWithLimits(cfg.MinPlayers, cfg.MaxPlayers), nil
	})
	do.Provide(injector, func(i do.Injector) (*telegram.Bot, error) {
		cfg := do.MustInvoke[*config.Config](i)
		games := do.MustInvoke[*storage.Memory](i)
		return telegram.NewBot(cfg, games)
	})

	bot, err := do.Invoke[*telegram.Bot](injector)
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	bot.Start()
}
