package bot

import "fmt"

func New(cfg Config, handler Handler) (Bot, error) {
	switch cfg.Provider {
	case "telegram":
		return newTelegram(cfg.Token, handler)
	case "discord":
		return newDiscord(cfg.Token, handler)
	default:
		return nil, fmt.Errorf("unknown bot provider: %s", cfg.Provider)
	}
}
