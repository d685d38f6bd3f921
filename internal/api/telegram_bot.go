package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/abelzeko/powercut-bot/internal/usecases"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

// TelegramBot handles interactions with the Telegram API
type TelegramBot struct {
	bot      *tgbotapi.BotAPI
	services *Services
}

// NewTelegramBot creates a new Telegram bot handler
func NewTelegramBot(botToken string, services *Services) (*TelegramBot, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &TelegramBot{
		bot:      bot,
		services: services,
	}, nil
}

// Start begins listening for and handling Telegram messages until ctx is done
func (t *TelegramBot) Start(ctx context.Context) {
	log.Info().Str("account", t.bot.Self.UserName).Msg("authorized on telegram")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.bot.GetUpdatesChan(u)
	log.Info().Msg("bot is now listening for messages")

	for {
		select {
		case <-ctx.Done():
			t.bot.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			log.Info().
				Str("user", update.Message.From.UserName).
				Int64("user_id", update.Message.From.ID).
				Str("text", update.Message.Text).
				Msg("received message")

			msg := tgbotapi.NewMessage(update.Message.Chat.ID, t.reply(ctx, update.Message))
			if _, err := t.bot.Send(msg); err != nil {
				log.Error().Err(err).Msg("error sending message")
			}
		}
	}
}

// reply builds the response text for a message
func (t *TelegramBot) reply(ctx context.Context, message *tgbotapi.Message) string {
	if !message.IsCommand() {
		// Any free text is treated as an outage report for that location.
		return t.predictionText(ctx, message.Text)
	}

	switch message.Command() {
	case "start":
		return "Welcome to the Power Cut Bot! Send your area name or use /predict [location] to get an outage estimate. Use /help for more information."

	case "help":
		return "Available commands:\n" +
			"/start - Start the bot\n" +
			"/predict [location] - Estimate today's outage duration\n" +
			"/level - Show the latest Lake Kariba water level\n" +
			"/locations - Show known locations\n" +
			"/help - Show this help message"

	case "predict":
		return t.predictionText(ctx, message.CommandArguments())

	case "level":
		return t.levelText(ctx)

	case "locations":
		return t.locationsText()

	default:
		log.Debug().Str("command", message.Command()).Msg("unknown command")
		return "Unknown command. Use /help to see available commands."
	}
}

func (t *TelegramBot) predictionText(ctx context.Context, location string) string {
	location = strings.TrimSpace(location)
	if location == "" {
		return "Please specify a location. Example: /predict Harare"
	}
	result := usecases.HandleOutageReport(ctx, t.services.Predictions, usecases.OutageReport{Location: location})
	return result.Prediction
}

func (t *TelegramBot) levelText(ctx context.Context) string {
	sample, ok := t.services.Levels.Latest(ctx)
	if !ok {
		return "No water level data available at the moment."
	}
	trend := t.services.Levels.Trend(t.services.TrendWindow)
	return usecases.FormatWaterLevel(sample, trend, t.services.TrendWindow)
}

func (t *TelegramBot) locationsText() string {
	locations := t.services.Locations.Locations()
	if len(locations) == 0 {
		return "No locations are configured."
	}

	var result strings.Builder
	result.WriteString("Known locations:\n\n")
	for _, location := range locations {
		result.WriteString("• " + location + "\n")
	}
	result.WriteString("\nUse /predict [location] to get an estimate.")
	return result.String()
}
