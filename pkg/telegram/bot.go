package telegram

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/korjavin/kitchentimer/pkg/logger"
)

// Bot represents a Telegram bot instance
type Bot struct {
	api    *tgbotapi.BotAPI
	logger *logger.Logger
}

// HandlerFunc is a function that handles a Telegram update
type HandlerFunc func(update tgbotapi.Update)

// CommandHandler is a function that handles a Telegram command
type CommandHandler func(message *tgbotapi.Message)

// CallbackHandler is a function that handles a Telegram callback query
type CallbackHandler func(callback *tgbotapi.CallbackQuery)

// Handlers routes updates. Callback handlers are keyed by data prefix
type Handlers struct {
	Commands  map[string]CommandHandler
	Callbacks map[string]CallbackHandler
	Default   HandlerFunc
}

// New creates a new Telegram bot instance
func New(token string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Telegram bot")
	}

	bot := &Bot{
		api:    api,
		logger: logger.New("telegram"),
	}

	bot.logger.Info("Telegram bot created: @%s", api.Self.UserName)
	return bot, nil
}

// Start listens for updates until ctx is done
func (b *Bot) Start(ctx context.Context, h Handlers) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	prefixes := callbackPrefixes(h.Callbacks)

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return errors.New("update channel closed")
			}
			b.dispatch(update, h, prefixes)
		}
	}
}

func (b *Bot) dispatch(update tgbotapi.Update, h Handlers, prefixes []string) {
	// Create a chat-specific logger if we have a chat ID
	log := b.logger
	if chat := update.FromChat(); chat != nil {
		log = b.logger.With(fmt.Sprintf("%d", chat.ID))
	}

	// Handle commands
	if update.Message != nil && update.Message.IsCommand() {
		command := update.Message.Command()
		if handler, ok := h.Commands[command]; ok {
			log.Info("Handling command: %s from user %s", command, userName(update.Message.From))
			handler(update.Message)
			return
		}
	}

	// Handle callback queries
	if update.CallbackQuery != nil {
		if prefix, ok := matchCallback(prefixes, update.CallbackQuery.Data); ok {
			log.Info("Handling callback: %s from user %s", update.CallbackQuery.Data, userName(update.CallbackQuery.From))
			h.Callbacks[prefix](update.CallbackQuery)
		} else {
			log.Warn("No handler for callback %q", update.CallbackQuery.Data)
		}
		return
	}

	// Use default handler for other updates
	if h.Default != nil {
		h.Default(update)
	}
}

// callbackPrefixes returns the prefixes longest first so that the most
// specific handler wins
func callbackPrefixes(callbacks map[string]CallbackHandler) []string {
	prefixes := make([]string, 0, len(callbacks))
	for prefix := range callbacks {
		prefixes = append(prefixes, prefix)
	}
	sort.Slice(prefixes, func(i, j int) bool {
		if len(prefixes[i]) != len(prefixes[j]) {
			return len(prefixes[i]) > len(prefixes[j])
		}
		return prefixes[i] < prefixes[j]
	})
	return prefixes
}

func matchCallback(prefixes []string, data string) (string, bool) {
	for _, prefix := range prefixes {
		if strings.HasPrefix(data, prefix) {
			return prefix, true
		}
	}
	return "", false
}

func userName(u *tgbotapi.User) string {
	if u == nil {
		return "unknown"
	}
	if u.UserName != "" {
		return u.UserName
	}
	return u.FirstName
}

// SendMessage sends a text message to a chat
func (b *Bot) SendMessage(chatID int64, text string) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	return b.api.Send(msg)
}

// SendMessageWithKeyboard sends a text message with an inline keyboard
func (b *Bot) SendMessageWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	return b.api.Send(msg)
}

// AnswerCallbackQuery answers a callback query
func (b *Bot) AnswerCallbackQuery(callbackID string, text string) error {
	callback := tgbotapi.NewCallback(callbackID, text)
	_, err := b.api.Request(callback)
	return err
}

// EditMessage edits a message
func (b *Bot) EditMessage(chatID int64, messageID int, text string) (tgbotapi.Message, error) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	return b.api.Send(edit)
}

// EditMessageWithKeyboard replaces a message's text and inline keyboard
func (b *Bot) EditMessageWithKeyboard(chatID int64, messageID int, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, keyboard)
	return b.api.Send(edit)
}
