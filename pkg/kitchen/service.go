// Package kitchen is the chat front end of the cooking timers. It turns
// Telegram commands and button presses into timer store operations and
// presents finished timers as "dish ready" messages, one per timer, in the
// order they finished.
package kitchen

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/korjavin/kitchentimer/pkg/logger"
	"github.com/korjavin/kitchentimer/pkg/messages"
	"github.com/korjavin/kitchentimer/pkg/models"
	"github.com/korjavin/kitchentimer/pkg/notify"
	"github.com/korjavin/kitchentimer/pkg/presets"
	"github.com/korjavin/kitchentimer/pkg/state"
	"github.com/korjavin/kitchentimer/pkg/stats"
	"github.com/korjavin/kitchentimer/pkg/timer"
)

// DefaultMaxTimersPerChat bounds how many timers one chat may hold
const DefaultMaxTimersPerChat = 20

// Messenger is the subset of the Telegram bot the kitchen talks to
type Messenger interface {
	SendMessage(chatID int64, text string) (tgbotapi.Message, error)
	SendMessageWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	EditMessage(chatID int64, messageID int, text string) (tgbotapi.Message, error)
	EditMessageWithKeyboard(chatID int64, messageID int, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	AnswerCallbackQuery(callbackID string, text string) error
}

// Options tunes the kitchen service
type Options struct {
	MaxTimersPerChat int
	Presets          *presets.Book
}

// Service handles chat interaction with the timer store
type Service struct {
	store     *timer.Store
	stats     *stats.Service
	presets   *presets.Book
	states    *state.Manager
	bot       Messenger
	queue     *notify.Queue
	maxTimers int
	now       func() time.Time
	logger    *logger.Logger
}

// New creates a kitchen service
func New(store *timer.Store, statsService *stats.Service, bot Messenger, opts Options) *Service {
	s := &Service{
		store:     store,
		stats:     statsService,
		presets:   opts.Presets,
		states:    state.New(),
		bot:       bot,
		maxTimers: opts.MaxTimersPerChat,
		now:       time.Now,
		logger:    logger.New("kitchen"),
	}
	if s.presets == nil {
		s.presets = presets.Defaults()
	}
	if s.maxTimers <= 0 {
		s.maxTimers = DefaultMaxTimersPerChat
	}
	s.queue = notify.NewQueue(s)
	return s
}

// Run delivers queued completion notifications until ctx is done
func (s *Service) Run(ctx context.Context) error {
	return s.queue.Run(ctx)
}

// HandleCompletion is the scheduler's completion callback. It only queues
// the notification so the scheduler is never held up by Telegram
func (s *Service) HandleCompletion(t models.Timer) {
	s.queue.Push(notify.Notification{
		ChatID: t.ChatID,
		Timer:  t,
		At:     s.now(),
	})
}

// Deliver sends the "dish ready" message and records the completion
func (s *Service) Deliver(_ context.Context, n notify.Notification) error {
	if s.stats != nil {
		if err := s.stats.RecordCompletion(n.Timer, n.At); err != nil {
			s.logger.Error("Failed to record completion of timer %s: %v", n.Timer.ID, err)
		}
	}

	_, err := s.bot.SendMessage(n.ChatID, messages.DishReady(n.Timer))
	return err
}
