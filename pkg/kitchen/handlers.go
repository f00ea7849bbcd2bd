package kitchen

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/korjavin/kitchentimer/pkg/messages"
	"github.com/korjavin/kitchentimer/pkg/models"
	"github.com/korjavin/kitchentimer/pkg/state"
	"github.com/korjavin/kitchentimer/pkg/telegram"
	"github.com/korjavin/kitchentimer/pkg/timer"
)

// Callback data prefixes of the timer list buttons
const (
	toggleCallback        = "toggle:"
	resetCallback         = "reset:"
	deleteCallback        = "delete:"
	deleteConfirmCallback = "delete_confirm:"
	deleteCancelCallback  = "delete_cancel:"
)

const (
	topTimersLimit = 5
	historyLimit   = 10
)

// Handlers returns the bot routing table for the kitchen
func (s *Service) Handlers() telegram.Handlers {
	return telegram.Handlers{
		Commands: map[string]telegram.CommandHandler{
			"start":   s.handleStart,
			"help":    s.handleHelp,
			"timer":   s.handleTimer,
			"timers":  s.handleTimers,
			"presets": s.handlePresets,
			"preset":  s.handlePreset,
			"stats":   s.handleStats,
			"history": s.handleHistory,
		},
		Callbacks: map[string]telegram.CallbackHandler{
			toggleCallback:        s.handleToggle,
			resetCallback:         s.handleReset,
			deleteCallback:        s.handleDelete,
			deleteConfirmCallback: s.handleDeleteConfirm,
			deleteCancelCallback:  s.handleDeleteCancel,
		},
		Default: s.handleText,
	}
}

func (s *Service) send(chatID int64, text string) {
	if _, err := s.bot.SendMessage(chatID, text); err != nil {
		s.logger.Error("Failed to send message to chat %d: %v", chatID, err)
	}
}

func (s *Service) answer(cb *tgbotapi.CallbackQuery, text string) {
	if err := s.bot.AnswerCallbackQuery(cb.ID, text); err != nil {
		s.logger.Error("Failed to answer callback %s: %v", cb.ID, err)
	}
}

func (s *Service) handleStart(message *tgbotapi.Message) {
	s.states.ClearState(message.Chat.ID)
	s.send(message.Chat.ID, messages.Welcome)
}

func (s *Service) handleHelp(message *tgbotapi.Message) {
	s.send(message.Chat.ID, messages.Help)
}

func (s *Service) handleTimer(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	args := strings.TrimSpace(message.CommandArguments())
	if args == "" {
		s.states.SetState(chatID, state.StateAwaitingTimer)
		s.send(chatID, messages.AskForTimer)
		return
	}
	s.addTimerFromText(chatID, args)
}

// handleText completes a /timer command that was sent without arguments
func (s *Service) handleText(update tgbotapi.Update) {
	message := update.Message
	if message == nil || message.IsCommand() || message.Text == "" {
		return
	}
	chatID := message.Chat.ID
	if s.states.GetState(chatID) != state.StateAwaitingTimer {
		return
	}
	if s.addTimerFromText(chatID, message.Text) {
		s.states.ClearState(chatID)
	}
}

// addTimerFromText creates and starts a timer from "<name> <duration>"
func (s *Service) addTimerFromText(chatID int64, text string) bool {
	name, seconds, err := parseTimerArgs(text)
	if err != nil {
		s.send(chatID, fmt.Sprintf("😢 %s\n%s", userError(err), messages.AskForTimer))
		return false
	}
	_, ok := s.createAndStart(chatID, name, seconds, models.ManualRecipe)
	return ok
}

func (s *Service) createAndStart(chatID int64, name string, seconds int, recipeID string) (models.Timer, bool) {
	if existing := s.store.ListChat(chatID); len(existing) >= s.maxTimers {
		s.send(chatID, limitMessage(existing))
		return models.Timer{}, false
	}

	id, err := s.store.Create(name, seconds, timer.WithChat(chatID), timer.WithRecipe(recipeID))
	if err != nil {
		s.send(chatID, "😢 "+userError(err))
		return models.Timer{}, false
	}
	if err := s.store.Start(id); err != nil {
		s.logger.Warn("Timer %s vanished before it could start: %v", id, err)
		s.send(chatID, messages.TimerGone)
		return models.Timer{}, false
	}

	t, err := s.store.Get(id)
	if err != nil {
		s.logger.Warn("Timer %s vanished after start: %v", id, err)
		s.send(chatID, messages.TimerGone)
		return models.Timer{}, false
	}
	s.logger.Info("Chat %d started timer %s (%s, %ds)", chatID, id, t.Name, t.DurationSeconds)
	s.send(chatID, messages.TimerCreated(t, true))
	return t, true
}

func (s *Service) handleTimers(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	timers := s.store.ListChat(chatID)
	if len(timers) == 0 {
		s.send(chatID, messages.NoTimers)
		return
	}
	if _, err := s.bot.SendMessageWithKeyboard(chatID, messages.TimerList(timers), timerKeyboard(timers)); err != nil {
		s.logger.Error("Failed to send timer list to chat %d: %v", chatID, err)
	}
}

func (s *Service) handlePresets(message *tgbotapi.Message) {
	s.send(message.Chat.ID, messages.PresetList(s.presets.List()))
}

func (s *Service) handlePreset(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	name := strings.TrimSpace(message.CommandArguments())
	if name == "" {
		s.send(chatID, messages.PresetList(s.presets.List()))
		return
	}
	p, ok := s.presets.Lookup(name)
	if !ok {
		s.send(chatID, fmt.Sprintf("😢 I don't know a preset called %q. See /presets.", name))
		return
	}
	s.createAndStart(chatID, p.Name, p.DurationSeconds(), presetRecipe(p.Name))
}

func (s *Service) handleStats(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	st, err := s.stats.GetStatistics(chatID)
	if err != nil {
		s.logger.Error("Failed to load statistics for chat %d: %v", chatID, err)
		s.send(chatID, "😢 Couldn't load your statistics right now.")
		return
	}
	top, err := s.stats.GetTopTimers(chatID, topTimersLimit)
	if err != nil {
		s.logger.Error("Failed to load top timers for chat %d: %v", chatID, err)
	}
	s.send(chatID, messages.Statistics(st, top))
}

func (s *Service) handleHistory(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	completions, err := s.stats.RecentCompletions(chatID, historyLimit)
	if err != nil {
		s.logger.Error("Failed to load history for chat %d: %v", chatID, err)
		s.send(chatID, "😢 Couldn't load your history right now.")
		return
	}
	s.send(chatID, messages.History(completions, s.now()))
}

// ownedTimer resolves the timer a button refers to. Timers of other chats
// are reported as missing
func (s *Service) ownedTimer(cb *tgbotapi.CallbackQuery, prefix string) (models.Timer, bool) {
	id := strings.TrimPrefix(cb.Data, prefix)
	chatID := callbackChat(cb)

	t, err := s.store.Get(id)
	if err == nil && t.ChatID != chatID {
		err = errors.Wrapf(timer.ErrNotFound, "timer %s belongs to another chat", id)
	}
	if err != nil {
		s.logger.Warn("Callback %q from chat %d: %v", cb.Data, chatID, err)
		s.answer(cb, messages.TimerGone)
		s.refreshList(cb)
		return models.Timer{}, false
	}
	return t, true
}

func (s *Service) handleToggle(cb *tgbotapi.CallbackQuery) {
	t, ok := s.ownedTimer(cb, toggleCallback)
	if !ok {
		return
	}
	active, err := s.store.Toggle(t.ID)
	if err != nil {
		s.logger.Warn("Toggle of timer %s failed: %v", t.ID, err)
		s.answer(cb, messages.TimerGone)
		s.refreshList(cb)
		return
	}

	switch {
	case active:
		s.answer(cb, "▶️ "+t.Name+" is running")
	case t.Elapsed():
		s.answer(cb, "✅ "+t.Name+" is done. Reset it to cook again.")
	default:
		s.answer(cb, "⏸ "+t.Name+" paused")
	}
	s.refreshList(cb)
}

func (s *Service) handleReset(cb *tgbotapi.CallbackQuery) {
	t, ok := s.ownedTimer(cb, resetCallback)
	if !ok {
		return
	}
	if err := s.store.Reset(t.ID); err != nil {
		s.logger.Warn("Reset of timer %s failed: %v", t.ID, err)
		s.answer(cb, messages.TimerGone)
		s.refreshList(cb)
		return
	}
	s.answer(cb, "🔄 "+t.Name+" reset to "+timer.FormatClock(t.DurationSeconds))
	s.refreshList(cb)
}

func (s *Service) handleDelete(cb *tgbotapi.CallbackQuery) {
	t, ok := s.ownedTimer(cb, deleteCallback)
	if !ok {
		return
	}
	s.answer(cb, "")
	if cb.Message == nil {
		return
	}
	if _, err := s.bot.EditMessageWithKeyboard(cb.Message.Chat.ID, cb.Message.MessageID, messages.ConfirmDelete(t), confirmKeyboard(t.ID)); err != nil {
		s.logger.Error("Failed to ask for delete confirmation: %v", err)
	}
}

func (s *Service) handleDeleteConfirm(cb *tgbotapi.CallbackQuery) {
	t, ok := s.ownedTimer(cb, deleteConfirmCallback)
	if !ok {
		return
	}
	s.store.Delete(t.ID)
	s.logger.Info("Chat %d deleted timer %s (%s)", t.ChatID, t.ID, t.Name)
	s.answer(cb, messages.Deleted(t.Name))
	s.refreshList(cb)
}

func (s *Service) handleDeleteCancel(cb *tgbotapi.CallbackQuery) {
	s.answer(cb, "")
	s.refreshList(cb)
}

// refreshList redraws the timer list message a button belongs to
func (s *Service) refreshList(cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	timers := s.store.ListChat(chatID)

	var err error
	if len(timers) == 0 {
		_, err = s.bot.EditMessage(chatID, cb.Message.MessageID, messages.NoTimers)
	} else {
		_, err = s.bot.EditMessageWithKeyboard(chatID, cb.Message.MessageID, messages.TimerList(timers), timerKeyboard(timers))
	}
	if err != nil {
		s.logger.Error("Failed to refresh timer list in chat %d: %v", chatID, err)
	}
}

// limitMessage explains the per-chat limit. Finished timers stay in the
// list until deleted and still count
func limitMessage(timers []models.Timer) string {
	finished := 0
	for _, t := range timers {
		if t.Elapsed() {
			finished++
		}
	}
	if finished == 0 {
		return fmt.Sprintf("😢 You already have %d timers. Delete one from /timers first.", len(timers))
	}
	return fmt.Sprintf("😢 You already have %d timers, %d of them finished. Delete finished timers from /timers first.", len(timers), finished)
}

func callbackChat(cb *tgbotapi.CallbackQuery) int64 {
	if cb.Message != nil && cb.Message.Chat != nil {
		return cb.Message.Chat.ID
	}
	if cb.From != nil {
		return cb.From.ID
	}
	return 0
}

// timerKeyboard builds one row of buttons per timer
func timerKeyboard(timers []models.Timer) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(timers))
	for _, t := range timers {
		play := "▶️ " + t.Name
		if t.IsActive {
			play = "⏸ " + t.Name
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(play, toggleCallback+t.ID),
			tgbotapi.NewInlineKeyboardButtonData("🔄", resetCallback+t.ID),
			tgbotapi.NewInlineKeyboardButtonData("🗑", deleteCallback+t.ID),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func confirmKeyboard(id string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Yes, delete", deleteConfirmCallback+id),
		tgbotapi.NewInlineKeyboardButtonData("No", deleteCancelCallback+id),
	))
}
