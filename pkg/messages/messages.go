package messages

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/korjavin/kitchentimer/pkg/models"
	"github.com/korjavin/kitchentimer/pkg/presets"
	"github.com/korjavin/kitchentimer/pkg/timer"
)

// Welcome is sent for /start
const Welcome = "👋 Welcome to the kitchen timer! I'll keep an eye on the stove so you don't have to.\n\n" + Help

// Help lists the available commands
const Help = "⏲ Commands:\n" +
	"/timer <name> <minutes> – add a timer (e.g. /timer Pasta 10 or /timer Tea 3m30s)\n" +
	"/timers – show your timers with play, pause, reset and delete buttons\n" +
	"/presets – list ready-made timers\n" +
	"/preset <name> – add and start a ready-made timer\n" +
	"/stats – what you cooked most\n" +
	"/history – recently finished timers"

// AskForTimer is sent when /timer is used without arguments
const AskForTimer = "What are you cooking? Send me a name and the minutes, e.g. \"Pasta 10\"."

// NoTimers is shown when a chat has no timers
const NoTimers = "⏲ No timers yet. Add one with /timer <name> <minutes> to track your cooking."

// TimerGone is shown when a button refers to a timer that was deleted
const TimerGone = "This timer no longer exists."

// ConfirmDelete asks before deleting a timer
func ConfirmDelete(t models.Timer) string {
	return fmt.Sprintf("🗑 Delete timer %q? Are you sure?", t.Name)
}

// Deleted confirms a deletion
func Deleted(name string) string {
	return fmt.Sprintf("🗑 Timer %q deleted.", name)
}

// TimerCreated confirms a new timer
func TimerCreated(t models.Timer, started bool) string {
	msg := fmt.Sprintf("✅ Timer %q set for %s.", t.Name, timer.FormatClock(t.DurationSeconds))
	if started {
		msg += " It's running!"
	} else {
		msg += " Start it from /timers."
	}
	return msg
}

// TimerLine renders one timer for the /timers list
func TimerLine(t models.Timer) string {
	icon := "⏸"
	switch {
	case t.IsActive:
		icon = "▶️"
	case t.Elapsed():
		icon = "✅"
	}
	return fmt.Sprintf("%s %s %s (total %s)", icon, t.Name, timer.FormatClock(t.RemainingSeconds), timer.FormatClock(t.DurationSeconds))
}

// TimerList renders the timers of a chat
func TimerList(timers []models.Timer) string {
	if len(timers) == 0 {
		return NoTimers
	}
	lines := make([]string, 0, len(timers)+1)
	lines = append(lines, "⏲ Cooking timers:")
	for _, t := range timers {
		lines = append(lines, TimerLine(t))
	}
	return strings.Join(lines, "\n")
}

// DishReady is the completion notification
func DishReady(t models.Timer) string {
	return fmt.Sprintf("♨️ Mmmh... that smells great! 🍽️\n%s is ready. Let's eat!", t.Name)
}

// PresetList renders the preset book
func PresetList(list []presets.Preset) string {
	if len(list) == 0 {
		return "No presets configured."
	}
	var b strings.Builder
	b.WriteString("📖 Presets:\n")
	for _, p := range list {
		fmt.Fprintf(&b, "• %s – %s\n", p.Name, timer.FormatClock(p.DurationSeconds()))
	}
	b.WriteString("Start one with /preset <name>.")
	return b.String()
}

// Statistics renders the chat's statistics and its top timers
func Statistics(stats *models.Statistics, top []models.TimerStat) string {
	if stats.TotalCompleted == 0 {
		return "📊 Nothing finished cooking yet."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 %s timers finished, %s of cooking in total.\n",
		humanize.Comma(int64(stats.TotalCompleted)),
		time.Duration(stats.TotalSeconds)*time.Second)
	for i, ts := range top {
		fmt.Fprintf(&b, "%s: %s (%d×)\n", humanize.Ordinal(i+1), ts.Name, ts.Count)
	}
	return strings.TrimRight(b.String(), "\n")
}

// History renders recently finished timers relative to now
func History(completions []models.Completion, now time.Time) string {
	if len(completions) == 0 {
		return "🕰 No finished timers yet."
	}

	var b strings.Builder
	b.WriteString("🕰 Recently finished:\n")
	for _, c := range completions {
		fmt.Fprintf(&b, "• %s (%s) – %s\n", c.Name, timer.FormatClock(c.DurationSeconds), humanize.RelTime(c.FinishedAt, now, "ago", "from now"))
	}
	return strings.TrimRight(b.String(), "\n")
}
