package kitchen

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/korjavin/kitchentimer/pkg/timer"
)

// parseTimerArgs splits "<name> <duration>" where the name may contain
// spaces and the duration is the last word
func parseTimerArgs(text string) (string, int, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return "", 0, errors.Wrap(timer.ErrInvalidArgument, "I need a name and a duration")
	}

	seconds, err := timer.ParseDuration(fields[len(fields)-1])
	if err != nil {
		return "", 0, err
	}
	return strings.Join(fields[:len(fields)-1], " "), seconds, nil
}

// userError turns a timer store error into a sentence for the chat
func userError(err error) string {
	if errors.Is(err, timer.ErrInvalidArgument) {
		msg := strings.TrimSuffix(err.Error(), ": "+timer.ErrInvalidArgument.Error())
		if msg == "" || msg == timer.ErrInvalidArgument.Error() {
			return "That doesn't look right."
		}
		return strings.ToUpper(msg[:1]) + msg[1:] + "."
	}
	if errors.Is(err, timer.ErrNotFound) {
		return "That timer no longer exists."
	}
	return "Something went wrong."
}

func presetRecipe(name string) string {
	return "preset:" + strings.ToLower(name)
}
