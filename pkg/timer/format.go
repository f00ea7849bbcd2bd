package timer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// FormatClock converts a number of seconds into mm:ss. Minutes are not
// wrapped into hours, so 90 minutes renders as 90:00
func FormatClock(sec int) string {
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%02d:%02d", sec/60, sec%60)
}

// ParseDuration parses user input into whole seconds. A bare number is
// minutes; anything else must be a Go duration such as "90s" or "1m30s"
func ParseDuration(text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, errors.Wrap(ErrInvalidArgument, "duration is empty")
	}

	if minutes, err := strconv.Atoi(text); err == nil {
		if minutes <= 0 {
			return 0, errors.Wrapf(ErrInvalidArgument, "duration must be positive, got %d minutes", minutes)
		}
		if minutes > math.MaxInt/60 {
			return 0, errors.Wrapf(ErrInvalidArgument, "duration of %d minutes is too long", minutes)
		}
		return minutes * 60, nil
	}

	d, err := time.ParseDuration(text)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidArgument, "cannot parse duration %q", text)
	}
	if d <= 0 {
		return 0, errors.Wrapf(ErrInvalidArgument, "duration must be positive, got %s", d)
	}
	if d%time.Second != 0 {
		return 0, errors.Wrapf(ErrInvalidArgument, "duration %s is not a whole number of seconds", d)
	}
	return int(d / time.Second), nil
}
