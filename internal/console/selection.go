package console

import (
	"errors"
	"fmt"

	"github.com/inovacc/jbconsole/internal/model"
)

var (
	// ErrNoBots is returned when there is nothing to select
	ErrNoBots = errors.New("no bots found")

	// ErrBotNotFound is returned when the requested bot is not in the list
	ErrBotNotFound = errors.New("bot not found")
)

// SelectBot picks the bot a settings page shows: the requested id when
// given, else the previous selection if it still exists, else the first bot.
func SelectBot(bots []model.Bot, requested, previous string) (*model.Bot, error) {
	if len(bots) == 0 {
		return nil, ErrNoBots
	}

	if requested != "" {
		if b := model.FindBot(bots, requested); b != nil {
			return b, nil
		}

		return nil, fmt.Errorf("%w: %s", ErrBotNotFound, requested)
	}

	if previous != "" {
		if b := model.FindBot(bots, previous); b != nil {
			return b, nil
		}
	}

	return &bots[0], nil
}
