package blocks

import "errors"

var (
	// ErrEmptyWordList is returned when a Judge is built without words.
	ErrEmptyWordList = errors.New("blocks: empty word list")

	// ErrInvalidWord is returned for a word that is not 2-6 lowercase letters.
	ErrInvalidWord = errors.New("blocks: invalid word")

	// ErrInvalidConfig is returned when a strategy is configured with values it
	// cannot run with.
	ErrInvalidConfig = errors.New("blocks: invalid configuration")

	// ErrUnknownObjective is returned by ParseObjective.
	ErrUnknownObjective = errors.New("blocks: unknown objective")

	// ErrUnknownStrategy is returned by NewStrategy.
	ErrUnknownStrategy = errors.New("blocks: unknown strategy")

	// ErrMalformedRecord is returned when a best-of-record line cannot be parsed.
	ErrMalformedRecord = errors.New("blocks: malformed record")
)
