// internal/catalog/genre.go
package catalog

import (
	"errors"
	"fmt"
)

var ErrUnknownGenre = errors.New("unknown genre")

// Genre is one of a fixed set of book categories. Its label is the stored
// form and is matched exactly.
type Genre string

const (
	Horror            Genre = "Horror"
	Mystery           Genre = "Mystery"
	Fiction           Genre = "Fiction"
	Finance           Genre = "Finance"
	Fantasy           Genre = "Fantasy"
	Business          Genre = "Business"
	Romance           Genre = "Romance"
	Psychology        Genre = "Psychology"
	YoungAdult        Genre = "YoungAdult"
	SelfHelp          Genre = "SelfHelp"
	HistoricalFiction Genre = "HistoricalFiction"
	NonFiction        Genre = "NonFiction"
	ScienceFiction    Genre = "ScienceFiction"
	Literature        Genre = "Literature"
)

var allGenres = [...]Genre{
	Horror,
	Mystery,
	Fiction,
	Finance,
	Fantasy,
	Business,
	Romance,
	Psychology,
	YoungAdult,
	SelfHelp,
	HistoricalFiction,
	NonFiction,
	ScienceFiction,
	Literature,
}

// Genres returns every genre in declaration order.
func Genres() []Genre {
	out := make([]Genre, len(allGenres))
	copy(out, allGenres[:])
	return out
}

// ParseGenre returns the genre whose label is exactly s.
func ParseGenre(s string) (Genre, error) {
	for _, g := range allGenres {
		if string(g) == s {
			return g, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGenre, s)
}

func (g Genre) String() string {
	return string(g)
}

func (g Genre) Valid() bool {
	_, err := ParseGenre(string(g))
	return err == nil
}

func (g Genre) MarshalText() ([]byte, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGenre, string(g))
	}
	return []byte(g), nil
}

func (g *Genre) UnmarshalText(text []byte) error {
	parsed, err := ParseGenre(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
