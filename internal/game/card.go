package game

import (
	"fmt"
	"strings"
)

type Suit int
type Rank int

const (
	Heart Suit = iota
	Club
	Diamond
	Spade
)

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

// AceHigh is the value of the one ace per hand that may count high.
const AceHigh = 11

var suitCodes = map[Suit]string{
	Heart:   "H",
	Club:    "C",
	Diamond: "D",
	Spade:   "S",
}

var rankTable = map[Rank]struct {
	code  string
	value int
}{
	Ace:   {"A", 1},
	Two:   {"2", 2},
	Three: {"3", 3},
	Four:  {"4", 4},
	Five:  {"5", 5},
	Six:   {"6", 6},
	Seven: {"7", 7},
	Eight: {"8", 8},
	Nine:  {"9", 9},
	Ten:   {"10", 10},
	Jack:  {"J", 10},
	Queen: {"Q", 10},
	King:  {"K", 10},
}

// Suits returns the suits in canonical deck order.
func Suits() []Suit {
	return []Suit{Heart, Club, Diamond, Spade}
}

// Ranks returns the ranks in canonical deck order.
func Ranks() []Rank {
	return []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}
}

func (s Suit) String() string {
	if code, ok := suitCodes[s]; ok {
		return code
	}
	return "?"
}

func (r Rank) String() string {
	if info, ok := rankTable[r]; ok {
		return info.code
	}
	return "?"
}

// Value returns the fixed point value of the rank. Aces are 1 here;
// promotion to 11 is a property of the hand, not the card.
func (r Rank) Value() int {
	return rankTable[r].value
}

type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

// Value returns the blackjack value of the card
func (c Card) Value() int {
	return c.Rank.Value()
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// ParseCard turns a short code such as "KH" or "10D" back into a Card.
func ParseCard(code string) (Card, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) < 2 {
		return Card{}, fmt.Errorf("invalid card code %q", code)
	}

	rankCode, suitCode := code[:len(code)-1], code[len(code)-1:]

	var card Card
	found := false
	for _, r := range Ranks() {
		if r.String() == rankCode {
			card.Rank = r
			found = true
			break
		}
	}
	if !found {
		return Card{}, fmt.Errorf("invalid rank in card code %q", code)
	}

	found = false
	for _, s := range Suits() {
		if s.String() == suitCode {
			card.Suit = s
			found = true
			break
		}
	}
	if !found {
		return Card{}, fmt.Errorf("invalid suit in card code %q", code)
	}

	return card, nil
}

// MustParseCards parses a comma separated list of card codes and panics on
// the first invalid one.
func MustParseCards(codes string) []Card {
	var cards []Card
	for _, code := range strings.Split(codes, ",") {
		card, err := ParseCard(code)
		if err != nil {
			panic(err)
		}
		cards = append(cards, card)
	}
	return cards
}

func joinCards(cards []Card) string {
	codes := make([]string, len(cards))
	for i, c := range cards {
		codes[i] = c.String()
	}
	return strings.Join(codes, ",")
}
