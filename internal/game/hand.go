package game

import (
	"strconv"
	"strings"
)

const (
	// Blackjack is the best possible hand total.
	Blackjack = 21
	// DealerStand is the total at or above which the dealer stops hitting.
	DealerStand = 17
)

type Result string

const (
	InProgress Result = "inProgress" // Hand has not been adjudicated yet
	Win        Result = "win"
	Loss       Result = "loss"
	Tie        Result = "tie"
)

// Hand is an ordered set of cards held by one party. It tracks two running
// totals: min counts every ace as 1, max counts the first ace as 11.
type Hand struct {
	cards    []Card
	aceHigh  bool
	minValue int
	maxValue int
	value    int
	resolved bool
	result   Result
}

func NewHand() *Hand {
	return &Hand{
		cards:  []Card{},
		result: InProgress,
	}
}

// InsertCard adds a card to the hand and updates both running totals
func (h *Hand) InsertCard(card Card) {
	h.cards = append(h.cards, card)

	rankValue := card.Value()
	if card.Rank == Ace && !h.aceHigh {
		h.maxValue += AceHigh
		h.aceHigh = true
	} else {
		h.maxValue += rankValue
	}
	h.minValue += rankValue
}

// OptimalValue picks the best playable total from a min/max pair.
func OptimalValue(minValue, maxValue int) int {
	if minValue > Blackjack {
		return minValue
	}
	if maxValue > Blackjack {
		return minValue
	}
	return maxValue
}

// Resolve fixes the hand value. Only the first call has an effect.
func (h *Hand) Resolve() int {
	if !h.resolved {
		h.value = OptimalValue(h.minValue, h.maxValue)
		h.resolved = true
	}
	return h.value
}

func IsBlackjack(value int) bool {
	return value == Blackjack
}

func IsBust(value int) bool {
	return value > Blackjack
}

// IsNatural reports a resolved two-card 21.
func (h *Hand) IsNatural() bool {
	return h.resolved && len(h.cards) == 2 && IsBlackjack(h.value)
}

// Summary renders the running total, showing both options while the hand
// is soft and neither option has reached 21.
func (h *Hand) Summary() string {
	if h.minValue != h.maxValue && h.minValue < Blackjack && h.maxValue < Blackjack {
		return strconv.Itoa(h.minValue) + "/" + strconv.Itoa(h.maxValue)
	}
	return strconv.Itoa(h.minValue)
}

func (h *Hand) String() string {
	return joinCards(h.cards)
}

// HiddenString shows the first card and masks the rest.
func (h *Hand) HiddenString() string {
	codes := make([]string, len(h.cards))
	for i, c := range h.cards {
		if i == 0 {
			codes[i] = c.String()
		} else {
			codes[i] = "XX"
		}
	}
	return strings.Join(codes, ",")
}

func (h *Hand) MinValue() int  { return h.minValue }
func (h *Hand) MaxValue() int  { return h.maxValue }
func (h *Hand) Value() int     { return h.value }
func (h *Hand) Resolved() bool { return h.resolved }
func (h *Hand) Result() Result { return h.result }
func (h *Hand) Size() int      { return len(h.cards) }

func (h *Hand) Cards() []Card {
	out := make([]Card, len(h.cards))
	copy(out, h.cards)
	return out
}

func (h *Hand) setResult(r Result) {
	h.result = r
}
