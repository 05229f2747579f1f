package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// FullDeckSize is the number of cards in a standard deck.
const FullDeckSize = 52

// ErrDeckExhausted is returned when a card is drawn from an empty deck.
var ErrDeckExhausted = errors.New("deck is exhausted")

type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDeck creates a new standard 52-card deck in canonical order
func NewDeck() *Deck {
	return NewSeededDeck(time.Now().UnixNano())
}

// NewSeededDeck creates a canonical deck whose shuffles are reproducible
// for a given seed.
func NewSeededDeck(seed int64) *Deck {
	deck := &Deck{
		cards: make([]Card, 0, FullDeckSize),
		rng:   rand.New(rand.NewSource(seed)),
	}

	for _, rank := range Ranks() {
		for _, suit := range Suits() {
			deck.cards = append(deck.cards, Card{Rank: rank, Suit: suit})
		}
	}

	if err := deck.validate(); err != nil {
		panic(err)
	}

	return deck
}

func (d *Deck) validate() error {
	if len(d.cards) != FullDeckSize {
		return fmt.Errorf("deck has %d cards, want %d", len(d.cards), FullDeckSize)
	}

	seen := make(map[Card]bool, len(d.cards))
	for _, c := range d.cards {
		if seen[c] {
			return fmt.Errorf("deck holds duplicate card %s", c)
		}
		seen[c] = true
	}
	return nil
}

// Shuffle randomizes the order of the remaining cards
func (d *Deck) Shuffle() {
	// Fisher-Yates shuffle algorithm
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// DrawCard removes and returns the top card from the deck
func (d *Deck) DrawCard() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrDeckExhausted
	}

	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, nil
}

func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}

// Size returns the number of cards left in the deck
func (d *Deck) Size() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining cards, top first.
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}

func (d *Deck) String() string {
	return joinCards(d.cards)
}
