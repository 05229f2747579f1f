package game

import (
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

type Phase string

const (
	PhaseReady        Phase = "ready"        // Fresh deck, every party holds one empty hand
	PhaseDealing      Phase = "dealing"      // Initial two cards per hand
	PhasePlayerTurns  Phase = "playerTurns"  // Players hit or stand
	PhaseDealerTurn   Phase = "dealerTurn"   // Dealer plays by fixed policy
	PhaseAdjudication Phase = "adjudication" // Hands compared against the dealer
	PhaseComplete     Phase = "complete"     // Round over, waiting for a reset
)

// ErrRoundNotReady is returned when a round is started on a table that has
// not been reset since the previous round.
var ErrRoundNotReady = errors.New("round already played, reset the game first")

// MaxPlayers is the largest table a single deck can deal two cards to,
// dealer included.
const MaxPlayers = FullDeckSize/2 - 1

type Game struct {
	ID        string
	CreatedAt time.Time

	deck      *Deck
	dealer    *Player
	players   []*Player
	phase     Phase
	newDeck   func() *Deck
	listeners []Listener
}

type Option func(*Game)

// WithSeed makes every deck the game creates reproducible.
func WithSeed(seed int64) Option {
	return func(g *Game) {
		src := rand.New(rand.NewSource(seed))
		g.newDeck = func() *Deck {
			d := NewSeededDeck(src.Int63())
			d.Shuffle()
			return d
		}
	}
}

// WithDeckFactory replaces how fresh decks are built. The factory must
// return a deck that is ready to deal from.
func WithDeckFactory(f func() *Deck) Option {
	return func(g *Game) {
		g.newDeck = f
	}
}

func WithListener(l Listener) Option {
	return func(g *Game) {
		g.listeners = append(g.listeners, l)
	}
}

func shuffledDeck() *Deck {
	d := NewDeck()
	d.Shuffle()
	return d
}

// NewGame creates a new table with a shuffled deck and a dealer
func NewGame(opts ...Option) *Game {
	g := &Game{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		dealer:    NewPlayer(uuid.New().String(), DealerUsername, RoleDealer),
		players:   []*Player{},
		phase:     PhaseReady,
		newDeck:   shuffledDeck,
	}

	for _, opt := range opts {
		opt(g)
	}

	g.deck = g.newDeck()
	return g
}

// AddListener registers another listener for table events.
func (g *Game) AddListener(l Listener) {
	g.listeners = append(g.listeners, l)
}

// AddPlayer seats a player. An empty id gets a generated one. Players can
// only join between rounds.
func (g *Game) AddPlayer(id, username string) *Player {
	for _, p := range g.players {
		if id != "" && p.ID == id {
			return p
		}
	}

	if g.phase != PhaseReady || len(g.players) >= MaxPlayers {
		return nil
	}

	if id == "" {
		id = uuid.New().String()
	}

	player := NewPlayer(id, username, RolePlayer)
	g.players = append(g.players, player)
	return player
}

// Reset replaces the deck and clears every hand, keeping the seated players.
func (g *Game) Reset() {
	g.deck = g.newDeck()

	for _, p := range g.players {
		p.ResetHands()
	}
	g.dealer.ResetHands()

	g.phase = PhaseReady
}

func (g *Game) Phase() Phase    { return g.phase }
func (g *Game) Dealer() *Player { return g.dealer }
func (g *Game) DeckSize() int   { return g.deck.Size() }
func (g *Game) NumPlayers() int { return len(g.players) }

// Players returns the seated players in seat order.
func (g *Game) Players() []*Player {
	out := make([]*Player, len(g.players))
	copy(out, g.players)
	return out
}

// Snapshot renders the table. The dealer's hole cards stay hidden until the
// dealer starts playing.
func (g *Game) Snapshot() Snapshot {
	hideDealer := g.phase == PhaseDealing || g.phase == PhasePlayerTurns

	s := Snapshot{
		GameID:  g.ID,
		Phase:   g.phase,
		Dealer:  viewSeat(g.dealer, hideDealer),
		Players: make([]SeatView, len(g.players)),
	}
	for i, p := range g.players {
		s.Players[i] = viewSeat(p, false)
	}
	return s
}

func (g *Game) event(kind EventKind, p *Player, h *Hand) Event {
	e := Event{
		Kind:   kind,
		GameID: g.ID,
	}
	if p != nil {
		e.PlayerID = p.ID
		e.Username = p.Username
	}
	if h != nil {
		e.Hand = h.String()
		e.Total = h.Summary()
		e.Value = h.Value()
		e.Result = h.Result()
	}
	return e
}

func (g *Game) emit(e Event) {
	if len(g.listeners) == 0 {
		return
	}
	e.Snapshot = g.Snapshot()
	for _, l := range g.listeners {
		l.OnEvent(e)
	}
}
