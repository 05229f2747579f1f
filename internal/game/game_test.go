package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedPrompter struct {
	decisions []Decision
	again     []bool
	turns     []Turn
	onDecide  func(Turn)
}

func (s *scriptedPrompter) Decide(t Turn) (Decision, error) {
	s.turns = append(s.turns, t)
	if s.onDecide != nil {
		s.onDecide(t)
	}
	if len(s.decisions) == 0 {
		return Stand, nil
	}
	d := s.decisions[0]
	s.decisions = s.decisions[1:]
	return d, nil
}

func (s *scriptedPrompter) PlayAgain() (bool, error) {
	if len(s.again) == 0 {
		return false, nil
	}
	a := s.again[0]
	s.again = s.again[1:]
	return a, nil
}

type recorder struct {
	events []Event
}

func (r *recorder) OnEvent(e Event) {
	r.events = append(r.events, e)
}

func (r *recorder) count(kind EventKind) int {
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// stackedDecks hands out one deck per call, built from the given card
// codes, and repeats the last one when it runs out.
func stackedDecks(codes ...string) func() *Deck {
	i := 0
	return func() *Deck {
		c := codes[i]
		if i < len(codes)-1 {
			i++
		}
		return &Deck{cards: MustParseCards(c)}
	}
}

func newStackedGame(t *testing.T, rec *recorder, players int, codes ...string) *Game {
	t.Helper()
	g := NewGame(WithDeckFactory(stackedDecks(codes...)), WithListener(rec))
	for i := 0; i < players; i++ {
		require.NotNil(t, g.AddPlayer("", "player"))
	}
	return g
}

func TestNewGame(t *testing.T) {
	g := NewGame()
	assert.NotEmpty(t, g.ID)
	assert.Equal(t, 0, g.NumPlayers())
	assert.Equal(t, FullDeckSize, g.DeckSize())
	assert.Equal(t, PhaseReady, g.Phase())
	assert.True(t, g.Dealer().IsDealer())
	assert.Equal(t, 1, g.Dealer().NumHands())
}

func TestAddPlayer(t *testing.T) {
	g := NewGame()
	a := g.AddPlayer("a", "playerA")
	require.NotNil(t, a)
	assert.Equal(t, 1, g.NumPlayers())

	b := g.AddPlayer("", "playerB")
	require.NotNil(t, b)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, 2, g.NumPlayers())

	assert.Same(t, a, g.AddPlayer("a", "playerA"))
	assert.Equal(t, 2, g.NumPlayers())
}

func TestAddPlayerLimits(t *testing.T) {
	g := NewGame()
	for i := 0; i < MaxPlayers; i++ {
		require.NotNil(t, g.AddPlayer("", "p"))
	}
	assert.Nil(t, g.AddPlayer("", "one too many"))

	g = NewGame()
	g.AddPlayer("", "p")
	require.NoError(t, g.DealCards())
	assert.Nil(t, g.AddPlayer("", "late"))
}

func TestIsDealerHit(t *testing.T) {
	tests := []struct {
		min, max int
		want     bool
	}{
		{16, 20, false},
		{10, 22, true},
		{21, 23, false},
		{15, 16, true},
		{17, 18, false},
		{17, 17, false},
		{16, 26, true},
		{7, 17, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsDealerHit(tt.min, tt.max), "min=%d max=%d", tt.min, tt.max)
	}
}

func TestComputeHandResult(t *testing.T) {
	tests := []struct {
		name   string
		player string
		dealer string
		want   Result
	}{
		{name: "both dealt blackjack", player: "AC,10D", dealer: "AH,QS", want: Tie},
		{name: "player and dealer bust", player: "10D,QS,9C", dealer: "8D,JH,7S", want: Loss},
		{name: "player bust", player: "10D,QS,9C", dealer: "8D,JH", want: Loss},
		{name: "tie", player: "10D,QS", dealer: "JH,KC", want: Tie},
		{name: "player win", player: "10D,QS", dealer: "JH,7S", want: Win},
		{name: "dealer bust", player: "10D,7S", dealer: "JH,KC,9C", want: Win},
		{name: "dealer win", player: "10D,7S", dealer: "JH,KC", want: Loss},
		{name: "three card 21 against natural", player: "7C,7D,7S", dealer: "AH,QS", want: Tie},
		{name: "natural against three card 20", player: "AC,10D", dealer: "5H,5S,QD", want: Win},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := handOf(tt.player)
			d := handOf(tt.dealer)
			p.Resolve()
			d.Resolve()

			assert.Equal(t, tt.want, ComputeHandResult(p, d))
			assert.Equal(t, tt.want, p.Result())
		})
	}
}

func TestComputeHandResultIsSetOnce(t *testing.T) {
	p := handOf("10D,QS")
	d := handOf("JH,7S")
	require.Equal(t, Win, ComputeHandResult(p, d))

	d.InsertCard(Card{Rank: Three, Suit: Club})
	assert.Equal(t, Win, ComputeHandResult(p, d))
}

func TestPlayRoundNaturalTie(t *testing.T) {
	rec := &recorder{}
	g := newStackedGame(t, rec, 1, "AC,10D,AH,QS")
	p := &scriptedPrompter{}

	outcomes, err := g.PlayRound(p)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)

	assert.Empty(t, p.turns, "a natural never asks for a decision")
	assert.Equal(t, Tie, outcomes[0].Result)
	assert.Equal(t, "AC,10D", outcomes[0].Hand)
	assert.Equal(t, "AH,QS", outcomes[0].Dealer)
	assert.Equal(t, 21, outcomes[0].Value)
	assert.Equal(t, 21, outcomes[0].DealerValue)
	assert.Equal(t, PhaseComplete, g.Phase())
	assert.Equal(t, 1, rec.count(EventAutoStand))
}

func TestPlayRoundPlayerBustLosesToBustedDealer(t *testing.T) {
	rec := &recorder{}
	g := newStackedGame(t, rec, 1, "10D,QS,6D,JH,9C,7S")
	p := &scriptedPrompter{decisions: []Decision{Hit}}

	outcomes, err := g.PlayRound(p)
	require.NoError(t, err)

	assert.Len(t, p.turns, 1)
	assert.Equal(t, "10D,QS,9C", outcomes[0].Hand)
	assert.Equal(t, 29, outcomes[0].Value)
	assert.Equal(t, "6D,JH,7S", outcomes[0].Dealer)
	assert.Equal(t, 23, outcomes[0].DealerValue)
	assert.Equal(t, Loss, outcomes[0].Result)
	assert.Equal(t, 1, rec.count(EventDealerHit))
}

func TestPlayRoundDealerBust(t *testing.T) {
	g := newStackedGame(t, &recorder{}, 1, "10D,7S,JH,6C,KC")
	p := &scriptedPrompter{decisions: []Decision{Stand}}

	outcomes, err := g.PlayRound(p)
	require.NoError(t, err)

	assert.Equal(t, 17, outcomes[0].Value)
	assert.Equal(t, "JH,6C,KC", outcomes[0].Dealer)
	assert.Equal(t, 26, outcomes[0].DealerValue)
	assert.Equal(t, Win, outcomes[0].Result)
}

func TestDealerCountsAceHigh(t *testing.T) {
	// A+6 is a soft 17 and the dealer stands on it.
	g := newStackedGame(t, &recorder{}, 1, "10D,8S,AH,6C,KC")
	outcomes, err := g.PlayRound(&scriptedPrompter{})
	require.NoError(t, err)

	assert.Equal(t, "AH,6C", outcomes[0].Dealer)
	assert.Equal(t, 17, outcomes[0].DealerValue)
	assert.Equal(t, Win, outcomes[0].Result)
}

func TestHitToTwentyOneStandsAutomatically(t *testing.T) {
	rec := &recorder{}
	g := newStackedGame(t, rec, 1, "5H,5C,10C,7C,AS")
	p := &scriptedPrompter{decisions: []Decision{Hit, Hit}}

	outcomes, err := g.PlayRound(p)
	require.NoError(t, err)

	assert.Len(t, p.turns, 1)
	assert.Equal(t, "5H,5C,AS", outcomes[0].Hand)
	assert.Equal(t, 21, outcomes[0].Value)
	assert.Equal(t, Win, outcomes[0].Result)
	assert.Equal(t, 1, rec.count(EventAutoStand))
}

func TestInvalidDecisionIsAskedAgain(t *testing.T) {
	rec := &recorder{}
	g := newStackedGame(t, rec, 1, "10D,2S,JH,7C,3C")
	p := &scriptedPrompter{decisions: []Decision{ParseDecision("x"), ParseDecision(""), ParseDecision("S")}}

	outcomes, err := g.PlayRound(p)
	require.NoError(t, err)

	assert.Len(t, p.turns, 3)
	assert.Equal(t, 2, rec.count(EventInvalidDecision))
	assert.Equal(t, "10D,2S", outcomes[0].Hand)
	assert.Equal(t, Loss, outcomes[0].Result)
}

func TestPlayersAreDealtInOrder(t *testing.T) {
	g := newStackedGame(t, &recorder{}, 2, "2H,3H,4H,5H,10C,7C")
	outcomes, err := g.PlayRound(&scriptedPrompter{})
	require.NoError(t, err)

	require.Len(t, outcomes, 2)
	assert.Equal(t, "2H,3H", outcomes[0].Hand)
	assert.Equal(t, "4H,5H", outcomes[1].Hand)
	assert.Equal(t, "10C,7C", outcomes[0].Dealer)
	assert.Equal(t, Loss, outcomes[0].Result)
	assert.Equal(t, Loss, outcomes[1].Result)
}

func TestDeckExhaustedDuringDeal(t *testing.T) {
	rec := &recorder{}
	g := newStackedGame(t, rec, 1, "2H,3H,4H")

	_, err := g.PlayRound(&scriptedPrompter{})
	assert.True(t, errors.Is(err, ErrDeckExhausted))
	assert.Equal(t, PhaseDealing, g.Phase())
	assert.Equal(t, 1, rec.count(EventRoundAborted))
}

func TestDeckExhaustedDuringHit(t *testing.T) {
	g := newStackedGame(t, &recorder{}, 1, "2H,3H,10C,7C")

	_, err := g.PlayRound(&scriptedPrompter{decisions: []Decision{Hit}})
	assert.True(t, errors.Is(err, ErrDeckExhausted))
	assert.Equal(t, PhasePlayerTurns, g.Phase())
}

func TestDeckExhaustedDuringDealerTurn(t *testing.T) {
	g := newStackedGame(t, &recorder{}, 1, "10H,9H,2C,3C")

	_, err := g.PlayRound(&scriptedPrompter{})
	assert.True(t, errors.Is(err, ErrDeckExhausted))
	assert.Equal(t, PhaseDealerTurn, g.Phase())
}

func TestPlayRoundNeedsReset(t *testing.T) {
	g := newStackedGame(t, &recorder{}, 1, "AC,10D,AH,QS")
	_, err := g.PlayRound(&scriptedPrompter{})
	require.NoError(t, err)

	_, err = g.PlayRound(&scriptedPrompter{})
	assert.Equal(t, ErrRoundNotReady, err)
}

func TestReset(t *testing.T) {
	g := NewGame()
	g.AddPlayer("a", "playerA")
	g.AddPlayer("b", "playerB")

	_, err := g.PlayRound(&scriptedPrompter{})
	require.NoError(t, err)

	g.Reset()
	assert.Equal(t, PhaseReady, g.Phase())
	assert.Equal(t, FullDeckSize, g.DeckSize())
	assert.Equal(t, 2, g.NumPlayers())

	parties := append(g.Players(), g.Dealer())
	for _, p := range parties {
		require.Equal(t, 1, p.NumHands())
		assert.Equal(t, 0, p.Hands()[0].Size())
		assert.Equal(t, InProgress, p.Hands()[0].Result())
	}
	assert.Equal(t, "a", g.Players()[0].ID)
}

func TestResetReplacesDeck(t *testing.T) {
	g := NewGame()
	old := g.deck
	g.Reset()
	assert.NotSame(t, old, g.deck)
}

func TestSnapshotHidesDealerDuringPlayerTurns(t *testing.T) {
	g := newStackedGame(t, &recorder{}, 1, "10D,2S,JH,7C")

	var during Snapshot
	p := &scriptedPrompter{onDecide: func(Turn) { during = g.Snapshot() }}
	_, err := g.PlayRound(p)
	require.NoError(t, err)

	assert.Equal(t, PhasePlayerTurns, during.Phase)
	assert.Equal(t, "JH,XX", during.Dealer.Hands[0].Cards)
	assert.Empty(t, during.Dealer.Hands[0].Total)
	assert.Equal(t, "10D,2S", during.Players[0].Hands[0].Cards)
	assert.Equal(t, "JH,XX", p.turns[0].Dealer)

	after := g.Snapshot()
	assert.Equal(t, "JH,7C", after.Dealer.Hands[0].Cards)
	assert.Equal(t, 17, after.Dealer.Hands[0].Value)
}

func TestRunPlaysUntilDeclined(t *testing.T) {
	rec := &recorder{}
	g := newStackedGame(t, rec, 1, "AC,10D,AH,QS")
	p := &scriptedPrompter{again: []bool{true, false}}

	require.NoError(t, g.Run(p))
	assert.Equal(t, 2, rec.count(EventRoundComplete))
	assert.Equal(t, PhaseComplete, g.Phase())
}

func TestRunRedealsAfterExhaustion(t *testing.T) {
	rec := &recorder{}
	g := newStackedGame(t, rec, 1, "2H,3H,10C,7C", "AC,10D,AH,QS")
	p := &scriptedPrompter{decisions: []Decision{Hit}}

	require.NoError(t, g.Run(p))
	assert.Equal(t, 1, rec.count(EventRoundAborted))
	assert.Equal(t, 1, rec.count(EventRoundRedealt))
	assert.Equal(t, 1, rec.count(EventRoundComplete))
}

func TestRunGivesUpOnRepeatedExhaustion(t *testing.T) {
	g := newStackedGame(t, &recorder{}, 1, "2H,3H,10C,7C")
	p := &scriptedPrompter{decisions: []Decision{Hit, Hit, Hit, Hit, Hit}}

	err := g.Run(p)
	assert.True(t, errors.Is(err, ErrDeckExhausted))
}

func TestRunReturnsDealFailure(t *testing.T) {
	rec := &recorder{}
	g := newStackedGame(t, rec, 1, "2H")
	err := g.Run(&scriptedPrompter{})
	assert.True(t, errors.Is(err, ErrDeckExhausted))
	assert.Equal(t, 1, rec.count(EventRoundAborted))
	assert.Zero(t, rec.count(EventRoundRedealt))
}

func TestWithSeedIsReproducible(t *testing.T) {
	a := NewGame(WithSeed(99))
	b := NewGame(WithSeed(99))
	assert.Equal(t, a.deck.String(), b.deck.String())

	a.Reset()
	b.Reset()
	assert.Equal(t, a.deck.String(), b.deck.String())
}

func TestParseDecision(t *testing.T) {
	assert.Equal(t, Hit, ParseDecision("h"))
	assert.Equal(t, Hit, ParseDecision(" HIT "))
	assert.Equal(t, Stand, ParseDecision("S"))
	assert.Equal(t, Stand, ParseDecision("stand"))
	assert.Equal(t, Decision("q"), ParseDecision("q"))
}
