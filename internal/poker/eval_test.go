package poker

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustCards(t *testing.T, literals ...string) []Card {
	t.Helper()
	cards := make([]Card, len(literals))
	for i, lit := range literals {
		var c Card
		require.NoError(t, c.UnmarshalJSON([]byte(`"`+lit+`"`)))
		cards[i] = c
	}
	return cards
}

func TestEvaluateRecognizesEachCategory(t *testing.T) {
	cases := []struct {
		name     string
		hole     []string
		board    []string
		category Category
	}{
		{"straight flush", []string{"As", "Ks"}, []string{"Qs", "Js", "Ts", "2c", "3d"}, StraightFlush},
		{"four of a kind", []string{"Ah", "Ad"}, []string{"Ac", "As", "Kd", "2c", "3d"}, FourKind},
		{"full house", []string{"Ah", "Ad"}, []string{"Ac", "Kd", "Kc", "2c", "3d"}, FullHouse},
		{"flush", []string{"2s", "7s"}, []string{"9s", "Js", "Ks", "2c", "3d"}, Flush},
		{"straight", []string{"9c", "Th"}, []string{"Jd", "Qs", "Kc", "2c", "3d"}, Straight},
		{"wheel straight", []string{"Ac", "2h"}, []string{"3d", "4s", "5c", "9c", "Kd"}, Straight},
		{"three of a kind", []string{"Ah", "Ad"}, []string{"Ac", "2d", "7c", "8c", "9d"}, ThreeKind},
		{"two pair", []string{"Ah", "Ad"}, []string{"Kc", "Kd", "7c", "8c", "9d"}, TwoPair},
		{"pair", []string{"Ah", "Ad"}, []string{"2c", "7d", "8c", "9d", "Tc"}, Pair},
		{"high card", []string{"Ah", "Kd"}, []string{"2c", "7d", "8c", "9d", "Jc"}, HighCard},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hole := mustCards(t, tc.hole...)
			board := mustCards(t, tc.board...)
			hr := Evaluate([2]Card{hole[0], hole[1]}, board)
			require.Equal(t, tc.category, hr.Category, "category for %s", tc.name)
		})
	}
}

func TestEvaluateIsOrderInsensitive(t *testing.T) {
	r := rand.New(rand.NewPCG(11, 11))
	for i := 0; i < 50; i++ {
		deck := NewDeck(r)
		hole := [2]Card{deck[0], deck[1]}
		community := append([]Card{}, deck[2:7]...)
		want := Evaluate(hole, community)

		shuffled := append([]Card{}, community...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		got := Evaluate(hole, shuffled)
		require.Equal(t, want, got)
	}
}

func TestHandRankTotalOrder(t *testing.T) {
	low := HandRank{Category: HighCard, Tiebreakers: []int{14, 12, 9, 5, 2}}
	high := HandRank{Category: Pair, Tiebreakers: []int{2, 14, 12, 9}}
	require.True(t, low.Less(high))
	require.False(t, high.Less(low))
}

func TestAceBeatsKingPair(t *testing.T) {
	aces := Evaluate([2]Card{mustCards(t, "Ah")[0], mustCards(t, "Ad")[0]}, mustCards(t, "2c", "5d", "9h", "Js", "3c"))
	kings := Evaluate([2]Card{mustCards(t, "Kh")[0], mustCards(t, "Kd")[0]}, mustCards(t, "2c", "5d", "9h", "Js", "3c"))
	require.True(t, kings.Less(aces))
}
