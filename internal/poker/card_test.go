package poker

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCardStringRoundTrip(t *testing.T) {
	for c := Card(0); c < 52; c++ {
		encoded, err := json.Marshal(c)
		require.NoError(t, err)
		var decoded Card
		require.NoError(t, json.Unmarshal(encoded, &decoded))
		require.Equal(t, c, decoded)
	}
}

func TestCardUnmarshalRejectsGarbage(t *testing.T) {
	var c Card
	require.Error(t, c.UnmarshalJSON([]byte(`"xyz"`)))
	require.Error(t, c.UnmarshalJSON([]byte(`"1c"`)))
	require.Error(t, c.UnmarshalJSON([]byte(`"Az"`)))
}

func TestNewDeckIsFullyShuffledPermutation(t *testing.T) {
	r := rand.New(rand.NewPCG(4, 4))
	deck := NewDeck(r)
	require.Len(t, deck, 52)
	seen := make(map[Card]bool, 52)
	for _, c := range deck {
		seen[c] = true
	}
	require.Len(t, seen, 52)
}
