package metric

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEditDistance_KnownValues(t *testing.T) {
	m := NewEditDistance()

	// distance("kitten", "sitting") = 3, max length 7
	score, err := m.Compare(context.Background(), "kitten", "sitting")
	require.NoError(t, err)
	require.InDelta(t, 1-3.0/7.0, score, 1e-9)

	// completely disjoint strings of equal length
	score, err = m.Compare(context.Background(), "aaaa", "bbbb")
	require.NoError(t, err)
	require.InDelta(t, 0.0, score, 1e-9)
}

func TestEditDistance_MultiByte(t *testing.T) {
	m := NewEditDistance()

	// one substituted ideograph out of three runes
	score, err := m.Compare(context.Background(), "招标文", "投标文")
	require.NoError(t, err)
	require.InDelta(t, 1-1.0/3.0, score, 1e-9)
}

func TestJaroWinkler_KnownValues(t *testing.T) {
	m := NewJaroWinkler()

	score, err := m.Compare(context.Background(), "MARTHA", "MARHTA")
	require.NoError(t, err)
	require.InDelta(t, 0.961, score, 0.001)

	score, err = m.Compare(context.Background(), "DIXON", "DICKSONX")
	require.NoError(t, err)
	require.InDelta(t, 0.813, score, 0.001)
}

func TestSequenceRatio_KnownValues(t *testing.T) {
	m := NewSequenceRatio()

	// "abcd" vs "bcde": 3 matched characters, total length 8
	score, err := m.Compare(context.Background(), "abcd", "bcde")
	require.NoError(t, err)
	require.InDelta(t, 0.75, score, 1e-9)

	score, err = m.Compare(context.Background(), "abc", "xyz")
	require.NoError(t, err)
	require.InDelta(t, 0.0, score, 1e-9)
}

func TestSequenceRatio_OrderIndependent(t *testing.T) {
	m := NewSequenceRatio()

	// The raw matcher scores these differently depending on which text
	// is the first sequence; the metric must not.
	a := "Procurement of laboratory equipment for the municipal hospital."
	b := "The municipal hospital procures new laboratory equipment in 2024."

	ab, err := m.Compare(context.Background(), a, b)
	require.NoError(t, err)
	ba, err := m.Compare(context.Background(), b, a)
	require.NoError(t, err)
	require.Equal(t, ab, ba)
}
