package metric

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStructuralFeatures(t *testing.T) {
	f := structuralFeatures("First paragraph with 2 numbers: 10 and 20.\n\nSecond one!")

	require.Equal(t, 2, f[0], "paragraphs")
	require.Equal(t, 3, f[1], "sentence fragments")
	require.Equal(t, 3, f[2], "numeric tokens")
}

func TestStructural_IdenticalLayout(t *testing.T) {
	m := NewStructural()

	a := "Intro.\n\nBody with 42 items.\n\nClosing!"
	b := "Start.\n\nPart with 17 lines.\n\nGoodbye?"
	score, err := m.Compare(context.Background(), a, b)
	require.NoError(t, err)
	require.InDelta(t, 1.0, score, 1e-9, "same paragraph/sentence/number/punctuation counts")
}

func TestStructural_DifferentLayout(t *testing.T) {
	m := NewStructural()

	a := "One short line"
	b := "Many. Short. Sentences. With. 1 2 3 4 5 numbers!\n\nAnd a second paragraph; with punctuation, lots of it..."
	score, err := m.Compare(context.Background(), a, b)
	require.NoError(t, err)
	require.Less(t, score, 0.6)
}

func TestFeatureSimilarity(t *testing.T) {
	require.Equal(t, 1.0, featureSimilarity(0, 0))
	require.Equal(t, 1.0, featureSimilarity(5, 5))
	require.InDelta(t, 0.5, featureSimilarity(1, 3), 1e-9)
	require.InDelta(t, 0.0, featureSimilarity(0, 7), 1e-9)
}
