package faq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fasika-cms/internal/models"
)

func newTestBot(t *testing.T) *Bot {
	t.Helper()
	bot := NewBot("Betty", DefaultKnowledgeBase())
	require.Greater(t, bot.Len(), 50)
	return bot
}

func TestAskExactQuestion(t *testing.T) {
	bot := newTestBot(t)

	answer, err := bot.Ask("What are your operating hours?")
	require.NoError(t, err)
	assert.True(t, answer.Matched)
	assert.Equal(t, "What are your operating hours?", answer.Question)
	assert.Equal(t, "Our daycare is open from 7:00 AM to 6:00 PM, Monday through Friday.", answer.Reply)
	assert.GreaterOrEqual(t, answer.Score, MatchThreshold)
}

func TestAskToleratesTypos(t *testing.T) {
	bot := newTestBot(t)

	answer, err := bot.Ask("sik child policy")
	require.NoError(t, err)
	assert.True(t, answer.Matched)
	assert.Equal(t, "What is your sick child policy?", answer.Question)
}

func TestAskIgnoresFillerWords(t *testing.T) {
	bot := newTestBot(t)

	tests := []struct {
		query string
		want  string
	}{
		{"how much does it cost", "What is the cost of daycare?"},
		{"what time do you open", "What are your operating hours?"},
		{"what about screen time", "What is your policy on screen time?"},
		{"is there a nap time", "Do you have a nap or rest time?"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			answer, err := bot.Ask(tt.query)
			require.NoError(t, err)
			assert.True(t, answer.Matched)
			assert.Equal(t, tt.want, answer.Question)
		})
	}
}

func TestTokenWeights(t *testing.T) {
	weights, total := tokenWeights([]int{0, 1, 10}, 10)
	assert.Zero(t, weights[0])
	assert.Greater(t, weights[1], weights[2])
	assert.InDelta(t, weights[1]+weights[2], total, 1e-9)
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, similarity("cost", "costs"))
	assert.Equal(t, infixScore, similarity("screen", "sunscreen"))
	assert.Equal(t, subsequenceFloor, similarity("open", "operating"))
	assert.Less(t, similarity("much", "what"), subsequenceFloor)
}

func TestAskFallbackIsDeterministic(t *testing.T) {
	bot := newTestBot(t)

	first, err := bot.Ask("xyzzy quantum flux")
	require.NoError(t, err)
	assert.False(t, first.Matched)
	assert.Contains(t, fallbackReplies, first.Reply)

	second, err := bot.Ask("xyzzy quantum flux")
	require.NoError(t, err)
	assert.Equal(t, first.Reply, second.Reply)
}

func TestAskShortTokensOnly(t *testing.T) {
	bot := newTestBot(t)

	answer, err := bot.Ask("a b ?")
	require.NoError(t, err)
	assert.False(t, answer.Matched)
	assert.Zero(t, answer.Score)
}

func TestAskRejectsBlankQuery(t *testing.T) {
	bot := newTestBot(t)

	_, err := bot.Ask("   ")
	assert.ErrorIs(t, err, models.ErrInvalidPayload)
}

func TestAddFAQsSkipsDuplicates(t *testing.T) {
	bot := NewBot("Betty", []Entry{{Question: "Do you offer transport?", Answer: "Yes."}})

	bot.AddFAQs([]models.FAQ{
		{Question: "do you offer transport?", Answer: "No."},
		{Question: "Is there a uniform?", Answer: "Yes, a simple uniform."},
		{Question: "", Answer: "ignored"},
	})
	assert.Equal(t, 2, bot.Len())

	answer, err := bot.Ask("uniform")
	require.NoError(t, err)
	assert.True(t, answer.Matched)
	assert.Equal(t, "Yes, a simple uniform.", answer.Reply)
}

func TestGreeting(t *testing.T) {
	assert.Equal(t, "Hi! I'm Betty, your assistant. How can I help you today?", NewBot("Betty", nil).Greeting())
}

func TestLoadKnowledgeBaseRejectsBadYAML(t *testing.T) {
	_, err := LoadKnowledgeBase([]byte("entries: [unclosed"))
	assert.Error(t, err)
}
