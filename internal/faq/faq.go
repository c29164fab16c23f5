package faq

import (
	_ "embed"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"gopkg.in/yaml.v3"

	"fasika-cms/internal/models"
)

const (
	questionWeight = 0.7
	answerWeight   = 0.3

	// MatchThreshold is the minimum weighted score for an entry to be used.
	MatchThreshold = 0.7

	minTokenLength   = 3
	subsequenceFloor = 0.8
	infixScore       = 0.9
)

var fallbackReplies = []string{
	"I'm sorry, I couldn't find an answer to that question.",
	"Could you rephrase your question?",
	"That's an interesting question! Let me look into that.",
}

// Words that appear in most questions and would otherwise dominate scores.
var stopwords = map[string]bool{
	"the": true, "and": true, "are": true, "you": true, "your": true, "for": true,
	"what": true, "how": true, "can": true, "does": true, "with": true, "have": true,
	"there": true, "any": true, "our": true, "who": true, "when": true, "where": true,
	"which": true, "will": true, "about": true, "this": true, "that": true, "from": true,
	"time": true,
}

//go:embed knowledge_base.yaml
var knowledgeBaseYAML []byte

type Entry struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

type knowledgeBase struct {
	Entries []Entry `yaml:"entries"`
}

type Answer struct {
	Reply    string  `json:"reply"`
	Matched  bool    `json:"matched"`
	Question string  `json:"question,omitempty"`
	Score    float64 `json:"score"`
}

type indexedEntry struct {
	Entry
	questionTokens []string
	answerTokens   []string
}

// Bot answers free-text questions from a fixed knowledge base.
type Bot struct {
	name    string
	mu      sync.RWMutex
	entries []indexedEntry
}

// LoadKnowledgeBase parses YAML of the form `entries: [{question, answer}]`.
func LoadKnowledgeBase(data []byte) ([]Entry, error) {
	var kb knowledgeBase
	if err := yaml.Unmarshal(data, &kb); err != nil {
		return nil, fmt.Errorf("faq.LoadKnowledgeBase: %w", err)
	}
	return kb.Entries, nil
}

// DefaultKnowledgeBase returns the embedded question/answer pairs.
func DefaultKnowledgeBase() []Entry {
	entries, err := LoadKnowledgeBase(knowledgeBaseYAML)
	if err != nil {
		panic(err)
	}
	return entries
}

func NewBot(name string, entries []Entry) *Bot {
	b := &Bot{name: name}
	b.AddEntries(entries)
	return b
}

func (b *Bot) Name() string {
	return b.name
}

func (b *Bot) Greeting() string {
	return fmt.Sprintf("Hi! I'm %s, your assistant. How can I help you today?", b.name)
}

func (b *Bot) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// AddEntries appends entries whose question is not already known.
func (b *Bot) AddEntries(entries []Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	known := make(map[string]bool, len(b.entries))
	for _, e := range b.entries {
		known[strings.ToLower(e.Question)] = true
	}
	for _, e := range entries {
		key := strings.ToLower(strings.TrimSpace(e.Question))
		if key == "" || strings.TrimSpace(e.Answer) == "" || known[key] {
			continue
		}
		known[key] = true
		b.entries = append(b.entries, indexedEntry{
			Entry:          e,
			questionTokens: tokenize(e.Question, 1),
			answerTokens:   tokenize(e.Answer, 1),
		})
	}
}

// AddFAQs merges the FAQs shown on the admission page.
func (b *Bot) AddFAQs(faqs []models.FAQ) {
	entries := make([]Entry, 0, len(faqs))
	for _, f := range faqs {
		entries = append(entries, Entry{Question: f.Question, Answer: f.Answer})
	}
	b.AddEntries(entries)
}

// Ask returns the best matching answer, or a fallback reply chosen from the
// query text so the same question always gets the same reply.
func (b *Bot) Ask(query string) (*Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.ErrInvalidPayload
	}

	tokens := queryTokens(query)

	b.mu.RLock()
	defer b.mu.RUnlock()

	bestIdx, bestScore := -1, 0.0
	if len(tokens) > 0 {
		scores := make([][]float64, len(b.entries))
		matched := make([]int, len(tokens))
		for i, e := range b.entries {
			scores[i] = make([]float64, len(tokens))
			for j, t := range tokens {
				q := bestSimilarity(t, e.questionTokens)
				a := bestSimilarity(t, e.answerTokens)
				scores[i][j] = questionWeight*q + answerWeight*a
				if max(q, a) >= subsequenceFloor {
					matched[j]++
				}
			}
		}

		weights, total := tokenWeights(matched, len(b.entries))
		if total > 0 {
			for i, row := range scores {
				var score float64
				for j, s := range row {
					score += weights[j] * s
				}
				score /= total
				if score > bestScore {
					bestIdx, bestScore = i, score
				}
			}
		}
	}

	if bestIdx >= 0 && bestScore >= MatchThreshold {
		e := b.entries[bestIdx]
		return &Answer{Reply: e.Answer, Matched: true, Question: e.Question, Score: bestScore}, nil
	}
	return &Answer{Reply: fallback(query), Score: bestScore}, nil
}

func fallback(query string) string {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(query)))
	return fallbackReplies[h.Sum32()%uint32(len(fallbackReplies))]
}

func queryTokens(query string) []string {
	all := tokenize(query, minTokenLength)
	var content []string
	for _, t := range all {
		if !stopwords[t] {
			content = append(content, t)
		}
	}
	if len(content) == 0 {
		return all
	}
	return content
}

func tokenize(s string, minLen int) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minLen {
			out = append(out, f)
		}
	}
	return out
}

// tokenWeights weights each query token by how few entries it matches.
// Tokens that match no entry carry no weight, so filler words cannot drag
// down a real match.
func tokenWeights(matched []int, entries int) ([]float64, float64) {
	weights := make([]float64, len(matched))
	var total float64
	for i, n := range matched {
		if n == 0 {
			continue
		}
		weights[i] = math.Log(1 + float64(entries)/float64(n))
		total += weights[i]
	}
	return weights, total
}

func bestSimilarity(q string, field []string) float64 {
	best := 0.0
	for _, f := range field {
		if s := similarity(q, f); s > best {
			best = s
			if best == 1 {
				break
			}
		}
	}
	return best
}

func similarity(q, f string) float64 {
	if strings.HasPrefix(f, q) {
		return 1
	}
	if strings.Contains(f, q) {
		return infixScore
	}
	maxLen := utf8.RuneCountInString(q)
	if n := utf8.RuneCountInString(f); n > maxLen {
		maxLen = n
	}
	s := 1 - float64(fuzzy.LevenshteinDistance(q, f))/float64(maxLen)
	if s < subsequenceFloor && fuzzy.MatchNormalizedFold(q, f) {
		s = subsequenceFloor
	}
	if s < 0 {
		s = 0
	}
	return s
}
