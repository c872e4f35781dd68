package questions

import (
	"context"
	"math/rand"
	"sort"
	"sync"

	"yourturn/internal/models"
)

// MemorySource is an in-process question catalog. It backs the server
// when no database is configured and doubles as the test source.
type MemorySource struct {
	mu         sync.RWMutex
	byCategory map[string][]models.Question
	nextID     int
}

// NewMemorySource creates an empty in-memory source.
func NewMemorySource() *MemorySource {
	return &MemorySource{
		byCategory: make(map[string][]models.Question),
		nextID:     1,
	}
}

// NewSeededSource creates an in-memory source pre-filled with the
// built-in catalog.
func NewSeededSource() *MemorySource {
	s := NewMemorySource()
	for category, pairs := range builtinCatalog {
		for _, qa := range pairs {
			s.Add(category, qa[0], qa[1])
		}
	}
	return s
}

// Add inserts a question and returns its assigned ID.
func (s *MemorySource) Add(category, text, answer string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.byCategory[category] = append(s.byCategory[category], models.Question{
		ID:     id,
		Text:   text,
		Answer: answer,
	})
	return id
}

// Random returns one random eligible question, or ErrNoQuestions.
func (s *MemorySource) Random(_ context.Context, category string, exclude []int) (*models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	excluded := make(map[int]bool, len(exclude))
	for _, id := range exclude {
		excluded[id] = true
	}

	eligible := make([]models.Question, 0, len(s.byCategory[category]))
	for _, q := range s.byCategory[category] {
		if !excluded[q.ID] {
			eligible = append(eligible, q)
		}
	}
	if len(eligible) == 0 {
		return nil, ErrNoQuestions
	}

	q := eligible[rand.Intn(len(eligible))]
	return &q, nil
}

// Categories lists category names in sorted order.
func (s *MemorySource) Categories(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.byCategory))
	for name := range s.byCategory {
		if len(s.byCategory[name]) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// builtinCatalog is the fallback question set, keyed by category.
// Each entry is a {question, answer} pair.
var builtinCatalog = map[string][][2]string{
	"General Knowledge": {
		{"What is the capital of France?", "Paris"},
		{"Which is the largest ocean on Earth?", "Pacific Ocean"},
		{"What is Einstein's famous formula?", "E=mc^2"},
		{"Who painted the Mona Lisa?", "Leonardo da Vinci"},
		{"Who was the first person to walk on the Moon?", "Neil Armstrong"},
	},
	"Sports": {
		{"How often is the FIFA World Cup held, in years?", "4"},
		{"How many players are on the court in a basketball game?", "10"},
		{"What is the symbol of the Olympic Games?", "Five rings"},
		{"How many points is a try worth in rugby union?", "5"},
		{"In which sport is the Ryder Cup contested?", "Golf"},
	},
	"History": {
		{"In what year did the Ottoman Empire fall?", "1922"},
		{"In what year did Constantinople fall?", "1453"},
		{"In what year did World War I begin?", "1914"},
		{"Who was the first president of the United States?", "George Washington"},
		{"In what year did the Berlin Wall fall?", "1989"},
	},
	"Science": {
		{"What is the chemical formula of water?", "H2O"},
		{"Which is the largest planet in the solar system?", "Jupiter"},
		{"What is the largest organ of the human body?", "Skin"},
		{"What does DNA stand for?", "Deoxyribonucleic acid"},
		{"How many elements are in the periodic table?", "118"},
	},
	"Arts": {
		{"What is Van Gogh's most famous painting?", "The Starry Night"},
		{"In which country was Mozart born?", "Austria"},
		{"Who painted the ceiling of the Sistine Chapel?", "Michelangelo"},
		{"Who wrote Hamlet?", "William Shakespeare"},
		{"What is another name for La Gioconda?", "Mona Lisa"},
	},
	"Geography": {
		{"What is the highest mountain on Earth?", "Everest"},
		{"On which continent is the Amazon River?", "South America"},
		{"What is the largest desert in the world?", "Sahara"},
		{"What is the largest continent?", "Asia"},
		{"Which country has the longest coastline?", "Canada"},
	},
	"Entertainment": {
		{"Who created Mickey Mouse?", "Walt Disney"},
		{"In what year was the first Star Wars film released?", "1977"},
		{"Who wrote the Harry Potter series?", "J.K. Rowling"},
		{"What is Superman's real name?", "Clark Kent"},
		{"Which game series does Pikachu come from?", "Pokemon"},
	},
	"Technology": {
		{"In what year was the first iPhone released?", "2007"},
		{"Who are the founders of Google?", "Larry Page and Sergey Brin"},
		{"Who developed the Windows operating system?", "Bill Gates"},
		{"Who invented the World Wide Web?", "Tim Berners-Lee"},
		{"Who founded Apple?", "Steve Jobs"},
	},
}
