package reservation

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"parm-catalog/internal/catalog"
)

var (
	firstNames = []string{
		"Alice", "Bob", "Charlie", "David", "Eva", "Frank", "Grace", "Hannah", "Ivy",
		"Jack", "Karen", "Leo", "Megan", "Nathan", "Olivia", "Paul", "Quincy", "Rachel",
		"Steve", "Tina", "Ursula", "Victor", "Wendy", "Xander", "Yasmine", "Zach",
	}
	lastNames = []string{
		"Smith", "Johnson", "Brown", "Williams", "Jones", "Miller", "Davis", "Garcia",
		"Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson",
		"Thomas", "Taylor", "Moore", "Jackson", "Martin", "Lee", "Perez", "Thompson",
		"White", "Harris", "Clark",
	}
)

const (
	mockChance     = 0.8
	mockMaxEntries = 10
	mockMaxOffset  = 1_000_000_000 * time.Millisecond
	mockMaxLength  = 24 * time.Hour
)

// MockSource makes up reservations for development without a database. Each
// call is independent: the same asset gets a different list every time.
type MockSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

// NewMockSource creates a generator. A zero seed seeds from the clock.
func NewMockSource(seed int64) *MockSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &MockSource{rnd: rand.New(rand.NewSource(seed)), now: time.Now}
}

// FetchReservations returns, four times out of five, between one and ten
// reservations starting within the next eleven and a half days and lasting
// up to a day. Otherwise the list is empty.
func (m *MockSource) FetchReservations(_ context.Context, _ int64) ([]catalog.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.rnd.Float64() >= mockChance {
		return []catalog.Reservation{}, nil
	}

	n := m.rnd.Intn(mockMaxEntries) + 1
	now := m.now()
	out := make([]catalog.Reservation, 0, n)
	for range n {
		user := firstNames[m.rnd.Intn(len(firstNames))] + " " + lastNames[m.rnd.Intn(len(lastNames))]
		start := now.Add(time.Duration(m.rnd.Int63n(int64(mockMaxOffset))))
		end := start.Add(time.Duration(m.rnd.Int63n(int64(mockMaxLength))))
		out = append(out, catalog.Reservation{User: user, StartDate: start, EndDate: end})
	}
	return out, nil
}
