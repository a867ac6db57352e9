package automation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProber struct {
	mu      sync.Mutex
	probed  []string
	present map[string]bool
	// presentAfter делает селектор видимым после N опросов
	presentAfter map[string]int
	calls        map[string]int
}

func newFakeProber() *fakeProber {
	return &fakeProber{
		present:      make(map[string]bool),
		presentAfter: make(map[string]int),
		calls:        make(map[string]int),
	}
}

func (p *fakeProber) Probe(ctx context.Context, selector string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.probed = append(p.probed, selector)
	p.calls[selector]++

	if after, ok := p.presentAfter[selector]; ok && p.calls[selector] > after {
		return true, nil
	}
	return p.present[selector], nil
}

func TestWaitForAny_PrefersEarlierLocator(t *testing.T) {
	prober := newFakeProber()
	prober.present["#primary"] = true
	prober.present["#fallback"] = true

	locators := []Locator{
		{Name: "primary", Selector: "#primary"},
		{Name: "fallback", Selector: "#fallback"},
	}

	outcome, err := WaitForAny(context.Background(), prober, locators, time.Second)

	require.NoError(t, err)
	assert.True(t, outcome.Found)
	assert.Equal(t, "primary", outcome.Locator)
	assert.Equal(t, []string{"#primary"}, prober.probed)
}

func TestWaitForAny_FallsBackInOrder(t *testing.T) {
	prober := newFakeProber()
	prober.present["#fallback"] = true

	locators := []Locator{
		{Name: "primary", Selector: "#primary"},
		{Name: "fallback", Selector: "#fallback"},
	}

	outcome, err := WaitForAny(context.Background(), prober, locators, time.Second)

	require.NoError(t, err)
	assert.True(t, outcome.Found)
	assert.Equal(t, "fallback", outcome.Locator)
	assert.Equal(t, []string{"#primary", "#fallback"}, prober.probed)
}

func TestWaitForAny_PollsUntilAppearance(t *testing.T) {
	prober := newFakeProber()
	prober.presentAfter["#late"] = 1

	locators := []Locator{{Name: "late", Selector: "#late"}}

	outcome, err := WaitForAny(context.Background(), prober, locators, 5*time.Second)

	require.NoError(t, err)
	assert.True(t, outcome.Found)
	assert.Equal(t, "late", outcome.Locator)
	assert.GreaterOrEqual(t, prober.calls["#late"], 2)
}

func TestWaitForAny_BoundedTotalWait(t *testing.T) {
	prober := newFakeProber()

	locators := []Locator{
		{Name: "one", Selector: "#one"},
		{Name: "two", Selector: "#two"},
	}

	start := time.Now()
	outcome, err := WaitForAny(context.Background(), prober, locators, time.Second)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.False(t, outcome.Found)
	assert.Empty(t, outcome.Locator)
	// Лимит общий на все стратегии, а не на каждую
	assert.Less(t, elapsed, 2*time.Second)
}

func TestWaitForAny_CancelledContext(t *testing.T) {
	prober := newFakeProber()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	locators := []Locator{{Name: "one", Selector: "#one"}}

	outcome, err := WaitForAny(ctx, prober, locators, time.Minute)

	require.NoError(t, err)
	assert.False(t, outcome.Found)
}
