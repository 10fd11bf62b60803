package clipboard

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAccessor struct {
	mu   sync.Mutex
	text string
}

func (a *stubAccessor) Text() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.text, nil
}

func (a *stubAccessor) SetText(text string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.text = text
	return nil
}

func TestPollMonitorReportsClipboardText(t *testing.T) {
	acc := &stubAccessor{text: "polled"}
	m := NewPollMonitor(acc, time.Millisecond)

	got := make(chan string, 1)
	m.OnChange(func(text string) {
		select {
		case got <- text:
		default:
		}
	})

	require.NoError(t, m.Start())
	defer m.Stop()

	select {
	case text := <-got:
		assert.Equal(t, "polled", text)
	case <-time.After(time.Second):
		t.Fatal("handler was never invoked")
	}
}

func TestPollMonitorStopEndsHandlerInvocations(t *testing.T) {
	acc := &stubAccessor{text: "x"}
	m := NewPollMonitor(acc, time.Millisecond)

	var mu sync.Mutex
	count := 0
	m.OnChange(func(string) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	require.NoError(t, m.Start())
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, m.Stop())

	mu.Lock()
	after := count
	mu.Unlock()
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	assert.Equal(t, after, count, "no invocations after Stop returned")
	mu.Unlock()
}
