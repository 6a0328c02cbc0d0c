package ulid

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValid(t *testing.T) {
	testCases := []struct {
		id       string
		expected bool
	}{
		{id: New(), expected: true},
		{id: "0", expected: false},
		{id: "01b4e6bxy0prj5g420d25mwqyz", expected: false},
		{id: "01B4E6BXY0PRJ5G420D25MWQY!", expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.id, func(t *testing.T) {
			assert.Equal(t, tc.expected, Valid(tc.id))
		})
	}
}

func TestTime(t *testing.T) {
	before := time.Now().Truncate(time.Millisecond)
	ts, err := Time(New())
	require.NoError(t, err)
	assert.False(t, ts.Before(before))

	_, err = Time("invalid")
	require.Error(t, err)
}

func TestNew_Unique(t *testing.T) {
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[string]struct{})
	)

	const n = 5000
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			id := New()
			mu.Lock()
			ids[id] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, ids, n)
}

func TestSetGenerator(t *testing.T) {
	restore := SetGenerator(func() string { return "01HF7BT3HBDTRGQAQMH51RDQEC" })
	assert.Equal(t, "01HF7BT3HBDTRGQAQMH51RDQEC", New())
	restore()
	assert.NotEqual(t, "01HF7BT3HBDTRGQAQMH51RDQEC", New())
}
