package sequence

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource mimics the durable record set: MaxSequence reflects only what
// was explicitly persisted, like a store would after a crash.
type fakeSource struct {
	mu  sync.Mutex
	max map[string]int
	err error
}

func (f *fakeSource) MaxSequence(_ context.Context, toteID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	return f.max[toteID], nil
}

func (f *fakeSource) persist(toteID string, seq int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if seq > f.max[toteID] {
		f.max[toteID] = seq
	}
}

func TestNext_FreshToteStartsAtOne(t *testing.T) {
	m := NewManager(&fakeSource{max: map[string]int{}})

	seq, err := m.Next(context.Background(), "TOTE-001")
	require.NoError(t, err)
	assert.Equal(t, 1, seq)
}

func TestNext_ResumesFromDurableMax(t *testing.T) {
	m := NewManager(&fakeSource{max: map[string]int{"TOTE-001": 17}})

	seq, err := m.Next(context.Background(), "TOTE-001")
	require.NoError(t, err)
	assert.Equal(t, 18, seq)
}

func TestNext_NeverReusesAfterRemoval(t *testing.T) {
	src := &fakeSource{max: map[string]int{"TOTE-001": 42}}
	m := NewManager(src)

	// Record 42 is removed from the durable set; its number stays burned
	// because this session already observed it.
	seq, err := m.Next(context.Background(), "TOTE-001")
	require.NoError(t, err)
	assert.Equal(t, 43, seq)

	src.mu.Lock()
	src.max["TOTE-001"] = 0
	src.mu.Unlock()

	seq, err = m.Next(context.Background(), "TOTE-001")
	require.NoError(t, err)
	assert.Equal(t, 44, seq)
}

func TestNext_UnpersistedIssuesStillCount(t *testing.T) {
	// Failed items consume identity even if their append races behind the
	// next issue.
	m := NewManager(&fakeSource{max: map[string]int{}})

	first, err := m.Next(context.Background(), "TOTE-002")
	require.NoError(t, err)
	second, err := m.Next(context.Background(), "TOTE-002")
	require.NoError(t, err)
	assert.Equal(t, first+1, second)
}

func TestNext_TotesAreIndependent(t *testing.T) {
	m := NewManager(&fakeSource{max: map[string]int{"TOTE-001": 5}})

	a, err := m.Next(context.Background(), "TOTE-001")
	require.NoError(t, err)
	b, err := m.Next(context.Background(), "TOTE-002")
	require.NoError(t, err)
	assert.Equal(t, 6, a)
	assert.Equal(t, 1, b)
}

func TestNext_EmptyToteIDRejected(t *testing.T) {
	m := NewManager(&fakeSource{max: map[string]int{}})
	_, err := m.Next(context.Background(), "")
	assert.Error(t, err)
}

func TestNext_SourceErrorPropagates(t *testing.T) {
	m := NewManager(&fakeSource{err: eris.New("db locked")})
	_, err := m.Next(context.Background(), "TOTE-001")
	assert.Error(t, err)
}

func TestNext_ConcurrentIssuesAreUnique(t *testing.T) {
	src := &fakeSource{max: map[string]int{}}
	m := NewManager(src)

	const n = 50
	results := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seq, err := m.Next(context.Background(), "TOTE-009")
			require.NoError(t, err)
			src.persist("TOTE-009", seq)
			results <- seq
		}()
	}
	wg.Wait()
	close(results)

	seen := map[int]bool{}
	for seq := range results {
		assert.False(t, seen[seq], "duplicate sequence %d", seq)
		seen[seq] = true
	}
	assert.Len(t, seen, n)
}

func TestNext_PropertyIssueRemoveIssue(t *testing.T) {
	src := &fakeSource{max: map[string]int{}}
	m := NewManager(src)
	ctx := context.Background()

	issued := map[int]bool{}
	for i := 0; i < 10; i++ {
		seq, err := m.Next(ctx, "TOTE-003")
		require.NoError(t, err)
		require.False(t, issued[seq])
		issued[seq] = true
		src.persist("TOTE-003", seq)
	}

	// Remove a few records, then keep issuing: no number comes back.
	src.mu.Lock()
	src.max["TOTE-003"] = 4
	src.mu.Unlock()

	for i := 0; i < 10; i++ {
		seq, err := m.Next(ctx, "TOTE-003")
		require.NoError(t, err)
		require.False(t, issued[seq], "sequence %d reused", seq)
		issued[seq] = true
	}
}

func TestSafeName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Beautiful Katamari", "Beautiful_Katamari"},
		{"Link's Awakening: DX", "Links_Awakening_DX"},
		{"Mario & Luigi!", "Mario__Luigi"},
		{"TOTE-001", "TOTE-001"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SafeName(tt.in))
	}
}

func TestUniquePath_CountsUpOnCollision(t *testing.T) {
	dir := t.TempDir()

	first := UniquePath(dir, "Chrono_Trigger_TOTE-001", ".jpg")
	require.NoError(t, writeFile(first))
	second := UniquePath(dir, "Chrono_Trigger_TOTE-001", ".jpg")
	require.NoError(t, writeFile(second))
	third := UniquePath(dir, "Chrono_Trigger_TOTE-001", ".jpg")

	assert.NotEqual(t, first, second)
	assert.Contains(t, second, "_2.jpg")
	assert.Contains(t, third, "_3.jpg")
}

func writeFile(path string) error {
	return os.WriteFile(path, []byte("x"), 0o644)
}
