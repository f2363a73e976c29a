package nav

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetActive(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	assert.False(t, store.IsActive(SectionBifrostTsDocs))

	store.SetActive(ctx, SectionBifrostTsDocs, true)
	store.SetActive(ctx, SectionSewingMachine, true)
	assert.True(t, store.IsActive(SectionBifrostTsDocs))
	assert.True(t, store.IsActive(SectionSewingMachine), "sections are independent")

	store.SetActive(ctx, SectionSewingMachine, false)
	assert.False(t, store.IsActive(SectionSewingMachine))
	assert.True(t, store.IsActive(SectionBifrostTsDocs))
}

func TestSnapshotIsSorted(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	store.SetActive(ctx, "zeta", true)
	store.SetActive(ctx, "alpha", false)
	store.SetActive(ctx, "zeta", true)

	snapshot := store.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "alpha", snapshot[0].Section)
	assert.False(t, snapshot[0].Active)
	assert.Equal(t, "zeta", snapshot[1].Section)
	assert.Equal(t, 2, snapshot[1].Marks)
	assert.Equal(t, 2, store.Marks("zeta"))
	assert.Equal(t, 0, store.Marks("missing"))

	store.Reset()
	assert.Empty(t, store.Snapshot())
}

func TestWatch(t *testing.T) {
	store := NewStore()
	events := store.Watch()

	store.SetActive(context.Background(), SectionBifrostTsDocs, true)
	store.SetActive(context.Background(), SectionBifrostTsDocs, true)

	select {
	case ev := <-events:
		assert.Equal(t, SectionBifrostTsDocs, ev.Section)
		assert.True(t, ev.Active)
		assert.True(t, ev.Changed)
		assert.NotEmpty(t, ev.ID)
	case <-time.After(time.Second):
		t.Fatal("expected event")
	}

	select {
	case ev := <-events:
		assert.False(t, ev.Changed, "re-marking an active section is not a change")
	case <-time.After(time.Second):
		t.Fatal("expected second event")
	}

	store.UnWatch(events)
	_, open := <-events
	assert.False(t, open)
}

func TestSectionBinding(t *testing.T) {
	store := NewStore()
	setter := Section(store, SectionSewingMachine)

	setter.SetActive(context.Background(), true)
	assert.True(t, store.IsActive(SectionSewingMachine))
	assert.False(t, store.IsActive(SectionBifrostTsDocs))
}

func TestConcurrentSetActive(t *testing.T) {
	store := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.SetActive(context.Background(), SectionBifrostTsDocs, true)
			_ = store.Snapshot()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, store.Marks(SectionBifrostTsDocs))
}
