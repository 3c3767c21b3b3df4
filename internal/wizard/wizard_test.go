package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var threeSections = []Section{
	{Title: "One", Fields: []string{"name"}},
	{Title: "Two", Fields: []string{"weight", "tags"}},
	{Title: "Three", Fields: []string{"vaccinated"}},
}

func newController(t *testing.T) *Controller {
	t.Helper()
	c, err := New(threeSections, Fields{"name": ""})
	require.NoError(t, err)
	return c
}

func noSubmit(t *testing.T) func(context.Context, Fields) error {
	return func(context.Context, Fields) error {
		t.Fatal("submit must not be called before the last section")
		return nil
	}
}

func TestNew_RequiresSections(t *testing.T) {
	_, err := New(nil, nil)
	assert.ErrorIs(t, err, ErrNoSections)
}

func TestController_Navigation(t *testing.T) {
	ctx := context.Background()
	c := newController(t)

	c.Previous()
	assert.Equal(t, 0, c.Snapshot().Index, "previous at the first section stays put")

	submitted, err := c.Next(ctx, noSubmit(t))
	require.NoError(t, err)
	assert.False(t, submitted)
	assert.Equal(t, 1, c.Snapshot().Index)
	assert.Equal(t, "Two", c.Snapshot().Section.Title)

	c.Previous()
	assert.Equal(t, 0, c.Snapshot().Index)
}

func TestController_SubmitAtLastSection(t *testing.T) {
	ctx := context.Background()
	c := newController(t)
	require.NoError(t, c.Set("name", "Biscuit"))

	for i := 0; i < 2; i++ {
		_, err := c.Next(ctx, noSubmit(t))
		require.NoError(t, err)
	}
	assert.Equal(t, 2, c.Snapshot().Index)

	var got Fields
	calls := 0
	submitted, err := c.Next(ctx, func(_ context.Context, f Fields) error {
		calls++
		got = f
		return nil
	})
	require.NoError(t, err)
	assert.True(t, submitted)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "Biscuit", got.String("name"))

	snap := c.Snapshot()
	assert.Equal(t, 2, snap.Index, "index never passes the last section")
	assert.True(t, snap.Submitted)

	_, err = c.Next(ctx, func(context.Context, Fields) error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.Equal(t, 1, calls)
}

func TestController_SubmitFailureIsRetryable(t *testing.T) {
	ctx := context.Background()
	c, err := New(threeSections[:1], nil)
	require.NoError(t, err)

	boom := errors.New("provider unavailable")
	submitted, err := c.Next(ctx, func(context.Context, Fields) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, submitted)
	assert.False(t, c.Snapshot().Submitted)

	submitted, err = c.Next(ctx, func(context.Context, Fields) error { return nil })
	require.NoError(t, err)
	assert.True(t, submitted)
}

func TestController_ReadsDuringSubmit(t *testing.T) {
	ctx := context.Background()
	c, err := New(threeSections[:1], Fields{"name": "Biscuit"})
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := c.Next(ctx, func(context.Context, Fields) error {
			close(started)
			<-release
			return nil
		})
		done <- err
	}()
	<-started

	state := c.Snapshot()
	assert.True(t, state.Submitting)
	assert.False(t, state.Submitted)
	assert.Equal(t, "Biscuit", state.Fields.String("name"))

	assert.ErrorIs(t, c.Set("name", "Rex"), ErrSubmitInProgress)
	_, err = c.Next(ctx, func(context.Context, Fields) error {
		t.Fatal("second submit must not run")
		return nil
	})
	assert.ErrorIs(t, err, ErrSubmitInProgress)

	close(release)
	require.NoError(t, <-done)
	state = c.Snapshot()
	assert.True(t, state.Submitted)
	assert.False(t, state.Submitting)
	assert.Equal(t, "Biscuit", state.Fields.String("name"))
}

func TestController_SetOutsideCurrentSection(t *testing.T) {
	c := newController(t)

	require.NoError(t, c.Set("vaccinated", true))
	assert.True(t, c.Snapshot().Fields.Bool("vaccinated"))
	assert.Equal(t, 0, c.Snapshot().Index)
}

func TestController_SetValidation(t *testing.T) {
	c := newController(t)

	assert.ErrorIs(t, c.Set("favourite_colour", "blue"), ErrUnknownField)
	assert.ErrorIs(t, c.Set("weight", map[string]int{"kg": 3}), ErrUnsupportedValue)
	assert.ErrorIs(t, c.Set("tags", []any{"ok", 3}), ErrUnsupportedValue)

	err := c.SetAll(map[string]any{"name": "Rex", "nope": 1})
	assert.ErrorIs(t, err, ErrUnknownField)
	assert.Empty(t, c.Snapshot().Fields.String("name"), "a rejected batch applies nothing")
}

func TestController_NormalizesJSONValues(t *testing.T) {
	c := newController(t)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"weight": 12, "tags": ["hiking", "fetch"]}`), &body))
	require.NoError(t, c.SetAll(body))
	require.NoError(t, c.Set("name", "Rex"))

	f := c.Snapshot().Fields
	assert.Equal(t, 12.0, f.Number("weight"))
	assert.Equal(t, []string{"hiking", "fetch"}, f.Strings("tags"))

	require.NoError(t, c.Set("weight", 7))
	assert.Equal(t, 7.0, c.Snapshot().Fields.Number("weight"))
}

func TestController_SnapshotIsACopy(t *testing.T) {
	c := newController(t)
	require.NoError(t, c.Set("tags", []string{"a"}))

	snap := c.Snapshot()
	snap.Fields["name"] = "mutated"
	snap.Fields.Strings("tags")[0] = "mutated"

	fresh := c.Snapshot().Fields
	assert.Empty(t, fresh.String("name"))
	assert.Equal(t, []string{"a"}, fresh.Strings("tags"))
}

func TestFields_Accessors(t *testing.T) {
	f := Fields{"s": "x", "n": 2.5, "b": true, "l": []string{"a"}}

	assert.Equal(t, "x", f.String("s"))
	assert.Equal(t, 2.5, f.Number("n"))
	assert.True(t, f.Bool("b"))
	assert.Equal(t, []string{"a"}, f.Strings("l"))

	assert.Empty(t, f.String("n"))
	assert.Zero(t, f.Number("missing"))
	assert.NotNil(t, f.Strings("missing"))
}

func TestHealthAssessment(t *testing.T) {
	c, err := New(HealthAssessmentSections, HealthAssessmentDefaults())
	require.NoError(t, err)

	snap := c.Snapshot()
	assert.Equal(t, 8, snap.Total)
	assert.Equal(t, "Basic Information", snap.Section.Title)
	assert.Equal(t, "kg", snap.Fields.String("weight_unit"))
	assert.Equal(t, 2.0, snap.Fields.Number("meals_per_day"))
	assert.True(t, snap.Fields.Bool("water_access"))

	require.NoError(t, c.Set("photo", "data:image/png;base64,AAAA"))

	defaults := HealthAssessmentDefaults()
	defaults["name"] = "changed"
	assert.Empty(t, HealthAssessmentDefaults().String("name"))
}

func TestStore(t *testing.T) {
	store := NewStore(2, time.Minute)

	id, c, err := store.Create(threeSections, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got, ok := store.Get(id)
	require.True(t, ok)
	assert.Same(t, c, got)

	_, ok = store.Get("missing")
	assert.False(t, ok)

	_, _, err = store.Create(nil, nil)
	assert.ErrorIs(t, err, ErrNoSections)
	assert.Equal(t, 1, store.Len())

	store.Remove(id)
	_, ok = store.Get(id)
	assert.False(t, ok)
}

func TestStore_IdleExpiry(t *testing.T) {
	store := NewStore(4, 20*time.Millisecond)

	id, _, err := store.Create(threeSections, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, ok := store.wizards.Peek(id)
		return !ok
	}, time.Second, 10*time.Millisecond)
}
