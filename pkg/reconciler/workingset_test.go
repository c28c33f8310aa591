package reconciler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/servicesync/pkg/reconciler"
)

func TestWorkingSetFind(t *testing.T) {
	ws := reconciler.NewWorkingSet()
	ws.Add(channel(str("a"), str("x")))
	ws.Add(channel(str("b"), str("y")))
	ws.Add(channel(nil, nil))

	tests := []struct {
		name  string
		id    *string
		ext   *string
		want  int
		found bool
	}{
		{"by id", str("b"), nil, 1, true},
		{"by external id", nil, str("x"), 0, true},
		{"earliest of both keys", str("b"), str("x"), 0, true},
		{"nil keys never match", nil, nil, 0, false},
		{"no match", str("c"), str("z"), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := ws.Find(channel(tt.id, tt.ext))
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.want, idx)
			}
		})
	}
}

func TestWorkingSetLink(t *testing.T) {
	ws := reconciler.NewWorkingSet()
	ws.Add(channel(str("a"), str("x"), "1"))

	assert.True(t, ws.Link(channel(nil, str("x")), "2"))
	assert.True(t, ws.Link(channel(str("a"), nil), "2"))
	assert.False(t, ws.Link(channel(str("b"), nil), "3"))

	require.Equal(t, 1, ws.Len())
	assert.Equal(t, []string{"1", "2"}, ws.Channels()[0].ServiceIDs)
}

func TestWorkingSetChannelsAreCopies(t *testing.T) {
	ws := reconciler.NewWorkingSet()
	orig := channel(str("a"), nil, "1")
	ws.Add(orig)

	orig.ServiceIDs[0] = "changed"
	out := ws.Channels()
	out[0].ServiceIDs[0] = "changed too"

	assert.Equal(t, []string{"1"}, ws.Channels()[0].ServiceIDs)
}

func TestWorkingSetApply(t *testing.T) {
	ws := reconciler.NewWorkingSet()
	ws.Add(channel(str("a"), nil, "1"))

	outcomes := []reconciler.Outcome{
		{Kind: reconciler.OutcomeNew, Channel: channel(str("b"), nil)},
		{Kind: reconciler.OutcomeKnown, Channel: channel(str("a"), nil)},
		{Kind: reconciler.OutcomeUnlinked, Channel: channel(str("c"), str("c"))},
		{Kind: reconciler.OutcomeKnown, Channel: channel(str("zz"), nil)},
	}

	added, linked := ws.Apply("2", outcomes)
	assert.Equal(t, 2, added)
	assert.Equal(t, 1, linked)
	assert.Equal(t, []string{"a", "b", "c"}, ids(ws.Channels()))
	for _, ch := range ws.Channels()[1:] {
		assert.Equal(t, []string{"2"}, ch.ServiceIDs)
	}
	assert.Equal(t, []string{"1", "2"}, ws.Channels()[0].ServiceIDs)
}
