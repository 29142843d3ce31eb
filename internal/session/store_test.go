package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTruncateTitle is a test harness for title derivation
func testTruncateTitle(t *testing.T, seed string, limit int, expected string) {
	t.Helper()
	assert.Equal(t, expected, truncateTitle(seed, limit))
}

func TestTruncateTitle_UnderLimit(t *testing.T) {
	testTruncateTitle(t, "I want a black dress", 30, "I want a black dress")
}

func TestTruncateTitle_AtLimit(t *testing.T) {
	seed := "123456789012345678901234567890" // exactly 30 runes
	testTruncateTitle(t, seed, 30, seed)
}

func TestTruncateTitle_OverLimit(t *testing.T) {
	seed := "1234567890123456789012345678901" // 31 runes
	testTruncateTitle(t, seed, 30, "123456789012345678901234567890...")
}

func TestTruncateTitle_TrimsWhitespace(t *testing.T) {
	testTruncateTitle(t, "  hello  ", 30, "hello")
}

func TestTruncateTitle_MultibyteRunes(t *testing.T) {
	// 5 runes, 3-rune budget; must never split mid-character
	testTruncateTitle(t, "héllö wörld", 3, "hél...")
}

func TestStore_CreateDerivesTitleOnce(t *testing.T) {
	store := NewStore(10)
	conv := store.Create("a very long seed message indeed")

	assert.Equal(t, "a very lon...", conv.Title)
	assert.NotEmpty(t, conv.ID)
	assert.Empty(t, conv.Messages)
}

func TestStore_ListNewestFirst(t *testing.T) {
	store := NewStore(0)
	first := store.Create("first")
	second := store.Create("second")
	third := store.Create("third")

	list := store.List()
	require.Len(t, list, 3)
	assert.Equal(t, third.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
	assert.Equal(t, first.ID, list[2].ID)
}

func TestStore_AppendUnknownConversation(t *testing.T) {
	store := NewStore(0)
	_, err := store.Append("missing", Message{Text: "hi", Sender: SenderUser})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_AppendPreservesOrder(t *testing.T) {
	store := NewStore(0)
	conv := store.Create("hello")

	now := time.Now()
	for _, text := range []string{"one", "two", "three"} {
		_, err := store.Append(conv.ID, Message{Text: text, Sender: SenderUser, Timestamp: now})
		require.NoError(t, err)
	}

	got, ok := store.Get(conv.ID)
	require.True(t, ok)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, "one", got.Messages[0].Text)
	assert.Equal(t, "two", got.Messages[1].Text)
	assert.Equal(t, "three", got.Messages[2].Text)
}

func TestStore_SetActiveUnknown(t *testing.T) {
	store := NewStore(0)
	assert.ErrorIs(t, store.SetActive("missing"), ErrNotFound)
	assert.Empty(t, store.ActiveID())
}

func TestStore_RemoveAllClearsActivePointer(t *testing.T) {
	store := NewStore(0)
	conv := store.Create("hello")
	require.NoError(t, store.SetActive(conv.ID))

	store.RemoveAll()

	assert.Empty(t, store.ActiveID())
	assert.Empty(t, store.List())
	_, ok := store.Get(conv.ID)
	assert.False(t, ok)
}

func TestStore_AccessorsReturnCopies(t *testing.T) {
	store := NewStore(0)
	conv := store.Create("hello")
	_, err := store.Append(conv.ID, Message{Text: "original", Sender: SenderUser})
	require.NoError(t, err)

	got, ok := store.Get(conv.ID)
	require.True(t, ok)
	got.Messages[0].Text = "mutated"
	got.Title = "mutated"

	fresh, ok := store.Get(conv.ID)
	require.True(t, ok)
	assert.Equal(t, "original", fresh.Messages[0].Text)
	assert.Equal(t, "hello", fresh.Title)
}

func TestStore_RestoreRebuildsIndex(t *testing.T) {
	store := NewStore(0)
	store.restore([]*Conversation{
		{ID: "a", Title: "A", Messages: []Message{{Text: "hi", Sender: SenderUser}}},
		{ID: "b", Title: "B"},
		nil,
		{Title: "no id, skipped"},
	})

	list := store.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Empty(t, store.ActiveID())

	got, ok := store.Get("b")
	require.True(t, ok)
	assert.Equal(t, "B", got.Title)
}
