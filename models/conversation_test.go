package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeRoundTrip(t *testing.T) {
	for _, conv := range []Conversation{
		{Type: ConversationGroup, ID: "abc123"},
		{Type: ConversationThread, ID: "xyz789"},
	} {
		parsed, err := ParseScope(conv.Scope())
		require.NoError(t, err)
		assert.Equal(t, conv, parsed)
		assert.True(t, parsed.Valid())
	}
}

func TestParseScopeRejectsMalformed(t *testing.T) {
	for _, scope := range []string{
		"",
		"group",     // ayraç yok
		"group:",    // ID boş
		"dm:abc",    // bilinmeyen tür
		":abc",      // tür boş
	} {
		_, err := ParseScope(scope)
		assert.Error(t, err, "scope %q", scope)
	}
}

func TestParseScopeKeepsColonsInID(t *testing.T) {
	// ID içinde ':' geçerse ilk ayraçtan sonrası olduğu gibi ID'dir
	conv, err := ParseScope("group:a:b")
	require.NoError(t, err)
	assert.Equal(t, "a:b", conv.ID)
}
