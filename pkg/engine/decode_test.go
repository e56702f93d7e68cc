package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgforge-labs/orgforge/pkg/model"
)

func TestDecodeAction(t *testing.T) {
	t.Run("payload action", func(t *testing.T) {
		a, err := DecodeAction(Envelope{
			Type:    "ADD_LINK",
			Payload: json.RawMessage(`{"name": "docs", "url": "https://example.org"}`),
		})
		require.NoError(t, err)
		link, ok := a.(AddLink)
		require.True(t, ok)
		assert.Equal(t, "docs", link.Name)
		assert.Equal(t, "https://example.org", link.URL)
	})

	t.Run("payload-less action tolerates missing payload", func(t *testing.T) {
		a, err := DecodeAction(Envelope{Type: "NEXT_STEP"})
		require.NoError(t, err)
		assert.IsType(t, NextStep{}, a)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := DecodeAction(Envelope{Type: "FORMAT_DISK"})
		assert.ErrorIs(t, err, ErrUnknownAction)
	})

	t.Run("malformed payload", func(t *testing.T) {
		_, err := DecodeAction(Envelope{
			Type:    "SET_STEP",
			Payload: json.RawMessage(`{"step": "launch"}`),
		})
		assert.Error(t, err)
	})
}

// TestDecoderCoversEveryAction dispatches each decoded zero-value
// action to make sure the wire table and the reducer agree on the
// closed set.
func TestDecoderCoversEveryAction(t *testing.T) {
	d, ids := seedDraft(t)
	for _, typ := range KnownActionTypes() {
		a, err := DecodeAction(Envelope{Type: typ})
		require.NoError(t, err, typ)
		assert.Equal(t, typ, a.ActionType(), typ)

		// Zero-value payloads may be rejected, but never panic.
		_, _ = Reduce(d, a, ids)
	}
}

func TestDecodedActionRoundTrip(t *testing.T) {
	d, ids := seedDraft(t)
	a, err := DecodeAction(Envelope{
		Type:    "UPDATE_ORGANIZATION",
		Payload: json.RawMessage(`{"patch": {"name": "Decoded Org"}}`),
	})
	require.NoError(t, err)

	next, err := Reduce(d, a, ids)
	require.NoError(t, err)
	assert.Equal(t, "Decoded Org", next.Organization.Name)
	assert.Equal(t, model.ModeSimple, next.UI.Mode)
}
