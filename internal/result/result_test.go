package result

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOkCarriesContent(t *testing.T) {
	r := Ok(42)
	require.True(t, r.OK)
	require.Equal(t, 42, r.Content)
	require.Empty(t, r.ErrMessage)
}

func TestFailCarriesMessage(t *testing.T) {
	r := Fail[int]("boom")
	require.False(t, r.OK)
	require.Equal(t, "boom", r.ErrMessage)
}

func TestGenericMessagesAreDistinct(t *testing.T) {
	// Users must be able to tell "the server broke" from "you're offline".
	require.NotEqual(t, ServerErrMsg, NetworkErrMsg)
	require.Equal(t, ServerErrMsg, ServerError[string]().ErrMessage)
	require.Equal(t, NetworkErrMsg, NetworkError[string]().ErrMessage)
}
