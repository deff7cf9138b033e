package assent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/assent"
)

func TestDefault_PackageHelpers(t *testing.T) {
	restore := assent.ReplaceDefault(nil)
	defer restore()

	require.NoError(t, assent.RegisterWaiter("a", noop, nil))
	request := &recorder{}
	actual, err := assent.SubmitRequest(request.fn, nil)
	require.NoError(t, err)
	assert.True(t, assent.IsDeferred(actual))

	require.NoError(t, assent.Deny("a"))
	_, err = assent.SubmitRequest(request.fn, nil)
	require.NoError(t, err)
	require.NoError(t, assent.DenyButAllowFuture("a"))
	assert.Empty(t, request.calls)

	require.NoError(t, assent.RegisterWaiter("b", noop, nil))
	_, err = assent.SubmitRequest(request.fn, nil)
	require.NoError(t, err)
	require.NoError(t, assent.Consent("b"))
	assert.Len(t, request.calls, 1)
}

func TestReplaceDefault_Restore(t *testing.T) {
	original := assent.Default()
	replacement := assent.New()

	restore := assent.ReplaceDefault(replacement)
	assert.Same(t, replacement, assent.Default())

	require.NoError(t, assent.RegisterWaiter("a", noop, nil))
	assert.Equal(t, []string{"a"}, replacement.Waiters())
	assert.False(t, original.IsRegistered("a"))

	restore()
	assert.Same(t, original, assent.Default())
}

func TestResetDefault(t *testing.T) {
	restore := assent.ReplaceDefault(nil)
	defer restore()

	require.NoError(t, assent.RegisterWaiter("a", noop, nil))
	_, err := assent.SubmitRequest(noop, nil)
	require.NoError(t, err)

	assent.ResetDefault()
	assert.Equal(t, 0, assent.Default().WaiterCount())
	_, pending := assent.Default().Pending()
	assert.False(t, pending)
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "0.1.0", assent.Version)
}
