// Package errors_test provides unit tests for the CompileError type, factory
// functions, and error-chain helpers.
package errors_test

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/nanoforge/pkg/errors"
	"github.com/turtacn/nanoforge/pkg/types/forcefield"
)

func addr(body, atom int, z uint8) forcefield.AtomAddress {
	return forcefield.AtomAddress{RigidBodyIndex: body, AtomIndex: atom, AtomicNumber: z}
}

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"missing parameter", errors.CodeMissingParameter, "no stretch row"},
		{"open valence", errors.CodeOpenValenceShell, "five bonds on carbon"},
		{"unsupported ring", errors.CodeUnsupportedRing, "3-ring"},
		{"invalid param", errors.CodeInvalidParam, "bond index out of range"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ce := errors.New(tc.code, tc.message)
			require.NotNil(t, ce)
			assert.Equal(t, tc.code, ce.Code)
			assert.Equal(t, tc.message, ce.Message)
			assert.Empty(t, ce.Detail)
			assert.Nil(t, ce.Cause)
		})
	}
}

func TestError_Format(t *testing.T) {
	t.Parallel()

	ce := errors.MissingParameter("no bending row", addr(0, 3, 6), addr(0, 5, 1))
	msg := ce.Error()
	assert.Contains(t, msg, "MissingParameter")
	assert.Contains(t, msg, "30001")
	assert.Contains(t, msg, "0/3(Z=6)")
	assert.Contains(t, msg, "0/5(Z=1)")

	withDetail := ce.WithDetail("codes (1, 1, 11)")
	assert.True(t, strings.HasSuffix(withDetail.Error(), ": codes (1, 1, 11)"))
	// The receiver is not mutated.
	assert.Empty(t, ce.Detail)
}

func TestWrap_NilPassThrough(t *testing.T) {
	t.Parallel()
	assert.Nil(t, errors.Wrap(nil, errors.CodeMissingParameter, "ignored"))
}

func TestWrap_PreservesCodeOnUnknown(t *testing.T) {
	t.Parallel()

	inner := errors.UnsupportedRing("4-ring", addr(0, 1, 6))
	wrapped := errors.Wrap(inner, errors.CodeUnknown, "topology pass failed")
	assert.Equal(t, errors.CodeUnsupportedRing, wrapped.Code)
	assert.True(t, stderrors.Is(wrapped, wrapped))

	var ce *errors.CompileError
	require.True(t, stderrors.As(wrapped, &ce))
	assert.Same(t, wrapped, ce)
	assert.Equal(t, inner, wrapped.Cause)
}

func TestIsCode_TraversesChain(t *testing.T) {
	t.Parallel()

	inner := errors.OpenValenceShell("too many bonds", addr(1, 2, 14))
	wrapped := fmt.Errorf("outer: %w", inner)
	assert.True(t, errors.IsCode(wrapped, errors.CodeOpenValenceShell))
	assert.False(t, errors.IsCode(wrapped, errors.CodeMissingParameter))
	assert.False(t, errors.IsCode(nil, errors.CodeMissingParameter))
}

func TestGetCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.CodeUnsupportedCenterType,
		errors.GetCode(errors.UnsupportedCenterType("lone center", addr(0, 0, 6))))
}

func TestIsUserFault(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.IsUserFault(errors.MissingParameter("m")))
	assert.True(t, errors.IsUserFault(errors.InvalidParam("m")))
	assert.False(t, errors.IsUserFault(errors.Internal(errors.CodeSlotOverflow, "m")))
	assert.False(t, errors.IsUserFault(errors.Internal(errors.CodeDiagonalization, "m")))
	assert.False(t, errors.IsUserFault(stderrors.New("plain")))
}

func TestCodeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "MissingParameter", errors.CodeMissingParameter.String())
	assert.Equal(t, "SlotOverflow", errors.CodeSlotOverflow.String())
	assert.Equal(t, "Code(99999)", errors.ErrorCode(99999).String())
}

func TestWithAddresses_CopiesReceiver(t *testing.T) {
	t.Parallel()

	base := errors.New(errors.CodeMissingParameter, "m")
	withAddrs := base.WithAddresses(addr(0, 7, 9))
	assert.Empty(t, base.Addresses)
	require.Len(t, withAddrs.Addresses, 1)
	assert.Equal(t, 7, withAddrs.Addresses[0].AtomIndex)
}

func TestNilReceiverBuilders(t *testing.T) {
	t.Parallel()

	var ce *errors.CompileError
	assert.Nil(t, ce.WithDetail("d"))
	assert.Nil(t, ce.WithCause(stderrors.New("x")))
	assert.Nil(t, ce.WithAddresses())
}
