package authmodel_test

import (
	"testing"

	"github.com/codejam-dev/auth-client/authmodel"
	"github.com/codejam-dev/auth-client/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestEnabledFlagPrefersCurrentSpelling(t *testing.T) {
	require.True(t, authmodel.EnabledFlag(utils.Ptr(true), utils.Ptr(false)))
	require.False(t, authmodel.EnabledFlag(utils.Ptr(false), utils.Ptr(true)))
}

func TestEnabledFlagFallsBackToLegacySpelling(t *testing.T) {
	require.True(t, authmodel.EnabledFlag(nil, utils.Ptr(true)))
	require.False(t, authmodel.EnabledFlag(nil, utils.Ptr(false)))
}

func TestEnabledFlagDefaultsToDisabled(t *testing.T) {
	require.False(t, authmodel.EnabledFlag(nil, nil))
}

func TestAuthPayloadUserForceEnabled(t *testing.T) {
	payload := authmodel.AuthPayload{
		Token:  "tok",
		UserID: "user-1",
		Name:   "Alice",
		Email:  "alice@x.com",
	}

	require.False(t, payload.User(false).IsEnabled)
	require.True(t, payload.User(true).IsEnabled)
}

func TestUserSerializeRoundTrip(t *testing.T) {
	user := authmodel.User{UserID: "user-1", Name: "Alice", Email: "alice@x.com", IsEnabled: true}

	serialized, err := user.Serialize()
	require.NoError(t, err)

	parsed, err := authmodel.ParseUser(serialized)
	require.NoError(t, err)
	require.Equal(t, user, parsed)
}

func TestParseUserRejectsGarbage(t *testing.T) {
	_, err := authmodel.ParseUser("{nope")
	require.Error(t, err)
}
