package helper

import (
	"testing"

	"github.com/Ethernal-Tech/utxo-indexer/secrets"
	"github.com/stretchr/testify/require"
)

func TestSetupLocalSecretsManager(t *testing.T) {
	t.Parallel()

	manager, err := SetupLocalSecretsManager(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, manager)
}

func TestCreateSecretsManager(t *testing.T) {
	t.Parallel()

	_, err := CreateSecretsManager(&secrets.SecretsManagerConfig{Type: "unknown"})
	require.Error(t, err)

	manager, err := CreateSecretsManager(&secrets.SecretsManagerConfig{
		Type: secrets.Local,
		Path: t.TempDir(),
	})
	require.NoError(t, err)
	require.NotNil(t, manager)
}

func TestGetRPCCredentials(t *testing.T) {
	t.Parallel()

	manager, err := SetupLocalSecretsManager(t.TempDir())
	require.NoError(t, err)

	_, _, err = GetRPCCredentials(manager)
	require.Error(t, err)

	require.NoError(t, manager.SetSecret(secrets.RPCCredentials, []byte("alice:hunter2\n")))

	user, pass, err := GetRPCCredentials(manager)
	require.NoError(t, err)
	require.Equal(t, "alice", user)
	require.Equal(t, "hunter2", pass)

	require.NoError(t, manager.SetSecret(secrets.RPCCredentials, []byte("malformed")))

	_, _, err = GetRPCCredentials(manager)
	require.Error(t, err)
}
