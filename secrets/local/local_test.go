package local

import (
	"os"
	"testing"

	"github.com/Ethernal-Tech/utxo-indexer/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSecretsManagerFactory(t *testing.T) {
	// Set up the expected folder structure
	workingDirectory, tempErr := os.MkdirTemp("", "local-secrets-manager")
	if tempErr != nil {
		t.Fatalf("Unable to instantiate local secrets manager directories, %v", tempErr)
	}

	// Set up a clean-up procedure
	t.Cleanup(func() {
		_ = os.RemoveAll(workingDirectory)
	})

	testTable := []struct {
		name          string
		config        *secrets.SecretsManagerConfig
		shouldSucceed bool
	}{
		{
			"Valid configuration with path info",
			&secrets.SecretsManagerConfig{
				Path: workingDirectory,
			},
			true,
		},
		{
			"Invalid configuration without path info",
			&secrets.SecretsManagerConfig{
				Path: "",
			},
			false,
		},
	}

	for _, testCase := range testTable {
		t.Run(testCase.name, func(t *testing.T) {
			localSecretsManager, factoryErr := SecretsManagerFactory(
				testCase.config, &secrets.SecretsManagerParams{})
			if testCase.shouldSucceed {
				assert.NotNil(t, localSecretsManager)
				assert.NoError(t, factoryErr)
			} else {
				assert.Nil(t, localSecretsManager)
				assert.Error(t, factoryErr)
			}
		})
	}
}

func TestLocalSecretsManager_SecretLifecycle(t *testing.T) {
	manager, err := SecretsManagerFactory(
		&secrets.SecretsManagerConfig{Path: t.TempDir()},
		&secrets.SecretsManagerParams{})
	require.NoError(t, err)

	require.False(t, manager.HasSecret(secrets.RPCCredentials))

	_, err = manager.GetSecret(secrets.RPCCredentials)
	require.Error(t, err)

	require.NoError(t, manager.SetSecret(secrets.RPCCredentials, []byte("user:pass")))
	require.True(t, manager.HasSecret(secrets.RPCCredentials))

	value, err := manager.GetSecret(secrets.RPCCredentials)
	require.NoError(t, err)
	require.Equal(t, []byte("user:pass"), value)

	require.NoError(t, manager.RemoveSecret(secrets.RPCCredentials))
	require.False(t, manager.HasSecret(secrets.RPCCredentials))

	require.ErrorIs(t, manager.RemoveSecret("unknown"), secrets.ErrSecretNotFound)
}
