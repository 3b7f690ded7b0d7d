package helper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Ethernal-Tech/utxo-indexer/secrets"
	"github.com/Ethernal-Tech/utxo-indexer/secrets/hashicorpvault"
	"github.com/Ethernal-Tech/utxo-indexer/secrets/local"
	"github.com/hashicorp/go-hclog"
)

// SetupLocalSecretsManager is a helper method for boilerplate local secrets manager setup
func SetupLocalSecretsManager(dataDir string) (secrets.SecretsManager, error) {
	return local.SecretsManagerFactory(
		&secrets.SecretsManagerConfig{
			Path: dataDir,
		},
		&secrets.SecretsManagerParams{
			Logger: hclog.NewNullLogger(),
		},
	)
}

// CreateSecretsManager returns the manager for the type defined in the config
func CreateSecretsManager(config *secrets.SecretsManagerConfig) (secrets.SecretsManager, error) {
	params := &secrets.SecretsManagerParams{
		Logger: hclog.NewNullLogger(),
	}

	switch config.Type {
	case secrets.Local:
		return local.SecretsManagerFactory(config, params)
	case secrets.HashicorpVault:
		return hashicorpvault.SecretsManagerFactory(config, params)
	default:
		return nil, errors.New("unsupported secrets manager type")
	}
}

// GetRPCCredentials resolves the chain node credentials stored as "user:pass"
func GetRPCCredentials(manager secrets.SecretsManager) (user string, pass string, err error) {
	value, err := manager.GetSecret(secrets.RPCCredentials)
	if err != nil {
		return "", "", err
	}

	parts := strings.SplitN(strings.TrimSpace(string(value)), ":", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("malformed %s secret", secrets.RPCCredentials)
	}

	return parts[0], parts[1], nil
}
