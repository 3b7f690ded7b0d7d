package hashicorpvault

import (
	"errors"
	"fmt"

	"github.com/Ethernal-Tech/utxo-indexer/secrets"
	"github.com/hashicorp/go-hclog"
	vault "github.com/hashicorp/vault/api"
)

// VaultSecretsManager is a SecretsManager that
// stores secrets on a Hashicorp Vault instance
type VaultSecretsManager struct {
	// Local logger object
	logger hclog.Logger

	// Token used for Vault instance authentication
	token string

	// The Server URL of the Vault instance
	serverURL string

	// The name of the current node, used for secret namespacing
	name string

	// The base path to store the secrets in the KV-2 Vault storage
	basePath string

	// The HTTP client used for interacting with the Vault server
	client *vault.Client
}

// SecretsManagerFactory implements the factory method
func SecretsManagerFactory(
	config *secrets.SecretsManagerConfig,
	params *secrets.SecretsManagerParams,
) (secrets.SecretsManager, error) {
	if config.Token == "" {
		return nil, errors.New("no token specified for vault secrets manager")
	}

	if config.ServerURL == "" {
		return nil, errors.New("no server url specified for vault secrets manager")
	}

	if config.Name == "" {
		return nil, errors.New("no node name specified for vault secrets manager")
	}

	vaultManager := &VaultSecretsManager{
		logger:    params.Logger.Named("vault"),
		token:     config.Token,
		serverURL: config.ServerURL,
		name:      config.Name,
		basePath:  fmt.Sprintf("secret/data/%s", config.Name),
	}

	if err := vaultManager.Setup(); err != nil {
		return nil, err
	}

	return vaultManager, nil
}

// Setup sets up the Hashicorp Vault secrets manager
func (v *VaultSecretsManager) Setup() error {
	config := vault.DefaultConfig()
	config.Address = v.serverURL

	client, err := vault.NewClient(config)
	if err != nil {
		return fmt.Errorf("unable to initialize vault client, %w", err)
	}

	client.SetToken(v.token)
	v.client = client

	return nil
}

// constructSecretPath returns the path to the secret in the KV-2 Vault storage
func (v *VaultSecretsManager) constructSecretPath(name string) string {
	return fmt.Sprintf("%s/%s", v.basePath, name)
}

// GetSecret fetches a secret from the Hashicorp Vault server
func (v *VaultSecretsManager) GetSecret(name string) ([]byte, error) {
	secret, err := v.client.Logical().Read(v.constructSecretPath(name))
	if err != nil {
		return nil, fmt.Errorf("unable to read secret from vault, %w", err)
	}

	if secret == nil {
		return nil, secrets.ErrSecretNotFound
	}

	data, ok := secret.Data["data"]
	if !ok {
		return nil, fmt.Errorf("unable to assert type for secret from vault, %s", name)
	}

	dataMap, ok := data.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("unable to assert type for secret from vault, %s", name)
	}

	secretRaw, ok := dataMap[name]
	if !ok {
		return nil, secrets.ErrSecretNotFound
	}

	secretValue, ok := secretRaw.(string)
	if !ok {
		return nil, fmt.Errorf("invalid secret value type for %s", name)
	}

	return []byte(secretValue), nil
}

// SetSecret saves a secret to the Hashicorp Vault server
func (v *VaultSecretsManager) SetSecret(name string, value []byte) error {
	_, err := v.client.Logical().Write(v.constructSecretPath(name), map[string]interface{}{
		"data": map[string]string{
			name: string(value),
		},
	})
	if err != nil {
		return fmt.Errorf("unable to store secret (%s), %w", name, err)
	}

	return nil
}

// HasSecret checks if the secret is present on the Hashicorp Vault server
func (v *VaultSecretsManager) HasSecret(name string) bool {
	_, err := v.GetSecret(name)

	return err == nil
}

// RemoveSecret removes a secret from the Hashicorp Vault server
func (v *VaultSecretsManager) RemoveSecret(name string) error {
	_, err := v.client.Logical().Delete(v.constructSecretPath(name))
	if err != nil {
		return fmt.Errorf("unable to delete secret (%s), %w", name, err)
	}

	return nil
}
