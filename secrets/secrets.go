package secrets

import (
	"errors"

	"github.com/hashicorp/go-hclog"
)

type SecretsManagerType string

const (
	// Local pertains to the local directory manager
	Local SecretsManagerType = "local"

	// HashicorpVault pertains to the Hashicorp Vault manager
	HashicorpVault SecretsManagerType = "hashicorp-vault"
)

// Secret names known to the indexer services
const (
	// RPCCredentials holds the chain node credentials as "user:pass"
	RPCCredentials = "rpc-credentials"
)

var ErrSecretNotFound = errors.New("secret not found")

// SecretsManager defines the base public interface of a secret store
type SecretsManager interface {
	// Setup performs the manager specific initialization
	Setup() error

	// GetSecret gets the secret by name
	GetSecret(name string) ([]byte, error)

	// SetSecret sets the secret to a provided value
	SetSecret(name string, value []byte) error

	// HasSecret checks if the secret is present
	HasSecret(name string) bool

	// RemoveSecret removes the secret from storage
	RemoveSecret(name string) error
}

// SecretsManagerParams defines the runtime params of a manager
type SecretsManagerParams struct {
	// Logger object for the manager
	Logger hclog.Logger

	// Extra contains additional data needed by the manager
	Extra map[string]interface{}
}

// SecretsManagerFactory is the factory method for all manager instances
type SecretsManagerFactory func(
	config *SecretsManagerConfig,
	params *SecretsManagerParams,
) (SecretsManager, error)
