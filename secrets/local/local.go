package local

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Ethernal-Tech/utxo-indexer/common"
	"github.com/Ethernal-Tech/utxo-indexer/secrets"
)

// LocalSecretsManager is a SecretsManager that
// stores secrets locally on disk
type LocalSecretsManager struct {
	// Path to the base working directory
	path string

	// Map of known secrets and their paths
	secretPathMap map[string]string

	// Mux for the secretPathMap
	secretPathMapLock sync.RWMutex
}

// SecretsManagerFactory implements the factory method
func SecretsManagerFactory(
	config *secrets.SecretsManagerConfig,
	params *secrets.SecretsManagerParams,
) (secrets.SecretsManager, error) {
	path := config.Path
	if path == "" {
		if extraPath, ok := params.Extra["path"].(string); ok {
			path = extraPath
		}
	}

	if path == "" {
		return nil, errors.New("no path specified for local secrets manager")
	}

	localManager := &LocalSecretsManager{
		secretPathMap: make(map[string]string),
		path:          path,
	}

	if err := localManager.Setup(); err != nil {
		return nil, err
	}

	return localManager, nil
}

// Setup sets up the local SecretsManager
func (l *LocalSecretsManager) Setup() error {
	l.secretPathMapLock.Lock()
	defer l.secretPathMapLock.Unlock()

	if err := common.SetupDataDir(l.path, nil, 0750); err != nil {
		return err
	}

	// baseDir/rpc-credentials.key
	l.secretPathMap[secrets.RPCCredentials] = filepath.Join(l.path, secrets.RPCCredentials+".key")

	return nil
}

// GetSecret gets the local SecretsManager's secret from disk
func (l *LocalSecretsManager) GetSecret(name string) ([]byte, error) {
	l.secretPathMapLock.RLock()
	secretPath, ok := l.secretPathMap[name]
	l.secretPathMapLock.RUnlock()

	if !ok {
		return nil, secrets.ErrSecretNotFound
	}

	secret, err := os.ReadFile(secretPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read secret from disk (%s), %w", secretPath, err)
	}

	return secret, nil
}

// SetSecret saves the local SecretsManager's secret to disk
func (l *LocalSecretsManager) SetSecret(name string, value []byte) error {
	l.secretPathMapLock.Lock()
	secretPath, ok := l.secretPathMap[name]

	if !ok {
		secretPath = filepath.Join(l.path, name+".key")
		l.secretPathMap[name] = secretPath
	}

	l.secretPathMapLock.Unlock()

	if err := common.SaveFileSafe(secretPath, value, 0600); err != nil {
		return fmt.Errorf("unable to write secret to disk (%s), %w", secretPath, err)
	}

	return nil
}

// HasSecret checks if the secret is present on disk
func (l *LocalSecretsManager) HasSecret(name string) bool {
	_, err := l.GetSecret(name)

	return err == nil
}

// RemoveSecret removes the local SecretsManager's secret from disk
func (l *LocalSecretsManager) RemoveSecret(name string) error {
	l.secretPathMapLock.Lock()
	defer l.secretPathMapLock.Unlock()

	secretPath, ok := l.secretPathMap[name]
	if !ok {
		return secrets.ErrSecretNotFound
	}

	delete(l.secretPathMap, name)

	if err := os.Remove(secretPath); err != nil {
		return fmt.Errorf("unable to remove secret, %w", err)
	}

	return nil
}
