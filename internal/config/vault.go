package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"o1ready/internal/errors"

	"github.com/hashicorp/vault/api"
)

// VaultConfig holds Vault connection configuration
type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"tokenFile"`
	Namespace string `mapstructure:"namespace"`

	Secrets VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets names the KVv2 paths secrets are read from. APIKeys points at
// a single comma-separated string; the first key is primary, the rest are
// fallbacks.
type VaultSecrets struct {
	APIKeys   string `mapstructure:"apiKeys"`
	GeminiKey string `mapstructure:"geminiKey"`
	TLSCerts  string `mapstructure:"tlsCerts"`
}

// VaultClient wraps the Vault API client
type VaultClient struct {
	client *api.Client
	config VaultConfig
	logger *errors.Logger
}

// VaultSecret represents a secret read from Vault's KVv2 engine.
type VaultSecret struct {
	Data    map[string]any
	Version int64
}

// NewVaultClient connects to Vault and verifies the connection. Returns
// (nil, nil) when Vault is disabled in config.
func NewVaultClient(config VaultConfig, logger *errors.Logger) (*VaultClient, error) {
	if !config.Enabled {
		if logger != nil {
			logger.Debug("Vault integration disabled")
		}
		return nil, nil
	}

	apiConfig := api.DefaultConfig()
	if config.Address != "" {
		apiConfig.Address = config.Address
	}
	client, err := api.NewClient(apiConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	if config.Namespace != "" {
		client.SetNamespace(config.Namespace)
	}

	token, err := resolveVaultToken(config, logger)
	if err != nil {
		return nil, err
	}
	client.SetToken(token)

	health, err := client.Sys().Health()
	if err != nil {
		if logger != nil {
			logger.LogError(err, "Failed to connect to Vault", "address", config.Address)
		}
		return nil, fmt.Errorf("failed to connect to vault: %w", err)
	}
	if logger != nil {
		logger.Info("Successfully connected to Vault",
			"address", config.Address,
			"version", health.Version,
			"sealed", health.Sealed,
			"cluster_name", health.ClusterName)
	}

	return &VaultClient{client: client, config: config, logger: logger}, nil
}

// resolveVaultToken takes the inline token when set, otherwise reads the
// token file. An enabled Vault with no token is a configuration error.
func resolveVaultToken(config VaultConfig, logger *errors.Logger) (string, error) {
	token := config.Token

	if token == "" && config.TokenFile != "" {
		tokenBytes, err := os.ReadFile(config.TokenFile)
		if err != nil {
			if logger != nil {
				logger.LogError(err, "Failed to read Vault token file", "file", config.TokenFile)
			}
			return "", fmt.Errorf("failed to read vault token file: %w", err)
		}
		token = strings.TrimSpace(string(tokenBytes))
	}

	if token == "" {
		return "", fmt.Errorf("vault token is required when vault is enabled")
	}
	return token, nil
}

// GetSecretV2 reads a KVv2 secret, returning both its payload and version.
func (vc *VaultClient) GetSecretV2(path string) (*VaultSecret, error) {
	if vc == nil {
		return nil, fmt.Errorf("vault client not initialized")
	}

	secret, err := vc.client.Logical().Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret from %s: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("secret not found at path: %s", path)
	}

	data, ok := secret.Data["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("secret at %s is not in KVv2 format (missing 'data' field)", path)
	}

	metadata, ok := secret.Data["metadata"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("secret at %s is not in KVv2 format (missing 'metadata' field)", path)
	}
	versionRaw, ok := metadata["version"]
	if !ok {
		return nil, fmt.Errorf("secret metadata at %s is missing 'version' field", path)
	}
	version, err := parseVersionValue(versionRaw, path)
	if err != nil {
		return nil, err
	}

	return &VaultSecret{Data: data, Version: version}, nil
}

// parseVersionValue tolerates the numeric encodings the Vault API may use
// for the KVv2 version field.
func parseVersionValue(versionRaw any, path string) (int64, error) {
	switch v := versionRaw.(type) {
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case string:
		version, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("could not parse secret version at %s: %w", path, err)
		}
		return version, nil
	default:
		return 0, fmt.Errorf("unexpected type for version at %s: %T", path, versionRaw)
	}
}

// GetStringSecret reads one string field out of a KVv2 secret.
func (vc *VaultClient) GetStringSecret(path, key string) (string, error) {
	secret, err := vc.GetSecretV2(path)
	if err != nil {
		return "", err
	}
	value, ok := secret.Data[key]
	if !ok {
		return "", fmt.Errorf("key '%s' not found in secret %s", key, path)
	}
	strValue, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("value for key '%s' is not a string in secret %s", key, path)
	}

	if vc.logger != nil {
		vc.logger.Debug("String secret retrieved from Vault",
			"path", path,
			"key", key,
			"masked_value", maskSecret(strValue))
	}
	return strValue, nil
}

func maskSecret(value string) string {
	if len(value) > 8 {
		return value[:4] + "****" + value[len(value)-4:]
	}
	if len(value) > 0 {
		return "****"
	}
	return value
}

// GetStringSliceSecret reads a comma-separated string field as a slice.
func (vc *VaultClient) GetStringSliceSecret(path, key string) ([]string, error) {
	value, err := vc.GetStringSecret(path, key)
	if err != nil {
		return nil, err
	}
	if value == "" {
		return []string{}, nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, len(parts))
	for i, part := range parts {
		result[i] = strings.TrimSpace(part)
	}
	return result, nil
}

// ApplyVaultSecrets reads the configured secrets and folds them into cfg.
// A disabled Vault block is a no-op.
func ApplyVaultSecrets(cfg *Config, logger *errors.Logger) error {
	if !cfg.Vault.Enabled {
		if logger != nil {
			logger.Debug("Vault integration disabled, skipping secret loading")
		}
		return nil
	}

	client, err := NewVaultClient(cfg.Vault, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize vault client: %w", err)
	}
	if client == nil {
		return nil
	}

	if err := client.applyAPIKeys(cfg); err != nil {
		return err
	}
	if err := client.applyGeminiKey(cfg); err != nil {
		return err
	}
	if err := client.applyTLSCerts(cfg); err != nil {
		return err
	}

	if logger != nil {
		logger.Info("Successfully completed applying secrets from Vault")
	}
	return nil
}

func (vc *VaultClient) applyAPIKeys(cfg *Config) error {
	path := vc.config.Secrets.APIKeys
	if path == "" {
		return nil
	}

	apiKeys, err := vc.GetStringSliceSecret(path, "keys")
	if err != nil {
		return fmt.Errorf("failed to load API keys from vault: %w", err)
	}
	if len(apiKeys) == 0 {
		if vc.logger != nil {
			vc.logger.Warn("No API keys found in Vault", "path", path)
		}
		return nil
	}

	cfg.Server.APIKeys = apiKeys
	if vc.logger != nil {
		vc.logger.Info("API keys loaded from Vault", "count", len(apiKeys))
	}
	return nil
}

func (vc *VaultClient) applyGeminiKey(cfg *Config) error {
	path := vc.config.Secrets.GeminiKey
	if path == "" {
		return nil
	}

	geminiKey, err := vc.GetStringSecret(path, "api_key")
	if err != nil {
		return fmt.Errorf("failed to load Gemini API key from vault: %w", err)
	}
	if geminiKey == "" {
		if vc.logger != nil {
			vc.logger.Warn("Empty Gemini API key found in Vault", "path", path)
		}
		return nil
	}

	applyGeminiKeyToConfig(cfg, geminiKey)
	if vc.logger != nil {
		vc.logger.Info("Gemini API key loaded from Vault and applied to all AI configurations")
	}
	return nil
}

// applyGeminiKeyToConfig sets the shared key and fills in any per-operation
// key that was not set explicitly.
func applyGeminiKeyToConfig(cfg *Config, geminiKey string) {
	cfg.AI.APIKey = geminiKey
	if cfg.AI.Analyze.APIKey == "" {
		cfg.AI.Analyze.APIKey = geminiKey
	}
	if cfg.AI.Rescore.APIKey == "" {
		cfg.AI.Rescore.APIKey = geminiKey
	}
	if cfg.AI.Interview.APIKey == "" {
		cfg.AI.Interview.APIKey = geminiKey
	}
}

func (vc *VaultClient) applyTLSCerts(cfg *Config) error {
	path := vc.config.Secrets.TLSCerts
	if path == "" {
		return nil
	}

	tlsData, err := vc.GetSecretV2(path)
	if err != nil {
		return fmt.Errorf("failed to load TLS certificates from vault: %w", err)
	}

	certCount := copyTLSCertContent(cfg, tlsData)
	if err := rejectDeprecatedTLSFields(tlsData); err != nil {
		return err
	}

	if vc.logger != nil {
		vc.logger.Info("TLS certificates loaded from Vault", "certificates_loaded", certCount)
	}
	return nil
}

// copyTLSCertContent fills the TLS content fields from the Vault payload and
// reports how many were present.
func copyTLSCertContent(cfg *Config, tlsData *VaultSecret) int {
	targets := []struct {
		key    string
		target *string
	}{
		{"cert", &cfg.Server.TLS.CertContent},
		{"key", &cfg.Server.TLS.KeyContent},
		{"ca", &cfg.Server.TLS.CAContent},
	}

	count := 0
	for _, t := range targets {
		if content, ok := tlsData.Data[t.key].(string); ok && content != "" {
			*t.target = content
			count++
		}
	}
	return count
}

// rejectDeprecatedTLSFields fails fast when a secret still carries file-path
// fields. Certificates must be stored as content.
func rejectDeprecatedTLSFields(tlsData *VaultSecret) error {
	for _, field := range []string{"cert_file", "key_file", "ca_file"} {
		if _, hasField := tlsData.Data[field]; hasField {
			return fmt.Errorf("vault TLS configuration error: '%s' field is no longer supported. Store certificate content in '%s' field instead",
				field, strings.TrimSuffix(field, "_file"))
		}
	}
	return nil
}
