package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersionValue(t *testing.T) {
	tests := []struct {
		name        string
		input       any
		expected    int64
		expectError bool
	}{
		{name: "int64 value", input: int64(42), expected: 42},
		{name: "float64 value", input: float64(42.0), expected: 42},
		{name: "string value", input: "42", expected: 42},
		{name: "negative string value", input: "-7", expected: -7},
		{name: "invalid string value", input: "not-a-number", expectError: true},
		{name: "float string value", input: "42.5", expectError: true},
		{name: "unsupported type", input: []string{"42"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseVersionValue(tt.input, "test/path")

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestApplyGeminiKeyToConfig(t *testing.T) {
	cfg := &Config{}

	applyGeminiKeyToConfig(cfg, "test-gemini-key")

	assert.Equal(t, "test-gemini-key", cfg.AI.APIKey)
	assert.Equal(t, "test-gemini-key", cfg.AI.Analyze.APIKey)
	assert.Equal(t, "test-gemini-key", cfg.AI.Rescore.APIKey)
	assert.Equal(t, "test-gemini-key", cfg.AI.Interview.APIKey)
}

func TestApplyGeminiKeyToConfigKeepsExistingKeys(t *testing.T) {
	cfg := &Config{
		AI: AIConfig{
			Analyze: OperationAIConfig{APIKey: "existing-analyze-key"},
		},
	}

	applyGeminiKeyToConfig(cfg, "test-gemini-key")

	assert.Equal(t, "test-gemini-key", cfg.AI.APIKey)
	assert.Equal(t, "existing-analyze-key", cfg.AI.Analyze.APIKey)
	assert.Equal(t, "test-gemini-key", cfg.AI.Rescore.APIKey)
	assert.Equal(t, "test-gemini-key", cfg.AI.Interview.APIKey)
}

func TestResolveVaultToken(t *testing.T) {
	t.Run("token from config", func(t *testing.T) {
		token, err := resolveVaultToken(VaultConfig{Token: "direct-token"}, nil)
		assert.NoError(t, err)
		assert.Equal(t, "direct-token", token)
	})

	t.Run("token from file is trimmed", func(t *testing.T) {
		tokenFile := filepath.Join(t.TempDir(), "vault-token")
		require.NoError(t, os.WriteFile(tokenFile, []byte("  file-token  \n"), 0600))

		token, err := resolveVaultToken(VaultConfig{TokenFile: tokenFile}, nil)
		assert.NoError(t, err)
		assert.Equal(t, "file-token", token)
	})

	t.Run("inline token wins over file", func(t *testing.T) {
		tokenFile := filepath.Join(t.TempDir(), "vault-token")
		require.NoError(t, os.WriteFile(tokenFile, []byte("file-token"), 0600))

		token, err := resolveVaultToken(VaultConfig{Token: "direct-token", TokenFile: tokenFile}, nil)
		assert.NoError(t, err)
		assert.Equal(t, "direct-token", token)
	})

	t.Run("missing token file", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{TokenFile: "/nonexistent/token/file"}, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read vault token file")
	})

	t.Run("no token provided", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{}, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "vault token is required")
	})

	t.Run("whitespace-only token file", func(t *testing.T) {
		tokenFile := filepath.Join(t.TempDir(), "empty-token")
		require.NoError(t, os.WriteFile(tokenFile, []byte("   \n  \n"), 0600))

		_, err := resolveVaultToken(VaultConfig{TokenFile: tokenFile}, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "vault token is required")
	})
}

func TestCopyTLSCertContent(t *testing.T) {
	t.Run("all fields present", func(t *testing.T) {
		cfg := &Config{}
		count := copyTLSCertContent(cfg, &VaultSecret{Data: map[string]any{
			"cert": "cert-content",
			"key":  "key-content",
			"ca":   "ca-content",
		}})

		assert.Equal(t, 3, count)
		assert.Equal(t, "cert-content", cfg.Server.TLS.CertContent)
		assert.Equal(t, "key-content", cfg.Server.TLS.KeyContent)
		assert.Equal(t, "ca-content", cfg.Server.TLS.CAContent)
	})

	t.Run("partial fields", func(t *testing.T) {
		cfg := &Config{}
		count := copyTLSCertContent(cfg, &VaultSecret{Data: map[string]any{
			"cert": "cert-content",
		}})

		assert.Equal(t, 1, count)
		assert.Equal(t, "cert-content", cfg.Server.TLS.CertContent)
		assert.Empty(t, cfg.Server.TLS.KeyContent)
		assert.Empty(t, cfg.Server.TLS.CAContent)
	})

	t.Run("ignores empty and non-string values", func(t *testing.T) {
		cfg := &Config{}
		count := copyTLSCertContent(cfg, &VaultSecret{Data: map[string]any{
			"cert": "",
			"key":  123,
		}})

		assert.Equal(t, 0, count)
		assert.Empty(t, cfg.Server.TLS.CertContent)
		assert.Empty(t, cfg.Server.TLS.KeyContent)
	})
}

func TestRejectDeprecatedTLSFields(t *testing.T) {
	t.Run("content fields pass", func(t *testing.T) {
		err := rejectDeprecatedTLSFields(&VaultSecret{Data: map[string]any{
			"cert": "cert-content",
			"key":  "key-content",
			"ca":   "ca-content",
		}})
		assert.NoError(t, err)
	})

	for _, field := range []string{"cert_file", "key_file", "ca_file"} {
		t.Run(field+" rejected", func(t *testing.T) {
			err := rejectDeprecatedTLSFields(&VaultSecret{Data: map[string]any{
				field: "/path/to/something",
			}})
			assert.Error(t, err)
			assert.Contains(t, err.Error(), field)
			assert.Contains(t, err.Error(), "no longer supported")
		})
	}
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	cfg := &Config{Vault: VaultConfig{Enabled: false}}
	assert.NoError(t, ApplyVaultSecrets(cfg, nil))
}

func TestNewVaultClientDisabled(t *testing.T) {
	client, err := NewVaultClient(VaultConfig{Enabled: false}, nil)
	assert.NoError(t, err)
	assert.Nil(t, client)
}

func TestGetSecretV2OnNilClient(t *testing.T) {
	var vc *VaultClient
	_, err := vc.GetSecretV2("secret/data/anything")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", maskSecret(""))
	assert.Equal(t, "****", maskSecret("short"))
	assert.Equal(t, "AIza****5678", maskSecret("AIzaFakeKey12345678"))
}
