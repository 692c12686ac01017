package config

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumematch/internal/errors"
)

// fakeVault serves the health endpoint and KVv2 reads for the given secrets,
// keyed by logical path.
func fakeVault(t *testing.T, secrets map[string]map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/v1/sys/health" {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"initialized": true, "sealed": false, "standby": false, "version": "1.15.0",
			})
			return
		}
		data, ok := secrets[strings.TrimPrefix(r.URL.Path, "/v1/")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errors":[]}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"data":     data,
				"metadata": map[string]any{"version": 3},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    int64
		wantErr bool
	}{
		{"int64", int64(42), 42, false},
		{"float64", float64(42), 42, false},
		{"json number", json.Number("7"), 7, false},
		{"string", "42", 42, false},
		{"bad string", "forty-two", 0, true},
		{"missing", nil, 0, true},
		{"unsupported", []string{"42"}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVersion(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "abcd****6789", maskSecret("abcdef0123456789"))
	assert.Equal(t, "****", maskSecret("short"))
	assert.Equal(t, "", maskSecret(""))
}

func TestResolveVaultToken(t *testing.T) {
	token, err := resolveVaultToken(VaultConfig{Token: "direct"})
	require.NoError(t, err)
	assert.Equal(t, "direct", token)

	file := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(file, []byte("  from-file\n"), 0o600))
	token, err = resolveVaultToken(VaultConfig{TokenFile: file})
	require.NoError(t, err)
	assert.Equal(t, "from-file", token)

	_, err = resolveVaultToken(VaultConfig{TokenFile: filepath.Join(t.TempDir(), "missing")})
	assert.True(t, errors.HasCode(err, errors.ErrCodeFileNotReadable))

	_, err = resolveVaultToken(VaultConfig{})
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfig))
}

func TestNewVaultClientDisabled(t *testing.T) {
	client, err := NewVaultClient(VaultConfig{}, nil)
	assert.NoError(t, err)
	assert.Nil(t, client)
}

func TestGetSecrets(t *testing.T) {
	srv := fakeVault(t, map[string]map[string]any{
		"secret/data/resumematch/server": {"keys": "k1, k2,k3"},
		"secret/data/resumematch/entity": {"api_key": "entity-key-123456", "count": 5},
	})
	client, err := NewVaultClient(VaultConfig{Enabled: true, Address: srv.URL, Token: "root"}, errors.Discard())
	require.NoError(t, err)

	secret, err := client.GetSecretV2("secret/data/resumematch/entity")
	require.NoError(t, err)
	assert.Equal(t, int64(3), secret.Version)

	keys, err := client.GetStringSliceSecret("secret/data/resumematch/server", "keys")
	require.NoError(t, err)
	assert.Equal(t, []string{"k1", "k2", "k3"}, keys)

	_, err = client.GetStringSecret("secret/data/resumematch/entity", "absent")
	assert.ErrorContains(t, err, "key 'absent' not found")

	_, err = client.GetStringSecret("secret/data/resumematch/entity", "count")
	assert.ErrorContains(t, err, "is not a string")

	_, err = client.GetSecretV2("secret/data/nowhere")
	assert.ErrorContains(t, err, "secret not found")
}

func TestApplyVaultSecrets(t *testing.T) {
	srv := fakeVault(t, map[string]map[string]any{
		"secret/data/rm/keys":   {"keys": "a,b"},
		"secret/data/rm/entity": {"api_key": "vault-entity-key"},
		"secret/data/rm/tls":    {"cert": "CERT PEM", "key": "KEY PEM"},
	})
	cfg := &Config{
		Entity: EntityConfig{APIKey: "env-key"},
		Vault: VaultConfig{
			Enabled: true,
			Address: srv.URL,
			Token:   "root",
			Secrets: VaultSecrets{
				APIKeys:   "secret/data/rm/keys",
				EntityKey: "secret/data/rm/entity",
				TLSCerts:  "secret/data/rm/tls",
			},
		},
	}

	require.NoError(t, ApplyVaultSecrets(cfg, nil))
	assert.Equal(t, []string{"a", "b"}, cfg.Server.APIKeys)
	assert.Equal(t, "vault-entity-key", cfg.Entity.APIKey)
	assert.Equal(t, "CERT PEM", cfg.Server.TLS.CertContent)
	assert.Equal(t, "KEY PEM", cfg.Server.TLS.KeyContent)
	assert.Empty(t, cfg.Server.TLS.CAContent)
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	cfg := &Config{Entity: EntityConfig{APIKey: "env-key"}}
	require.NoError(t, ApplyVaultSecrets(cfg, nil))
	assert.Equal(t, "env-key", cfg.Entity.APIKey)
}

func TestApplyTLSSecretRejectsFilePaths(t *testing.T) {
	var tls TLSConfig
	_, err := applyTLSSecret(&tls, &VaultSecret{Data: map[string]any{"cert_file": "/etc/cert.pem"}})
	assert.ErrorContains(t, err, "'cert_file' field is not supported")

	n, err := applyTLSSecret(&tls, &VaultSecret{Data: map[string]any{"ca": "CA PEM", "key": ""}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "CA PEM", tls.CAContent)
}

func TestValidateDefersEntityKeyToVault(t *testing.T) {
	entity := EntityConfig{Enabled: true, Provider: "gemini", Model: "m", Timeout: time.Second}
	assert.Error(t, entity.Validate())

	cfg := &Config{
		Entity: entity,
		Vault:  VaultConfig{Enabled: true, Secrets: VaultSecrets{EntityKey: "secret/data/rm/entity"}},
	}
	assert.NoError(t, cfg.Entity.validate(false))

	srv := fakeVault(t, map[string]map[string]any{
		"secret/data/rm/entity": {"api_key": ""},
	})
	cfg.Vault.Address = srv.URL
	cfg.Vault.Token = "root"
	assert.ErrorContains(t, ApplyVaultSecrets(cfg, nil), "entity API key is required")
}
