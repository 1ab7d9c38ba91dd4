package tls

import (
	"crypto/tls"
	"crypto/x509"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	certFile := filepath.Join(dir, "server.crt")
	keyFile := filepath.Join(dir, "server.key")
	require.NoError(t, GenerateSelfSignedCert(certFile, keyFile, "tsperf.local", time.Hour, "10.1.2.3", "matrix.internal"))
	return certFile, keyFile
}

func TestGenerateSelfSignedCert(t *testing.T) {
	certFile, keyFile := generate(t)

	pair, err := tls.LoadX509KeyPair(certFile, keyFile)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(pair.Certificate[0])
	require.NoError(t, err)

	assert.Equal(t, "tsperf.local", cert.Subject.CommonName)
	assert.ElementsMatch(t, []string{"tsperf.local", "localhost", "matrix.internal"}, cert.DNSNames)
	assert.Len(t, cert.IPAddresses, 3)

	info, err := os.Stat(keyFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLoadServerConfig(t *testing.T) {
	certFile, keyFile := generate(t)

	cfg, err := LoadServerConfig(certFile, keyFile, "")
	require.NoError(t, err)
	assert.Len(t, cfg.Certificates, 1)
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
	assert.Equal(t, tls.NoClientCert, cfg.ClientAuth)

	cfg, err = LoadServerConfig(certFile, keyFile, certFile)
	require.NoError(t, err)
	assert.Equal(t, tls.RequireAndVerifyClientCert, cfg.ClientAuth)
	assert.NotNil(t, cfg.ClientCAs)
}

func TestLoadServerConfigErrors(t *testing.T) {
	certFile, keyFile := generate(t)

	_, err := LoadServerConfig(filepath.Join(t.TempDir(), "missing.crt"), keyFile, "")
	assert.Error(t, err)

	_, err = LoadServerConfig(certFile, keyFile, keyFile)
	assert.Error(t, err, "a private key is not a CA bundle")
}

func TestServeWithConfig(t *testing.T) {
	certFile, keyFile := generate(t)
	cfg, err := LoadServerConfig(certFile, keyFile, "")
	require.NoError(t, err)

	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	srv.TLS = cfg
	srv.StartTLS()
	defer srv.Close()

	caPEM, err := os.ReadFile(certFile)
	require.NoError(t, err)
	roots := x509.NewCertPool()
	require.True(t, roots.AppendCertsFromPEM(caPEM))

	client := &http.Client{Transport: &http.Transport{TLSClientConfig: &tls.Config{RootCAs: roots}}}
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
