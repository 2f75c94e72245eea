package dispatch

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathMatches(t *testing.T) {
	assert.True(t, pathMatches("/calculator", Options{Path: "/calculator"}))
	assert.False(t, pathMatches("/Calculator", Options{Path: "/calculator"}))
	assert.True(t, pathMatches("/Calculator", Options{Path: "/calculator", CaseInsensitivePath: true}))
}

func TestGetAllowed(t *testing.T) {
	plain := httptest.NewRequest(http.MethodGet, "/svc", nil)
	assert.True(t, getAllowed(plain, Options{HTTPGetEnabled: true}))
	assert.False(t, getAllowed(plain, Options{HTTPGetEnabled: false}))

	tlsReq := httptest.NewRequest(http.MethodGet, "/svc", nil)
	tlsReq.TLS = &tls.ConnectionState{}
	assert.True(t, getAllowed(tlsReq, Options{HTTPSGetEnabled: true}))
	assert.False(t, getAllowed(tlsReq, Options{HTTPSGetEnabled: false, HTTPGetEnabled: true}))
}

func TestQueryFlagPresent(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/svc?WSDL=1", nil)
	assert.True(t, queryFlagPresent(r, "wsdl"))
	assert.False(t, queryFlagPresent(r, "xsd"))
}

func TestServeWSDLNotConfigured(t *testing.T) {
	w := httptest.NewRecorder()
	serveWSDL(w, Options{})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServeWSDLServesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "service.wsdl")
	require.NoError(t, os.WriteFile(path, []byte("<definitions/>"), 0o644))

	w := httptest.NewRecorder()
	serveWSDL(w, Options{WSDLFile: path})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<definitions/>")
}

func TestServeXSDRejectsUnknownName(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/svc?xsd&name=unknown", nil)
	serveXSD(w, r, Options{XSDFiles: map[string]string{}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServeXSDRejectsAbsolutePath(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/svc?xsd&name=types", nil)
	serveXSD(w, r, Options{XSDFiles: map[string]string{"types": "/etc/passwd"}})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestServeXSDServesConfiguredFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "types.xsd"), []byte("<schema/>"), 0o644))

	oldwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { _ = os.Chdir(oldwd) }()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/svc?xsd&name=types", nil)
	serveXSD(w, r, Options{XSDFiles: map[string]string{"types": "types.xsd"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<schema/>")
}

func TestServeMetadataForbiddenWhenGetDisabled(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/svc?wsdl", nil)
	handled := serveMetadata(w, r, Options{})
	assert.True(t, handled)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestServeMetadataNoQueryIs404(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/svc", nil)
	serveMetadata(w, r, Options{HTTPGetEnabled: true})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
