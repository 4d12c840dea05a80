package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

// StaticTestSuite tests the fixed asset and /js/:file functionality
type StaticTestSuite struct {
	suite.Suite
	server  *NoteServer
	mock    *mockStorage
	tempDir string
}

// SetupTest runs before each test
func (s *StaticTestSuite) SetupTest() {
	var err error
	s.tempDir, err = os.MkdirTemp("", "static-test-*")
	s.Require().NoError(err)

	s.mock = newMockStorage(s.tempDir)
	s.server = NewNoteServer(s.tempDir, s.tempDir, "test-v1.0.0", s.mock)
	s.server.setupRoutes()
}

// TearDownTest runs after each test
func (s *StaticTestSuite) TearDownTest() {
	if s.tempDir != "" {
		os.RemoveAll(s.tempDir)
	}
}

func (s *StaticTestSuite) writeStatic(relPath, content string) {
	path := filepath.Join(s.tempDir, relPath)
	s.Require().NoError(os.MkdirAll(filepath.Dir(path), 0750))
	s.Require().NoError(os.WriteFile(path, []byte(content), 0600))
}

func (s *StaticTestSuite) get(target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.server.echo.ServeHTTP(rec, req)
	return rec
}

// TestServeStylesheet tests serving a fixed asset from the static root
func (s *StaticTestSuite) TestServeStylesheet() {
	s.writeStatic("styles.css", "body { margin: 0 }")

	rec := s.get("/styles.css")

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("body { margin: 0 }", rec.Body.String())
	s.Contains(rec.Header().Get("Content-Type"), "text/css")
}

// TestNoCacheHeadersOnAsset tests cache suppression on fixed assets
func (s *StaticTestSuite) TestNoCacheHeadersOnAsset() {
	s.writeStatic("favicon.ico", "icon bytes")

	rec := s.get("/favicon.ico")

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	s.Equal("no-cache", rec.Header().Get("Pragma"))
	s.Equal("0", rec.Header().Get("Expires"))
}

// TestMissingAsset tests the response when the asset file is absent
func (s *StaticTestSuite) TestMissingAsset() {
	rec := s.get("/clippy.svg")

	s.Equal(http.StatusNotFound, rec.Code)
	s.Empty(rec.Body.String())
}

// TestAssetRoutesRegistered tests that every fixed asset has its own route
// instead of falling through to the note editor
func (s *StaticTestSuite) TestAssetRoutesRegistered() {
	for _, name := range staticAssets {
		s.writeStatic(name, "content of "+name)

		rec := s.get("/" + name)

		s.Equal(http.StatusOK, rec.Code, name)
		s.Equal("content of "+name, rec.Body.String(), name)
	}
}

// TestServePublicJS tests serving a vendored script from public/js
func (s *StaticTestSuite) TestServePublicJS() {
	s.writeStatic(filepath.Join("public", "js", "marked.min.js"), "var marked = {};")

	rec := s.get("/js/marked.min.js")

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("var marked = {};", rec.Body.String())
	s.Equal("no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
}

// TestMissingPublicJS tests the response for an unknown script name
func (s *StaticTestSuite) TestMissingPublicJS() {
	rec := s.get("/js/unknown.js")

	s.Equal(http.StatusNotFound, rec.Code)
	s.Empty(rec.Body.String())
}

// TestPublicJSTraversalRejected tests that traversal names cannot leave the
// script directory
func (s *StaticTestSuite) TestPublicJSTraversalRejected() {
	s.writeStatic("secret.txt", "do not serve")

	req := httptest.NewRequest(http.MethodGet, "/js/placeholder", nil)
	rec := httptest.NewRecorder()
	c := s.server.echo.NewContext(req, rec)
	c.SetParamNames("file")
	c.SetParamValues("../../secret.txt")

	s.Require().NoError(s.server.servePublicJS(c))
	s.Equal(http.StatusNotFound, rec.Code)
	s.NotContains(rec.Body.String(), "do not serve")
}

// TestPublicJSNestedTraversalRejected tests names that reassemble into
// traversal sequences after one strip pass
func (s *StaticTestSuite) TestPublicJSNestedTraversalRejected() {
	s.writeStatic("secret.txt", "do not serve")

	req := httptest.NewRequest(http.MethodGet, "/js/placeholder", nil)
	rec := httptest.NewRecorder()
	c := s.server.echo.NewContext(req, rec)
	c.SetParamNames("file")
	c.SetParamValues("....//....//secret.txt")

	s.Require().NoError(s.server.servePublicJS(c))
	s.Equal(http.StatusNotFound, rec.Code)
}

// TestPublicJSParentDirRejected tests that a bare parent reference is refused
func (s *StaticTestSuite) TestPublicJSParentDirRejected() {
	s.writeStatic(filepath.Join("public", "js", "marked.min.js"), "var marked = {};")

	req := httptest.NewRequest(http.MethodGet, "/js/placeholder", nil)
	rec := httptest.NewRecorder()
	c := s.server.echo.NewContext(req, rec)
	c.SetParamNames("file")
	c.SetParamValues("..")

	s.Require().NoError(s.server.servePublicJS(c))
	s.Equal(http.StatusNotFound, rec.Code)
}

// TestStaticSuite runs the static asset test suite
func TestStaticSuite(t *testing.T) {
	suite.Run(t, new(StaticTestSuite))
}
