package notedir

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"webnote/pkg/store"
)

// errReader always fails, simulating a broken upload stream
type errReader struct{}

func (errReader) Read([]byte) (int, error) {
	return 0, errors.New("stream broken")
}

// zeroReader serves zeros forever, simulating an arbitrarily large upload
type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

// UploadTestSuite tests the SaveUpload and ReadUpload functionality
type UploadTestSuite struct {
	suite.Suite
	tempDir string
	store   *Store
}

// SetupTest runs before each test
func (s *UploadTestSuite) SetupTest() {
	var err error
	s.tempDir, err = os.MkdirTemp("", "upload-test-*")
	s.Require().NoError(err)

	s.store, err = New(s.tempDir, 100, 10240)
	s.Require().NoError(err)
}

// TearDownTest runs after each test
func (s *UploadTestSuite) TearDownTest() {
	if s.tempDir != "" {
		os.RemoveAll(s.tempDir)
	}
}

// TestSaveUploadStoresFile tests a basic upload round trip
func (s *UploadTestSuite) TestSaveUploadStoresFile() {
	result, err := s.store.SaveUpload(strings.NewReader("image bytes"), "cat.png")
	s.Require().NoError(err)

	s.Regexp(regexp.MustCompile(`^\d+_cat\.png$`), result.Name)
	s.True(result.IsImage)

	data, err := os.ReadFile(filepath.Join(s.tempDir, result.Name))
	s.Require().NoError(err)
	s.Equal("image bytes", string(data))
}

// TestSaveUploadNonImage tests the image flag for other extensions
func (s *UploadTestSuite) TestSaveUploadNonImage() {
	result, err := s.store.SaveUpload(strings.NewReader("text"), "notes.txt")
	s.Require().NoError(err)
	s.False(result.IsImage)
}

// TestSaveUploadSanitizesName tests that unsafe characters never reach disk
func (s *UploadTestSuite) TestSaveUploadSanitizesName() {
	result, err := s.store.SaveUpload(strings.NewReader("x"), `../..\evil:file?.sh`)
	s.Require().NoError(err)

	s.NotContains(result.Name, "/")
	s.NotContains(result.Name, `\`)
	s.NotContains(result.Name, ":")
	s.NotContains(result.Name, "?")

	_, err = os.Stat(filepath.Join(s.tempDir, result.Name))
	s.NoError(err)
}

// TestSaveUploadEmptyFilename tests the fallback name for empty filenames
func (s *UploadTestSuite) TestSaveUploadEmptyFilename() {
	result, err := s.store.SaveUpload(strings.NewReader("x"), "")
	s.Require().NoError(err)
	s.Regexp(regexp.MustCompile(`^\d+_file$`), result.Name)
}

// TestSaveUploadOverCeiling tests that the upload cap stops the stream and
// cleans up the partial file
func (s *UploadTestSuite) TestSaveUploadOverCeiling() {
	_, err := s.store.SaveUpload(zeroReader{}, "huge.bin")
	s.Require().Error(err)

	var tooLargeErr store.FileTooLargeError
	s.Require().ErrorAs(err, &tooLargeErr)
	s.Equal(store.MaxUploadBytes, tooLargeErr.Limit)
	s.Greater(tooLargeErr.Size, store.MaxUploadBytes)

	count, err := s.store.Count()
	s.Require().NoError(err)
	s.Equal(0, count)
}

// TestSaveUploadBrokenStream tests that a failed upload leaves nothing behind
func (s *UploadTestSuite) TestSaveUploadBrokenStream() {
	_, err := s.store.SaveUpload(errReader{}, "cat.png")
	s.Error(err)

	count, err := s.store.Count()
	s.Require().NoError(err)
	s.Equal(0, count)
}

// TestReadUploadRoundTrip tests resolving a stored upload
func (s *UploadTestSuite) TestReadUploadRoundTrip() {
	result, err := s.store.SaveUpload(strings.NewReader("payload"), "doc.pdf")
	s.Require().NoError(err)

	path, err := s.store.ReadUpload(result.Name)
	s.Require().NoError(err)

	data, err := os.ReadFile(path)
	s.Require().NoError(err)
	s.Equal("payload", string(data))
}

// TestReadUploadMissing tests resolving a name that was never stored
func (s *UploadTestSuite) TestReadUploadMissing() {
	_, err := s.store.ReadUpload("1700000000_gone.png")
	s.Error(err)
	s.IsType(store.FileNotFoundError{}, err)
}

// TestReadUploadStripsTraversal tests that traversal sequences cannot escape the root
func (s *UploadTestSuite) TestReadUploadStripsTraversal() {
	outside := filepath.Join(filepath.Dir(s.tempDir), "outside-secret")
	s.Require().NoError(os.WriteFile(outside, []byte("secret"), 0600))
	defer os.Remove(outside)

	_, err := s.store.ReadUpload("../outside-secret")
	s.Error(err)
	s.IsType(store.FileNotFoundError{}, err)
}

// TestReadUploadNestedTraversal tests sequences that reassemble after one strip pass
func (s *UploadTestSuite) TestReadUploadNestedTraversal() {
	_, err := s.store.ReadUpload("....//....//etc/passwd")
	s.Error(err)
}

// TestReadUploadDotDot tests the bare parent reference
func (s *UploadTestSuite) TestReadUploadDotDot() {
	_, err := s.store.ReadUpload("..")
	s.Error(err)
	s.IsType(store.InvalidNameError{}, err)
}

// TestReadUploadDirectory tests that directories are not served
func (s *UploadTestSuite) TestReadUploadDirectory() {
	s.Require().NoError(os.Mkdir(filepath.Join(s.tempDir, "subdir"), 0750))

	_, err := s.store.ReadUpload("subdir")
	s.Error(err)
	s.IsType(store.FileNotFoundError{}, err)
}

// TestSanitizeFilename tests the character replacement table
func (s *UploadTestSuite) TestSanitizeFilename() {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"clean name", "photo.png", "photo.png"},
		{"path separators", `a/b\c`, "a_b_c"},
		{"special characters", `a:b*c?d"e<f>g|h`, "a_b_c_d_e_f_g_h"},
		{"traversal", "../x", ".._x"},
		{"empty", "", "file"},
		{"spaces kept", "my file.png", "my file.png"},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.Equal(tc.want, sanitizeFilename(tc.in))
		})
	}
}

// TestIsImageExt tests the image extension allow-list
func (s *UploadTestSuite) TestIsImageExt() {
	cases := []struct {
		name string
		want bool
	}{
		{"1_cat.png", true},
		{"1_cat.PNG", true},
		{"1_photo.jpeg", true},
		{"1_anim.gif", true},
		{"1_modern.webp", true},
		{"1_old.bmp", true},
		{"1_vector.svg", true},
		{"1_doc.pdf", false},
		{"1_script.js", false},
		{"1_noext", false},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.Equal(tc.want, isImageExt(tc.name))
		})
	}
}

// TestUploadSuite runs the upload test suite
func TestUploadSuite(t *testing.T) {
	suite.Run(t, new(UploadTestSuite))
}
