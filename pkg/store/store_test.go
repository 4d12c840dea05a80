package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

// StoreTestSuite tests the store package types and errors
type StoreTestSuite struct {
	suite.Suite
}

// TestUploadResult tests the UploadResult struct
func (s *StoreTestSuite) TestUploadResult() {
	result := &UploadResult{
		Name:    "1700000000_cat.png",
		IsImage: true,
	}

	s.Equal("1700000000_cat.png", result.Name)
	s.True(result.IsImage)
}

// TestFileNotFoundError tests the FileNotFoundError type
func (s *StoreTestSuite) TestFileNotFoundError() {
	err := FileNotFoundError{Name: "k7p2q"}
	s.Equal("file not found", err.Error())
	s.Equal("k7p2q", err.Name)
}

// TestFileTooLargeError tests the FileTooLargeError type
func (s *StoreTestSuite) TestFileTooLargeError() {
	err := FileTooLargeError{Size: 20480, Limit: 10240}
	s.Equal("file too large", err.Error())
	s.Equal(int64(20480), err.Size)
	s.Equal(int64(10240), err.Limit)
}

// TestTooManyFilesError tests the TooManyFilesError type
func (s *StoreTestSuite) TestTooManyFilesError() {
	err := TooManyFilesError{Count: 100000, Limit: 100000}
	s.Equal("too many files", err.Error())
	s.Equal(100000, err.Count)
	s.Equal(100000, err.Limit)
}

// TestInvalidNameError tests the InvalidNameError type
func (s *StoreTestSuite) TestInvalidNameError() {
	err := InvalidNameError{Name: "../etc/passwd"}
	s.Equal("invalid name", err.Error())
	s.Equal("../etc/passwd", err.Name)
}

// TestErrorsMatchWithAs tests that typed errors survive wrapping
func (s *StoreTestSuite) TestErrorsMatchWithAs() {
	var notFound FileNotFoundError
	s.True(errors.As(FileNotFoundError{Name: "x"}, &notFound))
	s.Equal("x", notFound.Name)

	var tooLarge FileTooLargeError
	s.True(errors.As(FileTooLargeError{Size: 1, Limit: 2}, &tooLarge))
	s.Equal(int64(1), tooLarge.Size)
}

// TestSuite runs the store test suite
func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
