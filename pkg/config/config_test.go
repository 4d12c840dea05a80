package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func (s *ConfigTestSuite) SetupTest() {
	for _, k := range []string{
		"PORT", "SAVE_PATH", "FILE_LIMIT", "SINGLE_FILE_SIZE_LIMIT", "STATIC_ROOT",
	} {
		os.Unsetenv(k)
	}
}

func (s *ConfigTestSuite) TestDefaults() {
	cfg, err := LoadFromEnv()
	s.Require().NoError(err)

	s.Equal(DefaultPort, cfg.Port)
	s.Equal(DefaultSavePath, cfg.SavePath)
	s.Equal(DefaultFileLimit, cfg.FileLimit)
	s.Equal(int64(DefaultSingleFileSizeLimit), cfg.SingleFileSizeLimit)
	s.Equal(DefaultStaticRoot, cfg.StaticRoot)
}

func (s *ConfigTestSuite) TestOverridesFromEnv() {
	s.T().Setenv("PORT", "9090")
	s.T().Setenv("SAVE_PATH", "/var/lib/webnote")
	s.T().Setenv("FILE_LIMIT", "25")
	s.T().Setenv("SINGLE_FILE_SIZE_LIMIT", "4096")
	s.T().Setenv("STATIC_ROOT", "/srv/webnote")

	cfg, err := LoadFromEnv()
	s.Require().NoError(err)

	s.Equal("9090", cfg.Port)
	s.Equal("/var/lib/webnote", cfg.SavePath)
	s.Equal(25, cfg.FileLimit)
	s.Equal(int64(4096), cfg.SingleFileSizeLimit)
	s.Equal("/srv/webnote", cfg.StaticRoot)
}

func (s *ConfigTestSuite) TestMalformedFileLimit() {
	s.T().Setenv("FILE_LIMIT", "not-a-number")

	_, err := LoadFromEnv()
	s.Error(err)
}

func (s *ConfigTestSuite) TestMalformedSizeLimit() {
	s.T().Setenv("SINGLE_FILE_SIZE_LIMIT", "10k")

	_, err := LoadFromEnv()
	s.Error(err)
}

func (s *ConfigTestSuite) TestNegativeFileLimit() {
	s.T().Setenv("FILE_LIMIT", "-1")

	_, err := LoadFromEnv()
	s.Error(err)
}

func (s *ConfigTestSuite) TestAddr() {
	cfg := &Config{Port: "8080"}
	s.Equal(":8080", cfg.Addr())
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}
