package bundle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type WrapperSuite struct {
	suite.Suite

	dir string
}

func TestWrapperSuite(t *testing.T) {
	suite.Run(t, new(WrapperSuite))
}

func (s *WrapperSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

func (s *WrapperSuite) TestShellWrapperContentAndMode() {
	path := filepath.Join(s.dir, "cwapp.py")
	s.Require().NoError(WriteWrapper(path, "Linux", "cwapp.py", StyleShell))

	data, err := os.ReadFile(path)
	s.Require().NoError(err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	s.Require().Len(lines, 2)
	s.Equal(`SCRIPT_DIR="$(cd "$(dirname "$0")" && pwd)"`, lines[0])
	s.Equal(`"$SCRIPT_DIR"/Writing3D/scripts/Linux/cwapp.py "$@"`, lines[1])

	info, err := os.Stat(path)
	s.Require().NoError(err)
	s.Equal(os.FileMode(0755), info.Mode().Perm())
}

func (s *WrapperSuite) TestBatchWrapperContent() {
	path := filepath.Join(s.dir, "cwapp.py")
	s.Require().NoError(WriteWrapper(path, "Windows", "cwapp.py", StyleBatch))

	data, err := os.ReadFile(path)
	s.Require().NoError(err)

	lines := strings.Split(strings.TrimRight(string(data), "\r\n"), "\r\n")
	s.Require().Len(lines, 2)
	s.Equal("@echo off", lines[0])
	s.Equal(`%~dp0\Writing3D\scripts\Windows\cwapp.py %*`, lines[1])
}

func (s *WrapperSuite) TestRerunOverwritesIdentically() {
	path := filepath.Join(s.dir, "launch.sh")

	s.Require().NoError(WriteWrapper(path, "Mac", "launch.sh", StyleShell))
	first, err := os.ReadFile(path)
	s.Require().NoError(err)

	s.Require().NoError(WriteWrapper(path, "Mac", "launch.sh", StyleShell))
	second, err := os.ReadFile(path)
	s.Require().NoError(err)

	s.Equal(first, second)
}

func (s *WrapperSuite) TestOverwriteRestoresExecutableBit() {
	path := filepath.Join(s.dir, "launch.sh")
	s.Require().NoError(os.WriteFile(path, []byte("stale"), 0600))

	s.Require().NoError(WriteWrapper(path, "Mac", "launch.sh", StyleShell))

	info, err := os.Stat(path)
	s.Require().NoError(err)
	s.Equal(os.FileMode(0755), info.Mode().Perm())
}

func (s *WrapperSuite) TestUnknownStyle() {
	s.Error(WriteWrapper(filepath.Join(s.dir, "x"), "Linux", "x", "powershell"))
}
