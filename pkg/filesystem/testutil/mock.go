// Package testutil provides a mock Filesystem for verifying exact call
// sequences and arguments in tests.
package testutil

import (
	"github.com/stretchr/testify/mock"

	"github.com/dotfold/dotfold/pkg/filesystem"
)

// MockFilesystem is a testify mock of filesystem.Filesystem
type MockFilesystem struct {
	mock.Mock
}

// NewMockFilesystem creates a new mock filesystem
func NewMockFilesystem() *MockFilesystem {
	return &MockFilesystem{}
}

func (m *MockFilesystem) CompareSymlink(source, target string) (filesystem.SymlinkComparison, error) {
	args := m.Called(source, target)
	return args.Get(0).(filesystem.SymlinkComparison), args.Error(1)
}

func (m *MockFilesystem) CompareTemplate(target, cachePath string) (filesystem.TemplateComparison, error) {
	args := m.Called(target, cachePath)
	return args.Get(0).(filesystem.TemplateComparison), args.Error(1)
}

func (m *MockFilesystem) CreateDirAll(path, owner string) error {
	args := m.Called(path, owner)
	return args.Error(0)
}

func (m *MockFilesystem) MakeSymlink(link, pointTo, owner string) error {
	args := m.Called(link, pointTo, owner)
	return args.Error(0)
}

func (m *MockFilesystem) RemoveFile(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockFilesystem) RemoveDir(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockFilesystem) ReadToString(path string) (string, error) {
	args := m.Called(path)
	return args.String(0), args.Error(1)
}

func (m *MockFilesystem) WriteString(path, content string) error {
	args := m.Called(path, content)
	return args.Error(0)
}

func (m *MockFilesystem) CopyFile(from, to, owner string) error {
	args := m.Called(from, to, owner)
	return args.Error(0)
}

func (m *MockFilesystem) CopyPermissions(from, to, owner string) error {
	args := m.Called(from, to, owner)
	return args.Error(0)
}

func (m *MockFilesystem) SetOwner(path, owner string) error {
	args := m.Called(path, owner)
	return args.Error(0)
}
