package transcript

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FS is the small filesystem surface transcript writing needs. The
// in-memory implementation backs tests.
type FS interface {
	MkdirAll(path string, perm os.FileMode) error
	WriteFile(name string, data []byte, perm os.FileMode) error
	Rename(oldpath, newpath string) error
	ReadFile(name string) ([]byte, error)
	Join(elem ...string) string
}

type OS struct{}

func NewOS() OS { return OS{} }

func (OS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(filepath.Clean(path), perm)
}
func (OS) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(filepath.Clean(name), data, perm)
}
func (OS) Rename(oldpath, newpath string) error { return os.Rename(oldpath, newpath) }
func (OS) ReadFile(name string) ([]byte, error) { return os.ReadFile(filepath.Clean(name)) }
func (OS) Join(elem ...string) string           { return filepath.Join(elem...) }

type Mem struct{ Fs afero.Fs }

func NewMem() Mem { return Mem{Fs: afero.NewMemMapFs()} }

func (m Mem) MkdirAll(path string, perm os.FileMode) error {
	return m.Fs.MkdirAll(filepath.Clean(path), perm)
}
func (m Mem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return afero.WriteFile(m.Fs, filepath.Clean(name), data, perm)
}
func (m Mem) Rename(oldpath, newpath string) error { return m.Fs.Rename(oldpath, newpath) }
func (m Mem) ReadFile(name string) ([]byte, error) {
	return afero.ReadFile(m.Fs, filepath.Clean(name))
}
func (m Mem) Join(elem ...string) string { return filepath.Join(elem...) }
