//go:build !unix

package preflight

import "os"

// Without access(2) the only reliable answer is to write a file.
func checkReadWrite(path string) error {
	if _, err := os.ReadDir(path); err != nil {
		return err
	}
	f, err := os.CreateTemp(path, ".misettings-probe-*")
	if err != nil {
		return err
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return err
	}
	return os.Remove(name)
}
