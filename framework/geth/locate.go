package geth

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// LocateBinary resolves the ethereum client executable. A name containing a
// path separator is used as-is; a bare name is searched for in PATH, then
// alongside the running executable, then in the working directory.
func LocateBinary(name string) (string, error) {
	if strings.ContainsRune(name, os.PathSeparator) {
		if isExecutableFile(name) {
			return name, nil
		}
		return "", &BinaryNotFoundError{Name: name}
	}

	if runtime.GOOS == "windows" && filepath.Ext(name) == "" {
		name += ".exe"
	}

	if p, err := exec.LookPath(name); err == nil {
		return p, nil
	}

	if exe, err := os.Executable(); err == nil {
		p := filepath.Join(filepath.Dir(exe), name)
		if isExecutableFile(p) {
			return p, nil
		}
	}

	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, name)
		if isExecutableFile(p) {
			return p, nil
		}
	}

	return "", &BinaryNotFoundError{Name: name}
}

func isExecutableFile(p string) bool {
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode()&0111 != 0
}
