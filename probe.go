package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// dirProbe is what the directory page reports. Each lookup that can fail
// keeps its own error; none of them stops the others.
type dirProbe struct {
	File       string
	WorkDir    string
	WorkDirErr error
	ScriptDir  string
	ScriptErr  error
	OpenErr    error
}

func (p *dirProbe) Opened() bool {
	return p.OpenErr == nil
}

func probeDirectory(file string) *dirProbe {
	p := &dirProbe{File: file}
	p.WorkDir, p.WorkDirErr = os.Getwd()
	p.ScriptDir, p.ScriptErr = scriptDir()
	p.OpenErr = probeFile(file)
	return p
}

// probeFile opens name relative to the working directory the host gave us.
func probeFile(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("accessing %s: %w", name, err)
	}
	return f.Close()
}

func scriptDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolving executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
