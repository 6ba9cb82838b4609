// Package pointer manages the "pro" production pointer: a mutable named
// reference designating the active output directory among its versioned
// siblings. The pointer never owns its target — promotion only ever touches
// the pointer itself.
package pointer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Name is the fixed sibling name of the production pointer.
const Name = "pro"

// Pointer is a named reference over a family of sibling directories.
// Promote repoints it at targetDir; it is idempotent and must never leave
// the pointer dangling. Two invocations racing to promote different targets
// interleave arbitrarily (last writer wins) — promotion is remove-then-set,
// not an atomic swap.
type Pointer interface {
	// Current returns the directory the pointer under parentDir resolves
	// to, or ok=false when the pointer does not exist.
	Current(parentDir string) (target string, ok bool, err error)

	// Promote makes the pointer beside targetDir resolve to targetDir.
	// targetDir must be an existing directory.
	Promote(targetDir string) error
}

// Symlink implements Pointer with a filesystem symlink, the on-disk
// contract the rest of the onsite tooling reads.
type Symlink struct{}

func NewSymlink() *Symlink { return &Symlink{} }

// checkTarget canonicalizes targetDir and verifies it is an existing
// directory. Promotion must never create a pointer at a non-existent or
// non-directory target.
func checkTarget(targetDir string) (string, error) {
	target, err := filepath.Abs(targetDir)
	if err != nil {
		return "", err
	}
	target, err = filepath.EvalSymlinks(target)
	if err != nil {
		return "", fmt.Errorf("promote target %s: %w", targetDir, err)
	}
	info, err := os.Stat(target)
	if err != nil {
		return "", fmt.Errorf("promote target %s: %w", targetDir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("promote target %s: not a directory", targetDir)
	}
	return target, nil
}

func (s *Symlink) Current(parentDir string) (string, bool, error) {
	link := filepath.Join(parentDir, Name)
	if _, err := os.Lstat(link); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	target, err := filepath.EvalSymlinks(link)
	if err != nil {
		return "", true, fmt.Errorf("read %s: %w", link, err)
	}
	return target, true, nil
}

func (s *Symlink) Promote(targetDir string) error {
	target, err := checkTarget(targetDir)
	if err != nil {
		return err
	}
	link := filepath.Join(filepath.Dir(target), Name)

	// Comparison is by canonical resolved path, so trailing slashes or
	// symlink chains in the argument don't defeat the idempotence check.
	if _, lerr := os.Lstat(link); lerr == nil {
		resolved, rerr := filepath.EvalSymlinks(link)
		if rerr == nil && resolved == target {
			return nil
		}
		// Stale (or dangling) pointer: remove the link only, never what
		// it points at.
		if err := os.Remove(link); err != nil {
			return fmt.Errorf("remove stale %s: %w", link, err)
		}
	} else if !errors.Is(lerr, fs.ErrNotExist) {
		return lerr
	}

	if err := os.Symlink(target, link); err != nil {
		return fmt.Errorf("link %s -> %s: %w", link, target, err)
	}
	return nil
}

// File implements Pointer as a plain text file holding the target path, for
// filesystems without symlink support. Same contract, different medium.
type File struct{}

func NewFile() *File { return &File{} }

func (f *File) Current(parentDir string) (string, bool, error) {
	p := filepath.Join(parentDir, Name)
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return strings.TrimSpace(string(data)), true, nil
}

func (f *File) Promote(targetDir string) error {
	target, err := checkTarget(targetDir)
	if err != nil {
		return err
	}
	p := filepath.Join(filepath.Dir(target), Name)

	if current, ok, err := f.Current(filepath.Dir(target)); err == nil && ok && current == target {
		return nil
	}
	if err := os.WriteFile(p, []byte(target+"\n"), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", p, err)
	}
	return nil
}
