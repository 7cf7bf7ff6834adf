package mirror

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
)

// Identity reports whether a destination entry still shares storage with
// its source file.
type Identity interface {
	Same(src, dst string) (bool, error)
}

// Linker materializes src at dst. dst never exists when Link is called.
type Linker interface {
	Link(src, dst string) error
}

// StorageIdentity compares device and inode numbers.
type StorageIdentity struct{}

func (StorageIdentity) Same(src, dst string) (bool, error) {
	si, err := os.Stat(src)
	if err != nil {
		return false, err
	}
	di, err := os.Stat(dst)
	if err != nil {
		return false, err
	}
	return os.SameFile(si, di), nil
}

// ContentIdentity compares SHA-256 digests of the file contents.
type ContentIdentity struct{}

func (ContentIdentity) Same(src, dst string) (bool, error) {
	a, err := digest(src)
	if err != nil {
		return false, err
	}
	b, err := digest(dst)
	if err != nil {
		return false, err
	}
	return bytes.Equal(a, b), nil
}

func digest(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("hash %s: %w", path, err)
	}
	return h.Sum(nil), nil
}

// HardLinker creates hardlinks. Crossing a filesystem boundary is an error.
type HardLinker struct{}

func (HardLinker) Link(src, dst string) error {
	return os.Link(src, dst)
}

// CopyLinker copies the file content and permission bits.
type CopyLinker struct{}

func (CopyLinker) Link(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	info, err := srcFile.Stat()
	if err != nil {
		return err
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return err
	}
	return dstFile.Close()
}
