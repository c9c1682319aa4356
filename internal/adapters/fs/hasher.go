package fs

import (
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// HashFile returns the xxhash64 digest of a file's contents as a hex string.
func HashFile(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // paths are pipeline-controlled
	if err != nil {
		return "", zerr.Wrap(err, "failed to open file for hashing")
	}
	defer func() { _ = f.Close() }()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", zerr.Wrap(err, "failed to hash file contents")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashTree returns a map of slash-separated relative paths to content
// digests for every regular file below root. Two trees with identical
// contents produce identical maps regardless of walk order.
func HashTree(root string) (map[string]string, error) {
	digests := make(map[string]string)

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		digest, err := HashFile(path)
		if err != nil {
			return err
		}
		digests[filepath.ToSlash(rel)] = digest
		return nil
	})
	if err != nil {
		return nil, err
	}
	return digests, nil
}

// TreeDigest folds a tree's per-file digests into a single stable digest.
func TreeDigest(root string) (string, error) {
	digests, err := HashTree(root)
	if err != nil {
		return "", err
	}

	paths := make([]string, 0, len(digests))
	for p := range digests {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	h := xxhash.New()
	for _, p := range paths {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(digests[p]))
		_, _ = h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
