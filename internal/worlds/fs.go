// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package worlds

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/samber/oops"
)

// errDestinationExists is returned by copyDir when dst was created by
// someone else first.
var errDestinationExists = errors.New("destination directory exists")

// pathExists reports whether anything (file or directory) exists at path.
func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// copyDir copies the tree rooted at src into the new directory dst.
// dst is claimed with an exclusive mkdir; cancellation is checked between
// entries. On failure the caller owns cleanup of dst.
func copyDir(ctx context.Context, src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return oops.Code("COPY_FAILED").With("src", src).Wrap(err)
	}
	if err := os.Mkdir(dst, info.Mode().Perm()|0o700); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return errDestinationExists
		}
		return oops.Code("COPY_FAILED").With("dst", dst).Wrap(err)
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return oops.Code("COPY_FAILED").With("path", path).Wrap(walkErr)
		}
		if err := ctx.Err(); err != nil {
			return oops.Code("COPY_CANCELLED").Wrap(err)
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return oops.Code("COPY_FAILED").With("path", path).Wrap(err)
		}
		if rel == "." {
			return nil
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			fi, err := d.Info()
			if err != nil {
				return oops.Code("COPY_FAILED").With("path", path).Wrap(err)
			}
			if err := os.Mkdir(target, fi.Mode().Perm()|0o700); err != nil {
				return oops.Code("COPY_FAILED").With("path", target).Wrap(err)
			}
		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return oops.Code("COPY_FAILED").With("path", path).Wrap(err)
			}
			if err := os.Symlink(link, target); err != nil {
				return oops.Code("COPY_FAILED").With("path", target).Wrap(err)
			}
		case d.Type().IsRegular():
			if err := copyFile(path, target); err != nil {
				return err
			}
		}
		return nil
	})
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src) //nolint:gosec // path comes from walking the world container
	if err != nil {
		return oops.Code("COPY_FAILED").With("path", src).Wrap(err)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return oops.Code("COPY_FAILED").With("path", src).Wrap(err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm()) //nolint:gosec // see above
	if err != nil {
		return oops.Code("COPY_FAILED").With("path", dst).Wrap(err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = oops.Code("COPY_FAILED").With("path", dst).Wrap(cerr)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return oops.Code("COPY_FAILED").With("path", dst).Wrap(err)
	}
	return nil
}

// removeUID deletes the identity marker from a world directory.
// A missing marker is not an error.
func removeUID(dir string) error {
	err := os.Remove(filepath.Join(dir, UIDFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return oops.Code("UID_REMOVE_FAILED").With("dir", dir).Wrap(err)
	}
	return nil
}
