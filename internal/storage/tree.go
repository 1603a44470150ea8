package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// uploadConcurrency bounds parallel object uploads.
const uploadConcurrency = 4

// ContentType guesses the MIME type of a site file from its extension.
func ContentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".webmanifest":
		return "application/manifest+json"
	case ".xml":
		return "application/xml"
	}
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// CacheControl picks the caching policy of a site file. Hashed build assets
// are immutable; documents and the service worker must revalidate.
func CacheControl(rel string) string {
	switch {
	case strings.HasPrefix(rel, "assets/"):
		return "public, max-age=31536000, immutable"
	case strings.HasSuffix(rel, ".html"), rel == "sw.js", strings.HasSuffix(rel, ".json"), strings.HasSuffix(rel, ".xml"), strings.HasSuffix(rel, ".txt"):
		return "no-cache"
	default:
		return "public, max-age=3600"
	}
}

// UploadTree uploads every regular file under root to prefix/<relative path>.
// It returns the keys written so far even on failure so callers can roll back.
func UploadTree(ctx context.Context, st Storage, prefix, root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	var (
		mu   sync.Mutex
		keys = make([]string, 0, len(files))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadConcurrency)
	for _, p := range files {
		g.Go(func() error {
			rel, err := filepath.Rel(root, p)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			key := strings.TrimRight(prefix, "/") + "/" + rel
			if err := putFile(gctx, st, key, rel, p); err != nil {
				return fmt.Errorf("upload %s: %w", rel, err)
			}
			mu.Lock()
			keys = append(keys, key)
			mu.Unlock()
			return nil
		})
	}
	err = g.Wait()
	sort.Strings(keys)
	return keys, err
}

func putFile(ctx context.Context, st Storage, key, rel, p string) error {
	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return err
	}
	_, err = st.Put(ctx, key, f, PutObjectOptions{
		Size:         fi.Size(),
		ContentType:  ContentType(rel),
		CacheControl: CacheControl(rel),
	})
	return err
}

// DeleteKeys removes keys, attempting every one and joining the failures.
func DeleteKeys(ctx context.Context, st Storage, keys []string) error {
	var errs []error
	for _, k := range keys {
		if err := st.Delete(ctx, k); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", k, err))
		}
	}
	return errors.Join(errs...)
}
