package prerender

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const (
	// ManifestFile is the precache list written next to the service worker.
	ManifestFile = "precache-manifest.json"
	// ServiceWorkerFile is the worker whose placeholder receives the list.
	ServiceWorkerFile = "sw.js"
	// ManifestPlaceholder is replaced by the JSON precache list in sw.js.
	ManifestPlaceholder = "self.__WB_MANIFEST"

	// The substituted list is fenced so later builds can replace it again.
	manifestStart = "/*precache-manifest:start*/"
	manifestEnd   = "/*precache-manifest:end*/"
)

var precacheExt = map[string]bool{
	".html":        true,
	".js":          true,
	".css":         true,
	".ico":         true,
	".png":         true,
	".svg":         true,
	".jpg":         true,
	".jpeg":        true,
	".webp":        true,
	".woff2":       true,
	".webmanifest": true,
}

// PrecacheEntry is one service-worker precache record.
type PrecacheEntry struct {
	URL      string `json:"url"`
	Revision string `json:"revision"`
}

// Precache lists the cacheable assets under dist in lexical order, each
// revisioned by a hash of its content.
func Precache(dist string) ([]PrecacheEntry, error) {
	var entries []PrecacheEntry
	err := filepath.WalkDir(dist, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dist, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == ServiceWorkerFile || rel == ManifestFile || !precacheExt[strings.ToLower(path.Ext(rel))] {
			return nil
		}
		body, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		sum := sha256.Sum256(body)
		entries = append(entries, PrecacheEntry{URL: "/" + rel, Revision: hex.EncodeToString(sum[:16])})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dist, err)
	}
	return entries, nil
}

// WriteManifest writes the precache list and substitutes it into sw.js,
// either at the placeholder or over the list a previous build fenced in.
// It reports whether the service worker was written; a worker with neither
// is left alone.
func WriteManifest(dist string, entries []PrecacheEntry) (bool, error) {
	if entries == nil {
		entries = []PrecacheEntry{}
	}
	list, err := json.Marshal(entries)
	if err != nil {
		return false, fmt.Errorf("marshal precache list: %w", err)
	}
	if err := writeAtomic(filepath.Join(dist, ManifestFile), list); err != nil {
		return false, err
	}

	swPath := filepath.Join(dist, ServiceWorkerFile)
	sw, err := os.ReadFile(swPath)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", ServiceWorkerFile, err)
	}
	out, ok := substituteManifest(sw, list)
	if !ok {
		return false, nil
	}
	if err := writeAtomic(swPath, out); err != nil {
		return false, err
	}
	return true, nil
}

func substituteManifest(sw, list []byte) ([]byte, bool) {
	fenced := make([]byte, 0, len(manifestStart)+len(list)+len(manifestEnd))
	fenced = append(fenced, manifestStart...)
	fenced = append(fenced, list...)
	fenced = append(fenced, manifestEnd...)

	if start := bytes.Index(sw, []byte(manifestStart)); start >= 0 {
		end := bytes.Index(sw[start:], []byte(manifestEnd))
		if end < 0 {
			return nil, false
		}
		end += start + len(manifestEnd)
		out := make([]byte, 0, len(sw)-(end-start)+len(fenced))
		out = append(out, sw[:start]...)
		out = append(out, fenced...)
		return append(out, sw[end:]...), true
	}
	if bytes.Contains(sw, []byte(ManifestPlaceholder)) {
		return bytes.ReplaceAll(sw, []byte(ManifestPlaceholder), fenced), true
	}
	return nil, false
}
