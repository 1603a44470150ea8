package storage_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storesite/internal/storage"
	"storesite/internal/storage/mocks"
)

func writeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"index.html":        "<html></html>",
		"menu/index.html":   "<html>menu</html>",
		"assets/app-1a2.js": "console.log(1)",
		"sitemap.xml":       "<urlset/>",
	}
	for name, body := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	return root
}

func TestUploadTree(t *testing.T) {
	root := writeTree(t)
	st := new(mocks.MockStorage)
	st.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(func(_ context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
			b, _ := io.ReadAll(r)
			return storage.ObjectInfo{Key: key, Size: int64(len(b)), ContentType: opt.ContentType}
		}, nil)

	keys, err := storage.UploadTree(context.Background(), st, "sites/b1/", root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"sites/b1/assets/app-1a2.js",
		"sites/b1/index.html",
		"sites/b1/menu/index.html",
		"sites/b1/sitemap.xml",
	}, keys)

	st.AssertCalled(t, "Put", mock.Anything, "sites/b1/index.html", mock.Anything, mock.MatchedBy(func(o storage.PutObjectOptions) bool {
		return o.ContentType == "text/html; charset=utf-8" && o.CacheControl == "no-cache" && o.Size == int64(len("<html></html>"))
	}))
	st.AssertCalled(t, "Put", mock.Anything, "sites/b1/assets/app-1a2.js", mock.Anything, mock.MatchedBy(func(o storage.PutObjectOptions) bool {
		return o.CacheControl == "public, max-age=31536000, immutable"
	}))
}

func TestUploadTree_ReturnsUploadedKeysOnFailure(t *testing.T) {
	root := writeTree(t)
	st := new(mocks.MockStorage)
	st.On("Put", mock.Anything, "sites/b2/sitemap.xml", mock.Anything, mock.Anything).
		Return(storage.ObjectInfo{}, errors.New("disk full"))
	st.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(storage.ObjectInfo{}, nil)

	keys, err := storage.UploadTree(context.Background(), st, "sites/b2", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sitemap.xml")
	assert.NotContains(t, keys, "sites/b2/sitemap.xml")
}

func TestUploadTree_MissingRoot(t *testing.T) {
	_, err := storage.UploadTree(context.Background(), new(mocks.MockStorage), "sites/x", filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestDeleteKeys(t *testing.T) {
	st := new(mocks.MockStorage)
	st.On("Delete", mock.Anything, "a").Return(nil)
	st.On("Delete", mock.Anything, "b").Return(errors.New("boom"))
	st.On("Delete", mock.Anything, "c").Return(nil)

	err := storage.DeleteKeys(context.Background(), st, []string{"a", "b", "c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete b")
	st.AssertNumberOfCalls(t, "Delete", 3)
}

func TestContentTypeAndCacheControl(t *testing.T) {
	assert.Equal(t, "text/html; charset=utf-8", storage.ContentType("menu/index.html"))
	assert.Equal(t, "application/manifest+json", storage.ContentType("manifest.webmanifest"))
	assert.Equal(t, "application/xml", storage.ContentType("sitemap.xml"))
	assert.Equal(t, "application/octet-stream", storage.ContentType("blob.zz9unknown"))

	assert.Equal(t, "no-cache", storage.CacheControl("sw.js"))
	assert.Equal(t, "no-cache", storage.CacheControl("precache-manifest.json"))
	assert.Equal(t, "public, max-age=3600", storage.CacheControl("icons/logo.png"))
}
