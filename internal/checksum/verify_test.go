package checksum

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/gazeset/internal/config"
)

func TestVerify(t *testing.T) {
	dir := t.TempDir()

	content := []byte("gaze samples")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.zip"), content, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.zip"), []byte("corrupted"), 0o644))

	sum := md5.Sum(content)
	goodMD5 := hex.EncodeToString(sum[:])

	def := &config.DatasetDefinition{
		Name: "ToyDataset",
		Resources: map[string][]*config.Resource{
			config.CategoryGaze: {
				{URL: "https://example.com/good.zip", Filename: "good.zip", MD5: goodMD5},
				{URL: "https://example.com/bad.zip", Filename: "bad.zip", MD5: goodMD5},
			},
			config.CategoryPrecomputedEvents: {
				{URL: "https://example.com/absent.zip", Filename: "absent.zip", MD5: goodMD5},
			},
		},
	}

	reports, err := Verify(context.Background(), def, dir)
	require.NoError(t, err)
	require.Len(t, reports, 3)

	byFilename := make(map[string]Report, len(reports))
	for _, r := range reports {
		byFilename[r.Filename] = r
	}

	assert.Equal(t, StatusOK, byFilename["good.zip"].Status)
	assert.Equal(t, goodMD5, byFilename["good.zip"].Actual)

	assert.Equal(t, StatusMismatch, byFilename["bad.zip"].Status)
	assert.NotEqual(t, byFilename["bad.zip"].Expected, byFilename["bad.zip"].Actual)

	assert.Equal(t, StatusMissing, byFilename["absent.zip"].Status)
	assert.Empty(t, byFilename["absent.zip"].Actual)
}

func TestVerifyUppercaseChecksumsCompareEqual(t *testing.T) {
	dir := t.TempDir()
	content := []byte("x")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.zip"), content, 0o644))

	sum := md5.Sum(content)
	upper := hex.EncodeToString(sum[:])

	def := &config.DatasetDefinition{
		Name: "ToyDataset",
		Resources: map[string][]*config.Resource{
			config.CategoryGaze: {
				{URL: "https://example.com/a.zip", Filename: "a.zip", MD5: strings.ToUpper(upper)},
			},
		},
	}

	reports, err := Verify(context.Background(), def, dir)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, StatusOK, reports[0].Status)
}

func TestVerifyNoResources(t *testing.T) {
	def := &config.DatasetDefinition{Name: "Empty"}
	reports, err := Verify(context.Background(), def, t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, reports)
}
