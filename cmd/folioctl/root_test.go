package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dunamismax/folio/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cfg := config.Config{Upload: config.UploadConfig{MaxWidth: 1200, MaxHeight: 800, Quality: 85}}
	root := newRootCmd(cfg, zap.NewNop())

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func TestNormalizeCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Big Photo.jpg")

	img := image.NewRGBA(image.Rect(0, 0, 1000, 1000))
	for y := 0; y < 1000; y++ {
		for x := 0; x < 1000; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 60, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	require.NoError(t, os.WriteFile(src, buf.Bytes(), 0o644))

	dest := filepath.Join(dir, "out")
	out, err := executeCommand(t, "", "normalize", src, dest, "--max-width", "300", "--max-height", "300")
	require.NoError(t, err)

	assert.Contains(t, out, "300x300 image/jpeg")
	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "Big_Photo_"))
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".jpg"))
}

func TestNormalizeCommandRejectsNonImage(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "notes.png")
	require.NoError(t, os.WriteFile(src, []byte("plain text"), 0o644))

	_, err := executeCommand(t, "", "normalize", src, filepath.Join(dir, "out"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid image")
}

func TestHashPasswordCommand(t *testing.T) {
	out, err := executeCommand(t, "", "hash-password", "--cost", "4", "s3cret-password")
	require.NoError(t, err)
	hash := strings.TrimSpace(out)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret-password")))

	out, err = executeCommand(t, "from-stdin-pw\n", "hash-password", "--cost", "4")
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(strings.TrimSpace(out)), []byte("from-stdin-pw")))

	_, err = executeCommand(t, "", "hash-password", "short")
	require.Error(t, err)
}

func TestMigrateRequiresDSN(t *testing.T) {
	_, err := executeCommand(t, "", "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DSN")
}
