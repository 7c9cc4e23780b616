package services

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parasports/idcard/internal/config"
	"github.com/parasports/idcard/internal/models"
)

func testCardConfig(t *testing.T) config.CardConfig {
	t.Helper()
	return config.CardConfig{
		AssetDir:     filepath.Join(t.TempDir(), "missing-assets"),
		LogoLeft:     "logo1.png",
		LogoRight:    "logo2.png",
		Banner:       "graditext.png",
		Title:        "PARA SPORTS ASSOCIATION OF GUJARAT",
		OutputDir:    t.TempDir(),
		PhotoBaseDir: t.TempDir(),
	}
}

// writeTestPNG writes a small solid-color PNG and returns its path.
func writeTestPNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for x := 0; x < 32; x++ {
		for y := 0; y < 32; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestGenerateWritesPDF(t *testing.T) {
	cfg := testCardConfig(t)
	svc := NewIDCardService(cfg)
	require.NoError(t, svc.EnsureOutputDir())

	ref, err := svc.Generate(context.Background(), fullPlayer())
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^/idcards/idcard_GJ0042_\d+\.pdf$`), ref)

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, filepath.Base(ref)))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestGenerateSucceedsWithSparsePlayerAndMissingAssets(t *testing.T) {
	cfg := testCardConfig(t)
	svc := NewIDCardService(cfg)
	require.NoError(t, svc.EnsureOutputDir())

	ref, err := svc.Generate(context.Background(), fullPlayer())
	require.NoError(t, err)
	assert.NotEmpty(t, ref)

	sparse, err := svc.Generate(context.Background(), sparsePlayerForRender())
	require.NoError(t, err)
	assert.NotEmpty(t, sparse)
}

func TestGenerateRepeatedCallsProduceDistinctPaths(t *testing.T) {
	cfg := testCardConfig(t)
	svc := NewIDCardService(cfg)
	require.NoError(t, svc.EnsureOutputDir())

	p := fullPlayer()
	first, err := svc.Generate(context.Background(), p)
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)

	second, err := svc.Generate(context.Background(), p)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.FileExists(t, filepath.Join(cfg.OutputDir, filepath.Base(first)))
	assert.FileExists(t, filepath.Join(cfg.OutputDir, filepath.Base(second)))
}

func TestGenerateWithPresentAssetsAndPhoto(t *testing.T) {
	cfg := testCardConfig(t)
	assetDir := t.TempDir()
	cfg.AssetDir = assetDir
	writeTestPNG(t, assetDir, cfg.LogoLeft)
	writeTestPNG(t, assetDir, cfg.LogoRight)
	writeTestPNG(t, assetDir, cfg.Banner)

	p := fullPlayer()
	p.ProfilePhoto = writeTestPNG(t, t.TempDir(), "profile.png")

	svc := NewIDCardService(cfg)
	require.NoError(t, svc.EnsureOutputDir())

	ref, err := svc.Generate(context.Background(), p)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(cfg.OutputDir, filepath.Base(ref)))
}

func TestGenerateUnreadablePhotoFallsBackToPlaceholder(t *testing.T) {
	cfg := testCardConfig(t)
	svc := NewIDCardService(cfg)
	require.NoError(t, svc.EnsureOutputDir())

	notPNG := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(notPNG, []byte("not an image"), 0644))

	p := fullPlayer()
	p.ProfilePhoto = notPNG

	ref, err := svc.Generate(context.Background(), p)
	require.NoError(t, err)
	assert.NotEmpty(t, ref)
}

func TestGenerateFailsWhenOutputDirUnwritable(t *testing.T) {
	cfg := testCardConfig(t)
	cfg.OutputDir = filepath.Join(cfg.OutputDir, "never", "created")
	svc := NewIDCardService(cfg)

	_, err := svc.Generate(context.Background(), fullPlayer())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func sparsePlayerForRender() *models.Player {
	return &models.Player{PlayerID: "GJ0001", FirstName: "Asha"}
}
