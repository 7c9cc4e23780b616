package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/parasports/idcard/internal/config"
	"github.com/parasports/idcard/internal/models"
)

// ErrGenerationFailed wraps any composition or write failure during card
// generation. Partial output files are left for the operations layer to
// sweep; this service never cleans up after itself.
var ErrGenerationFailed = errors.New("failed to generate ID card")

// embeddedFontFamily is the family name the optional Unicode font is
// registered under when present on disk.
const embeddedFontFamily = "unicode"

// IDCardService renders two-sided printable identity cards for players.
// Each Generate call is independent and owns its output file exclusively;
// concurrent calls are safe because filenames carry a millisecond
// timestamp.
type IDCardService struct {
	assets config.CardConfig
}

func NewIDCardService(assets config.CardConfig) *IDCardService {
	return &IDCardService{assets: assets}
}

// EnsureOutputDir creates the card output directory. Called once at
// startup, never as a side effect of rendering.
func (s *IDCardService) EnsureOutputDir() error {
	return os.MkdirAll(s.assets.OutputDir, 0755)
}

// Generate renders the player's card and returns its reference path
// ("/idcards/<filename>"). The QR payload is encoded up front so an
// encoding failure aborts before any file is created.
func (s *IDCardService) Generate(ctx context.Context, p *models.Player) (string, error) {
	qrPNG, err := EncodeCardQR(p)
	if err != nil {
		return "", err
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: cardW, Ht: cardH},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	composer := &cardComposer{
		pdf:        pdf,
		assets:     s.assets,
		fontFamily: registerEmbeddedFont(pdf, s.assets.FontFile),
	}

	filename := fmt.Sprintf("idcard_%s_%d.pdf", p.PlayerID, time.Now().UnixMilli())
	outPath := filepath.Join(s.assets.OutputDir, filename)

	pdf.AddPage()
	composer.drawFront(p)
	pdf.AddPage()
	composer.drawBack(p, qrPNG)

	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if err := pdf.Output(out); err != nil {
		out.Close()
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	return "/idcards/" + filename, nil
}

// registerEmbeddedFont registers the optional Unicode font for regular and
// bold use and returns its family name. A missing file or failed
// registration is swallowed; text falls back to the built-in Helvetica.
func registerEmbeddedFont(pdf *fpdf.Fpdf, fontFile string) string {
	if fontFile == "" {
		return ""
	}
	if _, err := os.Stat(fontFile); err != nil {
		return ""
	}

	pdf.AddUTF8Font(embeddedFontFamily, "", fontFile)
	pdf.AddUTF8Font(embeddedFontFamily, "B", fontFile)
	if pdf.Err() {
		log.Printf("[IDCard] font %s not registered: %v", fontFile, pdf.Error())
		pdf.ClearError()
		return ""
	}
	return embeddedFontFamily
}
