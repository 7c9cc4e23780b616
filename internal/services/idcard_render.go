package services

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"

	"github.com/parasports/idcard/internal/config"
	"github.com/parasports/idcard/internal/models"
)

// Card geometry, in points. The card is a fixed 650x400 two-sided design;
// none of this is configurable.
const (
	cardW = 650.0
	cardH = 400.0

	cornerRadius = 20.0

	logoSize   = 60.0
	logoMargin = 24.0
	titleY     = 18.0

	watermarkW = 400.0
	watermarkH = 270.0

	photoSize   = 130.0
	photoX      = 40.0
	photoY      = 130.0
	photoRadius = 16.0

	bannerW = 460.0
	bannerX = 100.0
	bannerY = 280.0

	qrSize = 120.0

	spacedIDY = 310.0
)

// photoPixels is the square size profile photos are normalized to before
// being embedded. 3x the placed size keeps print output sharp.
const photoPixels = 390

var (
	gradientWarm = [3]int{255, 228, 181} // moccasin
	gradientCool = [3]int{176, 224, 230} // powder blue
	titleColor   = [3]int{25, 25, 112}   // midnight blue
	labelColor   = [3]int{25, 118, 210}
	valueColor   = [3]int{17, 17, 17}
	placeholder  = [3]int{204, 204, 204}
)

// cardComposer draws one face at a time onto an already-open page of a
// 650x400 document. It never fails: optional assets that are missing or
// unreadable are skipped (or replaced by a placeholder for the photo).
type cardComposer struct {
	pdf    *fpdf.Fpdf
	assets config.CardConfig
	// fontFamily is the registered embedded font, or "" to use Helvetica.
	fontFamily string
}

func (c *cardComposer) drawFront(p *models.Player) {
	c.drawCommon(p)
	c.drawPhoto(p)

	const (
		col1X  = photoX + photoSize + 20
		col2X  = col1X + 210 + 70
		startY = 110.0
		step   = 28.0 + 12.0
	)

	y := startY
	c.field("Name:", p.FullName(), col1X, y, 90, 160, 14)
	c.field("Gender:", p.Gender, col2X, y, 65, 90, 14)
	y += step
	c.field("Primary Sport:", p.PrimarySport, col1X, y, 110, 140, 14)
	c.field("DOB:", formatDOB(p.DateOfBirth), col2X, y, 65, 90, 14)
	y += step
	c.field("Passport Number:", p.PassportNumber, col1X, y, 130, 120, 14)
	y += step
	c.field("Address:", p.Address.Flatten(), col1X, y, 90, 350, 14)

	c.drawBanner()
	c.drawSpacedID(p.PlayerID)
}

func (c *cardComposer) drawBack(p *models.Player, qrPNG []byte) {
	c.drawCommon(p)

	// QR near the top-right.
	name := fmt.Sprintf("card-qr-%d", time.Now().UnixNano())
	opts := fpdf.ImageOptions{ImageType: "png", ReadDpi: false}
	c.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(qrPNG))
	c.pdf.ImageOptions(name, cardW-qrSize-40, 120, qrSize, qrSize, false, opts, 0, "")

	const (
		leftX  = 60.0
		startY = 120.0
		step   = 24.0 + 14.0
	)

	y := startY
	c.field("Coach Name:", p.CoachName, leftX, y, 120, 180, 13)
	y += step
	c.field("Coach Contact:", p.CoachContact.DisplayPhone(), leftX, y, 120, 180, 13)
	y += step
	c.field("Emergency Name:", p.EmergencyContact.DisplayName(), leftX, y, 120, 180, 13)
	y += step
	c.field("Emergency Contact:", p.EmergencyContact.DisplayPhone(), leftX, y, 120, 180, 13)

	c.drawBanner()
	c.drawSpacedID(p.PlayerID)
}

// drawCommon paints the visual grammar both faces share: gradient
// background, watermark, top logos and the association title.
func (c *cardComposer) drawCommon(p *models.Player) {
	pdf := c.pdf

	// Full-bleed rounded gradient at reduced opacity.
	pdf.SetAlpha(0.85, "Normal")
	pdf.ClipRoundedRect(0, 0, cardW, cardH, cornerRadius, false)
	pdf.LinearGradient(0, 0, cardW, cardH,
		gradientWarm[0], gradientWarm[1], gradientWarm[2],
		gradientCool[0], gradientCool[1], gradientCool[2],
		0, 0, 1, 1)
	pdf.ClipEnd()
	pdf.SetAlpha(1, "Normal")

	// Faint centered watermark.
	pdf.SetAlpha(0.13, "Normal")
	c.tryImage(c.assetPath(c.assets.LogoLeft), (cardW-watermarkW)/2, (cardH-watermarkH)/2, watermarkW, watermarkH)
	pdf.SetAlpha(1, "Normal")

	// Top corner logos. The right logo is taller by design.
	c.tryImage(c.assetPath(c.assets.LogoLeft), logoMargin, titleY, logoSize, logoSize)
	c.tryImage(c.assetPath(c.assets.LogoRight), cardW-logoMargin-logoSize, titleY, logoSize, 80)

	// Title between the logos.
	titleX := logoMargin + logoSize
	titleW := cardW - 2*(logoMargin+logoSize)
	pdf.SetFont(c.font(), "B", 29)
	pdf.SetTextColor(titleColor[0], titleColor[1], titleColor[2])
	pdf.SetXY(titleX+5, titleY+7)
	pdf.MultiCell(titleW, 31, c.assets.Title, "", "C", false)
}

// drawPhoto fills the rounded photo region with the player's profile photo
// or, when the reference is absent or unusable, a flat gray placeholder.
func (c *cardComposer) drawPhoto(p *models.Player) {
	pdf := c.pdf

	pdf.ClipRoundedRect(photoX, photoY, photoSize, photoSize, photoRadius, false)
	defer pdf.ClipEnd()

	png, err := c.loadPhoto(p.ProfilePhoto)
	if err != nil {
		if p.ProfilePhoto != "" {
			log.Printf("[IDCard] photo %q unusable, using placeholder: %v", p.ProfilePhoto, err)
		}
		pdf.SetFillColor(placeholder[0], placeholder[1], placeholder[2])
		pdf.Rect(photoX, photoY, photoSize, photoSize, "F")
		return
	}

	name := fmt.Sprintf("card-photo-%d", time.Now().UnixNano())
	opts := fpdf.ImageOptions{ImageType: "png", ReadDpi: false}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	pdf.ImageOptions(name, photoX, photoY, photoSize, photoSize, false, opts, 0, "")
	if pdf.Err() {
		// A corrupt image must not abort the page.
		log.Printf("[IDCard] photo draw failed, using placeholder: %v", pdf.Error())
		pdf.ClearError()
		pdf.SetFillColor(placeholder[0], placeholder[1], placeholder[2])
		pdf.Rect(photoX, photoY, photoSize, photoSize, "F")
	}
}

// loadPhoto resolves the stored photo reference, center-crops it square and
// re-encodes it as PNG for embedding. A leading "/" marks the reference as
// relative to the configured photo base directory.
func (c *cardComposer) loadPhoto(ref string) ([]byte, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("no photo reference")
	}

	path := strings.TrimPrefix(ref, "/")
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.assets.PhotoBaseDir, path)
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, err
	}
	square := imaging.Fill(img, photoPixels, photoPixels, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, square, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *cardComposer) drawBanner() {
	// Width-only scaling: height follows the image's aspect ratio.
	c.tryImage(c.assetPath(c.assets.Banner), bannerX, bannerY, bannerW, 0)
}

// drawSpacedID renders the identifier, one space between every character,
// large and centered across the full card width.
func (c *cardComposer) drawSpacedID(playerID string) {
	pdf := c.pdf
	pdf.SetFont(c.font(), "B", 35)
	pdf.SetTextColor(valueColor[0], valueColor[1], valueColor[2])
	pdf.SetXY(0, spacedIDY)
	pdf.CellFormat(cardW, 40, spacedID(playerID), "", 0, "C", false, 0, "")
}

// field draws one bold label and its value. Values wrap within their
// column; a missing value still occupies its slot so row structure stays
// fixed.
func (c *cardComposer) field(label, value string, x, y, labelW, valueW, size float64) {
	pdf := c.pdf

	pdf.SetFont(c.font(), "B", size)
	pdf.SetTextColor(labelColor[0], labelColor[1], labelColor[2])
	pdf.SetXY(x, y)
	pdf.CellFormat(labelW, size+4, label, "", 0, "L", false, 0, "")

	pdf.SetFont(c.font(), "", size)
	pdf.SetTextColor(valueColor[0], valueColor[1], valueColor[2])
	pdf.SetXY(x+labelW+5, y)
	pdf.MultiCell(valueW, size+4, value, "", "L", false)
}

// tryImage places an optional image asset and reports whether it was
// drawn. Missing files, unreadable files and decode failures all degrade
// to "skipped"; they never abort composition.
func (c *cardComposer) tryImage(path string, x, y, w, h float64) bool {
	if path == "" {
		return false
	}
	if _, err := os.Stat(path); err != nil {
		return false
	}

	opts := fpdf.ImageOptions{ReadDpi: false}
	c.pdf.ImageOptions(path, x, y, w, h, false, opts, 0, "")
	if c.pdf.Err() {
		log.Printf("[IDCard] skipping asset %s: %v", path, c.pdf.Error())
		c.pdf.ClearError()
		return false
	}
	return true
}

func (c *cardComposer) assetPath(name string) string {
	if name == "" {
		return ""
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.assets.AssetDir, name)
}

// font returns the embedded font family when one was registered for this
// document, otherwise the built-in Helvetica.
func (c *cardComposer) font() string {
	if c.fontFamily != "" {
		return c.fontFamily
	}
	return "Helvetica"
}

// spacedID inserts a single space between every character of the
// identifier: "GJ0042" renders as "G J 0 0 4 2".
func spacedID(id string) string {
	runes := []rune(id)
	parts := make([]string, len(runes))
	for i, r := range runes {
		parts[i] = string(r)
	}
	return strings.Join(parts, " ")
}

// formatDOB renders a date of birth as dd/mm/yyyy; the zero time renders
// as an empty field.
func formatDOB(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}
