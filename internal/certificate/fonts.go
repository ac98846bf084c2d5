package certificate

import (
	_ "embed"

	"github.com/go-pdf/fpdf"
)

// fontFamily покрывает кириллицу и остальной текст пользователей:
// базовые шрифты PDF умеют только cp1252.
const fontFamily = "DejaVu"

var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	dejaVuRegular []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	dejaVuBold []byte
)

func registerFonts(pdf *fpdf.Fpdf) {
	pdf.AddUTF8FontFromBytes(fontFamily, "", dejaVuRegular)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", dejaVuBold)
}
