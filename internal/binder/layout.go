package binder

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/flosch/pongo2/v6"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"qmtg/internal/card"
)

// DefaultRows and DefaultCols match a standard nine-pocket binder page.
const (
	DefaultRows = 3
	DefaultCols = 3
)

//go:embed templates
var templateFS embed.FS

var templates = pongo2.NewSet("binder", pongo2.MustNewHttpFileSystemLoader(http.FS(templateFS), "templates"))

var titler = cases.Title(language.English)

func init() {
	pongo2.RegisterFilter("cardfile", filterCardFile)
	pongo2.RegisterFilter("sizew", filterSizeWidth)
	pongo2.RegisterFilter("sizeh", filterSizeHeight)
}

// cardfile resolves a card to its image file name at the sized rendition
// given as the filter parameter. Template errors render inline rather than
// failing the whole page.
func filterCardFile(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	c, ok := in.Interface().(card.OwnedCard)
	if !ok {
		return pongo2.AsValue(fmt.Sprintf("ERROR[NOT_A_CARD(%v)]", in.Interface())), nil
	}
	s, err := card.SizeFromString(param.String())
	if err != nil {
		return pongo2.AsValue(fmt.Sprintf("ERROR[INVALID_SIZE(%s)]", param.String())), nil
	}
	return pongo2.AsValue(card.ImageSlug(c.Card, s)), nil
}

func filterSizeWidth(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	s, err := card.SizeFromString(in.String())
	if err != nil {
		return pongo2.AsValue(fmt.Sprintf("ERROR[INVALID_SIZE(%s)]", in.String())), nil
	}
	return pongo2.AsValue(strconv.Itoa(s.W)), nil
}

func filterSizeHeight(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	s, err := card.SizeFromString(in.String())
	if err != nil {
		return pongo2.AsValue(fmt.Sprintf("ERROR[INVALID_SIZE(%s)]", in.String())), nil
	}
	return pongo2.AsValue(strconv.Itoa(s.H)), nil
}

// RenderIndex renders the binder's landing page.
func RenderIndex(binderName string, totalPages int) (string, error) {
	tpl, err := templates.FromCache("index.html")
	if err != nil {
		return "", err
	}
	return tpl.Execute(pongo2.Context{
		"binder_name":  binderName,
		"binder_title": titler.String(binderName),
		"total_pages":  totalPages,
	})
}

// RenderPage renders one binder page. Cards must hold at most rows*cols
// entries; short pages leave their remaining slots empty.
func RenderPage(binderName string, cards []card.OwnedCard, pageno, totalPages, rows, cols int) (string, error) {
	tpl, err := templates.FromCache("binder.html")
	if err != nil {
		return "", err
	}

	cardRows := make([][]any, rows)
	for y := 0; y < rows; y++ {
		row := make([]any, cols)
		for x := 0; x < cols; x++ {
			if idx := y*cols + x; idx < len(cards) {
				row[x] = cards[idx]
			}
		}
		cardRows[y] = row
	}

	ctx := pongo2.Context{
		"binder_name":  binderName,
		"binder_title": titler.String(binderName),
		"page_number":  pageno,
		"total_pages":  totalPages,
		"cards":        cardRows,
	}
	if pageno > 1 {
		ctx["prev_page"] = PageFileName(pageno - 1)
	}
	if pageno < totalPages {
		ctx["next_page"] = PageFileName(pageno + 1)
	}
	return tpl.Execute(ctx)
}

// PageFileName names the HTML file for a binder page number.
func PageFileName(pageno int) string {
	return fmt.Sprintf("binder%03d.html", pageno)
}

// TotalPages returns how many pages a card count fills.
func TotalPages(cardCount, rows, cols int) int {
	perPage := rows * cols
	if perPage <= 0 || cardCount <= 0 {
		return 0
	}
	return (cardCount + perPage - 1) / perPage
}

// StaticAssets returns the static files every binder view needs, keyed by
// file name.
func StaticAssets() (map[string][]byte, error) {
	entries, err := fs.ReadDir(templateFS, "templates/static")
	if err != nil {
		return nil, err
	}
	assets := make(map[string][]byte, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := fs.ReadFile(templateFS, "templates/static/"+entry.Name())
		if err != nil {
			return nil, err
		}
		assets[entry.Name()] = data
	}
	return assets, nil
}
