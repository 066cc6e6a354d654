package hh

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"

	"go-vacancy-collector/internal/config"
	"go-vacancy-collector/internal/scraper"
)

// Extractor turns a rendered search page into one vacancy per card.
type Extractor struct {
	sel      config.HHSelectors
	sentinel string
}

func NewExtractor(sel config.HHSelectors, sentinel string) *Extractor {
	if sentinel == "" {
		sentinel = scraper.DefaultSentinel
	}
	return &Extractor{sel: sel, sentinel: sentinel}
}

func (e *Extractor) Extract(p Page) ([]scraper.Vacancy, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.HTML))
	if err != nil {
		return nil, fmt.Errorf("hh: parse %s: %w", p.Ref, err)
	}

	var out []scraper.Vacancy
	doc.Find(e.sel.Card).Each(func(_ int, card *goquery.Selection) {
		title := card.Find(e.sel.Title).First()
		link, _ := title.Attr("href")

		out = append(out, scraper.Vacancy{
			{Name: "role_id", Value: strconv.Itoa(p.Ref.Role)},
			{Name: "title", Value: e.text(title)},
			{Name: "link", Value: link},
			{Name: "location", Value: e.text(card.Find(e.sel.Location).First())},
			{Name: "salary", Value: e.salary(card.Find(e.sel.Salary).First())},
			{Name: "company", Value: e.text(card.Find(e.sel.Company).First())},
			{Name: "experience", Value: e.text(card.Find(e.sel.Experience).First())},
			{Name: "description", Value: e.text(card.Find(e.sel.Description).First())},
			{Name: "requirements", Value: e.text(card.Find(e.sel.Requirements).First())},
		})
	})
	return out, nil
}

func (e *Extractor) text(s *goquery.Selection) string {
	if s.Length() == 0 {
		return e.sentinel
	}
	return squash(s.Text())
}

// salary folds the narrow and no-break spaces used in amounts into plain
// spaces.
func (e *Extractor) salary(s *goquery.Selection) string {
	if s.Length() == 0 {
		return e.sentinel
	}
	return squash(norm.NFKC.String(s.Text()))
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
