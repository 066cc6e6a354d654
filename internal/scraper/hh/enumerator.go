package hh

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Prober loads the first result page of a role.
type Prober interface {
	Probe(ctx context.Context, role int) (string, error)
}

// Enumerator yields every page of every role in configured order. The page
// count of a role is read from its first page just before the role starts.
type Enumerator struct {
	roles         []int
	prober        Prober
	pagerSelector string

	idx   int
	page  int
	pages int
}

func NewEnumerator(roles []int, prober Prober, pagerSelector string) *Enumerator {
	return &Enumerator{
		roles:         append([]int(nil), roles...),
		prober:        prober,
		pagerSelector: pagerSelector,
	}
}

func (e *Enumerator) Next(ctx context.Context) (PageRef, bool, error) {
	for e.idx < len(e.roles) {
		role := e.roles[e.idx]

		if e.pages == 0 {
			html, err := e.prober.Probe(ctx, role)
			if err != nil {
				e.idx++
				return PageRef{}, false, fmt.Errorf("hh: count pages of role %d: %w", role, err)
			}
			e.pages = PageCount(html, e.pagerSelector)
			e.page = 0
		}

		if e.page < e.pages {
			ref := PageRef{Role: role, Page: e.page}
			e.page++
			return ref, true, nil
		}

		e.idx++
		e.pages = 0
	}
	return PageRef{}, false, nil
}

// PageCount reads the number of the last pager link. No pager, or a label
// that is not a number, means a single page.
func PageCount(html, pagerSelector string) int {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 1
	}
	last := doc.Find(pagerSelector).Last()
	if last.Length() == 0 {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(last.Text()))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
