package hh

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-vacancy-collector/internal/config"
	"go-vacancy-collector/internal/scraper"
	"go-vacancy-collector/pkg/logging"
)

const salaryClass = "magritte-text___pbpft_3-0-27 magritte-text_style-primary___AQ7MW_3-0-27 magritte-text_typography-label-1-regular___pi3R-_3-0-27"

const searchPage = `<html><body>
<div class="magritte-redesign">
  <a data-qa="serp-item__title" href="https://hh.ru/vacancy/1">  Go   developer </a>
  <span data-qa="vacancy-serp__vacancy-address">Москва</span>
  <span class="` + salaryClass + `">от 200` + "\u202f" + `000 ₽` + "\u00a0" + `до вычета налогов</span>
  <span data-qa="vacancy-serp__vacancy-employer-text">ООО Ромашка</span>
  <div class="magritte-tag__label___YHV-o_3-1-3">Опыт 1–3 года</div>
  <div data-qa="vacancy-serp__vacancy_snippet_responsibility">Писать сервисы.</div>
  <div data-qa="vacancy-serp__vacancy_snippet_requirement">Знание Go.</div>
</div>
<div class="magritte-redesign">
  <span data-qa="vacancy-serp__vacancy-employer-text">Аноним</span>
</div>
<a data-qa="pager-page">1</a><a data-qa="pager-page">2</a><a data-qa="pager-page">40</a>
</body></html>`

func selectors() config.HHSelectors {
	return config.Default().HH.Selectors
}

func TestExtractor_Extract(t *testing.T) {
	e := NewExtractor(selectors(), "")

	got, err := e.Extract(Page{Ref: PageRef{Role: 96, Page: 3}, HTML: searchPage})

	require.NoError(t, err)
	require.Len(t, got, 2)

	full := got[0]
	assert.Equal(t, Columns, full.Names())
	for name, want := range map[string]string{
		"role_id":      "96",
		"title":        "Go developer",
		"link":         "https://hh.ru/vacancy/1",
		"location":     "Москва",
		"salary":       "от 200 000 ₽ до вычета налогов",
		"company":      "ООО Ромашка",
		"experience":   "Опыт 1–3 года",
		"description":  "Писать сервисы.",
		"requirements": "Знание Go.",
	} {
		v, _ := full.Get(name)
		assert.Equal(t, want, v, name)
	}

	sparse := got[1]
	title, _ := sparse.Get("title")
	link, _ := sparse.Get("link")
	salary, _ := sparse.Get("salary")
	company, _ := sparse.Get("company")
	assert.Equal(t, scraper.DefaultSentinel, title)
	assert.Equal(t, "", link, "missing link stays empty")
	assert.Equal(t, scraper.DefaultSentinel, salary)
	assert.Equal(t, "Аноним", company)
}

func TestExtractor_NoCardsIsNotAnError(t *testing.T) {
	got, err := NewExtractor(selectors(), "n/a").Extract(Page{HTML: "<html><body>captcha</body></html>"})

	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestPageCount(t *testing.T) {
	pager := selectors().Pager
	assert.Equal(t, 40, PageCount(searchPage, pager))
	assert.Equal(t, 1, PageCount("<html></html>", pager))
	assert.Equal(t, 1, PageCount(`<a data-qa="pager-page">дальше</a>`, pager))
}

func TestBuildURL(t *testing.T) {
	url := BuildURL(config.Default().HH.URLTemplate, PageRef{Role: 156, Page: 2})
	assert.Equal(t, "https://hh.ru/search/vacancy?text=&professional_role=156&enable_snippets=true&order_by=relevance&items_on_page=100&page=2", url)
}

type fakeProber struct {
	pages map[int]string
	errs  map[int]error
	calls []int
}

func (p *fakeProber) Probe(_ context.Context, role int) (string, error) {
	p.calls = append(p.calls, role)
	if err := p.errs[role]; err != nil {
		return "", err
	}
	return p.pages[role], nil
}

func pager(n int) string {
	html := ""
	for i := 1; i <= n; i++ {
		html += `<a data-qa="pager-page">` + string(rune('0'+i)) + `</a>`
	}
	return html
}

func TestEnumerator_WalksRolesAndPages(t *testing.T) {
	prober := &fakeProber{
		pages: map[int]string{10: pager(3), 20: "", 30: pager(2)},
		errs:  map[int]error{20: errors.New("timeout")},
	}
	e := NewEnumerator([]int{10, 20, 30}, prober, selectors().Pager)

	var refs []PageRef
	var errs int
	for {
		ref, ok, err := e.Next(context.Background())
		if err != nil {
			errs++
			continue
		}
		if !ok {
			break
		}
		refs = append(refs, ref)
	}

	assert.Equal(t, []PageRef{{10, 0}, {10, 1}, {10, 2}, {30, 0}, {30, 1}}, refs)
	assert.Equal(t, 1, errs, "a failed probe skips the role")
	assert.Equal(t, []int{10, 20, 30}, prober.calls)
}

// fakeTab serves canned HTML and a growing then stable scroll height.
type fakeTab struct {
	html    string
	gotoErr error
	urls    []string
	timeout float64
	heights []float64
	shots   int
}

func (f *fakeTab) Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error) {
	f.urls = append(f.urls, url)
	if len(options) > 0 && options[0].Timeout != nil {
		f.timeout = *options[0].Timeout
	}
	return nil, f.gotoErr
}

func (f *fakeTab) Evaluate(expression string, _ ...interface{}) (interface{}, error) {
	if expression == "document.body.scrollHeight" {
		h := f.heights[0]
		if len(f.heights) > 1 {
			f.heights = f.heights[1:]
		}
		return h, nil
	}
	return nil, nil
}

func (f *fakeTab) Content() (string, error) {
	return f.html, nil
}

func (f *fakeTab) Screenshot(...playwright.PageScreenshotOptions) ([]byte, error) {
	f.shots++
	return nil, nil
}

func testConfig(t *testing.T) config.HHConfig {
	cfg := config.Default().HH
	cfg.SettleDelay = 0
	cfg.ProbeSettleDelay = 0
	cfg.ScrollPause = time.Millisecond
	cfg.ScreenshotDir = t.TempDir()
	return cfg
}

func TestFetcher_Fetch(t *testing.T) {
	tab := &fakeTab{html: searchPage, heights: []float64{100, 200, 200}}
	f := NewFetcher(tab, testConfig(t), nil, logging.Nop())

	page, err := f.Fetch(context.Background(), PageRef{Role: 96, Page: 1})

	require.NoError(t, err)
	assert.Equal(t, searchPage, page.HTML)
	assert.Equal(t, PageRef{Role: 96, Page: 1}, page.Ref)
	assert.Contains(t, tab.urls[0], "professional_role=96")
	assert.Contains(t, tab.urls[0], "page=1")
	assert.Equal(t, 30000.0, tab.timeout)
}

func TestFetcher_NavigationError(t *testing.T) {
	tab := &fakeTab{gotoErr: errors.New("net::ERR_TIMED_OUT"), heights: []float64{0}}
	cfg := testConfig(t)
	pipe := NewPipeline(cfg, tab, "", scraper.RetryPolicy{}, nil)

	_, err := pipe.Fetcher.Fetch(context.Background(), PageRef{Role: 1})

	assert.ErrorContains(t, err, "ERR_TIMED_OUT")
	assert.Equal(t, 1, tab.shots, "a debug screenshot is taken")
}

func TestPipeline_EndToEnd(t *testing.T) {
	tab := &fakeTab{html: searchPage, heights: []float64{100}}
	cfg := testConfig(t)
	cfg.Roles = []int{96}

	rs, stats, err := NewPipeline(cfg, tab, "", scraper.RetryPolicy{}, nil).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 40, stats.Units)
	assert.Equal(t, 80, rs.Len())
	assert.Equal(t, Columns, rs.Header())
	assert.Len(t, tab.urls, 41, "one probe plus forty pages")
}
