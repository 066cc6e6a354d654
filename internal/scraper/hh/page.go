package hh

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// Columns is the fixed CSV header of the hh scrape.
var Columns = []string{
	"role_id", "title", "link", "location", "salary",
	"company", "experience", "description", "requirements",
}

// PageRef addresses one search result page of one professional role.
type PageRef struct {
	Role int
	Page int
}

func (r PageRef) String() string {
	return fmt.Sprintf("role=%d page=%d", r.Role, r.Page)
}

// Page is the rendered HTML of a PageRef.
type Page struct {
	Ref  PageRef
	HTML string
}

// Tab is the subset of playwright.Page the scrape drives.
type Tab interface {
	Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error)
	Evaluate(expression string, arg ...interface{}) (interface{}, error)
	Content() (string, error)
	Screenshot(options ...playwright.PageScreenshotOptions) ([]byte, error)
}

// BuildURL fills the {role} and {page} placeholders of template.
func BuildURL(template string, ref PageRef) string {
	return strings.NewReplacer(
		"{role}", strconv.Itoa(ref.Role),
		"{page}", strconv.Itoa(ref.Page),
	).Replace(template)
}
