package zippyshare

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dop251/goja"

	"github.com/rossiberto/zippyshare-downloader/internal/model"
)

// Parser turns a share page's HTML into a raw Info.
//
// Implementations must be pure: the same (pageURL, body) input always
// yields the same output, with no network access.
type Parser interface {
	Parse(pageURL, body string) (*model.Info, error)
}

// PageParser extracts the direct download URL and display metadata from
// a Zippyshare share page.
//
// The site hides the direct URL behind a small piece of JavaScript
// attached to the download button; the exact shape of that script has
// changed over time, so parsing tries a list of known patterns in order
// and uses the first one that matches. The arithmetic embedded in the
// script is evaluated with a real JS engine rather than reimplemented.
type PageParser struct{}

// NewPageParser creates a parser covering all known page formats.
func NewPageParser() *PageParser {
	return &PageParser{}
}

const dlButtonHref = "document.getElementById('dlbutton').href"

type pattern func(script, pageURL string) (string, error)

// Parse extracts the raw field mapping from a share page.
//
// The download-button script is located first; each known pattern is
// then tried against it in order. Display name, size and upload date
// come from the page's styled info cells and may legitimately be empty
// (the finalizer fills the name from the direct URL).
func (p *PageParser) Parse(pageURL, body string) (*model.Info, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, &ParseError{URL: pageURL, Reason: err.Error()}
	}

	script := findDLButtonScript(doc)
	if script == "" {
		return nil, &ParseError{URL: pageURL, Reason: "download button javascript cannot be found"}
	}

	var downloadURL string
	var lastErr error
	for _, pat := range []pattern{pattern1, pattern2, pattern3} {
		downloadURL, lastErr = pat(script, pageURL)
		if lastErr == nil {
			break
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}

	info := &model.Info{
		PageURL:     pageURL,
		DownloadURL: downloadURL,
	}
	fillInfoCells(doc, info)
	return info, nil
}

// findDLButtonScript returns the contents of the first script element
// carrying the download-button href assignment.
func findDLButtonScript(doc *goquery.Document) string {
	var script string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if strings.Contains(text, dlButtonHref) {
			script = text
			return false
		}
		return true
	})
	return script
}

// fillInfoCells reads the display name, size and upload date from the
// page's styled font cells. Older and newer page revisions use two
// different inline styles for the same three cells.
func fillInfoCells(doc *goquery.Document, info *model.Info) {
	var cells []string
	doc.Find("font").Each(func(_ int, s *goquery.Selection) {
		style := strings.TrimSpace(s.AttrOr("style", ""))
		switch style {
		case "line-height:18px; font-size: 13px;",
			"line-height:22px; font-size: 14px;":
			cells = append(cells, strings.TrimSpace(s.Text()))
		}
	})
	if len(cells) >= 3 {
		info.Name = cells[0]
		info.Size = cells[1]
		info.DateUploaded = cells[2]
	}
}

// pattern1 handles pages where the button script carries an "omg"
// attribute plus two numeric vars a and b. The number template between
// the parentheses references a and b; a is substituted with ceil(a/3),
// or floor(a/3) when omg is "f".
func pattern1(script, pageURL string) (string, error) {
	omg, ok := scriptVar(script, "document.getElementById('dlbutton').omg = ")
	if !ok {
		return "", &ParseError{URL: pageURL, Reason: "omg attribute in download button javascript cannot be found"}
	}
	omg = strings.ReplaceAll(omg, `"`, "")

	hrefValue, err := hrefAssignment(script, pageURL)
	if err != nil {
		return "", err
	}

	a, ok := scriptVar(script, "var a = ")
	if !ok {
		return "", &ParseError{URL: pageURL, Reason: "variable a in download button javascript cannot be found"}
	}
	b, ok := scriptVar(script, "var b = ")
	if !ok {
		return "", &ParseError{URL: pageURL, Reason: "variable b in download button javascript cannot be found"}
	}

	aNum, err2 := strconv.Atoi(a)
	if err2 != nil {
		return "", &ParseError{URL: pageURL, Reason: "variable a is not a number: " + a}
	}

	var aSub int
	if omg != "f" {
		aSub = int(math.Ceil(float64(aNum) / 3))
	} else {
		aSub = int(math.Floor(float64(aNum) / 3))
	}

	expr := betweenParens(hrefValue)
	expr = strings.ReplaceAll(expr, "a", strconv.Itoa(aSub))
	expr = strings.ReplaceAll(expr, "b", b)

	return assembleURL(pageURL, hrefValue, expr)
}

// pattern2 handles pages where the parenthesized part of the href is a
// literal arithmetic expression with no variables.
func pattern2(script, pageURL string) (string, error) {
	hrefValue, err := hrefAssignment(script, pageURL)
	if err != nil {
		return "", err
	}
	return assembleURL(pageURL, hrefValue, betweenParens(hrefValue))
}

var (
	reNumericVar = regexp.MustCompile(`var ([a-zA-Z]) = ([0-9%]+);`)
	reDLButton   = regexp.MustCompile(`document\.getElementById\('dlbutton'\)\.href = "(/[a-zA-Z]/[a-zA-Z0-9]+/)"\+(\([a-zA-Z] \+ [a-zA-Z] \+ [a-zA-Z] - [0-9]\))\+"(/.+)";`)
)

// pattern3 handles pages that declare several single-letter numeric vars
// and combine three of them in the href: "/d/ID/"+(a + b + c - N)+"/name".
func pattern3(script, pageURL string) (string, error) {
	vars := map[string]string{}
	for _, m := range reNumericVar.FindAllStringSubmatch(script, -1) {
		vars[m[1]] = m[2]
	}
	if len(vars) == 0 {
		return "", &ParseError{URL: pageURL, Reason: "cannot find required variables in dlbutton script"}
	}

	m := reDLButton.FindStringSubmatch(script)
	if m == nil {
		return "", &ParseError{URL: pageURL, Reason: "invalid pattern when finding url dlbutton"}
	}
	initURL, numberExpr, fileURL := m[1], m[2], m[3]

	for name, value := range vars {
		numberExpr = strings.ReplaceAll(numberExpr, name, value)
	}
	number, err := evalExpression(numberExpr)
	if err != nil {
		return "", &ParseError{URL: pageURL, Reason: err.Error()}
	}

	return hostPrefix(pageURL) + ".zippyshare.com" + initURL + number + fileURL, nil
}

// hrefAssignment isolates the right-hand side of the dlbutton href
// assignment, up to the terminating semicolon.
func hrefAssignment(script, pageURL string) (string, error) {
	start := strings.Index(script, dlButtonHref)
	if start == -1 {
		return "", &ParseError{URL: pageURL, Reason: "download button href assignment cannot be found"}
	}
	rest := script[start:]
	end := strings.Index(rest, ";")
	if end == -1 {
		return "", &ParseError{URL: pageURL, Reason: "unterminated download button href assignment"}
	}
	value := strings.TrimPrefix(rest[:end], dlButtonHref+" = ")
	return value, nil
}

// assembleURL evaluates the number expression and glues the direct URL
// back together from the quoted prefix, the number and the quoted suffix.
func assembleURL(pageURL, hrefValue, expr string) (string, error) {
	number, err := evalExpression(expr)
	if err != nil {
		return "", &ParseError{URL: pageURL, Reason: err.Error()}
	}
	prefix := firstQuoted(hrefValue)
	suffix := lastQuoted(hrefValue)
	if prefix == "" || suffix == "" {
		return "", &ParseError{URL: pageURL, Reason: "malformed download button href value"}
	}
	return hostPrefix(pageURL) + ".zippyshare.com" + prefix + number + suffix, nil
}

// evalExpression evaluates a JS arithmetic snippet from the button
// script ("(497 % 78 + 3 * 2)" and friends) and renders the result the
// way the site's own JS would interpolate it.
func evalExpression(expr string) (string, error) {
	vm := goja.New()
	v, err := vm.RunString(expr)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(v.ToInteger(), 10), nil
}

// scriptVar finds a line of the script starting with prefix and returns
// the remainder with the trailing semicolon stripped.
func scriptVar(script, prefix string) (string, bool) {
	for _, line := range strings.Split(script, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSuffix(strings.TrimPrefix(line, prefix), ";"), true
		}
	}
	return "", false
}

// firstQuoted returns the first double-quoted run in s.
func firstQuoted(s string) string {
	i := strings.Index(s, `"`)
	if i == -1 {
		return ""
	}
	j := strings.Index(s[i+1:], `"`)
	if j == -1 {
		return ""
	}
	return s[i+1 : i+1+j]
}

// lastQuoted returns the last double-quoted run in s.
func lastQuoted(s string) string {
	i := strings.LastIndex(s, `"`)
	if i <= 0 {
		return ""
	}
	j := strings.LastIndex(s[:i], `"`)
	if j == -1 {
		return ""
	}
	return s[j+1 : i]
}

// betweenParens returns the text between the first '(' and the next ')'.
func betweenParens(s string) string {
	i := strings.Index(s, "(")
	if i == -1 {
		return ""
	}
	j := strings.Index(s[i+1:], ")")
	if j == -1 {
		return s[i+1:]
	}
	return s[i+1 : i+1+j]
}

// hostPrefix returns the scheme and subdomain of a share URL, e.g.
// "https://www11" for "https://www11.zippyshare.com/v/abc/file.html".
func hostPrefix(pageURL string) string {
	i := strings.Index(pageURL, ".")
	if i == -1 {
		return pageURL
	}
	return pageURL[:i]
}
