package uguu

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// parseLink extracts the uploaded file's link from a success response.
// JSON bodies are read structurally; everything else is used as trimmed text.
func (c *Client) parseLink(contentType string, body []byte) string {
	text := strings.TrimSpace(string(body))

	switch {
	case strings.Contains(contentType, "application/json"):
		link, ok := linkFromJSON(body)
		if !ok {
			c.log.Warn("failed to parse JSON upload response, using raw text")
			return text
		}
		return link
	case c.htmlLinks && strings.Contains(contentType, "text/html"):
		if href := firstHref(body); href != "" {
			return href
		}
		c.log.Debug("no anchor in html response, using raw text", zap.Int("bytes", len(body)))
	}
	return text
}

// linkFromJSON reads {"files":[{"url":...}]} style responses. A JSON string
// is returned as is and any other document as its JSON text. ok is false
// when the body is not valid JSON or the first file entry is not an object.
func linkFromJSON(body []byte) (string, bool) {
	if !gjson.ValidBytes(body) {
		return "", false
	}
	doc := gjson.ParseBytes(body)

	if doc.IsObject() {
		files := doc.Get("files")
		if files.IsArray() && len(files.Array()) > 0 {
			first := files.Array()[0]
			if !first.IsObject() {
				return "", false
			}
			for _, key := range []string{"url", "link"} {
				if v := first.Get(key); v.Exists() && truthy(v) {
					return v.String(), true
				}
			}
			return strings.TrimSpace(first.Raw), true
		}
	}

	if doc.Type == gjson.String {
		return doc.String(), true
	}
	return strings.TrimSpace(doc.Raw), true
}

// truthy reports whether a JSON value would count as set: not null, false,
// zero or an empty string/array/object.
func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.Number:
		return v.Num != 0
	case gjson.String:
		return v.Str != ""
	case gjson.JSON:
		if v.IsArray() {
			return len(v.Array()) > 0
		}
		return len(v.Map()) > 0
	}
	return true
}

// firstHref returns the href of the first anchor in an HTML document.
func firstHref(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	href, _ := doc.Find("a[href]").First().Attr("href")
	return strings.TrimSpace(href)
}
