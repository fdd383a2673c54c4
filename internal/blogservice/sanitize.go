package blogservice

import "regexp"

var scriptTagPattern = regexp.MustCompile(`(?is)<\s*script[^>]*>(.*?)<\s*/\s*script\s*>`)

func sanitizeHTML(s string) string {
	return scriptTagPattern.ReplaceAllString(s, "")
}
