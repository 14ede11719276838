package sharelink

import (
	"bufio"
	"regexp"
	"strings"
)

var regexLink = regexp.MustCompile(`\b(ss|shadowsocks)://[a-zA-Z0-9_\-\.\:@\?=&%#+/\[\]]+`)

// ExtractLinks finds every ss:// link in free text, one or more per line,
// and returns them deduplicated in order of appearance.
func ExtractLinks(text string) []string {
	var links []string
	text = strings.ReplaceAll(text, "\r\n", "\n")
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		matches := regexLink.FindAllString(line, -1)
		for _, match := range matches {
			clean := strings.TrimRight(match, ".,;)\"")
			if clean != "" {
				links = append(links, clean)
			}
		}
	}
	return deduplicate(links)
}

// DecodeSubscription accepts either a plain list of links or the base64
// blob subscription endpoints usually serve.
func DecodeSubscription(body string) []string {
	if links := ExtractLinks(body); len(links) > 0 {
		return links
	}
	decoded, err := DecodeBase64(strings.Join(strings.Fields(body), ""))
	if err != nil {
		return nil
	}
	return ExtractLinks(decoded)
}

func deduplicate(input []string) []string {
	keys := make(map[string]bool)
	list := []string{}
	for _, entry := range input {
		if _, value := keys[entry]; !value {
			keys[entry] = true
			list = append(list, entry)
		}
	}
	return list
}
