// Utilities for importing authenticated feed URLs from browser cURL commands.
package shared

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// FeedAuth is the URL and credential material extracted from a cURL command
// copied out of browser DevTools ("Copy as cURL") for a protected feed.
type FeedAuth struct {
	URL    string
	Token  string // bearer token from the Authorization header
	Cookie string
}

var (
	curlURLRegex    = regexp.MustCompile(`curl\s+(?:--[a-z-]+\s+)*'([^']+)'|curl\s+(?:--[a-z-]+\s+)*"([^"]+)"`)
	curlHeaderRegex = regexp.MustCompile(`-H\s+'([^']+)'|-H\s+"([^"]+)"`)
	curlCookieRegex = regexp.MustCompile(`-b\s+'([^']+)'|-b\s+"([^"]+)"`)
)

// ParseCurlFile reads a file containing a cURL command and extracts feed auth.
func ParseCurlFile(path string) (*FeedAuth, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}
	return ParseCurlCommand(content)
}

// ParseCurlCommand parses a cURL command string and extracts the request URL,
// bearer token, and cookie if present.
func ParseCurlCommand(data []byte) (*FeedAuth, error) {
	cmd := string(data)
	cmd = strings.ReplaceAll(cmd, "\\\n", " ")
	cmd = strings.ReplaceAll(cmd, "\\", "")

	auth := &FeedAuth{URL: firstGroup(curlURLRegex.FindStringSubmatch(cmd))}
	if auth.URL == "" {
		return nil, fmt.Errorf("%w: no url found in curl command", ErrInvalidInput)
	}

	for _, match := range curlHeaderRegex.FindAllStringSubmatch(cmd, -1) {
		line := firstGroup(match)
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch strings.ToLower(key) {
		case "authorization":
			auth.Token = strings.TrimSpace(strings.TrimPrefix(value, "Bearer"))
		case "cookie":
			auth.Cookie = value
		}
	}

	if cookie := firstGroup(curlCookieRegex.FindStringSubmatch(cmd)); cookie != "" {
		auth.Cookie = cookie
	}

	return auth, nil
}

func firstGroup(match []string) string {
	if len(match) == 0 {
		return ""
	}
	for _, group := range match[1:] {
		if group != "" {
			return group
		}
	}
	return ""
}
