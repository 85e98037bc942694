package embed

import (
	"fmt"
	"math"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"
)

const (
	youTubeEmbedEndpoint     = "https://www.youtube.com/embed/"
	youTubeThumbnailEndpoint = "https://img.youtube.com/vi/"
	msOfficeEndpoint         = "https://view.officeapps.live.com/op/embed.aspx?src="
	figmaEndpoint            = "https://www.figma.com/embed?embed_host=share&url="
)

var youTubeIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ExtractYouTubeID returns the video id of the address or an empty string if none is recognized. The supported forms
// are youtu.be/<id>, ?v=<id> and /embed/<id>, with or without the scheme.
func ExtractYouTubeID(raw string) string {
	u, err := url.Parse(withScheme(strings.TrimSpace(raw)))
	if err != nil || u.Host == "" {
		return ""
	}

	var (
		host     = strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
		segments = strings.Split(strings.Trim(u.Path, "/"), "/")
		id       string
	)
	switch {
	case host == "youtu.be":
		id = segments[0]
	case u.Query().Get("v") != "":
		id = u.Query().Get("v")
	case len(segments) >= 2 && segments[0] == "embed":
		id = segments[1]
	}

	if !youTubeIDRegex.MatchString(id) {
		return ""
	}
	return id
}

// withScheme prefixes https to an address that starts with a domain name, like youtu.be/<id>.
func withScheme(raw string) string {
	if strings.Contains(raw, "://") || strings.HasPrefix(raw, "//") {
		return raw
	}
	host := raw
	if i := strings.IndexAny(raw, "/?#"); i >= 0 {
		host = raw[:i]
	}
	if !strings.Contains(host, ".") {
		return raw
	}
	return "https://" + raw
}

func youTubePlayerURL(id string, start int) string {
	player := youTubeEmbedEndpoint + id + "?autoplay=1"
	if start > 0 {
		player += "&start=" + strconv.Itoa(start)
	}
	return player
}

func youTubeThumbnailURL(id string) string {
	return youTubeThumbnailEndpoint + id + "/hqdefault.jpg"
}

// previewURL rewrites a Google Docs or Sheets address to end at the /preview segment.
func previewURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return strings.TrimRight(raw, "/") + "/preview"
	}

	p := strings.TrimRight(u.Path, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		switch p[i+1:] {
		case "edit", "view", "preview", "pub", "pubhtml", "htmlview", "copy":
			p = p[:i]
		}
	}
	u.Path = p + "/preview"
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

func msOfficeURL(raw string) string {
	return msOfficeEndpoint + encodeComponent(raw)
}

func figmaURL(raw string) string {
	return figmaEndpoint + encodeComponent(raw)
}

// encodeComponent percent-encodes a value to be used as a query parameter, spaces are encoded as %20.
func encodeComponent(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}

func gistScriptURL(raw string) string {
	raw = strings.TrimRight(raw, "/")
	if strings.HasSuffix(raw, ".js") {
		return raw
	}
	return raw + ".js"
}

// Allowed checks if the address host is one of the domains at the whitelist or a subdomain of them. The host is
// returned so it can be displayed when rejected, unparseable addresses are rejected and returned as they are.
func Allowed(raw string, whitelist []string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Hostname() == "" {
		return raw, false
	}

	host := strings.ToLower(u.Hostname())
	for _, domain := range whitelist {
		domain = normalizeDomain(domain)
		if domain == "" {
			continue
		}
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return host, true
		}
	}
	return host, false
}

func normalizeDomain(domain string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), ".")
}

func httpURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// ratio is an aspect ratio like 16/9.
type ratio struct {
	width  int
	height int
}

var (
	defaultRatio = ratio{width: 16, height: 9}
	chartRatio   = ratio{width: 4, height: 3}
)

// parseRatio reads the numerator/denominator form, any other value gives the fallback ratio.
func parseRatio(value string, fallback ratio) ratio {
	fragments := strings.Split(strings.TrimSpace(value), "/")
	if len(fragments) != 2 {
		return fallback
	}
	width, err := strconv.Atoi(strings.TrimSpace(fragments[0]))
	if err != nil || width <= 0 {
		return fallback
	}
	height, err := strconv.Atoi(strings.TrimSpace(fragments[1]))
	if err != nil || height <= 0 {
		return fallback
	}
	return ratio{width: width, height: height}
}

// padding is the bottom padding percentage that gives the ratio to a zero-height box.
func (r ratio) padding() string {
	value := float64(r.height) / float64(r.width) * 100
	return strconv.FormatFloat(math.Round(value*10000)/10000, 'f', -1, 64) + "%"
}

// fileName guesses a file name from the last segment of the address path.
func fileName(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return ""
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}

// FormatSize renders a size in bytes with the closest unit.
func FormatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	value, exp := float64(size)/unit, 0
	for value >= unit && exp < 2 {
		value /= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", value, "KMG"[exp])
}
