// Package manifest resolves rendition ladders from HLS master playlists.
package manifest

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/vidra-cli/vidra/constant"
	"github.com/vidra-cli/vidra/network"
	"github.com/vidra-cli/vidra/playback"
)

// Resolver fetches a master playlist and extracts its variant streams as a
// quality ladder. It implements playback.QualityResolver.
type Resolver struct {
	Client *http.Client
}

// NewResolver returns a resolver backed by the shared HTTP client.
func NewResolver() *Resolver {
	return &Resolver{Client: network.Client}
}

// Resolve implements playback.QualityResolver. The returned ladder is sorted
// by ascending bandwidth and contains only concrete renditions; the automatic
// quality is the caller's concern.
func (r *Resolver) Resolve(ctx context.Context, manifestURL string) ([]playback.VideoQuality, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, manifestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("manifest request: %w", err)
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("manifest fetch %q: %w", manifestURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("manifest fetch %q: unexpected status %s", manifestURL, resp.Status)
	}

	base, err := url.Parse(manifestURL)
	if err != nil {
		return nil, fmt.Errorf("manifest url: %w", err)
	}

	ladder, err := parse(bufio.NewScanner(resp.Body), base)
	if err != nil {
		return nil, fmt.Errorf("manifest %q: %w", manifestURL, err)
	}
	return ladder, nil
}

// parse walks a master playlist pairing each EXT-X-STREAM-INF tag with the
// variant URI on the following line.
func parse(scanner *bufio.Scanner, base *url.URL) ([]playback.VideoQuality, error) {
	var (
		ladder  []playback.VideoQuality
		pending map[string]string
	)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "#EXT-X-STREAM-INF:"):
			pending = parseAttributes(strings.TrimPrefix(line, "#EXT-X-STREAM-INF:"))

		case line == "" || strings.HasPrefix(line, "#"):
			continue

		default:
			if pending == nil {
				continue
			}
			ladder = append(ladder, renditionFrom(pending, line, base))
			pending = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(ladder) == 0 {
		return nil, fmt.Errorf("no variant streams")
	}

	sort.SliceStable(ladder, func(i, j int) bool {
		return ladder[i].Bandwidth < ladder[j].Bandwidth
	})
	return ladder, nil
}

func renditionFrom(attrs map[string]string, uri string, base *url.URL) playback.VideoQuality {
	bandwidth, _ := strconv.ParseInt(attrs["BANDWIDTH"], 10, 64)
	resolution := attrs["RESOLUTION"]

	label := attrs["NAME"]
	if label == "" {
		label = labelFor(resolution, bandwidth)
	}

	target := uri
	if ref, err := url.Parse(uri); err == nil {
		target = base.ResolveReference(ref).String()
	}

	// The ladder works in kbit/s; playlists advertise bit/s.
	return playback.StreamQuality(int(float64(bandwidth)/1000), resolution, target, label)
}

// labelFor derives a human label from the vertical resolution, falling back
// to the bandwidth when the playlist omits RESOLUTION.
func labelFor(resolution string, bandwidth int64) string {
	if _, height, ok := strings.Cut(resolution, "x"); ok {
		return height + "p"
	}
	return fmt.Sprintf("%d kbps", bandwidth/1000)
}

// parseAttributes splits an attribute list, honoring quoted values that may
// contain commas.
func parseAttributes(list string) map[string]string {
	attrs := make(map[string]string)

	var (
		token    strings.Builder
		inQuotes bool
		parts    []string
	)
	for _, r := range list {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			parts = append(parts, token.String())
			token.Reset()
		default:
			token.WriteRune(r)
		}
	}
	parts = append(parts, token.String())

	for _, part := range parts {
		if name, value, ok := strings.Cut(part, "="); ok {
			attrs[strings.TrimSpace(name)] = strings.TrimSpace(value)
		}
	}
	return attrs
}
