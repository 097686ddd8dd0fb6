package torvik

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fortuna/athena/internal/store"
)

// ParseTeamResults decodes the team results JSON. The feed has shipped both
// shapes over the years: an array of objects keyed by field name and an
// array of positional rows. Both are handled.
func ParseTeamResults(r io.Reader, year int) ([]store.TeamResult, error) {
	var rows []json.RawMessage
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decoding team results: %w", err)
	}

	results := make([]store.TeamResult, 0, len(rows))
	for i, raw := range rows {
		var result store.TeamResult
		var err error
		if len(raw) > 0 && raw[0] == '[' {
			result, err = parsePositionalTeamRow(raw)
		} else {
			err = json.Unmarshal(raw, &result)
		}
		if err != nil {
			return nil, fmt.Errorf("team results row %d: %w", i, err)
		}
		result.Year = year
		results = append(results, result)
	}
	return results, nil
}

// Positional row layout of the team results feed. Only the columns we
// persist are pulled out; projection and conference-split columns beyond
// index 44 are ignored.
func parsePositionalTeamRow(raw json.RawMessage) (store.TeamResult, error) {
	var row []json.RawMessage
	if err := json.Unmarshal(raw, &row); err != nil {
		return store.TeamResult{}, err
	}
	if len(row) < 45 {
		return store.TeamResult{}, fmt.Errorf("row has %d columns, want 45", len(row))
	}

	num := func(i int) float64 {
		if v := optFloat(row[i]); v.Valid {
			return v.Float64
		}
		return 0
	}

	return store.TeamResult{
		Rank:        int(num(0)),
		Team:        jsonString(row[1]),
		Conf:        jsonString(row[2]),
		Record:      jsonString(row[3]),
		AdjOE:       num(4),
		AdjOERank:   int(num(5)),
		AdjDE:       num(6),
		AdjDERank:   int(num(7)),
		Barthag:     num(8),
		BarthagRank: int(num(9)),
		ProjWins:    int(num(10)),
		ProjLosses:  int(num(11)),
		ConfRecord:  jsonString(row[14]),
		SOS:         num(15),
		WAB:         num(41),
		WABRank:     int(num(42)),
		AdjTempo:    num(44),
	}, nil
}

// ParseTeamDirectory scrapes team names out of the HTML team index page.
// Team links look like team.php?team=Duke&year=2025; names come back
// deduplicated in document order.
func ParseTeamDirectory(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing team directory: %w", err)
	}

	seen := make(map[string]bool)
	var names []string
	doc.Find("a[href*='team.php']").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		name := teamFromHref(href)
		if name == "" {
			name = strings.TrimSpace(sel.Text())
		}
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	})

	if len(names) == 0 {
		return nil, fmt.Errorf("no team links found in directory page")
	}
	return names, nil
}

func teamFromHref(href string) string {
	idx := strings.Index(href, "team=")
	if idx < 0 {
		return ""
	}
	name := href[idx+len("team="):]
	if amp := strings.IndexByte(name, '&'); amp >= 0 {
		name = name[:amp]
	}
	if decoded, err := url.QueryUnescape(name); err == nil {
		name = decoded
	}
	return name
}
