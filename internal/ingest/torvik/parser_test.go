package torvik

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gameRow builds a 53-column feed row with sensible defaults, then applies
// overrides by column index.
func gameRow(overrides map[int]any) []any {
	row := make([]any, 53)
	for i := range row {
		row[i] = 0.0
	}
	row[0] = "20250104"      // numdate
	row[1] = "Sat Jan 4"     // datetext
	row[5] = "Kansas"        // opponent
	row[6] = "12345"         // muid
	row[46] = "H"            // loc
	row[47] = "Purdue"       // team
	row[48] = "Braden Smith" // player
	row[50] = "Jr"           // class
	row[51] = 41413.0        // pid
	row[52] = 2025.0         // year
	for i, v := range overrides {
		row[i] = v
	}
	return row
}

func marshalRows(t *testing.T, rows ...[]any) []byte {
	t.Helper()
	raw, err := json.Marshal(rows)
	require.NoError(t, err)
	return raw
}

func TestParseGameLogBasicRow(t *testing.T) {
	raw := marshalRows(t, gameRow(map[int]any{33: 22.0, 9: 118.4}))

	lines, err := ParseGameLog(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, lines, 1)

	g := lines[0]
	assert.Equal(t, 41413, g.PlayerID)
	assert.Equal(t, "Braden Smith", g.PlayerName)
	assert.Equal(t, "Purdue", g.Team)
	assert.Equal(t, 2025, g.Year)
	assert.Equal(t, "Kansas", g.Opponent)
	assert.Equal(t, time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC), g.GameDate)
	require.True(t, g.Pts.Valid)
	assert.InDelta(t, 22.0, g.Pts.Float64, 1e-9)
	require.True(t, g.ORtg.Valid)
	assert.InDelta(t, 118.4, g.ORtg.Float64, 1e-9)
}

func TestParseGameLogMissingValuesStayNull(t *testing.T) {
	raw := marshalRows(t, gameRow(map[int]any{9: "", 10: nil, 33: "14.5"}))

	lines, err := ParseGameLog(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, lines, 1)

	g := lines[0]
	assert.False(t, g.ORtg.Valid, "empty string is missing, not zero")
	assert.False(t, g.Usage.Valid, "null is missing")
	require.True(t, g.Pts.Valid, "numeric strings parse")
	assert.InDelta(t, 14.5, g.Pts.Float64, 1e-9)
}

func TestParseGameLogSkipsMalformedRows(t *testing.T) {
	good := gameRow(nil)
	short := []any{"20250104", "Sat Jan 4"}
	noTeam := gameRow(map[int]any{47: ""})

	raw := marshalRows(t, good, short, noTeam)
	lines, err := ParseGameLog(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestParseGameDateFormats(t *testing.T) {
	compact, err := parseGameDate("20241130")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 11, 30, 0, 0, 0, 0, time.UTC), compact)

	slashes, err := parseGameDate("1/4/25")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC), slashes)

	_, err = parseGameDate("yesterday")
	assert.Error(t, err)
}

// seasonRow builds a 64-column CSV row with defaults.
func seasonRow(overrides map[int]string) string {
	cols := make([]string, seasonCSVColumns)
	for i := range cols {
		cols[i] = "0"
	}
	cols[colPlayerName] = "Braden Smith"
	cols[colTeam] = "Purdue"
	cols[colConf] = "B10"
	cols[colGP] = "34"
	cols[colYr] = "Jr"
	cols[colHt] = "6-0"
	cols[colPorpag] = "4.8"
	cols[colAdjoe] = "121.3"
	cols[colYear] = "2025"
	cols[colPid] = "41413"
	cols[colPlayerType] = "Scoring PG"
	cols[colDrtg] = "94.2"
	for i, v := range overrides {
		cols[i] = v
	}
	return strings.Join(cols, ",")
}

func TestParseSeasonCSV(t *testing.T) {
	csvData := seasonRow(nil) + "\n" + seasonRow(map[int]string{colPid: "999", colPlayerName: "Other Guy"})

	lines, err := ParseSeasonCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, lines, 2)

	s := lines[0]
	assert.Equal(t, 41413, s.PlayerID)
	assert.Equal(t, "Braden Smith", s.PlayerName)
	assert.Equal(t, "Purdue", s.Team)
	assert.Equal(t, 2025, s.Year)
	assert.Equal(t, "B10", s.Conf.String)
	assert.Equal(t, "Scoring PG", s.Role.String)
	require.True(t, s.Porpag.Valid)
	assert.InDelta(t, 4.8, s.Porpag.Float64, 1e-9)
	require.True(t, s.Drtg.Valid)
	assert.InDelta(t, 94.2, s.Drtg.Float64, 1e-9)
	require.True(t, s.GP.Valid)
	assert.Equal(t, int32(34), s.GP.Int32)
}

func TestParseSeasonCSVSkipsBadRows(t *testing.T) {
	csvData := seasonRow(nil) + "\n" + seasonRow(map[int]string{colPid: "not-a-pid"})

	lines, err := ParseSeasonCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestParseTeamResultsObjects(t *testing.T) {
	feed := `[{"rank": 1, "team": "Auburn", "conf": "SEC", "record": "32-6",
		"conf_record": "15-3", "adjoe": 128.1, "adjoe_rank": 1, "adjde": 94.3, "adjde_rank": 10,
		"barthag": 0.97, "barthag_rank": 1, "proj_wins": 30, "proj_losses": 4,
		"sos": 10.1, "wab": 12.5, "wab_rank": 1, "adj_tempo": 67.5}]`

	results, err := ParseTeamResults(strings.NewReader(feed), 2025)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, 2025, r.Year)
	assert.Equal(t, 1, r.Rank)
	assert.Equal(t, "Auburn", r.Team)
	assert.Equal(t, "SEC", r.Conf)
	assert.InDelta(t, 128.1, r.AdjOE, 1e-9)
	assert.InDelta(t, 12.5, r.WAB, 1e-9)
}

func TestParseTeamResultsPositional(t *testing.T) {
	row := make([]any, 45)
	for i := range row {
		row[i] = 0.0
	}
	row[0] = 3.0
	row[1] = "Houston"
	row[2] = "B12"
	row[3] = "30-5"
	row[4] = 120.6
	row[8] = 0.95
	row[14] = "17-1"
	row[41] = 9.8
	row[44] = 61.2

	raw, err := json.Marshal([]any{row})
	require.NoError(t, err)

	results, err := ParseTeamResults(bytes.NewReader(raw), 2025)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, 3, r.Rank)
	assert.Equal(t, "Houston", r.Team)
	assert.Equal(t, "17-1", r.ConfRecord)
	assert.InDelta(t, 120.6, r.AdjOE, 1e-9)
	assert.InDelta(t, 9.8, r.WAB, 1e-9)
	assert.InDelta(t, 61.2, r.AdjTempo, 1e-9)
}

func TestParseTeamDirectory(t *testing.T) {
	page := `<html><body><table>
		<tr><td><a href="team.php?team=Duke&year=2025">Duke</a></td></tr>
		<tr><td><a href="team.php?team=Michigan+St.&year=2025">Michigan St.</a></td></tr>
		<tr><td><a href="team.php?team=Duke&year=2025">Duke again</a></td></tr>
		<tr><td><a href="other.php?x=1">not a team</a></td></tr>
	</table></body></html>`

	names, err := ParseTeamDirectory(strings.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, []string{"Duke", "Michigan St."}, names)
}

func TestParseTeamDirectoryEmpty(t *testing.T) {
	_, err := ParseTeamDirectory(strings.NewReader("<html><body></body></html>"))
	assert.Error(t, err)
}

func TestClientFetchGameLogDecompresses(t *testing.T) {
	raw := marshalRows(t, gameRow(nil))
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write(raw)
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2025_all_advgames.json.gz", r.URL.Path)
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	client := New(srv.URL)
	body, err := client.FetchGameLog(context.Background(), 2025)
	require.NoError(t, err)
	defer body.Close()

	lines, err := ParseGameLog(body)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestCurrentSeasonYearFallBoundary(t *testing.T) {
	// The season is named for the year it ends in; fall belongs to the next one.
	assert.Equal(t, 2025, CurrentSeasonYear(time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2025, CurrentSeasonYear(time.Date(2025, time.July, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2026, CurrentSeasonYear(time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2026, CurrentSeasonYear(time.Date(2025, time.November, 4, 0, 0, 0, 0, time.UTC)))
}
