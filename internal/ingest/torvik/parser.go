package torvik

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strconv"
	"time"

	"github.com/fortuna/athena/internal/store"
)

// ParseGameLog decodes the game-by-game feed: a JSON array of positional
// rows, 53 columns each. Rows that fail to decode are skipped with a logged
// count rather than failing the whole feed; the upstream occasionally ships
// a handful of malformed lines.
func ParseGameLog(r io.Reader) ([]store.GameLine, error) {
	var rows [][]json.RawMessage
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decoding game feed: %w", err)
	}

	lines := make([]store.GameLine, 0, len(rows))
	badRows := 0
	for i, row := range rows {
		line, err := parseGameRow(row)
		if err != nil {
			badRows++
			if badRows <= 5 {
				log.Printf("[torvik-parser] ⚠️ skipping game row %d: %v", i, err)
			}
			continue
		}
		lines = append(lines, line)
	}
	if badRows > 5 {
		log.Printf("[torvik-parser] ⚠️ skipped %d malformed game rows total", badRows)
	}
	return lines, nil
}

// Column order of a game row. Indexes 8-45 are the stat block; 46-52 carry
// location, team, player name, height, class, pid and year.
func parseGameRow(row []json.RawMessage) (store.GameLine, error) {
	if len(row) < 53 {
		return store.GameLine{}, fmt.Errorf("row has %d columns, want 53", len(row))
	}

	pid, err := reqInt(row[51])
	if err != nil {
		return store.GameLine{}, fmt.Errorf("pid: %w", err)
	}
	year, err := reqInt(row[52])
	if err != nil {
		return store.GameLine{}, fmt.Errorf("year: %w", err)
	}
	gameDate, err := parseGameDate(jsonString(row[0]))
	if err != nil {
		return store.GameLine{}, fmt.Errorf("game date: %w", err)
	}
	team := jsonString(row[47])
	if team == "" {
		return store.GameLine{}, fmt.Errorf("empty team name")
	}

	return store.GameLine{
		PlayerID:   pid,
		PlayerName: jsonString(row[48]),
		Team:       team,
		Year:       year,
		GameDate:   gameDate,
		Opponent:   jsonString(row[5]),
		Location:   store.NullString(jsonString(row[46])),
		Class:      store.NullString(jsonString(row[50])),
		MatchupID:  store.NullString(jsonString(row[6])),

		OpStyle:     optFloat(row[2]),
		Quality:     optFloat(row[3]),
		Win1:        optFloat(row[4]),
		Win2:        optFloat(row[7]),
		MinPct:      optFloat(row[8]),
		ORtg:        optFloat(row[9]),
		Usage:       optFloat(row[10]),
		EFGPct:      optFloat(row[11]),
		TSPct:       optFloat(row[12]),
		ORBPct:      optFloat(row[13]),
		DRBPct:      optFloat(row[14]),
		ASTPct:      optFloat(row[15]),
		TOPct:       optFloat(row[16]),
		DunksMade:   optFloat(row[17]),
		DunksAtt:    optFloat(row[18]),
		RimMade:     optFloat(row[19]),
		RimAtt:      optFloat(row[20]),
		MidMade:     optFloat(row[21]),
		MidAtt:      optFloat(row[22]),
		TwoPM:       optFloat(row[23]),
		TwoPA:       optFloat(row[24]),
		TPM:         optFloat(row[25]),
		TPA:         optFloat(row[26]),
		FTM:         optFloat(row[27]),
		FTA:         optFloat(row[28]),
		BPMRd:       optFloat(row[29]),
		OBPM:        optFloat(row[30]),
		DBPM:        optFloat(row[31]),
		BPMNet:      optFloat(row[32]),
		Pts:         optFloat(row[33]),
		ORB:         optFloat(row[34]),
		DRB:         optFloat(row[35]),
		AST:         optFloat(row[36]),
		TOV:         optFloat(row[37]),
		STL:         optFloat(row[38]),
		BLK:         optFloat(row[39]),
		STLPct:      optFloat(row[40]),
		BLKPct:      optFloat(row[41]),
		PF:          optFloat(row[42]),
		Possessions: optFloat(row[43]),
		BPM:         optFloat(row[44]),
		SBPM:        optFloat(row[45]),
		Inches:      optFloat(row[49]),
	}, nil
}

// seasonCSVColumns is the fixed column count of the headerless season CSV.
const seasonCSVColumns = 64

// Season CSV column indexes for the fields we persist.
const (
	colPlayerName = 0
	colTeam       = 1
	colConf       = 2
	colGP         = 3
	colYr         = 25
	colHt         = 26
	colNum        = 27
	colPorpag     = 28
	colAdjoe      = 29
	colYear       = 31
	colPid        = 32
	colPlayerType = 33
	colRecRank    = 34
	colPick       = 45
	colDrtg       = 46
	colAdrtg      = 47
	colDporpag    = 48
	colStops      = 49
	colMinutes    = 54
)

// ParseSeasonCSV decodes the headerless 64-column advanced-stats CSV into
// season lines. Bad rows are skipped with a logged count.
func ParseSeasonCSV(r io.Reader) ([]store.SeasonLine, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // validate per row, trailing columns vary
	reader.TrimLeadingSpace = true

	var lines []store.SeasonLine
	badRows := 0
	rowNum := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading season CSV row %d: %w", rowNum, err)
		}
		rowNum++

		line, err := parseSeasonRow(record)
		if err != nil {
			badRows++
			if badRows <= 5 {
				log.Printf("[torvik-parser] ⚠️ skipping season row %d: %v", rowNum, err)
			}
			continue
		}
		lines = append(lines, line)
	}
	if badRows > 5 {
		log.Printf("[torvik-parser] ⚠️ skipped %d malformed season rows total", badRows)
	}
	return lines, nil
}

func parseSeasonRow(record []string) (store.SeasonLine, error) {
	if len(record) < seasonCSVColumns {
		return store.SeasonLine{}, fmt.Errorf("row has %d columns, want at least %d", len(record), seasonCSVColumns)
	}

	pid, err := strconv.Atoi(record[colPid])
	if err != nil {
		return store.SeasonLine{}, fmt.Errorf("pid %q: %w", record[colPid], err)
	}
	year, err := strconv.Atoi(record[colYear])
	if err != nil {
		return store.SeasonLine{}, fmt.Errorf("year %q: %w", record[colYear], err)
	}

	return store.SeasonLine{
		PlayerID:   pid,
		PlayerName: record[colPlayerName],
		Team:       record[colTeam],
		Year:       year,
		Conf:       store.NullString(record[colConf]),
		Role:       store.NullString(record[colPlayerType]),
		Class:      store.NullString(record[colYr]),
		Height:     store.NullString(record[colHt]),
		Number:     store.NullString(record[colNum]),
		GP:         csvInt(record[colGP]),
		Porpag:     csvFloat(record[colPorpag]),
		Dporpag:    csvFloat(record[colDporpag]),
		Drtg:       csvFloat(record[colDrtg]),
		Adrtg:      csvFloat(record[colAdrtg]),
		Adjoe:      csvFloat(record[colAdjoe]),
		Stops:      csvFloat(record[colStops]),
		Minutes:    csvFloat(record[colMinutes]),
		RecRank:    csvFloat(record[colRecRank]),
		DraftPick:  csvFloat(record[colPick]),
	}, nil
}

// parseGameDate understands both date encodings the feed has shipped:
// compact YYYYMMDD and M/D/YY.
func parseGameDate(s string) (time.Time, error) {
	if t, err := time.Parse("20060102", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("1/2/06", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// optFloat reads a feed cell that may be a number, a numeric string, an
// empty string, or null. Empty and null mean missing, never zero.
func optFloat(raw json.RawMessage) sql.NullFloat64 {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return sql.NullFloat64{}
	}
	switch x := v.(type) {
	case float64:
		return sql.NullFloat64{Float64: x, Valid: true}
	case string:
		if x == "" {
			return sql.NullFloat64{}
		}
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return sql.NullFloat64{}
		}
		return sql.NullFloat64{Float64: f, Valid: true}
	default:
		return sql.NullFloat64{}
	}
}

// reqInt reads a required integer cell, tolerating numeric strings and
// floats that carry whole values.
func reqInt(raw json.RawMessage) (int, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, err
	}
	switch x := v.(type) {
	case float64:
		return int(x), nil
	case string:
		if x == "" {
			return 0, fmt.Errorf("empty value")
		}
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, err
		}
		return int(f), nil
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

func jsonString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func csvFloat(s string) sql.NullFloat64 {
	if s == "" || s == "NA" {
		return sql.NullFloat64{}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func csvInt(s string) sql.NullInt32 {
	if s == "" {
		return sql.NullInt32{}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(n), Valid: true}
}
