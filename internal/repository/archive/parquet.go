package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/alfredoleano/Connect4AI/internal/domain"
)

const schemaVersion = "connect4_move_v1"

// MoveRecord is one applied move. Score is the position value for the mover
// right after the move.
type MoveRecord struct {
	GameID string `parquet:"game_id,dict" json:"game_id"`
	Move   int32  `parquet:"move" json:"move"`
	Player int32  `parquet:"player" json:"player"`
	Column int32  `parquet:"column" json:"column"`
	Row    int32  `parquet:"row" json:"row"`
	Agent  string `parquet:"agent,dict" json:"agent"`
	Score  int64  `parquet:"score" json:"score"`
}

// Scorer values a board for a player.
type Scorer func(board domain.Board, player domain.PlayerID) int

// FromMoves replays moves on an empty rows x cols board and emits one record
// per move. agents holds the names of the Player1 and Player2 agents.
func FromMoves(gameID string, moves []domain.Move, agents [2]string, rows, cols int, score Scorer) ([]MoveRecord, error) {
	board := domain.NewBoard(rows, cols)
	records := make([]MoveRecord, 0, len(moves))
	for i, m := range moves {
		if !m.Player.Valid() {
			return nil, fmt.Errorf("move %d: bad player %d", i, m.Player)
		}
		row, err := board.DropDisk(m.Column, m.Player)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i, err)
		}
		rec := MoveRecord{
			GameID: gameID,
			Move:   int32(i),
			Player: int32(m.Player),
			Column: int32(m.Column),
			Row:    int32(row),
			Agent:  agents[m.Player-1],
		}
		if score != nil {
			rec.Score = int64(score(board, m.Player))
		}
		records = append(records, rec)
	}
	return records, nil
}

// WriteMoves writes records to a new zstd parquet file under outDir and
// returns its path. The file appears atomically via rename.
func WriteMoves(outDir, prefix string, records []MoveRecord) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	name := fmt.Sprintf("%s_%d.parquet", prefix, time.Now().UnixNano())
	finalPath := filepath.Join(outDir, name)
	tmpPath := finalPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, records,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", schemaVersion),
	); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("rename parquet: %w", err)
	}
	return finalPath, nil
}

// ReadMoves loads every record of one archive file.
func ReadMoves(path string) ([]MoveRecord, error) {
	records, err := parquet.ReadFile[MoveRecord](path)
	if err != nil {
		return nil, fmt.Errorf("read parquet: %w", err)
	}
	return records, nil
}

// AgentSummary aggregates the archived moves of one agent.
type AgentSummary struct {
	Agent     string
	Games     int
	Moves     int
	MeanScore float64
}

// Summarize groups records by agent, sorted by agent name.
func Summarize(records []MoveRecord) []AgentSummary {
	type acc struct {
		games map[string]struct{}
		moves int
		total int64
	}
	byAgent := make(map[string]*acc)
	for _, r := range records {
		a, ok := byAgent[r.Agent]
		if !ok {
			a = &acc{games: make(map[string]struct{})}
			byAgent[r.Agent] = a
		}
		a.games[r.GameID] = struct{}{}
		a.moves++
		a.total += r.Score
	}

	out := make([]AgentSummary, 0, len(byAgent))
	for name, a := range byAgent {
		out = append(out, AgentSummary{
			Agent:     name,
			Games:     len(a.games),
			Moves:     a.moves,
			MeanScore: float64(a.total) / float64(a.moves),
		})
	}
	slices.SortFunc(out, func(x, y AgentSummary) int { return strings.Compare(x.Agent, y.Agent) })
	return out
}
