package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/chesscore/internal/board"
)

// Storage keys
const (
	keyGameSeq    = "seq/game"
	prefixGame    = "game/"
	prefixMoveLog = "move/"
)

// ErrGameNotFound is returned for an unknown game id.
var ErrGameNotFound = errors.New("game not found")

// ErrEmptyLog is returned by Pop when a game has no moves.
var ErrEmptyLog = errors.New("move log is empty")

// Options configure the store.
type Options struct {
	Dir      string // empty: DatabaseDir()
	InMemory bool
	Logger   *log.Logger // receives badger warnings and errors
}

// Game is the header of one logged game.
type Game struct {
	ID       uint64    `json:"id"`
	StartFEN string    `json:"start_fen"`
	Started  time.Time `json:"started"`
	Moves    int       `json:"moves"`
}

// Entry is one logged turn.
type Entry struct {
	Ply        int       `json:"ply"`
	Move       string    `json:"move"`
	SAN        string    `json:"san,omitempty"`
	Piece      string    `json:"piece"`
	Color      string    `json:"color"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Captured   string    `json:"captured,omitempty"`
	WhiteScore int       `json:"white_score"`
	BlackScore int       `json:"black_score"`
	Attacked   []string  `json:"attacked,omitempty"` // opponent pieces the mover now attacks
	WhiteSafe  bool      `json:"white_safe"`
	BlackSafe  bool      `json:"black_safe"`
	FEN        string    `json:"fen"`
	Time       time.Time `json:"time"`
}

// NewEntry describes rec, the move just made on pos. score reports a side's
// evaluation of the resulting position.
func NewEntry(pos *board.Position, rec board.MoveRecord, san string, score func(board.Color) int) Entry {
	e := Entry{
		Move:      rec.Move.String(),
		SAN:       san,
		Piece:     rec.Piece.String(),
		Color:     rec.Color.String(),
		From:      rec.From.String(),
		To:        rec.To.String(),
		WhiteSafe: !pos.IsCheck(board.White),
		BlackSafe: !pos.IsCheck(board.Black),
		FEN:       pos.FEN(),
		Time:      time.Now(),
	}
	if rec.Captured != board.NoPieceType {
		e.Captured = rec.Captured.String()
	}
	if score != nil {
		e.WhiteScore = score(board.White)
		e.BlackScore = score(board.Black)
	}

	them := rec.Color.Other()
	pos.Occupancy(them).ForEach(func(sq board.Square) {
		if pos.IsAttacked(sq, rec.Color) {
			pc, _ := pos.PieceAt(sq)
			e.Attacked = append(e.Attacked, pc.Type().String()+" "+sq.String())
		}
	})
	return e
}

// Store wraps BadgerDB for the move log.
type Store struct {
	db  *badger.DB
	seq *badger.Sequence
}

// Open opens the move log database.
func Open(o Options) (*Store, error) {
	var opts badger.Options
	if o.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		dir := o.Dir
		if dir == "" {
			var err error
			if dir, err = DatabaseDir(); err != nil {
				return nil, err
			}
		}
		opts = badger.DefaultOptions(dir)
	}
	opts.Logger = nil // Disable logging
	if o.Logger != nil {
		opts.Logger = badgerLogger{o.Logger}
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open move log: %w", err)
	}
	seq, err := db.GetSequence([]byte(keyGameSeq), 16)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open move log: %w", err)
	}
	return &Store{db: db, seq: seq}, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.seq.Release()
	if cerr := s.db.Close(); err == nil {
		err = cerr
	}
	s.db = nil
	return err
}

// NewGame starts a game log and returns its id.
func (s *Store) NewGame(startFEN string) (uint64, error) {
	n, err := s.seq.Next()
	if err != nil {
		return 0, err
	}
	g := Game{ID: n + 1, StartFEN: startFEN, Started: time.Now()}
	err = s.db.Update(func(txn *badger.Txn) error {
		return putJSON(txn, gameKey(g.ID), &g)
	})
	return g.ID, err
}

// Game returns the header of a game.
func (s *Store) Game(id uint64) (Game, error) {
	var g Game
	err := s.db.View(func(txn *badger.Txn) error {
		return getGame(txn, id, &g)
	})
	return g, err
}

// Append logs the next turn of a game and returns the entry's ply.
func (s *Store) Append(id uint64, e Entry) (int, error) {
	err := s.db.Update(func(txn *badger.Txn) error {
		var g Game
		if err := getGame(txn, id, &g); err != nil {
			return err
		}
		g.Moves++
		e.Ply = g.Moves
		if err := putJSON(txn, moveKey(id, e.Ply), &e); err != nil {
			return err
		}
		return putJSON(txn, gameKey(id), &g)
	})
	return e.Ply, err
}

// Pop removes and returns the last turn of a game.
func (s *Store) Pop(id uint64) (Entry, error) {
	var e Entry
	err := s.db.Update(func(txn *badger.Txn) error {
		var g Game
		if err := getGame(txn, id, &g); err != nil {
			return err
		}
		if g.Moves == 0 {
			return ErrEmptyLog
		}
		key := moveKey(id, g.Moves)
		if err := getJSON(txn, key, &e); err != nil {
			return err
		}
		if err := txn.Delete(key); err != nil {
			return err
		}
		g.Moves--
		return putJSON(txn, gameKey(id), &g)
	})
	return e, err
}

// Entries returns every logged turn of a game in ply order.
func (s *Store) Entries(id uint64) ([]Entry, error) {
	var entries []Entry
	err := s.db.View(func(txn *badger.Txn) error {
		var g Game
		if err := getGame(txn, id, &g); err != nil {
			return err
		}
		prefix := movePrefix(id)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var e Entry
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			}); err != nil {
				return err
			}
			entries = append(entries, e)
		}
		return nil
	})
	return entries, err
}

// Games returns every game header in id order.
func (s *Store) Games() ([]Game, error) {
	var games []Game
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(prefixGame)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var g Game
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &g)
			}); err != nil {
				return err
			}
			games = append(games, g)
		}
		return nil
	})
	return games, err
}

func gameKey(id uint64) []byte {
	return binary.BigEndian.AppendUint64([]byte(prefixGame), id)
}

func movePrefix(id uint64) []byte {
	key := binary.BigEndian.AppendUint64([]byte(prefixMoveLog), id)
	return append(key, '/')
}

func moveKey(id uint64, ply int) []byte {
	return binary.BigEndian.AppendUint32(movePrefix(id), uint32(ply))
}

func getGame(txn *badger.Txn, id uint64, g *Game) error {
	err := getJSON(txn, gameKey(id), g)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("game %d: %w", id, ErrGameNotFound)
	}
	return err
}

func getJSON(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func putJSON(txn *badger.Txn, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

// badgerLogger forwards badger's warnings and errors to a standard logger.
type badgerLogger struct {
	*log.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.Printf("badger error: "+format, args...)
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.Printf("badger warning: "+format, args...)
}

func (badgerLogger) Infof(string, ...any)  {}
func (badgerLogger) Debugf(string, ...any) {}
