package bolt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	bolt "github.com/boltdb/bolt"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/bnema/snookertab/internal/domain"
	"github.com/bnema/snookertab/internal/ports"
)

const (
	configName    = "config"
	configType    = "toml"
	ledgerPathKey = "ledger.path"
	configDirName = ".snookertab"
	ledgerFile    = "ledger.db"

	ledgerFileMode = 0o600
	ledgerDirMode  = 0o700
	openTimeout    = time.Second

	bucketName       = "ledger"
	keyMatches       = "matches"
	keySerialCounter = "serialCounter"
	keyActiveMatches = "activeMatches"
	keyCurrency      = "currency"
)

// Store persists ledger snapshots in a BoltDB file. Values under the ledger
// bucket follow the fixed string-keyed layout: a JSON match array, a JSON
// active-match object, a stringified serial counter and a bare currency
// code. Loading is failure-tolerant: a missing or corrupt value is logged
// and replaced by its zero value, never surfaced to the engine mid-command.
type Store struct {
	path  string
	clock ports.Clock
	log   zerolog.Logger
}

var _ ports.LedgerRepository = (*Store)(nil)

func NewStore(cfg *viper.Viper, clock ports.Clock, log zerolog.Logger) (*Store, error) {
	if cfg == nil {
		cfg = viper.New()
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, configDirName, ledgerFile)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, configDirName))
	cfg.SetDefault(ledgerPathKey, defaultPath)

	err = cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	path := cfg.GetString(ledgerPathKey)
	if path == "" {
		return nil, errors.New("ledger path is empty")
	}
	path, err = filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve ledger path: %w", err)
	}

	return &Store{path: filepath.Clean(path), clock: clock, log: log}, nil
}

// NewStoreAt bypasses config resolution and stores the ledger at path.
func NewStoreAt(path string, clock ports.Clock, log zerolog.Logger) *Store {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &Store{path: path, clock: clock, log: log}
}

func (s *Store) Load(ctx context.Context) (domain.Ledger, error) {
	if err := ctx.Err(); err != nil {
		return domain.Ledger{}, err
	}

	db, err := s.open()
	if err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("open ledger store failed; starting from empty state")
		ledger := domain.Ledger{}
		ledger.ApplyDefaults()
		return ledger, nil
	}
	defer func() { _ = db.Close() }()

	var (
		rawMatches []byte
		rawSerial  []byte
		rawActive  []byte
		rawCurr    []byte
	)
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return nil
		}
		rawMatches = cloneBytes(b.Get([]byte(keyMatches)))
		rawSerial = cloneBytes(b.Get([]byte(keySerialCounter)))
		rawActive = cloneBytes(b.Get([]byte(keyActiveMatches)))
		rawCurr = cloneBytes(b.Get([]byte(keyCurrency)))
		return nil
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("read ledger bucket failed; starting from empty state")
	}

	today := s.clock.Now()
	ledger := domain.Ledger{Currency: domain.Code(rawCurr)}

	matches, matchesMigrated := s.decodeMatches(rawMatches, today)
	ledger.Matches = matches

	active, activeMigrated := s.decodeActiveMatches(rawActive, today)
	ledger.Active = active

	ledger.SerialCounter = s.decodeSerialCounter(rawSerial)

	ledger.ApplyDefaults()
	ledger.SortHistory()

	// Write back the migrated absolute timestamps so the legacy path only
	// ever runs once per value.
	if matchesMigrated || activeMigrated {
		if err := s.Save(ctx, ledger); err != nil {
			s.log.Warn().Err(err).Msg("write back migrated ledger failed")
		}
	}

	return ledger, nil
}

func (s *Store) Save(ctx context.Context, ledger domain.Ledger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries := make([]matchSchema, 0, len(ledger.Matches))
	for _, match := range ledger.Matches {
		entries = append(entries, encodeMatch(match))
	}
	matchesJSON, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode matches: %w", err)
	}

	activeEntries := make(map[string]activeMatchSchema, len(ledger.Active))
	for table, active := range ledger.Active {
		activeEntries[string(table)] = encodeActive(active)
	}
	activeJSON, err := json.Marshal(activeEntries)
	if err != nil {
		return fmt.Errorf("encode active matches: %w", err)
	}

	db, err := s.open()
	if err != nil {
		return fmt.Errorf("open ledger store: %w", err)
	}
	defer func() { _ = db.Close() }()

	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		if err != nil {
			return err
		}
		if err := b.Put([]byte(keyMatches), matchesJSON); err != nil {
			return err
		}
		if err := b.Put([]byte(keySerialCounter), []byte(strconv.FormatUint(ledger.SerialCounter, 10))); err != nil {
			return err
		}
		if err := b.Put([]byte(keyActiveMatches), activeJSON); err != nil {
			return err
		}
		return b.Put([]byte(keyCurrency), []byte(ledger.Currency))
	})
	if err != nil {
		return fmt.Errorf("write ledger bucket: %w", err)
	}

	return nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) open() (*bolt.DB, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), ledgerDirMode); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}
	return bolt.Open(s.path, ledgerFileMode, &bolt.Options{Timeout: openTimeout})
}

func (s *Store) decodeMatches(raw []byte, today time.Time) ([]domain.Match, bool) {
	if len(raw) == 0 {
		return nil, false
	}

	var entries []matchSchema
	if err := json.Unmarshal(raw, &entries); err != nil {
		s.log.Warn().Err(err).Msg("corrupt match history; starting from empty history")
		return nil, false
	}

	migrated := false
	matches := make([]domain.Match, 0, len(entries))
	for _, entry := range entries {
		match, entryMigrated, err := decodeMatch(entry, today)
		if err != nil {
			s.log.Warn().Err(err).Uint64("serial", entry.Serial).Msg("dropping undecodable match")
			continue
		}
		migrated = migrated || entryMigrated
		matches = append(matches, match)
	}

	return matches, migrated
}

func (s *Store) decodeActiveMatches(raw []byte, today time.Time) (map[domain.TableID]domain.ActiveMatch, bool) {
	if len(raw) == 0 {
		return nil, false
	}

	var entries map[string]activeMatchSchema
	if err := json.Unmarshal(raw, &entries); err != nil {
		s.log.Warn().Err(err).Msg("corrupt active matches; all tables reset to idle")
		return nil, false
	}

	migrated := false
	active := make(map[domain.TableID]domain.ActiveMatch, len(entries))
	for table, entry := range entries {
		decoded, entryMigrated, err := decodeActive(table, entry, today)
		if err != nil {
			s.log.Warn().Err(err).Str("table", table).Msg("dropping undecodable active match")
			continue
		}
		migrated = migrated || entryMigrated
		active[decoded.Table] = decoded
	}

	return active, migrated
}

func (s *Store) decodeSerialCounter(raw []byte) uint64 {
	if len(raw) == 0 {
		return 0
	}

	counter, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		s.log.Warn().Err(err).Msg("corrupt serial counter; recomputing from history")
		return 0
	}
	return counter
}

func cloneBytes(src []byte) []byte {
	if src == nil {
		return nil
	}
	out := make([]byte, len(src))
	copy(out, src)
	return out
}
