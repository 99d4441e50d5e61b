// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package index

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// ErrModelNotFound is returned by a ModelStore that holds no model.
var ErrModelNotFound = errors.New("index: model not found")

// Model is the persisted state of a fitted Vectorizer. Vocabulary[i] is the
// term with id i and weight IDF[i].
type Model struct {
	Vocabulary    []string  `json:"vocabulary"`
	IDF           []float64 `json:"idf"`
	KeepStopWords bool      `json:"keep_stop_words"`
	Documents     int       `json:"documents"`
	Fingerprint   string    `json:"fingerprint"`
	Version       int       `json:"version"`
	FittedAt      time.Time `json:"fitted_at"`
	Checksum      string    `json:"checksum"`
}

// Model snapshots the fitted state. fingerprint identifies the corpus the
// vectorizer was fitted on.
func (v *Vectorizer) Model(fingerprint string) (*Model, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if !v.fitted {
		return nil, ErrNotReady
	}
	m := &Model{
		Vocabulary:    append([]string(nil), v.terms...),
		IDF:           append([]float64(nil), v.idf...),
		KeepStopWords: v.cfg.KeepStopWords,
		Documents:     v.docs,
		Fingerprint:   fingerprint,
		Version:       v.version,
		FittedAt:      v.fittedAt,
	}
	m.Checksum = m.checksum()
	return m, nil
}

// FromModel restores a fitted Vectorizer.
func FromModel(m *Model) (*Vectorizer, error) {
	if m == nil {
		return nil, ErrModelNotFound
	}
	if len(m.Vocabulary) == 0 {
		return nil, ErrEmptyVocabulary
	}
	if len(m.Vocabulary) != len(m.IDF) {
		return nil, fmt.Errorf("index: model has %d terms but %d idf weights", len(m.Vocabulary), len(m.IDF))
	}
	if m.Checksum != "" && m.Checksum != m.checksum() {
		return nil, fmt.Errorf("index: model checksum mismatch")
	}

	vocab := make(map[string]int, len(m.Vocabulary))
	for i, t := range m.Vocabulary {
		if _, dup := vocab[t]; dup {
			return nil, fmt.Errorf("index: duplicate term %q in model", t)
		}
		vocab[t] = i
	}
	return &Vectorizer{
		cfg:      VectorizerConfig{KeepStopWords: m.KeepStopWords},
		vocab:    vocab,
		terms:    append([]string(nil), m.Vocabulary...),
		idf:      append([]float64(nil), m.IDF...),
		fitted:   true,
		version:  m.Version,
		fittedAt: m.FittedAt,
		docs:     m.Documents,
	}, nil
}

func (m *Model) checksum() string {
	h := sha256.New()
	var buf [8]byte
	for i, t := range m.Vocabulary {
		h.Write([]byte(t))
		h.Write([]byte{0})
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(m.IDF[i]))
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint hashes a corpus so a persisted model can be matched to the
// catalog it was fitted on.
func Fingerprint(corpus []string) string {
	h := sha256.New()
	var buf [8]byte
	for _, doc := range corpus {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(doc)))
		h.Write(buf[:])
		h.Write([]byte(doc))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ModelStore persists a single vectorizer model.
type ModelStore interface {
	Load(ctx context.Context) (*Model, error)
	Save(ctx context.Context, m *Model) error
}

// FileModelStore keeps the model as a JSON file. Writes go to a temporary
// file in the same directory and are renamed into place.
type FileModelStore struct {
	path string
	mu   sync.Mutex
}

// NewFileModelStore returns a store backed by path.
func NewFileModelStore(path string) *FileModelStore {
	return &FileModelStore{path: path}
}

// Path returns the backing file.
func (s *FileModelStore) Path() string { return s.path }

// Load reads the model, returning ErrModelNotFound when the file is absent.
func (s *FileModelStore) Load(ctx context.Context) (*Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrModelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}

	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return &m, nil
}

// Save writes m atomically.
func (s *FileModelStore) Save(ctx context.Context, m *Model) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create model directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp model file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write model file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync model file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close model file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("rename model file: %w", err)
	}
	return nil
}

// OpenOptions controls Open.
type OpenOptions struct {
	Vectorizer VectorizerConfig
	// Store may be nil, in which case the vectorizer is always fitted and
	// nothing is persisted.
	Store ModelStore
	// Reuse loads a stored model whose fingerprint matches the corpus
	// instead of refitting.
	Reuse  bool
	Logger zerolog.Logger
}

// Open returns an index over corpus, reusing a stored model when allowed and
// fitting (and saving) a fresh one otherwise. The bool result reports reuse.
func Open(ctx context.Context, corpus []string, opts OpenOptions) (*Index, bool, error) {
	logger := opts.Logger.With().Str("component", "index").Logger()
	fp := Fingerprint(corpus)

	if opts.Store != nil && opts.Reuse {
		vec, err := loadMatching(ctx, opts.Store, fp)
		switch {
		case err == nil:
			ix, err := Build(ctx, vec, corpus)
			if err != nil {
				return nil, false, err
			}
			logger.Info().
				Int("terms", vec.VocabularySize()).
				Int("rows", ix.Len()).
				Msg("Reusing persisted vectorizer")
			return ix, true, nil
		case errors.Is(err, ErrModelNotFound):
			logger.Info().Msg("No persisted vectorizer, fitting")
		default:
			logger.Warn().Err(err).Msg("Persisted vectorizer unusable, refitting")
		}
	}

	start := time.Now()
	vec := NewVectorizer(opts.Vectorizer)
	if err := vec.Fit(corpus); err != nil {
		return nil, false, err
	}
	ix, err := Build(ctx, vec, corpus)
	if err != nil {
		return nil, false, err
	}
	logger.Info().
		Int("terms", vec.VocabularySize()).
		Int("rows", ix.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("Fitted vectorizer")

	if opts.Store != nil {
		m, err := vec.Model(fp)
		if err != nil {
			return nil, false, err
		}
		if err := opts.Store.Save(ctx, m); err != nil {
			// the fitted index is still usable
			logger.Warn().Err(err).Msg("Failed to persist vectorizer")
		}
	}
	return ix, false, nil
}

func loadMatching(ctx context.Context, store ModelStore, fingerprint string) (*Vectorizer, error) {
	m, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if m.Fingerprint != fingerprint {
		return nil, fmt.Errorf("model fitted on a different corpus")
	}
	return FromModel(m)
}
