// Package sqlite provides the persistent document store. Parsed
// resumes and retrieval chunks live in one database file; chunk
// embeddings are stored as little-endian float32 blobs.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/talentstack/docpipe/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/talentstack/docpipe/internal/core/domain"
	"github.com/talentstack/docpipe/internal/core/ports/driven"
)

// Ensure Store implements both the store and the vector search ports.
var (
	_ driven.DocumentStore  = (*Store)(nil)
	_ driven.VectorSearcher = (*Store)(nil)
)

// Store is the SQLite-backed document store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite store in the given data directory. An empty
// dataDir defaults to ~/.docpipe/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docpipe", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "docpipe.db")

	// WAL mode for better concurrency during batch runs.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// SaveResume stores or updates a parsed resume.
func (s *Store) SaveResume(ctx context.Context, resume *domain.ParsedResume) error {
	if resume == nil || resume.ID == "" {
		return fmt.Errorf("%w: resume must have an ID", domain.ErrInvalidInput)
	}

	contactJSON, err := json.Marshal(resume.Contact)
	if err != nil {
		return fmt.Errorf("marshalling contact: %w", err)
	}
	skillsJSON, err := json.Marshal(resume.Skills)
	if err != nil {
		return fmt.Errorf("marshalling skills: %w", err)
	}
	experienceJSON, err := json.Marshal(resume.Experience)
	if err != nil {
		return fmt.Errorf("marshalling experience: %w", err)
	}
	educationJSON, err := json.Marshal(resume.Education)
	if err != nil {
		return fmt.Errorf("marshalling education: %w", err)
	}
	certificationsJSON, err := json.Marshal(resume.Certifications)
	if err != nil {
		return fmt.Errorf("marshalling certifications: %w", err)
	}

	parsedAt := resume.Metadata.ParsedAt
	if parsedAt.IsZero() {
		parsedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO resumes
			(id, contact, summary, skills, experience, education, certifications, source_file, confidence, parsed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			contact = excluded.contact,
			summary = excluded.summary,
			skills = excluded.skills,
			experience = excluded.experience,
			education = excluded.education,
			certifications = excluded.certifications,
			source_file = excluded.source_file,
			confidence = excluded.confidence,
			parsed_at = excluded.parsed_at
	`, resume.ID, string(contactJSON), resume.Summary, string(skillsJSON),
		string(experienceJSON), string(educationJSON), string(certificationsJSON),
		resume.Metadata.SourceFile, resume.Metadata.Confidence, parsedAt)

	if err != nil {
		return fmt.Errorf("saving resume: %w", err)
	}
	return nil
}

// GetResume retrieves a parsed resume by ID.
func (s *Store) GetResume(ctx context.Context, id string) (*domain.ParsedResume, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, contact, summary, skills, experience, education, certifications,
			source_file, confidence, parsed_at
		FROM resumes WHERE id = ?
	`, id)

	var resume domain.ParsedResume
	var contactJSON, skillsJSON, experienceJSON, educationJSON, certificationsJSON string
	var parsedAt sql.NullTime
	if err := row.Scan(&resume.ID, &contactJSON, &resume.Summary, &skillsJSON,
		&experienceJSON, &educationJSON, &certificationsJSON,
		&resume.Metadata.SourceFile, &resume.Metadata.Confidence, &parsedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: resume %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("scanning resume: %w", err)
	}

	if err := json.Unmarshal([]byte(contactJSON), &resume.Contact); err != nil {
		return nil, fmt.Errorf("unmarshalling contact: %w", err)
	}
	if err := json.Unmarshal([]byte(skillsJSON), &resume.Skills); err != nil {
		return nil, fmt.Errorf("unmarshalling skills: %w", err)
	}
	if err := json.Unmarshal([]byte(experienceJSON), &resume.Experience); err != nil {
		return nil, fmt.Errorf("unmarshalling experience: %w", err)
	}
	if err := json.Unmarshal([]byte(educationJSON), &resume.Education); err != nil {
		return nil, fmt.Errorf("unmarshalling education: %w", err)
	}
	if err := json.Unmarshal([]byte(certificationsJSON), &resume.Certifications); err != nil {
		return nil, fmt.Errorf("unmarshalling certifications: %w", err)
	}
	if parsedAt.Valid {
		resume.Metadata.ParsedAt = parsedAt.Time
	}

	return &resume, nil
}

// SaveChunks stores chunks in one transaction.
func (s *Store) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, content, position, embedding, metadata)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_id = excluded.document_id,
			content = excluded.content,
			position = excluded.position,
			embedding = excluded.embedding,
			metadata = excluded.metadata
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		metadataJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling chunk metadata: %w", err)
		}

		embeddingBlob := float32SliceToBytes(chunk.Embedding)

		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.DocumentID, chunk.Content,
			chunk.Metadata.Index, embeddingBlob, string(metadataJSON)); err != nil {
			return fmt.Errorf("saving chunk %s: %w", chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetChunks retrieves all chunks of a document in position order.
func (s *Store) GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, content, embedding, metadata
		FROM chunks WHERE document_id = ?
		ORDER BY position
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	return scanChunks(rows)
}

// AllChunks returns every stored chunk in insertion order.
func (s *Store) AllChunks(ctx context.Context) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, content, embedding, metadata
		FROM chunks
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	return scanChunks(rows)
}

// DeleteResume removes a resume and its chunks.
func (s *Store) DeleteResume(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", id); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM resumes WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting resume: %w", err)
	}
	return nil
}

// SearchVector scans embedded chunks and returns those whose cosine
// similarity to the query meets the threshold, best first, capped at
// limit. The scan is brute force; chunk counts here stay far below
// where an index would pay off.
func (s *Store) SearchVector(
	ctx context.Context, query []float32, limit int, threshold float64,
) ([]domain.SearchResult, error) {
	if len(query) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", domain.ErrInvalidInput)
	}

	chunks, err := s.AllChunks(ctx)
	if err != nil {
		return nil, err
	}

	var results []domain.SearchResult
	for _, c := range chunks {
		if len(c.Embedding) == 0 {
			continue
		}
		sim := domain.CosineSimilarity(query, c.Embedding)
		if sim >= threshold {
			results = append(results, domain.SearchResult{Chunk: c, Similarity: sim})
		}
	}

	domain.SortResults(results)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// scanChunks scans chunk rows.
func scanChunks(rows *sql.Rows) ([]domain.Chunk, error) {
	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		var embeddingBlob []byte
		var metadataJSON string

		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Content,
			&embeddingBlob, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}

		chunk.Embedding = bytesToFloat32Slice(embeddingBlob)

		if metadataJSON != "" {
			if err := json.Unmarshal([]byte(metadataJSON), &chunk.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshalling chunk metadata: %w", err)
			}
		}

		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
