package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"feature-inspector/internal/domain/entity"
	"feature-inspector/internal/domain/port"
	"feature-inspector/internal/template"
)

var errInvalidRecord = errors.New("inspection record id is empty")

// SQLiteStore хранит шаблоны и журнал инспекций в SQLite.
type SQLiteStore struct {
	DB *sql.DB
}

// NewSQLiteStore открывает (или создаёт) базу по пути и создаёт схему.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Одно соединение: иначе каждое соединение с ":memory:" видит свою базу
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{DB: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS templates (
            id TEXT PRIMARY KEY,
            definition_json TEXT NOT NULL,
            updated_at INTEGER NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS inspection_records (
            id TEXT PRIMARY KEY,
            template_id TEXT NOT NULL,
            strategy TEXT NOT NULL,
            passed BOOLEAN NOT NULL,
            created_at INTEGER NOT NULL,
            result_json TEXT NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_inspection_records_template ON inspection_records(template_id, created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.DB.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close закрывает базу
func (s *SQLiteStore) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

func (s *SQLiteStore) Save(ctx context.Context, def template.Definition) error {
	if def.TemplateID == "" {
		return fmt.Errorf("%w: template id is empty", entity.ErrInvalidTemplate)
	}
	data, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("encode template %s: %w", def.TemplateID, err)
	}
	_, err = s.DB.ExecContext(ctx, `INSERT INTO templates(id, definition_json, updated_at) VALUES(?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET definition_json=excluded.definition_json, updated_at=excluded.updated_at`,
		def.TemplateID, string(data), time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("save template %s: %w", def.TemplateID, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, templateID string) (template.Definition, error) {
	var data string
	err := s.DB.QueryRowContext(ctx, `SELECT definition_json FROM templates WHERE id = ?`, templateID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return template.Definition{}, fmt.Errorf("%w: %s", entity.ErrTemplateNotFound, templateID)
	}
	if err != nil {
		return template.Definition{}, fmt.Errorf("load template %s: %w", templateID, err)
	}
	def, err := template.ParseDefinition([]byte(data))
	if err != nil {
		return template.Definition{}, fmt.Errorf("decode template %s: %w", templateID, err)
	}
	return def, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id FROM templates ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, templateID string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, templateID)
	if err != nil {
		return fmt.Errorf("delete template %s: %w", templateID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", entity.ErrTemplateNotFound, templateID)
	}
	return nil
}

// Records возвращает представление хранилища как журнала инспекций.
// Методы Save/Get у шаблонов и записей конфликтуют по именам, поэтому журнал вынесен в отдельный тип.
func (s *SQLiteStore) Records() *SQLiteInspectionLog {
	return &SQLiteInspectionLog{db: s.DB}
}

// SQLiteInspectionLog журнал инспекций поверх той же базы
type SQLiteInspectionLog struct {
	db *sql.DB
}

func (l *SQLiteInspectionLog) Save(ctx context.Context, record *entity.InspectionRecord) error {
	if record == nil || record.ID == "" {
		return errInvalidRecord
	}
	data, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("encode inspection %s: %w", record.ID, err)
	}
	_, err = l.db.ExecContext(ctx, `INSERT INTO inspection_records(id, template_id, strategy, passed, created_at, result_json)
        VALUES(?, ?, ?, ?, ?, ?)`,
		record.ID, record.TemplateID, string(record.Strategy), record.Passed, record.CreatedAt.UnixNano(), string(data))
	if err != nil {
		return fmt.Errorf("save inspection %s: %w", record.ID, err)
	}
	return nil
}

func (l *SQLiteInspectionLog) Get(ctx context.Context, id string) (*entity.InspectionRecord, error) {
	row := l.db.QueryRowContext(ctx, `SELECT id, template_id, strategy, passed, created_at, result_json
        FROM inspection_records WHERE id = ?`, id)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", entity.ErrRecordNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load inspection %s: %w", id, err)
	}
	return record, nil
}

func (l *SQLiteInspectionLog) ListByTemplate(ctx context.Context, templateID string, limit int) ([]*entity.InspectionRecord, error) {
	if limit <= 0 {
		limit = -1 // в SQLite отрицательный LIMIT означает "без ограничения"
	}
	rows, err := l.db.QueryContext(ctx, `SELECT id, template_id, strategy, passed, created_at, result_json
        FROM inspection_records WHERE template_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`, templateID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*entity.InspectionRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*entity.InspectionRecord, error) {
	var (
		record    entity.InspectionRecord
		strategy  string
		createdAt int64
		data      string
	)
	if err := row.Scan(&record.ID, &record.TemplateID, &strategy, &record.Passed, &createdAt, &data); err != nil {
		return nil, err
	}
	record.Strategy = entity.MatchStrategy(strategy)
	record.CreatedAt = time.Unix(0, createdAt)

	var result entity.InspectionResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	record.Result = &result
	return &record, nil
}

var (
	_ port.TemplateRepository   = (*SQLiteStore)(nil)
	_ port.InspectionRepository = (*SQLiteInspectionLog)(nil)
)
