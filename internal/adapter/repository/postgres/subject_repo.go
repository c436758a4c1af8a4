package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/commodityai/accuracy-backend/internal/domain"
)

// subjectRepository implements domain.SubjectRepository
type subjectRepository struct {
	db *DB
}

// NewSubjectRepository creates a new subject repository
func NewSubjectRepository(db *DB) domain.SubjectRepository {
	return &subjectRepository{db: db}
}

// List retrieves every registered subject ordered by ID
func (r *subjectRepository) List(ctx context.Context) ([]*domain.Subject, error) {
	query := `
		SELECT id, name, category, unit
		FROM subjects
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	defer rows.Close()

	subjects := make([]*domain.Subject, 0)
	for rows.Next() {
		var subject domain.Subject
		if err := rows.Scan(&subject.ID, &subject.Name, &subject.Category, &subject.Unit); err != nil {
			return nil, fmt.Errorf("failed to scan subject: %w", err)
		}
		subjects = append(subjects, &subject)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subjects: %w", err)
	}

	return subjects, nil
}

// GetByID retrieves a subject by its ID
func (r *subjectRepository) GetByID(ctx context.Context, id string) (*domain.Subject, error) {
	query := `
		SELECT id, name, category, unit
		FROM subjects
		WHERE id = $1
	`

	var subject domain.Subject
	err := r.db.QueryRowContext(ctx, query, id).Scan(&subject.ID, &subject.Name, &subject.Category, &subject.Unit)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("subject %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get subject by ID: %w", err)
	}

	return &subject, nil
}

// Create registers a new subject
func (r *subjectRepository) Create(ctx context.Context, subject *domain.Subject) error {
	query := `
		INSERT INTO subjects (id, name, category, unit)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.db.ExecContext(ctx, query, subject.ID, subject.Name, subject.Category, subject.Unit); err != nil {
		return fmt.Errorf("failed to create subject: %w", err)
	}

	return nil
}
