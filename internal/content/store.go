package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when no item exists with the given id.
	ErrNotFound = errors.New("content item not found")

	// ErrConflict is returned when a conditional update loses: the revision
	// is stale or the current status disallows the mutation.
	ErrConflict = errors.New("content item conflict")
)

// Store is the persistence gateway for content items.
type Store interface {
	Get(ctx context.Context, id string) (Item, error)
	List(ctx context.Context, f Filter) ([]Item, error)
	Create(ctx context.Context, item Item) (Item, error)
	UpdateText(ctx context.Context, id string, revision int, text string, status Status) (Item, error)
	UpdateStatus(ctx context.Context, id string, revision int, status Status) (Item, error)
	MarkPublished(ctx context.Context, id string, revision int, receipt Receipt) (Item, error)
}

// SQLStore implements Store on Postgres.
type SQLStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

const itemColumns = `id, repository, commit_sha, branch, platform, content, status,
		image_content, video_content, audio_content,
		external_id, external_url, external_uri, external_cid,
		revision, created_at, updated_at`

func (s *SQLStore) Get(ctx context.Context, id string) (Item, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+`
		FROM content_items
		WHERE id = $1
	`, id)

	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, ErrNotFound
	}
	return item, err
}

func (s *SQLStore) List(ctx context.Context, f Filter) ([]Item, error) {
	var conds []string
	var args []any

	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("repository", f.Repository)
	add("branch", f.Branch)
	add("status", string(f.Status))
	add("platform", string(f.Platform))

	query := `SELECT ` + itemColumns + ` FROM content_items`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list content items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate content items: %w", err)
	}
	return items, nil
}

func (s *SQLStore) Create(ctx context.Context, item Item) (Item, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Status == "" {
		item.Status = StatusPending
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO content_items (
			id, repository, commit_sha, branch, platform, content, status,
			image_content, video_content, audio_content
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+itemColumns+`
	`,
		item.ID,
		item.Repository,
		item.CommitSHA,
		item.Branch,
		string(item.Platform),
		item.Content,
		string(item.Status),
		pq.Array(item.ImageContent),
		pq.Array(item.VideoContent),
		pq.Array(item.AudioContent),
	)

	created, err := scanItem(row)
	if err != nil {
		return Item{}, fmt.Errorf("insert content item: %w", err)
	}
	return created, nil
}

// UpdateText replaces the item text and optionally the status in one
// conditional update. Text edits are only allowed while the item is
// pending or rephrased.
func (s *SQLStore) UpdateText(ctx context.Context, id string, revision int, text string, status Status) (Item, error) {
	if status == "" {
		status = StatusPending
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE content_items
		SET content = $3,
			status = $4,
			revision = revision + 1,
			updated_at = NOW()
		WHERE id = $1
			AND revision = $2
			AND status IN ('pending', 'rephrased')
		RETURNING `+itemColumns+`
	`, id, revision, text, string(status))

	return s.conditionalResult(ctx, id, row)
}

// UpdateStatus transitions the item status under the revision guard.
func (s *SQLStore) UpdateStatus(ctx context.Context, id string, revision int, status Status) (Item, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE content_items
		SET status = $3,
			revision = revision + 1,
			updated_at = NOW()
		WHERE id = $1
			AND revision = $2
			AND status NOT IN ('published', 'rejected')
		RETURNING `+itemColumns+`
	`, id, revision, string(status))

	return s.conditionalResult(ctx, id, row)
}

// MarkPublished stamps the receipt and flips the item to published. Only
// an editable item at the expected revision can be stamped, so a publish
// that raced a concurrent mutation loses here instead of double-stamping.
func (s *SQLStore) MarkPublished(ctx context.Context, id string, revision int, receipt Receipt) (Item, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE content_items
		SET status = 'published',
			external_id = NULLIF($3, ''),
			external_url = NULLIF($4, ''),
			external_uri = NULLIF($5, ''),
			external_cid = NULLIF($6, ''),
			revision = revision + 1,
			updated_at = NOW()
		WHERE id = $1
			AND revision = $2
			AND status IN ('pending', 'rephrased')
		RETURNING `+itemColumns+`
	`, id, revision, receipt.ExternalID, receipt.ExternalURL, receipt.ExternalURI, receipt.ExternalCID)

	return s.conditionalResult(ctx, id, row)
}

// conditionalResult maps an empty conditional-update result to ErrNotFound
// or ErrConflict depending on whether the row exists at all.
func (s *SQLStore) conditionalResult(ctx context.Context, id string, row *sql.Row) (Item, error) {
	item, err := scanItem(row)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Item{}, err
	}

	var exists bool
	if checkErr := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM content_items WHERE id = $1)`, id,
	).Scan(&exists); checkErr != nil {
		return Item{}, fmt.Errorf("check content item: %w", checkErr)
	}
	if !exists {
		return Item{}, ErrNotFound
	}
	return Item{}, ErrConflict
}

type itemScanner interface {
	Scan(dest ...any) error
}

func scanItem(s itemScanner) (Item, error) {
	var item Item
	var platform, status string
	var externalID, externalURL, externalURI, externalCID sql.NullString
	if err := s.Scan(
		&item.ID,
		&item.Repository,
		&item.CommitSHA,
		&item.Branch,
		&platform,
		&item.Content,
		&status,
		pq.Array(&item.ImageContent),
		pq.Array(&item.VideoContent),
		pq.Array(&item.AudioContent),
		&externalID,
		&externalURL,
		&externalURI,
		&externalCID,
		&item.Revision,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Item{}, err
		}
		return Item{}, fmt.Errorf("scan content item: %w", err)
	}
	item.Platform = Platform(platform)
	item.Status = Status(status)
	item.Receipt = Receipt{
		ExternalID:  externalID.String,
		ExternalURL: externalURL.String,
		ExternalURI: externalURI.String,
		ExternalCID: externalCID.String,
	}
	return item, nil
}
