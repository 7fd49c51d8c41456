// internal/repository/postgres/campaign_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"promo-service/internal/domain/campaign"
	xerrors "promo-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const campaignColumns = `id, name, description, code, discount_type, discount_value,
       start_date, end_date, usage_limit, usage_count, conversions,
       revenue, cost, status, removed, tags, created_at, updated_at`

type CampaignRepository struct {
	db *pgxpool.Pool
}

func NewCampaignRepository(db *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{db: db}
}

// Create creates a new campaign
func (r *CampaignRepository) Create(ctx context.Context, c *campaign.Campaign) error {
	query := `
		INSERT INTO campaigns (
			name, description, code, discount_type, discount_value,
			start_date, end_date, usage_limit, status, tags
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, usage_count, conversions, revenue, cost, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		c.Name, c.Description, c.Code, c.DiscountType, c.DiscountValue,
		c.StartDate, c.EndDate, c.UsageLimit, c.Status, c.Tags,
	).Scan(&c.ID, &c.UsageCount, &c.Conversions, &c.Revenue, &c.Cost, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}

	return nil
}

// FindByID retrieves a campaign by ID
func (r *CampaignRepository) FindByID(ctx context.Context, id int64) (*campaign.Campaign, error) {
	query := fmt.Sprintf(`SELECT %s FROM campaigns WHERE id = $1 AND NOT removed`, campaignColumns)
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

// FindByCode retrieves a campaign by promotional code
func (r *CampaignRepository) FindByCode(ctx context.Context, code string) (*campaign.Campaign, error) {
	query := fmt.Sprintf(`SELECT %s FROM campaigns WHERE code = $1 AND NOT removed`, campaignColumns)
	return r.scanOne(r.db.QueryRow(ctx, query, code))
}

// ExistsByCode checks if a promotional code exists, removed campaigns
// included: codes stay unique across all campaigns ever created.
func (r *CampaignRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM campaigns WHERE code = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, code).Scan(&exists)
	return exists, err
}

// UpdateStatus updates campaign status
func (r *CampaignRepository) UpdateStatus(ctx context.Context, id int64, status campaign.CampaignStatus) error {
	query := `UPDATE campaigns SET status = $1, updated_at = $2 WHERE id = $3 AND NOT removed`

	result, err := r.db.Exec(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// MarkRemoved logically deletes a campaign. The row and its redemption
// events stay in place for historical reporting.
func (r *CampaignRepository) MarkRemoved(ctx context.Context, id int64) error {
	query := `UPDATE campaigns SET removed = TRUE, updated_at = $1 WHERE id = $2 AND NOT removed`

	result, err := r.db.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to remove campaign: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// List retrieves campaigns with filters
func (r *CampaignRepository) List(ctx context.Context, filters *campaign.ListFilters) ([]campaign.Campaign, int64, error) {
	conditions := []string{"NOT removed"}
	args := []interface{}{}
	argPos := 1

	if filters.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filters.Status)
		argPos++
	}

	if filters.DiscountType != nil {
		conditions = append(conditions, fmt.Sprintf("discount_type = $%d", argPos))
		args = append(args, *filters.DiscountType)
		argPos++
	}

	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE $%d OR description ILIKE $%d OR code ILIKE $%d)",
			argPos, argPos, argPos,
		))
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM campaigns %s", whereClause)
	var total int64
	err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count campaigns: %w", err)
	}

	offset := (filters.Page - 1) * filters.PageSize
	limit := filters.PageSize

	sortBy := "created_at"
	switch filters.SortBy {
	case "start_date", "end_date", "created_at":
		sortBy = filters.SortBy
	}
	sortOrder := "DESC"
	if strings.EqualFold(filters.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM campaigns
		%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, campaignColumns, whereClause, sortBy, sortOrder, argPos, argPos+1)

	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	campaigns, err := r.scanRows(rows)
	if err != nil {
		return nil, 0, err
	}

	return campaigns, total, nil
}

// ListExpiryCandidates returns non-expired campaigns whose end date has
// passed or whose usage limit is exhausted. Used by the periodic sweep.
func (r *CampaignRepository) ListExpiryCandidates(ctx context.Context, now time.Time) ([]campaign.Campaign, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM campaigns
		WHERE NOT removed
		  AND status != 'expired'
		  AND (
			(end_date IS NOT NULL AND end_date < $1)
			OR (usage_limit IS NOT NULL AND usage_count >= usage_limit)
		  )
	`, campaignColumns)

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list expiry candidates: %w", err)
	}
	defer rows.Close()

	return r.scanRows(rows)
}

// CountActive returns the number of currently active campaigns, for the
// active-campaigns gauge.
func (r *CampaignRepository) CountActive(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM campaigns WHERE NOT removed AND status = 'active'`
	var n int
	err := r.db.QueryRow(ctx, query).Scan(&n)
	return n, err
}

func (r *CampaignRepository) scanOne(row pgx.Row) (*campaign.Campaign, error) {
	var c campaign.Campaign
	err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.Code, &c.DiscountType, &c.DiscountValue,
		&c.StartDate, &c.EndDate, &c.UsageLimit, &c.UsageCount, &c.Conversions,
		&c.Revenue, &c.Cost, &c.Status, &c.Removed, &c.Tags, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find campaign: %w", err)
	}
	return &c, nil
}

func (r *CampaignRepository) scanRows(rows pgx.Rows) ([]campaign.Campaign, error) {
	campaigns := []campaign.Campaign{}
	for rows.Next() {
		var c campaign.Campaign
		err := rows.Scan(
			&c.ID, &c.Name, &c.Description, &c.Code, &c.DiscountType, &c.DiscountValue,
			&c.StartDate, &c.EndDate, &c.UsageLimit, &c.UsageCount, &c.Conversions,
			&c.Revenue, &c.Cost, &c.Status, &c.Removed, &c.Tags, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, nil
}
