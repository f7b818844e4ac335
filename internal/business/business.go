package business

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrBusinessNotFound = errors.New("business not found")
	ErrSlugTaken        = errors.New("business slug already taken")
)

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (*Conf, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Conf{db: db}, nil
}

const businessColumns = `
	id, owner_id, name, slug, COALESCE(description, ''), COALESCE(logo_url, ''),
	COALESCE(address, ''), COALESCE(phone, ''), COALESCE(whatsapp_number, ''),
	is_active, is_open, enable_delivery, enable_takeaway, delivery_fee,
	COALESCE(estimated_prep_time, 0), COALESCE(mp_access_token, ''),
	created_at, updated_at
`

func scanBusiness(row *sql.Row) (*Business, error) {
	var b Business
	err := row.Scan(
		&b.ID, &b.OwnerID, &b.Name, &b.Slug, &b.Description, &b.LogoURL,
		&b.Address, &b.Phone, &b.WhatsappNumber,
		&b.IsActive, &b.IsOpen, &b.EnableDelivery, &b.EnableTakeaway,
		&b.DeliveryFee, &b.EstimatedPrepTime, &b.MPAccessToken,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("failed to scan business: %w", err)
	}
	return &b, nil
}

// Create registers the storefront for a vendor. The slug is derived from
// the name and must be unique.
func (c *Conf) Create(ctx context.Context, ownerID string, nb NewBusiness) (*Business, error) {
	slug := Slugify(nb.Name)

	var exists bool
	err := c.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM businesses WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}
	if exists {
		return nil, ErrSlugTaken
	}

	query := `
		INSERT INTO businesses (id, owner_id, name, slug, description, address, phone,
		                        whatsapp_number, is_active, is_open, enable_delivery,
		                        enable_takeaway, delivery_fee, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true, false, $9, $10, $11, NOW(), NOW())
		RETURNING ` + businessColumns
	row := c.db.QueryRowContext(ctx, query,
		uuid.NewString(), ownerID, nb.Name, slug, nb.Description, nb.Address,
		nb.Phone, nb.WhatsappNumber, nb.EnableDelivery, nb.EnableTakeaway, nb.DeliveryFee)
	return scanBusiness(row)
}

// GetByOwner resolves a vendor's business. Handlers use this to turn the
// caller's identity into the business scope for every vendor operation.
func (c *Conf) GetByOwner(ctx context.Context, ownerID string) (*Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE owner_id = $1`
	return scanBusiness(c.db.QueryRowContext(ctx, query, ownerID))
}

// GetBySlug resolves a storefront from its public URL slug.
func (c *Conf) GetBySlug(ctx context.Context, slug string) (*Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE slug = $1 AND is_active`
	return scanBusiness(c.db.QueryRowContext(ctx, query, slug))
}

// GetByID resolves a business by primary key, active or not.
func (c *Conf) GetByID(ctx context.Context, id string) (*Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE id = $1`
	return scanBusiness(c.db.QueryRowContext(ctx, query, id))
}

// ListActive returns active storefronts for the public directory, newest
// first, optionally filtered by a case-insensitive name/description search.
func (c *Conf) ListActive(ctx context.Context, search string, limit int) ([]Business, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT ` + businessColumns + `
		FROM businesses
		WHERE is_active
	`
	args := []any{}
	if search != "" {
		args = append(args, "%"+search+"%")
		query += ` AND (name ILIKE $1 OR description ILIKE $1)`
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query businesses: %w", err)
	}
	defer rows.Close()

	var businesses []Business
	for rows.Next() {
		var b Business
		if err := rows.Scan(
			&b.ID, &b.OwnerID, &b.Name, &b.Slug, &b.Description, &b.LogoURL,
			&b.Address, &b.Phone, &b.WhatsappNumber,
			&b.IsActive, &b.IsOpen, &b.EnableDelivery, &b.EnableTakeaway,
			&b.DeliveryFee, &b.EstimatedPrepTime, &b.MPAccessToken,
			&b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan business: %w", err)
		}
		businesses = append(businesses, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating businesses: %w", err)
	}
	return businesses, nil
}

// UpdateSettings applies the non-nil fields of the settings payload to the
// vendor's business and returns the updated record.
func (c *Conf) UpdateSettings(ctx context.Context, ownerID string, s Settings) (*Business, error) {
	sets := []string{}
	args := []any{ownerID}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if s.Name != nil {
		add("name", *s.Name)
	}
	if s.Description != nil {
		add("description", *s.Description)
	}
	if s.LogoURL != nil {
		add("logo_url", *s.LogoURL)
	}
	if s.Address != nil {
		add("address", *s.Address)
	}
	if s.Phone != nil {
		add("phone", *s.Phone)
	}
	if s.WhatsappNumber != nil {
		add("whatsapp_number", *s.WhatsappNumber)
	}
	if s.IsActive != nil {
		add("is_active", *s.IsActive)
	}
	if s.IsOpen != nil {
		add("is_open", *s.IsOpen)
	}
	if s.EnableDelivery != nil {
		add("enable_delivery", *s.EnableDelivery)
	}
	if s.EnableTakeaway != nil {
		add("enable_takeaway", *s.EnableTakeaway)
	}
	if s.DeliveryFee != nil {
		add("delivery_fee", *s.DeliveryFee)
	}
	if s.EstimatedPrepTime != nil {
		add("estimated_prep_time", *s.EstimatedPrepTime)
	}

	if len(sets) == 0 {
		return c.GetByOwner(ctx, ownerID)
	}

	query := fmt.Sprintf(`
		UPDATE businesses
		SET %s, updated_at = NOW()
		WHERE owner_id = $1
		RETURNING %s`, strings.Join(sets, ", "), businessColumns)
	return scanBusiness(c.db.QueryRowContext(ctx, query, args...))
}

// SetOpen toggles whether the storefront is accepting orders.
func (c *Conf) SetOpen(ctx context.Context, ownerID string, open bool) (*Business, error) {
	query := `
		UPDATE businesses
		SET is_open = $2, updated_at = NOW()
		WHERE owner_id = $1
		RETURNING ` + businessColumns
	return scanBusiness(c.db.QueryRowContext(ctx, query, ownerID, open))
}

// Slugify turns a business name into its public URL slug.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
