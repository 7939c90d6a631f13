// Package repository implements tenant persistence for the SQL registry backends
// and the YAML file registry.
//
// PostgreSQL uses native UUID and JSONB columns, MySQL uses BINARY(16) and JSON.
// Both participate in transactions via database.GetTx().
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/tokenbroker/internal/database"
	apperrors "github.com/allisson/tokenbroker/internal/errors"
	tenantDomain "github.com/allisson/tokenbroker/internal/tenant/domain"
)

const postgresTenantColumns = `id, api_key_hash, application_name, audience, cookie_name, cookie_domain,
		cookie_path, role_regexes, is_active, created_at`

// PostgreSQLTenantRepository implements Tenant persistence for PostgreSQL.
type PostgreSQLTenantRepository struct {
	db *sql.DB
}

// Create inserts a new Tenant into the PostgreSQL database.
func (p *PostgreSQLTenantRepository) Create(ctx context.Context, tenant *tenantDomain.Tenant) error {
	querier := database.GetTx(ctx, p.db)

	roleRegexesJSON, err := marshalRoleRegexes(tenant.RoleRegexes)
	if err != nil {
		return err
	}

	query := `INSERT INTO tenants (` + postgresTenantColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = querier.ExecContext(
		ctx,
		query,
		tenant.ID,
		tenant.APIKeyHash,
		tenant.ApplicationName,
		tenant.Audience,
		tenant.CookieName,
		tenant.CookieDomain,
		tenant.CookiePath,
		roleRegexesJSON,
		tenant.IsActive,
		tenant.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create tenant")
	}
	return nil
}

// Update modifies an existing Tenant in the PostgreSQL database.
func (p *PostgreSQLTenantRepository) Update(ctx context.Context, tenant *tenantDomain.Tenant) error {
	querier := database.GetTx(ctx, p.db)

	roleRegexesJSON, err := marshalRoleRegexes(tenant.RoleRegexes)
	if err != nil {
		return err
	}

	query := `UPDATE tenants
			  SET api_key_hash = $1,
			      application_name = $2,
			      audience = $3,
			      cookie_name = $4,
			      cookie_domain = $5,
			      cookie_path = $6,
			      role_regexes = $7,
			      is_active = $8
			  WHERE id = $9`

	_, err = querier.ExecContext(
		ctx,
		query,
		tenant.APIKeyHash,
		tenant.ApplicationName,
		tenant.Audience,
		tenant.CookieName,
		tenant.CookieDomain,
		tenant.CookiePath,
		roleRegexesJSON,
		tenant.IsActive,
		tenant.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update tenant")
	}
	return nil
}

// Get retrieves a Tenant by ID.
func (p *PostgreSQLTenantRepository) Get(ctx context.Context, tenantID uuid.UUID) (*tenantDomain.Tenant, error) {
	query := `SELECT ` + postgresTenantColumns + ` FROM tenants WHERE id = $1`
	return p.getOne(ctx, query, tenantID)
}

// GetByAPIKeyHash retrieves a Tenant by the hash of its API key.
func (p *PostgreSQLTenantRepository) GetByAPIKeyHash(
	ctx context.Context,
	apiKeyHash string,
) (*tenantDomain.Tenant, error) {
	query := `SELECT ` + postgresTenantColumns + ` FROM tenants WHERE api_key_hash = $1`
	return p.getOne(ctx, query, apiKeyHash)
}

// GetByApplicationName retrieves a Tenant by application name.
func (p *PostgreSQLTenantRepository) GetByApplicationName(
	ctx context.Context,
	applicationName string,
) (*tenantDomain.Tenant, error) {
	query := `SELECT ` + postgresTenantColumns + ` FROM tenants WHERE application_name = $1`
	return p.getOne(ctx, query, applicationName)
}

// List retrieves tenants ordered by ID descending with pagination.
func (p *PostgreSQLTenantRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*tenantDomain.Tenant, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + postgresTenantColumns + `
			  FROM tenants
			  ORDER BY id DESC
			  LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list tenants")
	}
	defer func() {
		_ = rows.Close()
	}()

	tenants := make([]*tenantDomain.Tenant, 0)
	for rows.Next() {
		tenant, err := scanPostgresTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, tenant)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating tenant rows")
	}

	return tenants, nil
}

func (p *PostgreSQLTenantRepository) getOne(
	ctx context.Context,
	query string,
	arg any,
) (*tenantDomain.Tenant, error) {
	querier := database.GetTx(ctx, p.db)

	tenant, err := scanPostgresTenant(querier.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tenantDomain.ErrTenantNotFound
		}
		return nil, err
	}
	return tenant, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostgresTenant(row rowScanner) (*tenantDomain.Tenant, error) {
	var tenant tenantDomain.Tenant
	var roleRegexesJSON []byte

	err := row.Scan(
		&tenant.ID,
		&tenant.APIKeyHash,
		&tenant.ApplicationName,
		&tenant.Audience,
		&tenant.CookieName,
		&tenant.CookieDomain,
		&tenant.CookiePath,
		&roleRegexesJSON,
		&tenant.IsActive,
		&tenant.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, apperrors.Wrap(err, "failed to scan tenant")
	}

	if tenant.RoleRegexes, err = unmarshalRoleRegexes(roleRegexesJSON); err != nil {
		return nil, err
	}

	return &tenant, nil
}

func marshalRoleRegexes(roleRegexes []string) ([]byte, error) {
	if roleRegexes == nil {
		roleRegexes = []string{}
	}
	data, err := json.Marshal(roleRegexes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal role regexes")
	}
	return data, nil
}

func unmarshalRoleRegexes(data []byte) ([]string, error) {
	roleRegexes := make([]string, 0)
	if len(data) == 0 {
		return roleRegexes, nil
	}
	if err := json.Unmarshal(data, &roleRegexes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal role regexes")
	}
	return roleRegexes, nil
}

// NewPostgreSQLTenantRepository creates a new PostgreSQL Tenant repository.
func NewPostgreSQLTenantRepository(db *sql.DB) *PostgreSQLTenantRepository {
	return &PostgreSQLTenantRepository{db: db}
}
