package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/tokenbroker/internal/database"
	apperrors "github.com/allisson/tokenbroker/internal/errors"
	tenantDomain "github.com/allisson/tokenbroker/internal/tenant/domain"
)

const mysqlTenantColumns = `id, api_key_hash, application_name, audience, cookie_name, cookie_domain,
		cookie_path, role_regexes, is_active, created_at`

// MySQLTenantRepository implements Tenant persistence for MySQL.
// Uses BINARY(16) for UUID storage.
type MySQLTenantRepository struct {
	db *sql.DB
}

// Create inserts a new Tenant into the MySQL database.
func (m *MySQLTenantRepository) Create(ctx context.Context, tenant *tenantDomain.Tenant) error {
	querier := database.GetTx(ctx, m.db)

	id, err := tenant.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal tenant id")
	}

	roleRegexesJSON, err := marshalRoleRegexes(tenant.RoleRegexes)
	if err != nil {
		return err
	}

	query := `INSERT INTO tenants (` + mysqlTenantColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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

// Update modifies an existing Tenant in the MySQL database.
func (m *MySQLTenantRepository) Update(ctx context.Context, tenant *tenantDomain.Tenant) error {
	querier := database.GetTx(ctx, m.db)

	id, err := tenant.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal tenant id")
	}

	roleRegexesJSON, err := marshalRoleRegexes(tenant.RoleRegexes)
	if err != nil {
		return err
	}

	query := `UPDATE tenants
			  SET api_key_hash = ?,
			      application_name = ?,
			      audience = ?,
			      cookie_name = ?,
			      cookie_domain = ?,
			      cookie_path = ?,
			      role_regexes = ?,
			      is_active = ?
			  WHERE id = ?`

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
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update tenant")
	}
	return nil
}

// Get retrieves a Tenant by ID.
func (m *MySQLTenantRepository) Get(ctx context.Context, tenantID uuid.UUID) (*tenantDomain.Tenant, error) {
	id, err := tenantID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal tenant id")
	}

	query := `SELECT ` + mysqlTenantColumns + ` FROM tenants WHERE id = ?`
	return m.getOne(ctx, query, id)
}

// GetByAPIKeyHash retrieves a Tenant by the hash of its API key.
func (m *MySQLTenantRepository) GetByAPIKeyHash(
	ctx context.Context,
	apiKeyHash string,
) (*tenantDomain.Tenant, error) {
	query := `SELECT ` + mysqlTenantColumns + ` FROM tenants WHERE api_key_hash = ?`
	return m.getOne(ctx, query, apiKeyHash)
}

// GetByApplicationName retrieves a Tenant by application name.
func (m *MySQLTenantRepository) GetByApplicationName(
	ctx context.Context,
	applicationName string,
) (*tenantDomain.Tenant, error) {
	query := `SELECT ` + mysqlTenantColumns + ` FROM tenants WHERE application_name = ?`
	return m.getOne(ctx, query, applicationName)
}

// List retrieves tenants ordered by ID descending with pagination.
func (m *MySQLTenantRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*tenantDomain.Tenant, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + mysqlTenantColumns + `
			  FROM tenants
			  ORDER BY id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list tenants")
	}
	defer func() {
		_ = rows.Close()
	}()

	tenants := make([]*tenantDomain.Tenant, 0)
	for rows.Next() {
		tenant, err := scanMySQLTenant(rows)
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

func (m *MySQLTenantRepository) getOne(ctx context.Context, query string, arg any) (*tenantDomain.Tenant, error) {
	querier := database.GetTx(ctx, m.db)

	tenant, err := scanMySQLTenant(querier.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tenantDomain.ErrTenantNotFound
		}
		return nil, err
	}
	return tenant, nil
}

func scanMySQLTenant(row rowScanner) (*tenantDomain.Tenant, error) {
	var tenant tenantDomain.Tenant
	var idBytes []byte
	var roleRegexesJSON []byte

	err := row.Scan(
		&idBytes,
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

	if err := tenant.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal tenant id")
	}

	if tenant.RoleRegexes, err = unmarshalRoleRegexes(roleRegexesJSON); err != nil {
		return nil, err
	}

	return &tenant, nil
}

// NewMySQLTenantRepository creates a new MySQL Tenant repository.
func NewMySQLTenantRepository(db *sql.DB) *MySQLTenantRepository {
	return &MySQLTenantRepository{db: db}
}
