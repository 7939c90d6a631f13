package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/allisson/tokenbroker/internal/database"
	apperrors "github.com/allisson/tokenbroker/internal/errors"
	tenantDomain "github.com/allisson/tokenbroker/internal/tenant/domain"
	tenantService "github.com/allisson/tokenbroker/internal/tenant/service"
	customValidation "github.com/allisson/tokenbroker/internal/validation"
)

// tenantUseCase implements TenantUseCase.
type tenantUseCase struct {
	txManager      database.TxManager
	tenantRepo     TenantRepository
	apiKeyService  tenantService.APIKeyService
	cookieDefaults tenantDomain.CookieDefaults
}

// Create validates the input, generates an API key and persists the tenant.
func (t *tenantUseCase) Create(
	ctx context.Context,
	input *tenantDomain.CreateTenantInput,
) (*tenantDomain.CreateTenantOutput, error) {
	if err := validateCreateTenantInput(input); err != nil {
		return nil, err
	}
	if _, err := tenantDomain.CompileRoleRegexes(input.RoleRegexes); err != nil {
		return nil, err
	}

	plainKey, keyHash, err := t.apiKeyService.GenerateAPIKey()
	if err != nil {
		return nil, err
	}

	tenant := &tenantDomain.Tenant{
		ID:              uuid.Must(uuid.NewV7()),
		APIKeyHash:      keyHash,
		ApplicationName: input.ApplicationName,
		Audience:        input.Audience,
		CookieName:      input.CookieName,
		CookieDomain:    input.CookieDomain,
		CookiePath:      input.CookiePath,
		RoleRegexes:     append([]string{}, input.RoleRegexes...),
		IsActive:        input.IsActive,
		CreatedAt:       time.Now().UTC(),
	}
	tenant.ApplyCookieDefaults(t.cookieDefaults)

	err = t.txManager.WithTx(ctx, func(ctx context.Context) error {
		existing, err := t.tenantRepo.GetByApplicationName(ctx, tenant.ApplicationName)
		if err != nil && !apperrors.Is(err, tenantDomain.ErrTenantNotFound) {
			return err
		}
		if existing != nil {
			return tenantDomain.ErrApplicationNameAlreadyExists
		}
		return t.tenantRepo.Create(ctx, tenant)
	})
	if err != nil {
		return nil, err
	}

	return &tenantDomain.CreateTenantOutput{
		ID:     tenant.ID,
		APIKey: plainKey,
	}, nil
}

// validateCreateTenantInput checks the registration input using jellydator/validation.
func validateCreateTenantInput(input *tenantDomain.CreateTenantInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.ApplicationName,
			validation.Required,
			customValidation.NotBlank,
			customValidation.NoWhitespace,
			validation.Length(1, 255),
		),
		validation.Field(&input.Audience,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&input.CookieName, customValidation.NoWhitespace, validation.Length(0, 255)),
		validation.Field(&input.CookieDomain, customValidation.NoWhitespace, validation.Length(0, 255)),
		validation.Field(&input.CookiePath, customValidation.CookiePath, validation.Length(0, 255)),
	)
	return customValidation.WrapValidationError(err)
}

// Get retrieves a tenant by ID.
func (t *tenantUseCase) Get(ctx context.Context, tenantID uuid.UUID) (*tenantDomain.Tenant, error) {
	return t.tenantRepo.Get(ctx, tenantID)
}

// List retrieves tenants with pagination.
func (t *tenantUseCase) List(ctx context.Context, offset, limit int) ([]*tenantDomain.Tenant, error) {
	return t.tenantRepo.List(ctx, offset, limit)
}

// SetActive toggles the active flag of a tenant.
func (t *tenantUseCase) SetActive(ctx context.Context, tenantID uuid.UUID, isActive bool) error {
	return t.txManager.WithTx(ctx, func(ctx context.Context) error {
		tenant, err := t.tenantRepo.Get(ctx, tenantID)
		if err != nil {
			return err
		}
		tenant.IsActive = isActive
		return t.tenantRepo.Update(ctx, tenant)
	})
}

// NewTenantUseCase creates a new TenantUseCase.
func NewTenantUseCase(
	txManager database.TxManager,
	tenantRepo TenantRepository,
	apiKeyService tenantService.APIKeyService,
	cookieDefaults tenantDomain.CookieDefaults,
) TenantUseCase {
	return &tenantUseCase{
		txManager:      txManager,
		tenantRepo:     tenantRepo,
		apiKeyService:  apiKeyService,
		cookieDefaults: cookieDefaults,
	}
}
