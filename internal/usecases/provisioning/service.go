package provisioning

import (
	"context"
	"strings"

	"github.com/isacLima251/MeuPainel0.2/infrastructure/repository"
	"github.com/isacLima251/MeuPainel0.2/internal/domain"
	"github.com/isacLima251/MeuPainel0.2/pkg/apiErrors"
	"github.com/isacLima251/MeuPainel0.2/pkg/log"
	"github.com/isacLima251/MeuPainel0.2/pkg/utils"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

type Provisioner interface {
	CreateTenant(ctx context.Context, req *domain.CreateTenantRequest) (*domain.CreateTenantResponse, error)
	SetTenantActive(ctx context.Context, tenantID string, active bool) error
	CreateAttendant(ctx context.Context, tenantID string, req *domain.CreateAttendantRequest) (*domain.Attendant, error)
}

type Service struct {
	tenantRepo    repository.TenantRepository
	userRepo      repository.UserRepository
	attendantRepo repository.AttendantRepository
	kitRepo       repository.KitRepository
	creativeRepo  repository.CreativeRepository
	hashCost      int
}

func NewService(
	tenantRepo repository.TenantRepository,
	userRepo repository.UserRepository,
	attendantRepo repository.AttendantRepository,
	kitRepo repository.KitRepository,
	creativeRepo repository.CreativeRepository,
) Provisioner {
	return &Service{
		tenantRepo:    tenantRepo,
		userRepo:      userRepo,
		attendantRepo: attendantRepo,
		kitRepo:       kitRepo,
		creativeRepo:  creativeRepo,
		hashCost:      bcrypt.DefaultCost,
	}
}

// CreateTenant grava o tenant e o primeiro administrador juntos. Qualquer
// falha desfaz os dois.
func (s *Service) CreateTenant(ctx context.Context, req *domain.CreateTenantRequest) (*domain.CreateTenantResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := handleEmail(req.AdminEmail)
	if name == "" || email == "" || req.AdminPassword == "" {
		return nil, NewProvisioningError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Nome do tenant, email e senha do administrador são obrigatórios")
	}

	if err := s.ensureEmailAvailable(ctx, email); err != nil {
		return nil, err
	}

	tenantID, err := utils.GenerateID()
	if err != nil {
		return nil, NewProvisioningError(err, apiErrors.ErrInternalServer, "Erro ao gerar id do tenant")
	}

	plan := req.Plan
	if plan == "" {
		plan = domain.TenantPlanBasic
	}

	tenant := &domain.Tenant{
		ID:            tenantID,
		Name:          name,
		Document:      strings.TrimSpace(req.Document),
		Plan:          plan,
		Active:        true,
		WebhookSecret: req.WebhookSecret,
	}

	admin, err := s.newUser(req.AdminName, email, req.AdminPassword, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	if err := s.tenantRepo.CreateWithAdmin(ctx, tenant, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, NewProvisioningError(ErrEmailAlreadyUsed, apiErrors.ErrUserAlreadyExists, email)
		}
		log.ForContext(ctx).WithError(err).Error("Erro ao criar tenant")
		return nil, NewProvisioningError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Erro ao criar tenant")
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"tenant_id": tenant.ID,
		"user_id":   admin.ID,
	}).Info("Tenant criado com administrador")

	return &domain.CreateTenantResponse{Tenant: tenant, Admin: admin}, nil
}

func (s *Service) SetTenantActive(ctx context.Context, tenantID string, active bool) error {
	found, err := s.tenantRepo.SetActive(ctx, tenantID, active)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao atualizar tenant")
		return NewProvisioningError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Erro ao atualizar tenant")
	}

	if !found {
		return NewProvisioningError(ErrTenantNotFound, apiErrors.ErrResourceNotFound, tenantID)
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"tenant_id": tenantID,
		"active":    active,
	}).Info("Status do tenant alterado")

	return nil
}

// CreateAttendant cria o login e o atendente com regras e criativos numa
// única transação. O código fica sempre em maiúsculas.
func (s *Service) CreateAttendant(ctx context.Context, tenantID string, req *domain.CreateAttendantRequest) (*domain.Attendant, error) {
	code := domain.NormalizeCode(req.Code)
	email := handleEmail(req.Email)
	if code == "" || email == "" || req.Password == "" || strings.TrimSpace(req.Name) == "" {
		return nil, NewProvisioningError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Nome, código, email e senha são obrigatórios")
	}

	existing, err := s.attendantRepo.GetByCode(ctx, tenantID, code)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao consultar código de atendente")
		return nil, NewProvisioningError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Erro ao consultar atendente")
	}
	if existing != nil {
		return nil, NewProvisioningError(ErrCodeAlreadyUsed, apiErrors.ErrResourceConflict, code)
	}

	if err := s.ensureEmailAvailable(ctx, email); err != nil {
		return nil, err
	}

	if err := s.checkReferences(ctx, tenantID, req); err != nil {
		return nil, err
	}

	user, err := s.newUser(req.Name, email, req.Password, domain.RoleAttendant)
	if err != nil {
		return nil, err
	}
	user.TenantID = &tenantID

	attendantID, err := utils.GenerateID()
	if err != nil {
		return nil, NewProvisioningError(err, apiErrors.ErrInternalServer, "Erro ao gerar id do atendente")
	}

	attendant := &domain.Attendant{
		ID:                    attendantID,
		TenantID:              tenantID,
		Name:                  strings.TrimSpace(req.Name),
		Code:                  code,
		MonthlySalary:         req.MonthlySalary,
		Active:                true,
		Overrides:             req.Overrides,
		Goal:                  req.Goal,
		AuthorizedCreativeIDs: req.AuthorizedCreativeIDs,
	}

	if err := s.attendantRepo.CreateWithUser(ctx, attendant, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, NewProvisioningError(ErrCodeAlreadyUsed, apiErrors.ErrResourceConflict, code)
		}
		log.ForContext(ctx).WithError(err).Error("Erro ao criar atendente")
		return nil, NewProvisioningError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Erro ao criar atendente")
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"attendant_id": attendant.ID,
		"user_id":      user.ID,
		"code":         code,
	}).Info("Atendente criado")

	return attendant, nil
}

func (s *Service) ensureEmailAvailable(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao consultar usuário")
		return NewProvisioningError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Erro ao consultar usuário")
	}

	if user != nil {
		return NewProvisioningError(ErrEmailAlreadyUsed, apiErrors.ErrUserAlreadyExists, email)
	}

	return nil
}

// checkReferences confere que kits das regras e criativos autorizados são do tenant.
func (s *Service) checkReferences(ctx context.Context, tenantID string, req *domain.CreateAttendantRequest) error {
	for _, override := range req.Overrides {
		kit, err := s.kitRepo.GetByID(ctx, tenantID, override.KitID)
		if err != nil {
			return NewProvisioningError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Erro ao consultar kit")
		}
		if kit == nil {
			return NewProvisioningError(ErrKitNotFound, apiErrors.ErrInvalidRequest, override.KitID)
		}
	}

	for _, creativeID := range req.AuthorizedCreativeIDs {
		creative, err := s.creativeRepo.GetByID(ctx, tenantID, creativeID)
		if err != nil {
			return NewProvisioningError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Erro ao consultar criativo")
		}
		if creative == nil {
			return NewProvisioningError(ErrCreativeNotFound, apiErrors.ErrInvalidRequest, creativeID)
		}
	}

	return nil
}

func (s *Service) newUser(name, email, password string, role domain.UserRole) (*domain.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, NewProvisioningError(errors.Wrap(err, "hash da senha"), apiErrors.ErrInternalServer, "Erro ao processar senha")
	}

	userID, err := utils.GenerateID()
	if err != nil {
		return nil, NewProvisioningError(err, apiErrors.ErrInternalServer, "Erro ao gerar id do usuário")
	}

	return &domain.User{
		ID:           userID,
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		Active:       true,
	}, nil
}

func handleEmail(s string) string {
	email := strings.ToLower(s)
	email = strings.TrimSpace(email)
	email = strings.ReplaceAll(email, " ", "")
	return email
}
