package reconciling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/isacLima251/MeuPainel0.2/infrastructure/cache"
	"github.com/isacLima251/MeuPainel0.2/infrastructure/repository/mocks"
	"github.com/isacLima251/MeuPainel0.2/internal/domain"
	"github.com/isacLima251/MeuPainel0.2/pkg/apiErrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

type fixture struct {
	tenantRepo    *mocks.MockTenantRepository
	kitRepo       *mocks.MockKitRepository
	creativeRepo  *mocks.MockCreativeRepository
	attendantRepo *mocks.MockAttendantRepository
	saleRepo      *mocks.MockSaleRepository
	service       *Service
}

func newFixture(t *testing.T, webhookSecret string) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		tenantRepo:    mocks.NewMockTenantRepository(ctrl),
		kitRepo:       mocks.NewMockKitRepository(ctrl),
		creativeRepo:  mocks.NewMockCreativeRepository(ctrl),
		attendantRepo: mocks.NewMockAttendantRepository(ctrl),
		saleRepo:      mocks.NewMockSaleRepository(ctrl),
	}

	f.service = &Service{
		tenantRepo:    f.tenantRepo,
		kitRepo:       f.kitRepo,
		creativeRepo:  f.creativeRepo,
		attendantRepo: f.attendantRepo,
		saleRepo:      f.saleRepo,
		locker:        cache.NewLocalLocker(),
		metricsCache:  cache.NopMetricsCache{},
		webhookSecret: webhookSecret,
		now:           func() time.Time { return fixedNow },
	}

	return f
}

func activeTenant() *domain.Tenant {
	return &domain.Tenant{ID: "t1", Name: "Loja", Active: true}
}

func kitK3M() *domain.Kit {
	return &domain.Kit{ID: "kit-k3m", TenantID: "t1", Name: "Kit 3 Meses", Code: "K3M", PercentageCommission: 10, Active: true}
}

func creativeV1() *domain.Creative {
	return &domain.Creative{ID: "cr-v1", TenantID: "t1", Name: "V1", Campaign: "Black Friday", Status: domain.CreativeStatusApproved}
}

func attendantISA() *domain.Attendant {
	return &domain.Attendant{ID: "att-isa", TenantID: "t1", Name: "Isa", Code: "ISA", Active: true}
}

func x1Payload(status string) *domain.WebhookPayload {
	return &domain.WebhookPayload{
		TenantID:     "t1",
		OrderID:      "X1",
		Status:       status,
		Product:      "K3M",
		Value:        197,
		UTMAttendant: "isa",
		UTMContent:   "V1",
	}
}

// expectResolution prepara a resolução padrão de tenant, kit, criativo e atendente.
func (f *fixture) expectResolution(attendant *domain.Attendant) {
	f.tenantRepo.EXPECT().GetByID(gomock.Any(), "t1").Return(activeTenant(), nil).AnyTimes()
	f.kitRepo.EXPECT().ListByTenant(gomock.Any(), "t1").Return([]*domain.Kit{kitK3M()}, nil).AnyTimes()
	f.creativeRepo.EXPECT().GetByName(gomock.Any(), "t1", "V1").Return(creativeV1(), nil).AnyTimes()
	f.attendantRepo.EXPECT().GetByCode(gomock.Any(), "t1", "isa").Return(attendant, nil).AnyTimes()
}

// memoryStore simula a tabela de vendas com a unicidade por pedido.
type memoryStore struct {
	sales   map[string]*domain.Sale
	history map[string][]domain.StatusChange
}

func newMemoryStore(f *fixture) *memoryStore {
	store := &memoryStore{
		sales:   map[string]*domain.Sale{},
		history: map[string][]domain.StatusChange{},
	}

	f.saleRepo.EXPECT().GetByExternalID(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tenantID, orderID string) (*domain.Sale, error) {
			sale, ok := store.sales[tenantID+"/"+orderID]
			if !ok {
				return nil, nil
			}
			copied := *sale
			copied.History = nil
			return &copied, nil
		}).AnyTimes()

	f.saleRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sale *domain.Sale) (bool, error) {
			key := sale.TenantID + "/" + sale.ExternalOrderID
			if _, exists := store.sales[key]; exists {
				return false, nil
			}
			copied := *sale
			store.sales[key] = &copied
			store.history[sale.ID] = append(store.history[sale.ID], sale.History...)
			return true, nil
		}).AnyTimes()

	f.saleRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sale *domain.Sale, changes []domain.StatusChange) error {
			copied := *sale
			store.sales[sale.TenantID+"/"+sale.ExternalOrderID] = &copied
			store.history[sale.ID] = append(store.history[sale.ID], changes...)
			return nil
		}).AnyTimes()

	return store
}

func TestReconcile_CenarioX1(t *testing.T) {
	f := newFixture(t, "")
	f.expectResolution(attendantISA())
	store := newMemoryStore(f)
	ctx := context.Background()

	result, err := f.service.Reconcile(ctx, x1Payload("paid"))
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.False(t, result.Unidentified)

	sale := store.sales["t1/X1"]
	require.NotNil(t, sale)
	assert.Equal(t, domain.SaleStatusPaid, sale.Status)
	assert.InDelta(t, 19.70, sale.Commission, 0.001)
	assert.False(t, sale.Unidentified)
	assert.Equal(t, "Black Friday", sale.CampaignCode)
	require.NotNil(t, sale.PaidAt)
	assert.Equal(t, fixedNow, *sale.PaidAt)
	assert.Equal(t, fixedNow, sale.ScheduledAt)

	history := store.history[sale.ID]
	require.Len(t, history, 1)
	assert.Equal(t, domain.SaleStatus(""), history[0].OldStatus)
	assert.Equal(t, domain.SaleStatusPaid, history[0].NewStatus)
	assert.Equal(t, domain.ChangeOriginWebhook, history[0].Origin)
	assert.Equal(t, WebhookActor, history[0].Actor)

	// reentrega com pagamento atrasado
	result, err = f.service.Reconcile(ctx, x1Payload("late-payment"))
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.Equal(t, sale.ID, result.SaleID)

	assert.Len(t, store.sales, 1)
	updated := store.sales["t1/X1"]
	assert.Equal(t, domain.SaleStatusLatePayment, updated.Status)
	assert.Equal(t, 0.0, updated.Commission)

	history = store.history[sale.ID]
	require.Len(t, history, 2)
	assert.Equal(t, domain.SaleStatusPaid, history[1].OldStatus)
	assert.Equal(t, domain.SaleStatusLatePayment, history[1].NewStatus)
}

func TestReconcile_ReentregaIdenticaNaoDuplica(t *testing.T) {
	f := newFixture(t, "")
	f.expectResolution(attendantISA())
	store := newMemoryStore(f)
	ctx := context.Background()

	first, err := f.service.Reconcile(ctx, x1Payload("AGENDADO"))
	require.NoError(t, err)

	second, err := f.service.Reconcile(ctx, x1Payload("AGENDADO"))
	require.NoError(t, err)

	assert.True(t, first.Created)
	assert.False(t, second.Created)
	assert.Equal(t, first.SaleID, second.SaleID)
	assert.Len(t, store.sales, 1)
	assert.Len(t, store.history[first.SaleID], 1)
	assert.Equal(t, 0.0, store.sales["t1/X1"].Commission)
}

func TestReconcile_InsercaoConcorrenteViraAtualizacao(t *testing.T) {
	f := newFixture(t, "")
	f.expectResolution(attendantISA())

	winner := &domain.Sale{
		ID:              "sale-1",
		TenantID:        "t1",
		ExternalOrderID: "X1",
		KitID:           "kit-k3m",
		Status:          domain.SaleStatusAwaitingPayment,
		Value:           197,
	}

	gomock.InOrder(
		f.saleRepo.EXPECT().GetByExternalID(gomock.Any(), "t1", "X1").Return(nil, nil),
		f.saleRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(false, nil),
		f.saleRepo.EXPECT().GetByExternalID(gomock.Any(), "t1", "X1").Return(winner, nil),
	)
	f.saleRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sale *domain.Sale, changes []domain.StatusChange) error {
			assert.Equal(t, "sale-1", sale.ID)
			require.Len(t, changes, 1)
			assert.Equal(t, domain.SaleStatusAwaitingPayment, changes[0].OldStatus)
			assert.Equal(t, domain.SaleStatusPaid, changes[0].NewStatus)
			return nil
		})

	result, err := f.service.Reconcile(context.Background(), x1Payload("pago"))
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.Equal(t, "sale-1", result.SaleID)
}

func TestReconcile_Identificacao(t *testing.T) {
	tests := []struct {
		name             string
		payload          func() *domain.WebhookPayload
		attendant        *domain.Attendant
		wantUnidentified bool
	}{
		{
			name: "sem código de criativo",
			payload: func() *domain.WebhookPayload {
				p := x1Payload("paid")
				p.UTMContent = ""
				p.UTMCampaign = "BF"
				return p
			},
			attendant:        attendantISA(),
			wantUnidentified: true,
		},
		{
			name: "atendente não encontrado",
			payload: func() *domain.WebhookPayload {
				return x1Payload("paid")
			},
			attendant:        nil,
			wantUnidentified: true,
		},
		{
			name: "atendente sem autorização para o criativo",
			payload: func() *domain.WebhookPayload {
				return x1Payload("paid")
			},
			attendant: func() *domain.Attendant {
				a := attendantISA()
				a.AuthorizedCreativeIDs = []string{"cr-outro"}
				return a
			}(),
			wantUnidentified: true,
		},
		{
			name: "atendente autorizado para o criativo",
			payload: func() *domain.WebhookPayload {
				return x1Payload("paid")
			},
			attendant: func() *domain.Attendant {
				a := attendantISA()
				a.AuthorizedCreativeIDs = []string{"cr-v1"}
				return a
			}(),
			wantUnidentified: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "")
			f.expectResolution(tt.attendant)
			store := newMemoryStore(f)

			result, err := f.service.Reconcile(context.Background(), tt.payload())
			require.NoError(t, err)
			assert.Equal(t, tt.wantUnidentified, result.Unidentified)
			assert.Equal(t, tt.wantUnidentified, store.sales["t1/X1"].Unidentified)

			if tt.attendant != nil {
				// atendente fica vinculado mesmo sem autorização
				require.NotNil(t, store.sales["t1/X1"].AttendantID)
				assert.Equal(t, "att-isa", *store.sales["t1/X1"].AttendantID)
			}
		})
	}
}

func TestReconcile_AtualizacaoPreservaAtribuicao(t *testing.T) {
	f := newFixture(t, "")
	f.expectResolution(nil)

	attendantID := "att-bia"
	existing := &domain.Sale{
		ID:              "sale-1",
		TenantID:        "t1",
		ExternalOrderID: "X1",
		AttendantID:     &attendantID,
		KitID:           "kit-k3m",
		Status:          domain.SaleStatusAwaitingPayment,
		CampaignCode:    "Campanha Antiga",
		Value:           197,
	}

	bia := &domain.Attendant{
		ID:        "att-bia",
		Overrides: []domain.CommissionOverride{{KitID: "kit-k3m", Type: domain.CommissionTypeFixed, Value: 40}},
	}

	f.saleRepo.EXPECT().GetByExternalID(gomock.Any(), "t1", "X1").Return(existing, nil)
	f.attendantRepo.EXPECT().GetByID(gomock.Any(), "t1", "att-bia").Return(bia, nil)
	f.saleRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sale *domain.Sale, changes []domain.StatusChange) error {
			assert.Equal(t, "att-bia", *sale.AttendantID)
			assert.Equal(t, "cr-v1", *sale.CreativeID)
			assert.Equal(t, "Campanha Antiga", sale.CampaignCode)
			assert.InDelta(t, 40.0, sale.Commission, 0.001)
			assert.False(t, sale.Unidentified)
			require.NotNil(t, sale.PaidAt)
			assert.Len(t, changes, 1)
			return nil
		})

	_, err := f.service.Reconcile(context.Background(), x1Payload("paid"))
	require.NoError(t, err)
}

func TestReconcile_DataDePagamentoDoPayload(t *testing.T) {
	f := newFixture(t, "")
	f.expectResolution(attendantISA())
	store := newMemoryStore(f)

	payload := x1Payload("paid")
	payload.PaymentDate = "2025-03-01 10:30:00"

	_, err := f.service.Reconcile(context.Background(), payload)
	require.NoError(t, err)

	paidAt := store.sales["t1/X1"].PaidAt
	require.NotNil(t, paidAt)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC), *paidAt)
}

func TestReconcile_DataDePagamentoSoValeParaVendaPaga(t *testing.T) {
	f := newFixture(t, "")
	f.expectResolution(attendantISA())
	store := newMemoryStore(f)
	ctx := context.Background()

	payload := x1Payload("AGENDADO")
	payload.PaymentDate = "2025-03-01 10:30:00"

	_, err := f.service.Reconcile(ctx, payload)
	require.NoError(t, err)
	assert.Nil(t, store.sales["t1/X1"].PaidAt)

	// reenvio ainda agendado não marca pagamento
	_, err = f.service.Reconcile(ctx, payload)
	require.NoError(t, err)
	assert.Nil(t, store.sales["t1/X1"].PaidAt)

	payload = x1Payload("paid")
	payload.PaymentDate = "2025-03-02 08:00:00"

	_, err = f.service.Reconcile(ctx, payload)
	require.NoError(t, err)

	paidAt := store.sales["t1/X1"].PaidAt
	require.NotNil(t, paidAt)
	assert.Equal(t, time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC), *paidAt)
}

func TestReconcile_Rejeicoes(t *testing.T) {
	secret := "segredo-do-tenant"

	tests := []struct {
		name     string
		secret   string
		setup    func(f *fixture)
		payload  func() *domain.WebhookPayload
		wantErr  error
		wantCode string
	}{
		{
			name:  "sem tenant",
			setup: func(f *fixture) {},
			payload: func() *domain.WebhookPayload {
				p := x1Payload("paid")
				p.TenantID = " "
				return p
			},
			wantErr:  ErrTenantRequired,
			wantCode: apiErrors.ErrMissingRequiredData,
		},
		{
			name: "tenant inexistente",
			setup: func(f *fixture) {
				f.tenantRepo.EXPECT().GetByID(gomock.Any(), "t1").Return(nil, nil)
			},
			payload:  func() *domain.WebhookPayload { return x1Payload("paid") },
			wantErr:  ErrTenantNotFound,
			wantCode: apiErrors.ErrResourceNotFound,
		},
		{
			name: "tenant desativado",
			setup: func(f *fixture) {
				tenant := activeTenant()
				tenant.Active = false
				f.tenantRepo.EXPECT().GetByID(gomock.Any(), "t1").Return(tenant, nil)
			},
			payload:  func() *domain.WebhookPayload { return x1Payload("paid") },
			wantErr:  ErrTenantDisabled,
			wantCode: apiErrors.ErrTenantDisabled,
		},
		{
			name:   "segredo global divergente",
			secret: "global",
			setup: func(f *fixture) {
				f.tenantRepo.EXPECT().GetByID(gomock.Any(), "t1").Return(activeTenant(), nil)
			},
			payload: func() *domain.WebhookPayload {
				p := x1Payload("paid")
				p.WebhookSecret = "errado"
				return p
			},
			wantErr:  ErrInvalidWebhookSecret,
			wantCode: apiErrors.ErrInvalidWebhookSecret,
		},
		{
			name:   "segredo do tenant tem precedência",
			secret: "global",
			setup: func(f *fixture) {
				tenant := activeTenant()
				tenant.WebhookSecret = &secret
				f.tenantRepo.EXPECT().GetByID(gomock.Any(), "t1").Return(tenant, nil)
			},
			payload: func() *domain.WebhookPayload {
				p := x1Payload("paid")
				p.WebhookSecret = "global"
				return p
			},
			wantErr:  ErrInvalidWebhookSecret,
			wantCode: apiErrors.ErrInvalidWebhookSecret,
		},
		{
			name: "status não reconhecido",
			setup: func(f *fixture) {
				f.tenantRepo.EXPECT().GetByID(gomock.Any(), "t1").Return(activeTenant(), nil)
			},
			payload:  func() *domain.WebhookPayload { return x1Payload("em_analise") },
			wantErr:  ErrUnrecognizedStatus,
			wantCode: apiErrors.ErrInvalidStatus,
		},
		{
			name: "tenant sem kits",
			setup: func(f *fixture) {
				f.tenantRepo.EXPECT().GetByID(gomock.Any(), "t1").Return(activeTenant(), nil)
				f.kitRepo.EXPECT().ListByTenant(gomock.Any(), "t1").Return([]*domain.Kit{}, nil)
			},
			payload:  func() *domain.WebhookPayload { return x1Payload("paid") },
			wantErr:  ErrNoKitsConfigured,
			wantCode: apiErrors.ErrNoKitsConfigured,
		},
		{
			name: "produto desconhecido não cai no primeiro kit",
			setup: func(f *fixture) {
				f.tenantRepo.EXPECT().GetByID(gomock.Any(), "t1").Return(activeTenant(), nil)
				f.kitRepo.EXPECT().ListByTenant(gomock.Any(), "t1").Return([]*domain.Kit{kitK3M()}, nil)
			},
			payload: func() *domain.WebhookPayload {
				p := x1Payload("paid")
				p.Product = "K12M"
				return p
			},
			wantErr:  ErrKitNotFound,
			wantCode: apiErrors.ErrKitNotFound,
		},
		{
			name: "falha de banco ao buscar tenant",
			setup: func(f *fixture) {
				f.tenantRepo.EXPECT().GetByID(gomock.Any(), "t1").Return(nil, errors.New("conexão recusada"))
			},
			payload:  func() *domain.WebhookPayload { return x1Payload("paid") },
			wantErr:  ErrDatabaseOperation,
			wantCode: apiErrors.ErrDatabaseOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.secret)
			tt.setup(f)

			result, err := f.service.Reconcile(context.Background(), tt.payload())
			assert.Nil(t, result)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var saleErr *SaleError
			require.ErrorAs(t, err, &saleErr)
			assert.Equal(t, tt.wantCode, saleErr.Code)
		})
	}
}

func TestReconcile_SegredoCorreto(t *testing.T) {
	f := newFixture(t, "global")
	f.expectResolution(attendantISA())
	newMemoryStore(f)

	payload := x1Payload("paid")
	payload.WebhookSecret = "global"

	result, err := f.service.Reconcile(context.Background(), payload)
	require.NoError(t, err)
	assert.True(t, result.Created)
}

func TestFindKit(t *testing.T) {
	kits := []*domain.Kit{
		{ID: "k1", Name: "Kit 3 Meses", Code: "K3M"},
		{ID: "k2", Name: "Kit 5 Meses", Code: "K5M"},
	}

	tests := []struct {
		name string
		ref  domain.KitReference
		want string
	}{
		{"por id", domain.KitReference{ID: "k2"}, "k2"},
		{"por código", domain.KitReference{Code: "k5m"}, "k2"},
		{"produto com o código", domain.KitReference{Name: "K3M"}, "k1"},
		{"por nome", domain.KitReference{Name: "kit 5 meses"}, "k2"},
		{"id desconhecido cai no código", domain.KitReference{ID: "x", Code: "K3M"}, "k1"},
		{"desconhecido", domain.KitReference{Name: "K12M"}, ""},
		{"vazio", domain.KitReference{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := findKit(kits, tt.ref)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.ID)
		})
	}
}
