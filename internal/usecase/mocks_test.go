package usecase_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"

	adapterRepo "github.com/fitrahmoef/Saintara-Mobile/internal/adapter/repository"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/provider"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/repository"
	"github.com/fitrahmoef/Saintara-Mobile/internal/testutil"
	"github.com/fitrahmoef/Saintara-Mobile/internal/usecase"
)

// MockGateway is a mock implementation of provider.PaymentGateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) OpenTransaction(ctx context.Context, req *provider.OpenTransactionRequest) (*provider.OpenTransactionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.OpenTransactionResponse), args.Error(1)
}

func (m *MockGateway) QueryStatus(ctx context.Context, transactionID string) (*provider.TransactionStatus, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.TransactionStatus), args.Error(1)
}

func (m *MockGateway) ParseNotification(payload []byte, headers http.Header) (*provider.Notification, error) {
	args := m.Called(payload, headers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Notification), args.Error(1)
}

func (m *MockGateway) Name() string {
	return "midtrans"
}

func (m *MockGateway) ClientKey() string {
	return "client-key"
}

// recordingPublisher captures published messages
type recordingPublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
}

type publishedMessage struct {
	Topic   string
	Key     string
	Message interface{}
}

func (p *recordingPublisher) Publish(_ context.Context, topic, key string, message interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, publishedMessage{Topic: topic, Key: key, Message: message})
	return nil
}

func (p *recordingPublisher) Close() error {
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages)
}

type fixture struct {
	db         *gorm.DB
	store      repository.Store
	publisher  *recordingPublisher
	events     *usecase.EventPublisher
	reconciler *usecase.ReconciliationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()
	db := testutil.NewDB(t)
	store := adapterRepo.NewStore(db, logger)
	publisher := &recordingPublisher{}
	events := usecase.NewEventPublisher(publisher, "saintara.events", logger)

	return &fixture{
		db:         db,
		store:      store,
		publisher:  publisher,
		events:     events,
		reconciler: usecase.NewReconciliationService(store, events, logger),
	}
}
