package core

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"petpulse-backend-go/internal/models"
)

// MockUserRepository is a testify mock for db.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	var user *models.User
	if v := args.Get(0); v != nil {
		user = v.(*models.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	var user *models.User
	if v := args.Get(0); v != nil {
		user = v.(*models.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) GetByStripeCustomerID(ctx context.Context, customerID string) (*models.User, error) {
	args := m.Called(ctx, customerID)
	var user *models.User
	if v := args.Get(0); v != nil {
		user = v.(*models.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit int) ([]*models.User, error) {
	args := m.Called(ctx, limit)
	var users []*models.User
	if v := args.Get(0); v != nil {
		users = v.([]*models.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) SetSubscription(ctx context.Context, userID string, sub *models.SubscriptionRecord, isPremium bool) error {
	return m.Called(ctx, userID, sub, isPremium).Error(0)
}

func (m *MockUserRepository) ClearSubscription(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockUserRepository) SetPremiumGrant(ctx context.Context, userID string, granted bool) error {
	return m.Called(ctx, userID, granted).Error(0)
}

func (m *MockUserRepository) SetTrial(ctx context.Context, userID string, active bool, endDate *time.Time) error {
	return m.Called(ctx, userID, active, endDate).Error(0)
}

// MockBillingProvider is a testify mock for BillingProvider.
type MockBillingProvider struct {
	mock.Mock
}

func (m *MockBillingProvider) FindCustomerByEmail(ctx context.Context, email string) (*BillingCustomer, error) {
	args := m.Called(ctx, email)
	var cust *BillingCustomer
	if v := args.Get(0); v != nil {
		cust = v.(*BillingCustomer)
	}
	return cust, args.Error(1)
}

func (m *MockBillingProvider) ActiveSubscription(ctx context.Context, customerID string) (*BillingSubscription, error) {
	args := m.Called(ctx, customerID)
	var sub *BillingSubscription
	if v := args.Get(0); v != nil {
		sub = v.(*BillingSubscription)
	}
	return sub, args.Error(1)
}

// MockNotifier is a testify mock for ReconciliationNotifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) ScheduleReconciliation(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

// MockMailer is a testify mock for Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(recipient, subject, htmlBody string) error {
	return m.Called(recipient, subject, htmlBody).Error(0)
}

// MockPetRepository is a testify mock for db.PetRepository.
type MockPetRepository struct {
	mock.Mock
}

func (m *MockPetRepository) Create(ctx context.Context, pet *models.Pet) (string, error) {
	args := m.Called(ctx, pet)
	return args.String(0), args.Error(1)
}

func (m *MockPetRepository) GetByID(ctx context.Context, petID string) (*models.Pet, error) {
	args := m.Called(ctx, petID)
	var pet *models.Pet
	if v := args.Get(0); v != nil {
		pet = v.(*models.Pet)
	}
	return pet, args.Error(1)
}

func (m *MockPetRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Pet, error) {
	args := m.Called(ctx, ownerID)
	var pets []*models.Pet
	if v := args.Get(0); v != nil {
		pets = v.([]*models.Pet)
	}
	return pets, args.Error(1)
}

func (m *MockPetRepository) ListSharedWithVet(ctx context.Context, vetID string) ([]*models.Pet, error) {
	args := m.Called(ctx, vetID)
	var pets []*models.Pet
	if v := args.Get(0); v != nil {
		pets = v.([]*models.Pet)
	}
	return pets, args.Error(1)
}

func (m *MockPetRepository) Update(ctx context.Context, pet *models.Pet) error {
	return m.Called(ctx, pet).Error(0)
}

func (m *MockPetRepository) Delete(ctx context.Context, petID string) error {
	return m.Called(ctx, petID).Error(0)
}

func (m *MockPetRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	args := m.Called(ctx, ownerID)
	return args.Int(0), args.Error(1)
}

// MockHealthRecordRepository is a testify mock for db.HealthRecordRepository.
type MockHealthRecordRepository struct {
	mock.Mock
}

func (m *MockHealthRecordRepository) Create(ctx context.Context, record *models.HealthRecord) (string, error) {
	args := m.Called(ctx, record)
	return args.String(0), args.Error(1)
}

func (m *MockHealthRecordRepository) GetByID(ctx context.Context, petID, recordID string) (*models.HealthRecord, error) {
	args := m.Called(ctx, petID, recordID)
	var record *models.HealthRecord
	if v := args.Get(0); v != nil {
		record = v.(*models.HealthRecord)
	}
	return record, args.Error(1)
}

func (m *MockHealthRecordRepository) ListByPet(ctx context.Context, petID string, query models.ListHealthRecordsQuery) ([]*models.HealthRecord, error) {
	args := m.Called(ctx, petID, query)
	var records []*models.HealthRecord
	if v := args.Get(0); v != nil {
		records = v.([]*models.HealthRecord)
	}
	return records, args.Error(1)
}

func (m *MockHealthRecordRepository) Delete(ctx context.Context, petID, recordID string) error {
	return m.Called(ctx, petID, recordID).Error(0)
}

func (m *MockHealthRecordRepository) DeleteByPet(ctx context.Context, petID string) error {
	return m.Called(ctx, petID).Error(0)
}

// MockForumRepository is a testify mock for db.ForumRepository.
type MockForumRepository struct {
	mock.Mock
}

func (m *MockForumRepository) CreatePost(ctx context.Context, post *models.ForumPost) (string, error) {
	args := m.Called(ctx, post)
	return args.String(0), args.Error(1)
}

func (m *MockForumRepository) GetPost(ctx context.Context, postID string) (*models.ForumPost, error) {
	args := m.Called(ctx, postID)
	var post *models.ForumPost
	if v := args.Get(0); v != nil {
		post = v.(*models.ForumPost)
	}
	return post, args.Error(1)
}

func (m *MockForumRepository) ListPosts(ctx context.Context, category string, limit int) ([]*models.ForumPost, error) {
	args := m.Called(ctx, category, limit)
	var posts []*models.ForumPost
	if v := args.Get(0); v != nil {
		posts = v.([]*models.ForumPost)
	}
	return posts, args.Error(1)
}

func (m *MockForumRepository) DeletePost(ctx context.Context, postID string) error {
	return m.Called(ctx, postID).Error(0)
}

func (m *MockForumRepository) CreateReply(ctx context.Context, reply *models.ForumReply) (string, error) {
	args := m.Called(ctx, reply)
	return args.String(0), args.Error(1)
}

func (m *MockForumRepository) ListReplies(ctx context.Context, postID string) ([]*models.ForumReply, error) {
	args := m.Called(ctx, postID)
	var replies []*models.ForumReply
	if v := args.Get(0); v != nil {
		replies = v.([]*models.ForumReply)
	}
	return replies, args.Error(1)
}

// MockAuditRepository is a testify mock for db.AuditRepository.
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Create(ctx context.Context, entry models.AuditLog) error {
	return m.Called(ctx, entry).Error(0)
}

// MockSubscriptionService is a testify mock for SubscriptionService.
type MockSubscriptionService struct {
	mock.Mock
}

func (m *MockSubscriptionService) Resolve(ctx context.Context, userID, callerEmail string) models.SubscriptionStatus {
	args := m.Called(ctx, userID, callerEmail)
	return args.Get(0).(models.SubscriptionStatus)
}

func (m *MockSubscriptionService) Reconcile(ctx context.Context, userID string) models.SubscriptionStatus {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.SubscriptionStatus)
}

func (m *MockSubscriptionService) StartTrial(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	var user *models.User
	if v := args.Get(0); v != nil {
		user = v.(*models.User)
	}
	return user, args.Error(1)
}

func (m *MockSubscriptionService) CancelTrial(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}
