package service

import (
	"context"
	"testing"

	"wompi-checkout-api/internal/dto"
	"wompi-checkout-api/internal/model"
	"wompi-checkout-api/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newCustomerService(t *testing.T) (CustomerService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Customer{}))

	return NewCustomerService(repository.NewCustomerRepository(db)), db
}

func TestCreateCustomer(t *testing.T) {
	svc, _ := newCustomerService(t)

	resp, created, err := svc.Create(context.Background(), &dto.CreateCustomerRequest{
		Name:  "Ana Buyer",
		Email: "ana@example.com",
		Phone: "+573001112233",
	})
	require.NoError(t, err)

	assert.True(t, created)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "ana@example.com", resp.Email)
}

func TestCreateCustomerReturnsExistingByEmail(t *testing.T) {
	svc, _ := newCustomerService(t)

	first, created, err := svc.Create(context.Background(), &dto.CreateCustomerRequest{
		Name: "Ana Buyer", Email: "ana@example.com",
	})
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := svc.Create(context.Background(), &dto.CreateCustomerRequest{
		Name: "Someone Else", Email: "ana@example.com",
	})
	require.NoError(t, err)

	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ana Buyer", second.Name)
}

func TestCreateCustomerValidation(t *testing.T) {
	svc, _ := newCustomerService(t)

	_, _, err := svc.Create(context.Background(), &dto.CreateCustomerRequest{Email: "ana@example.com"})
	require.Error(t, err)
	assert.Equal(t, "validation_error", apperrKind(t, err))

	_, _, err = svc.Create(context.Background(), &dto.CreateCustomerRequest{Name: "Ana", Email: "not-an-email"})
	require.Error(t, err)
	assert.Equal(t, "validation_error", apperrKind(t, err))
}

func TestGetCustomerNotFound(t *testing.T) {
	svc, _ := newCustomerService(t)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, "not_found", apperrKind(t, err))
}
