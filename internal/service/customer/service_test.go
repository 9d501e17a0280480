package customer_test

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
	"github.com/vladislavdragonenkov/fulfillment/internal/service/customer"
	"github.com/vladislavdragonenkov/fulfillment/internal/storage/memory"
)

func newService() *customer.Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	store := memory.NewStore()
	return customer.NewService(store.CustomerRepository(), logger.WithField("test", "customer-service"))
}

func TestCreate_NormalizesAndStores(t *testing.T) {
	svc := newService()

	created, err := svc.Create(context.Background(), customer.CreateInput{
		Name:  "  Alice  ",
		Email: "  Alice@Example.COM ",
		Phone: "5551234567",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Alice", created.Name)
	require.Equal(t, "alice@example.com", created.Email)

	fetched, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, created.Email, fetched.Email)
}

func TestCreate_RejectsDuplicateEmail(t *testing.T) {
	svc := newService()

	_, err := svc.Create(context.Background(), customer.CreateInput{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), customer.CreateInput{Name: "Other", Email: "ALICE@example.com"})
	require.True(t, domain.IsValidation(err), "expected ValidationError, got %v", err)
	require.EqualError(t, err, "customer email already exists")
}

func TestCreate_RequiresNameAndEmail(t *testing.T) {
	svc := newService()

	_, err := svc.Create(context.Background(), customer.CreateInput{Email: "a@b.com"})
	require.True(t, domain.IsValidation(err))

	_, err = svc.Create(context.Background(), customer.CreateInput{Name: "Alice"})
	require.True(t, domain.IsValidation(err))
}

func TestUpdate_ChangesFieldsAndGuardsEmail(t *testing.T) {
	svc := newService()

	first, err := svc.Create(context.Background(), customer.CreateInput{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), customer.CreateInput{Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), first.ID, customer.UpdateInput{Name: "Alice Cooper", Phone: "111"})
	require.NoError(t, err)
	require.Equal(t, "Alice Cooper", updated.Name)
	require.Equal(t, "111", updated.Phone)
	require.Equal(t, "alice@example.com", updated.Email)

	_, err = svc.Update(context.Background(), first.ID, customer.UpdateInput{Email: "bob@example.com"})
	require.True(t, domain.IsValidation(err), "expected ValidationError, got %v", err)
}

func TestSearch_MatchesNameOrEmail(t *testing.T) {
	svc := newService()

	_, err := svc.Create(context.Background(), customer.CreateInput{Name: "Alice Cooper", Email: "alice@example.com"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), customer.CreateInput{Name: "Bob", Email: "bob@shop.dev"})
	require.NoError(t, err)

	byName, err := svc.Search(context.Background(), "cooper")
	require.NoError(t, err)
	require.Len(t, byName, 1)

	byEmail, err := svc.Search(context.Background(), "shop.dev")
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	require.Equal(t, "Bob", byEmail[0].Name)
}

func TestDelete_HidesCustomerAndFreesEmail(t *testing.T) {
	svc := newService()

	created, err := svc.Create(context.Background(), customer.CreateInput{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	_, err = svc.GetByID(context.Background(), created.ID)
	require.True(t, domain.IsNotFound(err), "expected NotFoundError, got %v", err)

	// Email удалённой записи свободен для повторной регистрации.
	_, err = svc.Create(context.Background(), customer.CreateInput{Name: "Alice Again", Email: "alice@example.com"})
	require.NoError(t, err)
}

func TestDelete_NotFound(t *testing.T) {
	svc := newService()

	err := svc.Delete(context.Background(), "missing")
	require.True(t, domain.IsNotFound(err), "expected NotFoundError, got %v", err)
}
