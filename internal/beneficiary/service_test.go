package beneficiary_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelines/remit/internal/beneficiary"
)

// fakeRepo is an in-memory Repository keyed by account number.
type fakeRepo struct {
	byAccount map[string]*beneficiary.Beneficiary
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byAccount: make(map[string]*beneficiary.Beneficiary)}
}

func (r *fakeRepo) CreateBeneficiary(_ context.Context, b *beneficiary.Beneficiary) error {
	b.ID = uuid.New()
	r.byAccount[b.AccountNumber] = b

	return nil
}

func (r *fakeRepo) GetBeneficiary(_ context.Context, id uuid.UUID) (*beneficiary.Beneficiary, error) {
	for _, b := range r.byAccount {
		if b.ID == id {
			return b, nil
		}
	}

	return nil, beneficiary.ErrNotFound
}

func (r *fakeRepo) ListBeneficiaries(_ context.Context) ([]*beneficiary.Beneficiary, error) {
	out := make([]*beneficiary.Beneficiary, 0, len(r.byAccount))
	for _, b := range r.byAccount {
		out = append(out, b)
	}

	return out, nil
}

func (r *fakeRepo) ExistsByAccountNumber(_ context.Context, accountNumber string) (bool, error) {
	_, ok := r.byAccount[accountNumber]
	return ok, nil
}

func TestService_Create(t *testing.T) {
	svc := beneficiary.NewService(newFakeRepo())

	t.Run("Success", func(t *testing.T) {
		b, err := svc.Create(context.Background(), beneficiary.CreateParams{
			Name:          "Amara Okafor",
			AccountNumber: "DE89370400440532013000",
			Country:       "DE",
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, b.ID)
	})

	t.Run("Incomplete", func(t *testing.T) {
		_, err := svc.Create(context.Background(), beneficiary.CreateParams{Name: "No Account"})
		assert.ErrorIs(t, err, beneficiary.ErrIncomplete)
	})
}

func TestService_ImportBatch(t *testing.T) {
	repo := newFakeRepo()
	svc := beneficiary.NewService(repo)

	_, err := svc.Create(context.Background(), beneficiary.CreateParams{
		Name:          "Existing",
		AccountNumber: "PT50000201231234567890154",
		Country:       "PT",
	})
	require.NoError(t, err)

	imported, skipped, err := svc.ImportBatch(context.Background(), []beneficiary.CreateParams{
		{Name: "New One", AccountNumber: "DE89370400440532013000", Country: "DE"},
		{Name: "Existing", AccountNumber: "PT50000201231234567890154", Country: "PT"}, // duplicate
		{Name: "Footer row"}, // incomplete
	})
	require.NoError(t, err)

	assert.Equal(t, 1, imported)
	assert.Equal(t, 2, skipped)
	assert.Len(t, repo.byAccount, 2)
}

func TestBeneficiary_Snapshot(t *testing.T) {
	b := &beneficiary.Beneficiary{
		ID:            uuid.New(),
		Name:          "Amara Okafor",
		AccountNumber: "DE89370400440532013000",
		BankName:      "Commerzbank",
		Country:       "DE",
		Currency:      "EUR",
	}

	snap := b.Snapshot()

	assert.Equal(t, b.Name, snap.Name)
	assert.Equal(t, b.AccountNumber, snap.AccountNumber)
	assert.True(t, snap.Complete())

	// The snapshot is detached: later edits to the beneficiary do not
	// reach it.
	b.AccountNumber = "changed"
	assert.Equal(t, "DE89370400440532013000", snap.AccountNumber)
}
