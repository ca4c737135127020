package contact

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockService(t *testing.T) (*ContactService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewContactService(NewContactRepo(sqlx.NewDb(db, "sqlmock"))), mock
}

func TestCreateRejectsDuplicatePhoneNumber(t *testing.T) {
	svc, mock := newMockService(t)
	workspaceID := uuid.New()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(workspaceID, "+15550001111").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := svc.Create(context.Background(), workspaceID, nil, &CreateContactRequest{
		Name:        "Dana",
		PhoneNumber: "+15550001111",
	})
	assert.ErrorIs(t, err, ErrPhoneNumberTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRequiresNameAndPhone(t *testing.T) {
	svc, _ := newMockService(t)

	_, err := svc.Create(context.Background(), uuid.New(), nil, &CreateContactRequest{Name: "  ", PhoneNumber: "+15550001111"})
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), uuid.New(), nil, &CreateContactRequest{Name: "Dana", PhoneNumber: ""})
	assert.Error(t, err)
}

func TestUpdateRejectsEmptyName(t *testing.T) {
	svc, mock := newMockService(t)
	id, workspaceID := uuid.New(), uuid.New()

	mock.ExpectQuery("SELECT(.|\n)*FROM contacts c").
		WithArgs(id, workspaceID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "workspace_id", "name", "phone_number", "email", "company", "tags", "notes", "created_by", "created_by_name", "created_by_email"}).
			AddRow(id, workspaceID, "Dana", "+15550001111", "dana@acme.test", "Acme", "{vip}", nil, nil, nil, nil))

	empty := "   "
	_, err := svc.Update(context.Background(), id, workspaceID, &UpdateContactRequest{Name: &empty})
	assert.Error(t, err)
}

func TestTrimTags(t *testing.T) {
	assert.Equal(t, pq.StringArray{"vip", "lead"}, trimTags([]string{" vip ", "", "lead", "  "}))
	assert.Equal(t, pq.StringArray{}, trimTags(nil))
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"vip", "lead"}, []string(splitTags("vip, lead")))
	assert.Empty(t, splitTags(" , ,"))
	assert.Empty(t, splitTags(""))
}
