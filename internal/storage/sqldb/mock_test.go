package sqldb

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restaurante/backend/internal/models"
	"github.com/restaurante/backend/internal/storage"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWithDB(sqlx.NewDb(db, "sqlmock")), mock
}

func TestDeleteReportsMissingRow(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM Endereco").
		WithArgs("e1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.DeleteAddress(context.Background(), "e1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestItemWriteRollsBackWhenTotalFails(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO ItemPedido").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE Pedido").WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err := store.CreateOrderItem(context.Background(), &models.OrderItem{
		ID: "it1", OrderID: "o1", DishID: "p1", Quantity: 1, SubtotalCents: 100,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to refresh total")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListWrapsDriverErrors(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM Prato").WillReturnError(errors.New("connection reset"))

	_, err := store.ListDishes(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list Prato")
	assert.NotErrorIs(t, err, storage.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
