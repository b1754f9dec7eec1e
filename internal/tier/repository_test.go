package tier

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTierMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func TestList_OrderedByMinXP(t *testing.T) {
	repo, mock, close := setupTierMock(t)
	defer close()

	rows := sqlmock.NewRows([]string{"id", "name", "min_xp", "multiplier", "unlock_price", "perk", "badge", "created_at"}).
		AddRow(1, "Newbie", 0, 1.0, 0, "", "seed", time.Now()).
		AddRow(2, "Player", 500, 1.2, 2000, "5% off", "sprout", time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, min_xp, multiplier, unlock_price, perk, badge, created_at FROM tiers ORDER BY min_xp ASC")).
		WillReturnRows(rows)

	tiers, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tiers, 2)
	assert.Equal(t, "Newbie", tiers[0].Name)
	assert.Equal(t, int64(500), tiers[1].MinXP)
}

func TestGetByName_NotFound(t *testing.T) {
	repo, mock, close := setupTierMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, min_xp, multiplier, unlock_price, perk, badge, created_at FROM tiers WHERE name = $1")).
		WithArgs("Ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByName(context.Background(), "Ghost")
	assert.ErrorIs(t, err, ErrTierNotFound)
}

func TestReplaceAll(t *testing.T) {
	repo, mock, close := setupTierMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tiers")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tiers (name, min_xp, multiplier, unlock_price, perk, badge) VALUES ($1, $2, $3, $4, $5, $6)")).
		WithArgs("Newbie", int64(0), 1.0, int64(0), "", "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tiers (name, min_xp, multiplier, unlock_price, perk, badge) VALUES ($1, $2, $3, $4, $5, $6)")).
		WithArgs("Player", int64(500), 1.2, int64(2000), "", "").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	err := repo.ReplaceAll(context.Background(), []Tier{
		{Name: "Newbie", MinXP: 0, Multiplier: 1.0},
		{Name: "Player", MinXP: 500, Multiplier: 1.2},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceAll_RejectsInvalidCatalog(t *testing.T) {
	repo, mock, close := setupTierMock(t)
	defer close()

	err := repo.ReplaceAll(context.Background(), []Tier{
		{Name: "Player", MinXP: 500, Multiplier: 1.2},
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
