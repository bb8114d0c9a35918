package dao_test

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fabrica-tour/api/internal/db"
	"github.com/fabrica-tour/api/internal/repository/dao"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		// Tests skip themselves without a database.
		os.Exit(m.Run())
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not construct docker pool: %v", err)
	}

	if err = pool.Client.Ping(); err != nil {
		log.Fatalf("could not connect to docker: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=testdb",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("could not start postgres: %v", err)
	}

	dsn := fmt.Sprintf("host=localhost port=%v user=postgres password=secret dbname=testdb sslmode=disable",
		resource.GetPort("5432/tcp"))

	if err = pool.Retry(func() error {
		testDB, err = db.OpenPostgresWithURL(dsn)
		if err != nil {
			return err
		}

		sqlDB, err := testDB.DB()
		if err != nil {
			return err
		}

		return sqlDB.Ping()
	}); err != nil {
		log.Fatalf("could not connect to postgres: %v", err)
	}

	if err = dao.InitTables(testDB); err != nil {
		log.Fatalf("could not migrate tables: %v", err)
	}

	code := m.Run()

	if err = pool.Purge(resource); err != nil {
		log.Fatalf("could not purge resource: %v", err)
	}

	os.Exit(code)
}

func createUser(t *testing.T, matricula string) dao.User {
	t.Helper()

	user, err := dao.NewUserDAO(testDB).Insert(context.Background(), dao.User{
		Matricula: matricula,
		Password:  "hash",
		Name:      "Test User",
		Role:      "user",
		IsActive:  true,
	})
	require.NoError(t, err)

	return user
}

func TestUserDAO_MatriculaUnique(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	userDAO := dao.NewUserDAO(testDB)
	ctx := context.Background()

	createUser(t, "dup-0001")

	_, err := userDAO.Insert(ctx, dao.User{
		Matricula: "dup-0001",
		Password:  "hash",
		Name:      "Other",
		Role:      "user",
	})

	assert.ErrorIs(t, err, dao.ErrUserMatriculaExists)
}

func TestUserDAO_UnknownGroupAssignment(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	userDAO := dao.NewUserDAO(testDB)
	ctx := context.Background()
	user := createUser(t, "group-0001")

	missing := uint(987654)
	err := userDAO.UpdateGroup(ctx, user.ID, &missing)
	assert.ErrorIs(t, err, dao.ErrGroupNotFound)

	// A dangling group_id through the general update fails the same way.
	user.GroupID = &missing
	_, err = userDAO.Update(ctx, user)
	assert.ErrorIs(t, err, dao.ErrGroupNotFound)

	group, err := dao.NewGroupDAO(testDB).Insert(ctx, dao.Group{Name: "Linha 1"})
	require.NoError(t, err)
	require.NoError(t, userDAO.UpdateGroup(ctx, user.ID, &group.ID))
}

func TestLedgerDAO_CreditAndDebit(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ledgerDAO := dao.NewLedgerDAO(testDB)
	ctx := context.Background()
	user := createUser(t, "ledger-0001")

	require.NoError(t, ledgerDAO.Credit(ctx, user.ID, 100))
	require.NoError(t, ledgerDAO.Credit(ctx, user.ID, 50))

	balance, err := ledgerDAO.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 150, balance.Points)

	require.NoError(t, ledgerDAO.Debit(ctx, user.ID, 120))

	balance, err = ledgerDAO.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, balance.Points)

	// A debit past the balance must fail and leave it untouched.
	err = ledgerDAO.Debit(ctx, user.ID, 31)
	assert.ErrorIs(t, err, dao.ErrInsufficientPoints)

	balance, err = ledgerDAO.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, balance.Points)
}

func TestLedgerDAO_ZeroBalanceForNewUser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ledgerDAO := dao.NewLedgerDAO(testDB)
	user := createUser(t, "ledger-0002")

	balance, err := ledgerDAO.FindByUserID(context.Background(), user.ID)

	require.NoError(t, err)
	assert.Equal(t, 0, balance.Points)
}

func TestLedgerDAO_RankIgnoresInactiveUsers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ledgerDAO := dao.NewLedgerDAO(testDB)
	userDAO := dao.NewUserDAO(testDB)
	ctx := context.Background()

	runner := createUser(t, "rank-0001")
	rival := createUser(t, "rank-0002")
	require.NoError(t, ledgerDAO.Credit(ctx, runner.ID, 1_000_000))
	require.NoError(t, ledgerDAO.Credit(ctx, rival.ID, 2_000_000))

	rank, points, total, err := ledgerDAO.RankOf(ctx, runner.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, rank)
	assert.Equal(t, 1_000_000, points)

	rival.IsActive = false
	_, err = userDAO.Update(ctx, rival)
	require.NoError(t, err)

	// Rank and total must agree with the ranking list once the rival is out.
	rank, _, totalAfter, err := ledgerDAO.RankOf(ctx, runner.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, rank)
	assert.Equal(t, total-1, totalAfter)

	top, err := ledgerDAO.Top(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, runner.ID, top[0].UserID)
}

func TestMissionDAO_CompleteOnce(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	missionDAO := dao.NewMissionDAO(testDB)
	ledgerDAO := dao.NewLedgerDAO(testDB)
	ctx := context.Background()
	user := createUser(t, "mission-0001")

	mission, err := missionDAO.Insert(ctx, dao.Mission{
		Title:  "Scan the assembly line",
		Type:   "task",
		Points: 40,
		Active: true,
	}, nil)
	require.NoError(t, err)

	completion, err := missionDAO.Complete(ctx, dao.MissionCompletion{
		UserID:    user.ID,
		MissionID: mission.ID,
		Points:    mission.Points,
		Answer:    "done",
	})
	require.NoError(t, err)
	assert.NotZero(t, completion.ID)

	balance, err := ledgerDAO.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, balance.Points)

	// A duplicate completion must neither insert nor credit.
	_, err = missionDAO.Complete(ctx, dao.MissionCompletion{
		UserID:    user.ID,
		MissionID: mission.ID,
		Points:    mission.Points,
		Answer:    "again",
	})
	assert.ErrorIs(t, err, dao.ErrMissionAlreadyCompleted)

	balance, err = ledgerDAO.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, balance.Points)
}

func TestPrizeDAO_Redeem(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	prizeDAO := dao.NewPrizeDAO(testDB)
	ledgerDAO := dao.NewLedgerDAO(testDB)
	ctx := context.Background()
	user := createUser(t, "prize-0001")

	prize, err := prizeDAO.Insert(ctx, dao.Prize{
		Name:       "Coffee mug",
		PointsCost: 60,
		Quantity:   1,
		Active:     true,
	}, nil)
	require.NoError(t, err)

	// Not enough points yet.
	_, err = prizeDAO.Redeem(ctx, user.ID, prize.ID, prize.PointsCost)
	assert.ErrorIs(t, err, dao.ErrInsufficientPoints)

	require.NoError(t, ledgerDAO.Credit(ctx, user.ID, 100))

	redemption, err := prizeDAO.Redeem(ctx, user.ID, prize.ID, prize.PointsCost)
	require.NoError(t, err)
	assert.Equal(t, 60, redemption.PointsSpent)

	balance, err := ledgerDAO.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, balance.Points)

	stored, err := prizeDAO.FindByID(ctx, prize.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Quantity)

	// Same prize twice is refused before stock is even checked.
	_, err = prizeDAO.Redeem(ctx, user.ID, prize.ID, prize.PointsCost)
	assert.ErrorIs(t, err, dao.ErrPrizeAlreadyRedeemed)

	// Out of stock for everyone else.
	other := createUser(t, "prize-0002")
	require.NoError(t, ledgerDAO.Credit(ctx, other.ID, 100))

	_, err = prizeDAO.Redeem(ctx, other.ID, prize.ID, prize.PointsCost)
	assert.ErrorIs(t, err, dao.ErrPrizeOutOfStock)
}
