package store

import (
	"context"
	"log/slog"
	"os"
	"testing"

	perrors "github.com/abgdnv/tienda/internal/errors"
	"github.com/abgdnv/tienda/internal/store/db"
	"github.com/abgdnv/tienda/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const skipIntegrationTests = "PRODUCT_SVC_SKIP_INTEGRATION_TESTS"

// PgStoreSuite is a test suite for the PgStore implementation.
type PgStoreSuite struct {
	suite.Suite
	pg     *testutil.Postgres
	store  *PgStore
	logger *slog.Logger
	ctx    context.Context
}

// SetupSuite starts PostgreSQL and applies the migrations.
func (s *PgStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var err error
	s.pg, err = testutil.StartPostgres(s.ctx, s.logger)
	require.NoError(s.T(), err, "Failed to start PostgreSQL")

	s.store = NewPgStore(s.pg.Pool)
	s.logger.Info("Initialization complete for PgStoreSuite")
}

// TearDownSuite cleans up resources after all tests in the suite have run.
func (s *PgStoreSuite) TearDownSuite() {
	s.logger.Info("Tearing down suite...")
	if s.pg != nil {
		s.pg.Close(s.ctx, s.logger)
	}
}

// SetupTest truncates the products table before each test.
func (s *PgStoreSuite) SetupTest() {
	require.NoError(s.T(), s.pg.Truncate(s.ctx), "Failed to truncate products table")
}

// TestPgStoreIntegration runs the PgStore integration tests.
func TestPgStoreIntegration(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	suite.Run(t, new(PgStoreSuite))
}

func (s *PgStoreSuite) createTestProduct(size, color int16, price string, description *string) *db.Product {
	s.T().Helper()
	p := &db.Product{Size: size, Color: color, Price: decimal.RequireFromString(price), Description: description}
	require.NoError(s.T(), s.store.Create(s.ctx, p), "createTestProduct helper failed to create product")
	return p
}

func (s *PgStoreSuite) TestCreate() {
	// given
	description := "linen shirt"
	p := &db.Product{Size: 2, Color: 4, Price: decimal.RequireFromString("19.99"), Description: &description}

	// when
	err := s.store.Create(s.ctx, p)

	// then
	require.NoError(s.T(), err)
	require.Equal(s.T(), int32(1), p.ID, "identity column should start at 1")

	found, err := s.store.FindByID(s.ctx, p.ID)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), found)
	require.Equal(s.T(), int16(2), found.Size)
	require.Equal(s.T(), int16(4), found.Color)
	require.True(s.T(), p.Price.Equal(found.Price), "price should round trip")
	require.Equal(s.T(), description, *found.Description)
}

func (s *PgStoreSuite) TestCreate_NullDescription() {
	p := s.createTestProduct(0, 0, "0", nil)

	found, err := s.store.FindByID(s.ctx, p.ID)
	require.NoError(s.T(), err)
	require.Nil(s.T(), found.Description)
	require.True(s.T(), decimal.Zero.Equal(found.Price))
}

func (s *PgStoreSuite) TestCreate_SchemaRejectsInvalidRows() {
	testCases := []struct {
		name    string
		product db.Product
	}{
		{name: "size out of range", product: db.Product{Size: 6, Color: 0, Price: decimal.Zero}},
		{name: "color out of range", product: db.Product{Size: 0, Color: 10, Price: decimal.Zero}},
		{name: "negative price", product: db.Product{Size: 0, Color: 0, Price: decimal.RequireFromString("-1")}},
	}
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			p := tc.product
			require.Error(s.T(), s.store.Create(s.ctx, &p))
		})
	}
}

func (s *PgStoreSuite) TestFindByID_NotFound() {
	found, err := s.store.FindByID(s.ctx, 12345)

	require.NoError(s.T(), err)
	require.Nil(s.T(), found)
}

func (s *PgStoreSuite) TestFindAll() {
	// given (empty table)
	all, err := s.store.FindAll(s.ctx)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), all)
	require.Empty(s.T(), all)

	first := s.createTestProduct(1, 1, "1.00", nil)
	second := s.createTestProduct(3, 3, "3.00", nil)

	// when
	all, err = s.store.FindAll(s.ctx)

	// then
	require.NoError(s.T(), err)
	require.Len(s.T(), all, 2)
	require.Equal(s.T(), first.ID, all[0].ID)
	require.Equal(s.T(), second.ID, all[1].ID)
}

func (s *PgStoreSuite) TestUpdate() {
	// given
	p := s.createTestProduct(0, 0, "10.00", nil)
	description := "updated"
	p.Size = 5
	p.Color = 9
	p.Price = decimal.RequireFromString("12.34")
	p.Description = &description

	// when
	err := s.store.Update(s.ctx, p)

	// then
	require.NoError(s.T(), err)
	found, err := s.store.FindByID(s.ctx, p.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), int16(5), found.Size)
	require.Equal(s.T(), int16(9), found.Color)
	require.Equal(s.T(), "12.34", found.Price.StringFixed(2))
	require.Equal(s.T(), description, *found.Description)
}

func (s *PgStoreSuite) TestUpdate_MissingRow() {
	err := s.store.Update(s.ctx, &db.Product{ID: 999, Price: decimal.Zero})

	require.ErrorIs(s.T(), err, perrors.ErrProductDoesNotExist)
}

func (s *PgStoreSuite) TestDeleteByID() {
	// given
	p := s.createTestProduct(2, 2, "2.00", nil)

	// when
	err := s.store.DeleteByID(s.ctx, p.ID)

	// then
	require.NoError(s.T(), err)
	found, err := s.store.FindByID(s.ctx, p.ID)
	require.NoError(s.T(), err)
	require.Nil(s.T(), found)

	// deleting a missing row is a no-op
	require.NoError(s.T(), s.store.DeleteByID(s.ctx, p.ID))
}

func (s *PgStoreSuite) TestPing() {
	require.NoError(s.T(), s.store.Ping(s.ctx))
}
