package server

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/jobs-tracker/internal/export"
	"github.com/joseph-ayodele/jobs-tracker/internal/jobs"
	"github.com/joseph-ayodele/jobs-tracker/internal/querybuilder"
	"github.com/joseph-ayodele/jobs-tracker/internal/record"
	"github.com/joseph-ayodele/jobs-tracker/internal/repository"
	"github.com/joseph-ayodele/jobs-tracker/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	svc    *jobs.Service
	router *gin.Engine
}

func newFixture(t *testing.T, policy record.ResultPolicy) *fixture {
	t.Helper()
	conn := testutil.CreateTestDB(t)
	logger := testutil.Logger()

	schema := record.MustNewSchema()
	builder, err := querybuilder.New(conn.Driver, schema)
	require.NoError(t, err)
	repo := repository.NewJobRepository(conn.SQL, builder, schema, logger)
	svc := jobs.NewService(repo, builder, schema, record.NewResultRegistry(nil), policy, logger)

	return &fixture{
		svc:    svc,
		router: NewRouter(svc, export.NewService(svc, logger), conn.SQL, logger),
	}
}
