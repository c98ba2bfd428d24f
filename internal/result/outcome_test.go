package result

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"

	"github.com/joseph-ayodele/jobs-tracker/internal/common"
	"github.com/joseph-ayodele/jobs-tracker/internal/entity"
)

func TestOutcomeMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    Kind
		status  int
		code    codes.Code
		message string
	}{
		{"not found", common.NewNotFoundError("job", 12), KindNotFound, http.StatusNotFound, codes.NotFound, "job 12 not found"},
		{"validation", common.NewValidationError("title is required"), KindClientError, http.StatusBadRequest, codes.InvalidArgument, "title is required"},
		{"schema violation", common.NewSchemaViolationError("unknown field(s): salary"), KindClientError, http.StatusBadRequest, codes.InvalidArgument, "unknown field(s): salary"},
		{"persistence", common.NewPersistenceError("update job", errors.New("FATAL: terminating connection")), KindServerError, http.StatusInternalServerError, codes.Internal, "update job failed"},
		{"unknown", errors.New("panic in driver: secret dsn"), KindServerError, http.StatusInternalServerError, codes.Internal, "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := FromJob(nil, tt.err)
			assert.Equal(t, tt.kind, o.Kind)
			assert.Equal(t, tt.status, o.HTTPStatus())
			assert.Equal(t, tt.code, o.Code())
			assert.Equal(t, map[string]any{"error": tt.message}, o.Payload())
			assert.Equal(t, tt.err, o.Err)
		})
	}
}

func TestSuccessPayloads(t *testing.T) {
	job := &entity.Job{ID: 1, Company: "Acme"}

	o := FromJob(job, nil)
	assert.Equal(t, http.StatusOK, o.HTTPStatus())
	assert.NoError(t, o.GRPCError())
	assert.Same(t, job, o.Payload())

	o = FromJobs(nil, nil)
	assert.Equal(t, []*entity.Job{}, o.Payload())

	o = FromJobs([]*entity.Job{job}, nil)
	assert.Equal(t, []*entity.Job{job}, o.Payload())

	o = FromDelete(true, nil)
	assert.Equal(t, map[string]any{"success": true}, o.Payload())
	assert.Equal(t, codes.OK, o.Code())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "ok", KindOK.String())
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "client_error", KindClientError.String())
	assert.Equal(t, "server_error", KindServerError.String())
}
