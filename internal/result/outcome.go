// Package result shapes record store outcomes for transports.
package result

import (
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/joseph-ayodele/jobs-tracker/internal/common"
	"github.com/joseph-ayodele/jobs-tracker/internal/entity"
)

// Kind classifies an outcome.
type Kind int

const (
	KindOK Kind = iota
	KindNotFound
	KindClientError
	KindServerError
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindNotFound:
		return "not_found"
	case KindClientError:
		return "client_error"
	default:
		return "server_error"
	}
}

const opaqueServerMessage = "internal error"

// Outcome is a transport-agnostic store result. Exactly one of Job, Jobs or
// Deleted is meaningful when Kind is KindOK.
type Outcome struct {
	Kind    Kind
	Job     *entity.Job
	Jobs    []*entity.Job
	Deleted bool
	Message string
	Err     error
}

// FromJob wraps a single-record result.
func FromJob(job *entity.Job, err error) Outcome {
	if err != nil {
		return FromError(err)
	}
	return Outcome{Kind: KindOK, Job: job}
}

// FromJobs wraps a list result. A nil list becomes empty.
func FromJobs(jobs []*entity.Job, err error) Outcome {
	if err != nil {
		return FromError(err)
	}
	if jobs == nil {
		jobs = []*entity.Job{}
	}
	return Outcome{Kind: KindOK, Jobs: jobs}
}

// FromDelete wraps a delete result.
func FromDelete(ok bool, err error) Outcome {
	if err != nil {
		return FromError(err)
	}
	return Outcome{Kind: KindOK, Deleted: ok}
}

// FromError classifies err. Persistence and unknown failures keep an opaque
// message; the error itself stays on the outcome for logging.
func FromError(err error) Outcome {
	switch {
	case err == nil:
		return Outcome{Kind: KindOK}
	case common.IsNotFound(err):
		return Outcome{Kind: KindNotFound, Message: common.Message(err), Err: err}
	case common.IsValidation(err), common.IsSchemaViolation(err):
		return Outcome{Kind: KindClientError, Message: common.Message(err), Err: err}
	case common.IsPersistence(err):
		return Outcome{Kind: KindServerError, Message: common.Message(err), Err: err}
	default:
		return Outcome{Kind: KindServerError, Message: opaqueServerMessage, Err: err}
	}
}

// HTTPStatus maps the outcome onto an HTTP status code.
func (o Outcome) HTTPStatus() int {
	switch o.Kind {
	case KindOK:
		return http.StatusOK
	case KindNotFound:
		return http.StatusNotFound
	case KindClientError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GRPCError maps a failed outcome onto a gRPC status error, nil on success.
func (o Outcome) GRPCError() error {
	switch o.Kind {
	case KindOK:
		return nil
	case KindNotFound:
		return common.NotFoundError(o.Message)
	case KindClientError:
		return common.InvalidArgumentError(o.Message)
	default:
		return common.InternalError(o.Message)
	}
}

// Code returns the gRPC code of the outcome.
func (o Outcome) Code() codes.Code {
	return status.Code(o.GRPCError())
}

// Payload returns the JSON body for the outcome.
func (o Outcome) Payload() any {
	switch {
	case o.Kind != KindOK:
		return map[string]any{"error": o.Message}
	case o.Job != nil:
		return o.Job
	case o.Jobs != nil:
		return o.Jobs
	default:
		return map[string]any{"success": o.Deleted}
	}
}
