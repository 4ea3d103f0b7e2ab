package ordersserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	identityports "github.com/Apurer/go-gin-orders-api/internal/domains/identity/ports"
	ordersobs "github.com/Apurer/go-gin-orders-api/internal/domains/orders/adapters/observability"
	ordersapp "github.com/Apurer/go-gin-orders-api/internal/domains/orders/application"
	apierrors "github.com/Apurer/go-gin-orders-api/internal/shared/errors"
)

// problems maps orders and identity errors to RFC 7807 responses.
var problems = apierrors.NewChainedResponder("", mapOrdersError, mapIdentityError)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	problems.Respond(c, problem)
}

// respondError preserves the existing call sites while returning RFC 7807 responses.
func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	var problem apierrors.ProblemDetail
	switch status {
	case http.StatusBadRequest:
		problem = apierrors.ErrBadRequest.WithDetail(err.Error()).WithKind("validation_error")
	case http.StatusUnauthorized:
		problem = apierrors.ErrUnauthorized.WithDetail(err.Error()).WithKind("unauthorized")
	case http.StatusTooManyRequests:
		problem = apierrors.ErrTooManyRequests.WithDetail(err.Error()).WithKind("rate_limited")
	default:
		problem = apierrors.ErrInternal.WithDetail(apierrors.GenericInternalDetail).WithKind("internal")
	}
	respondProblem(c, problem)
}

// respondServiceError runs err through the mapper chain.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	problems.RespondError(c, err)
}

func mapOrdersError(err error) (apierrors.ProblemDetail, bool) {
	kind := ordersobs.Reason(err)
	switch kind {
	case "invalid_signature":
		// Never echo what the expected signature would have been.
		return apierrors.ErrBadRequest.WithDetail("payment signature verification failed").WithKind(kind), true
	case "duplicate_order":
		return apierrors.ErrConflict.WithDetail("an order for this payment has already been recorded").WithKind(kind), true
	case "total_mismatch", "invalid_quantity", "validation_error":
		return apierrors.ErrValidation.WithDetail(err.Error()).WithKind(kind), true
	case "invalid_item":
		problem := apierrors.ErrValidation.WithDetail(err.Error()).WithKind(kind)
		if ids := ordersapp.MissingItemIDs(err); len(ids) > 0 {
			problem = problem.WithExtension("missingItemIds", ids)
		}
		return problem, true
	case "payment_provider_timeout":
		return apierrors.ErrGatewayTimeout.WithDetail("payment provider did not respond in time").WithKind(kind), true
	case "payment_provider_error":
		problem := apierrors.ErrBadGateway.WithDetail("payment provider rejected the request").WithKind(kind)
		var providerErr *ordersapp.ProviderError
		if errors.As(err, &providerErr) {
			if providerErr.StatusCode != 0 {
				problem = problem.WithExtension("providerStatus", providerErr.StatusCode)
			}
			if providerErr.Code != "" {
				problem = problem.WithExtension("providerCode", providerErr.Code)
			}
			if providerErr.Description != "" {
				problem = problem.WithDetail(providerErr.Description)
			}
		}
		return problem, true
	case "storage_error":
		return apierrors.ErrInternal.WithDetail("order could not be stored").WithKind(kind), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapIdentityError(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, identityports.ErrUnauthorized) {
		return apierrors.ErrUnauthorized.WithDetail("missing or invalid bearer token").WithKind("unauthorized"), true
	}
	return apierrors.ProblemDetail{}, false
}
