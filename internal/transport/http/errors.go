package http

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/pkg/committer"
)

var badRequestErrors = []error{
	domain.ErrEmptyOrder,
	domain.ErrInvalidContractStart,
	domain.ErrDuplicateOrderLine,
	domain.ErrBothSolidarityPrices,
	domain.ErrInvalidQuantity,
	domain.ErrInvalidSubscriptionEnd,
	domain.ErrUnknownDeliveryCycle,
}

// toHTTPError maps a use-case error onto a status code. Unexpected errors are logged
// and hidden behind a 500.
func (a *API) toHTTPError(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	switch {
	case domain.IsNotFound(err):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrAlreadyCancelled), errors.Is(err, committer.ErrVersionConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case domain.IsConfigurationError(err):
		a.logger.Error("configuration error", zap.Error(err))
		return echo.ErrInternalServerError
	default:
		a.logger.Error("request failed", zap.Error(err))
		return echo.ErrInternalServerError
	}
}

func badRequest(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}
