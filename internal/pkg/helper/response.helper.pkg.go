package helper

import (
	"net/http"
	types "readafrik-checkout/internal/common/type"
	"readafrik-checkout/internal/pkg/apperr"
	"readafrik-checkout/internal/pkg/logger"
)

// ParseResponse fills in the status code and client message of a service
// response from its error, and logs server-side failures.
func ParseResponse(r *types.Response) *types.Response {
	if r.Error != nil {
		if r.Code == 0 {
			r.Code = apperr.HTTPStatus(r.Error)
		}
		if r.Message == "" {
			r.Message = apperr.PublicMessage(r.Error, http.StatusText(r.Code))
		}
		if r.Code >= http.StatusInternalServerError {
			logger.Error.Printf("%d %s: %v", r.Code, r.Message, r.Error)
		} else {
			logger.Debug.Printf("%d %s: %v", r.Code, r.Message, r.Error)
		}
	}

	if r.Code == 0 {
		r.Code = http.StatusOK
	}

	return r
}
