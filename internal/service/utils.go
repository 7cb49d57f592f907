package service

import (
	"strconv"

	"github.com/cris6h16/notes-api/internal/apierror"
)

func outcome(apierr apierror.ErrorResponse) string {
	return strconv.Itoa(apierr.Code())
}
