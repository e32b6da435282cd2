package handler

import (
	"errors"
	"fmt"
)

// Error exported by the handler package
var (
	ErrHandler            = errors.New("handler error")
	ErrInvalidQueryParams = fmt.Errorf("%w invalid query params", ErrHandler)
	ErrInternal           = fmt.Errorf("%w internal error", ErrHandler)
	ErrNotFound           = fmt.Errorf("%w not found", ErrHandler)
)

// apiError is shown to API clients as is and matches its kind with
// errors.Is.
type apiError struct {
	msg  string
	kind error
}

func (e *apiError) Error() string { return e.msg }
func (e *apiError) Unwrap() error { return e.kind }

var (
	errNoData           = &apiError{msg: "Nenhum dado encontrado", kind: ErrNotFound}
	errNoDownloadData   = &apiError{msg: "Nenhum dado para download", kind: ErrNotFound}
	errEndpointNotFound = &apiError{msg: "Endpoint não encontrado", kind: ErrNotFound}
	errBadRequest       = &apiError{msg: "Requisição inválida", kind: ErrInvalidQueryParams}
	errInternal         = &apiError{msg: "Erro interno do servidor", kind: ErrInternal}
)
