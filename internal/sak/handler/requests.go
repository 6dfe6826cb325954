package handler

import (
	id "supstonad/pkg/domain"
	dErrors "supstonad/pkg/domain-errors"
)

// OpprettSakRequest is the body of POST /saker.
type OpprettSakRequest struct {
	Fnr string `json:"fnr" validate:"required"`

	parsedFnr id.Fnr
}

// Validate parses the fnr. Implements httputil.Validatable.
func (r *OpprettSakRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	fnr, err := id.ParseFnr(r.Fnr)
	if err != nil {
		return err
	}
	r.parsedFnr = fnr
	return nil
}

// ParsedFnr returns the validated fnr.
func (r *OpprettSakRequest) ParsedFnr() id.Fnr {
	return r.parsedFnr
}
