package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/adaezeobi/wasoko-backend/api/middleware"
	pkgAuth "github.com/adaezeobi/wasoko-backend/pkg/auth"
	pkgerrors "github.com/adaezeobi/wasoko-backend/pkg/errors"
)

func actorID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return id, nil
}

func actorIsAdmin(r *http.Request) bool {
	return middleware.RoleFromContext(r.Context()) == pkgAuth.RoleAdmin
}
