package controllers

import (
	"net/http"

	"github.com/pgkim42/book-bean-frontend-sub000/api/responses"
	"github.com/pgkim42/book-bean-frontend-sub000/api/validators"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/logger"
)

type loginRequest struct {
	AccessToken string `json:"accessToken" validate:"required"`
}

// SessionStatus reports whether the shopper is signed in.
func SessionStatus(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := requestSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session.Status())
	}
}

// SessionLogin attaches a backend-issued access token to the shopper session.
func SessionLogin(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := requestSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := session.Login(r.Context(), payload.AccessToken)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if len(result.Wishlist.Failed) > 0 {
			responses.WriteSuccessNotice(w, result, "some wishlist items could not be moved to your account")
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func SessionLogout(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := requestSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := session.Logout(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session.Status())
	}
}
