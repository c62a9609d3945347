// Package auth contains the login and register handlers.
//
// Same factory/closure pattern as the student handlers. Note the status
// codes: login reports every rejection as 401, including malformed input,
// while register distinguishes 400 (invalid or duplicate) from nothing —
// those are the shapes the UI was written against.
package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"student-records/internal/storage"
	"student-records/internal/types"
	"student-records/internal/utils/response"
	"student-records/internal/validation"
)

// Login handles POST /api/login. Validates shape first, then requires an
// exact email+password match. No session or token is issued here — the
// client keeps its own flag.
func Login(store storage.CredentialStore, rules *validation.Rules) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("login attempt")

		var cred types.Credential
		if err := json.NewDecoder(r.Body).Decode(&cred); err != nil {
			response.WriteJSON(w, http.StatusUnauthorized,
				response.Message(validation.ErrCredentialsRequired.Error()))
			return
		}

		if err := rules.Credentials(cred); err != nil {
			response.WriteJSON(w, http.StatusUnauthorized, response.Message(err.Error()))
			return
		}

		err := store.Authenticate(cred.Email, cred.Password)
		if errors.Is(err, storage.ErrInvalidCredentials) {
			// One message whether the email is unknown or the password
			// wrong — never confirm which.
			response.WriteJSON(w, http.StatusUnauthorized,
				response.Message("Invalid email or password"))
			return
		}
		if err != nil {
			slog.Error("error reading credentials", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.Internal("Error reading users data", err))
			return
		}

		slog.Info("login successful", slog.String("email", cred.Email))
		response.WriteJSON(w, http.StatusOK, response.Message("Login successful"))
	}
}

// Register handles POST /api/register. Validates shape, rejects an email
// that is already registered, appends the credential otherwise.
func Register(store storage.CredentialStore, rules *validation.Rules) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("registration attempt")

		var cred types.Credential
		if err := json.NewDecoder(r.Body).Decode(&cred); err != nil {
			response.WriteJSON(w, http.StatusUnauthorized,
				response.Message(validation.ErrCredentialsRequired.Error()))
			return
		}

		if err := rules.Credentials(cred); err != nil {
			response.WriteJSON(w, http.StatusUnauthorized, response.Message(err.Error()))
			return
		}

		err := store.Register(cred)
		if errors.Is(err, storage.ErrEmailTaken) {
			response.WriteJSON(w, http.StatusBadRequest, response.Message("User already exists"))
			return
		}
		if err != nil {
			slog.Error("error writing credentials", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.Internal("Error reading or writing users data", err))
			return
		}

		slog.Info("user registered", slog.String("email", cred.Email))
		response.WriteJSON(w, http.StatusCreated, response.Message("User registered successfully"))
	}
}
