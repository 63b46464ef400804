package api

import (
	"errors"
	"net/http"
)

// UserMessage maps a classified error to a short human-readable string
// suitable for direct display. It is pure and total: every error maps to
// some non-empty message, unclassified errors included. A nil error maps
// to the empty string.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var ne *NetworkError
	if errors.As(err, &ne) {
		return "Could not reach the server. Check your connection and try again."
	}

	var ae *APIError
	if errors.As(err, &ae) {
		switch ae.Status {
		case http.StatusBadRequest:
			return "Invalid request. Please check your input."
		case http.StatusUnauthorized:
			return "Your session has expired. Please sign in again."
		case http.StatusForbidden:
			return "You are not authorized to perform this action."
		case http.StatusNotFound:
			return "The requested resource was not found."
		case http.StatusInternalServerError:
			return "Something went wrong on the server. Please try again later."
		}
	}

	return "An unexpected error occurred. Please try again."
}
