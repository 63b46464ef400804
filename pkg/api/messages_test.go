package api

import (
	"errors"
	"net/http"
	"testing"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{
			"network failure",
			&NetworkError{URL: "http://x", Err: errors.New("refused")},
			"Could not reach the server. Check your connection and try again.",
		},
		{
			"bad request",
			&APIError{Status: http.StatusBadRequest},
			"Invalid request. Please check your input.",
		},
		{
			"unauthorized",
			&APIError{Status: http.StatusUnauthorized},
			"Your session has expired. Please sign in again.",
		},
		{
			"forbidden",
			&APIError{Status: http.StatusForbidden},
			"You are not authorized to perform this action.",
		},
		{
			"not found",
			&APIError{Status: http.StatusNotFound},
			"The requested resource was not found.",
		},
		{
			"server error",
			&APIError{Status: http.StatusInternalServerError},
			"Something went wrong on the server. Please try again later.",
		},
		{
			"unmapped status",
			&APIError{Status: http.StatusTeapot},
			"An unexpected error occurred. Please try again.",
		},
		{
			"unclassified error",
			errors.New("anything"),
			"An unexpected error occurred. Please try again.",
		},
		{
			"wrapped network error",
			errors.Join(errors.New("ctx"), &NetworkError{Err: errors.New("dns")}),
			"Could not reach the server. Check your connection and try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsStatus(t *testing.T) {
	err := &APIError{Status: http.StatusNotFound}
	if !IsStatus(err, http.StatusNotFound) {
		t.Error("IsStatus() = false for matching status")
	}
	if IsStatus(err, http.StatusForbidden) {
		t.Error("IsStatus() = true for mismatched status")
	}
	if IsStatus(errors.New("x"), http.StatusNotFound) {
		t.Error("IsStatus() = true for non-API error")
	}
}

func TestStatusOf(t *testing.T) {
	if got := StatusOf(&APIError{Status: 404}); got != 404 {
		t.Errorf("StatusOf() = %d, want 404", got)
	}
	if got := StatusOf(errors.New("x")); got != 0 {
		t.Errorf("StatusOf() = %d, want 0", got)
	}
}
