package handlers

import (
	"net/http"

	"gitlab.com/cse-2025.net/internal/handlers/response"
)

func ResponseWithJson(w http.ResponseWriter, statusCode int, data interface{}) {
	response.WriteJSON(w, statusCode, data)
}

func ResponseError(w http.ResponseWriter, message string, code int) {
	response.WriteError(w, response.ErrorMessage{Message: message, StatusCode: code})
}
