package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"sportsevents/apierr"
)

// fieldMessages maps a request struct field to the message shown when its
// binding rule fails.
type fieldMessages map[string]string

var (
	signupMessages = fieldMessages{
		"Name":       "Name is required",
		"RollNumber": "Roll number is required",
		"Course":     "Course is required",
		"Year":       "Year is required",
		"Email":      "A valid email is required",
		"Password":   "Password must be at least 6 characters",
	}
	loginMessages = fieldMessages{
		"Email":    "Email and password are required",
		"Password": "Email and password are required",
	}
	gameMessages = fieldMessages{
		"Name":     "Game name is required",
		"GameType": "Invalid game type",
	}
	registerMessages = fieldMessages{
		"GameID": "Game ID is required",
	}
)

// bindJSON binds and validates the request body into req. On failure it
// responds 400 with the message for the first failing field and returns false.
func bindJSON(c *gin.Context, req any, messages fieldMessages) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		if msg, ok := messages[fieldErrs[0].Field()]; ok {
			apierr.InvalidRequest(c, msg)
			return false
		}
	}
	apierr.InvalidRequest(c, "Invalid request body")
	return false
}
