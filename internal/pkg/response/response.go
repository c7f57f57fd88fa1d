package response

import (
	"errors"
	"net/http"

	xerrors "ezwallet-service/internal/pkg/errors"

	"github.com/gin-gonic/gin"
)

// RefreshedTokenKey is where the authentication middleware leaves its note
// after silently reissuing an access token. Data picks it up so every
// successful payload can surface it.
const RefreshedTokenKey = "refreshedTokenMessage"

type envelope struct {
	Data                  interface{} `json:"data"`
	RefreshedTokenMessage string      `json:"refreshedTokenMessage,omitempty"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Data sends a 200 response wrapping the payload, attaching the
// refreshed-token note when the middleware set one.
func Data(c *gin.Context, data interface{}) {
	DataStatus(c, http.StatusOK, data)
}

// DataStatus is Data with an explicit status code.
func DataStatus(c *gin.Context, status int, data interface{}) {
	c.JSON(status, envelope{
		Data:                  data,
		RefreshedTokenMessage: c.GetString(RefreshedTokenKey),
	})
}

// Message sends a 200 response whose payload is a single message field.
func Message(c *gin.Context, message string) {
	Data(c, gin.H{"message": message})
}

// Error sends a standardized error response and aborts the chain.
func Error(c *gin.Context, code int, message string) {
	c.Abort()
	c.JSON(code, errorBody{Error: message})
}

// ValidationError sends a 400 Bad Request response for invalid input.
func ValidationError(c *gin.Context) {
	Error(c, http.StatusBadRequest, "validation error")
}

// Unauthorized sends a 401 Unauthorized response.
func Unauthorized(c *gin.Context, cause string) {
	Error(c, http.StatusUnauthorized, cause)
}

// BadRequest sends a 400 Bad Request response.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// FromError maps a service failure onto the wire: invalid input becomes a
// 400 carrying its message, anything else a 500.
func FromError(c *gin.Context, err error) {
	if errors.Is(err, xerrors.ErrBadRequest) {
		BadRequest(c, err.Error())
		return
	}
	Internal(c, err)
}

// Internal sends a 500 response passing the underlying message through.
func Internal(c *gin.Context, err error) {
	msg := "internal server error"
	if err != nil {
		msg = err.Error()
	}
	Error(c, http.StatusInternalServerError, msg)
}
