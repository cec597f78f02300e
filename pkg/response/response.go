package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The API speaks the same wire format everywhere: success payloads are the
// resource (or a {message} body for write acknowledgements), validation
// failures list every violated rule in {errors}, and unexpected failures
// surface as {error}.

// JSON writes an arbitrary payload with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// Message writes a {"message": ...} body.
func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

// AbortMessage writes a {"message": ...} body and stops the handler chain.
func AbortMessage(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}

// ValidationErrors writes a 400 listing every violated rule, not just the first.
func ValidationErrors(c *gin.Context, msgs []string) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": msgs})
}

// InternalError writes a 500 with the error message surfaced verbatim.
func InternalError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
