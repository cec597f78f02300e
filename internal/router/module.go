package router

import "github.com/gin-gonic/gin"

// Module is a feature area of the API (auth, catalog, system) that hangs its
// routes off the shared root group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
